package eiken

import "math"

// ScoreDifficulty は並び替え問題の難易度指数を [0,1] で返す。
//
//	0.4*(grammarTier/maxTier) + 0.3*(movables/maxMovables) + 0.2*tokenNorm + 0.1*(1 - anchors/tokens)
//
// tokenNorm は級のトークンレンジを [0,1] に線形正規化した値。
// 正規化定数はすべて GradeProfile から取るので、級ごとの分岐はない。
// 結果は小数第2位で丸める。
func ScoreDifficulty(tokenCount, anchorCount, movableCount int, grammarTier int, profile GradeProfile) float64 {
	if tokenCount <= 0 {
		return 0
	}

	span := profile.TokenCountRange.Max - profile.TokenCountRange.Min
	tokenNorm := 0.0
	if span > 0 {
		tokenNorm = clamp01(float64(tokenCount-profile.TokenCountRange.Min) / float64(span))
	}

	movableNorm := 0.0
	if profile.MaxMovables > 0 {
		movableNorm = math.Min(1, float64(movableCount)/float64(profile.MaxMovables))
	}

	grammarNorm := 0.0
	if profile.GrammarTier > 0 {
		grammarNorm = math.Min(1, float64(grammarTier)/float64(profile.GrammarTier))
	}

	anchorRatio := float64(anchorCount) / float64(tokenCount)

	index := 0.4*grammarNorm + 0.3*movableNorm + 0.2*tokenNorm + 0.1*(1-anchorRatio)

	return math.Round(clamp01(index)*100) / 100
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

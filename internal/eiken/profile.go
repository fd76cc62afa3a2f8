package eiken

import (
	"fmt"

	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
)

// ErrUnsupportedGrade は未知の級を指定した場合に返る。
var ErrUnsupportedGrade = fmt.Errorf("対応していない級です")

// Range は整数の下限・上限。
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FloatRange は難易度指数などの実数レンジ。
type FloatRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// VocabPolicy は語彙帯の許可・注意・禁止の3層。
type VocabPolicy struct {
	OK      []string `json:"bands_ok"`
	Caution []string `json:"bands_caution"`
	NG      []string `json:"bands_ng"`
}

// SyntaxPattern は並び替え問題で必須となる構文パターン。
type SyntaxPattern struct {
	Code        string
	Description string
}

// ReadingProfile は長文読解の本文仕様。
type ReadingProfile struct {
	WordMin             int
	WordMax             int
	ParagraphCount      int
	QuestionsPerPassage int
}

// GradeProfile は級ごとの構造的制約。プロセス起動時に定義される不変データで、
// プロンプト生成と難易度計算の両方がここを参照する。
type GradeProfile struct {
	Grade      models.Grade
	TargetCEFR string

	// 文・トークン長
	SentenceWordRange Range
	TokenCountRange   Range

	// 並び替え問題の構造制約
	AnchorMin       int
	MovableRange    Range
	MaxMovables     int
	GrammarTier     int
	Patterns        []SyntaxPattern
	RequiredGrammar []string
	BannedJumbled   []string
	Lexicon         string
	DifficultyRange *FloatRange

	// 文法・語彙ポリシー
	AllowedGrammar []string
	BannedGrammar  []string
	VocabPolicy    VocabPolicy
	Confusability  []string
	UniquenessRule string
	MaxClauses     int

	// 長文読解・英作文
	Reading        ReadingProfile
	EssayWordRange Range
}

// profileJSON は grade_profile ブロックとしてプロンプトへ埋め込む形。
// フィールド順が固定なのでプロンプトは決定的になる。
type profileJSON struct {
	Grade          string      `json:"grade"`
	TargetCEFR     string      `json:"target_cefr"`
	SentenceWords  Range       `json:"sentence_words"`
	AllowedGrammar []string    `json:"allowed_grammar"`
	BannedGrammar  []string    `json:"banned_grammar"`
	VocabPolicy    VocabPolicy `json:"vocab_policy"`
	Confusability  []string    `json:"distractor_confusability"`
	UniquenessRule string      `json:"uniqueness_rule"`
	MaxClauses     int         `json:"clauses_max"`
}

var profiles = map[models.Grade]GradeProfile{
	models.Grade5: {
		Grade:             models.Grade5,
		TargetCEFR:        "A1",
		SentenceWordRange: Range{8, 12},
		TokenCountRange:   Range{6, 8},
		AnchorMin:         3,
		MovableRange:      Range{1, 1},
		MaxMovables:       1,
		GrammarTier:       1,
		BannedJumbled:     []string{"受動態", "完了形", "関係代名詞", "分詞構文"},
		AllowedGrammar:    []string{"be動詞/一般動詞（現在）", "can", "前置詞 in/on/at", "現在進行形", "過去形（基本）"},
		BannedGrammar:     []string{"受動態", "完了形", "関係代名詞", "分詞構文", "比較級"},
		VocabPolicy: VocabPolicy{
			OK:      []string{"高頻度日常語彙"},
			Caution: []string{"基本句動詞"},
			NG:      []string{"専門語", "低頻度イディオム"},
		},
		Confusability:  []string{"三単現", "時制ズレ", "前置詞ズレ"},
		UniquenessRule: "並べ替えは唯一解。句読点と限定詞で多解を封じる。",
		MaxClauses:     1,
		Reading:        ReadingProfile{140, 220, 2, 3},
		EssayWordRange: Range{30, 50},
	},
	models.Grade4: {
		Grade:             models.Grade4,
		TargetCEFR:        "A1+",
		SentenceWordRange: Range{10, 15},
		TokenCountRange:   Range{7, 9},
		AnchorMin:         3,
		MovableRange:      Range{1, 2},
		MaxMovables:       2,
		GrammarTier:       2,
		BannedJumbled:     []string{"完了形", "複雑受動態", "関係代名詞"},
		AllowedGrammar:    []string{"現在進行形", "過去（規則動詞中心）", "頻度副詞", "will", "比較級（基本）"},
		BannedGrammar:     []string{"受動態(複雑)", "完了形", "関係代名詞", "分詞構文"},
		VocabPolicy: VocabPolicy{
			OK:      []string{"高頻度日常語彙", "基本句動詞"},
			Caution: []string{"中頻度語彙"},
			NG:      []string{"専門語"},
		},
		Confusability:  []string{"時制ズレ", "語順ズレ", "比較級ズレ"},
		UniquenessRule: "this/these等は片方のみ使用。",
		MaxClauses:     2,
		Reading:        ReadingProfile{140, 220, 2, 3},
		EssayWordRange: Range{30, 50},
	},
	models.Grade3: {
		Grade:             models.Grade3,
		TargetCEFR:        "A2",
		SentenceWordRange: Range{12, 18},
		TokenCountRange:   Range{8, 10},
		AnchorMin:         2,
		MovableRange:      Range{2, 2},
		MaxMovables:       2,
		GrammarTier:       3,
		BannedJumbled:     []string{"分詞構文", "高度倒置"},
		AllowedGrammar:    []string{"because/if節", "比較級/最上級", "be going to", "現在完了形", "受動態（基本）", "関係代名詞that", "不定詞/動名詞"},
		BannedGrammar:     []string{"分詞構文", "高度な倒置", "関係代名詞の省略", "仮定法"},
		VocabPolicy: VocabPolicy{
			OK:      []string{"中頻度語彙", "句動詞"},
			Caution: []string{"高頻度語彙"},
			NG:      []string{"専門語", "超低頻度語"},
		},
		Confusability:  []string{"時制ズレ", "比較級ズレ", "語法ズレ", "前置詞ズレ"},
		UniquenessRule: "because/if節の位置と時制で多解を封じる。",
		MaxClauses:     3,
		Reading:        ReadingProfile{140, 220, 2, 4},
		EssayWordRange: Range{30, 50},
	},
	models.GradePre2: {
		Grade:             models.GradePre2,
		TargetCEFR:        "A2+/B1-",
		SentenceWordRange: Range{12, 18},
		TokenCountRange:   Range{12, 16},
		AnchorMin:         2,
		MovableRange:      Range{2, 3},
		MaxMovables:       3,
		GrammarTier:       4,
		Patterns: []SyntaxPattern{
			{"P1", "受動態 (現在/過去) ※完了形は不可"},
			{"P2", "to不定詞（副詞的目的/結果） ※「to + 動詞原形」の一塊"},
			{"P3", "that節の目的語（think/say/know + that + SV）※関係代名詞ではない"},
		},
		BannedJumbled:   []string{"現在完了", "過去完了", "関係代名詞", "関係副詞", "高度な倒置", "分詞構文の多重化", "学術語"},
		Lexicon:         "高頻度語(NGSL 1–2000相当)中心",
		DifficultyRange: &FloatRange{0.54, 0.62},
		AllowedGrammar:  []string{"受動態(過去/現在)", "不定詞/動名詞", "関係代名詞 that/which"},
		BannedGrammar:   []string{"仮定法過去完了", "分詞構文の多重化", "高度な倒置"},
		VocabPolicy: VocabPolicy{
			OK:      []string{"コロケーション/句動詞"},
			Caution: []string{"中頻度語彙"},
			NG:      []string{"専門語"},
		},
		Confusability:  []string{"語法ズレ", "前置詞ズレ"},
		UniquenessRule: "関係代名詞の先行詞で多解を封じる。",
		MaxClauses:     3,
		Reading:        ReadingProfile{220, 350, 3, 4},
		EssayWordRange: Range{50, 70},
	},
	models.Grade2: {
		Grade:             models.Grade2,
		TargetCEFR:        "B1",
		SentenceWordRange: Range{12, 18},
		TokenCountRange:   Range{13, 18},
		AnchorMin:         2,
		MovableRange:      Range{3, 5},
		MaxMovables:       5,
		GrammarTier:       5,
		Patterns: []SyntaxPattern{
			{"Q1", "現在完了 + 期間/起点句（for/since〜）※完了の語順固定"},
			{"Q2", "制限用法の関係代名詞（that/who/which）※非限定(カンマ)は禁止"},
			{"Q3", "Wh疑問 + 助動/Do系の倒置（必要に応じて受動/完了を含んでも良い）"},
		},
		BannedJumbled:   []string{"that節(目的語)のみの文", "受動だけ/不定詞だけの文", "過去完了", "分詞構文の連鎖", "学術語"},
		Lexicon:         "NGSL 1–2800まで許可（専門語NG）",
		DifficultyRange: &FloatRange{0.64, 0.76},
		AllowedGrammar:  []string{"現在完了(継続/経験/完了)", "受動", "分詞構文(単純)"},
		BannedGrammar:   []string{"仮定法過去完了(高度)", "関係副詞の多重入れ子"},
		VocabPolicy: VocabPolicy{
			OK:      []string{"一般的語彙"},
			Caution: []string{"中頻度語彙"},
			NG:      []string{"専門語"},
		},
		Confusability:  []string{"完了形ズレ", "受動態ズレ"},
		UniquenessRule: "完了形の時間表現で多解を封じる。",
		MaxClauses:     4,
		Reading:        ReadingProfile{350, 550, 3, 5},
		EssayWordRange: Range{80, 120},
	},
	models.GradePre1: {
		Grade:             models.GradePre1,
		TargetCEFR:        "B2",
		SentenceWordRange: Range{15, 22},
		TokenCountRange:   Range{14, 19},
		AnchorMin:         1,
		MovableRange:      Range{3, 5},
		MaxMovables:       5,
		GrammarTier:       6,
		RequiredGrammar:   []string{"分詞修飾", "非定形節", "前置詞残置"},
		BannedJumbled:     []string{"C1相当の学術長文構文"},
		AllowedGrammar:    []string{"複文(従属節)の拡張", "抽象話題", "コロケーション強化"},
		BannedGrammar:     []string{"C1相当の学術長文構文(ここでは不可)"},
		VocabPolicy: VocabPolicy{
			OK:      []string{"抽象語彙/学術寄り"},
			Caution: []string{"高頻度語彙"},
			NG:      []string{"超低頻度語"},
		},
		Confusability:  []string{"コロケーションズレ", "抽象度ズレ"},
		UniquenessRule: "抽象概念の具体例で多解を封じる。",
		MaxClauses:     5,
		Reading:        ReadingProfile{600, 800, 4, 5},
		EssayWordRange: Range{100, 140},
	},
	models.Grade1: {
		Grade:             models.Grade1,
		TargetCEFR:        "C1",
		SentenceWordRange: Range{18, 28},
		TokenCountRange:   Range{15, 20},
		AnchorMin:         1,
		MovableRange:      Range{4, 6},
		MaxMovables:       6,
		GrammarTier:       7,
		RequiredGrammar:   []string{"高度な分詞構文", "複雑な関係節", "倒置構文"},
		BannedJumbled:     []string{"C2相当の超高度構文"},
		AllowedGrammar:    []string{"高度な従属節", "慣用表現", "抽象的・学術寄り語彙"},
		BannedGrammar:     []string{"C2相当の専門領域の超低頻度語"},
		VocabPolicy: VocabPolicy{
			OK:      []string{"学術語彙/複雑な表現"},
			Caution: []string{"中頻度語彙"},
			NG:      []string{"超専門語"},
		},
		Confusability:  []string{"慣用表現ズレ", "抽象度ズレ"},
		UniquenessRule: "高度な構文の論理関係で多解を封じる。",
		MaxClauses:     6,
		Reading:        ReadingProfile{800, 1000, 4, 5},
		EssayWordRange: Range{170, 230},
	},
}

// Lookup は級に対応するプロファイルを返す。
func Lookup(grade models.Grade) (GradeProfile, error) {
	p, ok := profiles[grade]
	if !ok {
		return GradeProfile{}, fmt.Errorf("%w: %q", ErrUnsupportedGrade, grade)
	}
	return p, nil
}

// DifficultyBandFor は級を3段階の難易度帯へ写す。
func DifficultyBandFor(grade models.Grade) models.DifficultyBand {
	switch grade {
	case models.Grade5, models.Grade4, models.Grade3:
		return models.BandBeginner
	case models.GradePre2, models.Grade2:
		return models.BandIntermediate
	case models.GradePre1, models.Grade1:
		return models.BandAdvanced
	default:
		return models.BandIntermediate
	}
}

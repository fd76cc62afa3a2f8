package eiken

import (
	"testing"

	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
)

func TestScoreDifficulty_Pre2Target(t *testing.T) {
	p, err := Lookup(models.GradePre2)
	if err != nil {
		t.Fatal(err)
	}

	// 14トークン・アンカー2・可動要素3・tier4:
	// 0.4*1 + 0.3*1 + 0.2*0.5 + 0.1*(1 - 2/14) = 0.8857... → 0.89
	got := ScoreDifficulty(14, 2, 3, 4, p)
	if got != 0.89 {
		t.Fatalf("ScoreDifficulty = %v, want 0.89", got)
	}
}

func TestScoreDifficulty_Bounds(t *testing.T) {
	for _, grade := range models.Grades {
		p, _ := Lookup(grade)
		for tokens := p.TokenCountRange.Min; tokens <= p.TokenCountRange.Max; tokens++ {
			for movables := 0; movables <= p.MaxMovables+2; movables++ {
				got := ScoreDifficulty(tokens, 2, movables, p.GrammarTier, p)
				if got < 0 || got > 1 {
					t.Fatalf("%s: index %v out of [0,1] (tokens=%d movables=%d)", grade, got, tokens, movables)
				}
			}
		}
	}
}

func TestScoreDifficulty_MonotoneInMovables(t *testing.T) {
	p, _ := Lookup(models.Grade2)
	prev := -1.0
	for movables := 0; movables <= p.MaxMovables; movables++ {
		got := ScoreDifficulty(15, 2, movables, p.GrammarTier, p)
		if got < prev {
			t.Fatalf("index decreased when movables went to %d: %v < %v", movables, got, prev)
		}
		prev = got
	}
}

func TestScoreDifficulty_MonotoneInTokens(t *testing.T) {
	p, _ := Lookup(models.Grade2)
	prev := -1.0
	for tokens := p.TokenCountRange.Min; tokens <= p.TokenCountRange.Max; tokens++ {
		got := ScoreDifficulty(tokens, 0, 3, p.GrammarTier, p)
		if got < prev {
			t.Fatalf("index decreased at %d tokens: %v < %v", tokens, got, prev)
		}
		prev = got
	}
}

func TestScoreDifficulty_MoreAnchorsEasier(t *testing.T) {
	p, _ := Lookup(models.GradePre2)
	few := ScoreDifficulty(14, 1, 3, 4, p)
	many := ScoreDifficulty(14, 4, 3, 4, p)
	if many >= few {
		t.Fatalf("more anchors should lower the index: %v >= %v", many, few)
	}
}

func TestScoreDifficulty_ZeroTokens(t *testing.T) {
	p, _ := Lookup(models.Grade5)
	if got := ScoreDifficulty(0, 0, 0, 1, p); got != 0 {
		t.Fatalf("ScoreDifficulty with zero tokens = %v, want 0", got)
	}
}

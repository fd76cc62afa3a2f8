package eiken

import (
	"testing"

	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
)

func TestExtractJSONSpan(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare json", `{"a":1}`, `{"a":1}`, true},
		{"prose around", "以下が結果です。\n```json\n{\"a\":1}\n```\nどうぞ。", `{"a":1}`, true},
		{"greedy outer span", `x {"a":{"b":2}} y`, `{"a":{"b":2}}`, true},
		{"no braces", "sorry, I cannot do that", "", false},
		{"close before open", "} then {", "", false},
		{"empty", "", "", false},
	}
	for _, tc := range cases {
		got, ok := ExtractJSONSpan(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("%s: ExtractJSONSpan = (%q, %v), want (%q, %v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNormalize_ClozeMCQ(t *testing.T) {
	raw := `了解しました。{"type":"cloze_mcq","grade":"3級","items":[
		{"stem":"She ( ) tennis every Sunday.","options":["plays","play","playing","played"],
		 "answer":"plays","rationale_ja":"三単現のsが必要。",
		 "distractor_notes_ja":{"play":"三単現不一致","playing":"進行形は不可","played":"時制不一致"}}
	]}`

	questions := Normalize(raw, models.Grade3, models.TypeVocabulary, 1)
	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}

	q := questions[0]
	if q.IsFallback {
		t.Fatal("valid response marked as fallback")
	}
	if q.ID == "" {
		t.Error("missing question ID")
	}
	if q.Grade != models.Grade3 || q.Type != models.TypeVocabulary {
		t.Errorf("grade/type not stamped: %s/%s", q.Grade, q.Type)
	}
	if q.Difficulty != models.BandBeginner {
		t.Errorf("difficulty band = %s, want %s", q.Difficulty, models.BandBeginner)
	}
	if q.Content != "She ( ) tennis every Sunday." {
		t.Errorf("unexpected content: %q", q.Content)
	}
	if len(q.Choices) != 4 {
		t.Fatalf("got %d choices, want 4", len(q.Choices))
	}
	if q.Choices[0].ID != "A" || !q.Choices[0].IsCorrect {
		t.Errorf("choice A should be the correct one: %+v", q.Choices[0])
	}
	if q.Choices[1].IsCorrect {
		t.Error("choice B wrongly marked correct")
	}
	if q.CorrectAnswer != "plays" {
		t.Errorf("correct answer = %q", q.CorrectAnswer)
	}
	if q.DistractorNotes["play"] != "三単現不一致" {
		t.Error("distractor notes lost")
	}
}

func TestNormalize_JumbledRecomputesDifficulty(t *testing.T) {
	raw := `{"type":"jumbled_sentence","grade":"準2級","items":[
		{"tokens":["The","window","was","broken","by","the","children",",","yesterday","afternoon",",","so","we","fixed"],
		 "answer":"The window was broken by the children yesterday, so we fixed it.",
		 "features":{"pattern":"P1","anchors":2,"movables":3,"grammar_tier":4,"tokens":14,
		             "difficulty_index":0.11,"why_unique_ja":"受動態と句読点で固定。"}}
	]}`

	questions := Normalize(raw, models.GradePre2, models.TypeRearrangement, 1)
	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}

	q := questions[0]
	if q.Features == nil {
		t.Fatal("missing rearrangement features")
	}
	// 自己申告の0.11は無視され、特徴量から再計算される。
	if q.Features.DifficultyIndex != 0.89 {
		t.Errorf("difficulty index = %v, want 0.89", q.Features.DifficultyIndex)
	}
	if q.Features.Pattern != "P1" {
		t.Errorf("pattern = %q", q.Features.Pattern)
	}
	if len(q.Tokens) != 14 {
		t.Errorf("got %d tokens", len(q.Tokens))
	}
	if q.WhyUnique == "" {
		t.Error("missing uniqueness note")
	}
}

func TestNormalize_JumbledTokenCountDefaultsToLen(t *testing.T) {
	raw := `{"type":"jumbled_sentence","items":[
		{"tokens":["I","often","play","tennis","with","friends","."],
		 "answer":"I often play tennis with friends.",
		 "features":{"anchors":2,"movables":1,"grammar_tier":1}}
	]}`

	questions := Normalize(raw, models.Grade5, models.TypeRearrangement, 1)
	if len(questions) != 1 {
		t.Fatal("expected one question")
	}
	if questions[0].Features.TokenCount != 7 {
		t.Errorf("token count = %d, want 7 (len of tokens)", questions[0].Features.TokenCount)
	}
}

func TestNormalize_ReadingSet(t *testing.T) {
	raw := `{"type":"reading_set","grade":"3級",
		"passage":{"title":"A Day at the Park","text":"Ken went to the park. He played soccer with his friends."},
		"questions":[
			{"qtype":"detail","stem":"What did Ken do?","options":["A played soccer","B read a book","C went home","D studied"],
			 "answer":"A","evidence":"He played soccer","rationale_ja":"第2文に根拠がある。"}
		],
		"glossary":[{"word":"park","ja":"公園"}]}`

	questions := Normalize(raw, models.Grade3, models.TypeReading, 1)
	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}

	q := questions[0]
	if q.Passage == nil {
		t.Fatal("missing passage")
	}
	if q.Passage.WordCount == 0 {
		t.Error("word count not derived from text")
	}
	if len(q.SubQuestions) != 1 {
		t.Fatalf("got %d sub-questions", len(q.SubQuestions))
	}
	if q.SubQuestions[0].ID == "" {
		t.Error("sub-question missing ID")
	}
	if q.SubQuestions[0].Explanation != "第2文に根拠がある。" {
		t.Error("rationale not mapped to explanation")
	}
	if len(q.Glossary) != 1 || q.Glossary[0].Word != "park" {
		t.Error("glossary lost")
	}
}

func TestNormalize_WritingTask(t *testing.T) {
	raw := `{"type":"writing_task","grade":"2級",
		"prompt":"Do you agree that students should wear school uniforms? Give two reasons.",
		"word_limit":{"min":80,"max":120},
		"rubric":{"content":"主張と理由","organization":"構成","grammar":"文法","vocabulary":"語彙"},
		"reference_answer_optional":"I agree because ..."}`

	questions := Normalize(raw, models.Grade2, models.TypeEssay, 1)
	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}

	q := questions[0]
	if q.WordLimit == nil || q.WordLimit.Min != 80 || q.WordLimit.Max != 120 {
		t.Errorf("word limit = %+v", q.WordLimit)
	}
	if q.Rubric == nil || q.Rubric.Content == "" {
		t.Error("rubric lost")
	}
	if q.ReferenceAnswer == "" {
		t.Error("reference answer lost")
	}
}

func TestNormalize_LegacyQuestionsArray(t *testing.T) {
	raw := `{"questions":[
		{"question":"I ( ) a letter yesterday.","choices":["write","wrote","written","writing"],
		 "correctAnswer":"wrote","explanation":"yesterdayがあるので過去形。"}
	]}`

	questions := Normalize(raw, models.Grade4, models.TypeVocabulary, 1)
	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	q := questions[0]
	if q.IsFallback {
		t.Fatal("legacy payload marked as fallback")
	}
	if q.CorrectAnswer != "wrote" || len(q.Choices) != 4 {
		t.Errorf("legacy mapping broken: %+v", q)
	}
}

func TestNormalize_GarbageYieldsPlaceholders(t *testing.T) {
	for _, raw := range []string{
		"no json here at all",
		`{"type":"cloze_mcq","items":`,
		`{"type":"cloze_mcq","items":"not-an-array"}`,
		`{"type":"reading_set"}`,
		"",
	} {
		questions := Normalize(raw, models.GradePre2, models.TypeVocabulary, 3)
		if len(questions) != 3 {
			t.Fatalf("raw=%q: got %d placeholders, want 3", raw, len(questions))
		}
		for _, q := range questions {
			if !q.IsFallback {
				t.Fatalf("raw=%q: placeholder not flagged", raw)
			}
			if q.Grade != models.GradePre2 || q.Type != models.TypeVocabulary {
				t.Fatalf("raw=%q: placeholder not stamped with grade/type", raw)
			}
			if q.ID == "" {
				t.Fatalf("raw=%q: placeholder missing ID", raw)
			}
		}
	}
}

func TestNormalize_PlaceholdersPerType(t *testing.T) {
	for _, qtype := range models.QuestionTypes {
		questions := Normalize("broken", models.Grade3, qtype, 2)
		if len(questions) != 2 {
			t.Fatalf("%s: got %d placeholders", qtype, len(questions))
		}
		q := questions[0]
		switch qtype {
		case models.TypeVocabulary:
			if len(q.Choices) != 4 {
				t.Errorf("vocabulary placeholder needs 4 choices")
			}
		case models.TypeRearrangement:
			if len(q.Tokens) == 0 {
				t.Errorf("rearrangement placeholder needs tokens")
			}
		case models.TypeReading:
			if q.Passage == nil || len(q.SubQuestions) == 0 {
				t.Errorf("reading placeholder needs passage and questions")
			}
		case models.TypeEssay:
			if q.WordLimit == nil {
				t.Errorf("essay placeholder needs a word limit")
			}
		}
	}
}

func TestNormalize_ZeroCountStillReturnsOne(t *testing.T) {
	questions := Normalize("broken", models.Grade5, models.TypeVocabulary, 0)
	if len(questions) != 1 {
		t.Fatalf("got %d, want 1", len(questions))
	}
}

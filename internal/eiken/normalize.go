package eiken

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
)

// responseEnvelope はAI応答JSONの外枠。typeタグで中身の形が変わるため、
// 可変部分は RawMessage のまま保持して後段で個別にデコードする。
type responseEnvelope struct {
	Type      string          `json:"type"`
	Items     json.RawMessage `json:"items"`
	Passage   json.RawMessage `json:"passage"`
	Questions json.RawMessage `json:"questions"`
	Glossary  json.RawMessage `json:"glossary"`
	Topic     string          `json:"topic"`
	Prompt    string          `json:"prompt"`
	WordLimit json.RawMessage `json:"word_limit"`
	Rubric    json.RawMessage `json:"rubric"`
	Reference string          `json:"reference_answer_optional"`
}

type clozeItem struct {
	Stem            string            `json:"stem"`
	Options         []string          `json:"options"`
	Answer          string            `json:"answer"`
	RationaleJa     string            `json:"rationale_ja"`
	DistractorNotes map[string]string `json:"distractor_notes_ja"`
}

type jumbledItem struct {
	Tokens   []string `json:"tokens"`
	Answer   string   `json:"answer"`
	Features struct {
		Pattern         string   `json:"pattern"`
		Anchors         int      `json:"anchors"`
		Movables        int      `json:"movables"`
		MovableTypes    []string `json:"movable_types"`
		GrammarTier     int      `json:"grammar_tier"`
		Tokens          int      `json:"tokens"`
		DifficultyIndex float64  `json:"difficulty_index"`
		WhyUniqueJa     string   `json:"why_unique_ja"`
	} `json:"features"`
}

type readingQuestion struct {
	QType       string   `json:"qtype"`
	Stem        string   `json:"stem"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Evidence    string   `json:"evidence"`
	RationaleJa string   `json:"rationale_ja"`
}

type legacyQuestion struct {
	Question      string   `json:"question"`
	Content       string   `json:"content"`
	Choices       []string `json:"choices"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Answer        string   `json:"answer"`
	Explanation   string   `json:"explanation"`
}

// Normalize はAIの生テキスト応答を正規化済みの問題レコード列へ変換する。
// 失敗しても error は返さない。応答が壊れている場合は requestedCount 件の
// プレースホルダ問題（IsFallback=true）を合成して返す。
func Normalize(raw string, grade models.Grade, qtype models.QuestionType, requestedCount int) []models.Question {
	now := time.Now()

	span, ok := ExtractJSONSpan(raw)
	if !ok {
		return makePlaceholders(grade, qtype, requestedCount, now)
	}

	var env responseEnvelope
	if err := json.Unmarshal([]byte(span), &env); err != nil {
		return makePlaceholders(grade, qtype, requestedCount, now)
	}

	band := DifficultyBandFor(grade)

	var questions []models.Question
	switch env.Type {
	case "cloze_mcq":
		questions = normalizeCloze(env, grade, band, now)
	case "jumbled_sentence":
		questions = normalizeJumbled(env, grade, band, now)
	case "reading_set":
		questions = normalizeReading(env, grade, band, now)
	case "writing_task":
		questions = normalizeWriting(env, grade, band, now)
	default:
		// typeタグのない旧形式。questions配列を直接読む。
		questions = normalizeLegacy(env, grade, qtype, band, now)
	}

	if len(questions) == 0 {
		return makePlaceholders(grade, qtype, requestedCount, now)
	}
	return questions
}

func normalizeCloze(env responseEnvelope, grade models.Grade, band models.DifficultyBand, now time.Time) []models.Question {
	var items []clozeItem
	if err := json.Unmarshal(env.Items, &items); err != nil {
		return nil
	}

	out := make([]models.Question, 0, len(items))
	for _, item := range items {
		if item.Stem == "" || len(item.Options) == 0 {
			continue
		}
		out = append(out, models.Question{
			ID:              uuid.NewString(),
			Grade:           grade,
			Type:            models.TypeVocabulary,
			Difficulty:      band,
			Content:         item.Stem,
			Choices:         buildChoices(item.Options, item.Answer),
			CorrectAnswer:   item.Answer,
			Explanation:     item.RationaleJa,
			DistractorNotes: item.DistractorNotes,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	return out
}

func normalizeJumbled(env responseEnvelope, grade models.Grade, band models.DifficultyBand, now time.Time) []models.Question {
	var items []jumbledItem
	if err := json.Unmarshal(env.Items, &items); err != nil {
		return nil
	}

	profile, err := Lookup(grade)
	if err != nil {
		return nil
	}

	out := make([]models.Question, 0, len(items))
	for _, item := range items {
		if len(item.Tokens) == 0 || item.Answer == "" {
			continue
		}

		f := item.Features
		tokenCount := f.Tokens
		if tokenCount == 0 {
			tokenCount = len(item.Tokens)
		}
		// AIの自己申告値は信用せず、特徴量から指数を再計算する。
		index := ScoreDifficulty(tokenCount, f.Anchors, f.Movables, f.GrammarTier, profile)

		out = append(out, models.Question{
			ID:            uuid.NewString(),
			Grade:         grade,
			Type:          models.TypeRearrangement,
			Difficulty:    band,
			Content:       "次の語句を並べ替えて正しい英文を作りなさい。",
			Tokens:        item.Tokens,
			CorrectAnswer: item.Answer,
			WhyUnique:     f.WhyUniqueJa,
			Features: &models.RearrangementFeatures{
				Pattern:         f.Pattern,
				Anchors:         f.Anchors,
				Movables:        f.Movables,
				MovableTypes:    f.MovableTypes,
				GrammarTier:     f.GrammarTier,
				TokenCount:      tokenCount,
				DifficultyIndex: index,
			},
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return out
}

func normalizeReading(env responseEnvelope, grade models.Grade, band models.DifficultyBand, now time.Time) []models.Question {
	var passage models.Passage
	if err := json.Unmarshal(env.Passage, &passage); err != nil || passage.Text == "" {
		return nil
	}
	if passage.WordCount == 0 {
		passage.WordCount = len(strings.Fields(passage.Text))
	}

	var rawQuestions []readingQuestion
	if len(env.Questions) > 0 {
		if err := json.Unmarshal(env.Questions, &rawQuestions); err != nil {
			return nil
		}
	}

	subs := make([]models.SubQuestion, 0, len(rawQuestions))
	for _, q := range rawQuestions {
		subs = append(subs, models.SubQuestion{
			ID:          uuid.NewString(),
			QType:       q.QType,
			Stem:        q.Stem,
			Options:     q.Options,
			Answer:      q.Answer,
			Evidence:    q.Evidence,
			Explanation: q.RationaleJa,
		})
	}

	var glossary []models.GlossaryEntry
	if len(env.Glossary) > 0 {
		// 用語リストの欠落は致命的ではないので失敗は無視する。
		_ = json.Unmarshal(env.Glossary, &glossary)
	}

	content := passage.Title
	if content == "" {
		content = "次の英文を読み、設問に答えなさい。"
	}

	return []models.Question{{
		ID:           uuid.NewString(),
		Grade:        grade,
		Type:         models.TypeReading,
		Difficulty:   band,
		Content:      content,
		Passage:      &passage,
		SubQuestions: subs,
		Glossary:     glossary,
		CreatedAt:    now,
		UpdatedAt:    now,
	}}
}

func normalizeWriting(env responseEnvelope, grade models.Grade, band models.DifficultyBand, now time.Time) []models.Question {
	if env.Prompt == "" {
		return nil
	}

	var limit *models.WordLimit
	if len(env.WordLimit) > 0 {
		var wl models.WordLimit
		if err := json.Unmarshal(env.WordLimit, &wl); err == nil && wl.Max > 0 {
			limit = &wl
		}
	}

	var rubric *models.Rubric
	if len(env.Rubric) > 0 {
		var r models.Rubric
		if err := json.Unmarshal(env.Rubric, &r); err == nil {
			rubric = &r
		}
	}

	return []models.Question{{
		ID:              uuid.NewString(),
		Grade:           grade,
		Type:            models.TypeEssay,
		Difficulty:      band,
		Content:         env.Prompt,
		WordLimit:       limit,
		Rubric:          rubric,
		ReferenceAnswer: env.Reference,
		CreatedAt:       now,
		UpdatedAt:       now,
	}}
}

func normalizeLegacy(env responseEnvelope, grade models.Grade, qtype models.QuestionType, band models.DifficultyBand, now time.Time) []models.Question {
	if len(env.Questions) == 0 {
		return nil
	}
	var items []legacyQuestion
	if err := json.Unmarshal(env.Questions, &items); err != nil {
		return nil
	}

	out := make([]models.Question, 0, len(items))
	for _, item := range items {
		content := item.Question
		if content == "" {
			content = item.Content
		}
		if content == "" {
			continue
		}
		options := item.Choices
		if len(options) == 0 {
			options = item.Options
		}
		answer := item.CorrectAnswer
		if answer == "" {
			answer = item.Answer
		}

		q := models.Question{
			ID:            uuid.NewString(),
			Grade:         grade,
			Type:          qtype,
			Difficulty:    band,
			Content:       content,
			CorrectAnswer: answer,
			Explanation:   item.Explanation,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if len(options) > 0 {
			q.Choices = buildChoices(options, answer)
		}
		out = append(out, q)
	}
	return out
}

func buildChoices(options []string, answer string) []models.Choice {
	labels := []string{"A", "B", "C", "D", "E", "F"}
	choices := make([]models.Choice, 0, len(options))
	for i, text := range options {
		id := ""
		if i < len(labels) {
			id = labels[i]
		}
		choices = append(choices, models.Choice{
			ID:        id,
			Text:      text,
			IsCorrect: text == answer,
		})
	}
	return choices
}

// makePlaceholders は応答が解釈不能だった場合の代替問題を合成する。
// クライアントが空配列で壊れないよう、必ず要求件数ちょうどを返す。
func makePlaceholders(grade models.Grade, qtype models.QuestionType, count int, now time.Time) []models.Question {
	if count <= 0 {
		count = 1
	}
	band := DifficultyBandFor(grade)

	out := make([]models.Question, 0, count)
	for i := 0; i < count; i++ {
		q := models.Question{
			ID:         uuid.NewString(),
			Grade:      grade,
			Type:       qtype,
			Difficulty: band,
			Content:    "問題の生成に失敗しました。再度お試しください。",
			IsFallback: true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		switch qtype {
		case models.TypeVocabulary:
			q.Content = "I ( ) to school every day."
			q.Choices = buildChoices([]string{"go", "goes", "going", "went"}, "go")
			q.CorrectAnswer = "go"
			q.Explanation = "自動生成に失敗したため、代替問題を表示しています。"
		case models.TypeRearrangement:
			q.Content = "次の語句を並べ替えて正しい英文を作りなさい。"
			q.Tokens = []string{"I", "play", "tennis", "every", "day", "."}
			q.CorrectAnswer = "I play tennis every day."
			q.Explanation = "自動生成に失敗したため、代替問題を表示しています。"
		case models.TypeReading:
			q.Passage = &models.Passage{
				Title:     "Sample Passage",
				Text:      "Tom likes reading books. He goes to the library every weekend.",
				WordCount: 11,
			}
			q.SubQuestions = []models.SubQuestion{{
				ID:          uuid.NewString(),
				QType:       "detail",
				Stem:        "When does Tom go to the library?",
				Options:     []string{"Every day", "Every weekend", "Every month", "Every year"},
				Answer:      "Every weekend",
				Explanation: "自動生成に失敗したため、代替問題を表示しています。",
			}}
		case models.TypeEssay:
			q.Content = "What is your favorite season? Write about it with two reasons."
			q.WordLimit = &models.WordLimit{Min: 25, Max: 35}
		}
		out = append(out, q)
	}
	return out
}

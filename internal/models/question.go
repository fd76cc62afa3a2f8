package models

import "time"

// Grade は英検の級を表す。5級が最も易しく、1級が最も難しい。
type Grade string

const (
	Grade5    Grade = "5級"
	Grade4    Grade = "4級"
	Grade3    Grade = "3級"
	GradePre2 Grade = "準2級"
	Grade2    Grade = "2級"
	GradePre1 Grade = "準1級"
	Grade1    Grade = "1級"
)

// Grades は難易度順（易→難）の全級。
var Grades = []Grade{Grade5, Grade4, Grade3, GradePre2, Grade2, GradePre1, Grade1}

// QuestionType は出題形式。
type QuestionType string

const (
	TypeVocabulary    QuestionType = "語彙"
	TypeRearrangement QuestionType = "並び替え"
	TypeReading       QuestionType = "長文読解"
	TypeEssay         QuestionType = "英作文"
)

// QuestionTypes は対応している全出題形式。
var QuestionTypes = []QuestionType{TypeVocabulary, TypeRearrangement, TypeReading, TypeEssay}

// DifficultyBand は級から導かれる3段階の難易度帯。
type DifficultyBand string

const (
	BandBeginner     DifficultyBand = "初級"
	BandIntermediate DifficultyBand = "中級"
	BandAdvanced     DifficultyBand = "上級"
)

// Choice は4択問題の選択肢。
type Choice struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// RearrangementFeatures は並び替え問題の構造的特徴。
type RearrangementFeatures struct {
	Pattern         string   `json:"pattern,omitempty"`
	Anchors         int      `json:"anchors"`
	Movables        int      `json:"movables"`
	MovableTypes    []string `json:"movable_types,omitempty"`
	GrammarTier     int      `json:"grammar_tier"`
	TokenCount      int      `json:"tokens"`
	DifficultyIndex float64  `json:"difficulty_index"`
}

// Passage は長文読解の本文。
type Passage struct {
	Title     string `json:"title"`
	Text      string `json:"text"`
	WordCount int    `json:"wordCount"`
}

// SubQuestion は長文読解の設問。
type SubQuestion struct {
	ID          string   `json:"id"`
	QType       string   `json:"qtype"`
	Stem        string   `json:"stem"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Evidence    string   `json:"evidence"`
	Explanation string   `json:"explanation"`
}

// GlossaryEntry は本文末の見出し語。
type GlossaryEntry struct {
	Word string `json:"word"`
	Ja   string `json:"ja"`
}

// WordLimit は英作文の語数制限。
type WordLimit struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Rubric は英作文の評価観点。
type Rubric struct {
	Content      string `json:"content"`
	Organization string `json:"organization"`
	Grammar      string `json:"grammar"`
	Vocabulary   string `json:"vocabulary"`
}

// Question は全出題形式を包む正規化済みの問題レコード。
// AIレスポンスを整形した時点で生成され、以後変更されない。
type Question struct {
	ID         string         `json:"id"`
	Grade      Grade          `json:"grade"`
	Type       QuestionType   `json:"questionType"`
	Difficulty DifficultyBand `json:"difficulty"`
	Content    string         `json:"content"`

	// 語彙問題
	Choices         []Choice          `json:"choices,omitempty"`
	CorrectAnswer   string            `json:"correctAnswer,omitempty"`
	Explanation     string            `json:"explanation,omitempty"`
	DistractorNotes map[string]string `json:"distractorNotes,omitempty"`

	// 並び替え問題
	Tokens    []string               `json:"tokens,omitempty"`
	WhyUnique string                 `json:"whyUnique,omitempty"`
	Features  *RearrangementFeatures `json:"features,omitempty"`

	// 長文読解
	Passage      *Passage        `json:"passage,omitempty"`
	SubQuestions []SubQuestion   `json:"questions,omitempty"`
	Glossary     []GlossaryEntry `json:"glossary,omitempty"`

	// 英作文
	WordLimit       *WordLimit `json:"wordLimit,omitempty"`
	Rubric          *Rubric    `json:"rubric,omitempty"`
	ReferenceAnswer string     `json:"referenceAnswer,omitempty"`

	// 生成失敗時のプレースホルダかどうか
	IsFallback bool `json:"isFallback,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GenerationRequest は問題生成リクエスト。
type GenerationRequest struct {
	Grade              Grade        `json:"grade" binding:"required"`
	QuestionType       QuestionType `json:"questionType" binding:"required"`
	Count              int          `json:"count" binding:"required"`
	Topics             []string     `json:"topics,omitempty"`
	CustomInstructions string       `json:"customInstructions,omitempty"`
}

// GenerationResult は問題生成レスポンス。
type GenerationResult struct {
	Questions      []Question   `json:"questions"`
	TotalGenerated int          `json:"totalGenerated"`
	GenerationTime string       `json:"generationTime"`
	Grade          Grade        `json:"grade"`
	QuestionType   QuestionType `json:"questionType"`
}

// GenerationStatus は /status エンドポイントの応答。
type GenerationStatus struct {
	Status            string `json:"status"`
	Service           string `json:"service"`
	Timestamp         string `json:"timestamp"`
	Model             string `json:"model"`
	APIKeyConfigured  bool   `json:"apiKeyConfigured"`
	DailyCount        int    `json:"dailyCount"`
	DailyLimit        int    `json:"dailyLimit"`
	Remaining         int    `json:"remaining"`
	ValidationEnabled bool   `json:"validationEnabled"`
}

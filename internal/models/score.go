package models

import "time"

// StudentAnswer は1問ごとの解答。
type StudentAnswer struct {
	QuestionID    string `json:"questionId"`
	StudentAnswer string `json:"studentAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
	TimeSpent     int    `json:"timeSpent"`
}

// ScoreRecord はテスト結果の履歴。
type ScoreRecord struct {
	ID             string          `json:"id" db:"id"`
	StudentID      string          `json:"studentId" db:"student_id"`
	QuestionSetID  string          `json:"questionSetId" db:"question_set_id"`
	Grade          Grade           `json:"grade" db:"grade"`
	Type           QuestionType    `json:"questionType" db:"question_type"`
	Score          float64         `json:"score" db:"score"`
	TotalQuestions int             `json:"totalQuestions" db:"total_questions"`
	CorrectAnswers int             `json:"correctAnswers" db:"correct_answers"`
	TimeSpent      int             `json:"timeSpent" db:"time_spent"`
	Answers        []StudentAnswer `json:"answers"`
	CompletedAt    time.Time       `json:"completedAt" db:"completed_at"`
}

// ScoreFilter は一覧取得の絞り込み条件。
type ScoreFilter struct {
	StudentID string
	Grade     Grade
	Type      QuestionType
	Limit     int
	Offset    int
}

// CreateScoreRequest はスコア登録リクエスト。
type CreateScoreRequest struct {
	StudentID      string          `json:"studentId" binding:"required"`
	QuestionSetID  string          `json:"questionSetId" binding:"required"`
	Grade          Grade           `json:"grade" binding:"required"`
	Type           QuestionType    `json:"questionType" binding:"required"`
	Score          float64         `json:"score"`
	TotalQuestions int             `json:"totalQuestions"`
	CorrectAnswers int             `json:"correctAnswers"`
	TimeSpent      int             `json:"timeSpent"`
	Answers        []StudentAnswer `json:"answers"`
}

// ScoreStats は塾生ごとのスコア統計。
type ScoreStats struct {
	StudentID    string  `json:"studentId"`
	TotalRecords int     `json:"totalRecords"`
	AverageScore float64 `json:"averageScore"`
	BestScore    float64 `json:"bestScore"`
	WorstScore   float64 `json:"worstScore"`
	TotalTime    int     `json:"totalTimeSpent"`
}

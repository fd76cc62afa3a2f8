package models

import "time"

// QuestionSet は保存済みの問題セット。
type QuestionSet struct {
	ID          string       `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	Description string       `json:"description,omitempty" db:"description"`
	Grade       Grade        `json:"grade" db:"grade"`
	Type        QuestionType `json:"questionType" db:"question_type"`
	Questions   []Question   `json:"questions"`
	CreatedBy   string       `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at"`
}

// QuestionSetFilter は一覧取得の絞り込み条件。
type QuestionSetFilter struct {
	Grade  Grade
	Type   QuestionType
	Limit  int
	Offset int
}

// CreateQuestionSetRequest は問題セット作成リクエスト。
type CreateQuestionSetRequest struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	Grade       Grade        `json:"grade" binding:"required"`
	Type        QuestionType `json:"questionType" binding:"required"`
	Questions   []Question   `json:"questions" binding:"required"`
	CreatedBy   string       `json:"createdBy"`
}

// UpdateQuestionSetRequest は問題セット更新リクエスト。
type UpdateQuestionSetRequest struct {
	Name        *string     `json:"name"`
	Description *string     `json:"description"`
	Questions   *[]Question `json:"questions"`
}

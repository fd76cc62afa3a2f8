package models

import "time"

// Student は塾生レコード。
type Student struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Grade      Grade     `json:"grade" db:"grade"`
	Email      string    `json:"email,omitempty" db:"email"`
	SchoolYear string    `json:"schoolYear,omitempty" db:"school_year"`
	School     string    `json:"school,omitempty" db:"school"`
	JoinedAt   time.Time `json:"joinedAt" db:"joined_at"`
	IsActive   bool      `json:"isActive" db:"is_active"`
}

// StudentFilter は一覧取得の絞り込み条件。
type StudentFilter struct {
	Grade    Grade
	IsActive *bool
	Limit    int
	Offset   int
}

// CreateStudentRequest は塾生登録リクエスト。
type CreateStudentRequest struct {
	Name       string `json:"name" binding:"required"`
	Grade      Grade  `json:"grade" binding:"required"`
	Email      string `json:"email"`
	SchoolYear string `json:"schoolYear"`
	School     string `json:"school"`
}

// UpdateStudentRequest は塾生更新リクエスト。nilのフィールドは変更しない。
type UpdateStudentRequest struct {
	Name       *string `json:"name"`
	Grade      *Grade  `json:"grade"`
	Email      *string `json:"email"`
	SchoolYear *string `json:"schoolYear"`
	School     *string `json:"school"`
	IsActive   *bool   `json:"isActive"`
}

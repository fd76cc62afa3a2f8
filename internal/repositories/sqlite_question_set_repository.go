package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
)

type SQLiteQuestionSetRepository struct {
	db *sqlx.DB
}

func NewSQLiteQuestionSetRepository(db *sqlx.DB) QuestionSetRepository {
	return &SQLiteQuestionSetRepository{db: db}
}

// questionSetRow は問題データをJSONカラムとして持つ行表現。
type questionSetRow struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Description   string    `db:"description"`
	Grade         string    `db:"grade"`
	QuestionType  string    `db:"question_type"`
	QuestionsJSON string    `db:"questions"`
	CreatedBy     string    `db:"created_by"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (row *questionSetRow) toModel() (*models.QuestionSet, error) {
	var questions []models.Question
	if row.QuestionsJSON != "" {
		if err := json.Unmarshal([]byte(row.QuestionsJSON), &questions); err != nil {
			return nil, fmt.Errorf("問題データの復元に失敗: %w", err)
		}
	}
	return &models.QuestionSet{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Grade:       models.Grade(row.Grade),
		Type:        models.QuestionType(row.QuestionType),
		Questions:   questions,
		CreatedBy:   row.CreatedBy,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func (r *SQLiteQuestionSetRepository) Create(ctx context.Context, set *models.QuestionSet) error {
	questionsJSON, err := json.Marshal(set.Questions)
	if err != nil {
		return fmt.Errorf("問題データの変換に失敗: %w", err)
	}

	query := `
		INSERT INTO question_sets (id, name, description, grade, question_type, questions, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		set.ID, set.Name, set.Description, set.Grade, set.Type,
		string(questionsJSON), set.CreatedBy, set.CreatedAt, set.UpdatedAt)
	if err != nil {
		return fmt.Errorf("問題セットの保存に失敗: %w", err)
	}
	return nil
}

func (r *SQLiteQuestionSetRepository) GetByID(ctx context.Context, id string) (*models.QuestionSet, error) {
	row := &questionSetRow{}
	query := `
		SELECT id, name, description, grade, question_type, questions, created_by, created_at, updated_at
		FROM question_sets WHERE id = ?
	`
	err := r.db.GetContext(ctx, row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("問題セット %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("問題セットの取得に失敗: %w", err)
	}
	return row.toModel()
}

func (r *SQLiteQuestionSetRepository) List(ctx context.Context, filter models.QuestionSetFilter) ([]*models.QuestionSet, error) {
	query := `
		SELECT id, name, description, grade, question_type, questions, created_by, created_at, updated_at
		FROM question_sets WHERE 1=1
	`
	args := []interface{}{}

	if filter.Grade != "" {
		query += " AND grade = ?"
		args = append(args, filter.Grade)
	}
	if filter.Type != "" {
		query += " AND question_type = ?"
		args = append(args, filter.Type)
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows := []*questionSetRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("問題セット一覧の取得に失敗: %w", err)
	}

	sets := make([]*models.QuestionSet, 0, len(rows))
	for _, row := range rows {
		set, err := row.toModel()
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

func (r *SQLiteQuestionSetRepository) Update(ctx context.Context, set *models.QuestionSet) error {
	questionsJSON, err := json.Marshal(set.Questions)
	if err != nil {
		return fmt.Errorf("問題データの変換に失敗: %w", err)
	}

	query := `
		UPDATE question_sets
		SET name = ?, description = ?, questions = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		set.Name, set.Description, string(questionsJSON), set.UpdatedAt, set.ID)
	if err != nil {
		return fmt.Errorf("問題セットの更新に失敗: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("問題セット %s: %w", set.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteQuestionSetRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM question_sets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("問題セットの削除に失敗: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("問題セット %s: %w", id, ErrNotFound)
	}
	return nil
}

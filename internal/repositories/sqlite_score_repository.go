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

type SQLiteScoreRepository struct {
	db *sqlx.DB
}

func NewSQLiteScoreRepository(db *sqlx.DB) ScoreRepository {
	return &SQLiteScoreRepository{db: db}
}

type scoreRow struct {
	ID             string    `db:"id"`
	StudentID      string    `db:"student_id"`
	QuestionSetID  string    `db:"question_set_id"`
	Grade          string    `db:"grade"`
	QuestionType   string    `db:"question_type"`
	Score          float64   `db:"score"`
	TotalQuestions int       `db:"total_questions"`
	CorrectAnswers int       `db:"correct_answers"`
	TimeSpent      int       `db:"time_spent"`
	AnswersJSON    string    `db:"answers"`
	CompletedAt    time.Time `db:"completed_at"`
}

func (row *scoreRow) toModel() (*models.ScoreRecord, error) {
	var answers []models.StudentAnswer
	if row.AnswersJSON != "" {
		if err := json.Unmarshal([]byte(row.AnswersJSON), &answers); err != nil {
			return nil, fmt.Errorf("解答データの復元に失敗: %w", err)
		}
	}
	return &models.ScoreRecord{
		ID:             row.ID,
		StudentID:      row.StudentID,
		QuestionSetID:  row.QuestionSetID,
		Grade:          models.Grade(row.Grade),
		Type:           models.QuestionType(row.QuestionType),
		Score:          row.Score,
		TotalQuestions: row.TotalQuestions,
		CorrectAnswers: row.CorrectAnswers,
		TimeSpent:      row.TimeSpent,
		Answers:        answers,
		CompletedAt:    row.CompletedAt,
	}, nil
}

func (r *SQLiteScoreRepository) Create(ctx context.Context, record *models.ScoreRecord) error {
	answersJSON, err := json.Marshal(record.Answers)
	if err != nil {
		return fmt.Errorf("解答データの変換に失敗: %w", err)
	}

	query := `
		INSERT INTO scores (id, student_id, question_set_id, grade, question_type,
							score, total_questions, correct_answers, time_spent, answers, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		record.ID, record.StudentID, record.QuestionSetID, record.Grade, record.Type,
		record.Score, record.TotalQuestions, record.CorrectAnswers, record.TimeSpent,
		string(answersJSON), record.CompletedAt)
	if err != nil {
		return fmt.Errorf("スコアの保存に失敗: %w", err)
	}
	return nil
}

func (r *SQLiteScoreRepository) GetByID(ctx context.Context, id string) (*models.ScoreRecord, error) {
	row := &scoreRow{}
	query := `
		SELECT id, student_id, question_set_id, grade, question_type,
			   score, total_questions, correct_answers, time_spent, answers, completed_at
		FROM scores WHERE id = ?
	`
	err := r.db.GetContext(ctx, row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("スコア %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("スコアの取得に失敗: %w", err)
	}
	return row.toModel()
}

func (r *SQLiteScoreRepository) List(ctx context.Context, filter models.ScoreFilter) ([]*models.ScoreRecord, error) {
	query := `
		SELECT id, student_id, question_set_id, grade, question_type,
			   score, total_questions, correct_answers, time_spent, answers, completed_at
		FROM scores WHERE 1=1
	`
	args := []interface{}{}

	if filter.StudentID != "" {
		query += " AND student_id = ?"
		args = append(args, filter.StudentID)
	}
	if filter.Grade != "" {
		query += " AND grade = ?"
		args = append(args, filter.Grade)
	}
	if filter.Type != "" {
		query += " AND question_type = ?"
		args = append(args, filter.Type)
	}
	query += " ORDER BY completed_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows := []*scoreRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("スコア一覧の取得に失敗: %w", err)
	}

	records := make([]*models.ScoreRecord, 0, len(rows))
	for _, row := range rows {
		record, err := row.toModel()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *SQLiteScoreRepository) Stats(ctx context.Context, studentID string) (*models.ScoreStats, error) {
	stats := &models.ScoreStats{StudentID: studentID}
	query := `
		SELECT COUNT(*) AS total_records,
			   COALESCE(AVG(score), 0) AS average_score,
			   COALESCE(MAX(score), 0) AS best_score,
			   COALESCE(MIN(score), 0) AS worst_score,
			   COALESCE(SUM(time_spent), 0) AS total_time
		FROM scores WHERE student_id = ?
	`
	row := r.db.QueryRowxContext(ctx, query, studentID)
	if err := row.Scan(&stats.TotalRecords, &stats.AverageScore, &stats.BestScore,
		&stats.WorstScore, &stats.TotalTime); err != nil {
		return nil, fmt.Errorf("スコア統計の取得に失敗: %w", err)
	}
	return stats, nil
}

func (r *SQLiteScoreRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM scores WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("スコアの削除に失敗: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("スコア %s: %w", id, ErrNotFound)
	}
	return nil
}

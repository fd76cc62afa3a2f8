package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
)

type SQLiteStudentRepository struct {
	db *sqlx.DB
}

func NewSQLiteStudentRepository(db *sqlx.DB) StudentRepository {
	return &SQLiteStudentRepository{db: db}
}

func (r *SQLiteStudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (id, name, grade, email, school_year, school, joined_at, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		student.ID, student.Name, student.Grade, student.Email,
		student.SchoolYear, student.School, student.JoinedAt, student.IsActive)
	if err != nil {
		return fmt.Errorf("塾生の登録に失敗: %w", err)
	}
	return nil
}

func (r *SQLiteStudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	student := &models.Student{}
	query := `
		SELECT id, name, grade, email, school_year, school, joined_at, is_active
		FROM students WHERE id = ?
	`
	err := r.db.GetContext(ctx, student, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("塾生 %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("塾生の取得に失敗: %w", err)
	}
	return student, nil
}

func (r *SQLiteStudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error) {
	query := `
		SELECT id, name, grade, email, school_year, school, joined_at, is_active
		FROM students WHERE 1=1
	`
	args := []interface{}{}

	if filter.Grade != "" {
		query += " AND grade = ?"
		args = append(args, filter.Grade)
	}
	if filter.IsActive != nil {
		query += " AND is_active = ?"
		args = append(args, *filter.IsActive)
	}
	query += " ORDER BY joined_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	students := []*models.Student{}
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("塾生一覧の取得に失敗: %w", err)
	}
	return students, nil
}

func (r *SQLiteStudentRepository) Update(ctx context.Context, student *models.Student) error {
	query := `
		UPDATE students
		SET name = ?, grade = ?, email = ?, school_year = ?, school = ?, is_active = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		student.Name, student.Grade, student.Email,
		student.SchoolYear, student.School, student.IsActive, student.ID)
	if err != nil {
		return fmt.Errorf("塾生の更新に失敗: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("塾生 %s: %w", student.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteStudentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("塾生の削除に失敗: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("塾生 %s: %w", id, ErrNotFound)
	}
	return nil
}

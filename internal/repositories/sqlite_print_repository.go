package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
)

type SQLitePrintRepository struct {
	db *sqlx.DB
}

func NewSQLitePrintRepository(db *sqlx.DB) PrintRepository {
	return &SQLitePrintRepository{db: db}
}

func (r *SQLitePrintRepository) RecordHistory(ctx context.Context, entry *models.PrintHistoryEntry) error {
	query := `
		INSERT INTO print_history (id, student_id, student_name, sheet_type,
								   question_set_id, question_set_name, printed_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.StudentID, entry.StudentName, entry.SheetType,
		entry.QuestionSetID, entry.QuestionSetName, entry.PrintedAt, entry.Status)
	if err != nil {
		return fmt.Errorf("印刷履歴の保存に失敗: %w", err)
	}
	return nil
}

func (r *SQLitePrintRepository) ListHistory(ctx context.Context, filter models.PrintHistoryFilter) ([]*models.PrintHistoryEntry, error) {
	query := `
		SELECT id, student_id, student_name, sheet_type,
			   question_set_id, question_set_name, printed_at, status
		FROM print_history WHERE 1=1
	`
	args := []interface{}{}

	if filter.StudentID != "" {
		query += " AND student_id = ?"
		args = append(args, filter.StudentID)
	}
	if filter.SheetType != "" {
		query += " AND sheet_type = ?"
		args = append(args, filter.SheetType)
	}
	query += " ORDER BY printed_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	entries := []*models.PrintHistoryEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("印刷履歴の取得に失敗: %w", err)
	}
	return entries, nil
}

func (r *SQLitePrintRepository) RecordQREvent(ctx context.Context, event *models.QREvent) error {
	query := `
		INSERT INTO qr_events (id, event_type, student_id, student_name,
							   question_set_id, question_id, correct, qr_id, override, scanned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.EventType, event.StudentID, event.StudentName,
		event.QuestionSetID, event.QuestionID, event.Correct, event.QRID,
		event.Override, event.ScannedAt)
	if err != nil {
		return fmt.Errorf("QRイベントの保存に失敗: %w", err)
	}
	return nil
}

func (r *SQLitePrintRepository) ListQREvents(ctx context.Context, studentID string, limit int) ([]*models.QREvent, error) {
	query := `
		SELECT id, event_type, student_id, student_name,
			   question_set_id, question_id, correct, qr_id, override, scanned_at
		FROM qr_events WHERE 1=1
	`
	args := []interface{}{}

	if studentID != "" {
		query += " AND student_id = ?"
		args = append(args, studentID)
	}
	query += " ORDER BY scanned_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	events := []*models.QREvent{}
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("QRイベントの取得に失敗: %w", err)
	}
	return events, nil
}

package repositories

import (
	"context"
	"errors"

	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
)

// ErrNotFound は対象レコードが存在しない場合に返る。
var ErrNotFound = errors.New("レコードが見つかりません")

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

type QuestionSetRepository interface {
	Create(ctx context.Context, set *models.QuestionSet) error
	GetByID(ctx context.Context, id string) (*models.QuestionSet, error)
	List(ctx context.Context, filter models.QuestionSetFilter) ([]*models.QuestionSet, error)
	Update(ctx context.Context, set *models.QuestionSet) error
	Delete(ctx context.Context, id string) error
}

type ScoreRepository interface {
	Create(ctx context.Context, record *models.ScoreRecord) error
	GetByID(ctx context.Context, id string) (*models.ScoreRecord, error)
	List(ctx context.Context, filter models.ScoreFilter) ([]*models.ScoreRecord, error)
	Stats(ctx context.Context, studentID string) (*models.ScoreStats, error)
	Delete(ctx context.Context, id string) error
}

type PrintRepository interface {
	RecordHistory(ctx context.Context, entry *models.PrintHistoryEntry) error
	ListHistory(ctx context.Context, filter models.PrintHistoryFilter) ([]*models.PrintHistoryEntry, error)
	RecordQREvent(ctx context.Context, event *models.QREvent) error
	ListQREvents(ctx context.Context, studentID string, limit int) ([]*models.QREvent, error)
}

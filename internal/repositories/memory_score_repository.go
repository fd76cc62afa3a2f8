package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
)

type memoryScoreRepository struct {
	records map[string]*models.ScoreRecord
	mutex   sync.RWMutex
}

func NewMemoryScoreRepository() ScoreRepository {
	return &memoryScoreRepository{
		records: make(map[string]*models.ScoreRecord),
	}
}

func (r *memoryScoreRepository) Create(ctx context.Context, record *models.ScoreRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.records[record.ID]; exists {
		return fmt.Errorf("スコア %s は既に存在します", record.ID)
	}
	copied := *record
	r.records[record.ID] = &copied
	return nil
}

func (r *memoryScoreRepository) GetByID(ctx context.Context, id string) (*models.ScoreRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	record, exists := r.records[id]
	if !exists {
		return nil, fmt.Errorf("スコア %s: %w", id, ErrNotFound)
	}
	copied := *record
	return &copied, nil
}

func (r *memoryScoreRepository) List(ctx context.Context, filter models.ScoreFilter) ([]*models.ScoreRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	records := []*models.ScoreRecord{}
	for _, record := range r.records {
		if filter.StudentID != "" && record.StudentID != filter.StudentID {
			continue
		}
		if filter.Grade != "" && record.Grade != filter.Grade {
			continue
		}
		if filter.Type != "" && record.Type != filter.Type {
			continue
		}
		copied := *record
		records = append(records, &copied)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CompletedAt.After(records[j].CompletedAt)
	})

	return paginate(records, filter.Limit, filter.Offset), nil
}

func (r *memoryScoreRepository) Stats(ctx context.Context, studentID string) (*models.ScoreStats, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	stats := &models.ScoreStats{StudentID: studentID}
	for _, record := range r.records {
		if record.StudentID != studentID {
			continue
		}
		if stats.TotalRecords == 0 {
			stats.BestScore = record.Score
			stats.WorstScore = record.Score
		}
		stats.TotalRecords++
		stats.AverageScore += record.Score
		stats.TotalTime += record.TimeSpent
		if record.Score > stats.BestScore {
			stats.BestScore = record.Score
		}
		if record.Score < stats.WorstScore {
			stats.WorstScore = record.Score
		}
	}
	if stats.TotalRecords > 0 {
		stats.AverageScore /= float64(stats.TotalRecords)
	}
	return stats, nil
}

func (r *memoryScoreRepository) Delete(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.records[id]; !exists {
		return fmt.Errorf("スコア %s: %w", id, ErrNotFound)
	}
	delete(r.records, id)
	return nil
}

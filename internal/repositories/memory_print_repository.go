package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
)

type memoryPrintRepository struct {
	history []*models.PrintHistoryEntry
	events  []*models.QREvent
	mutex   sync.RWMutex
}

func NewMemoryPrintRepository() PrintRepository {
	return &memoryPrintRepository{}
}

func (r *memoryPrintRepository) RecordHistory(ctx context.Context, entry *models.PrintHistoryEntry) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	copied := *entry
	r.history = append(r.history, &copied)
	return nil
}

func (r *memoryPrintRepository) ListHistory(ctx context.Context, filter models.PrintHistoryFilter) ([]*models.PrintHistoryEntry, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	entries := []*models.PrintHistoryEntry{}
	for _, entry := range r.history {
		if filter.StudentID != "" && entry.StudentID != filter.StudentID {
			continue
		}
		if filter.SheetType != "" && entry.SheetType != filter.SheetType {
			continue
		}
		copied := *entry
		entries = append(entries, &copied)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].PrintedAt.After(entries[j].PrintedAt)
	})

	return paginate(entries, filter.Limit, filter.Offset), nil
}

func (r *memoryPrintRepository) RecordQREvent(ctx context.Context, event *models.QREvent) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	copied := *event
	r.events = append(r.events, &copied)
	return nil
}

func (r *memoryPrintRepository) ListQREvents(ctx context.Context, studentID string, limit int) ([]*models.QREvent, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	events := []*models.QREvent{}
	for _, event := range r.events {
		if studentID != "" && event.StudentID != studentID {
			continue
		}
		copied := *event
		events = append(events, &copied)
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].ScannedAt.After(events[j].ScannedAt)
	})

	return paginate(events, limit, 0), nil
}

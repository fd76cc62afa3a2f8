package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
)

type memoryQuestionSetRepository struct {
	sets  map[string]*models.QuestionSet
	mutex sync.RWMutex
}

func NewMemoryQuestionSetRepository() QuestionSetRepository {
	return &memoryQuestionSetRepository{
		sets: make(map[string]*models.QuestionSet),
	}
}

func (r *memoryQuestionSetRepository) Create(ctx context.Context, set *models.QuestionSet) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.sets[set.ID]; exists {
		return fmt.Errorf("問題セット %s は既に存在します", set.ID)
	}
	copied := *set
	r.sets[set.ID] = &copied
	return nil
}

func (r *memoryQuestionSetRepository) GetByID(ctx context.Context, id string) (*models.QuestionSet, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	set, exists := r.sets[id]
	if !exists {
		return nil, fmt.Errorf("問題セット %s: %w", id, ErrNotFound)
	}
	copied := *set
	return &copied, nil
}

func (r *memoryQuestionSetRepository) List(ctx context.Context, filter models.QuestionSetFilter) ([]*models.QuestionSet, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	sets := []*models.QuestionSet{}
	for _, set := range r.sets {
		if filter.Grade != "" && set.Grade != filter.Grade {
			continue
		}
		if filter.Type != "" && set.Type != filter.Type {
			continue
		}
		copied := *set
		sets = append(sets, &copied)
	}

	sort.Slice(sets, func(i, j int) bool {
		return sets[i].CreatedAt.After(sets[j].CreatedAt)
	})

	return paginate(sets, filter.Limit, filter.Offset), nil
}

func (r *memoryQuestionSetRepository) Update(ctx context.Context, set *models.QuestionSet) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.sets[set.ID]; !exists {
		return fmt.Errorf("問題セット %s: %w", set.ID, ErrNotFound)
	}
	copied := *set
	r.sets[set.ID] = &copied
	return nil
}

func (r *memoryQuestionSetRepository) Delete(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.sets[id]; !exists {
		return fmt.Errorf("問題セット %s: %w", id, ErrNotFound)
	}
	delete(r.sets, id)
	return nil
}

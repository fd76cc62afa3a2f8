package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
)

// memoryStudentRepository はDB未接続時のフォールバック実装。
type memoryStudentRepository struct {
	students map[string]*models.Student
	mutex    sync.RWMutex
}

func NewMemoryStudentRepository() StudentRepository {
	repo := &memoryStudentRepository{
		students: make(map[string]*models.Student),
	}
	repo.seedData()
	return repo
}

func (r *memoryStudentRepository) seedData() {
	now := time.Now()
	seeds := []struct {
		name       string
		grade      models.Grade
		schoolYear string
	}{
		{"田中太郎", models.Grade3, "中学2年"},
		{"佐藤花子", models.GradePre2, "中学3年"},
		{"鈴木一郎", models.Grade2, "高校1年"},
		{"高橋美咲", models.GradePre1, "高校2年"},
		{"伊藤健太", models.Grade4, "中学1年"},
	}
	for _, s := range seeds {
		student := &models.Student{
			ID:         uuid.NewString(),
			Name:       s.name,
			Grade:      s.grade,
			SchoolYear: s.schoolYear,
			JoinedAt:   now,
			IsActive:   true,
		}
		r.students[student.ID] = student
	}
}

func (r *memoryStudentRepository) Create(ctx context.Context, student *models.Student) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.students[student.ID]; exists {
		return fmt.Errorf("塾生 %s は既に存在します", student.ID)
	}
	copied := *student
	r.students[student.ID] = &copied
	return nil
}

func (r *memoryStudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	student, exists := r.students[id]
	if !exists {
		return nil, fmt.Errorf("塾生 %s: %w", id, ErrNotFound)
	}
	copied := *student
	return &copied, nil
}

func (r *memoryStudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	students := []*models.Student{}
	for _, student := range r.students {
		if filter.Grade != "" && student.Grade != filter.Grade {
			continue
		}
		if filter.IsActive != nil && student.IsActive != *filter.IsActive {
			continue
		}
		copied := *student
		students = append(students, &copied)
	}

	sort.Slice(students, func(i, j int) bool {
		return students[i].JoinedAt.After(students[j].JoinedAt)
	})

	return paginate(students, filter.Limit, filter.Offset), nil
}

func (r *memoryStudentRepository) Update(ctx context.Context, student *models.Student) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.students[student.ID]; !exists {
		return fmt.Errorf("塾生 %s: %w", student.ID, ErrNotFound)
	}
	copied := *student
	r.students[student.ID] = &copied
	return nil
}

func (r *memoryStudentRepository) Delete(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.students[id]; !exists {
		return fmt.Errorf("塾生 %s: %w", id, ErrNotFound)
	}
	delete(r.students, id)
	return nil
}

// paginate はソート済みスライスへLIMIT/OFFSETを適用する。
func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

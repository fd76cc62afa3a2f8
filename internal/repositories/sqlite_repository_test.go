package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/iwasawa-gakuin/eiken-gen/internal/config"
	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func newStudent(name string, grade models.Grade) *models.Student {
	return &models.Student{
		ID:       uuid.NewString(),
		Name:     name,
		Grade:    grade,
		JoinedAt: time.Now().UTC(),
		IsActive: true,
	}
}

func TestSQLiteStudentRepository_CRUD(t *testing.T) {
	repo := NewSQLiteStudentRepository(newTestDB(t))
	ctx := context.Background()

	student := newStudent("田中太郎", models.Grade3)
	require.NoError(t, repo.Create(ctx, student))

	got, err := repo.GetByID(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, "田中太郎", got.Name)
	require.Equal(t, models.Grade3, got.Grade)
	require.True(t, got.IsActive)

	got.Name = "田中次郎"
	got.Grade = models.GradePre2
	require.NoError(t, repo.Update(ctx, got))

	updated, err := repo.GetByID(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, "田中次郎", updated.Name)
	require.Equal(t, models.GradePre2, updated.Grade)

	require.NoError(t, repo.Delete(ctx, student.ID))
	_, err = repo.GetByID(ctx, student.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStudentRepository_ListFilters(t *testing.T) {
	repo := NewSQLiteStudentRepository(newTestDB(t))
	ctx := context.Background()

	a := newStudent("A", models.Grade3)
	b := newStudent("B", models.Grade2)
	c := newStudent("C", models.Grade3)
	c.IsActive = false
	for _, s := range []*models.Student{a, b, c} {
		require.NoError(t, repo.Create(ctx, s))
	}

	grade3, err := repo.List(ctx, models.StudentFilter{Grade: models.Grade3})
	require.NoError(t, err)
	require.Len(t, grade3, 2)

	active := true
	activeOnly, err := repo.List(ctx, models.StudentFilter{IsActive: &active})
	require.NoError(t, err)
	require.Len(t, activeOnly, 2)

	limited, err := repo.List(ctx, models.StudentFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestSQLiteStudentRepository_UpdateMissing(t *testing.T) {
	repo := NewSQLiteStudentRepository(newTestDB(t))
	err := repo.Update(context.Background(), newStudent("X", models.Grade5))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteQuestionSetRepository_RoundTrip(t *testing.T) {
	repo := NewSQLiteQuestionSetRepository(newTestDB(t))
	ctx := context.Background()

	now := time.Now().UTC()
	set := &models.QuestionSet{
		ID:    uuid.NewString(),
		Name:  "3級 語彙セット",
		Grade: models.Grade3,
		Type:  models.TypeVocabulary,
		Questions: []models.Question{{
			ID:            uuid.NewString(),
			Grade:         models.Grade3,
			Type:          models.TypeVocabulary,
			Difficulty:    models.BandBeginner,
			Content:       "She ( ) tennis.",
			CorrectAnswer: "plays",
			Choices: []models.Choice{
				{ID: "A", Text: "plays", IsCorrect: true},
				{ID: "B", Text: "play"},
			},
			CreatedAt: now,
			UpdatedAt: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, set))

	got, err := repo.GetByID(ctx, set.ID)
	require.NoError(t, err)
	require.Len(t, got.Questions, 1)
	require.Equal(t, "plays", got.Questions[0].CorrectAnswer)
	require.True(t, got.Questions[0].Choices[0].IsCorrect)

	got.Questions = append(got.Questions, models.Question{
		ID:      uuid.NewString(),
		Grade:   models.Grade3,
		Type:    models.TypeVocabulary,
		Content: "He ( ) to school.",
	})
	got.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, got))

	updated, err := repo.GetByID(ctx, set.ID)
	require.NoError(t, err)
	require.Len(t, updated.Questions, 2)

	sets, err := repo.List(ctx, models.QuestionSetFilter{Grade: models.Grade3, Type: models.TypeVocabulary})
	require.NoError(t, err)
	require.Len(t, sets, 1)

	require.NoError(t, repo.Delete(ctx, set.ID))
	_, err = repo.GetByID(ctx, set.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteScoreRepository_StatsAndList(t *testing.T) {
	repo := NewSQLiteScoreRepository(newTestDB(t))
	ctx := context.Background()

	studentID := uuid.NewString()
	scores := []float64{60, 80, 100}
	for _, score := range scores {
		record := &models.ScoreRecord{
			ID:             uuid.NewString(),
			StudentID:      studentID,
			QuestionSetID:  uuid.NewString(),
			Grade:          models.GradePre2,
			Type:           models.TypeVocabulary,
			Score:          score,
			TotalQuestions: 10,
			CorrectAnswers: int(score / 10),
			TimeSpent:      300,
			Answers: []models.StudentAnswer{
				{QuestionID: uuid.NewString(), StudentAnswer: "plays", IsCorrect: true, TimeSpent: 30},
			},
			CompletedAt: time.Now().UTC(),
		}
		require.NoError(t, repo.Create(ctx, record))
	}

	list, err := repo.List(ctx, models.ScoreFilter{StudentID: studentID})
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Len(t, list[0].Answers, 1)

	stats, err := repo.Stats(ctx, studentID)
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalRecords)
	require.InDelta(t, 80, stats.AverageScore, 0.001)
	require.Equal(t, 100.0, stats.BestScore)
	require.Equal(t, 60.0, stats.WorstScore)
	require.Equal(t, 900, stats.TotalTime)

	empty, err := repo.Stats(ctx, uuid.NewString())
	require.NoError(t, err)
	require.Equal(t, 0, empty.TotalRecords)
}

func TestSQLitePrintRepository_HistoryAndEvents(t *testing.T) {
	repo := NewSQLitePrintRepository(newTestDB(t))
	ctx := context.Background()

	studentID := uuid.NewString()
	entry := &models.PrintHistoryEntry{
		ID:          uuid.NewString(),
		StudentID:   studentID,
		StudentName: "佐藤花子",
		SheetType:   "question",
		PrintedAt:   time.Now().UTC(),
		Status:      "completed",
	}
	require.NoError(t, repo.RecordHistory(ctx, entry))

	history, err := repo.ListHistory(ctx, models.PrintHistoryFilter{StudentID: studentID})
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "question", history[0].SheetType)

	event := &models.QREvent{
		ID:        uuid.NewString(),
		EventType: "scan",
		StudentID: studentID,
		Correct:   true,
		ScannedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.RecordQREvent(ctx, event))

	events, err := repo.ListQREvents(ctx, studentID, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.True(t, events[0].Correct)
}

// メモリ実装がSQLite実装と同じ契約を満たすことを確認する。
func TestMemoryRepositories_SameContract(t *testing.T) {
	ctx := context.Background()

	students := NewMemoryStudentRepository()
	seeded, err := students.List(ctx, models.StudentFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, seeded, "memory repository should be seeded")

	s := newStudent("新人", models.Grade5)
	require.NoError(t, students.Create(ctx, s))
	got, err := students.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.Equal(t, "新人", got.Name)
	require.NoError(t, students.Delete(ctx, s.ID))
	_, err = students.GetByID(ctx, s.ID)
	require.ErrorIs(t, err, ErrNotFound)

	scores := NewMemoryScoreRepository()
	record := &models.ScoreRecord{
		ID:        uuid.NewString(),
		StudentID: "sid",
		Score:     70,
		TimeSpent: 100,
	}
	require.NoError(t, scores.Create(ctx, record))
	stats, err := scores.Stats(ctx, "sid")
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalRecords)
	require.Equal(t, 70.0, stats.AverageScore)
}

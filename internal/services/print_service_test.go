package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
	"github.com/iwasawa-gakuin/eiken-gen/internal/repositories"
)

func newPrintService(t *testing.T) (PrintService, repositories.QuestionSetRepository, repositories.StudentRepository, repositories.ScoreRepository) {
	t.Helper()
	printRepo := repositories.NewMemoryPrintRepository()
	setRepo := repositories.NewMemoryQuestionSetRepository()
	studentRepo := repositories.NewMemoryStudentRepository()
	scoreRepo := repositories.NewMemoryScoreRepository()

	client := &stubClient{responses: []stubResponse{{text: clozeResponse}}}
	generator := newService(client, NewQuotaCounter(100, false), false)

	svc := NewPrintService(printRepo, setRepo, studentRepo, scoreRepo, generator, zap.NewNop())
	return svc, setRepo, studentRepo, scoreRepo
}

func seedQuestionSet(t *testing.T, repo repositories.QuestionSetRepository) *models.QuestionSet {
	t.Helper()
	now := time.Now()
	set := &models.QuestionSet{
		ID:    uuid.NewString(),
		Name:  "テストセット",
		Grade: models.Grade3,
		Type:  models.TypeVocabulary,
		Questions: []models.Question{{
			ID:            uuid.NewString(),
			Content:       "She ( ) tennis.",
			CorrectAnswer: "plays",
			Explanation:   "三単現。",
			Choices: []models.Choice{
				{ID: "A", Text: "plays", IsCorrect: true},
				{ID: "B", Text: "play"},
			},
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(context.Background(), set); err != nil {
		t.Fatal(err)
	}
	return set
}

func TestBuildSheet_QuestionSheetHidesAnswers(t *testing.T) {
	svc, setRepo, _, _ := newPrintService(t)
	set := seedQuestionSet(t, setRepo)

	sheet, err := svc.BuildSheet(context.Background(), set.ID, "question", "田中太郎", models.DefaultPrintSettings())
	if err != nil {
		t.Fatalf("BuildSheet: %v", err)
	}
	if sheet.SheetType != "question" {
		t.Errorf("sheet type = %q", sheet.SheetType)
	}
	q := sheet.Questions[0]
	if q.CorrectAnswer != "" || q.Explanation != "" {
		t.Errorf("question sheet leaks answers: %+v", q)
	}
	for _, ch := range q.Choices {
		if ch.IsCorrect {
			t.Error("question sheet leaks the correct choice")
		}
	}

	history, err := svc.History(context.Background(), models.PrintHistoryFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].QuestionSetName != "テストセット" {
		t.Errorf("history = %+v", history)
	}
}

func TestBuildSheet_AnswerSheetKeepsAnswers(t *testing.T) {
	svc, setRepo, _, _ := newPrintService(t)
	set := seedQuestionSet(t, setRepo)

	sheet, err := svc.BuildSheet(context.Background(), set.ID, "answer", "", models.DefaultPrintSettings())
	if err != nil {
		t.Fatal(err)
	}
	if sheet.Questions[0].CorrectAnswer != "plays" {
		t.Error("answer sheet should keep the correct answer")
	}
}

func TestBuildSheet_UnknownSheetType(t *testing.T) {
	svc, setRepo, _, _ := newPrintService(t)
	set := seedQuestionSet(t, setRepo)

	_, err := svc.BuildSheet(context.Background(), set.ID, "poster", "", models.DefaultPrintSettings())
	if !errors.Is(err, ErrUnsupportedSheetType) {
		t.Fatalf("expected ErrUnsupportedSheetType, got %v", err)
	}
}

func TestBuildSheet_MissingQuestionSet(t *testing.T) {
	svc, _, _, _ := newPrintService(t)
	_, err := svc.BuildSheet(context.Background(), "missing", "question", "", models.DefaultPrintSettings())
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBuildWeaknessPrint_TargetsWeakestType(t *testing.T) {
	svc, _, studentRepo, scoreRepo := newPrintService(t)
	ctx := context.Background()

	students, _ := studentRepo.List(ctx, models.StudentFilter{})
	studentID := students[0].ID

	for _, rec := range []struct {
		qtype models.QuestionType
		score float64
	}{
		{models.TypeVocabulary, 90},
		{models.TypeVocabulary, 80},
		{models.TypeRearrangement, 40},
		{models.TypeReading, 75},
	} {
		err := scoreRepo.Create(ctx, &models.ScoreRecord{
			ID:          uuid.NewString(),
			StudentID:   studentID,
			Type:        rec.qtype,
			Score:       rec.score,
			CompletedAt: time.Now(),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	print, err := svc.BuildWeaknessPrint(ctx, studentID, 2)
	if err != nil {
		t.Fatalf("BuildWeaknessPrint: %v", err)
	}
	if print.Type != models.TypeRearrangement {
		t.Errorf("targeted type = %s, want %s", print.Type, models.TypeRearrangement)
	}
	if len(print.FocusAreas) == 0 {
		t.Error("missing focus areas")
	}
	if len(print.Questions) == 0 {
		t.Error("no questions generated")
	}
}

func TestBuildWeaknessPrint_NoHistoryDefaultsToVocabulary(t *testing.T) {
	svc, _, studentRepo, _ := newPrintService(t)
	ctx := context.Background()

	students, _ := studentRepo.List(ctx, models.StudentFilter{})
	print, err := svc.BuildWeaknessPrint(ctx, students[0].ID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if print.Type != models.TypeVocabulary {
		t.Errorf("default type = %s", print.Type)
	}
}

func TestRecordQREvent(t *testing.T) {
	svc, _, _, _ := newPrintService(t)
	ctx := context.Background()

	event, err := svc.RecordQREvent(ctx, models.RecordQREventRequest{
		EventType: "scan",
		StudentID: "sid",
		Correct:   true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if event.ID == "" || event.ScannedAt.IsZero() {
		t.Errorf("event not stamped: %+v", event)
	}

	events, err := svc.ListQREvents(ctx, "sid", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events", len(events))
	}
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
	"github.com/iwasawa-gakuin/eiken-gen/internal/repositories"
)

// ErrUnsupportedSheetType は未知の用紙種別を指定した場合に返る。
var ErrUnsupportedSheetType = fmt.Errorf("対応していない用紙種別です")

type PrintService interface {
	BuildSheet(ctx context.Context, questionSetID, sheetType, studentName string, settings models.PrintSettings) (*models.PrintSheet, error)
	BuildWeaknessPrint(ctx context.Context, studentID string, count int) (*models.WeaknessPrint, error)
	History(ctx context.Context, filter models.PrintHistoryFilter) ([]*models.PrintHistoryEntry, error)
	RecordQREvent(ctx context.Context, req models.RecordQREventRequest) (*models.QREvent, error)
	ListQREvents(ctx context.Context, studentID string, limit int) ([]*models.QREvent, error)
}

type printService struct {
	repo        repositories.PrintRepository
	setRepo     repositories.QuestionSetRepository
	studentRepo repositories.StudentRepository
	scoreRepo   repositories.ScoreRepository
	generator   GenerationService
	logger      *zap.Logger
}

func NewPrintService(
	repo repositories.PrintRepository,
	setRepo repositories.QuestionSetRepository,
	studentRepo repositories.StudentRepository,
	scoreRepo repositories.ScoreRepository,
	generator GenerationService,
	logger *zap.Logger,
) PrintService {
	return &printService{
		repo:        repo,
		setRepo:     setRepo,
		studentRepo: studentRepo,
		scoreRepo:   scoreRepo,
		generator:   generator,
		logger:      logger,
	}
}

// BuildSheet は問題セットから印刷用データを組み立て、履歴に記録する。
// sheetTypeは "question"(問題用紙) か "answer"(解答用紙)。
func (s *printService) BuildSheet(ctx context.Context, questionSetID, sheetType, studentName string, settings models.PrintSettings) (*models.PrintSheet, error) {
	if sheetType != "question" && sheetType != "answer" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSheetType, sheetType)
	}

	set, err := s.setRepo.GetByID(ctx, questionSetID)
	if err != nil {
		return nil, err
	}

	questions := set.Questions
	if sheetType == "question" {
		// 問題用紙には解答・解説を載せない
		questions = stripAnswers(questions, settings)
	}

	sheet := &models.PrintSheet{
		ID:            uuid.NewString(),
		QuestionSetID: set.ID,
		StudentName:   studentName,
		Date:          time.Now().Format("2006-01-02"),
		SheetType:     sheetType,
		Questions:     questions,
		PrintSettings: settings,
	}

	entry := &models.PrintHistoryEntry{
		ID:              sheet.ID,
		StudentName:     studentName,
		SheetType:       sheetType,
		QuestionSetID:   set.ID,
		QuestionSetName: set.Name,
		PrintedAt:       time.Now(),
		Status:          "completed",
	}
	if err := s.repo.RecordHistory(ctx, entry); err != nil {
		s.logger.Warn("印刷履歴の記録に失敗", zap.Error(err))
	}

	return sheet, nil
}

// stripAnswers は問題用紙向けに正解情報を落としたコピーを返す。
func stripAnswers(questions []models.Question, settings models.PrintSettings) []models.Question {
	out := make([]models.Question, len(questions))
	for i, q := range questions {
		copied := q
		if !settings.IncludeAnswers {
			copied.CorrectAnswer = ""
			choices := make([]models.Choice, len(q.Choices))
			for j, ch := range q.Choices {
				ch.IsCorrect = false
				choices[j] = ch
			}
			copied.Choices = choices
		}
		if !settings.IncludeExplanations {
			copied.Explanation = ""
			copied.DistractorNotes = nil
		}
		out[i] = copied
	}
	return out
}

// BuildWeaknessPrint は成績履歴から最も正答率の低い出題形式を特定し、
// その形式の新作問題で弱点対策プリントを組み立てる。
func (s *printService) BuildWeaknessPrint(ctx context.Context, studentID string, count int) (*models.WeaknessPrint, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if count < 1 || count > MaxQuestionCount {
		count = 5
	}

	records, err := s.scoreRepo.List(ctx, models.ScoreFilter{StudentID: studentID})
	if err != nil {
		return nil, err
	}

	weakType, focusAreas := weakestType(records)

	result, err := s.generator.Generate(ctx, models.GenerationRequest{
		Grade:        student.Grade,
		QuestionType: weakType,
		Count:        count,
	})
	if err != nil {
		return nil, err
	}

	print := &models.WeaknessPrint{
		ID:            uuid.NewString(),
		StudentID:     studentID,
		Grade:         student.Grade,
		Type:          weakType,
		FocusAreas:    focusAreas,
		Questions:     result.Questions,
		GeneratedAt:   time.Now().Format(time.RFC3339),
		PrintSettings: models.DefaultPrintSettings(),
	}

	entry := &models.PrintHistoryEntry{
		ID:          print.ID,
		StudentID:   studentID,
		StudentName: student.Name,
		SheetType:   "weakness",
		PrintedAt:   time.Now(),
		Status:      "completed",
	}
	if err := s.repo.RecordHistory(ctx, entry); err != nil {
		s.logger.Warn("印刷履歴の記録に失敗", zap.Error(err))
	}

	return print, nil
}

// weakestType は成績履歴から平均スコアが最も低い出題形式を返す。
// 履歴がない場合は語彙問題を既定とする。
func weakestType(records []*models.ScoreRecord) (models.QuestionType, []string) {
	if len(records) == 0 {
		return models.TypeVocabulary, []string{"履歴なし（語彙を既定で出題）"}
	}

	sums := map[models.QuestionType]float64{}
	counts := map[models.QuestionType]int{}
	for _, r := range records {
		sums[r.Type] += r.Score
		counts[r.Type]++
	}

	weakType := models.TypeVocabulary
	weakAvg := 101.0
	var focusAreas []string
	for _, qtype := range models.QuestionTypes {
		n := counts[qtype]
		if n == 0 {
			continue
		}
		avg := sums[qtype] / float64(n)
		if avg < weakAvg {
			weakAvg = avg
			weakType = qtype
		}
		if avg < 70 {
			focusAreas = append(focusAreas, fmt.Sprintf("%s (平均 %.1f点)", qtype, avg))
		}
	}
	if len(focusAreas) == 0 {
		focusAreas = []string{fmt.Sprintf("%s (平均 %.1f点)", weakType, weakAvg)}
	}
	return weakType, focusAreas
}

func (s *printService) History(ctx context.Context, filter models.PrintHistoryFilter) ([]*models.PrintHistoryEntry, error) {
	return s.repo.ListHistory(ctx, filter)
}

func (s *printService) RecordQREvent(ctx context.Context, req models.RecordQREventRequest) (*models.QREvent, error) {
	event := &models.QREvent{
		ID:            uuid.NewString(),
		EventType:     req.EventType,
		StudentID:     req.StudentID,
		StudentName:   req.StudentName,
		QuestionSetID: req.QuestionSetID,
		QuestionID:    req.QuestionID,
		Correct:       req.Correct,
		QRID:          req.QRID,
		Override:      req.Override,
		ScannedAt:     time.Now(),
	}
	if err := s.repo.RecordQREvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *printService) ListQREvents(ctx context.Context, studentID string, limit int) ([]*models.QREvent, error) {
	return s.repo.ListQREvents(ctx, studentID, limit)
}

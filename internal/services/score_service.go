package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
	"github.com/iwasawa-gakuin/eiken-gen/internal/repositories"
)

type ScoreService interface {
	Record(ctx context.Context, req models.CreateScoreRequest) (*models.ScoreRecord, error)
	Get(ctx context.Context, id string) (*models.ScoreRecord, error)
	List(ctx context.Context, filter models.ScoreFilter) ([]*models.ScoreRecord, error)
	Stats(ctx context.Context, studentID string) (*models.ScoreStats, error)
	Delete(ctx context.Context, id string) error
}

type scoreService struct {
	repo        repositories.ScoreRepository
	studentRepo repositories.StudentRepository
}

func NewScoreService(repo repositories.ScoreRepository, studentRepo repositories.StudentRepository) ScoreService {
	return &scoreService{repo: repo, studentRepo: studentRepo}
}

func (s *scoreService) Record(ctx context.Context, req models.CreateScoreRequest) (*models.ScoreRecord, error) {
	// 存在しない塾生のスコアは登録させない
	if _, err := s.studentRepo.GetByID(ctx, req.StudentID); err != nil {
		return nil, err
	}

	score := req.Score
	if score == 0 && req.TotalQuestions > 0 {
		score = math.Round(float64(req.CorrectAnswers)/float64(req.TotalQuestions)*1000) / 10
	}
	if score < 0 || score > 100 {
		return nil, fmt.Errorf("スコアは0〜100の範囲で指定してください (指定値: %v)", score)
	}

	record := &models.ScoreRecord{
		ID:             uuid.NewString(),
		StudentID:      req.StudentID,
		QuestionSetID:  req.QuestionSetID,
		Grade:          req.Grade,
		Type:           req.Type,
		Score:          score,
		TotalQuestions: req.TotalQuestions,
		CorrectAnswers: req.CorrectAnswers,
		TimeSpent:      req.TimeSpent,
		Answers:        req.Answers,
		CompletedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *scoreService) Get(ctx context.Context, id string) (*models.ScoreRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *scoreService) List(ctx context.Context, filter models.ScoreFilter) ([]*models.ScoreRecord, error) {
	return s.repo.List(ctx, filter)
}

func (s *scoreService) Stats(ctx context.Context, studentID string) (*models.ScoreStats, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.repo.Stats(ctx, studentID)
}

func (s *scoreService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

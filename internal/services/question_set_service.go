package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/iwasawa-gakuin/eiken-gen/internal/eiken"
	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
	"github.com/iwasawa-gakuin/eiken-gen/internal/repositories"
)

type QuestionSetService interface {
	Create(ctx context.Context, req models.CreateQuestionSetRequest) (*models.QuestionSet, error)
	Get(ctx context.Context, id string) (*models.QuestionSet, error)
	List(ctx context.Context, filter models.QuestionSetFilter) ([]*models.QuestionSet, error)
	Update(ctx context.Context, id string, req models.UpdateQuestionSetRequest) (*models.QuestionSet, error)
	Delete(ctx context.Context, id string) error
}

type questionSetService struct {
	repo repositories.QuestionSetRepository
}

func NewQuestionSetService(repo repositories.QuestionSetRepository) QuestionSetService {
	return &questionSetService{repo: repo}
}

func (s *questionSetService) Create(ctx context.Context, req models.CreateQuestionSetRequest) (*models.QuestionSet, error) {
	if _, err := eiken.Lookup(req.Grade); err != nil {
		return nil, err
	}

	now := time.Now()
	set := &models.QuestionSet{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Grade:       req.Grade,
		Type:        req.Type,
		Questions:   req.Questions,
		CreatedBy:   req.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, set); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *questionSetService) Get(ctx context.Context, id string) (*models.QuestionSet, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *questionSetService) List(ctx context.Context, filter models.QuestionSetFilter) ([]*models.QuestionSet, error) {
	return s.repo.List(ctx, filter)
}

func (s *questionSetService) Update(ctx context.Context, id string, req models.UpdateQuestionSetRequest) (*models.QuestionSet, error) {
	set, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		set.Name = *req.Name
	}
	if req.Description != nil {
		set.Description = *req.Description
	}
	if req.Questions != nil {
		set.Questions = *req.Questions
	}
	set.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, set); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *questionSetService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

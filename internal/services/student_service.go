package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/iwasawa-gakuin/eiken-gen/internal/eiken"
	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
	"github.com/iwasawa-gakuin/eiken-gen/internal/repositories"
)

type StudentService interface {
	Create(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error)
	Get(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error)
	Update(ctx context.Context, id string, req models.UpdateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, id string) error
}

type studentService struct {
	repo repositories.StudentRepository
}

func NewStudentService(repo repositories.StudentRepository) StudentService {
	return &studentService{repo: repo}
}

func (s *studentService) Create(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	if _, err := eiken.Lookup(req.Grade); err != nil {
		return nil, err
	}

	student := &models.Student{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Grade:      req.Grade,
		Email:      req.Email,
		SchoolYear: req.SchoolYear,
		School:     req.School,
		JoinedAt:   time.Now(),
		IsActive:   true,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *studentService) Get(ctx context.Context, id string) (*models.Student, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *studentService) List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error) {
	return s.repo.List(ctx, filter)
}

func (s *studentService) Update(ctx context.Context, id string, req models.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Grade != nil {
		if _, err := eiken.Lookup(*req.Grade); err != nil {
			return nil, err
		}
		student.Grade = *req.Grade
	}
	if req.Email != nil {
		student.Email = *req.Email
	}
	if req.SchoolYear != nil {
		student.SchoolYear = *req.SchoolYear
	}
	if req.School != nil {
		student.School = *req.School
	}
	if req.IsActive != nil {
		student.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *studentService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

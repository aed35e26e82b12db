package service

import (
	"context"
	"errors"

	"app/internal/model"
	"app/internal/repository"
)

var ErrSemesterNotFound = errors.New("semester not found")

// SemesterService defines the interface for semester operations
type SemesterService interface {
	GetSemesters(ctx context.Context, userID string) ([]model.Semester, error)
	CreateSemester(ctx context.Context, s *model.Semester) (*model.Semester, error)
	// UpdateSemester updates an existing semester owned by the user
	UpdateSemester(ctx context.Context, s *model.Semester) (*model.Semester, error)
	// DeleteSemester deletes a semester along with its courses and their tasks
	DeleteSemester(ctx context.Context, userID, semesterID string) error
}

// semesterService is the implementation of SemesterService
type semesterService struct {
	repo       repository.SemesterRepository
	courseRepo repository.CourseRepository
	taskRepo   repository.TaskRepository
}

// NewSemesterService creates a new SemesterService
func NewSemesterService(repo repository.SemesterRepository, courseRepo repository.CourseRepository, taskRepo repository.TaskRepository) SemesterService {
	return &semesterService{repo: repo, courseRepo: courseRepo, taskRepo: taskRepo}
}

// GetSemesters lists the user's semesters ordered by start date
func (s *semesterService) GetSemesters(ctx context.Context, userID string) ([]model.Semester, error) {
	return s.repo.GetSemestersByUserID(ctx, userID)
}

// CreateSemester creates a new semester record
func (s *semesterService) CreateSemester(ctx context.Context, semester *model.Semester) (*model.Semester, error) {
	if err := s.repo.CreateSemester(ctx, semester); err != nil {
		return nil, err
	}
	return semester, nil
}

// UpdateSemester updates an existing semester record
func (s *semesterService) UpdateSemester(ctx context.Context, semester *model.Semester) (*model.Semester, error) {
	existing, err := s.repo.GetSemesterByID(ctx, semester.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil || existing.UserID != semester.UserID {
		return nil, ErrSemesterNotFound
	}

	if err := s.repo.UpdateSemester(ctx, semester); err != nil {
		return nil, err
	}
	return semester, nil
}

// DeleteSemester deletes a semester. Tasks belonging to the semester's
// courses are removed first since tasks reference courses by code only.
func (s *semesterService) DeleteSemester(ctx context.Context, userID, semesterID string) error {
	existing, err := s.repo.GetSemesterByID(ctx, semesterID)
	if err != nil {
		return err
	}
	if existing == nil || existing.UserID != userID {
		return ErrSemesterNotFound
	}

	courses, err := s.courseRepo.GetCoursesBySemesterID(ctx, semesterID)
	if err != nil {
		return err
	}
	for _, course := range courses {
		if err := s.taskRepo.DeleteTasksByCourseCode(ctx, userID, course.Code); err != nil {
			return err
		}
	}
	return s.repo.DeleteSemester(ctx, semesterID)
}

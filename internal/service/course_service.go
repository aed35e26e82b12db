package service

import (
	"context"
	"errors"

	"app/internal/model"
	"app/internal/repository"
)

var ErrCourseNotFound = errors.New("course not found")

// CourseService defines the interface for course operations
type CourseService interface {
	GetCourses(ctx context.Context, userID string) ([]model.Course, error)
	CreateCourse(ctx context.Context, c *model.Course) (*model.Course, error)
	// UpdateCourse updates an existing course owned by the user
	UpdateCourse(ctx context.Context, c *model.Course) (*model.Course, error)
	// DeleteCourse deletes a course along with its tasks
	DeleteCourse(ctx context.Context, userID, courseID string) error
}

// courseService is the implementation of CourseService
type courseService struct {
	repo         repository.CourseRepository
	semesterRepo repository.SemesterRepository
	taskRepo     repository.TaskRepository
}

// NewCourseService creates a new CourseService
func NewCourseService(repo repository.CourseRepository, semesterRepo repository.SemesterRepository, taskRepo repository.TaskRepository) CourseService {
	return &courseService{repo: repo, semesterRepo: semesterRepo, taskRepo: taskRepo}
}

// GetCourses lists the user's courses
func (s *courseService) GetCourses(ctx context.Context, userID string) ([]model.Course, error) {
	return s.repo.GetCoursesByUserID(ctx, userID)
}

// CreateCourse creates a new course record under an existing semester
func (s *courseService) CreateCourse(ctx context.Context, c *model.Course) (*model.Course, error) {
	semester, err := s.semesterRepo.GetSemesterByID(ctx, c.SemesterID)
	if err != nil {
		return nil, err
	}
	if semester == nil || semester.UserID != c.UserID {
		return nil, ErrSemesterNotFound
	}

	if err := s.repo.CreateCourse(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCourse updates an existing course record
func (s *courseService) UpdateCourse(ctx context.Context, c *model.Course) (*model.Course, error) {
	existing, err := s.repo.GetCourseByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil || existing.UserID != c.UserID {
		return nil, ErrCourseNotFound
	}

	if err := s.repo.UpdateCourse(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCourse deletes a course and the tasks that reference its code
func (s *courseService) DeleteCourse(ctx context.Context, userID, courseID string) error {
	existing, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return err
	}
	if existing == nil || existing.UserID != userID {
		return ErrCourseNotFound
	}

	if err := s.taskRepo.DeleteTasksByCourseCode(ctx, userID, existing.Code); err != nil {
		return err
	}
	return s.repo.DeleteCourse(ctx, courseID)
}

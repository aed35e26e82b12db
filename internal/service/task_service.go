package service

import (
	"context"
	"errors"
	"fmt"

	"app/internal/model"
	"app/internal/repository"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskService defines the interface for task operations
type TaskService interface {
	GetTasks(ctx context.Context, userID string) ([]model.Task, error)
	CreateTask(ctx context.Context, t *model.Task) (*model.Task, error)
	// UpdateTask updates an existing task owned by the user
	UpdateTask(ctx context.Context, t *model.Task) (*model.Task, error)
	// DeleteTask deletes a task by its ID
	DeleteTask(ctx context.Context, userID, taskID string) error
}

// taskService is the implementation of TaskService
type taskService struct {
	repo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(repo repository.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

// GetTasks lists the user's tasks ordered by due date
func (s *taskService) GetTasks(ctx context.Context, userID string) ([]model.Task, error) {
	return s.repo.GetTasksByUserID(ctx, userID)
}

// CreateTask creates a new task record
func (s *taskService) CreateTask(ctx context.Context, t *model.Task) (*model.Task, error) {
	if !model.ValidTaskType(string(t.TaskType)) {
		return nil, fmt.Errorf("invalid task type: %s", t.TaskType)
	}
	if t.Status == "" {
		t.Status = model.StatusNotStarted
	}
	if !model.ValidTaskStatus(string(t.Status)) {
		return nil, fmt.Errorf("invalid task status: %s", t.Status)
	}

	if err := s.repo.CreateTask(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTask updates an existing task record
func (s *taskService) UpdateTask(ctx context.Context, t *model.Task) (*model.Task, error) {
	existing, err := s.repo.GetTaskByID(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil || existing.UserID != t.UserID {
		return nil, ErrTaskNotFound
	}
	if !model.ValidTaskType(string(t.TaskType)) {
		return nil, fmt.Errorf("invalid task type: %s", t.TaskType)
	}
	if !model.ValidTaskStatus(string(t.Status)) {
		return nil, fmt.Errorf("invalid task status: %s", t.Status)
	}

	if err := s.repo.UpdateTask(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTask deletes a task by its ID
func (s *taskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	existing, err := s.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		return err
	}
	if existing == nil || existing.UserID != userID {
		return ErrTaskNotFound
	}
	return s.repo.DeleteTask(ctx, taskID)
}

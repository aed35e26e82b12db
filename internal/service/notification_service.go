package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"app/internal/email"
	"app/internal/model"
	"app/internal/pgmq"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// DigestJob is the payload enqueued for each user whose digest is due.
type DigestJob struct {
	UserID     string             `json:"userId"`
	Email      string             `json:"email"`
	Frequency  string             `json:"frequency"`
	DaysWindow int                `json:"daysWindow"`
	Tasks      []email.DigestTask `json:"tasks"`
}

// NotificationService defines the interface for notification preferences and
// digest dispatch
type NotificationService interface {
	GetPreferences(ctx context.Context, userID string) (*model.NotificationPreferences, error)
	UpdatePreferences(ctx context.Context, p *model.NotificationPreferences) (*model.NotificationPreferences, error)
	// DispatchDigests enqueues one digest job per recipient with upcoming tasks
	DispatchDigests(ctx context.Context) (int, error)
}

// notificationService is the implementation of NotificationService
type notificationService struct {
	repo      repository.NotificationRepository
	taskRepo  repository.TaskRepository
	queue     *pgmq.Client
	queueName string
	now       func() time.Time
	logger    zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo repository.NotificationRepository, taskRepo repository.TaskRepository, queue *pgmq.Client, queueName string, logger zerolog.Logger) NotificationService {
	return &notificationService{
		repo:      repo,
		taskRepo:  taskRepo,
		queue:     queue,
		queueName: queueName,
		now:       time.Now,
		logger:    logger.With().Str("service", "NotificationService").Logger(),
	}
}

// GetPreferences returns the user's notification preferences, falling back
// to defaults when none are stored yet.
func (s *notificationService) GetPreferences(ctx context.Context, userID string) (*model.NotificationPreferences, error) {
	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return model.DefaultNotificationPreferences(userID), nil
	}
	return prefs, nil
}

// UpdatePreferences stores the user's notification preferences
func (s *notificationService) UpdatePreferences(ctx context.Context, p *model.NotificationPreferences) (*model.NotificationPreferences, error) {
	if err := s.repo.UpsertPreferences(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DispatchDigests walks every recipient with email notifications enabled,
// collects their upcoming incomplete tasks, and enqueues a digest job for
// each recipient that has any. A failure for one recipient does not stop
// the others. Returns the number of jobs enqueued.
func (s *notificationService) DispatchDigests(ctx context.Context) (int, error) {
	recipients, err := s.repo.ListDigestRecipients(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list digest recipients: %w", err)
	}

	enqueued := 0
	for _, recipient := range recipients {
		if err := s.dispatchFor(ctx, recipient); err != nil {
			s.logger.Error().Err(err).Str("userID", recipient.UserID).Msg("Failed to dispatch digest")
			continue
		}
		enqueued++
	}
	return enqueued, nil
}

func (s *notificationService) dispatchFor(ctx context.Context, recipient model.DigestRecipient) error {
	tasks, err := s.taskRepo.GetTasksByUserID(ctx, recipient.UserID)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	upcoming := s.upcomingTasks(tasks, recipient.UpcomingTasksWindow)
	if len(upcoming) == 0 {
		return nil
	}

	job := DigestJob{
		UserID:     recipient.UserID,
		Email:      recipient.Email,
		Frequency:  recipient.DigestFrequency,
		DaysWindow: recipient.UpcomingTasksWindow,
		Tasks:      upcoming,
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal digest job: %w", err)
	}
	if err := s.queue.Send(ctx, s.queueName, payload, 0); err != nil {
		return fmt.Errorf("failed to enqueue digest job: %w", err)
	}

	s.logger.Info().Str("userID", recipient.UserID).Int("tasks", len(upcoming)).Msg("Digest job enqueued")
	return nil
}

// upcomingTasks filters to incomplete tasks due after now and within the
// given number of days.
func (s *notificationService) upcomingTasks(tasks []model.Task, daysWindow int) []email.DigestTask {
	now := s.now()
	cutoff := now.AddDate(0, 0, daysWindow)

	var upcoming []email.DigestTask
	for _, task := range tasks {
		if task.Status == model.StatusCompleted {
			continue
		}
		due, err := time.Parse("2006-01-02", task.DueDate)
		if err != nil {
			continue
		}
		if due.Before(now) || due.After(cutoff) {
			continue
		}
		upcoming = append(upcoming, email.DigestTask{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			Course:      task.Course,
			CourseCode:  task.CourseCode,
			DueDate:     task.DueDate,
		})
	}
	return upcoming
}

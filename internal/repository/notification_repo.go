package repository

import (
	"context"
	"database/sql"
	"errors"

	"app/internal/model"
)

// NotificationRepository manages notification preferences and digest
// recipient lookups.
type NotificationRepository interface {
	// GetPreferences returns the user's saved preferences, or nil if they
	// have never saved any.
	GetPreferences(ctx context.Context, userID string) (*model.NotificationPreferences, error)
	UpsertPreferences(ctx context.Context, p *model.NotificationPreferences) error
	// ListDigestRecipients returns every user with email notifications
	// enabled, joined with their profile email.
	ListDigestRecipients(ctx context.Context) ([]model.DigestRecipient, error)
}

type notificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo creates a new NotificationRepository
func NewNotificationRepo(db *sql.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) GetPreferences(ctx context.Context, userID string) (*model.NotificationPreferences, error) {
	query := `
		SELECT user_id, digest_frequency, digest_time, email_notifications, upcoming_tasks_window, created_at, updated_at
		FROM notification_preferences
		WHERE user_id = $1
	`
	var p model.NotificationPreferences
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&p.DigestFrequency,
		&p.DigestTime,
		&p.EmailNotifications,
		&p.UpcomingTasksWindow,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *notificationRepo) UpsertPreferences(ctx context.Context, p *model.NotificationPreferences) error {
	query := `
		INSERT INTO notification_preferences (user_id, digest_frequency, digest_time, email_notifications, upcoming_tasks_window)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET digest_frequency = EXCLUDED.digest_frequency,
		    digest_time = EXCLUDED.digest_time,
		    email_notifications = EXCLUDED.email_notifications,
		    upcoming_tasks_window = EXCLUDED.upcoming_tasks_window,
		    updated_at = NOW()
		RETURNING user_id, digest_frequency, digest_time, email_notifications, upcoming_tasks_window, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, p.UserID, p.DigestFrequency, p.DigestTime, p.EmailNotifications, p.UpcomingTasksWindow).
		Scan(&p.UserID, &p.DigestFrequency, &p.DigestTime, &p.EmailNotifications, &p.UpcomingTasksWindow, &p.CreatedAt, &p.UpdatedAt)
}

func (r *notificationRepo) ListDigestRecipients(ctx context.Context) ([]model.DigestRecipient, error) {
	query := `
		SELECT np.user_id, up.email, np.digest_frequency, np.upcoming_tasks_window
		FROM notification_preferences np
		JOIN user_profiles up ON up.user_id = np.user_id
		WHERE np.email_notifications = TRUE
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipients []model.DigestRecipient
	for rows.Next() {
		var rec model.DigestRecipient
		if err := rows.Scan(&rec.UserID, &rec.Email, &rec.DigestFrequency, &rec.UpcomingTasksWindow); err != nil {
			return nil, err
		}
		recipients = append(recipients, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return []model.DigestRecipient{}, nil
	}
	return recipients, nil
}

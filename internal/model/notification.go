package model

import "time"

// NotificationPreferences controls whether and how a user receives task
// digest emails. UpcomingTasksWindow is the number of days ahead of now
// within which a task's due date qualifies it for a digest.
type NotificationPreferences struct {
	UserID              string    `db:"user_id" json:"user_id"`
	DigestFrequency     string    `db:"digest_frequency" json:"digestFrequency"`
	DigestTime          string    `db:"digest_time" json:"digestTime"`
	EmailNotifications  bool      `db:"email_notifications" json:"emailNotifications"`
	UpcomingTasksWindow int       `db:"upcoming_tasks_window" json:"upcomingTasksWindow"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultNotificationPreferences returns the defaults applied to users who
// have never saved preferences.
func DefaultNotificationPreferences(userID string) *NotificationPreferences {
	return &NotificationPreferences{
		UserID:              userID,
		DigestFrequency:     "daily",
		DigestTime:          "09:00",
		EmailNotifications:  true,
		UpcomingTasksWindow: 7,
	}
}

// DigestRecipient pairs a user's email address with their digest settings.
type DigestRecipient struct {
	UserID              string `db:"user_id"`
	Email               string `db:"email"`
	DigestFrequency     string `db:"digest_frequency"`
	UpcomingTasksWindow int    `db:"upcoming_tasks_window"`
}

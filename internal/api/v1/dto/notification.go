package dto

import "time"

// NotificationPreferencesDTO is used for incoming preference updates
type NotificationPreferencesDTO struct {
	DigestFrequency     string `json:"digestFrequency" validate:"required,oneof=daily weekly"`
	DigestTime          string `json:"digestTime" validate:"required,datetime=15:04"`
	EmailNotifications  *bool  `json:"emailNotifications" validate:"required"`
	UpcomingTasksWindow int    `json:"upcomingTasksWindow" validate:"required,min=1,max=30"`
}

// NotificationPreferencesResponseDTO is returned in API responses for
// notification preferences
type NotificationPreferencesResponseDTO struct {
	UserID              string    `json:"userId"`
	DigestFrequency     string    `json:"digestFrequency"`
	DigestTime          string    `json:"digestTime"`
	EmailNotifications  bool      `json:"emailNotifications"`
	UpcomingTasksWindow int       `json:"upcomingTasksWindow"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// DigestDispatchResponseDTO is returned from the manual dispatch endpoint
type DigestDispatchResponseDTO struct {
	Enqueued int `json:"enqueued"`
}

package dto

import "time"

// UserResponseDTO is returned in API responses for the authenticated user
type UserResponseDTO struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

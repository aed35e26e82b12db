package dto

import "time"

// CourseCreateDTO is used for incoming course creation requests
type CourseCreateDTO struct {
	SemesterID  string  `json:"semesterId" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Code        string  `json:"code" validate:"required,alphanum"`
	Description *string `json:"description,omitempty"`
	Instructor  *string `json:"instructor,omitempty"`
}

// CourseResponseDTO is returned in API responses for courses
type CourseResponseDTO struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	SemesterID  string    `json:"semesterId"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Instructor  string    `json:"instructor"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CourseUpdateDTO is used for incoming course update requests
type CourseUpdateDTO struct {
	Name        *string `json:"name,omitempty"`
	Code        *string `json:"code,omitempty" validate:"omitempty,alphanum"`
	Description *string `json:"description,omitempty"`
	Instructor  *string `json:"instructor,omitempty"`
}

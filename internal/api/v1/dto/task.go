package dto

import "time"

// TaskCreateDTO is used for incoming task creation requests
type TaskCreateDTO struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description,omitempty"`
	Course      string  `json:"course" validate:"required"`
	CourseCode  string  `json:"courseCode" validate:"required"`
	TaskType    string  `json:"taskType" validate:"required,oneof=assignment reading test quiz project other"`
	DueDate     string  `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=not-started in-progress completed"`
}

// TaskResponseDTO is returned in API responses for tasks
type TaskResponseDTO struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Course      string    `json:"course"`
	CourseCode  string    `json:"courseCode"`
	TaskType    string    `json:"taskType"`
	DueDate     string    `json:"dueDate"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskUpdateDTO is used for incoming task update requests
type TaskUpdateDTO struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Course      *string `json:"course,omitempty"`
	CourseCode  *string `json:"courseCode,omitempty"`
	TaskType    *string `json:"taskType,omitempty" validate:"omitempty,oneof=assignment reading test quiz project other"`
	DueDate     *string `json:"dueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=not-started in-progress completed"`
}

package dto

import "app/internal/model"

// ParseRequestDTO is used for incoming raw-text structuring requests
type ParseRequestDTO struct {
	Text string `json:"text" validate:"required"`
}

// ParseResponseDTO is returned from the structuring endpoint
type ParseResponseDTO struct {
	Semester model.ParsedSemester `json:"semester"`
	Course   model.ParsedCourse   `json:"course"`
	Tasks    []model.ParsedTask   `json:"tasks"`
}

// UploadResponseDTO is returned after a syllabus file has been processed
type UploadResponseDTO struct {
	Message       string                `json:"message"`
	MissingFields []string              `json:"missingFields"`
	SemesterID    string                `json:"semesterId,omitempty"`
	CourseID      string                `json:"courseId,omitempty"`
	CreatedTasks  int                   `json:"createdTasks"`
	SkippedTasks  int                   `json:"skippedTasks"`
	Parsed        *model.ParsedSyllabus `json:"parsed"`
}

// ErrorResponseDTO is the JSON error body used by the syllabus endpoints
type ErrorResponseDTO struct {
	Error string `json:"error"`
}

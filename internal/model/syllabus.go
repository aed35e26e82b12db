package model

// ParsedSyllabus is the ephemeral structure produced by the AI structuring
// step. Every field is optional because extraction may be incomplete; it is
// never persisted as-is. Only fields that survive validation and
// deduplication are materialized into real entities.
type ParsedSyllabus struct {
	Semester ParsedSemester `json:"semester"`
	Course   ParsedCourse   `json:"course"`
	Tasks    []ParsedTask   `json:"tasks"`
}

// ParsedSemester is a partially populated semester.
type ParsedSemester struct {
	Name      *string `json:"name,omitempty"`
	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
}

// ParsedCourse is a partially populated course.
type ParsedCourse struct {
	Name        *string `json:"name,omitempty"`
	Code        *string `json:"code,omitempty"`
	Description *string `json:"description,omitempty"`
	Instructor  *string `json:"instructor,omitempty"`
}

// ParsedTask is a partially populated task. Status, when present, may only
// be "not-started": the parse-time schema is narrower than the persisted
// Task entity on purpose.
type ParsedTask struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	TaskType    *string `json:"taskType,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	Status      *string `json:"status,omitempty"`
}

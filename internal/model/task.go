package model

import "time"

// TaskType categorizes a task.
type TaskType string

const (
	TaskTypeAssignment TaskType = "assignment"
	TaskTypeReading    TaskType = "reading"
	TaskTypeTest       TaskType = "test"
	TaskTypeQuiz       TaskType = "quiz"
	TaskTypeProject    TaskType = "project"
	TaskTypeOther      TaskType = "other"
)

// TaskTypes lists every valid task type.
var TaskTypes = []TaskType{
	TaskTypeAssignment,
	TaskTypeReading,
	TaskTypeTest,
	TaskTypeQuiz,
	TaskTypeProject,
	TaskTypeOther,
}

// ValidTaskType reports whether s is one of the enumerated task types.
func ValidTaskType(s string) bool {
	for _, t := range TaskTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// TaskStatus is the lifecycle status of a persisted task. The syllabus
// parser is only ever allowed to produce StatusNotStarted; the other
// statuses are reachable through user edits.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not-started"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// ValidTaskStatus reports whether s is one of the enumerated statuses.
func ValidTaskStatus(s string) bool {
	switch TaskStatus(s) {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task references its course by name and code captured at creation time.
// Due dates are calendar dates in YYYY-MM-DD form.
type Task struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"user_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Course      string     `db:"course_name" json:"course"`
	CourseCode  string     `db:"course_code" json:"courseCode"`
	TaskType    TaskType   `db:"task_type" json:"taskType"`
	DueDate     string     `db:"due_date" json:"dueDate"`
	Status      TaskStatus `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

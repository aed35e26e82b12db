package model

import "time"

// Course belongs to exactly one semester. Deleting the semester cascades to
// its courses at the database level; tasks reference courses by code and are
// cleaned up in the service layer.
type Course struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	SemesterID  string    `db:"semester_id" json:"semesterId"`
	Name        string    `db:"name" json:"name"`
	Code        string    `db:"code" json:"code"`
	Description string    `db:"description" json:"description,omitempty"`
	Instructor  string    `db:"instructor" json:"instructor,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Package schema validates parsed syllabus data before it is committed.
//
// The parse-time schema is deliberately narrower than the persisted
// entities: every field is optional (extraction may be incomplete), but any
// field that is present must be well formed, and task status may only be
// "not-started". Validation is pure: it performs no I/O and the same input
// always yields the same verdict for a given reference time.
package schema

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"app/internal/model"
)

const dateLayout = "2006-01-02"

var (
	dateRe         = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	alphanumericRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string
	Message string
}

func (v Violation) String() string {
	return v.Field + ": " + v.Message
}

// Join renders a violation list as one combined human-readable message.
func Join(violations []Violation) string {
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, "\n")
}

// ValidateParsed checks parsed syllabus data against the parse-time schema
// and returns the violations in field order. Per-field checks run first;
// the whole-document date ceiling (now + 5 years) is applied only once they
// all pass.
func ValidateParsed(p *model.ParsedSyllabus, now time.Time) []Violation {
	var violations []Violation

	if p.Semester.Name != nil && strings.TrimSpace(*p.Semester.Name) == "" {
		violations = append(violations, Violation{"semester.name", "Semester name is required"})
	}
	violations = appendDateViolation(violations, "semester.startDate", p.Semester.StartDate)
	violations = appendDateViolation(violations, "semester.endDate", p.Semester.EndDate)
	if validDate(p.Semester.StartDate) && validDate(p.Semester.EndDate) {
		start, _ := time.Parse(dateLayout, *p.Semester.StartDate)
		end, _ := time.Parse(dateLayout, *p.Semester.EndDate)
		if !end.After(start) {
			violations = append(violations, Violation{"semester.endDate", "End date must be after start date"})
		}
	}

	if p.Course.Name != nil && strings.TrimSpace(*p.Course.Name) == "" {
		violations = append(violations, Violation{"course.name", "Course name is required"})
	}
	if p.Course.Code != nil && !alphanumericRe.MatchString(*p.Course.Code) {
		violations = append(violations, Violation{"course.code", "Course code must be alphanumeric"})
	}

	for i, task := range p.Tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		if task.Title != nil && strings.TrimSpace(*task.Title) == "" {
			violations = append(violations, Violation{path + ".title", "Title is required"})
		}
		if task.TaskType != nil && !model.ValidTaskType(*task.TaskType) {
			violations = append(violations, Violation{path + ".taskType", "Invalid task type"})
		}
		violations = appendDateViolation(violations, path+".dueDate", task.DueDate)
		if task.Status != nil && *task.Status != string(model.StatusNotStarted) {
			violations = append(violations, Violation{path + ".status", `Status must be "not-started"`})
		}
	}

	if len(violations) > 0 {
		return violations
	}

	ceiling := now.AddDate(5, 0, 0)
	if dateAfter(p.Semester.StartDate, ceiling) || dateAfter(p.Semester.EndDate, ceiling) {
		return []Violation{{"semester", "Dates cannot be more than 5 years in the future"}}
	}
	for i, task := range p.Tasks {
		if dateAfter(task.DueDate, ceiling) {
			return []Violation{{fmt.Sprintf("tasks[%d].dueDate", i), "Dates cannot be more than 5 years in the future"}}
		}
	}

	return nil
}

// ValidSemester reports whether the parsed semester is complete enough to
// materialize: name, start date, and end date all present and non-blank.
// Field formats are assumed to have passed ValidateParsed already.
func ValidSemester(s model.ParsedSemester) bool {
	return present(s.Name) && present(s.StartDate) && present(s.EndDate)
}

// ValidCourse reports whether the parsed course is complete enough to
// materialize: both name and code present and non-blank.
func ValidCourse(c model.ParsedCourse) bool {
	return present(c.Name) && present(c.Code)
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func validDate(s *string) bool {
	if s == nil || !dateRe.MatchString(*s) {
		return false
	}
	_, err := time.Parse(dateLayout, *s)
	return err == nil
}

func appendDateViolation(violations []Violation, field string, s *string) []Violation {
	if s != nil && !validDate(s) {
		violations = append(violations, Violation{field, "Date must be in YYYY-MM-DD format"})
	}
	return violations
}

func dateAfter(s *string, limit time.Time) bool {
	if !validDate(s) {
		return false
	}
	d, _ := time.Parse(dateLayout, *s)
	return d.After(limit)
}

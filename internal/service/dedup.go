package service

import (
	"strings"

	"app/internal/model"
)

// DuplicateReport marks which parts of a parsed syllabus already exist in
// the user's data.
type DuplicateReport struct {
	Semester    bool
	Course      bool
	TaskIndices []int
}

// HasAny reports whether any part of the document was flagged.
func (r DuplicateReport) HasAny() bool {
	return r.Semester || r.Course || len(r.TaskIndices) > 0
}

func (r DuplicateReport) duplicateTask(index int) bool {
	for _, i := range r.TaskIndices {
		if i == index {
			return true
		}
	}
	return false
}

// CheckDuplicates compares a parsed syllabus against the user's existing
// semesters, courses, and tasks. A semester matches on name plus both dates,
// a course matches on code, and a task matches on case-insensitive title plus
// due date. Tasks that repeat an earlier task within the same document are
// flagged too.
func CheckDuplicates(parsed *model.ParsedSyllabus, semesters []model.Semester, courses []model.Course, tasks []model.Task) DuplicateReport {
	report := DuplicateReport{TaskIndices: []int{}}

	if present(parsed.Semester.Name) && present(parsed.Semester.StartDate) && present(parsed.Semester.EndDate) {
		for _, s := range semesters {
			if s.Name == *parsed.Semester.Name &&
				s.StartDate == *parsed.Semester.StartDate &&
				s.EndDate == *parsed.Semester.EndDate {
				report.Semester = true
				break
			}
		}
	}

	if present(parsed.Course.Code) {
		for _, c := range courses {
			if c.Code == *parsed.Course.Code {
				report.Course = true
				break
			}
		}
	}

	seen := map[string]struct{}{}
	for _, t := range tasks {
		seen[taskKey(t.Title, t.DueDate)] = struct{}{}
	}
	for i, task := range parsed.Tasks {
		if !present(task.Title) || !present(task.DueDate) {
			continue
		}
		key := taskKey(*task.Title, *task.DueDate)
		if _, ok := seen[key]; ok {
			report.TaskIndices = append(report.TaskIndices, i)
			continue
		}
		seen[key] = struct{}{}
	}

	return report
}

func taskKey(title, dueDate string) string {
	return strings.ToLower(title) + "\x00" + dueDate
}

func present(s *string) bool {
	return s != nil && *s != ""
}

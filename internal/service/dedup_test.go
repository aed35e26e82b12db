package service

import (
	"reflect"
	"testing"

	"app/internal/model"
)

func strPtr(s string) *string { return &s }

func parsedDoc() *model.ParsedSyllabus {
	return &model.ParsedSyllabus{
		Semester: model.ParsedSemester{
			Name:      strPtr("Fall 2026"),
			StartDate: strPtr("2026-09-01"),
			EndDate:   strPtr("2026-12-20"),
		},
		Course: model.ParsedCourse{
			Name: strPtr("Intro to Computer Science"),
			Code: strPtr("CS101"),
		},
		Tasks: []model.ParsedTask{
			{Title: strPtr("Assignment 1"), TaskType: strPtr("assignment"), DueDate: strPtr("2026-09-15")},
			{Title: strPtr("Midterm"), TaskType: strPtr("test"), DueDate: strPtr("2026-10-20")},
		},
	}
}

func TestCheckDuplicatesCleanDocument(t *testing.T) {
	report := CheckDuplicates(parsedDoc(), nil, nil, nil)
	if report.HasAny() {
		t.Fatalf("expected no duplicates, got %+v", report)
	}
}

func TestCheckDuplicatesSemesterMatchesOnAllThreeFields(t *testing.T) {
	existing := []model.Semester{
		{Name: "Fall 2026", StartDate: "2026-09-01", EndDate: "2026-12-20"},
	}
	report := CheckDuplicates(parsedDoc(), existing, nil, nil)
	if !report.Semester {
		t.Fatal("expected semester to be flagged as duplicate")
	}

	// Same name but different dates is not a duplicate.
	existing[0].EndDate = "2026-12-21"
	report = CheckDuplicates(parsedDoc(), existing, nil, nil)
	if report.Semester {
		t.Fatal("semester with different end date should not be a duplicate")
	}
}

func TestCheckDuplicatesCourseMatchesOnCode(t *testing.T) {
	existing := []model.Course{{Code: "CS101", Name: "Something Else Entirely"}}
	report := CheckDuplicates(parsedDoc(), nil, existing, nil)
	if !report.Course {
		t.Fatal("expected course to be flagged as duplicate by code")
	}
}

func TestCheckDuplicatesTaskTitleIsCaseInsensitive(t *testing.T) {
	existing := []model.Task{{Title: "ASSIGNMENT 1", DueDate: "2026-09-15"}}
	report := CheckDuplicates(parsedDoc(), nil, nil, existing)
	if !reflect.DeepEqual(report.TaskIndices, []int{0}) {
		t.Fatalf("expected task 0 to be flagged, got %v", report.TaskIndices)
	}
}

func TestCheckDuplicatesTaskDueDateMustMatch(t *testing.T) {
	existing := []model.Task{{Title: "Assignment 1", DueDate: "2026-09-16"}}
	report := CheckDuplicates(parsedDoc(), nil, nil, existing)
	if len(report.TaskIndices) != 0 {
		t.Fatalf("task with different due date should not be flagged, got %v", report.TaskIndices)
	}
}

func TestCheckDuplicatesFlagsRepeatsWithinDocument(t *testing.T) {
	doc := parsedDoc()
	doc.Tasks = append(doc.Tasks, model.ParsedTask{
		Title:    strPtr("assignment 1"),
		TaskType: strPtr("assignment"),
		DueDate:  strPtr("2026-09-15"),
	})
	report := CheckDuplicates(doc, nil, nil, nil)
	if !reflect.DeepEqual(report.TaskIndices, []int{2}) {
		t.Fatalf("expected only the repeated task to be flagged, got %v", report.TaskIndices)
	}
}

func TestCheckDuplicatesIgnoresIncompleteTasks(t *testing.T) {
	doc := parsedDoc()
	doc.Tasks = []model.ParsedTask{
		{Title: strPtr("Orphan"), TaskType: strPtr("other")}, // no due date
		{DueDate: strPtr("2026-09-15")},                      // no title
	}
	existing := []model.Task{{Title: "Orphan", DueDate: "2026-09-15"}}
	report := CheckDuplicates(doc, nil, nil, existing)
	if len(report.TaskIndices) != 0 {
		t.Fatalf("incomplete tasks should never be flagged, got %v", report.TaskIndices)
	}
}

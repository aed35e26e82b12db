package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"app/internal/logger"
	"app/internal/model"
)

type fakeSemesterRepo struct {
	semesters []model.Semester
	nextID    int
}

func (r *fakeSemesterRepo) GetSemestersByUserID(ctx context.Context, userID string) ([]model.Semester, error) {
	out := []model.Semester{}
	for _, s := range r.semesters {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSemesterRepo) CreateSemester(ctx context.Context, s *model.Semester) error {
	r.nextID++
	s.ID = fmt.Sprintf("sem-%d", r.nextID)
	r.semesters = append(r.semesters, *s)
	return nil
}

func (r *fakeSemesterRepo) GetSemesterByID(ctx context.Context, semesterID string) (*model.Semester, error) {
	for i := range r.semesters {
		if r.semesters[i].ID == semesterID {
			s := r.semesters[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (r *fakeSemesterRepo) UpdateSemester(ctx context.Context, s *model.Semester) error { return nil }
func (r *fakeSemesterRepo) DeleteSemester(ctx context.Context, semesterID string) error { return nil }

type fakeCourseRepo struct {
	courses []model.Course
	nextID  int
	failOn  string
}

func (r *fakeCourseRepo) GetCoursesByUserID(ctx context.Context, userID string) ([]model.Course, error) {
	out := []model.Course{}
	for _, c := range r.courses {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	if r.failOn != "" && c.Code == r.failOn {
		return errors.New("insert failed")
	}
	r.nextID++
	c.ID = fmt.Sprintf("course-%d", r.nextID)
	r.courses = append(r.courses, *c)
	return nil
}

func (r *fakeCourseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	for i := range r.courses {
		if r.courses[i].ID == courseID {
			c := r.courses[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeCourseRepo) UpdateCourse(ctx context.Context, c *model.Course) error { return nil }

func (r *fakeCourseRepo) GetCoursesBySemesterID(ctx context.Context, semesterID string) ([]model.Course, error) {
	out := []model.Course{}
	for _, c := range r.courses {
		if c.SemesterID == semesterID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) DeleteCourse(ctx context.Context, courseID string) error { return nil }

type fakeTaskRepo struct {
	tasks       []model.Task
	nextID      int
	failOnTitle string
}

func (r *fakeTaskRepo) GetTasksByUserID(ctx context.Context, userID string) ([]model.Task, error) {
	out := []model.Task{}
	for _, t := range r.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) CreateTask(ctx context.Context, t *model.Task) error {
	if r.failOnTitle != "" && t.Title == r.failOnTitle {
		return errors.New("insert failed")
	}
	r.nextID++
	t.ID = fmt.Sprintf("task-%d", r.nextID)
	r.tasks = append(r.tasks, *t)
	return nil
}

func (r *fakeTaskRepo) GetTaskByID(ctx context.Context, taskID string) (*model.Task, error) {
	for i := range r.tasks {
		if r.tasks[i].ID == taskID {
			t := r.tasks[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (r *fakeTaskRepo) UpdateTask(ctx context.Context, t *model.Task) error { return nil }
func (r *fakeTaskRepo) DeleteTask(ctx context.Context, taskID string) error { return nil }

func (r *fakeTaskRepo) DeleteTasksByCourseCode(ctx context.Context, userID, courseCode string) error {
	kept := r.tasks[:0]
	for _, t := range r.tasks {
		if !(t.UserID == userID && t.CourseCode == courseCode) {
			kept = append(kept, t)
		}
	}
	r.tasks = kept
	return nil
}

type fixedExtractor struct {
	text string
	err  error
}

func (f *fixedExtractor) Extract(upload Upload) (string, error) { return f.text, f.err }

type fixedParser struct {
	parsed *model.ParsedSyllabus
	err    error
	calls  int
}

func (f *fixedParser) Parse(ctx context.Context, callerID, text string) (*model.ParsedSyllabus, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.parsed, nil
}

var commitTestNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func newCommitHarness() (*fakeSemesterRepo, *fakeCourseRepo, *fakeTaskRepo, SyllabusService) {
	semesterRepo := &fakeSemesterRepo{}
	courseRepo := &fakeCourseRepo{}
	taskRepo := &fakeTaskRepo{}
	svc := NewSyllabusService(nil, nil, semesterRepo, courseRepo, taskRepo, nil, "", nil, "", logger.New())
	svc.(*syllabusService).now = func() time.Time { return commitTestNow }
	return semesterRepo, courseRepo, taskRepo, svc
}

func TestCommitCreatesSemesterCourseAndTasks(t *testing.T) {
	semesterRepo, courseRepo, taskRepo, svc := newCommitHarness()

	summary, err := svc.Commit(context.Background(), "user-1", parsedDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(semesterRepo.semesters) != 1 || len(courseRepo.courses) != 1 {
		t.Fatalf("expected 1 semester and 1 course, got %d and %d", len(semesterRepo.semesters), len(courseRepo.courses))
	}
	if courseRepo.courses[0].SemesterID != semesterRepo.semesters[0].ID {
		t.Fatal("course not attached to the created semester")
	}
	if summary.CreatedTasks != 2 || len(taskRepo.tasks) != 2 {
		t.Fatalf("expected 2 created tasks, got %d", summary.CreatedTasks)
	}
	for _, task := range taskRepo.tasks {
		if task.Status != model.StatusNotStarted {
			t.Fatalf("expected status %q, got %q", model.StatusNotStarted, task.Status)
		}
		if task.Course != "Intro to Computer Science" || task.CourseCode != "CS101" {
			t.Fatalf("task not linked to parsed course: %+v", task)
		}
	}
	if summary.Message != "Syllabus processed successfully." {
		t.Fatalf("unexpected message: %q", summary.Message)
	}
	if len(summary.MissingFields) != 0 {
		t.Fatalf("expected no missing fields, got %v", summary.MissingFields)
	}
}

func TestCommitIsIdempotentOnReupload(t *testing.T) {
	semesterRepo, courseRepo, taskRepo, svc := newCommitHarness()

	if _, err := svc.Commit(context.Background(), "user-1", parsedDoc()); err != nil {
		t.Fatalf("first commit failed: %v", err)
	}
	summary, err := svc.Commit(context.Background(), "user-1", parsedDoc())
	if err != nil {
		t.Fatalf("second commit failed: %v", err)
	}

	if len(semesterRepo.semesters) != 1 || len(courseRepo.courses) != 1 || len(taskRepo.tasks) != 2 {
		t.Fatalf("re-upload created new records: %d semesters, %d courses, %d tasks",
			len(semesterRepo.semesters), len(courseRepo.courses), len(taskRepo.tasks))
	}
	if summary.CreatedTasks != 0 || summary.SkippedTasks != 2 {
		t.Fatalf("expected 0 created and 2 skipped tasks, got %d and %d", summary.CreatedTasks, summary.SkippedTasks)
	}
	// The duplicate semester is reused so the ID still resolves.
	if summary.SemesterID != semesterRepo.semesters[0].ID {
		t.Fatalf("expected existing semester to be reused, got %q", summary.SemesterID)
	}
	if summary.Message != "Syllabus processed successfully. Some items were skipped as duplicates." {
		t.Fatalf("unexpected message: %q", summary.Message)
	}
}

func TestCommitSkipsCourseWithoutSemester(t *testing.T) {
	_, courseRepo, taskRepo, svc := newCommitHarness()

	doc := parsedDoc()
	doc.Semester = model.ParsedSemester{} // nothing extracted
	summary, err := svc.Commit(context.Background(), "user-1", doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(courseRepo.courses) != 0 {
		t.Fatal("course must not be created without a semester to attach to")
	}
	// Tasks still go in, linked by course name and code.
	if len(taskRepo.tasks) != 2 {
		t.Fatalf("expected tasks to be created anyway, got %d", len(taskRepo.tasks))
	}
	if summary.Message != "Syllabus processed with some missing information." {
		t.Fatalf("unexpected message: %q", summary.Message)
	}
}

func TestCommitUsesPlaceholdersWhenCourseMissing(t *testing.T) {
	_, _, taskRepo, svc := newCommitHarness()

	doc := parsedDoc()
	doc.Course = model.ParsedCourse{}
	if _, err := svc.Commit(context.Background(), "user-1", doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, task := range taskRepo.tasks {
		if task.Course != "Unknown Course" || task.CourseCode != "UNKNOWN" {
			t.Fatalf("expected placeholder course fields, got %q / %q", task.Course, task.CourseCode)
		}
	}
}

func TestCommitReportsMissingFieldLabels(t *testing.T) {
	_, _, _, svc := newCommitHarness()

	doc := parsedDoc()
	doc.Semester.Name = nil
	doc.Course.Code = nil
	doc.Tasks[1].DueDate = nil
	summary, err := svc.Commit(context.Background(), "user-1", doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"Semester name", "Course code", "Task 2 due date"}
	for _, label := range want {
		found := false
		for _, got := range summary.MissingFields {
			if got == label {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected missing field %q, got %v", label, summary.MissingFields)
		}
	}
}

func TestCommitRejectsInvalidDocument(t *testing.T) {
	semesterRepo, _, _, svc := newCommitHarness()

	doc := parsedDoc()
	doc.Semester.EndDate = strPtr("2026-08-01") // before start
	_, err := svc.Commit(context.Background(), "user-1", doc)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(validationErr.Error(), "End date must be after start date") {
		t.Fatalf("unexpected violation message: %v", validationErr)
	}
	if len(semesterRepo.semesters) != 0 {
		t.Fatal("nothing should be written when validation fails")
	}
}

func TestCommitKeepsEarlierWritesOnTaskFailure(t *testing.T) {
	semesterRepo, courseRepo, taskRepo, svc := newCommitHarness()
	taskRepo.failOnTitle = "Midterm"

	_, err := svc.Commit(context.Background(), "user-1", parsedDoc())
	if err == nil {
		t.Fatal("expected commit to fail on the second task")
	}
	if len(semesterRepo.semesters) != 1 || len(courseRepo.courses) != 1 {
		t.Fatal("semester and course written before the failure must remain")
	}
	if len(taskRepo.tasks) != 1 || taskRepo.tasks[0].Title != "Assignment 1" {
		t.Fatalf("expected the first task to remain, got %+v", taskRepo.tasks)
	}
}

func TestProcessUploadStopsBeforeParserOnExtractionError(t *testing.T) {
	parser := &fixedParser{}
	svc := NewSyllabusService(
		&fixedExtractor{err: ErrPageLimitExceeded},
		parser,
		&fakeSemesterRepo{}, &fakeCourseRepo{}, &fakeTaskRepo{},
		nil, "", nil, "", logger.New(),
	)

	_, err := svc.ProcessUpload(context.Background(), "user-1", Upload{Filename: "big.pdf"})
	if !errors.Is(err, ErrPageLimitExceeded) {
		t.Fatalf("expected ErrPageLimitExceeded, got %v", err)
	}
	if parser.calls != 0 {
		t.Fatal("parser must not be called when extraction fails")
	}
}

func TestProcessUploadRunsFullPipeline(t *testing.T) {
	parser := &fixedParser{parsed: parsedDoc()}
	taskRepo := &fakeTaskRepo{}
	svc := NewSyllabusService(
		&fixedExtractor{text: "CS101 syllabus text"},
		parser,
		&fakeSemesterRepo{}, &fakeCourseRepo{}, taskRepo,
		nil, "", nil, "", logger.New(),
	)

	summary, err := svc.ProcessUpload(context.Background(), "user-1", Upload{Filename: "syllabus.pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parser.calls != 1 {
		t.Fatalf("expected one parser call, got %d", parser.calls)
	}
	if summary.CreatedTasks != 2 || len(taskRepo.tasks) != 2 {
		t.Fatalf("expected 2 tasks created, got %d", summary.CreatedTasks)
	}
}

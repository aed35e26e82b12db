package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"app/internal/model"
	"app/internal/pubsub"
	"app/internal/repository"
	"app/internal/schema"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// ValidationError aggregates schema violations found in a parsed syllabus.
type ValidationError struct {
	Violations []schema.Violation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Validation errors:\n%s", schema.Join(e.Violations))
}

// UploadSummary reports the outcome of a syllabus upload.
type UploadSummary struct {
	Parsed        *model.ParsedSyllabus `json:"parsed"`
	MissingFields []string              `json:"missingFields"`
	SemesterID    string                `json:"semesterId,omitempty"`
	CourseID      string                `json:"courseId,omitempty"`
	CreatedTasks  int                   `json:"createdTasks"`
	SkippedTasks  int                   `json:"skippedTasks"`
	Message       string                `json:"message"`
}

// SyllabusService defines the interface for syllabus ingestion
type SyllabusService interface {
	ProcessUpload(ctx context.Context, userID string, upload Upload) (*UploadSummary, error)
	Commit(ctx context.Context, userID string, parsed *model.ParsedSyllabus) (*UploadSummary, error)
}

type syllabusService struct {
	extractService ExtractService
	parserService  ParserService
	semesterRepo   repository.SemesterRepository
	courseRepo     repository.CourseRepository
	taskRepo       repository.TaskRepository
	s3Client       *s3.Client
	s3Bucket       string
	publisher      pubsub.Publisher
	processedTopic string
	now            func() time.Time
	logger         zerolog.Logger
}

// NewSyllabusService creates a new instance of SyllabusService. The S3
// client and publisher may be nil, in which case archiving and event
// publishing are skipped.
func NewSyllabusService(
	extractService ExtractService,
	parserService ParserService,
	semesterRepo repository.SemesterRepository,
	courseRepo repository.CourseRepository,
	taskRepo repository.TaskRepository,
	s3Client *s3.Client,
	s3Bucket string,
	publisher pubsub.Publisher,
	processedTopic string,
	logger zerolog.Logger,
) SyllabusService {
	return &syllabusService{
		extractService: extractService,
		parserService:  parserService,
		semesterRepo:   semesterRepo,
		courseRepo:     courseRepo,
		taskRepo:       taskRepo,
		s3Client:       s3Client,
		s3Bucket:       s3Bucket,
		publisher:      publisher,
		processedTopic: processedTopic,
		now:            time.Now,
		logger:         logger.With().Str("service", "SyllabusService").Logger(),
	}
}

// ProcessUpload runs the full ingestion pipeline for one uploaded file:
// extract text, structure it, validate, deduplicate, and commit. The raw
// file is archived to S3 after a successful commit.
func (s *syllabusService) ProcessUpload(ctx context.Context, userID string, upload Upload) (*UploadSummary, error) {
	text, err := s.extractService.Extract(upload)
	if err != nil {
		return nil, err
	}

	parsed, err := s.parserService.Parse(ctx, userID, text)
	if err != nil {
		return nil, err
	}

	summary, err := s.Commit(ctx, userID, parsed)
	if err != nil {
		return nil, err
	}

	s.archiveUpload(ctx, userID, upload)
	return summary, nil
}

// Commit validates a parsed syllabus and writes its non-duplicate parts in
// dependency order: semester, then course, then tasks. Earlier writes are
// kept when a later write fails.
func (s *syllabusService) Commit(ctx context.Context, userID string, parsed *model.ParsedSyllabus) (*UploadSummary, error) {
	if violations := schema.ValidateParsed(parsed, s.now()); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	missingFields := missingFields(parsed)

	semesters, err := s.semesterRepo.GetSemestersByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load semesters: %w", err)
	}
	courses, err := s.courseRepo.GetCoursesByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load courses: %w", err)
	}
	tasks, err := s.taskRepo.GetTasksByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	duplicates := CheckDuplicates(parsed, semesters, courses, tasks)

	summary := &UploadSummary{
		Parsed:        parsed,
		MissingFields: missingFields,
	}

	// Semester: create when complete and new, otherwise reuse a matching
	// existing one.
	if schema.ValidSemester(parsed.Semester) && !duplicates.Semester {
		semester := &model.Semester{
			UserID:    userID,
			Name:      *parsed.Semester.Name,
			StartDate: *parsed.Semester.StartDate,
			EndDate:   *parsed.Semester.EndDate,
		}
		if err := s.semesterRepo.CreateSemester(ctx, semester); err != nil {
			return nil, fmt.Errorf("failed to create semester: %w", err)
		}
		summary.SemesterID = semester.ID
	} else if present(parsed.Semester.Name) {
		for _, existing := range semesters {
			if existing.Name == *parsed.Semester.Name &&
				present(parsed.Semester.StartDate) && existing.StartDate == *parsed.Semester.StartDate &&
				present(parsed.Semester.EndDate) && existing.EndDate == *parsed.Semester.EndDate {
				summary.SemesterID = existing.ID
				break
			}
		}
	}

	// Course: requires a semester to attach to.
	if schema.ValidCourse(parsed.Course) && !duplicates.Course && summary.SemesterID != "" {
		course := &model.Course{
			UserID:      userID,
			SemesterID:  summary.SemesterID,
			Name:        *parsed.Course.Name,
			Code:        *parsed.Course.Code,
			Description: stringOrEmpty(parsed.Course.Description),
			Instructor:  stringOrEmpty(parsed.Course.Instructor),
		}
		if err := s.courseRepo.CreateCourse(ctx, course); err != nil {
			return nil, fmt.Errorf("failed to create course: %w", err)
		}
		summary.CourseID = course.ID
	}

	for i, task := range parsed.Tasks {
		if !present(task.Title) || !present(task.TaskType) || !present(task.DueDate) {
			continue
		}
		if duplicates.duplicateTask(i) {
			summary.SkippedTasks++
			continue
		}
		err := s.taskRepo.CreateTask(ctx, &model.Task{
			UserID:      userID,
			Title:       *task.Title,
			Description: stringOrEmpty(task.Description),
			Course:      stringOr(parsed.Course.Name, "Unknown Course"),
			CourseCode:  stringOr(parsed.Course.Code, "UNKNOWN"),
			TaskType:    model.TaskType(*task.TaskType),
			DueDate:     *task.DueDate,
			Status:      model.StatusNotStarted,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create task %q: %w", *task.Title, err)
		}
		summary.CreatedTasks++
	}

	summary.Message = summaryMessage(missingFields, duplicates)
	s.publishProcessed(ctx, userID, summary)

	s.logger.Info().
		Str("userID", userID).
		Int("createdTasks", summary.CreatedTasks).
		Int("skippedTasks", summary.SkippedTasks).
		Int("missingFields", len(missingFields)).
		Msg("Syllabus committed")
	return summary, nil
}

// missingFields lists the human-readable labels of fields the structuring
// step could not fill in.
func missingFields(parsed *model.ParsedSyllabus) []string {
	fields := []string{}
	if !present(parsed.Semester.Name) {
		fields = append(fields, "Semester name")
	}
	if !present(parsed.Semester.StartDate) {
		fields = append(fields, "Semester start date")
	}
	if !present(parsed.Semester.EndDate) {
		fields = append(fields, "Semester end date")
	}
	if !present(parsed.Course.Name) {
		fields = append(fields, "Course name")
	}
	if !present(parsed.Course.Code) {
		fields = append(fields, "Course code")
	}
	for i, task := range parsed.Tasks {
		if !present(task.Title) {
			fields = append(fields, fmt.Sprintf("Task %d title", i+1))
		}
		if !present(task.TaskType) {
			fields = append(fields, fmt.Sprintf("Task %d type", i+1))
		}
		if !present(task.DueDate) {
			fields = append(fields, fmt.Sprintf("Task %d due date", i+1))
		}
	}
	return fields
}

func summaryMessage(missingFields []string, duplicates DuplicateReport) string {
	duplicateMessage := ""
	if duplicates.HasAny() {
		duplicateMessage = " Some items were skipped as duplicates."
	}
	if len(missingFields) > 0 {
		return "Syllabus processed with some missing information." + duplicateMessage
	}
	return "Syllabus processed successfully." + duplicateMessage
}

// archiveUpload stores the raw uploaded file under the user's prefix.
// Failures are logged and do not affect the upload result.
func (s *syllabusService) archiveUpload(ctx context.Context, userID string, upload Upload) {
	if s.s3Client == nil || s.s3Bucket == "" {
		return
	}
	key := fmt.Sprintf("syllabi/%s/%d-%s", userID, s.now().UnixMilli(), upload.Filename)
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(upload.Data),
		ContentType: aws.String(upload.ContentType),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to archive syllabus upload")
		return
	}
	s.logger.Info().Str("key", key).Msg("Syllabus upload archived")
}

// publishProcessed emits a syllabus.processed event after a commit.
// Failures are logged and do not affect the upload result.
func (s *syllabusService) publishProcessed(ctx context.Context, userID string, summary *UploadSummary) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"userId":       userID,
		"semesterId":   summary.SemesterID,
		"courseId":     summary.CourseID,
		"createdTasks": summary.CreatedTasks,
		"skippedTasks": summary.SkippedTasks,
		"processedAt":  s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to marshal processed event")
		return
	}
	if _, err := s.publisher.Publish(ctx, s.processedTopic, payload); err != nil {
		s.logger.Error().Err(err).Str("topic", s.processedTopic).Msg("Failed to publish processed event")
	}
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func stringOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

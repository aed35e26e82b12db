package repository

import (
	"context"
	"database/sql"

	"app/internal/model"
)

// CourseRepository defines the interface for interacting with course data
type CourseRepository interface {
	GetCoursesByUserID(ctx context.Context, userID string) ([]model.Course, error)
	CreateCourse(ctx context.Context, c *model.Course) error
	GetCourseByID(ctx context.Context, courseID string) (*model.Course, error)
	UpdateCourse(ctx context.Context, c *model.Course) error
	GetCoursesBySemesterID(ctx context.Context, semesterID string) ([]model.Course, error)
	// DeleteCourse removes a course. Its tasks are removed separately via
	// TaskRepository.DeleteTasksByCourseCode since tasks reference courses
	// by code rather than a foreign key.
	DeleteCourse(ctx context.Context, courseID string) error
}

type courseRepo struct {
	db *sql.DB
}

// NewCourseRepo creates a new CourseRepository
func NewCourseRepo(db *sql.DB) CourseRepository {
	return &courseRepo{db: db}
}

// GetCoursesByUserID retrieves all courses associated with a given user ID
func (r *courseRepo) GetCoursesByUserID(ctx context.Context, userID string) ([]model.Course, error) {
	query := `
		SELECT id, user_id, semester_id, name, code, description, instructor, created_at, updated_at
		FROM courses
		WHERE user_id = $1
		ORDER BY name ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.SemesterID,
			&c.Name,
			&c.Code,
			&c.Description,
			&c.Instructor,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(courses) == 0 {
		return []model.Course{}, nil
	}
	return courses, nil
}

// CreateCourse inserts a new course and echoes back the persisted record
func (r *courseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	query := `
		INSERT INTO courses (user_id, semester_id, name, code, description, instructor)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, semester_id, name, code, description, instructor, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, c.UserID, c.SemesterID, c.Name, c.Code, c.Description, c.Instructor).
		Scan(&c.ID, &c.UserID, &c.SemesterID, &c.Name, &c.Code, &c.Description, &c.Instructor, &c.CreatedAt, &c.UpdatedAt)
}

// GetCourseByID retrieves a course by its ID
func (r *courseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	query := `
		SELECT id, user_id, semester_id, name, code, description, instructor, created_at, updated_at
		FROM courses
		WHERE id = $1
	`
	var c model.Course
	err := r.db.QueryRowContext(ctx, query, courseID).Scan(
		&c.ID,
		&c.UserID,
		&c.SemesterID,
		&c.Name,
		&c.Code,
		&c.Description,
		&c.Instructor,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// UpdateCourse updates an existing course record
func (r *courseRepo) UpdateCourse(ctx context.Context, c *model.Course) error {
	query := `
		UPDATE courses
		SET name = $1, code = $2, description = $3, instructor = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING user_id, semester_id, name, code, description, instructor, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, c.Name, c.Code, c.Description, c.Instructor, c.ID).
		Scan(&c.UserID, &c.SemesterID, &c.Name, &c.Code, &c.Description, &c.Instructor, &c.CreatedAt, &c.UpdatedAt)
}

// GetCoursesBySemesterID retrieves the courses belonging to a semester
func (r *courseRepo) GetCoursesBySemesterID(ctx context.Context, semesterID string) ([]model.Course, error) {
	query := `
		SELECT id, user_id, semester_id, name, code, description, instructor, created_at, updated_at
		FROM courses
		WHERE semester_id = $1
		ORDER BY name ASC
	`
	rows, err := r.db.QueryContext(ctx, query, semesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.SemesterID,
			&c.Name,
			&c.Code,
			&c.Description,
			&c.Instructor,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return []model.Course{}, nil
	}
	return courses, nil
}

// DeleteCourse deletes a course by its ID
func (r *courseRepo) DeleteCourse(ctx context.Context, courseID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, courseID)
	return err
}

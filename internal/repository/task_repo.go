package repository

import (
	"context"
	"database/sql"

	"app/internal/model"
)

// TaskRepository defines the interface for interacting with task data
type TaskRepository interface {
	// GetTasksByUserID retrieves all tasks for a user ordered by due date.
	GetTasksByUserID(ctx context.Context, userID string) ([]model.Task, error)
	CreateTask(ctx context.Context, t *model.Task) error
	GetTaskByID(ctx context.Context, taskID string) (*model.Task, error)
	UpdateTask(ctx context.Context, t *model.Task) error
	DeleteTask(ctx context.Context, taskID string) error
	// DeleteTasksByCourseCode removes all of a user's tasks referencing the
	// given course code. Tasks reference their course by name/code captured
	// at creation time, so course and semester deletes cascade to tasks
	// through this call rather than a foreign key.
	DeleteTasksByCourseCode(ctx context.Context, userID, courseCode string) error
}

type taskRepo struct {
	db *sql.DB
}

// NewTaskRepo creates a new TaskRepository
func NewTaskRepo(db *sql.DB) TaskRepository {
	return &taskRepo{db: db}
}

// GetTasksByUserID retrieves all tasks for a user ordered by due date
func (r *taskRepo) GetTasksByUserID(ctx context.Context, userID string) ([]model.Task, error) {
	query := `
		SELECT id, user_id, title, description, course_name, course_code, task_type, due_date::text, status, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY due_date ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Title,
			&t.Description,
			&t.Course,
			&t.CourseCode,
			&t.TaskType,
			&t.DueDate,
			&t.Status,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(tasks) == 0 {
		return []model.Task{}, nil
	}
	return tasks, nil
}

// CreateTask inserts a new task and echoes back the persisted record
func (r *taskRepo) CreateTask(ctx context.Context, t *model.Task) error {
	query := `
		INSERT INTO tasks (user_id, title, description, course_name, course_code, task_type, due_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8)
		RETURNING id, user_id, title, description, course_name, course_code, task_type, due_date::text, status, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, t.UserID, t.Title, t.Description, t.Course, t.CourseCode, t.TaskType, t.DueDate, t.Status).
		Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Course, &t.CourseCode, &t.TaskType, &t.DueDate, &t.Status, &t.CreatedAt, &t.UpdatedAt)
}

// GetTaskByID retrieves a task by its ID
func (r *taskRepo) GetTaskByID(ctx context.Context, taskID string) (*model.Task, error) {
	query := `
		SELECT id, user_id, title, description, course_name, course_code, task_type, due_date::text, status, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`
	var t model.Task
	err := r.db.QueryRowContext(ctx, query, taskID).Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.Course,
		&t.CourseCode,
		&t.TaskType,
		&t.DueDate,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// UpdateTask updates an existing task record
func (r *taskRepo) UpdateTask(ctx context.Context, t *model.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, course_name = $3, course_code = $4, task_type = $5, due_date = $6::date, status = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING user_id, title, description, course_name, course_code, task_type, due_date::text, status, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, t.Title, t.Description, t.Course, t.CourseCode, t.TaskType, t.DueDate, t.Status, t.ID).
		Scan(&t.UserID, &t.Title, &t.Description, &t.Course, &t.CourseCode, &t.TaskType, &t.DueDate, &t.Status, &t.CreatedAt, &t.UpdatedAt)
}

// DeleteTask deletes a task by its ID
func (r *taskRepo) DeleteTask(ctx context.Context, taskID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	return err
}

// DeleteTasksByCourseCode removes all tasks for a user's course code
func (r *taskRepo) DeleteTasksByCourseCode(ctx context.Context, userID, courseCode string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE user_id = $1 AND course_code = $2`, userID, courseCode)
	return err
}

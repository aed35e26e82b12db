package repository

import (
	"context"
	"database/sql"

	"app/internal/model"
)

// SemesterRepository defines the interface for interacting with semester data
type SemesterRepository interface {
	GetSemestersByUserID(ctx context.Context, userID string) ([]model.Semester, error)
	CreateSemester(ctx context.Context, s *model.Semester) error
	GetSemesterByID(ctx context.Context, semesterID string) (*model.Semester, error)
	UpdateSemester(ctx context.Context, s *model.Semester) error
	// DeleteSemester removes a semester; owned courses cascade at the
	// database level. Their tasks are removed by the service layer since
	// tasks reference courses by code rather than a foreign key.
	DeleteSemester(ctx context.Context, semesterID string) error
}

type semesterRepo struct {
	db *sql.DB
}

// NewSemesterRepo creates a new SemesterRepository
func NewSemesterRepo(db *sql.DB) SemesterRepository {
	return &semesterRepo{db: db}
}

// GetSemestersByUserID retrieves all semesters for a user ordered by start date
func (r *semesterRepo) GetSemestersByUserID(ctx context.Context, userID string) ([]model.Semester, error) {
	query := `
		SELECT id, user_id, name, start_date::text, end_date::text, created_at, updated_at
		FROM semesters
		WHERE user_id = $1
		ORDER BY start_date ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var semesters []model.Semester
	for rows.Next() {
		var s model.Semester
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Name,
			&s.StartDate,
			&s.EndDate,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		semesters = append(semesters, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	// If no semesters found, return an empty slice, not nil
	if len(semesters) == 0 {
		return []model.Semester{}, nil
	}
	return semesters, nil
}

// CreateSemester inserts a new semester and echoes back the persisted record
func (r *semesterRepo) CreateSemester(ctx context.Context, s *model.Semester) error {
	query := `
		INSERT INTO semesters (user_id, name, start_date, end_date)
		VALUES ($1, $2, $3::date, $4::date)
		RETURNING id, user_id, name, start_date::text, end_date::text, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, s.UserID, s.Name, s.StartDate, s.EndDate).
		Scan(&s.ID, &s.UserID, &s.Name, &s.StartDate, &s.EndDate, &s.CreatedAt, &s.UpdatedAt)
}

// GetSemesterByID retrieves a semester by its ID
func (r *semesterRepo) GetSemesterByID(ctx context.Context, semesterID string) (*model.Semester, error) {
	query := `
		SELECT id, user_id, name, start_date::text, end_date::text, created_at, updated_at
		FROM semesters
		WHERE id = $1
	`
	var s model.Semester
	err := r.db.QueryRowContext(ctx, query, semesterID).Scan(
		&s.ID,
		&s.UserID,
		&s.Name,
		&s.StartDate,
		&s.EndDate,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// UpdateSemester updates an existing semester record
func (r *semesterRepo) UpdateSemester(ctx context.Context, s *model.Semester) error {
	query := `
		UPDATE semesters
		SET name = $1, start_date = $2::date, end_date = $3::date, updated_at = NOW()
		WHERE id = $4
		RETURNING user_id, name, start_date::text, end_date::text, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, s.Name, s.StartDate, s.EndDate, s.ID).
		Scan(&s.UserID, &s.Name, &s.StartDate, &s.EndDate, &s.CreatedAt, &s.UpdatedAt)
}

// DeleteSemester deletes a semester by its ID
func (r *semesterRepo) DeleteSemester(ctx context.Context, semesterID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM semesters WHERE id = $1`, semesterID)
	return err
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"onlinecourse/internal/domain"
	"onlinecourse/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

type sqlxSubmissionRepository struct {
	db *sqlx.DB
}

// NewSQLXSubmissionRepository creates a new instance of sqlxSubmissionRepository.
func NewSQLXSubmissionRepository(db *sqlx.DB) domain.SubmissionRepository {
	return &sqlxSubmissionRepository{db: db}
}

// Create inserts the submission row and one submission_choices row per
// selected choice. Callers run it inside a transaction so a partial write
// never becomes visible.
func (r *sqlxSubmissionRepository) Create(ctx context.Context, s *domain.Submission) error {
	exec := GetExecutor(ctx, r.db)
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	if _, err := exec.ExecContext(ctx,
		`INSERT INTO submissions (id, enrollment_id, created_at) VALUES (:1, :2, :3)`,
		s.ID, s.EnrollmentID, s.CreatedAt); err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	for _, choiceID := range s.ChoiceIDs {
		if _, err := exec.ExecContext(ctx,
			`INSERT INTO submission_choices (submission_id, choice_id) VALUES (:1, :2)`, s.ID, choiceID); err != nil {
			return fmt.Errorf("failed to record choice %s of submission %s: %w", choiceID, s.ID, err)
		}
	}
	return nil
}

// GetByID returns (nil, nil) when no submission matches. ChoiceIDs are loaded.
func (r *sqlxSubmissionRepository) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	exec := GetExecutor(ctx, r.db)
	var m models.Submission
	if err := exec.GetContext(ctx, &m,
		`SELECT id, enrollment_id, created_at FROM submissions WHERE id = :1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	s := m.ToDomain()
	if err := exec.SelectContext(ctx, &s.ChoiceIDs,
		`SELECT choice_id FROM submission_choices WHERE submission_id = :1 ORDER BY choice_id`, id); err != nil {
		return nil, fmt.Errorf("failed to get choices of submission %s: %w", id, err)
	}
	return s, nil
}

// List pages over submissions without their choices.
func (r *sqlxSubmissionRepository) List(ctx context.Context, enrollmentID string, page domain.Page) ([]domain.Submission, int, error) {
	clause, args := optionalEquals("enrollment_id", enrollmentID)
	exec := GetExecutor(ctx, r.db)

	var total int
	if err := exec.GetContext(ctx, &total, `SELECT COUNT(*) FROM submissions`+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	var rows []models.Submission
	query := paginate(`SELECT id, enrollment_id, created_at FROM submissions`+clause+` ORDER BY created_at DESC, id`, len(args))
	if err := exec.SelectContext(ctx, &rows, query, append(args, page.Offset(), page.Size)...); err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}
	out := make([]domain.Submission, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, total, nil
}

func (r *sqlxSubmissionRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM submissions WHERE id = :1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete submission: %w", err)
	}
	return affected(res)
}

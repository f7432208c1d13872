package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"onlinecourse/internal/domain"
	"onlinecourse/internal/repository/models"
	"onlinecourse/internal/util"

	"github.com/jmoiron/sqlx"
)

const instructorSelect = `SELECT i.id, i.account_id, a.username, i.full_time, i.total_learners
	FROM instructors i JOIN accounts a ON a.id = i.account_id`

type sqlxInstructorRepository struct {
	db *sqlx.DB
}

// NewSQLXInstructorRepository creates a new instance of sqlxInstructorRepository.
func NewSQLXInstructorRepository(db *sqlx.DB) domain.InstructorRepository {
	return &sqlxInstructorRepository{db: db}
}

func (r *sqlxInstructorRepository) List(ctx context.Context, page domain.Page) ([]domain.Instructor, int, error) {
	exec := GetExecutor(ctx, r.db)
	var total int
	if err := exec.GetContext(ctx, &total, `SELECT COUNT(*) FROM instructors`); err != nil {
		return nil, 0, fmt.Errorf("failed to count instructors: %w", err)
	}
	var rows []models.Instructor
	query := paginate(instructorSelect+` ORDER BY a.username`, 0)
	if err := exec.SelectContext(ctx, &rows, query, page.Offset(), page.Size); err != nil {
		return nil, 0, fmt.Errorf("failed to list instructors: %w", err)
	}
	return toInstructors(rows), total, nil
}

func (r *sqlxInstructorRepository) ListByCourse(ctx context.Context, courseID string) ([]domain.Instructor, error) {
	var rows []models.Instructor
	query := instructorSelect + ` JOIN course_instructors ci ON ci.instructor_id = i.id
	WHERE ci.course_id = :1 ORDER BY a.username`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, fmt.Errorf("failed to list instructors of course %s: %w", courseID, err)
	}
	return toInstructors(rows), nil
}

// GetByID returns (nil, nil) when no instructor matches.
func (r *sqlxInstructorRepository) GetByID(ctx context.Context, id string) (*domain.Instructor, error) {
	var m models.Instructor
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, instructorSelect+` WHERE i.id = :1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get instructor: %w", err)
	}
	out := m.ToDomain()
	return &out, nil
}

func (r *sqlxInstructorRepository) Create(ctx context.Context, in *domain.Instructor) error {
	query := `INSERT INTO instructors (id, account_id, full_time, total_learners) VALUES (:1, :2, :3, :4)`
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, in.ID, in.AccountID, util.BoolToNumber(in.FullTime), in.TotalLearners)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("account already has an instructor profile")
		}
		return fmt.Errorf("failed to create instructor: %w", err)
	}
	return nil
}

func (r *sqlxInstructorRepository) Update(ctx context.Context, in *domain.Instructor) error {
	query := `UPDATE instructors SET full_time = :1, total_learners = :2 WHERE id = :3`
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, util.BoolToNumber(in.FullTime), in.TotalLearners, in.ID)
	if err != nil {
		return fmt.Errorf("failed to update instructor: %w", err)
	}
	ok, err := affected(res)
	if err != nil {
		return fmt.Errorf("failed to update instructor: %w", err)
	}
	if !ok {
		return domain.NewNotFoundError(fmt.Sprintf("Instructor not found with ID: %s", in.ID))
	}
	return nil
}

func (r *sqlxInstructorRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM instructors WHERE id = :1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete instructor: %w", err)
	}
	return affected(res)
}

func toInstructors(rows []models.Instructor) []domain.Instructor {
	out := make([]domain.Instructor, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out
}

const learnerSelect = `SELECT l.id, l.account_id, a.username, l.occupation, l.social_link
	FROM learners l JOIN accounts a ON a.id = l.account_id`

type sqlxLearnerRepository struct {
	db *sqlx.DB
}

// NewSQLXLearnerRepository creates a new instance of sqlxLearnerRepository.
func NewSQLXLearnerRepository(db *sqlx.DB) domain.LearnerRepository {
	return &sqlxLearnerRepository{db: db}
}

func (r *sqlxLearnerRepository) List(ctx context.Context, page domain.Page) ([]domain.Learner, int, error) {
	exec := GetExecutor(ctx, r.db)
	var total int
	if err := exec.GetContext(ctx, &total, `SELECT COUNT(*) FROM learners`); err != nil {
		return nil, 0, fmt.Errorf("failed to count learners: %w", err)
	}
	var rows []models.Learner
	query := paginate(learnerSelect+` ORDER BY a.username`, 0)
	if err := exec.SelectContext(ctx, &rows, query, page.Offset(), page.Size); err != nil {
		return nil, 0, fmt.Errorf("failed to list learners: %w", err)
	}
	out := make([]domain.Learner, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, total, nil
}

// GetByID returns (nil, nil) when no learner matches.
func (r *sqlxLearnerRepository) GetByID(ctx context.Context, id string) (*domain.Learner, error) {
	var m models.Learner
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, learnerSelect+` WHERE l.id = :1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}
	out := m.ToDomain()
	return &out, nil
}

func (r *sqlxLearnerRepository) Create(ctx context.Context, l *domain.Learner) error {
	query := `INSERT INTO learners (id, account_id, occupation, social_link) VALUES (:1, :2, :3, :4)`
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, l.ID, l.AccountID, string(l.Occupation), util.StringToNullString(l.SocialLink))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("account already has a learner profile")
		}
		return fmt.Errorf("failed to create learner: %w", err)
	}
	return nil
}

func (r *sqlxLearnerRepository) Update(ctx context.Context, l *domain.Learner) error {
	query := `UPDATE learners SET occupation = :1, social_link = :2 WHERE id = :3`
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, string(l.Occupation), util.StringToNullString(l.SocialLink), l.ID)
	if err != nil {
		return fmt.Errorf("failed to update learner: %w", err)
	}
	ok, err := affected(res)
	if err != nil {
		return fmt.Errorf("failed to update learner: %w", err)
	}
	if !ok {
		return domain.NewNotFoundError(fmt.Sprintf("Learner not found with ID: %s", l.ID))
	}
	return nil
}

func (r *sqlxLearnerRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM learners WHERE id = :1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete learner: %w", err)
	}
	return affected(res)
}

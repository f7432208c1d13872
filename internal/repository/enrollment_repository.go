package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"onlinecourse/internal/domain"
	"onlinecourse/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const enrollmentColumns = `id, account_id, course_id, date_enrolled, mode_name, rating`

type sqlxEnrollmentRepository struct {
	db *sqlx.DB
}

// NewSQLXEnrollmentRepository creates a new instance of sqlxEnrollmentRepository.
func NewSQLXEnrollmentRepository(db *sqlx.DB) domain.EnrollmentRepository {
	return &sqlxEnrollmentRepository{db: db}
}

// CreateIfAbsent inserts the enrollment with a single MERGE. A concurrent
// insert of the same pair loses on uq_enrollments_account_course and is
// reported as already enrolled.
func (r *sqlxEnrollmentRepository) CreateIfAbsent(ctx context.Context, e *domain.Enrollment) (bool, error) {
	query := `MERGE INTO enrollments e
	USING (SELECT :1 AS account_id, :2 AS course_id FROM dual) src
	ON (e.account_id = src.account_id AND e.course_id = src.course_id)
	WHEN NOT MATCHED THEN
		INSERT (` + enrollmentColumns + `)
		VALUES (:3, src.account_id, src.course_id, :4, :5, :6)`

	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		e.AccountID, e.CourseID, e.ID, e.DateEnrolled, string(e.Mode), e.Rating)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create enrollment: %w", err)
	}
	return affected(res)
}

// GetByID returns (nil, nil) when no enrollment matches.
func (r *sqlxEnrollmentRepository) GetByID(ctx context.Context, id string) (*domain.Enrollment, error) {
	return r.getOne(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE id = :1`, id)
}

// GetByAccountAndCourse returns (nil, nil) when the account is not enrolled.
func (r *sqlxEnrollmentRepository) GetByAccountAndCourse(ctx context.Context, accountID, courseID string) (*domain.Enrollment, error) {
	return r.getOne(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE account_id = :1 AND course_id = :2`, accountID, courseID)
}

func (r *sqlxEnrollmentRepository) ListCourseIDsByAccount(ctx context.Context, accountID string) ([]string, error) {
	var ids []string
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &ids,
		`SELECT course_id FROM enrollments WHERE account_id = :1`, accountID); err != nil {
		return nil, fmt.Errorf("failed to list enrolled courses of account %s: %w", accountID, err)
	}
	return ids, nil
}

func (r *sqlxEnrollmentRepository) List(ctx context.Context, courseID string, page domain.Page) ([]domain.Enrollment, int, error) {
	clause, args := optionalEquals("course_id", courseID)
	exec := GetExecutor(ctx, r.db)

	var total int
	if err := exec.GetContext(ctx, &total, `SELECT COUNT(*) FROM enrollments`+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count enrollments: %w", err)
	}
	var rows []models.Enrollment
	query := paginate(`SELECT `+enrollmentColumns+` FROM enrollments`+clause+` ORDER BY date_enrolled DESC, id`, len(args))
	if err := exec.SelectContext(ctx, &rows, query, append(args, page.Offset(), page.Size)...); err != nil {
		return nil, 0, fmt.Errorf("failed to list enrollments: %w", err)
	}
	out := make([]domain.Enrollment, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, total, nil
}

func (r *sqlxEnrollmentRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM enrollments WHERE id = :1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete enrollment: %w", err)
	}
	return affected(res)
}

func (r *sqlxEnrollmentRepository) getOne(ctx context.Context, query string, args ...interface{}) (*domain.Enrollment, error) {
	var m models.Enrollment
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return m.ToDomain(), nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"onlinecourse/internal/domain"
	"onlinecourse/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const courseColumns = `id, name, image_path, description, pub_date, total_enrollment, created_at, updated_at`

type sqlxCourseRepository struct {
	db *sqlx.DB
}

// NewSQLXCourseRepository creates a new instance of sqlxCourseRepository.
func NewSQLXCourseRepository(db *sqlx.DB) domain.CourseRepository {
	return &sqlxCourseRepository{db: db}
}

// ListTop returns the most enrolled courses, newest first among ties.
func (r *sqlxCourseRepository) ListTop(ctx context.Context, limit int) ([]domain.Course, error) {
	var rows []models.Course
	query := `SELECT ` + courseColumns + ` FROM courses
	ORDER BY total_enrollment DESC, created_at DESC FETCH FIRST :1 ROWS ONLY`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list top courses: %w", err)
	}
	return toCourses(rows), nil
}

// List filters by exact publish date and a case-insensitive search over name and description.
func (r *sqlxCourseRepository) List(ctx context.Context, filter domain.CourseFilter, page domain.Page) ([]domain.Course, int, error) {
	var (
		where []string
		args  []interface{}
	)
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		args = append(args, pattern, pattern)
		n := len(args)
		where = append(where, fmt.Sprintf("(LOWER(name) LIKE :%d OR LOWER(description) LIKE :%d)", n-1, n))
	}
	if filter.PubDate != nil {
		args = append(args, filter.PubDate.Format("2006-01-02"))
		where = append(where, fmt.Sprintf("TRUNC(pub_date) = TO_DATE(:%d, 'YYYY-MM-DD')", len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	exec := GetExecutor(ctx, r.db)
	var total int
	if err := exec.GetContext(ctx, &total, `SELECT COUNT(*) FROM courses`+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	var rows []models.Course
	query := paginate(`SELECT `+courseColumns+` FROM courses`+clause+` ORDER BY pub_date DESC NULLS LAST, name`, len(args))
	if err := exec.SelectContext(ctx, &rows, query, append(args, page.Offset(), page.Size)...); err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}
	return toCourses(rows), total, nil
}

// GetByID returns (nil, nil) when no course matches. InstructorIDs are loaded.
func (r *sqlxCourseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	exec := GetExecutor(ctx, r.db)
	var m models.Course
	if err := exec.GetContext(ctx, &m, `SELECT `+courseColumns+` FROM courses WHERE id = :1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	course := m.ToDomain()
	if err := exec.SelectContext(ctx, &course.InstructorIDs,
		`SELECT instructor_id FROM course_instructors WHERE course_id = :1 ORDER BY instructor_id`, id); err != nil {
		return nil, fmt.Errorf("failed to get instructors of course %s: %w", id, err)
	}
	return course, nil
}

func (r *sqlxCourseRepository) Create(ctx context.Context, course *domain.Course) error {
	now := time.Now()
	course.CreatedAt = now
	course.UpdatedAt = now
	m := models.CourseFromDomain(course)

	query := `INSERT INTO courses (` + courseColumns + `) VALUES (:1, :2, :3, :4, :5, :6, :7, :8)`
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.ID, m.Name, m.ImagePath, m.Description, m.PubDate, m.TotalEnrollment, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

// Update writes the editable fields. total_enrollment and image_path have their own writers.
func (r *sqlxCourseRepository) Update(ctx context.Context, course *domain.Course) error {
	course.UpdatedAt = time.Now()
	m := models.CourseFromDomain(course)

	query := `UPDATE courses SET name = :1, description = :2, pub_date = :3, updated_at = :4 WHERE id = :5`
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, m.Name, m.Description, m.PubDate, m.UpdatedAt, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	return requireRow(res, domain.NewCourseNotFoundError(course.ID))
}

func (r *sqlxCourseRepository) UpdateImage(ctx context.Context, id, imagePath string) error {
	query := `UPDATE courses SET image_path = :1, updated_at = :2 WHERE id = :3`
	var path sql.NullString
	if imagePath != "" {
		path = sql.NullString{String: imagePath, Valid: true}
	}
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, path, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update course image: %w", err)
	}
	return requireRow(res, domain.NewCourseNotFoundError(id))
}

func (r *sqlxCourseRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM courses WHERE id = :1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete course: %w", err)
	}
	return affected(res)
}

// SetInstructors replaces the course's instructor assignments.
func (r *sqlxCourseRepository) SetInstructors(ctx context.Context, courseID string, instructorIDs []string) error {
	exec := GetExecutor(ctx, r.db)
	if _, err := exec.ExecContext(ctx, `DELETE FROM course_instructors WHERE course_id = :1`, courseID); err != nil {
		return fmt.Errorf("failed to clear instructors of course %s: %w", courseID, err)
	}
	for _, instructorID := range instructorIDs {
		if _, err := exec.ExecContext(ctx,
			`INSERT INTO course_instructors (course_id, instructor_id) VALUES (:1, :2)`, courseID, instructorID); err != nil {
			return fmt.Errorf("failed to assign instructor %s to course %s: %w", instructorID, courseID, err)
		}
	}
	return nil
}

// IncrementEnrollment bumps the counter in place so concurrent enrollments never lose an update.
func (r *sqlxCourseRepository) IncrementEnrollment(ctx context.Context, id string) error {
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx,
		`UPDATE courses SET total_enrollment = total_enrollment + 1 WHERE id = :1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment enrollment of course %s: %w", id, err)
	}
	return requireRow(res, domain.NewCourseNotFoundError(id))
}

func (r *sqlxCourseRepository) DecrementEnrollment(ctx context.Context, id string) error {
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx,
		`UPDATE courses SET total_enrollment = total_enrollment - 1 WHERE id = :1 AND total_enrollment > 0`, id)
	if err != nil {
		return fmt.Errorf("failed to decrement enrollment of course %s: %w", id, err)
	}
	return nil
}

func toCourses(rows []models.Course) []domain.Course {
	out := make([]domain.Course, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out
}

// requireRow returns notFound when res touched no row.
func requireRow(res sql.Result, notFound error) error {
	ok, err := affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return notFound
	}
	return nil
}

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

const lessonColumns = `id, course_id, title, lesson_order, content`

type sqlxLessonRepository struct {
	db *sqlx.DB
}

// NewSQLXLessonRepository creates a new instance of sqlxLessonRepository.
func NewSQLXLessonRepository(db *sqlx.DB) domain.LessonRepository {
	return &sqlxLessonRepository{db: db}
}

func (r *sqlxLessonRepository) ListByCourse(ctx context.Context, courseID string) ([]domain.Lesson, error) {
	var rows []models.Lesson
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE course_id = :1 ORDER BY lesson_order, id`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, fmt.Errorf("failed to list lessons of course %s: %w", courseID, err)
	}
	return toLessons(rows), nil
}

// List pages over all lessons, or over one course's lessons when courseID is set.
func (r *sqlxLessonRepository) List(ctx context.Context, courseID string, page domain.Page) ([]domain.Lesson, int, error) {
	clause, args := optionalEquals("course_id", courseID)
	exec := GetExecutor(ctx, r.db)

	var total int
	if err := exec.GetContext(ctx, &total, `SELECT COUNT(*) FROM lessons`+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count lessons: %w", err)
	}
	var rows []models.Lesson
	query := paginate(`SELECT `+lessonColumns+` FROM lessons`+clause+` ORDER BY course_id, lesson_order, id`, len(args))
	if err := exec.SelectContext(ctx, &rows, query, append(args, page.Offset(), page.Size)...); err != nil {
		return nil, 0, fmt.Errorf("failed to list lessons: %w", err)
	}
	return toLessons(rows), total, nil
}

// GetByID returns (nil, nil) when no lesson matches.
func (r *sqlxLessonRepository) GetByID(ctx context.Context, id string) (*domain.Lesson, error) {
	var m models.Lesson
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, `SELECT `+lessonColumns+` FROM lessons WHERE id = :1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	out := m.ToDomain()
	return &out, nil
}

func (r *sqlxLessonRepository) Create(ctx context.Context, l *domain.Lesson) error {
	query := `INSERT INTO lessons (` + lessonColumns + `) VALUES (:1, :2, :3, :4, :5)`
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		l.ID, l.CourseID, l.Title, l.Order, util.StringToNullString(l.Content)); err != nil {
		return fmt.Errorf("failed to create lesson: %w", err)
	}
	return nil
}

func (r *sqlxLessonRepository) Update(ctx context.Context, l *domain.Lesson) error {
	query := `UPDATE lessons SET title = :1, lesson_order = :2, content = :3 WHERE id = :4`
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, l.Title, l.Order, util.StringToNullString(l.Content), l.ID)
	if err != nil {
		return fmt.Errorf("failed to update lesson: %w", err)
	}
	return requireRow(res, domain.NewNotFoundError(fmt.Sprintf("Lesson not found with ID: %s", l.ID)))
}

func (r *sqlxLessonRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM lessons WHERE id = :1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete lesson: %w", err)
	}
	return affected(res)
}

func toLessons(rows []models.Lesson) []domain.Lesson {
	out := make([]domain.Lesson, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out
}

// optionalEquals builds a "WHERE column = :1" clause when value is set.
func optionalEquals(column, value string) (string, []interface{}) {
	if value == "" {
		return "", nil
	}
	return " WHERE " + column + " = :1", []interface{}{value}
}

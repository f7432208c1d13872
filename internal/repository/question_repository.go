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

const (
	questionColumns = `id, course_id, question_text, grade`
	choiceColumns   = `id, question_id, choice_text, is_correct`
)

type sqlxQuestionRepository struct {
	db *sqlx.DB
}

// NewSQLXQuestionRepository creates a new instance of sqlxQuestionRepository.
func NewSQLXQuestionRepository(db *sqlx.DB) domain.QuestionRepository {
	return &sqlxQuestionRepository{db: db}
}

// ListByCourse loads every question of the course with its choices in two queries.
func (r *sqlxQuestionRepository) ListByCourse(ctx context.Context, courseID string) ([]domain.Question, error) {
	exec := GetExecutor(ctx, r.db)

	var rows []models.Question
	if err := exec.SelectContext(ctx, &rows,
		`SELECT `+questionColumns+` FROM questions WHERE course_id = :1 ORDER BY id`, courseID); err != nil {
		return nil, fmt.Errorf("failed to list questions of course %s: %w", courseID, err)
	}

	var choiceRows []models.Choice
	if err := exec.SelectContext(ctx, &choiceRows,
		`SELECT c.id, c.question_id, c.choice_text, c.is_correct FROM choices c
	JOIN questions q ON q.id = c.question_id
	WHERE q.course_id = :1 ORDER BY c.question_id, c.id`, courseID); err != nil {
		return nil, fmt.Errorf("failed to list choices of course %s: %w", courseID, err)
	}

	return attachChoices(rows, choiceRows), nil
}

// List pages over questions without their choices.
func (r *sqlxQuestionRepository) List(ctx context.Context, courseID string, page domain.Page) ([]domain.Question, int, error) {
	clause, args := optionalEquals("course_id", courseID)
	exec := GetExecutor(ctx, r.db)

	var total int
	if err := exec.GetContext(ctx, &total, `SELECT COUNT(*) FROM questions`+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count questions: %w", err)
	}
	var rows []models.Question
	query := paginate(`SELECT `+questionColumns+` FROM questions`+clause+` ORDER BY course_id, id`, len(args))
	if err := exec.SelectContext(ctx, &rows, query, append(args, page.Offset(), page.Size)...); err != nil {
		return nil, 0, fmt.Errorf("failed to list questions: %w", err)
	}
	return attachChoices(rows, nil), total, nil
}

// GetByID returns (nil, nil) when no question matches. Choices are loaded.
func (r *sqlxQuestionRepository) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	exec := GetExecutor(ctx, r.db)
	var m models.Question
	if err := exec.GetContext(ctx, &m, `SELECT `+questionColumns+` FROM questions WHERE id = :1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	var choiceRows []models.Choice
	if err := exec.SelectContext(ctx, &choiceRows,
		`SELECT `+choiceColumns+` FROM choices WHERE question_id = :1 ORDER BY id`, id); err != nil {
		return nil, fmt.Errorf("failed to get choices of question %s: %w", id, err)
	}
	q := attachChoices([]models.Question{m}, choiceRows)[0]
	return &q, nil
}

func (r *sqlxQuestionRepository) Create(ctx context.Context, q *domain.Question) error {
	query := `INSERT INTO questions (` + questionColumns + `) VALUES (:1, :2, :3, :4)`
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, q.ID, q.CourseID, q.Text, q.Grade); err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (r *sqlxQuestionRepository) Update(ctx context.Context, q *domain.Question) error {
	query := `UPDATE questions SET question_text = :1, grade = :2 WHERE id = :3`
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, q.Text, q.Grade, q.ID)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return requireRow(res, domain.NewNotFoundError(fmt.Sprintf("Question not found with ID: %s", q.ID)))
}

func (r *sqlxQuestionRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM questions WHERE id = :1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete question: %w", err)
	}
	return affected(res)
}

func attachChoices(rows []models.Question, choiceRows []models.Choice) []domain.Question {
	byQuestion := make(map[string][]domain.Choice, len(rows))
	for i := range choiceRows {
		c := choiceRows[i].ToDomain()
		byQuestion[c.QuestionID] = append(byQuestion[c.QuestionID], c)
	}
	out := make([]domain.Question, 0, len(rows))
	for i := range rows {
		q := rows[i].ToDomain()
		q.Choices = byQuestion[q.ID]
		out = append(out, q)
	}
	return out
}

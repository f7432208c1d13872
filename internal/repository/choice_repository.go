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

type sqlxChoiceRepository struct {
	db *sqlx.DB
}

// NewSQLXChoiceRepository creates a new instance of sqlxChoiceRepository.
func NewSQLXChoiceRepository(db *sqlx.DB) domain.ChoiceRepository {
	return &sqlxChoiceRepository{db: db}
}

func (r *sqlxChoiceRepository) List(ctx context.Context, questionID string, page domain.Page) ([]domain.Choice, int, error) {
	clause, args := optionalEquals("question_id", questionID)
	exec := GetExecutor(ctx, r.db)

	var total int
	if err := exec.GetContext(ctx, &total, `SELECT COUNT(*) FROM choices`+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count choices: %w", err)
	}
	var rows []models.Choice
	query := paginate(`SELECT `+choiceColumns+` FROM choices`+clause+` ORDER BY question_id, id`, len(args))
	if err := exec.SelectContext(ctx, &rows, query, append(args, page.Offset(), page.Size)...); err != nil {
		return nil, 0, fmt.Errorf("failed to list choices: %w", err)
	}
	out := make([]domain.Choice, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, total, nil
}

// GetByID returns (nil, nil) when no choice matches.
func (r *sqlxChoiceRepository) GetByID(ctx context.Context, id string) (*domain.Choice, error) {
	var m models.Choice
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, `SELECT `+choiceColumns+` FROM choices WHERE id = :1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get choice: %w", err)
	}
	out := m.ToDomain()
	return &out, nil
}

func (r *sqlxChoiceRepository) Create(ctx context.Context, c *domain.Choice) error {
	query := `INSERT INTO choices (` + choiceColumns + `) VALUES (:1, :2, :3, :4)`
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		c.ID, c.QuestionID, c.Text, util.BoolToNumber(c.IsCorrect)); err != nil {
		return fmt.Errorf("failed to create choice: %w", err)
	}
	return nil
}

func (r *sqlxChoiceRepository) Update(ctx context.Context, c *domain.Choice) error {
	query := `UPDATE choices SET choice_text = :1, is_correct = :2 WHERE id = :3`
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, c.Text, util.BoolToNumber(c.IsCorrect), c.ID)
	if err != nil {
		return fmt.Errorf("failed to update choice: %w", err)
	}
	return requireRow(res, domain.NewNotFoundError(fmt.Sprintf("Choice not found with ID: %s", c.ID)))
}

func (r *sqlxChoiceRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM choices WHERE id = :1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete choice: %w", err)
	}
	return affected(res)
}

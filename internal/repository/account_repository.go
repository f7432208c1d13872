package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"onlinecourse/internal/domain"
	"onlinecourse/internal/repository/models"
	"onlinecourse/internal/util"

	"github.com/jmoiron/sqlx"
)

const accountColumns = `id, username, first_name, last_name, password_hash, is_staff, created_at, updated_at`

// ErrDuplicateUsername is returned by Create when the username is taken.
var ErrDuplicateUsername = errors.New("username already exists")

type sqlxAccountRepository struct {
	db *sqlx.DB
}

// NewSQLXAccountRepository creates a new instance of sqlxAccountRepository.
func NewSQLXAccountRepository(db *sqlx.DB) domain.AccountRepository {
	return &sqlxAccountRepository{db: db}
}

// Create inserts a new account. The unique index on username decides races
// between concurrent registrations.
func (r *sqlxAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	m := models.AccountFromDomain(account)

	query := `INSERT INTO accounts (` + accountColumns + `) VALUES (:1, :2, :3, :4, :5, :6, :7, :8)`
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		m.ID, m.Username, m.FirstName, m.LastName, m.PasswordHash, util.BoolToNumber(m.IsStaff), m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByID returns (nil, nil) when no account matches.
func (r *sqlxAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = :1`, id)
}

// GetByUsername returns (nil, nil) when no account matches.
func (r *sqlxAccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = :1`, username)
}

func (r *sqlxAccountRepository) getOne(ctx context.Context, query string, arg string) (*domain.Account, error) {
	var m models.Account
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return m.ToDomain(), nil
}

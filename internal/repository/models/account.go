package models

import (
	"database/sql"
	"time"

	"onlinecourse/internal/domain"
	"onlinecourse/internal/util"
)

// Account represents a row of the accounts table.
type Account struct {
	ID           string         `db:"ID"`
	Username     string         `db:"USERNAME"`
	FirstName    sql.NullString `db:"FIRST_NAME"`
	LastName     sql.NullString `db:"LAST_NAME"`
	PasswordHash string         `db:"PASSWORD_HASH"`
	IsStaff      bool           `db:"IS_STAFF"`
	CreatedAt    time.Time      `db:"CREATED_AT"`
	UpdatedAt    time.Time      `db:"UPDATED_AT"`
}

func (m *Account) ToDomain() *domain.Account {
	return &domain.Account{
		ID:           m.ID,
		Username:     m.Username,
		FirstName:    m.FirstName.String,
		LastName:     m.LastName.String,
		PasswordHash: m.PasswordHash,
		IsStaff:      m.IsStaff,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func AccountFromDomain(a *domain.Account) *Account {
	return &Account{
		ID:           a.ID,
		Username:     a.Username,
		FirstName:    util.StringToNullString(a.FirstName),
		LastName:     util.StringToNullString(a.LastName),
		PasswordHash: a.PasswordHash,
		IsStaff:      a.IsStaff,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// Instructor represents a row of the instructors table joined with its account.
type Instructor struct {
	ID            string `db:"ID"`
	AccountID     string `db:"ACCOUNT_ID"`
	Username      string `db:"USERNAME"`
	FullTime      bool   `db:"FULL_TIME"`
	TotalLearners int    `db:"TOTAL_LEARNERS"`
}

func (m *Instructor) ToDomain() domain.Instructor {
	return domain.Instructor{
		ID:            m.ID,
		AccountID:     m.AccountID,
		Username:      m.Username,
		FullTime:      m.FullTime,
		TotalLearners: m.TotalLearners,
	}
}

// Learner represents a row of the learners table joined with its account.
type Learner struct {
	ID         string         `db:"ID"`
	AccountID  string         `db:"ACCOUNT_ID"`
	Username   string         `db:"USERNAME"`
	Occupation string         `db:"OCCUPATION"`
	SocialLink sql.NullString `db:"SOCIAL_LINK"`
}

func (m *Learner) ToDomain() domain.Learner {
	return domain.Learner{
		ID:         m.ID,
		AccountID:  m.AccountID,
		Username:   m.Username,
		Occupation: domain.Occupation(m.Occupation),
		SocialLink: m.SocialLink.String,
	}
}

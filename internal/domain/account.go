package domain

import (
	"context"
	"time"
)

// Account is a registered user able to sign in.
type Account struct {
	ID           string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	IsStaff      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewAccount creates a new Account instance
func NewAccount(username, firstName, lastName string) *Account {
	now := time.Now()
	return &Account{
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Identity returns the request identity for a, as issued after a successful sign in.
func (a *Account) Identity() *Identity {
	return &Identity{AccountID: a.ID, Username: a.Username, IsStaff: a.IsStaff}
}

// FullName joins first and last name, falling back to the username.
func (a *Account) FullName() string {
	switch {
	case a.FirstName != "" && a.LastName != "":
		return a.FirstName + " " + a.LastName
	case a.FirstName != "":
		return a.FirstName
	default:
		return a.Username
	}
}

// Occupation classifies a learner.
type Occupation string

const (
	OccupationStudent       Occupation = "student"
	OccupationDeveloper     Occupation = "developer"
	OccupationDataScientist Occupation = "data_scientist"
	OccupationDBA           Occupation = "dba"
)

// Valid reports whether o is one of the known occupations.
func (o Occupation) Valid() bool {
	switch o {
	case OccupationStudent, OccupationDeveloper, OccupationDataScientist, OccupationDBA:
		return true
	}
	return false
}

// Instructor is the staff profile attached to an account.
type Instructor struct {
	ID            string
	AccountID     string
	Username      string
	FullTime      bool
	TotalLearners int
}

// Learner is the student profile attached to an account.
type Learner struct {
	ID         string
	AccountID  string
	Username   string
	Occupation Occupation
	SocialLink string
}

// AccountRepository defines the interface for account persistence.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
}

// InstructorRepository defines the interface for instructor persistence.
type InstructorRepository interface {
	List(ctx context.Context, page Page) ([]Instructor, int, error)
	GetByID(ctx context.Context, id string) (*Instructor, error)
	ListByCourse(ctx context.Context, courseID string) ([]Instructor, error)
	Create(ctx context.Context, instructor *Instructor) error
	Update(ctx context.Context, instructor *Instructor) error
	Delete(ctx context.Context, id string) (bool, error)
}

// LearnerRepository defines the interface for learner persistence.
type LearnerRepository interface {
	List(ctx context.Context, page Page) ([]Learner, int, error)
	GetByID(ctx context.Context, id string) (*Learner, error)
	Create(ctx context.Context, learner *Learner) error
	Update(ctx context.Context, learner *Learner) error
	Delete(ctx context.Context, id string) (bool, error)
}

package domain

import (
	"context"
	"time"
)

// EnrollmentMode is the category an account is enrolled under.
type EnrollmentMode string

const (
	ModeAudit EnrollmentMode = "audit"
	ModeHonor EnrollmentMode = "honor"
	ModeBeta  EnrollmentMode = "beta"
)

const DefaultRating = 5.0

// Valid reports whether m is one of the known modes.
func (m EnrollmentMode) Valid() bool {
	switch m {
	case ModeAudit, ModeHonor, ModeBeta:
		return true
	}
	return false
}

// Enrollment links one account to one course. (AccountID, CourseID) is unique.
type Enrollment struct {
	ID           string
	AccountID    string
	CourseID     string
	DateEnrolled time.Time
	Mode         EnrollmentMode
	Rating       float64
}

// NewEnrollment creates an enrollment for the enroll action.
func NewEnrollment(accountID, courseID string) *Enrollment {
	return &Enrollment{
		AccountID:    accountID,
		CourseID:     courseID,
		DateEnrolled: time.Now(),
		Mode:         ModeHonor,
		Rating:       DefaultRating,
	}
}

// Submission is one immutable exam attempt.
type Submission struct {
	ID           string
	EnrollmentID string
	ChoiceIDs    []string
	CreatedAt    time.Time
}

// EnrollmentRepository defines the interface for enrollment persistence.
type EnrollmentRepository interface {
	// CreateIfAbsent inserts e unless the account is already enrolled in the
	// course, reporting whether a row was inserted.
	CreateIfAbsent(ctx context.Context, e *Enrollment) (bool, error)
	GetByID(ctx context.Context, id string) (*Enrollment, error)
	GetByAccountAndCourse(ctx context.Context, accountID, courseID string) (*Enrollment, error)
	ListCourseIDsByAccount(ctx context.Context, accountID string) ([]string, error)
	List(ctx context.Context, courseID string, page Page) ([]Enrollment, int, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// SubmissionRepository defines the interface for submission persistence.
type SubmissionRepository interface {
	// Create stores the submission and its selected choices.
	Create(ctx context.Context, s *Submission) error
	GetByID(ctx context.Context, id string) (*Submission, error)
	List(ctx context.Context, enrollmentID string, page Page) ([]Submission, int, error)
	Delete(ctx context.Context, id string) (bool, error)
}

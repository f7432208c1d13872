package models

import (
	"time"

	"onlinecourse/internal/domain"
)

// Enrollment represents a row of the enrollments table.
type Enrollment struct {
	ID           string    `db:"ID"`
	AccountID    string    `db:"ACCOUNT_ID"`
	CourseID     string    `db:"COURSE_ID"`
	DateEnrolled time.Time `db:"DATE_ENROLLED"`
	ModeName     string    `db:"MODE_NAME"`
	Rating       float64   `db:"RATING"`
}

func (m *Enrollment) ToDomain() *domain.Enrollment {
	return &domain.Enrollment{
		ID:           m.ID,
		AccountID:    m.AccountID,
		CourseID:     m.CourseID,
		DateEnrolled: m.DateEnrolled,
		Mode:         domain.EnrollmentMode(m.ModeName),
		Rating:       m.Rating,
	}
}

// Submission represents a row of the submissions table.
type Submission struct {
	ID           string    `db:"ID"`
	EnrollmentID string    `db:"ENROLLMENT_ID"`
	CreatedAt    time.Time `db:"CREATED_AT"`
}

func (m *Submission) ToDomain() *domain.Submission {
	return &domain.Submission{
		ID:           m.ID,
		EnrollmentID: m.EnrollmentID,
		CreatedAt:    m.CreatedAt,
	}
}

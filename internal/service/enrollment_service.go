package service

import (
	"context"
	"fmt"

	"onlinecourse/internal/domain"
	"onlinecourse/internal/logger"
	"onlinecourse/internal/metrics"
	"onlinecourse/internal/util"

	"go.uber.org/zap"
)

// EnrollmentService enrolls accounts in courses.
type EnrollmentService interface {
	// Enroll reports whether a new enrollment was created. Enrolling twice is not an error.
	// A missing course is reported before the caller is checked.
	Enroll(ctx context.Context, identity *domain.Identity, courseID string) (bool, error)
}

type enrollmentService struct {
	courses     domain.CourseRepository
	enrollments domain.EnrollmentRepository
	tx          domain.TransactionManager
}

// NewEnrollmentService creates a new instance of EnrollmentService.
func NewEnrollmentService(courses domain.CourseRepository, enrollments domain.EnrollmentRepository, tx domain.TransactionManager) EnrollmentService {
	return &enrollmentService{courses: courses, enrollments: enrollments, tx: tx}
}

// Enroll inserts the enrollment and bumps the course counter in one
// transaction. The counter only moves when the insert happened.
func (s *enrollmentService) Enroll(ctx context.Context, identity *domain.Identity, courseID string) (bool, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return false, domain.NewInternalError(fmt.Sprintf("failed to get course %s", courseID), err)
	}
	if course == nil {
		return false, domain.NewCourseNotFoundError(courseID)
	}
	if !identity.Authenticated() {
		return false, domain.NewUnauthorizedError("sign in to enroll")
	}

	var created bool
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		enrollment := domain.NewEnrollment(identity.AccountID, courseID)
		enrollment.ID = util.NewULID()
		var err error
		created, err = s.enrollments.CreateIfAbsent(ctx, enrollment)
		if err != nil || !created {
			return err
		}
		return s.courses.IncrementEnrollment(ctx, courseID)
	})
	if err != nil {
		if domain.HasCode(err, domain.CodeCourseNotFound) {
			return false, err
		}
		logger.Get().Error("Failed to enroll",
			zap.String("accountID", identity.AccountID),
			zap.String("courseID", courseID),
			zap.Error(err))
		return false, domain.NewInternalError("failed to enroll", err)
	}

	if created {
		metrics.Enrollments.WithLabelValues("created").Inc()
		logger.Get().Info("Enrolled", zap.String("accountID", identity.AccountID), zap.String("courseID", courseID))
	} else {
		metrics.Enrollments.WithLabelValues("existing").Inc()
	}
	return created, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"onlinecourse/internal/domain"
	"onlinecourse/internal/dto"
	"onlinecourse/internal/logger"
	"onlinecourse/internal/metrics"
	"onlinecourse/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ExamService stores exam submissions and grades them.
type ExamService interface {
	// Submit records the selected choices of an enrolled account and returns the submission id.
	Submit(ctx context.Context, identity *domain.Identity, courseID string, choiceIDs []string) (string, error)
	// Result grades a submission with the exact set rule.
	Result(ctx context.Context, identity *domain.Identity, courseID, submissionID string) (*dto.ExamResult, error)
}

type examService struct {
	courses     domain.CourseRepository
	questions   domain.QuestionRepository
	enrollments domain.EnrollmentRepository
	submissions domain.SubmissionRepository
	tx          domain.TransactionManager
	results     ResultCacheService
	rule        domain.GradingRule
}

// NewExamService creates a new instance of ExamService.
func NewExamService(
	courses domain.CourseRepository,
	questions domain.QuestionRepository,
	enrollments domain.EnrollmentRepository,
	submissions domain.SubmissionRepository,
	tx domain.TransactionManager,
	results ResultCacheService,
) ExamService {
	if results == nil {
		results = noopResultCacheService{}
	}
	return &examService{
		courses:     courses,
		questions:   questions,
		enrollments: enrollments,
		submissions: submissions,
		tx:          tx,
		results:     results,
		rule:        domain.ExactSetRule{},
	}
}

func (s *examService) Submit(ctx context.Context, identity *domain.Identity, courseID string, choiceIDs []string) (string, error) {
	if !identity.Authenticated() {
		return "", domain.NewUnauthorizedError("sign in to submit an exam")
	}
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return "", domain.NewInternalError(fmt.Sprintf("failed to get course %s", courseID), err)
	}
	if course == nil {
		return "", domain.NewCourseNotFoundError(courseID)
	}

	var (
		enrollment *domain.Enrollment
		questions  []domain.Question
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		enrollment, err = s.enrollments.GetByAccountAndCourse(gctx, identity.AccountID, courseID)
		return err
	})
	g.Go(func() (err error) {
		questions, err = s.questions.ListByCourse(gctx, courseID)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", domain.NewInternalError("failed to load exam", err)
	}
	if enrollment == nil {
		return "", domain.NewNotEnrolledError(courseID)
	}

	selected, err := courseChoices(questions, choiceIDs)
	if err != nil {
		return "", err
	}

	submission := &domain.Submission{ID: util.NewULID(), EnrollmentID: enrollment.ID, ChoiceIDs: selected}
	if err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		return s.submissions.Create(ctx, submission)
	}); err != nil {
		logger.Get().Error("Failed to store submission",
			zap.String("enrollmentID", enrollment.ID),
			zap.Int("choices", len(selected)),
			zap.Error(err))
		return "", domain.NewInternalError("failed to store submission", err)
	}

	metrics.Submissions.Inc()
	return submission.ID, nil
}

// courseChoices drops duplicate ids and rejects ids that are not choices of the course's questions.
func courseChoices(questions []domain.Question, choiceIDs []string) ([]string, error) {
	known := make(map[string]struct{})
	for _, q := range questions {
		for _, c := range q.Choices {
			known[c.ID] = struct{}{}
		}
	}
	seen := make(map[string]struct{}, len(choiceIDs))
	out := make([]string, 0, len(choiceIDs))
	for _, id := range choiceIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		if _, ok := known[id]; !ok {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("choice %s is not part of this exam", id)).
				WithContext("choice_id", id)
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

func (s *examService) Result(ctx context.Context, identity *domain.Identity, courseID, submissionID string) (*dto.ExamResult, error) {
	if !identity.Authenticated() {
		return nil, domain.NewUnauthorizedError("sign in to view exam results")
	}

	var (
		course     *domain.Course
		submission *domain.Submission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		course, err = s.courses.GetByID(gctx, courseID)
		return err
	})
	g.Go(func() (err error) {
		submission, err = s.submissions.GetByID(gctx, submissionID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domain.NewInternalError("failed to load submission", err)
	}
	if course == nil {
		return nil, domain.NewCourseNotFoundError(courseID)
	}
	if submission == nil {
		return nil, domain.NewSubmissionNotFoundError(submissionID)
	}

	enrollment, err := s.enrollments.GetByID(ctx, submission.EnrollmentID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load enrollment", err)
	}
	// Foreign and mismatched submissions are reported as missing.
	if enrollment == nil || enrollment.CourseID != courseID || !identity.CanAccessAccount(enrollment.AccountID) {
		return nil, domain.NewSubmissionNotFoundError(submissionID)
	}

	// The version is read before the questions so a concurrent edit bumps it
	// past whatever is graded here.
	version, err := s.results.Version(ctx, courseID)
	if err != nil {
		logger.Get().Warn("Exam result cache unavailable", zap.String("courseID", courseID), zap.Error(err))
		version = ""
	}
	if version != "" {
		cached, err := s.results.Get(ctx, version, submissionID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrResultNotCached) {
			logger.Get().Warn("Exam result cache unavailable", zap.String("submissionID", submissionID), zap.Error(err))
		}
	}

	questions, err := s.questions.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load questions", err)
	}

	result := s.grade(course, submission, questions)
	if version != "" {
		if err := s.results.Put(ctx, version, result); err != nil {
			logger.Get().Warn("Failed to cache exam result", zap.String("submissionID", submissionID), zap.Error(err))
		}
	}
	return result, nil
}

func (s *examService) grade(course *domain.Course, submission *domain.Submission, questions []domain.Question) *dto.ExamResult {
	score := domain.GradeExam(questions, submission.ChoiceIDs, s.rule)
	selected := domain.SelectionSet(submission.ChoiceIDs)

	result := &dto.ExamResult{
		CourseID:          course.ID,
		CourseName:        course.Name,
		SubmissionID:      submission.ID,
		Rule:              score.Rule,
		TotalScore:        score.Total,
		PossibleScore:     score.Possible,
		SelectedChoiceIDs: submission.ChoiceIDs,
		Questions:         make([]dto.QuestionResult, 0, len(questions)),
	}
	for i, q := range questions {
		outcome := score.Outcomes[i]
		qr := dto.QuestionResult{
			ID:              q.ID,
			Text:            q.Text,
			Grade:           q.Grade,
			Awarded:         outcome.Awarded,
			Passed:          outcome.Passed,
			CountRulePassed: domain.CountRule{}.Passes(q, selected),
			Choices:         make([]dto.ChoiceResult, 0, len(q.Choices)),
		}
		for _, c := range q.Choices {
			_, picked := selected[c.ID]
			qr.Choices = append(qr.Choices, dto.ChoiceResult{ID: c.ID, Text: c.Text, IsCorrect: c.IsCorrect, Selected: picked})
		}
		result.Questions = append(result.Questions, qr)
	}
	return result
}

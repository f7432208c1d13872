package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"onlinecourse/internal/cache"
	"onlinecourse/internal/domain"
	"onlinecourse/internal/dto"
	"onlinecourse/internal/logger"
	"onlinecourse/internal/metrics"
	"onlinecourse/internal/util"

	"go.uber.org/zap"
)

// initialCourseVersion is used until a course's questions are first edited.
const initialCourseVersion = "0"

// ErrResultNotCached is returned when no graded result is cached for the current course version.
var ErrResultNotCached = errors.New("exam result not found in cache")

// ResultCacheService caches graded results keyed by submission and course version.
// Callers read the version before loading the questions they grade, and
// store under that version, so an edit made in between is never hidden.
type ResultCacheService interface {
	// Version returns the current version of the course's exam.
	Version(ctx context.Context, courseID string) (string, error)
	Get(ctx context.Context, version, submissionID string) (*dto.ExamResult, error)
	Put(ctx context.Context, version string, result *dto.ExamResult) error
	// InvalidateCourse moves the course to a new version so earlier results are recomputed.
	InvalidateCourse(ctx context.Context, courseID string) error
}

type resultCacheServiceImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewResultCacheService creates a new instance of ResultCacheService.
func NewResultCacheService(c domain.Cache, ttl time.Duration) ResultCacheService {
	if c == nil {
		logger.Get().Warn("ResultCacheService initialized with nil cache. Service will be no-op.")
		return &noopResultCacheService{}
	}
	return &resultCacheServiceImpl{cache: c, ttl: ttl}
}

func (s *resultCacheServiceImpl) Version(ctx context.Context, courseID string) (string, error) {
	v, err := s.cache.Get(ctx, cache.CourseVersionKey(courseID))
	if errors.Is(err, domain.ErrCacheMiss) || (err == nil && v == "") {
		return initialCourseVersion, nil
	}
	if err != nil {
		return "", domain.NewInternalError(fmt.Sprintf("failed to read version of course %s", courseID), err)
	}
	return v, nil
}

func (s *resultCacheServiceImpl) Get(ctx context.Context, version, submissionID string) (*dto.ExamResult, error) {
	key := cache.ExamResultKey(submissionID, version)

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			metrics.ResultCache.WithLabelValues("miss").Inc()
			return nil, ErrResultNotCached
		}
		return nil, domain.NewInternalError(fmt.Sprintf("failed to get exam result from cache for key %s", key), err)
	}

	var result dto.ExamResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		logger.Get().Error("Failed to unmarshal cached exam result", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to unmarshal exam result for key %s", key), err)
	}
	metrics.ResultCache.WithLabelValues("hit").Inc()
	return &result, nil
}

func (s *resultCacheServiceImpl) Put(ctx context.Context, version string, result *dto.ExamResult) error {
	if result == nil {
		return domain.NewInvalidInputError("cannot cache nil result")
	}
	key := cache.ExamResultKey(result.SubmissionID, version)

	data, err := json.Marshal(result)
	if err != nil {
		return domain.NewInternalError("failed to marshal exam result for caching", err)
	}
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to set exam result to cache for key %s", key), err)
	}
	logger.Get().Debug("Cached exam result", zap.String("key", key), zap.Duration("ttl", s.ttl))
	return nil
}

func (s *resultCacheServiceImpl) InvalidateCourse(ctx context.Context, courseID string) error {
	if err := s.cache.Set(ctx, cache.CourseVersionKey(courseID), util.NewULID(), 0); err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to bump version of course %s", courseID), err)
	}
	return nil
}

// noopResultCacheService is used when no cache is configured.
type noopResultCacheService struct{}

func (noopResultCacheService) Version(ctx context.Context, courseID string) (string, error) {
	return initialCourseVersion, nil
}

func (noopResultCacheService) Get(ctx context.Context, version, submissionID string) (*dto.ExamResult, error) {
	return nil, ErrResultNotCached
}

func (noopResultCacheService) Put(ctx context.Context, version string, result *dto.ExamResult) error {
	return nil
}

func (noopResultCacheService) InvalidateCourse(ctx context.Context, courseID string) error {
	return nil
}

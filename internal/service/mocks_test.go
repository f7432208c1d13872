package service

import (
	"context"
	"io"
	"sync"
	"time"

	"onlinecourse/internal/domain"
	"onlinecourse/internal/dto"

	"github.com/stretchr/testify/mock"
)

// --- MockAccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// --- MockCourseRepository ---
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) ListTop(ctx context.Context, limit int) ([]domain.Course, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Course), args.Error(1)
}

func (m *MockCourseRepository) List(ctx context.Context, filter domain.CourseFilter, page domain.Page) ([]domain.Course, int, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Course), args.Int(1), args.Error(2)
}

func (m *MockCourseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Course), args.Error(1)
}

func (m *MockCourseRepository) Create(ctx context.Context, course *domain.Course) error {
	return m.Called(ctx, course).Error(0)
}

func (m *MockCourseRepository) Update(ctx context.Context, course *domain.Course) error {
	return m.Called(ctx, course).Error(0)
}

func (m *MockCourseRepository) UpdateImage(ctx context.Context, id, imagePath string) error {
	return m.Called(ctx, id, imagePath).Error(0)
}

func (m *MockCourseRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCourseRepository) SetInstructors(ctx context.Context, courseID string, instructorIDs []string) error {
	return m.Called(ctx, courseID, instructorIDs).Error(0)
}

func (m *MockCourseRepository) IncrementEnrollment(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCourseRepository) DecrementEnrollment(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// --- MockLessonRepository ---
type MockLessonRepository struct {
	mock.Mock
}

func (m *MockLessonRepository) ListByCourse(ctx context.Context, courseID string) ([]domain.Lesson, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lesson), args.Error(1)
}

func (m *MockLessonRepository) List(ctx context.Context, courseID string, page domain.Page) ([]domain.Lesson, int, error) {
	args := m.Called(ctx, courseID, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Lesson), args.Int(1), args.Error(2)
}

func (m *MockLessonRepository) GetByID(ctx context.Context, id string) (*domain.Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lesson), args.Error(1)
}

func (m *MockLessonRepository) Create(ctx context.Context, lesson *domain.Lesson) error {
	return m.Called(ctx, lesson).Error(0)
}

func (m *MockLessonRepository) Update(ctx context.Context, lesson *domain.Lesson) error {
	return m.Called(ctx, lesson).Error(0)
}

func (m *MockLessonRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// --- MockQuestionRepository ---
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) ListByCourse(ctx context.Context, courseID string) ([]domain.Question, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) List(ctx context.Context, courseID string, page domain.Page) ([]domain.Question, int, error) {
	args := m.Called(ctx, courseID, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Question), args.Int(1), args.Error(2)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *domain.Question) error {
	return m.Called(ctx, question).Error(0)
}

func (m *MockQuestionRepository) Update(ctx context.Context, question *domain.Question) error {
	return m.Called(ctx, question).Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// --- MockChoiceRepository ---
type MockChoiceRepository struct {
	mock.Mock
}

func (m *MockChoiceRepository) List(ctx context.Context, questionID string, page domain.Page) ([]domain.Choice, int, error) {
	args := m.Called(ctx, questionID, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Choice), args.Int(1), args.Error(2)
}

func (m *MockChoiceRepository) GetByID(ctx context.Context, id string) (*domain.Choice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Choice), args.Error(1)
}

func (m *MockChoiceRepository) Create(ctx context.Context, choice *domain.Choice) error {
	return m.Called(ctx, choice).Error(0)
}

func (m *MockChoiceRepository) Update(ctx context.Context, choice *domain.Choice) error {
	return m.Called(ctx, choice).Error(0)
}

func (m *MockChoiceRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// --- MockEnrollmentRepository ---
type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) CreateIfAbsent(ctx context.Context, e *domain.Enrollment) (bool, error) {
	args := m.Called(ctx, e)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepository) GetByID(ctx context.Context, id string) (*domain.Enrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) GetByAccountAndCourse(ctx context.Context, accountID, courseID string) (*domain.Enrollment, error) {
	args := m.Called(ctx, accountID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) ListCourseIDsByAccount(ctx context.Context, accountID string) ([]string, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockEnrollmentRepository) List(ctx context.Context, courseID string, page domain.Page) ([]domain.Enrollment, int, error) {
	args := m.Called(ctx, courseID, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Enrollment), args.Int(1), args.Error(2)
}

func (m *MockEnrollmentRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// --- MockSubmissionRepository ---
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Create(ctx context.Context, s *domain.Submission) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSubmissionRepository) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) List(ctx context.Context, enrollmentID string, page domain.Page) ([]domain.Submission, int, error) {
	args := m.Called(ctx, enrollmentID, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Submission), args.Int(1), args.Error(2)
}

func (m *MockSubmissionRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// --- MockInstructorRepository ---
type MockInstructorRepository struct {
	mock.Mock
}

func (m *MockInstructorRepository) List(ctx context.Context, page domain.Page) ([]domain.Instructor, int, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Instructor), args.Int(1), args.Error(2)
}

func (m *MockInstructorRepository) GetByID(ctx context.Context, id string) (*domain.Instructor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Instructor), args.Error(1)
}

func (m *MockInstructorRepository) ListByCourse(ctx context.Context, courseID string) ([]domain.Instructor, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Instructor), args.Error(1)
}

func (m *MockInstructorRepository) Create(ctx context.Context, instructor *domain.Instructor) error {
	return m.Called(ctx, instructor).Error(0)
}

func (m *MockInstructorRepository) Update(ctx context.Context, instructor *domain.Instructor) error {
	return m.Called(ctx, instructor).Error(0)
}

func (m *MockInstructorRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// --- MockLearnerRepository ---
type MockLearnerRepository struct {
	mock.Mock
}

func (m *MockLearnerRepository) List(ctx context.Context, page domain.Page) ([]domain.Learner, int, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Learner), args.Int(1), args.Error(2)
}

func (m *MockLearnerRepository) GetByID(ctx context.Context, id string) (*domain.Learner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Learner), args.Error(1)
}

func (m *MockLearnerRepository) Create(ctx context.Context, learner *domain.Learner) error {
	return m.Called(ctx, learner).Error(0)
}

func (m *MockLearnerRepository) Update(ctx context.Context, learner *domain.Learner) error {
	return m.Called(ctx, learner).Error(0)
}

func (m *MockLearnerRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// --- MockResultCacheService ---
type MockResultCacheService struct {
	mock.Mock
}

func (m *MockResultCacheService) Version(ctx context.Context, courseID string) (string, error) {
	args := m.Called(ctx, courseID)
	return args.String(0), args.Error(1)
}

func (m *MockResultCacheService) Get(ctx context.Context, version, submissionID string) (*dto.ExamResult, error) {
	args := m.Called(ctx, version, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ExamResult), args.Error(1)
}

func (m *MockResultCacheService) Put(ctx context.Context, version string, result *dto.ExamResult) error {
	return m.Called(ctx, version, result).Error(0)
}

func (m *MockResultCacheService) InvalidateCourse(ctx context.Context, courseID string) error {
	return m.Called(ctx, courseID).Error(0)
}

// --- MockMediaStorage ---
type MockMediaStorage struct {
	mock.Mock
}

func (m *MockMediaStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	return m.Called(ctx, key, reader, size, contentType).Error(0)
}

func (m *MockMediaStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockMediaStorage) URL(key string) string {
	return m.Called(key).String(0)
}

// fakeTxManager runs fn directly and counts calls.
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// memoryCache is an in-memory domain.Cache that ignores expiry.
type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	v, ok := c.data[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return c.err
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	_, ok := c.data[key]
	return ok, nil
}

func (c *memoryCache) Ping(ctx context.Context) error {
	return c.err
}

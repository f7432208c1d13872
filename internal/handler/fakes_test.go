package handler_test

import (
	"context"
	"errors"
	"time"

	"onlinecourse/internal/config"
	"onlinecourse/internal/domain"
	"onlinecourse/internal/dto"
	"onlinecourse/internal/handler"
	"onlinecourse/internal/middleware"
	"onlinecourse/internal/service"
	"onlinecourse/internal/validation"
	"onlinecourse/internal/views"

	"github.com/gofiber/fiber/v2"
)

// --- Manual Mocks ---

type MockCourseService struct {
	ListPopularFunc func(ctx context.Context, viewer *domain.Identity) ([]dto.CourseListItem, error)
	GetDetailFunc   func(ctx context.Context, viewer *domain.Identity, courseID string) (*dto.CourseDetail, error)
}

func (m *MockCourseService) ListPopular(ctx context.Context, viewer *domain.Identity) ([]dto.CourseListItem, error) {
	if m.ListPopularFunc != nil {
		return m.ListPopularFunc(ctx, viewer)
	}
	panic("MockCourseService.ListPopularFunc not implemented")
}

func (m *MockCourseService) GetDetail(ctx context.Context, viewer *domain.Identity, courseID string) (*dto.CourseDetail, error) {
	if m.GetDetailFunc != nil {
		return m.GetDetailFunc(ctx, viewer, courseID)
	}
	panic("MockCourseService.GetDetailFunc not implemented")
}

type MockAuthService struct {
	RegisterFunc func(ctx context.Context, form dto.RegistrationForm) (*domain.Account, string, error)
	LoginFunc    func(ctx context.Context, form dto.LoginForm) (*domain.Account, string, error)
	LogoutFunc   func(ctx context.Context, token string) error
}

func (m *MockAuthService) Register(ctx context.Context, form dto.RegistrationForm) (*domain.Account, string, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, form)
	}
	panic("MockAuthService.RegisterFunc not implemented")
}

func (m *MockAuthService) Login(ctx context.Context, form dto.LoginForm) (*domain.Account, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, form)
	}
	panic("MockAuthService.LoginFunc not implemented")
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return nil
}

// Authenticate knows the fixed test tokens "learner" and "staff".
func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	switch token {
	case learnerToken:
		return learner, nil
	case staffToken:
		return staff, nil
	}
	return nil, errors.New("invalid session token")
}

func (m *MockAuthService) SessionTTL() time.Duration { return time.Hour }

type MockEnrollmentService struct {
	EnrollFunc func(ctx context.Context, identity *domain.Identity, courseID string) (bool, error)
}

func (m *MockEnrollmentService) Enroll(ctx context.Context, identity *domain.Identity, courseID string) (bool, error) {
	if m.EnrollFunc != nil {
		return m.EnrollFunc(ctx, identity, courseID)
	}
	panic("MockEnrollmentService.EnrollFunc not implemented")
}

type MockExamService struct {
	SubmitFunc func(ctx context.Context, identity *domain.Identity, courseID string, choiceIDs []string) (string, error)
	ResultFunc func(ctx context.Context, identity *domain.Identity, courseID, submissionID string) (*dto.ExamResult, error)
}

func (m *MockExamService) Submit(ctx context.Context, identity *domain.Identity, courseID string, choiceIDs []string) (string, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, identity, courseID, choiceIDs)
	}
	panic("MockExamService.SubmitFunc not implemented")
}

func (m *MockExamService) Result(ctx context.Context, identity *domain.Identity, courseID, submissionID string) (*dto.ExamResult, error) {
	if m.ResultFunc != nil {
		return m.ResultFunc(ctx, identity, courseID, submissionID)
	}
	panic("MockExamService.ResultFunc not implemented")
}

// MockAdminService overrides the admin operations a test needs. Calling any
// other method panics through the nil embedded interface.
type MockAdminService struct {
	service.AdminService
	ListCoursesFunc      func(ctx context.Context, actor *domain.Identity, query service.CourseListQuery, page domain.Page) (*dto.ListResponse[dto.CourseAdmin], error)
	CreateCourseFunc     func(ctx context.Context, actor *domain.Identity, req dto.CourseRequest) (*dto.CourseAdmin, error)
	DeleteQuestionFunc   func(ctx context.Context, actor *domain.Identity, id string) (bool, error)
	UploadCourseImageFn  func(ctx context.Context, actor *domain.Identity, id string, upload service.ImageUpload) (*dto.CourseAdmin, error)
	DeleteEnrollmentFunc func(ctx context.Context, actor *domain.Identity, id string) (bool, error)
}

func (m *MockAdminService) ListCourses(ctx context.Context, actor *domain.Identity, query service.CourseListQuery, page domain.Page) (*dto.ListResponse[dto.CourseAdmin], error) {
	return m.ListCoursesFunc(ctx, actor, query, page)
}

func (m *MockAdminService) CreateCourse(ctx context.Context, actor *domain.Identity, req dto.CourseRequest) (*dto.CourseAdmin, error) {
	return m.CreateCourseFunc(ctx, actor, req)
}

func (m *MockAdminService) DeleteQuestion(ctx context.Context, actor *domain.Identity, id string) (bool, error) {
	return m.DeleteQuestionFunc(ctx, actor, id)
}

func (m *MockAdminService) UploadCourseImage(ctx context.Context, actor *domain.Identity, id string, upload service.ImageUpload) (*dto.CourseAdmin, error) {
	return m.UploadCourseImageFn(ctx, actor, id, upload)
}

func (m *MockAdminService) DeleteEnrollment(ctx context.Context, actor *domain.Identity, id string) (bool, error) {
	return m.DeleteEnrollmentFunc(ctx, actor, id)
}

const (
	cookieName   = "session"
	learnerToken = "learner"
	staffToken   = "staff"
)

var (
	learner = &domain.Identity{AccountID: "01J00000000000000000000001", Username: "alice"}
	staff   = &domain.Identity{AccountID: "01J00000000000000000000002", Username: "admin", IsStaff: true}
)

type testServices struct {
	courses     *MockCourseService
	auth        *MockAuthService
	enrollments *MockEnrollmentService
	exams       *MockExamService
	admin       *MockAdminService
}

func newServices() *testServices {
	return &testServices{
		courses:     &MockCourseService{},
		auth:        &MockAuthService{},
		enrollments: &MockEnrollmentService{},
		exams:       &MockExamService{},
		admin:       &MockAdminService{},
	}
}

// setupApp wires the handlers the same way the server does.
func setupApp(s *testServices) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        views.NewEngine(),
		ErrorHandler: middleware.ErrorHandler(),
	})
	app.Use(middleware.Session(s.auth, cookieName))

	authConfig := config.AuthConfig{CookieName: cookieName, SessionTTL: time.Hour}
	courseHandler := handler.NewCourseHandler(s.courses)
	authHandler := handler.NewAuthHandler(s.auth, authConfig)
	examHandler := handler.NewExamHandler(s.enrollments, s.exams)
	adminHandler := handler.NewAdminHandler(s.admin, validation.NewValidator())

	adminHandler.Routes(app.Group(middleware.APIPrefix))

	app.Get("/", courseHandler.Home)
	app.Get("/registration/", authHandler.RegistrationPage)
	app.Post("/registration/", authHandler.Register)
	app.Get("/login/", authHandler.LoginPage)
	app.Post("/login/", authHandler.Login)
	app.Post("/logout/", authHandler.Logout)
	app.Get("/course/:courseID/submission/:submissionID/result/", examHandler.Result)
	app.Get("/:courseID/", courseHandler.Detail)
	app.Post("/:courseID/enroll/", examHandler.Enroll)
	app.Post("/:courseID/submit/", examHandler.Submit)
	return app
}

package service

import (
	"context"
	"fmt"

	"onlinecourse/internal/domain"
	"onlinecourse/internal/dto"

	"golang.org/x/sync/errgroup"
)

// PopularCourseLimit is the number of courses on the home page.
const PopularCourseLimit = 10

// CourseService serves the public course pages.
type CourseService interface {
	// ListPopular returns the most enrolled courses, flagged for viewer's enrollments.
	ListPopular(ctx context.Context, viewer *domain.Identity) ([]dto.CourseListItem, error)
	GetDetail(ctx context.Context, viewer *domain.Identity, courseID string) (*dto.CourseDetail, error)
}

type courseService struct {
	courses     domain.CourseRepository
	lessons     domain.LessonRepository
	questions   domain.QuestionRepository
	instructors domain.InstructorRepository
	enrollments domain.EnrollmentRepository
	media       domain.MediaStorage
}

// NewCourseService creates a new instance of CourseService.
func NewCourseService(
	courses domain.CourseRepository,
	lessons domain.LessonRepository,
	questions domain.QuestionRepository,
	instructors domain.InstructorRepository,
	enrollments domain.EnrollmentRepository,
	media domain.MediaStorage,
) CourseService {
	return &courseService{
		courses:     courses,
		lessons:     lessons,
		questions:   questions,
		instructors: instructors,
		enrollments: enrollments,
		media:       media,
	}
}

func (s *courseService) ListPopular(ctx context.Context, viewer *domain.Identity) ([]dto.CourseListItem, error) {
	var (
		courses  []domain.Course
		enrolled map[string]struct{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		courses, err = s.courses.ListTop(gctx, PopularCourseLimit)
		return err
	})
	if viewer.Authenticated() {
		g.Go(func() error {
			ids, err := s.enrollments.ListCourseIDsByAccount(gctx, viewer.AccountID)
			enrolled = domain.SelectionSet(ids)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, domain.NewInternalError("failed to list courses", err)
	}

	items := make([]dto.CourseListItem, 0, len(courses))
	for _, c := range courses {
		_, isEnrolled := enrolled[c.ID]
		items = append(items, dto.CourseListItem{
			ID:              c.ID,
			Name:            c.Name,
			Description:     c.Description,
			ImageURL:        s.imageURL(c.ImagePath),
			PubDate:         c.PubDate,
			TotalEnrollment: c.TotalEnrollment,
			IsEnrolled:      isEnrolled,
		})
	}
	return items, nil
}

func (s *courseService) GetDetail(ctx context.Context, viewer *domain.Identity, courseID string) (*dto.CourseDetail, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Sprintf("failed to get course %s", courseID), err)
	}
	if course == nil {
		return nil, domain.NewCourseNotFoundError(courseID)
	}

	var (
		lessons     []domain.Lesson
		questions   []domain.Question
		instructors []domain.Instructor
		enrollment  *domain.Enrollment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		lessons, err = s.lessons.ListByCourse(gctx, courseID)
		return err
	})
	g.Go(func() (err error) {
		questions, err = s.questions.ListByCourse(gctx, courseID)
		return err
	})
	g.Go(func() (err error) {
		instructors, err = s.instructors.ListByCourse(gctx, courseID)
		return err
	})
	if viewer.Authenticated() {
		g.Go(func() (err error) {
			enrollment, err = s.enrollments.GetByAccountAndCourse(gctx, viewer.AccountID, courseID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, domain.NewInternalError(fmt.Sprintf("failed to load course %s", courseID), err)
	}

	detail := &dto.CourseDetail{
		ID:              course.ID,
		Name:            course.Name,
		Description:     course.Description,
		ImageURL:        s.imageURL(course.ImagePath),
		PubDate:         course.PubDate,
		TotalEnrollment: course.TotalEnrollment,
		IsEnrolled:      enrollment != nil,
		Instructors:     make([]dto.InstructorView, 0, len(instructors)),
		Lessons:         make([]dto.LessonView, 0, len(lessons)),
		Questions:       make([]dto.QuestionView, 0, len(questions)),
	}
	for _, in := range instructors {
		detail.Instructors = append(detail.Instructors, dto.InstructorView{ID: in.ID, Username: in.Username, FullTime: in.FullTime})
	}
	for _, l := range lessons {
		detail.Lessons = append(detail.Lessons, dto.LessonView{ID: l.ID, Title: l.Title, Order: l.Order, Content: l.Content})
	}
	for _, q := range questions {
		qv := dto.QuestionView{ID: q.ID, Text: q.Text, Grade: q.Grade, Choices: make([]dto.ChoiceView, 0, len(q.Choices))}
		for _, c := range q.Choices {
			qv.Choices = append(qv.Choices, dto.ChoiceView{ID: c.ID, Text: c.Text})
		}
		detail.Questions = append(detail.Questions, qv)
	}
	return detail, nil
}

func (s *courseService) imageURL(path string) string {
	if path == "" || s.media == nil {
		return ""
	}
	return s.media.URL(path)
}

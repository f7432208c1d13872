package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"onlinecourse/internal/domain"
	"onlinecourse/internal/dto"
	"onlinecourse/internal/logger"
	"onlinecourse/internal/util"
	"onlinecourse/internal/validation"

	"go.uber.org/zap"
)

const (
	// BlankLessonRows and BlankChoiceRows are the empty inline rows offered by the blank forms.
	BlankLessonRows = 5
	BlankChoiceRows = 1
)

var allowedImageExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true}

// ImageUpload is an uploaded course image.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// CourseListQuery narrows the admin course listing.
type CourseListQuery struct {
	Search  string
	PubDate string
}

// AdminService backs the staff back-office. Every operation requires a staff identity.
type AdminService interface {
	ListCourses(ctx context.Context, actor *domain.Identity, query CourseListQuery, page domain.Page) (*dto.ListResponse[dto.CourseAdmin], error)
	GetCourse(ctx context.Context, actor *domain.Identity, id string) (*dto.CourseAdmin, error)
	NewCourseForm(actor *domain.Identity) (*dto.CourseRequest, error)
	CreateCourse(ctx context.Context, actor *domain.Identity, req dto.CourseRequest) (*dto.CourseAdmin, error)
	UpdateCourse(ctx context.Context, actor *domain.Identity, id string, req dto.CourseRequest) (*dto.CourseAdmin, error)
	DeleteCourse(ctx context.Context, actor *domain.Identity, id string) (bool, error)
	UploadCourseImage(ctx context.Context, actor *domain.Identity, id string, upload ImageUpload) (*dto.CourseAdmin, error)

	ListLessons(ctx context.Context, actor *domain.Identity, courseID string, page domain.Page) (*dto.ListResponse[dto.LessonAdmin], error)
	GetLesson(ctx context.Context, actor *domain.Identity, id string) (*dto.LessonAdmin, error)
	CreateLesson(ctx context.Context, actor *domain.Identity, req dto.LessonRequest) (*dto.LessonAdmin, error)
	UpdateLesson(ctx context.Context, actor *domain.Identity, id string, req dto.LessonRequest) (*dto.LessonAdmin, error)
	DeleteLesson(ctx context.Context, actor *domain.Identity, id string) (bool, error)

	ListQuestions(ctx context.Context, actor *domain.Identity, courseID string, page domain.Page) (*dto.ListResponse[dto.QuestionAdmin], error)
	GetQuestion(ctx context.Context, actor *domain.Identity, id string) (*dto.QuestionAdmin, error)
	NewQuestionForm(actor *domain.Identity) (*dto.QuestionRequest, error)
	CreateQuestion(ctx context.Context, actor *domain.Identity, req dto.QuestionRequest) (*dto.QuestionAdmin, error)
	UpdateQuestion(ctx context.Context, actor *domain.Identity, id string, req dto.QuestionRequest) (*dto.QuestionAdmin, error)
	DeleteQuestion(ctx context.Context, actor *domain.Identity, id string) (bool, error)

	ListChoices(ctx context.Context, actor *domain.Identity, questionID string, page domain.Page) (*dto.ListResponse[dto.ChoiceAdmin], error)
	GetChoice(ctx context.Context, actor *domain.Identity, id string) (*dto.ChoiceAdmin, error)
	CreateChoice(ctx context.Context, actor *domain.Identity, req dto.ChoiceRequest) (*dto.ChoiceAdmin, error)
	UpdateChoice(ctx context.Context, actor *domain.Identity, id string, req dto.ChoiceRequest) (*dto.ChoiceAdmin, error)
	DeleteChoice(ctx context.Context, actor *domain.Identity, id string) (bool, error)

	ListSubmissions(ctx context.Context, actor *domain.Identity, enrollmentID string, page domain.Page) (*dto.ListResponse[dto.SubmissionAdmin], error)
	GetSubmission(ctx context.Context, actor *domain.Identity, id string) (*dto.SubmissionAdmin, error)
	DeleteSubmission(ctx context.Context, actor *domain.Identity, id string) (bool, error)

	ListInstructors(ctx context.Context, actor *domain.Identity, page domain.Page) (*dto.ListResponse[dto.InstructorAdmin], error)
	GetInstructor(ctx context.Context, actor *domain.Identity, id string) (*dto.InstructorAdmin, error)
	CreateInstructor(ctx context.Context, actor *domain.Identity, req dto.InstructorRequest) (*dto.InstructorAdmin, error)
	UpdateInstructor(ctx context.Context, actor *domain.Identity, id string, req dto.InstructorRequest) (*dto.InstructorAdmin, error)
	DeleteInstructor(ctx context.Context, actor *domain.Identity, id string) (bool, error)

	ListLearners(ctx context.Context, actor *domain.Identity, page domain.Page) (*dto.ListResponse[dto.LearnerAdmin], error)
	GetLearner(ctx context.Context, actor *domain.Identity, id string) (*dto.LearnerAdmin, error)
	CreateLearner(ctx context.Context, actor *domain.Identity, req dto.LearnerRequest) (*dto.LearnerAdmin, error)
	UpdateLearner(ctx context.Context, actor *domain.Identity, id string, req dto.LearnerRequest) (*dto.LearnerAdmin, error)
	DeleteLearner(ctx context.Context, actor *domain.Identity, id string) (bool, error)

	ListEnrollments(ctx context.Context, actor *domain.Identity, courseID string, page domain.Page) (*dto.ListResponse[dto.EnrollmentAdmin], error)
	GetEnrollment(ctx context.Context, actor *domain.Identity, id string) (*dto.EnrollmentAdmin, error)
	// DeleteEnrollment removes the enrollment and decrements the course counter together.
	DeleteEnrollment(ctx context.Context, actor *domain.Identity, id string) (bool, error)
}

// AdminRepositories groups the stores the back-office edits.
type AdminRepositories struct {
	Accounts    domain.AccountRepository
	Courses     domain.CourseRepository
	Lessons     domain.LessonRepository
	Questions   domain.QuestionRepository
	Choices     domain.ChoiceRepository
	Submissions domain.SubmissionRepository
	Instructors domain.InstructorRepository
	Learners    domain.LearnerRepository
	Enrollments domain.EnrollmentRepository
}

type adminService struct {
	repos     AdminRepositories
	tx        domain.TransactionManager
	media     domain.MediaStorage
	results   ResultCacheService
	validator *validation.Validator
}

// NewAdminService creates a new instance of AdminService.
func NewAdminService(
	repos AdminRepositories,
	tx domain.TransactionManager,
	media domain.MediaStorage,
	results ResultCacheService,
	validator *validation.Validator,
) AdminService {
	if results == nil {
		results = noopResultCacheService{}
	}
	return &adminService{repos: repos, tx: tx, media: media, results: results, validator: validator}
}

func requireStaff(actor *domain.Identity) error {
	if !actor.Authenticated() {
		return domain.NewUnauthorizedError("authentication required")
	}
	if !actor.IsStaff {
		return domain.NewForbiddenError("staff access required")
	}
	return nil
}

// wrap keeps domain and validation errors and turns anything else into an internal error.
func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	var de *domain.DomainError
	var ve domain.ValidationErrors
	if errors.As(err, &de) || errors.As(err, &ve) {
		return err
	}
	logger.Get().Error(msg, zap.Error(err))
	return domain.NewInternalError(msg, err)
}

func notFound(kind, id string) error {
	return domain.NewNotFoundError(fmt.Sprintf("%s not found with ID: %s", kind, id))
}

func fieldError(field, message string) error {
	return domain.ValidationErrors{{Field: field, Message: message}}
}

func pageInfo(page domain.Page, total int) dto.PageInfo {
	return dto.PageInfo{Page: page.Number, PageSize: page.Size, Total: total}
}

// ---- courses ----

func (s *adminService) courseAdmin(c *domain.Course) dto.CourseAdmin {
	out := dto.CourseAdmin{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		ImagePath:       c.ImagePath,
		PubDate:         c.PubDate,
		TotalEnrollment: c.TotalEnrollment,
		InstructorIDs:   c.InstructorIDs,
	}
	if out.InstructorIDs == nil {
		out.InstructorIDs = []string{}
	}
	if c.ImagePath != "" && s.media != nil {
		out.ImageURL = s.media.URL(c.ImagePath)
	}
	return out
}

func (s *adminService) ListCourses(ctx context.Context, actor *domain.Identity, query CourseListQuery, page domain.Page) (*dto.ListResponse[dto.CourseAdmin], error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	filter := domain.CourseFilter{Search: query.Search}
	if query.PubDate != "" {
		d, err := time.Parse("2006-01-02", query.PubDate)
		if err != nil {
			return nil, fieldError("pub_date", "pub_date must be a date formatted as YYYY-MM-DD")
		}
		filter.PubDate = &d
	}
	courses, total, err := s.repos.Courses.List(ctx, filter, page)
	if err != nil {
		return nil, wrap(err, "failed to list courses")
	}
	items := make([]dto.CourseAdmin, 0, len(courses))
	for i := range courses {
		items = append(items, s.courseAdmin(&courses[i]))
	}
	return &dto.ListResponse[dto.CourseAdmin]{Items: items, Pagination: pageInfo(page, total)}, nil
}

func (s *adminService) GetCourse(ctx context.Context, actor *domain.Identity, id string) (*dto.CourseAdmin, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	return s.loadCourse(ctx, id)
}

func (s *adminService) loadCourse(ctx context.Context, id string) (*dto.CourseAdmin, error) {
	course, err := s.repos.Courses.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "failed to get course")
	}
	if course == nil {
		return nil, domain.NewCourseNotFoundError(id)
	}
	lessons, err := s.repos.Lessons.ListByCourse(ctx, id)
	if err != nil {
		return nil, wrap(err, "failed to list lessons")
	}
	out := s.courseAdmin(course)
	out.Lessons = make([]dto.LessonAdmin, 0, len(lessons))
	for _, l := range lessons {
		out.Lessons = append(out.Lessons, lessonAdmin(l))
	}
	return &out, nil
}

func (s *adminService) NewCourseForm(actor *domain.Identity) (*dto.CourseRequest, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	form := &dto.CourseRequest{Name: domain.DefaultCourseName, InstructorIDs: []string{}}
	for i := 0; i < BlankLessonRows; i++ {
		form.Lessons = append(form.Lessons, dto.LessonInline{Title: domain.DefaultLessonTitle})
	}
	return form, nil
}

func parsePubDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fieldError("pub_date", "pub_date must be a date formatted as YYYY-MM-DD")
	}
	return &d, nil
}

func (s *adminService) CreateCourse(ctx context.Context, actor *domain.Identity, req dto.CourseRequest) (*dto.CourseAdmin, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if errs := s.validator.Struct(req); errs != nil {
		return nil, errs
	}
	pubDate, err := parsePubDate(req.PubDate)
	if err != nil {
		return nil, err
	}

	course := domain.NewCourse(strings.TrimSpace(req.Name), req.Description)
	course.ID = util.NewULID()
	course.PubDate = pubDate

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repos.Courses.Create(ctx, course); err != nil {
			return err
		}
		if len(req.InstructorIDs) > 0 {
			if err := s.assignInstructors(ctx, course.ID, req.InstructorIDs); err != nil {
				return err
			}
		}
		return s.applyLessons(ctx, course.ID, req.Lessons)
	})
	if err != nil {
		return nil, wrap(err, "failed to create course")
	}
	logger.Get().Info("Course created", zap.String("courseID", course.ID), zap.String("actor", actor.Username))
	return s.loadCourse(ctx, course.ID)
}

func (s *adminService) UpdateCourse(ctx context.Context, actor *domain.Identity, id string, req dto.CourseRequest) (*dto.CourseAdmin, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if errs := s.validator.Struct(req); errs != nil {
		return nil, errs
	}
	pubDate, err := parsePubDate(req.PubDate)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		course, err := s.repos.Courses.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if course == nil {
			return domain.NewCourseNotFoundError(id)
		}
		course.Name = strings.TrimSpace(req.Name)
		if course.Name == "" {
			course.Name = domain.DefaultCourseName
		}
		course.Description = req.Description
		course.PubDate = pubDate
		if err := s.repos.Courses.Update(ctx, course); err != nil {
			return err
		}
		// A nil list leaves the assignment alone; an empty one clears it.
		if req.InstructorIDs != nil {
			if err := s.assignInstructors(ctx, id, req.InstructorIDs); err != nil {
				return err
			}
		}
		return s.applyLessons(ctx, id, req.Lessons)
	})
	if err != nil {
		return nil, wrap(err, "failed to update course")
	}
	return s.loadCourse(ctx, id)
}

func (s *adminService) assignInstructors(ctx context.Context, courseID string, ids []string) error {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for i, instructorID := range ids {
		if seen[instructorID] {
			continue
		}
		in, err := s.repos.Instructors.GetByID(ctx, instructorID)
		if err != nil {
			return err
		}
		if in == nil {
			return fieldError(fmt.Sprintf("instructor_ids[%d]", i), "unknown instructor")
		}
		seen[instructorID] = true
		unique = append(unique, instructorID)
	}
	return s.repos.Courses.SetInstructors(ctx, courseID, unique)
}

func blankLesson(row dto.LessonInline) bool {
	title := strings.TrimSpace(row.Title)
	return (title == "" || title == domain.DefaultLessonTitle) && row.Order == 0 && strings.TrimSpace(row.Content) == ""
}

// applyLessons applies the inline lesson rows of a course form.
func (s *adminService) applyLessons(ctx context.Context, courseID string, rows []dto.LessonInline) error {
	for i, row := range rows {
		if row.ID == "" {
			if row.Delete || blankLesson(row) {
				continue
			}
			lesson := &domain.Lesson{ID: util.NewULID(), CourseID: courseID, Title: lessonTitle(row.Title), Order: row.Order, Content: row.Content}
			if err := s.repos.Lessons.Create(ctx, lesson); err != nil {
				return err
			}
			continue
		}

		existing, err := s.repos.Lessons.GetByID(ctx, row.ID)
		if err != nil {
			return err
		}
		if existing == nil || existing.CourseID != courseID {
			return fieldError(fmt.Sprintf("lessons[%d].id", i), "lesson does not belong to this course")
		}
		if row.Delete {
			if _, err := s.repos.Lessons.Delete(ctx, row.ID); err != nil {
				return err
			}
			continue
		}
		existing.Title = lessonTitle(row.Title)
		existing.Order = row.Order
		existing.Content = row.Content
		if err := s.repos.Lessons.Update(ctx, existing); err != nil {
			return err
		}
	}
	return nil
}

func lessonTitle(title string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return domain.DefaultLessonTitle
}

func (s *adminService) DeleteCourse(ctx context.Context, actor *domain.Identity, id string) (bool, error) {
	if err := requireStaff(actor); err != nil {
		return false, err
	}
	course, err := s.repos.Courses.GetByID(ctx, id)
	if err != nil {
		return false, wrap(err, "failed to get course")
	}
	if course == nil {
		return false, nil
	}
	deleted, err := s.repos.Courses.Delete(ctx, id)
	if err != nil {
		return false, wrap(err, "failed to delete course")
	}
	if deleted && course.ImagePath != "" {
		s.removeMedia(ctx, course.ImagePath)
	}
	return deleted, nil
}

func (s *adminService) UploadCourseImage(ctx context.Context, actor *domain.Identity, id string, upload ImageUpload) (*dto.CourseAdmin, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if s.media == nil {
		return nil, domain.NewInternalError("media storage is not configured", nil)
	}
	ext := strings.ToLower(path.Ext(upload.Filename))
	if !allowedImageExt[ext] {
		return nil, fieldError("image", "image must be a png, jpg, gif or webp file")
	}
	if upload.ContentType != "" && !strings.HasPrefix(upload.ContentType, "image/") {
		return nil, fieldError("image", "image must be an image file")
	}

	course, err := s.repos.Courses.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "failed to get course")
	}
	if course == nil {
		return nil, domain.NewCourseNotFoundError(id)
	}

	key := path.Join(domain.CourseImageDir, util.NewULID()+ext)
	if err := s.media.Upload(ctx, key, upload.Reader, upload.Size, upload.ContentType); err != nil {
		return nil, wrap(err, "failed to store course image")
	}
	if err := s.repos.Courses.UpdateImage(ctx, id, key); err != nil {
		s.removeMedia(ctx, key)
		return nil, wrap(err, "failed to update course image")
	}
	if course.ImagePath != "" {
		s.removeMedia(ctx, course.ImagePath)
	}
	return s.loadCourse(ctx, id)
}

func (s *adminService) removeMedia(ctx context.Context, key string) {
	if s.media == nil {
		return
	}
	if err := s.media.Delete(ctx, key); err != nil {
		logger.Get().Warn("Failed to remove media", zap.String("key", key), zap.Error(err))
	}
}

// ---- lessons ----

func lessonAdmin(l domain.Lesson) dto.LessonAdmin {
	return dto.LessonAdmin{ID: l.ID, CourseID: l.CourseID, Title: l.Title, Order: l.Order, Content: l.Content}
}

func (s *adminService) ListLessons(ctx context.Context, actor *domain.Identity, courseID string, page domain.Page) (*dto.ListResponse[dto.LessonAdmin], error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	lessons, total, err := s.repos.Lessons.List(ctx, courseID, page)
	if err != nil {
		return nil, wrap(err, "failed to list lessons")
	}
	items := make([]dto.LessonAdmin, 0, len(lessons))
	for _, l := range lessons {
		items = append(items, lessonAdmin(l))
	}
	return &dto.ListResponse[dto.LessonAdmin]{Items: items, Pagination: pageInfo(page, total)}, nil
}

func (s *adminService) GetLesson(ctx context.Context, actor *domain.Identity, id string) (*dto.LessonAdmin, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	l, err := s.repos.Lessons.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "failed to get lesson")
	}
	if l == nil {
		return nil, notFound("Lesson", id)
	}
	out := lessonAdmin(*l)
	return &out, nil
}

func (s *adminService) CreateLesson(ctx context.Context, actor *domain.Identity, req dto.LessonRequest) (*dto.LessonAdmin, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if errs := s.validator.Struct(req); errs != nil {
		return nil, errs
	}
	course, err := s.repos.Courses.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, wrap(err, "failed to get course")
	}
	if course == nil {
		return nil, fieldError("course_id", "unknown course")
	}
	lesson := domain.Lesson{ID: util.NewULID(), CourseID: req.CourseID, Title: lessonTitle(req.Title), Order: req.Order, Content: req.Content}
	if err := s.repos.Lessons.Create(ctx, &lesson); err != nil {
		return nil, wrap(err, "failed to create lesson")
	}
	out := lessonAdmin(lesson)
	return &out, nil
}

func (s *adminService) UpdateLesson(ctx context.Context, actor *domain.Identity, id string, req dto.LessonRequest) (*dto.LessonAdmin, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if errs := s.validator.Struct(req); errs != nil {
		return nil, errs
	}
	lesson, err := s.repos.Lessons.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "failed to get lesson")
	}
	if lesson == nil {
		return nil, notFound("Lesson", id)
	}
	if lesson.CourseID != req.CourseID {
		return nil, fieldError("course_id", "a lesson cannot be moved to another course")
	}
	lesson.Title = lessonTitle(req.Title)
	lesson.Order = req.Order
	lesson.Content = req.Content
	if err := s.repos.Lessons.Update(ctx, lesson); err != nil {
		return nil, wrap(err, "failed to update lesson")
	}
	out := lessonAdmin(*lesson)
	return &out, nil
}

func (s *adminService) DeleteLesson(ctx context.Context, actor *domain.Identity, id string) (bool, error) {
	if err := requireStaff(actor); err != nil {
		return false, err
	}
	deleted, err := s.repos.Lessons.Delete(ctx, id)
	return deleted, wrap(err, "failed to delete lesson")
}

// ---- questions ----

func questionAdmin(q domain.Question) dto.QuestionAdmin {
	out := dto.QuestionAdmin{ID: q.ID, CourseID: q.CourseID, Text: q.Text, Grade: q.Grade}
	for _, c := range q.Choices {
		out.Choices = append(out.Choices, choiceAdmin(c))
	}
	return out
}

func (s *adminService) ListQuestions(ctx context.Context, actor *domain.Identity, courseID string, page domain.Page) (*dto.ListResponse[dto.QuestionAdmin], error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	questions, total, err := s.repos.Questions.List(ctx, courseID, page)
	if err != nil {
		return nil, wrap(err, "failed to list questions")
	}
	items := make([]dto.QuestionAdmin, 0, len(questions))
	for _, q := range questions {
		items = append(items, questionAdmin(q))
	}
	return &dto.ListResponse[dto.QuestionAdmin]{Items: items, Pagination: pageInfo(page, total)}, nil
}

func (s *adminService) GetQuestion(ctx context.Context, actor *domain.Identity, id string) (*dto.QuestionAdmin, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	return s.loadQuestion(ctx, id)
}

func (s *adminService) loadQuestion(ctx context.Context, id string) (*dto.QuestionAdmin, error) {
	q, err := s.repos.Questions.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "failed to get question")
	}
	if q == nil {
		return nil, notFound("Question", id)
	}
	out := questionAdmin(*q)
	return &out, nil
}

func (s *adminService) NewQuestionForm(actor *domain.Identity) (*dto.QuestionRequest, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	grade := domain.DefaultQuestionGrade
	form := &dto.QuestionRequest{Grade: &grade}
	for i := 0; i < BlankChoiceRows; i++ {
		form.Choices = append(form.Choices, dto.ChoiceInline{})
	}
	return form, nil
}

func questionGrade(grade *int) int {
	if grade == nil {
		return domain.DefaultQuestionGrade
	}
	return *grade
}

func (s *adminService) CreateQuestion(ctx context.Context, actor *domain.Identity, req dto.QuestionRequest) (*dto.QuestionAdmin, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if errs := s.validator.Struct(req); errs != nil {
		return nil, errs
	}
	question := &domain.Question{ID: util.NewULID(), CourseID: req.CourseID, Text: strings.TrimSpace(req.Text), Grade: questionGrade(req.Grade)}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		course, err := s.repos.Courses.GetByID(ctx, req.CourseID)
		if err != nil {
			return err
		}
		if course == nil {
			return fieldError("course_id", "unknown course")
		}
		if err := s.repos.Questions.Create(ctx, question); err != nil {
			return err
		}
		return s.applyChoices(ctx, question.ID, req.Choices)
	})
	if err != nil {
		return nil, wrap(err, "failed to create question")
	}
	s.invalidateResults(ctx, req.CourseID)
	return s.loadQuestion(ctx, question.ID)
}

func (s *adminService) UpdateQuestion(ctx context.Context, actor *domain.Identity, id string, req dto.QuestionRequest) (*dto.QuestionAdmin, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if errs := s.validator.Struct(req); errs != nil {
		return nil, errs
	}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		question, err := s.repos.Questions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if question == nil {
			return notFound("Question", id)
		}
		if question.CourseID != req.CourseID {
			return fieldError("course_id", "a question cannot be moved to another course")
		}
		question.Text = strings.TrimSpace(req.Text)
		question.Grade = questionGrade(req.Grade)
		if err := s.repos.Questions.Update(ctx, question); err != nil {
			return err
		}
		return s.applyChoices(ctx, id, req.Choices)
	})
	if err != nil {
		return nil, wrap(err, "failed to update question")
	}
	s.invalidateResults(ctx, req.CourseID)
	return s.loadQuestion(ctx, id)
}

func blankChoice(row dto.ChoiceInline) bool {
	return strings.TrimSpace(row.Text) == "" && !row.IsCorrect
}

// applyChoices applies the inline choice rows of a question form.
func (s *adminService) applyChoices(ctx context.Context, questionID string, rows []dto.ChoiceInline) error {
	for i, row := range rows {
		text := strings.TrimSpace(row.Text)
		if row.ID == "" {
			if row.Delete || blankChoice(row) {
				continue
			}
			if text == "" {
				return fieldError(fmt.Sprintf("choices[%d].text", i), "this field is required")
			}
			choice := &domain.Choice{ID: util.NewULID(), QuestionID: questionID, Text: text, IsCorrect: row.IsCorrect}
			if err := s.repos.Choices.Create(ctx, choice); err != nil {
				return err
			}
			continue
		}

		existing, err := s.repos.Choices.GetByID(ctx, row.ID)
		if err != nil {
			return err
		}
		if existing == nil || existing.QuestionID != questionID {
			return fieldError(fmt.Sprintf("choices[%d].id", i), "choice does not belong to this question")
		}
		if row.Delete {
			if _, err := s.repos.Choices.Delete(ctx, row.ID); err != nil {
				return err
			}
			continue
		}
		if text == "" {
			return fieldError(fmt.Sprintf("choices[%d].text", i), "this field is required")
		}
		existing.Text = text
		existing.IsCorrect = row.IsCorrect
		if err := s.repos.Choices.Update(ctx, existing); err != nil {
			return err
		}
	}
	return nil
}

func (s *adminService) DeleteQuestion(ctx context.Context, actor *domain.Identity, id string) (bool, error) {
	if err := requireStaff(actor); err != nil {
		return false, err
	}
	question, err := s.repos.Questions.GetByID(ctx, id)
	if err != nil {
		return false, wrap(err, "failed to get question")
	}
	if question == nil {
		return false, nil
	}
	deleted, err := s.repos.Questions.Delete(ctx, id)
	if err != nil {
		return false, wrap(err, "failed to delete question")
	}
	s.invalidateResults(ctx, question.CourseID)
	return deleted, nil
}

// invalidateResults is best effort; a stale cache only lives until its TTL.
func (s *adminService) invalidateResults(ctx context.Context, courseID string) {
	if err := s.results.InvalidateCourse(ctx, courseID); err != nil {
		logger.Get().Warn("Failed to invalidate cached exam results", zap.String("courseID", courseID), zap.Error(err))
	}
}

// ---- choices ----

func choiceAdmin(c domain.Choice) dto.ChoiceAdmin {
	return dto.ChoiceAdmin{ID: c.ID, QuestionID: c.QuestionID, Text: c.Text, IsCorrect: c.IsCorrect}
}

func (s *adminService) ListChoices(ctx context.Context, actor *domain.Identity, questionID string, page domain.Page) (*dto.ListResponse[dto.ChoiceAdmin], error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	choices, total, err := s.repos.Choices.List(ctx, questionID, page)
	if err != nil {
		return nil, wrap(err, "failed to list choices")
	}
	items := make([]dto.ChoiceAdmin, 0, len(choices))
	for _, c := range choices {
		items = append(items, choiceAdmin(c))
	}
	return &dto.ListResponse[dto.ChoiceAdmin]{Items: items, Pagination: pageInfo(page, total)}, nil
}

func (s *adminService) GetChoice(ctx context.Context, actor *domain.Identity, id string) (*dto.ChoiceAdmin, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	c, err := s.repos.Choices.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "failed to get choice")
	}
	if c == nil {
		return nil, notFound("Choice", id)
	}
	out := choiceAdmin(*c)
	return &out, nil
}

func (s *adminService) CreateChoice(ctx context.Context, actor *domain.Identity, req dto.ChoiceRequest) (*dto.ChoiceAdmin, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if errs := s.validator.Struct(req); errs != nil {
		return nil, errs
	}
	question, err := s.repos.Questions.GetByID(ctx, req.QuestionID)
	if err != nil {
		return nil, wrap(err, "failed to get question")
	}
	if question == nil {
		return nil, fieldError("question_id", "unknown question")
	}
	choice := domain.Choice{ID: util.NewULID(), QuestionID: req.QuestionID, Text: strings.TrimSpace(req.Text), IsCorrect: req.IsCorrect}
	if err := s.repos.Choices.Create(ctx, &choice); err != nil {
		return nil, wrap(err, "failed to create choice")
	}
	s.invalidateResults(ctx, question.CourseID)
	out := choiceAdmin(choice)
	return &out, nil
}

func (s *adminService) UpdateChoice(ctx context.Context, actor *domain.Identity, id string, req dto.ChoiceRequest) (*dto.ChoiceAdmin, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if errs := s.validator.Struct(req); errs != nil {
		return nil, errs
	}
	choice, err := s.repos.Choices.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "failed to get choice")
	}
	if choice == nil {
		return nil, notFound("Choice", id)
	}
	if choice.QuestionID != req.QuestionID {
		return nil, fieldError("question_id", "a choice cannot be moved to another question")
	}
	question, err := s.repos.Questions.GetByID(ctx, choice.QuestionID)
	if err != nil {
		return nil, wrap(err, "failed to get question")
	}
	choice.Text = strings.TrimSpace(req.Text)
	choice.IsCorrect = req.IsCorrect
	if err := s.repos.Choices.Update(ctx, choice); err != nil {
		return nil, wrap(err, "failed to update choice")
	}
	if question != nil {
		s.invalidateResults(ctx, question.CourseID)
	}
	out := choiceAdmin(*choice)
	return &out, nil
}

func (s *adminService) DeleteChoice(ctx context.Context, actor *domain.Identity, id string) (bool, error) {
	if err := requireStaff(actor); err != nil {
		return false, err
	}
	choice, err := s.repos.Choices.GetByID(ctx, id)
	if err != nil {
		return false, wrap(err, "failed to get choice")
	}
	if choice == nil {
		return false, nil
	}
	question, err := s.repos.Questions.GetByID(ctx, choice.QuestionID)
	if err != nil {
		return false, wrap(err, "failed to get question")
	}
	deleted, err := s.repos.Choices.Delete(ctx, id)
	if err != nil {
		return false, wrap(err, "failed to delete choice")
	}
	if question != nil {
		s.invalidateResults(ctx, question.CourseID)
	}
	return deleted, nil
}

// ---- submissions ----

func submissionAdmin(sub domain.Submission) dto.SubmissionAdmin {
	return dto.SubmissionAdmin{ID: sub.ID, EnrollmentID: sub.EnrollmentID, ChoiceIDs: sub.ChoiceIDs, CreatedAt: sub.CreatedAt}
}

func (s *adminService) ListSubmissions(ctx context.Context, actor *domain.Identity, enrollmentID string, page domain.Page) (*dto.ListResponse[dto.SubmissionAdmin], error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	subs, total, err := s.repos.Submissions.List(ctx, enrollmentID, page)
	if err != nil {
		return nil, wrap(err, "failed to list submissions")
	}
	items := make([]dto.SubmissionAdmin, 0, len(subs))
	for _, sub := range subs {
		items = append(items, submissionAdmin(sub))
	}
	return &dto.ListResponse[dto.SubmissionAdmin]{Items: items, Pagination: pageInfo(page, total)}, nil
}

func (s *adminService) GetSubmission(ctx context.Context, actor *domain.Identity, id string) (*dto.SubmissionAdmin, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	sub, err := s.repos.Submissions.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "failed to get submission")
	}
	if sub == nil {
		return nil, domain.NewSubmissionNotFoundError(id)
	}
	out := submissionAdmin(*sub)
	return &out, nil
}

func (s *adminService) DeleteSubmission(ctx context.Context, actor *domain.Identity, id string) (bool, error) {
	if err := requireStaff(actor); err != nil {
		return false, err
	}
	deleted, err := s.repos.Submissions.Delete(ctx, id)
	return deleted, wrap(err, "failed to delete submission")
}

// ---- instructors ----

func instructorAdmin(in domain.Instructor) dto.InstructorAdmin {
	return dto.InstructorAdmin{ID: in.ID, AccountID: in.AccountID, Username: in.Username, FullTime: in.FullTime, TotalLearners: in.TotalLearners}
}

func (s *adminService) ListInstructors(ctx context.Context, actor *domain.Identity, page domain.Page) (*dto.ListResponse[dto.InstructorAdmin], error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	list, total, err := s.repos.Instructors.List(ctx, page)
	if err != nil {
		return nil, wrap(err, "failed to list instructors")
	}
	items := make([]dto.InstructorAdmin, 0, len(list))
	for _, in := range list {
		items = append(items, instructorAdmin(in))
	}
	return &dto.ListResponse[dto.InstructorAdmin]{Items: items, Pagination: pageInfo(page, total)}, nil
}

func (s *adminService) GetInstructor(ctx context.Context, actor *domain.Identity, id string) (*dto.InstructorAdmin, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	return s.loadInstructor(ctx, id)
}

func (s *adminService) loadInstructor(ctx context.Context, id string) (*dto.InstructorAdmin, error) {
	in, err := s.repos.Instructors.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "failed to get instructor")
	}
	if in == nil {
		return nil, notFound("Instructor", id)
	}
	out := instructorAdmin(*in)
	return &out, nil
}

func (s *adminService) requireAccount(ctx context.Context, accountID string) error {
	account, err := s.repos.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return wrap(err, "failed to get account")
	}
	if account == nil {
		return fieldError("account_id", "unknown account")
	}
	return nil
}

func (s *adminService) CreateInstructor(ctx context.Context, actor *domain.Identity, req dto.InstructorRequest) (*dto.InstructorAdmin, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if errs := s.validator.Struct(req); errs != nil {
		return nil, errs
	}
	if err := s.requireAccount(ctx, req.AccountID); err != nil {
		return nil, err
	}
	in := &domain.Instructor{ID: util.NewULID(), AccountID: req.AccountID, FullTime: true, TotalLearners: req.TotalLearners}
	if req.FullTime != nil {
		in.FullTime = *req.FullTime
	}
	if err := s.repos.Instructors.Create(ctx, in); err != nil {
		return nil, wrap(err, "failed to create instructor")
	}
	return s.loadInstructor(ctx, in.ID)
}

func (s *adminService) UpdateInstructor(ctx context.Context, actor *domain.Identity, id string, req dto.InstructorRequest) (*dto.InstructorAdmin, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if errs := s.validator.Struct(req); errs != nil {
		return nil, errs
	}
	in, err := s.repos.Instructors.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "failed to get instructor")
	}
	if in == nil {
		return nil, notFound("Instructor", id)
	}
	if in.AccountID != req.AccountID {
		return nil, fieldError("account_id", "an instructor profile cannot change accounts")
	}
	if req.FullTime != nil {
		in.FullTime = *req.FullTime
	}
	in.TotalLearners = req.TotalLearners
	if err := s.repos.Instructors.Update(ctx, in); err != nil {
		return nil, wrap(err, "failed to update instructor")
	}
	out := instructorAdmin(*in)
	return &out, nil
}

func (s *adminService) DeleteInstructor(ctx context.Context, actor *domain.Identity, id string) (bool, error) {
	if err := requireStaff(actor); err != nil {
		return false, err
	}
	deleted, err := s.repos.Instructors.Delete(ctx, id)
	return deleted, wrap(err, "failed to delete instructor")
}

// ---- learners ----

func learnerAdmin(l domain.Learner) dto.LearnerAdmin {
	return dto.LearnerAdmin{ID: l.ID, AccountID: l.AccountID, Username: l.Username, Occupation: string(l.Occupation), SocialLink: l.SocialLink}
}

func occupationOrDefault(value string) domain.Occupation {
	if value == "" {
		return domain.OccupationStudent
	}
	return domain.Occupation(value)
}

func (s *adminService) ListLearners(ctx context.Context, actor *domain.Identity, page domain.Page) (*dto.ListResponse[dto.LearnerAdmin], error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	list, total, err := s.repos.Learners.List(ctx, page)
	if err != nil {
		return nil, wrap(err, "failed to list learners")
	}
	items := make([]dto.LearnerAdmin, 0, len(list))
	for _, l := range list {
		items = append(items, learnerAdmin(l))
	}
	return &dto.ListResponse[dto.LearnerAdmin]{Items: items, Pagination: pageInfo(page, total)}, nil
}

func (s *adminService) GetLearner(ctx context.Context, actor *domain.Identity, id string) (*dto.LearnerAdmin, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	return s.loadLearner(ctx, id)
}

func (s *adminService) loadLearner(ctx context.Context, id string) (*dto.LearnerAdmin, error) {
	l, err := s.repos.Learners.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "failed to get learner")
	}
	if l == nil {
		return nil, notFound("Learner", id)
	}
	out := learnerAdmin(*l)
	return &out, nil
}

func (s *adminService) CreateLearner(ctx context.Context, actor *domain.Identity, req dto.LearnerRequest) (*dto.LearnerAdmin, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if errs := s.validator.Struct(req); errs != nil {
		return nil, errs
	}
	if err := s.requireAccount(ctx, req.AccountID); err != nil {
		return nil, err
	}
	l := &domain.Learner{ID: util.NewULID(), AccountID: req.AccountID, Occupation: occupationOrDefault(req.Occupation), SocialLink: req.SocialLink}
	if err := s.repos.Learners.Create(ctx, l); err != nil {
		return nil, wrap(err, "failed to create learner")
	}
	return s.loadLearner(ctx, l.ID)
}

func (s *adminService) UpdateLearner(ctx context.Context, actor *domain.Identity, id string, req dto.LearnerRequest) (*dto.LearnerAdmin, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if errs := s.validator.Struct(req); errs != nil {
		return nil, errs
	}
	l, err := s.repos.Learners.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "failed to get learner")
	}
	if l == nil {
		return nil, notFound("Learner", id)
	}
	if l.AccountID != req.AccountID {
		return nil, fieldError("account_id", "a learner profile cannot change accounts")
	}
	l.Occupation = occupationOrDefault(req.Occupation)
	l.SocialLink = req.SocialLink
	if err := s.repos.Learners.Update(ctx, l); err != nil {
		return nil, wrap(err, "failed to update learner")
	}
	out := learnerAdmin(*l)
	return &out, nil
}

func (s *adminService) DeleteLearner(ctx context.Context, actor *domain.Identity, id string) (bool, error) {
	if err := requireStaff(actor); err != nil {
		return false, err
	}
	deleted, err := s.repos.Learners.Delete(ctx, id)
	return deleted, wrap(err, "failed to delete learner")
}

// ---- enrollments ----

func enrollmentAdmin(e domain.Enrollment) dto.EnrollmentAdmin {
	return dto.EnrollmentAdmin{ID: e.ID, AccountID: e.AccountID, CourseID: e.CourseID, DateEnrolled: e.DateEnrolled, Mode: string(e.Mode), Rating: e.Rating}
}

func (s *adminService) ListEnrollments(ctx context.Context, actor *domain.Identity, courseID string, page domain.Page) (*dto.ListResponse[dto.EnrollmentAdmin], error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	list, total, err := s.repos.Enrollments.List(ctx, courseID, page)
	if err != nil {
		return nil, wrap(err, "failed to list enrollments")
	}
	items := make([]dto.EnrollmentAdmin, 0, len(list))
	for _, e := range list {
		items = append(items, enrollmentAdmin(e))
	}
	return &dto.ListResponse[dto.EnrollmentAdmin]{Items: items, Pagination: pageInfo(page, total)}, nil
}

func (s *adminService) GetEnrollment(ctx context.Context, actor *domain.Identity, id string) (*dto.EnrollmentAdmin, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	e, err := s.repos.Enrollments.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "failed to get enrollment")
	}
	if e == nil {
		return nil, notFound("Enrollment", id)
	}
	out := enrollmentAdmin(*e)
	return &out, nil
}

func (s *adminService) DeleteEnrollment(ctx context.Context, actor *domain.Identity, id string) (bool, error) {
	if err := requireStaff(actor); err != nil {
		return false, err
	}
	var deleted bool
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		e, err := s.repos.Enrollments.GetByID(ctx, id)
		if err != nil || e == nil {
			return err
		}
		if deleted, err = s.repos.Enrollments.Delete(ctx, id); err != nil || !deleted {
			return err
		}
		return s.repos.Courses.DecrementEnrollment(ctx, e.CourseID)
	})
	if err != nil {
		return false, wrap(err, "failed to delete enrollment")
	}
	return deleted, nil
}

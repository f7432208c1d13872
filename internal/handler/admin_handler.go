package handler

import (
	"fmt"

	"onlinecourse/internal/domain"
	"onlinecourse/internal/dto"
	"onlinecourse/internal/middleware"
	"onlinecourse/internal/service"
	"onlinecourse/internal/util"
	"onlinecourse/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// imageField is the multipart field carrying a course image.
const imageField = "image"

// AdminHandler exposes the staff back-office as a JSON API.
type AdminHandler struct {
	admin     service.AdminService
	validator *validation.Validator
}

// NewAdminHandler creates a new AdminHandler instance
func NewAdminHandler(admin service.AdminService, validator *validation.Validator) *AdminHandler {
	return &AdminHandler{admin: admin, validator: validator}
}

// Routes mounts the back-office endpoints on r. Callers must be staff.
func (h *AdminHandler) Routes(r fiber.Router) {
	r.Use(middleware.RequireStaff())

	courses := r.Group("/courses")
	courses.Get("/", h.ListCourses)
	courses.Get("/new", h.NewCourseForm)
	courses.Post("/", h.CreateCourse)
	courses.Get("/:id", h.GetCourse)
	courses.Put("/:id", h.UpdateCourse)
	courses.Delete("/:id", h.DeleteCourse)
	courses.Post("/:id/image", h.UploadCourseImage)

	lessons := r.Group("/lessons")
	lessons.Get("/", h.ListLessons)
	lessons.Post("/", h.CreateLesson)
	lessons.Get("/:id", h.GetLesson)
	lessons.Put("/:id", h.UpdateLesson)
	lessons.Delete("/:id", h.DeleteLesson)

	questions := r.Group("/questions")
	questions.Get("/", h.ListQuestions)
	questions.Get("/new", h.NewQuestionForm)
	questions.Post("/", h.CreateQuestion)
	questions.Get("/:id", h.GetQuestion)
	questions.Put("/:id", h.UpdateQuestion)
	questions.Delete("/:id", h.DeleteQuestion)

	choices := r.Group("/choices")
	choices.Get("/", h.ListChoices)
	choices.Post("/", h.CreateChoice)
	choices.Get("/:id", h.GetChoice)
	choices.Put("/:id", h.UpdateChoice)
	choices.Delete("/:id", h.DeleteChoice)

	submissions := r.Group("/submissions")
	submissions.Get("/", h.ListSubmissions)
	submissions.Get("/:id", h.GetSubmission)
	submissions.Delete("/:id", h.DeleteSubmission)

	instructors := r.Group("/instructors")
	instructors.Get("/", h.ListInstructors)
	instructors.Post("/", h.CreateInstructor)
	instructors.Get("/:id", h.GetInstructor)
	instructors.Put("/:id", h.UpdateInstructor)
	instructors.Delete("/:id", h.DeleteInstructor)

	learners := r.Group("/learners")
	learners.Get("/", h.ListLearners)
	learners.Post("/", h.CreateLearner)
	learners.Get("/:id", h.GetLearner)
	learners.Put("/:id", h.UpdateLearner)
	learners.Delete("/:id", h.DeleteLearner)

	enrollments := r.Group("/enrollments")
	enrollments.Get("/", h.ListEnrollments)
	enrollments.Get("/:id", h.GetEnrollment)
	enrollments.Delete("/:id", h.DeleteEnrollment)
}

func (h *AdminHandler) page(c *fiber.Ctx) (domain.Page, error) {
	var q dto.PageQuery
	if err := c.QueryParser(&q); err != nil {
		return domain.Page{}, domain.NewInvalidInputError("malformed pagination parameters")
	}
	if errs := h.validator.Struct(q); errs != nil {
		return domain.Page{}, errs
	}
	return domain.NewPage(q.Page, q.PageSize), nil
}

// idParam reads :id. Malformed ids are reported as missing records.
func idParam(c *fiber.Ctx, kind string) (string, error) {
	id := c.Params("id")
	if !util.IsValidULID(id) {
		return "", domain.NewNotFoundError(fmt.Sprintf("%s not found with ID: %s", kind, id))
	}
	return id, nil
}

// optionalULID reads a filter query parameter that must be empty or a ULID.
func optionalULID(c *fiber.Ctx, name string) (string, error) {
	v := c.Query(name)
	if v != "" && !util.IsValidULID(v) {
		return "", domain.ValidationErrors{{Field: name, Message: name + " must be a valid identifier"}}
	}
	return v, nil
}

func bind(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return domain.NewInvalidInputError("malformed request body")
	}
	return nil
}

func deleted(c *fiber.Ctx, ok bool, err error, kind, id string) error {
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewNotFoundError(fmt.Sprintf("%s not found with ID: %s", kind, id))
	}
	return c.JSON(dto.DeleteResponse{Deleted: true})
}

// ListCourses godoc
// @Summary List courses
// @Tags admin
// @Produce json
// @Param search query string false "Name or description contains"
// @Param pub_date query string false "Publication date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.ListResponse[dto.CourseAdmin]
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/api/courses [get]
func (h *AdminHandler) ListCourses(c *fiber.Ctx) error {
	page, err := h.page(c)
	if err != nil {
		return err
	}
	out, err := h.admin.ListCourses(c.UserContext(), middleware.IdentityFrom(c), service.CourseListQuery{
		Search:  c.Query("search"),
		PubDate: c.Query("pub_date"),
	}, page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// NewCourseForm godoc
// @Summary Blank course form
// @Description Returns the defaults of a new course with empty lesson rows.
// @Tags admin
// @Produce json
// @Success 200 {object} dto.CourseRequest
// @Security ApiKeyAuth
// @Router /admin/api/courses/new [get]
func (h *AdminHandler) NewCourseForm(c *fiber.Ctx) error {
	form, err := h.admin.NewCourseForm(middleware.IdentityFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(form)
}

// CreateCourse godoc
// @Summary Create a course
// @Description Creates the course with its instructors and inline lessons. Blank lesson rows are ignored.
// @Tags admin
// @Accept json
// @Produce json
// @Param course body dto.CourseRequest true "Course"
// @Success 201 {object} dto.CourseAdmin
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Security ApiKeyAuth
// @Router /admin/api/courses [post]
func (h *AdminHandler) CreateCourse(c *fiber.Ctx) error {
	var req dto.CourseRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.admin.CreateCourse(c.UserContext(), middleware.IdentityFrom(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetCourse godoc
// @Summary Get a course with its lessons
// @Tags admin
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} dto.CourseAdmin
// @Failure 404 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/api/courses/{id} [get]
func (h *AdminHandler) GetCourse(c *fiber.Ctx) error {
	id, err := idParam(c, "Course")
	if err != nil {
		return err
	}
	out, err := h.admin.GetCourse(c.UserContext(), middleware.IdentityFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateCourse godoc
// @Summary Update a course
// @Description Rows with an id update or, with delete set, remove that lesson. Rows without an id are inserted.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param course body dto.CourseRequest true "Course"
// @Success 200 {object} dto.CourseAdmin
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/api/courses/{id} [put]
func (h *AdminHandler) UpdateCourse(c *fiber.Ctx) error {
	id, err := idParam(c, "Course")
	if err != nil {
		return err
	}
	var req dto.CourseRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.admin.UpdateCourse(c.UserContext(), middleware.IdentityFrom(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DeleteCourse godoc
// @Summary Delete a course
// @Tags admin
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} dto.DeleteResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/api/courses/{id} [delete]
func (h *AdminHandler) DeleteCourse(c *fiber.Ctx) error {
	id, err := idParam(c, "Course")
	if err != nil {
		return err
	}
	ok, err := h.admin.DeleteCourse(c.UserContext(), middleware.IdentityFrom(c), id)
	return deleted(c, ok, err, "Course", id)
}

// UploadCourseImage godoc
// @Summary Upload a course image
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Course ID"
// @Param image formData file true "Image (png, jpg, gif or webp)"
// @Success 200 {object} dto.CourseAdmin
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/api/courses/{id}/image [post]
func (h *AdminHandler) UploadCourseImage(c *fiber.Ctx) error {
	id, err := idParam(c, "Course")
	if err != nil {
		return err
	}
	header, err := c.FormFile(imageField)
	if err != nil {
		return domain.ValidationErrors{domain.NewMissingFieldError(imageField)}
	}
	file, err := header.Open()
	if err != nil {
		return domain.NewInternalError("failed to read uploaded image", err)
	}
	defer file.Close()

	out, err := h.admin.UploadCourseImage(c.UserContext(), middleware.IdentityFrom(c), id, service.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Size:        header.Size,
		Reader:      file,
	})
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *AdminHandler) ListLessons(c *fiber.Ctx) error {
	page, err := h.page(c)
	if err != nil {
		return err
	}
	courseID, err := optionalULID(c, "course_id")
	if err != nil {
		return err
	}
	out, err := h.admin.ListLessons(c.UserContext(), middleware.IdentityFrom(c), courseID, page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *AdminHandler) CreateLesson(c *fiber.Ctx) error {
	var req dto.LessonRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.admin.CreateLesson(c.UserContext(), middleware.IdentityFrom(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *AdminHandler) GetLesson(c *fiber.Ctx) error {
	id, err := idParam(c, "Lesson")
	if err != nil {
		return err
	}
	out, err := h.admin.GetLesson(c.UserContext(), middleware.IdentityFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *AdminHandler) UpdateLesson(c *fiber.Ctx) error {
	id, err := idParam(c, "Lesson")
	if err != nil {
		return err
	}
	var req dto.LessonRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.admin.UpdateLesson(c.UserContext(), middleware.IdentityFrom(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *AdminHandler) DeleteLesson(c *fiber.Ctx) error {
	id, err := idParam(c, "Lesson")
	if err != nil {
		return err
	}
	ok, err := h.admin.DeleteLesson(c.UserContext(), middleware.IdentityFrom(c), id)
	return deleted(c, ok, err, "Lesson", id)
}

// ListQuestions godoc
// @Summary List questions with their choices
// @Tags admin
// @Produce json
// @Param course_id query string false "Course ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.ListResponse[dto.QuestionAdmin]
// @Security ApiKeyAuth
// @Router /admin/api/questions [get]
func (h *AdminHandler) ListQuestions(c *fiber.Ctx) error {
	page, err := h.page(c)
	if err != nil {
		return err
	}
	courseID, err := optionalULID(c, "course_id")
	if err != nil {
		return err
	}
	out, err := h.admin.ListQuestions(c.UserContext(), middleware.IdentityFrom(c), courseID, page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *AdminHandler) NewQuestionForm(c *fiber.Ctx) error {
	form, err := h.admin.NewQuestionForm(middleware.IdentityFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(form)
}

// CreateQuestion godoc
// @Summary Create a question
// @Description Creates the question with its inline choices. Blank choice rows are ignored.
// @Tags admin
// @Accept json
// @Produce json
// @Param question body dto.QuestionRequest true "Question"
// @Success 201 {object} dto.QuestionAdmin
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Security ApiKeyAuth
// @Router /admin/api/questions [post]
func (h *AdminHandler) CreateQuestion(c *fiber.Ctx) error {
	var req dto.QuestionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.admin.CreateQuestion(c.UserContext(), middleware.IdentityFrom(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *AdminHandler) GetQuestion(c *fiber.Ctx) error {
	id, err := idParam(c, "Question")
	if err != nil {
		return err
	}
	out, err := h.admin.GetQuestion(c.UserContext(), middleware.IdentityFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *AdminHandler) UpdateQuestion(c *fiber.Ctx) error {
	id, err := idParam(c, "Question")
	if err != nil {
		return err
	}
	var req dto.QuestionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.admin.UpdateQuestion(c.UserContext(), middleware.IdentityFrom(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *AdminHandler) DeleteQuestion(c *fiber.Ctx) error {
	id, err := idParam(c, "Question")
	if err != nil {
		return err
	}
	ok, err := h.admin.DeleteQuestion(c.UserContext(), middleware.IdentityFrom(c), id)
	return deleted(c, ok, err, "Question", id)
}

func (h *AdminHandler) ListChoices(c *fiber.Ctx) error {
	page, err := h.page(c)
	if err != nil {
		return err
	}
	questionID, err := optionalULID(c, "question_id")
	if err != nil {
		return err
	}
	out, err := h.admin.ListChoices(c.UserContext(), middleware.IdentityFrom(c), questionID, page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *AdminHandler) CreateChoice(c *fiber.Ctx) error {
	var req dto.ChoiceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.admin.CreateChoice(c.UserContext(), middleware.IdentityFrom(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *AdminHandler) GetChoice(c *fiber.Ctx) error {
	id, err := idParam(c, "Choice")
	if err != nil {
		return err
	}
	out, err := h.admin.GetChoice(c.UserContext(), middleware.IdentityFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *AdminHandler) UpdateChoice(c *fiber.Ctx) error {
	id, err := idParam(c, "Choice")
	if err != nil {
		return err
	}
	var req dto.ChoiceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.admin.UpdateChoice(c.UserContext(), middleware.IdentityFrom(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *AdminHandler) DeleteChoice(c *fiber.Ctx) error {
	id, err := idParam(c, "Choice")
	if err != nil {
		return err
	}
	ok, err := h.admin.DeleteChoice(c.UserContext(), middleware.IdentityFrom(c), id)
	return deleted(c, ok, err, "Choice", id)
}

func (h *AdminHandler) ListSubmissions(c *fiber.Ctx) error {
	page, err := h.page(c)
	if err != nil {
		return err
	}
	enrollmentID, err := optionalULID(c, "enrollment_id")
	if err != nil {
		return err
	}
	out, err := h.admin.ListSubmissions(c.UserContext(), middleware.IdentityFrom(c), enrollmentID, page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *AdminHandler) GetSubmission(c *fiber.Ctx) error {
	id, err := idParam(c, "Submission")
	if err != nil {
		return err
	}
	out, err := h.admin.GetSubmission(c.UserContext(), middleware.IdentityFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *AdminHandler) DeleteSubmission(c *fiber.Ctx) error {
	id, err := idParam(c, "Submission")
	if err != nil {
		return err
	}
	ok, err := h.admin.DeleteSubmission(c.UserContext(), middleware.IdentityFrom(c), id)
	return deleted(c, ok, err, "Submission", id)
}

func (h *AdminHandler) ListInstructors(c *fiber.Ctx) error {
	page, err := h.page(c)
	if err != nil {
		return err
	}
	out, err := h.admin.ListInstructors(c.UserContext(), middleware.IdentityFrom(c), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *AdminHandler) CreateInstructor(c *fiber.Ctx) error {
	var req dto.InstructorRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.admin.CreateInstructor(c.UserContext(), middleware.IdentityFrom(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *AdminHandler) GetInstructor(c *fiber.Ctx) error {
	id, err := idParam(c, "Instructor")
	if err != nil {
		return err
	}
	out, err := h.admin.GetInstructor(c.UserContext(), middleware.IdentityFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *AdminHandler) UpdateInstructor(c *fiber.Ctx) error {
	id, err := idParam(c, "Instructor")
	if err != nil {
		return err
	}
	var req dto.InstructorRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.admin.UpdateInstructor(c.UserContext(), middleware.IdentityFrom(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *AdminHandler) DeleteInstructor(c *fiber.Ctx) error {
	id, err := idParam(c, "Instructor")
	if err != nil {
		return err
	}
	ok, err := h.admin.DeleteInstructor(c.UserContext(), middleware.IdentityFrom(c), id)
	return deleted(c, ok, err, "Instructor", id)
}

func (h *AdminHandler) ListLearners(c *fiber.Ctx) error {
	page, err := h.page(c)
	if err != nil {
		return err
	}
	out, err := h.admin.ListLearners(c.UserContext(), middleware.IdentityFrom(c), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *AdminHandler) CreateLearner(c *fiber.Ctx) error {
	var req dto.LearnerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.admin.CreateLearner(c.UserContext(), middleware.IdentityFrom(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *AdminHandler) GetLearner(c *fiber.Ctx) error {
	id, err := idParam(c, "Learner")
	if err != nil {
		return err
	}
	out, err := h.admin.GetLearner(c.UserContext(), middleware.IdentityFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *AdminHandler) UpdateLearner(c *fiber.Ctx) error {
	id, err := idParam(c, "Learner")
	if err != nil {
		return err
	}
	var req dto.LearnerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.admin.UpdateLearner(c.UserContext(), middleware.IdentityFrom(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *AdminHandler) DeleteLearner(c *fiber.Ctx) error {
	id, err := idParam(c, "Learner")
	if err != nil {
		return err
	}
	ok, err := h.admin.DeleteLearner(c.UserContext(), middleware.IdentityFrom(c), id)
	return deleted(c, ok, err, "Learner", id)
}

func (h *AdminHandler) ListEnrollments(c *fiber.Ctx) error {
	page, err := h.page(c)
	if err != nil {
		return err
	}
	courseID, err := optionalULID(c, "course_id")
	if err != nil {
		return err
	}
	out, err := h.admin.ListEnrollments(c.UserContext(), middleware.IdentityFrom(c), courseID, page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *AdminHandler) GetEnrollment(c *fiber.Ctx) error {
	id, err := idParam(c, "Enrollment")
	if err != nil {
		return err
	}
	out, err := h.admin.GetEnrollment(c.UserContext(), middleware.IdentityFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DeleteEnrollment godoc
// @Summary Delete an enrollment
// @Description Removes the enrollment and decrements the course's enrollment count.
// @Tags admin
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} dto.DeleteResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/api/enrollments/{id} [delete]
func (h *AdminHandler) DeleteEnrollment(c *fiber.Ctx) error {
	id, err := idParam(c, "Enrollment")
	if err != nil {
		return err
	}
	ok, err := h.admin.DeleteEnrollment(c.UserContext(), middleware.IdentityFrom(c), id)
	return deleted(c, ok, err, "Enrollment", id)
}

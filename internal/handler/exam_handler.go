package handler

import (
	"fmt"
	"sort"
	"strings"

	"onlinecourse/internal/domain"
	"onlinecourse/internal/middleware"
	"onlinecourse/internal/service"
	"onlinecourse/internal/views"

	"github.com/gofiber/fiber/v2"
)

// choiceFieldPrefix marks the form fields of the exam that carry a selected choice id.
const choiceFieldPrefix = "choice"

// ExamHandler serves enrollment, exam submission and exam results.
type ExamHandler struct {
	enrollments service.EnrollmentService
	exams       service.ExamService
}

// NewExamHandler creates a new ExamHandler instance
func NewExamHandler(enrollments service.EnrollmentService, exams service.ExamService) *ExamHandler {
	return &ExamHandler{enrollments: enrollments, exams: exams}
}

// Enroll godoc
// @Summary Enroll in a course
// @Description Enrolls the caller in honor mode and redirects to the course. Enrolling twice is a no-op.
// @Description Anonymous callers are redirected without enrolling. Unknown courses are 404 for everyone.
// @Tags exam
// @Param courseID path string true "Course ID"
// @Success 303 {string} string "Redirects to the course"
// @Failure 404 {object} middleware.ErrorResponse
// @Router /{courseID}/enroll/ [post]
func (h *ExamHandler) Enroll(c *fiber.Ctx) error {
	courseID, err := courseParam(c)
	if err != nil {
		return err
	}
	// Anonymous callers still get a 404 for an unknown course.
	_, err = h.enrollments.Enroll(c.UserContext(), middleware.IdentityFrom(c), courseID)
	if err != nil && !domain.HasCode(err, domain.CodeUnauthorized) {
		return err
	}
	return c.Redirect(fmt.Sprintf("/%s/", courseID), fiber.StatusSeeOther)
}

// Submit godoc
// @Summary Submit an exam
// @Description Stores the selected choices, taken from every form field whose name starts with "choice", and redirects to the result.
// @Tags exam
// @Accept x-www-form-urlencoded
// @Param courseID path string true "Course ID"
// @Success 303 {string} string "Redirects to the result page"
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /{courseID}/submit/ [post]
func (h *ExamHandler) Submit(c *fiber.Ctx) error {
	courseID, err := courseParam(c)
	if err != nil {
		return err
	}
	identity := middleware.IdentityFrom(c)
	if !identity.Authenticated() {
		return c.Redirect("/login/", fiber.StatusSeeOther)
	}

	choiceIDs, err := selectedChoices(c)
	if err != nil {
		return err
	}
	submissionID, err := h.exams.Submit(c.UserContext(), identity, courseID, choiceIDs)
	if err != nil {
		return err
	}
	return c.Redirect(resultPath(courseID, submissionID), fiber.StatusSeeOther)
}

// Result godoc
// @Summary Exam result
// @Description Grades the submission. A question scores only when the selected choices equal its correct choices.
// @Tags exam
// @Produce html
// @Param courseID path string true "Course ID"
// @Param submissionID path string true "Submission ID"
// @Success 200 {string} string "HTML page"
// @Failure 404 {object} middleware.ErrorResponse
// @Router /course/{courseID}/submission/{submissionID}/result/ [get]
func (h *ExamHandler) Result(c *fiber.Ctx) error {
	courseID, err := courseParam(c)
	if err != nil {
		return err
	}
	submissionID, err := submissionParam(c)
	if err != nil {
		return err
	}
	identity := middleware.IdentityFrom(c)
	if !identity.Authenticated() {
		return c.Redirect("/login/", fiber.StatusSeeOther)
	}

	result, err := h.exams.Result(c.UserContext(), identity, courseID, submissionID)
	if err != nil {
		return err
	}
	return render(c, views.ExamResult, result.CourseName, fiber.Map{"Result": result})
}

func resultPath(courseID, submissionID string) string {
	return fmt.Sprintf("/course/%s/submission/%s/result/", courseID, submissionID)
}

// selectedChoices collects the values of the choice fields of a urlencoded or multipart form.
func selectedChoices(c *fiber.Ctx) ([]string, error) {
	var ids []string
	add := func(key, value string) {
		if strings.HasPrefix(key, choiceFieldPrefix) && value != "" {
			ids = append(ids, value)
		}
	}

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "malformed exam form")
		}
		keys := make([]string, 0, len(form.Value))
		for key := range form.Value {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			for _, value := range form.Value[key] {
				add(key, value)
			}
		}
		return ids, nil
	}

	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		add(string(key), string(value))
	})
	return ids, nil
}

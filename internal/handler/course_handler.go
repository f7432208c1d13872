package handler

import (
	"onlinecourse/internal/middleware"
	"onlinecourse/internal/service"
	"onlinecourse/internal/views"

	"github.com/gofiber/fiber/v2"
)

// CourseHandler renders the course catalogue.
type CourseHandler struct {
	courses service.CourseService
}

// NewCourseHandler creates a new CourseHandler instance
func NewCourseHandler(courses service.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// Home godoc
// @Summary Course list
// @Description Renders the ten courses with the most enrollments, marking the ones the caller is enrolled in.
// @Tags courses
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router / [get]
func (h *CourseHandler) Home(c *fiber.Ctx) error {
	items, err := h.courses.ListPopular(c.UserContext(), middleware.IdentityFrom(c))
	if err != nil {
		return err
	}
	return render(c, views.CourseList, "Courses", fiber.Map{"Courses": items})
}

// Detail godoc
// @Summary Course detail
// @Description Renders lessons, instructors and, for enrolled learners, the exam form.
// @Tags courses
// @Produce html
// @Param courseID path string true "Course ID"
// @Success 200 {string} string "HTML page"
// @Failure 404 {object} middleware.ErrorResponse
// @Router /{courseID}/ [get]
func (h *CourseHandler) Detail(c *fiber.Ctx) error {
	courseID, err := courseParam(c)
	if err != nil {
		return err
	}
	detail, err := h.courses.GetDetail(c.UserContext(), middleware.IdentityFrom(c), courseID)
	if err != nil {
		return err
	}
	return render(c, views.CourseDetail, detail.Name, fiber.Map{"Course": detail})
}

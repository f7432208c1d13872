package handler

import (
	"onlinecourse/internal/domain"
	"onlinecourse/internal/middleware"
	"onlinecourse/internal/util"
	"onlinecourse/internal/views"

	"github.com/gofiber/fiber/v2"
)

// render renders view inside the site layout with the caller's identity.
func render(c *fiber.Ctx, view, title string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Title"] = title
	data["Identity"] = middleware.IdentityFrom(c)
	return c.Render(view, data, views.Layout)
}

// courseParam returns the :courseID path parameter. Malformed ids cannot
// name a course, so they are reported as a missing course.
func courseParam(c *fiber.Ctx) (string, error) {
	id := c.Params("courseID")
	if !util.IsValidULID(id) {
		return "", domain.NewCourseNotFoundError(id)
	}
	return id, nil
}

func submissionParam(c *fiber.Ctx) (string, error) {
	id := c.Params("submissionID")
	if !util.IsValidULID(id) {
		return "", domain.NewSubmissionNotFoundError(id)
	}
	return id, nil
}

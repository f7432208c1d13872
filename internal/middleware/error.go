package middleware

import (
	"errors"
	"net/http"
	"strings"

	"onlinecourse/internal/domain"
	"onlinecourse/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse represents validation error response
type ValidationErrorResponse struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Status  int                      `json:"status"`
	Errors  []domain.ValidationError `json:"errors"`
}

// APIPrefix marks routes that always answer errors with JSON.
const APIPrefix = "/admin/api"

// ErrorView is the template rendered for browser-facing errors.
const ErrorView = "error"

// ErrorHandler is a centralized error handler. API routes and callers that
// prefer JSON get an ErrorResponse; browsers get the error page.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.Get()
		var resp ErrorResponse
		var validationErrs domain.ValidationErrors

		var domainErr *domain.DomainError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &validationErrs):
			log.Warn("Validation errors occurred",
				zap.String("path", c.Path()),
				zap.Int("error_count", len(validationErrs)),
			)
			if wantsJSON(c) {
				return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
					Code:    string(domain.CodeValidation),
					Message: "Request validation failed",
					Status:  http.StatusBadRequest,
					Errors:  validationErrs,
				})
			}
			resp = ErrorResponse{Code: string(domain.CodeValidation), Message: validationErrs.Error(), Status: http.StatusBadRequest}

		case errors.As(err, &domainErr):
			status := mapDomainErrorToHTTPStatus(domainErr)
			fields := []zap.Field{
				zap.String("code", string(domainErr.Code)),
				zap.String("message", domainErr.Message),
				zap.Int("status", status),
				zap.Error(domainErr.Err),
			}
			if status >= http.StatusInternalServerError {
				log.Error("Domain error occurred", fields...)
			} else {
				log.Debug("Domain error occurred", fields...)
			}
			resp = ErrorResponse{Code: string(domainErr.Code), Message: domainErr.Message, Status: status}
			if status >= http.StatusInternalServerError {
				resp.Message = "Internal server error"
			} else if len(domainErr.Context) > 0 {
				resp.Details = domainErr.Context
			}

		case errors.As(err, &fiberErr):
			log.Warn("Fiber error occurred",
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
			)
			resp = ErrorResponse{Code: "HTTP_ERROR", Message: fiberErr.Message, Status: fiberErr.Code}

		default:
			log.Error("Unknown error occurred",
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			resp = ErrorResponse{Code: string(domain.CodeInternal), Message: "Internal server error", Status: http.StatusInternalServerError}
		}

		c.Status(resp.Status)
		if wantsJSON(c) {
			return c.JSON(resp)
		}
		if renderErr := c.Render(ErrorView, fiber.Map{
			"Title":    http.StatusText(resp.Status),
			"Status":   resp.Status,
			"Message":  resp.Message,
			"Identity": IdentityFrom(c),
		}, "layout"); renderErr != nil {
			log.Warn("Failed to render error page", zap.Error(renderErr))
			c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
			return c.Status(resp.Status).SendString(resp.Message)
		}
		return nil
	}
}

func wantsJSON(c *fiber.Ctx) bool {
	if strings.HasPrefix(c.Path(), APIPrefix) {
		return true
	}
	return c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}

// mapDomainErrorToHTTPStatus maps domain errors to HTTP status codes
func mapDomainErrorToHTTPStatus(err *domain.DomainError) int {
	switch err.Code {
	case domain.CodeNotFound, domain.CodeCourseNotFound, domain.CodeSubmissionNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidInput, domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeUnauthorized, domain.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case domain.CodeForbidden, domain.CodeNotEnrolled:
		return http.StatusForbidden
	case domain.CodeConflict, domain.CodeDuplicateUsername:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

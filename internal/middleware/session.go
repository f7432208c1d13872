package middleware

import (
	"context"
	"strings"

	"onlinecourse/internal/domain"
	"onlinecourse/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	IdentityKey         = "identity" // Key for storing the *domain.Identity in fiber.Ctx locals
)

// Authenticator resolves a session token to the identity that owns it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
}

// Session resolves the session cookie, or a Bearer token for API clients,
// into an identity stored in the request locals. Requests without a valid
// session continue anonymously and a stale cookie is cleared.
func Session(auth Authenticator, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, fromCookie := c.Cookies(cookieName), true
		if token == "" {
			if header := c.Get(AuthorizationHeader); strings.HasPrefix(header, BearerSchema) {
				token, fromCookie = strings.TrimSpace(strings.TrimPrefix(header, BearerSchema)), false
			}
		}
		if token == "" {
			return c.Next()
		}

		identity, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			logger.Get().Debug("Session rejected, proceeding as anonymous", zap.Error(err))
			if fromCookie {
				c.ClearCookie(cookieName)
			}
			return c.Next()
		}

		c.Locals(IdentityKey, identity)
		return c.Next()
	}
}

// IdentityFrom returns the identity resolved by Session, or nil for anonymous requests.
func IdentityFrom(c *fiber.Ctx) *domain.Identity {
	identity, _ := c.Locals(IdentityKey).(*domain.Identity)
	return identity
}

// SessionToken returns the raw token presented with the request.
func SessionToken(c *fiber.Ctx, cookieName string) string {
	if token := c.Cookies(cookieName); token != "" {
		return token
	}
	if header := c.Get(AuthorizationHeader); strings.HasPrefix(header, BearerSchema) {
		return strings.TrimSpace(strings.TrimPrefix(header, BearerSchema))
	}
	return ""
}

// RequireStaff rejects anonymous callers with 401 and non-staff accounts with 403.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := IdentityFrom(c)
		if !identity.Authenticated() {
			return domain.NewUnauthorizedError("authentication required")
		}
		if !identity.IsStaff {
			return domain.NewForbiddenError("staff access required")
		}
		return c.Next()
	}
}

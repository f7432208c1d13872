package handler

import (
	"errors"
	"time"

	"onlinecourse/internal/config"
	"onlinecourse/internal/domain"
	"onlinecourse/internal/dto"
	"onlinecourse/internal/logger"
	"onlinecourse/internal/middleware"
	"onlinecourse/internal/service"
	"onlinecourse/internal/views"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const msgUserExists = "Username already exists."

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	authService service.AuthService
	authConfig  config.AuthConfig
}

func NewAuthHandler(authService service.AuthService, authConfig config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		authConfig:  authConfig,
	}
}

// RegistrationPage godoc
// @Summary Registration form
// @Tags auth
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /registration/ [get]
func (h *AuthHandler) RegistrationPage(c *fiber.Ctx) error {
	return h.renderRegistration(c, dto.RegistrationForm{}, "", nil)
}

// Register godoc
// @Summary Create an account
// @Description Creates the account with a learner profile, signs it in and redirects to the course list.
// @Description A taken username redisplays the form with a message.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce html
// @Param username formData string true "Username"
// @Param firstname formData string false "First name"
// @Param lastname formData string false "Last name"
// @Param psw formData string true "Password"
// @Success 303 {string} string "Redirects to /"
// @Router /registration/ [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var form dto.RegistrationForm
	if err := c.BodyParser(&form); err != nil {
		return domain.NewInvalidInputError("malformed registration form")
	}

	_, token, err := h.authService.Register(c.UserContext(), form)
	if err != nil {
		var verrs domain.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			return h.renderRegistration(c.Status(fiber.StatusBadRequest), form, "", verrs.ByField())
		case domain.HasCode(err, domain.CodeDuplicateUsername):
			logger.Get().Info("Registration rejected, username taken", zap.String("username", form.Username))
			return h.renderRegistration(c, form, msgUserExists, nil)
		}
		return err
	}

	h.setSession(c, token)
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *AuthHandler) renderRegistration(c *fiber.Ctx, form dto.RegistrationForm, message string, errs map[string]string) error {
	if errs == nil {
		errs = map[string]string{}
	}
	form.Password = ""
	return render(c, views.Registration, "Sign Up", fiber.Map{"Form": form, "Message": message, "Errors": errs})
}

// LoginPage godoc
// @Summary Login form
// @Tags auth
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /login/ [get]
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return render(c, views.Login, "Login", fiber.Map{"Username": "", "Message": ""})
}

// Login godoc
// @Summary Sign in
// @Description Checks the credentials and sets the session cookie. Bad credentials redisplay the form.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce html
// @Param username formData string true "Username"
// @Param psw formData string true "Password"
// @Success 303 {string} string "Redirects to /"
// @Router /login/ [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var form dto.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return domain.NewInvalidInputError("malformed login form")
	}

	_, token, err := h.authService.Login(c.UserContext(), form)
	if err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) || domain.HasCode(err, domain.CodeInvalidCredentials) {
			return render(c, views.Login, "Login", fiber.Map{"Username": form.Username, "Message": "Invalid username or password."})
		}
		return err
	}

	h.setSession(c, token)
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Logout godoc
// @Summary Sign out
// @Description Revokes the session and redirects to the course list.
// @Tags auth
// @Success 303 {string} string "Redirects to /"
// @Router /logout/ [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token := middleware.SessionToken(c, h.authConfig.CookieName); token != "" {
		if err := h.authService.Logout(c.UserContext(), token); err != nil {
			logger.Get().Warn("Failed to revoke session on logout", zap.Error(err))
		}
	}
	c.ClearCookie(h.authConfig.CookieName)
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *AuthHandler) setSession(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.authConfig.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.authService.SessionTTL()),
		HTTPOnly: true,
		Secure:   h.authConfig.SecureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spockey4711/trainingbuilder/internal/middleware"
	"github.com/spockey4711/trainingbuilder/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginOrRegister handles POST /v1/auth/login.
// The Firebase ID token comes in the Authorization header.
func (h *AuthHandler) LoginOrRegister(c *fiber.Ctx) error {
	token := middleware.BearerToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "missing authorization header",
		})
	}

	resp, err := h.authService.LoginOrRegister(c.UserContext(), token)
	if err != nil {
		return respondError(c, err)
	}

	message := "Welcome back, " + resp.User.Name
	if resp.IsNewUser {
		message = "Welcome, " + resp.User.Name
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"token":       resp.Token.Token,
		"expires_in":  resp.Token.ExpiresIn,
		"is_new_user": resp.IsNewUser,
		"message":     message,
		"user":        resp.User,
	})
}

// Me handles GET /v1/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	user, err := h.authService.Me(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, user)
}

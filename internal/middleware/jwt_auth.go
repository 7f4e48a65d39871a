package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spockey4711/trainingbuilder/internal/domain"
)

// Context keys for storing athlete info
const (
	UserIDKey = "userID"
	EmailKey  = "email"
)

// VerifyToken validates the app JWT and stores the athlete identity in the context
func VerifyToken(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "missing authorization token",
			})
		}

		claims := &domain.AthleteClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid signing method")
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "invalid or expired token",
			})
		}
		if claims.UserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "invalid token claims",
			})
		}

		c.Locals(UserIDKey, claims.UserID)
		c.Locals(EmailKey, claims.Email)

		return c.Next()
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>"
func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", false
	}
	token := authHeader
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		token = authHeader[7:]
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// BearerToken exposes the raw bearer token, used by the login route for the
// Firebase ID token
func BearerToken(c *fiber.Ctx) string {
	token, _ := bearerToken(c)
	return token
}

// GetUserID extracts the athlete ID from Fiber context.
// Should only be called after VerifyToken.
func GetUserID(c *fiber.Ctx) string {
	userID, ok := c.Locals(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

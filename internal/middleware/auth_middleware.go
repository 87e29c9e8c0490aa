package middleware

import (
	"strings"

	"quizhub/internal/domain"
	"quizhub/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	AuthIDKey           = "authID" // identity provider subject of the verified token
	EmailKey            = "email"
)

// Protected requires a valid identity token and stores its subject and email in the context.
func Protected(verifier domain.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "MISSING_AUTH_HEADER",
				Message: "Authorization header is missing",
				Status:  fiber.StatusUnauthorized,
			})
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_AUTH_SCHEME",
				Message: "Authorization scheme is not Bearer",
				Status:  fiber.StatusUnauthorized,
			})
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "EMPTY_TOKEN",
				Message: "Token is empty",
				Status:  fiber.StatusUnauthorized,
			})
		}

		claims, err := verifier.Verify(c.UserContext(), tokenString)
		if err != nil {
			logger.Get().Debug("Identity token rejected", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN",
				Message: "Invalid or expired token",
				Status:  fiber.StatusUnauthorized,
			})
		}

		c.Locals(AuthIDKey, claims.AuthID)
		c.Locals(EmailKey, claims.Email)
		return c.Next()
	}
}

// AuthID returns the verified identity subject, or "" on unprotected routes.
func AuthID(c *fiber.Ctx) string {
	id, _ := c.Locals(AuthIDKey).(string)
	return id
}

// Email returns the verified token email, or "".
func Email(c *fiber.Ctx) string {
	email, _ := c.Locals(EmailKey).(string)
	return email
}

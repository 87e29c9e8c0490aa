package handler

import (
	"quizhub/internal/logger"
	"quizhub/internal/middleware"
	"quizhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userService service.UserService
}

func NewAuthHandler(userService service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// Session resolves the verified identity token to the caller's account.
// @Summary Start session
// @Description Verifies the identity token and returns the caller's profile. A 404 means the caller still has to sign up.
// @Tags auth
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} middleware.ErrorResponse "Invalid or missing token"
// @Failure 403 {object} middleware.ErrorResponse "Placeholder account"
// @Failure 404 {object} middleware.ErrorResponse "No account for this identity"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /auth/session [post]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	authID := middleware.AuthID(c)
	profile, err := h.userService.GetMe(c.UserContext(), authID)
	if err != nil {
		return err
	}
	logger.Get().Debug("Session resolved", zap.String("user_id", profile.ID))
	return c.JSON(profile)
}

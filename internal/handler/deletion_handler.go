package handler

import (
	"quizhub/internal/dto"
	"quizhub/internal/logger"
	"quizhub/internal/middleware"
	"quizhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DeletionHandler serves the account deletion lifecycle. Its routes skip the
// active-user gate so a pending account can still cancel or execute.
type DeletionHandler struct {
	deletionService service.DeletionService
}

func NewDeletionHandler(deletionService service.DeletionService) *DeletionHandler {
	return &DeletionHandler{deletionService: deletionService}
}

// Schedule starts the grace period for the caller's account.
// @Summary Schedule account deletion
// @Description Marks the account pending deletion. Quizzes are deleted or handed to the placeholder depending on mode.
// @Tags deletion
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.DeletionRequest true "delete_quizzes or preserve_quizzes"
// @Success 200 {object} dto.DeletionStatusResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid mode, placeholder, or already pending"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/me/deletion [post]
func (h *DeletionHandler) Schedule(c *fiber.Ctx) error {
	var req dto.DeletionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.deletionService.Schedule(c.UserContext(), middleware.AuthID(c), req.Mode)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDeletionStatusResponse(user))
}

// Cancel returns a pending account to active.
// @Summary Cancel account deletion
// @Tags deletion
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.DeletionStatusResponse
// @Failure 400 {object} middleware.ErrorResponse "Not pending deletion"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/me/deletion/cancel [post]
func (h *DeletionHandler) Cancel(c *fiber.Ctx) error {
	user, err := h.deletionService.Cancel(c.UserContext(), middleware.AuthID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDeletionStatusResponse(user))
}

// Execute deletes the caller's account now. The mode falls back to the
// scheduled one, then to delete_quizzes.
// @Summary Delete account now
// @Tags deletion
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.DeletionRequest false "Optional mode override"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid mode"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/me/deletion/execute [post]
func (h *DeletionHandler) Execute(c *fiber.Ctx) error {
	var req dto.DeletionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	authID := middleware.AuthID(c)
	if err := h.deletionService.Execute(c.UserContext(), authID, req.Mode); err != nil {
		return err
	}
	logger.Get().Info("Account deleted on request", zap.String("auth_id", authID))
	return c.JSON(dto.MessageResponse{Message: "Account deleted"})
}

// DeleteUser is the legacy immediate delete addressed by user id.
// @Summary Delete user (legacy)
// @Tags deletion
// @Security ApiKeyAuth
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} middleware.ErrorResponse "Not your account"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/{userId} [delete]
func (h *DeletionHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.deletionService.ExecuteUser(c.UserContext(), c.Params("userId"), ""); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "User deleted"})
}

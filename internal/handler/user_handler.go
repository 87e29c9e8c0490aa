package handler

import (
	"quizhub/internal/dto"
	"quizhub/internal/middleware"
	"quizhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// SignUp creates the caller's account.
// @Summary Sign up
// @Description Creates an account for the verified identity. The email is taken from the token.
// @Tags users
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.SignUpRequest true "Username"
// @Success 201 {object} dto.SignUpResponse
// @Failure 400 {object} middleware.ValidationErrorResponse "Missing or malformed username"
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 409 {object} middleware.ErrorResponse "Account exists or username taken"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /users [post]
func (h *UserHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.userService.SignUp(c.UserContext(), middleware.AuthID(c), middleware.Email(c), req.Username)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SignUpResponse{
		Message: "User created",
		User:    dto.NewUserResponse(user, nil),
	})
}

// CheckAvailability reports whether a username can still be claimed.
// @Summary Username availability
// @Tags users
// @Produce json
// @Param username query string true "Username to check"
// @Success 200 {object} dto.AvailabilityResponse
// @Failure 400 {object} middleware.ValidationErrorResponse "Missing username"
// @Router /users/availability [get]
func (h *UserHandler) CheckAvailability(c *fiber.Ctx) error {
	available, err := h.userService.CheckAvailability(c.UserContext(), c.Query("username"))
	if err != nil {
		return err
	}
	return c.JSON(dto.AvailabilityResponse{Available: available})
}

// Search finds users whose username contains q.
// @Summary Search users
// @Description Case-insensitive substring search. Queries shorter than two characters return no users.
// @Tags users
// @Produce json
// @Param q query string true "Search text"
// @Success 200 {object} dto.SearchUsersResponse
// @Router /users/search [get]
func (h *UserHandler) Search(c *fiber.Ctx) error {
	users, err := h.userService.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(dto.SearchUsersResponse{Users: dto.NewUserSummaries(users)})
}

// GetMe returns the caller's own profile, including a pending deletion.
// @Summary Get my profile
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	profile, err := h.userService.GetMe(c.UserContext(), middleware.AuthID(c))
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// GetPublicProfile returns what anyone may see about a user.
// @Summary Get public profile
// @Tags users
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} dto.PublicProfileResponse
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/{userId} [get]
func (h *UserHandler) GetPublicProfile(c *fiber.Ctx) error {
	profile, err := h.userService.GetPublicProfile(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// GetUserIDByUsername resolves a username to a user id.
// @Summary Resolve username
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} dto.UserIDResponse
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/username/{username} [get]
func (h *UserHandler) GetUserIDByUsername(c *fiber.Ctx) error {
	userID, err := h.userService.GetUserIDByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return err
	}
	return c.JSON(dto.UserIDResponse{UserID: userID})
}

// UpdateProfile edits the caller's username, picture or theme.
// @Summary Update profile
// @Tags users
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param request body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.UpdateProfileResponse
// @Failure 400 {object} middleware.ValidationErrorResponse "Invalid field"
// @Failure 403 {object} middleware.ErrorResponse "Not your profile"
// @Failure 409 {object} middleware.ErrorResponse "Username taken"
// @Failure 423 {object} middleware.AccountLockedResponse "Account pending deletion"
// @Router /users/{userId} [patch]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	caller := middleware.CurrentUser(c)
	user, err := h.userService.UpdateProfile(c.UserContext(), caller.ID, c.Params("userId"), req)
	if err != nil {
		return err
	}
	return c.JSON(dto.UpdateProfileResponse{User: dto.NewUserResponse(user, nil)})
}

// AddFavourite adds a quiz to the caller's favourites.
// @Summary Favourite a quiz
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Param quizId path string true "Quiz ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Failure 423 {object} middleware.AccountLockedResponse "Account pending deletion"
// @Router /users/me/favourites/{quizId} [post]
func (h *UserHandler) AddFavourite(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)
	if err := h.userService.AddFavourite(c.UserContext(), caller.ID, c.Params("quizId")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Quiz added to favourites"})
}

// RemoveFavourite removes a quiz from the caller's favourites.
// @Summary Unfavourite a quiz
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Param quizId path string true "Quiz ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Failure 423 {object} middleware.AccountLockedResponse "Account pending deletion"
// @Router /users/me/favourites/{quizId} [delete]
func (h *UserHandler) RemoveFavourite(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)
	if err := h.userService.RemoveFavourite(c.UserContext(), caller.ID, c.Params("quizId")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Quiz removed from favourites"})
}

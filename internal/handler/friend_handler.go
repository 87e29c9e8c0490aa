package handler

import (
	"quizhub/internal/domain"
	"quizhub/internal/dto"
	"quizhub/internal/middleware"
	"quizhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type FriendHandler struct {
	friendshipService service.FriendshipService
}

func NewFriendHandler(friendshipService service.FriendshipService) *FriendHandler {
	return &FriendHandler{friendshipService: friendshipService}
}

func friendshipResponse(f *domain.Friendship, callerID string) dto.FriendshipResponse {
	return dto.FriendshipResponse{ID: f.ID, UserID: f.Other(callerID), Accepted: f.Accepted}
}

// ListFriends returns accepted friends and pending requests.
// @Summary List friends
// @Tags friends
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.FriendsResponse
// @Router /users/me/friends [get]
func (h *FriendHandler) ListFriends(c *fiber.Ctx) error {
	friends, err := h.friendshipService.ListFriends(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(friends)
}

// RequestFriend sends a friend request, accepting a reverse request if one exists.
// @Summary Send friend request
// @Tags friends
// @Security ApiKeyAuth
// @Produce json
// @Param userId path string true "Target user ID"
// @Success 201 {object} dto.FriendshipResponse
// @Failure 400 {object} middleware.ErrorResponse "Self or placeholder target"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Failure 409 {object} middleware.ErrorResponse "Request already exists"
// @Router /friends/{userId} [post]
func (h *FriendHandler) RequestFriend(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)
	f, err := h.friendshipService.RequestFriend(c.UserContext(), caller.ID, c.Params("userId"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(friendshipResponse(f, caller.ID))
}

// AcceptFriend accepts a request sent by userId.
// @Summary Accept friend request
// @Tags friends
// @Security ApiKeyAuth
// @Produce json
// @Param userId path string true "Requester user ID"
// @Success 200 {object} dto.FriendshipResponse
// @Failure 400 {object} middleware.ErrorResponse "Not an incoming request"
// @Failure 404 {object} middleware.ErrorResponse "Request not found"
// @Router /friends/{userId}/accept [post]
func (h *FriendHandler) AcceptFriend(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)
	f, err := h.friendshipService.AcceptFriend(c.UserContext(), caller.ID, c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(friendshipResponse(f, caller.ID))
}

// RemoveFriend unfriends, withdraws a request, or declines one.
// @Summary Remove friend
// @Tags friends
// @Security ApiKeyAuth
// @Produce json
// @Param userId path string true "Other user ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse "Friendship not found"
// @Router /friends/{userId} [delete]
func (h *FriendHandler) RemoveFriend(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)
	if err := h.friendshipService.RemoveFriend(c.UserContext(), caller.ID, c.Params("userId")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Friendship removed"})
}

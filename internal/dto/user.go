package dto

import (
	"time"

	"quizhub/internal/domain"
)

// MessageResponse represents a generic message response.
// @Description Generic message response
type MessageResponse struct {
	Message string `json:"message"`
}

// SignUpRequest is the body of POST /api/users. The email comes from the identity token.
// @Description Request body for creating the caller's account
type SignUpRequest struct {
	Username string `json:"username"`
}

// SignUpResponse is returned after a successful signup.
type SignUpResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// DeletionResponse describes a scheduled deletion.
type DeletionResponse struct {
	RequestedAt  time.Time `json:"requested_at"`
	ScheduledFor time.Time `json:"scheduled_for"`
	Mode         string    `json:"mode"`
}

// UserResponse is the caller's own profile.
// @Description Full profile of the authenticated user
type UserResponse struct {
	ID         string                `json:"id"`
	AuthID     string                `json:"auth_id"`
	Username   string                `json:"username"`
	Email      string                `json:"email"`
	ProfilePic string                `json:"profile_pic"`
	Theme      string                `json:"theme"`
	Status     string                `json:"status"`
	Deletion   *DeletionResponse     `json:"deletion,omitempty"`
	Favourites []QuizSummaryResponse `json:"favourites"`
	CreatedAt  time.Time             `json:"created_at"`
}

// PublicProfileResponse is what anyone may see about a user.
type PublicProfileResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	ProfilePic string    `json:"profile_pic"`
	Theme      string    `json:"theme"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserSummary is the compact form used by search and friend lists.
type UserSummary struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	ProfilePic string `json:"profile_pic"`
}

type SearchUsersResponse struct {
	Users []UserSummary `json:"users"`
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}

type UserIDResponse struct {
	UserID string `json:"userId"`
}

// UpdateProfileRequest carries optional profile changes.
// @Description Request body for editing a profile; omitted fields are unchanged
type UpdateProfileRequest struct {
	Username   *string `json:"username"`
	ProfilePic *string `json:"profile_pic"`
	Theme      *string `json:"theme"`
}

type UpdateProfileResponse struct {
	User UserResponse `json:"user"`
}

// DeletionRequest is the body of the schedule and execute endpoints.
// @Description Deletion mode: delete_quizzes or preserve_quizzes
type DeletionRequest struct {
	Mode string `json:"mode"`
}

// DeletionStatusResponse reports the lifecycle after schedule or cancel.
type DeletionStatusResponse struct {
	Status   string            `json:"status"`
	Deletion *DeletionResponse `json:"deletion,omitempty"`
}

// AccountLockedResponse is returned with 423 for mutating requests by a pending account.
type AccountLockedResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// HealthResponse reports dependency status.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// NewDeletionResponse returns nil unless the user is pending deletion.
func NewDeletionResponse(u *domain.User) *DeletionResponse {
	pending, ok := u.PendingDeletion()
	if !ok {
		return nil
	}
	return &DeletionResponse{
		RequestedAt:  pending.RequestedAt,
		ScheduledFor: pending.ScheduledFor,
		Mode:         string(pending.Mode),
	}
}

// NewUserResponse maps the caller's profile. favourites may be nil.
func NewUserResponse(u *domain.User, favourites []domain.QuizSummary) UserResponse {
	return UserResponse{
		ID:         u.ID,
		AuthID:     u.AuthID,
		Username:   u.Username,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
		Theme:      u.Theme,
		Status:     string(u.Status()),
		Deletion:   NewDeletionResponse(u),
		Favourites: NewQuizSummaryResponses(favourites),
		CreatedAt:  u.CreatedAt,
	}
}

func NewPublicProfileResponse(u *domain.User) PublicProfileResponse {
	return PublicProfileResponse{
		ID:         u.ID,
		Username:   u.Username,
		ProfilePic: u.ProfilePic,
		Theme:      u.Theme,
		Status:     string(u.Status()),
		CreatedAt:  u.CreatedAt,
	}
}

func NewUserSummaries(users []*domain.User) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, UserSummary{ID: u.ID, Username: u.Username, ProfilePic: u.ProfilePic})
	}
	return out
}

func NewDeletionStatusResponse(u *domain.User) DeletionStatusResponse {
	return DeletionStatusResponse{
		Status:   string(u.Status()),
		Deletion: NewDeletionResponse(u),
	}
}

package handler_test

import (
	"context"
	"errors"
	"time"

	"quizhub/internal/domain"
	"quizhub/internal/dto"
)

// --- Manual Mocks ---

type MockVerifier struct{}

// Verify accepts "Bearer <authID>" so tests pick the caller by token.
func (MockVerifier) Verify(ctx context.Context, token string) (*domain.IdentityClaims, error) {
	if token == "invalid" {
		return nil, domain.NewUnauthorizedError("Invalid identity token", errors.New("bad signature"))
	}
	return &domain.IdentityClaims{AuthID: token, Email: token + "@example.com"}, nil
}

// MockUserService
type MockUserService struct {
	SignUpFunc              func(ctx context.Context, authID, email, username string) (*domain.User, error)
	GetSessionUserFunc      func(ctx context.Context, authID string) (*domain.User, error)
	CheckAvailabilityFunc   func(ctx context.Context, username string) (bool, error)
	SearchFunc              func(ctx context.Context, query string) ([]*domain.User, error)
	GetMeFunc               func(ctx context.Context, authID string) (*dto.UserResponse, error)
	GetPublicProfileFunc    func(ctx context.Context, userID string) (*dto.PublicProfileResponse, error)
	GetUserIDByUsernameFunc func(ctx context.Context, username string) (string, error)
	UpdateProfileFunc       func(ctx context.Context, callerID, targetID string, req dto.UpdateProfileRequest) (*domain.User, error)
	AddFavouriteFunc        func(ctx context.Context, userID, quizID string) error
	RemoveFavouriteFunc     func(ctx context.Context, userID, quizID string) error
}

func (m *MockUserService) SignUp(ctx context.Context, authID, email, username string) (*domain.User, error) {
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, authID, email, username)
	}
	panic("MockUserService.SignUpFunc not implemented")
}
func (m *MockUserService) GetSessionUser(ctx context.Context, authID string) (*domain.User, error) {
	if m.GetSessionUserFunc != nil {
		return m.GetSessionUserFunc(ctx, authID)
	}
	panic("MockUserService.GetSessionUserFunc not implemented")
}
func (m *MockUserService) CheckAvailability(ctx context.Context, username string) (bool, error) {
	if m.CheckAvailabilityFunc != nil {
		return m.CheckAvailabilityFunc(ctx, username)
	}
	panic("MockUserService.CheckAvailabilityFunc not implemented")
}
func (m *MockUserService) Search(ctx context.Context, query string) ([]*domain.User, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	panic("MockUserService.SearchFunc not implemented")
}
func (m *MockUserService) GetMe(ctx context.Context, authID string) (*dto.UserResponse, error) {
	if m.GetMeFunc != nil {
		return m.GetMeFunc(ctx, authID)
	}
	panic("MockUserService.GetMeFunc not implemented")
}
func (m *MockUserService) GetPublicProfile(ctx context.Context, userID string) (*dto.PublicProfileResponse, error) {
	if m.GetPublicProfileFunc != nil {
		return m.GetPublicProfileFunc(ctx, userID)
	}
	panic("MockUserService.GetPublicProfileFunc not implemented")
}
func (m *MockUserService) GetUserIDByUsername(ctx context.Context, username string) (string, error) {
	if m.GetUserIDByUsernameFunc != nil {
		return m.GetUserIDByUsernameFunc(ctx, username)
	}
	panic("MockUserService.GetUserIDByUsernameFunc not implemented")
}
func (m *MockUserService) UpdateProfile(ctx context.Context, callerID, targetID string, req dto.UpdateProfileRequest) (*domain.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, callerID, targetID, req)
	}
	panic("MockUserService.UpdateProfileFunc not implemented")
}
func (m *MockUserService) AddFavourite(ctx context.Context, userID, quizID string) error {
	if m.AddFavouriteFunc != nil {
		return m.AddFavouriteFunc(ctx, userID, quizID)
	}
	panic("MockUserService.AddFavouriteFunc not implemented")
}
func (m *MockUserService) RemoveFavourite(ctx context.Context, userID, quizID string) error {
	if m.RemoveFavouriteFunc != nil {
		return m.RemoveFavouriteFunc(ctx, userID, quizID)
	}
	panic("MockUserService.RemoveFavouriteFunc not implemented")
}

// MockDeletionService
type MockDeletionService struct {
	ScheduleFunc    func(ctx context.Context, authID, mode string) (*domain.User, error)
	CancelFunc      func(ctx context.Context, authID string) (*domain.User, error)
	ExecuteFunc     func(ctx context.Context, authID, modeOverride string) error
	ExecuteUserFunc func(ctx context.Context, userID, modeOverride string) error
	ExecuteDueFunc  func(ctx context.Context, userID string, now time.Time) (bool, error)
}

func (m *MockDeletionService) Schedule(ctx context.Context, authID, mode string) (*domain.User, error) {
	if m.ScheduleFunc != nil {
		return m.ScheduleFunc(ctx, authID, mode)
	}
	panic("MockDeletionService.ScheduleFunc not implemented")
}
func (m *MockDeletionService) Cancel(ctx context.Context, authID string) (*domain.User, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, authID)
	}
	panic("MockDeletionService.CancelFunc not implemented")
}
func (m *MockDeletionService) Execute(ctx context.Context, authID, modeOverride string) error {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, authID, modeOverride)
	}
	panic("MockDeletionService.ExecuteFunc not implemented")
}
func (m *MockDeletionService) ExecuteUser(ctx context.Context, userID, modeOverride string) error {
	if m.ExecuteUserFunc != nil {
		return m.ExecuteUserFunc(ctx, userID, modeOverride)
	}
	panic("MockDeletionService.ExecuteUserFunc not implemented")
}
func (m *MockDeletionService) ExecuteDue(ctx context.Context, userID string, now time.Time) (bool, error) {
	if m.ExecuteDueFunc != nil {
		return m.ExecuteDueFunc(ctx, userID, now)
	}
	panic("MockDeletionService.ExecuteDueFunc not implemented")
}

// MockQuizService
type MockQuizService struct {
	CreateQuizFunc     func(ctx context.Context, ownerID string, req dto.CreateQuizRequest) (*domain.Quiz, error)
	ListQuizzesFunc    func(ctx context.Context, category string) ([]domain.QuizSummary, error)
	GetQuizFunc        func(ctx context.Context, quizID string) (*domain.Quiz, error)
	DeleteQuizFunc     func(ctx context.Context, callerID, quizID string) error
	SubmitQuizFunc     func(ctx context.Context, user *domain.User, quizID string, req dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error)
	GetLeaderboardFunc func(ctx context.Context, quizID string) (*dto.LeaderboardResponse, error)
}

func (m *MockQuizService) CreateQuiz(ctx context.Context, ownerID string, req dto.CreateQuizRequest) (*domain.Quiz, error) {
	if m.CreateQuizFunc != nil {
		return m.CreateQuizFunc(ctx, ownerID, req)
	}
	panic("MockQuizService.CreateQuizFunc not implemented")
}
func (m *MockQuizService) ListQuizzes(ctx context.Context, category string) ([]domain.QuizSummary, error) {
	if m.ListQuizzesFunc != nil {
		return m.ListQuizzesFunc(ctx, category)
	}
	panic("MockQuizService.ListQuizzesFunc not implemented")
}
func (m *MockQuizService) GetQuiz(ctx context.Context, quizID string) (*domain.Quiz, error) {
	if m.GetQuizFunc != nil {
		return m.GetQuizFunc(ctx, quizID)
	}
	panic("MockQuizService.GetQuizFunc not implemented")
}
func (m *MockQuizService) DeleteQuiz(ctx context.Context, callerID, quizID string) error {
	if m.DeleteQuizFunc != nil {
		return m.DeleteQuizFunc(ctx, callerID, quizID)
	}
	panic("MockQuizService.DeleteQuizFunc not implemented")
}
func (m *MockQuizService) SubmitQuiz(ctx context.Context, user *domain.User, quizID string, req dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error) {
	if m.SubmitQuizFunc != nil {
		return m.SubmitQuizFunc(ctx, user, quizID, req)
	}
	panic("MockQuizService.SubmitQuizFunc not implemented")
}
func (m *MockQuizService) GetLeaderboard(ctx context.Context, quizID string) (*dto.LeaderboardResponse, error) {
	if m.GetLeaderboardFunc != nil {
		return m.GetLeaderboardFunc(ctx, quizID)
	}
	panic("MockQuizService.GetLeaderboardFunc not implemented")
}

// MockFriendshipService
type MockFriendshipService struct {
	RequestFriendFunc func(ctx context.Context, userID, targetID string) (*domain.Friendship, error)
	AcceptFriendFunc  func(ctx context.Context, userID, requesterID string) (*domain.Friendship, error)
	RemoveFriendFunc  func(ctx context.Context, userID, otherID string) error
	ListFriendsFunc   func(ctx context.Context, userID string) (*dto.FriendsResponse, error)
}

func (m *MockFriendshipService) RequestFriend(ctx context.Context, userID, targetID string) (*domain.Friendship, error) {
	if m.RequestFriendFunc != nil {
		return m.RequestFriendFunc(ctx, userID, targetID)
	}
	panic("MockFriendshipService.RequestFriendFunc not implemented")
}
func (m *MockFriendshipService) AcceptFriend(ctx context.Context, userID, requesterID string) (*domain.Friendship, error) {
	if m.AcceptFriendFunc != nil {
		return m.AcceptFriendFunc(ctx, userID, requesterID)
	}
	panic("MockFriendshipService.AcceptFriendFunc not implemented")
}
func (m *MockFriendshipService) RemoveFriend(ctx context.Context, userID, otherID string) error {
	if m.RemoveFriendFunc != nil {
		return m.RemoveFriendFunc(ctx, userID, otherID)
	}
	panic("MockFriendshipService.RemoveFriendFunc not implemented")
}
func (m *MockFriendshipService) ListFriends(ctx context.Context, userID string) (*dto.FriendsResponse, error) {
	if m.ListFriendsFunc != nil {
		return m.ListFriendsFunc(ctx, userID)
	}
	panic("MockFriendshipService.ListFriendsFunc not implemented")
}

// MockPinger
type MockPinger struct {
	Err error
}

func (m MockPinger) PingContext(ctx context.Context) error { return m.Err }

// MockCache only answers Ping; the handlers never read through it.
type MockCache struct {
	PingErr error
}

func (m MockCache) Get(ctx context.Context, key string) (string, error) { return "", domain.ErrCacheMiss }
func (m MockCache) Set(ctx context.Context, key, value string, _ time.Duration) error {
	return nil
}
func (m MockCache) Delete(ctx context.Context, keys ...string) error { return nil }
func (m MockCache) Ping(ctx context.Context) error { return m.PingErr }

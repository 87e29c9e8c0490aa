package service

import (
	"context"
	"time"

	"quizhub/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockUserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) userResult(args mock.Arguments) (*domain.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, userID))
}

func (m *MockUserRepository) GetUserByAuthID(ctx context.Context, authID string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, authID))
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, username))
}

func (m *MockUserRepository) LockUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, userID))
}

func (m *MockUserRepository) UsernameTaken(ctx context.Context, username string, excludeUserID string) (bool, error) {
	args := m.Called(ctx, username, excludeUserID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) SearchUsers(ctx context.Context, query string, limit int) ([]*domain.User, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, userID string, update domain.UserProfileUpdate) (*domain.User, error) {
	return m.userResult(m.Called(ctx, userID, update))
}

func (m *MockUserRepository) ScheduleDeletion(ctx context.Context, userID string, pending domain.PendingDeletion) (bool, error) {
	args := m.Called(ctx, userID, pending)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) CancelDeletion(ctx context.Context, authID string) (bool, error) {
	args := m.Called(ctx, authID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ListDueDeletions(ctx context.Context, now time.Time) ([]*domain.User, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserRepository) EnsurePlaceholder(ctx context.Context) (*domain.User, error) {
	return m.userResult(m.Called(ctx))
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) AddFavourite(ctx context.Context, userID, quizID string) error {
	return m.Called(ctx, userID, quizID).Error(0)
}

func (m *MockUserRepository) RemoveFavourite(ctx context.Context, userID, quizID string) error {
	return m.Called(ctx, userID, quizID).Error(0)
}

func (m *MockUserRepository) RemoveQuizzesFromAllFavourites(ctx context.Context, quizIDs []string) error {
	return m.Called(ctx, quizIDs).Error(0)
}

// --- MockQuizRepository ---
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	return m.Called(ctx, quiz).Error(0)
}

func (m *MockQuizRepository) GetQuizByID(ctx context.Context, quizID string) (*domain.Quiz, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) QuizExists(ctx context.Context, quizID string) (bool, error) {
	args := m.Called(ctx, quizID)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuizRepository) ListQuizzes(ctx context.Context, category string) ([]domain.QuizSummary, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuizSummary), args.Error(1)
}

func (m *MockQuizRepository) GetQuizSummaries(ctx context.Context, quizIDs []string) ([]domain.QuizSummary, error) {
	args := m.Called(ctx, quizIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuizSummary), args.Error(1)
}

func (m *MockQuizRepository) DeleteQuiz(ctx context.Context, quizID string) (bool, error) {
	args := m.Called(ctx, quizID)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuizRepository) AddAttempt(ctx context.Context, attempt *domain.Attempt) error {
	return m.Called(ctx, attempt).Error(0)
}

func (m *MockQuizRepository) ListQuizIDsByOwner(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockQuizRepository) ReassignOwner(ctx context.Context, fromUserID, toUserID string) (int64, error) {
	args := m.Called(ctx, fromUserID, toUserID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuizRepository) DeleteQuizzesByOwner(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuizRepository) RemoveAttemptsByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// passthroughTx runs fn without a transaction.
type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

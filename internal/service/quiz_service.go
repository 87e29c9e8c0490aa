package service

import (
	"context"
	"fmt"
	"time"

	"quizhub/internal/domain"
	"quizhub/internal/dto"
	"quizhub/internal/logger"
	"quizhub/internal/util"
	"quizhub/internal/validation"

	"go.uber.org/zap"
)

// LeaderboardSize is the number of entries returned by GetLeaderboard.
const LeaderboardSize = 10

// QuizService defines the interface for quiz-related operations.
type QuizService interface {
	CreateQuiz(ctx context.Context, ownerID string, req dto.CreateQuizRequest) (*domain.Quiz, error)
	ListQuizzes(ctx context.Context, category string) ([]domain.QuizSummary, error)
	GetQuiz(ctx context.Context, quizID string) (*domain.Quiz, error)
	// DeleteQuiz removes a quiz owned by callerID and pulls it from every favourites set.
	DeleteQuiz(ctx context.Context, callerID, quizID string) error
	SubmitQuiz(ctx context.Context, user *domain.User, quizID string, req dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error)
	GetLeaderboard(ctx context.Context, quizID string) (*dto.LeaderboardResponse, error)
}

type quizServiceImpl struct {
	tx        domain.TransactionManager
	quizzes   domain.QuizRepository
	users     domain.UserRepository
	validator *validation.Validator
}

// NewQuizService creates a new QuizService.
func NewQuizService(tx domain.TransactionManager, quizzes domain.QuizRepository, users domain.UserRepository, validator *validation.Validator) QuizService {
	return &quizServiceImpl{
		tx:        tx,
		quizzes:   quizzes,
		users:     users,
		validator: validator,
	}
}

func (s *quizServiceImpl) CreateQuiz(ctx context.Context, ownerID string, req dto.CreateQuizRequest) (*domain.Quiz, error) {
	quiz := req.ToDomainQuiz(util.NewULID, ownerID)
	if verrs := s.validator.SanitizeQuiz(quiz); len(verrs) > 0 {
		return nil, verrs
	}
	if err := quiz.Validate(); err != nil {
		return nil, err
	}
	quiz.CreatedAt = time.Now().UTC()
	if err := s.quizzes.CreateQuiz(ctx, quiz); err != nil {
		return nil, err
	}
	logger.Get().Info("Quiz created",
		zap.String("quiz_id", quiz.ID),
		zap.String("created_by", ownerID),
		zap.Int("questions", len(quiz.Questions)))
	return quiz, nil
}

func (s *quizServiceImpl) ListQuizzes(ctx context.Context, category string) ([]domain.QuizSummary, error) {
	if category != "" && !domain.IsValidCategory(category) {
		return nil, domain.NewInvalidInputError("Unknown quiz category").WithContext("category", category)
	}
	return s.quizzes.ListQuizzes(ctx, category)
}

func (s *quizServiceImpl) GetQuiz(ctx context.Context, quizID string) (*domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}
	return quiz, nil
}

func (s *quizServiceImpl) DeleteQuiz(ctx context.Context, callerID, quizID string) error {
	quiz, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	if quiz.CreatedBy != callerID {
		return domain.NewForbiddenError("Only the quiz owner can delete it")
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.RemoveQuizzesFromAllFavourites(ctx, []string{quizID}); err != nil {
			return err
		}
		ok, err := s.quizzes.DeleteQuiz(ctx, quizID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewQuizNotFoundError(quizID)
		}
		return nil
	})
}

func (s *quizServiceImpl) SubmitQuiz(ctx context.Context, user *domain.User, quizID string, req dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error) {
	quiz, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(req.Answers) > len(quiz.Questions) {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("Quiz has %d questions, got %d answers", len(quiz.Questions), len(req.Answers)))
	}

	correct := quiz.Score(req.Answers)
	attempt := &domain.Attempt{
		ID:           util.NewULID(),
		QuizID:       quiz.ID,
		UserID:       user.ID,
		Username:     user.Username,
		CorrectCount: correct,
		AttemptedAt:  time.Now().UTC(),
	}
	if err := s.quizzes.AddAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	resp := dto.NewSubmitQuizResponse(correct, len(quiz.Questions), quiz.Passed(correct))
	return &resp, nil
}

func (s *quizServiceImpl) GetLeaderboard(ctx context.Context, quizID string) (*dto.LeaderboardResponse, error) {
	quiz, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewLeaderboardResponse(quiz.ID, quiz.Leaderboard(LeaderboardSize))
	return &resp, nil
}

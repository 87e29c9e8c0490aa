package handler

import (
	"quizhub/internal/dto"
	"quizhub/internal/logger"
	"quizhub/internal/middleware"
	"quizhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type QuizHandler struct {
	quizService service.QuizService
}

func NewQuizHandler(quizService service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// ListQuizzes returns quiz summaries, newest first.
// @Summary List quizzes
// @Tags quiz
// @Produce json
// @Param category query string false "art, science, history, music or other"
// @Success 200 {object} dto.QuizListResponse
// @Failure 400 {object} middleware.ErrorResponse "Unknown category"
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	summaries, err := h.quizService.ListQuizzes(c.UserContext(), c.Query("category"))
	if err != nil {
		return err
	}
	return c.JSON(dto.QuizListResponse{Quizzes: dto.NewQuizSummaryResponses(summaries)})
}

// GetQuiz returns a quiz without its correct answers.
// @Summary Get quiz
// @Tags quiz
// @Produce json
// @Param quizId path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Router /quizzes/{quizId} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quiz, err := h.quizService.GetQuiz(c.UserContext(), c.Params("quizId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(quiz))
}

// CreateQuiz stores a new quiz owned by the caller.
// @Summary Create quiz
// @Tags quiz
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateQuizRequest true "Quiz"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse "Invalid quiz"
// @Failure 423 {object} middleware.AccountLockedResponse "Account pending deletion"
// @Router /quizzes [post]
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	caller := middleware.CurrentUser(c)
	quiz, err := h.quizService.CreateQuiz(c.UserContext(), caller.ID, req)
	if err != nil {
		return err
	}
	logger.Get().Info("Quiz created", zap.String("quiz_id", quiz.ID), zap.String("owner", caller.ID))
	return c.Status(fiber.StatusCreated).JSON(dto.NewQuizResponse(quiz))
}

// DeleteQuiz removes one of the caller's quizzes.
// @Summary Delete quiz
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Param quizId path string true "Quiz ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} middleware.ErrorResponse "Not the owner"
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Failure 423 {object} middleware.AccountLockedResponse "Account pending deletion"
// @Router /quizzes/{quizId} [delete]
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)
	if err := h.quizService.DeleteQuiz(c.UserContext(), caller.ID, c.Params("quizId")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Quiz deleted"})
}

// SubmitQuiz scores one attempt and appends it to the quiz.
// @Summary Submit quiz
// @Tags quiz
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param quizId path string true "Quiz ID"
// @Param request body dto.SubmitQuizRequest true "Selected answer ids per question"
// @Success 200 {object} dto.SubmitQuizResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid submission"
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Failure 423 {object} middleware.AccountLockedResponse "Account pending deletion"
// @Router /quizzes/{quizId}/submit [post]
func (h *QuizHandler) SubmitQuiz(c *fiber.Ctx) error {
	var req dto.SubmitQuizRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := h.quizService.SubmitQuiz(c.UserContext(), middleware.CurrentUser(c), c.Params("quizId"), req)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GetLeaderboard returns the best score per user.
// @Summary Quiz leaderboard
// @Tags quiz
// @Produce json
// @Param quizId path string true "Quiz ID"
// @Success 200 {object} dto.LeaderboardResponse
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Router /quizzes/{quizId}/leaderboard [get]
func (h *QuizHandler) GetLeaderboard(c *fiber.Ctx) error {
	board, err := h.quizService.GetLeaderboard(c.UserContext(), c.Params("quizId"))
	if err != nil {
		return err
	}
	return c.JSON(board)
}

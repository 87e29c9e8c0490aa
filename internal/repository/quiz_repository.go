package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quizhub/internal/domain"
	"quizhub/internal/repository/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const quizSummaryColumns = `id, title, category, created_by, jsonb_array_length(questions) AS question_count, created_at`

// QuizDatabaseAdapter implements domain.QuizRepository on PostgreSQL.
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new quiz repository.
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	if m == nil {
		return nil
	}
	questions := make([]domain.Question, 0, len(m.Questions))
	for _, q := range m.Questions {
		answers := make([]domain.Answer, 0, len(q.Answers))
		for _, a := range q.Answers {
			answers = append(answers, domain.Answer{ID: a.ID, Text: a.Text, IsCorrect: a.IsCorrect})
		}
		questions = append(questions, domain.Question{ID: q.ID, Text: q.Text, Answers: answers})
	}
	return &domain.Quiz{
		ID:                   m.ID,
		Title:                m.Title,
		Category:             m.Category,
		CreatedBy:            m.CreatedBy,
		Questions:            questions,
		AllowMultipleCorrect: m.AllowMultipleCorrect,
		ReqToPass:            m.ReqToPass,
		Attempts:             []domain.Attempt{},
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func toModelQuiz(d *domain.Quiz) *models.Quiz {
	if d == nil {
		return nil
	}
	questions := make(models.QuestionList, 0, len(d.Questions))
	for _, q := range d.Questions {
		answers := make([]models.Answer, 0, len(q.Answers))
		for _, a := range q.Answers {
			answers = append(answers, models.Answer{ID: a.ID, Text: a.Text, IsCorrect: a.IsCorrect})
		}
		questions = append(questions, models.Question{ID: q.ID, Text: q.Text, Answers: answers})
	}
	return &models.Quiz{
		ID:                   d.ID,
		Title:                d.Title,
		Category:             d.Category,
		CreatedBy:            d.CreatedBy,
		Questions:            questions,
		AllowMultipleCorrect: d.AllowMultipleCorrect,
		ReqToPass:            d.ReqToPass,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
}

func toDomainSummaries(rows []models.QuizSummary) []domain.QuizSummary {
	out := make([]domain.QuizSummary, 0, len(rows))
	for _, s := range rows {
		out = append(out, domain.QuizSummary{
			ID:            s.ID,
			Title:         s.Title,
			Category:      s.Category,
			CreatedBy:     s.CreatedBy,
			QuestionCount: s.QuestionCount,
			CreatedAt:     s.CreatedAt,
		})
	}
	return out
}

func (a *QuizDatabaseAdapter) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	query := `INSERT INTO quizzes (id, title, category, created_by, questions, allow_multiple_correct, req_to_pass, created_at, updated_at)
	          VALUES (:id, :title, :category, :created_by, :questions, :allow_multiple_correct, :req_to_pass, :created_at, :updated_at)`

	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = time.Now()
	}
	quiz.UpdatedAt = quiz.CreatedAt

	if _, err := GetExecutor(ctx, a.db).NamedExecContext(ctx, query, toModelQuiz(quiz)); err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}
	return nil
}

// GetQuizByID loads the quiz with its attempts log. It returns (nil, nil) when absent.
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, quizID string) (*domain.Quiz, error) {
	exec := GetExecutor(ctx, a.db)

	var m models.Quiz
	query := `SELECT id, title, category, created_by, questions, allow_multiple_correct, req_to_pass, created_at, updated_at
	          FROM quizzes WHERE id = $1`
	if err := exec.GetContext(ctx, &m, query, quizID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by id: %w", err)
	}

	var attempts []models.QuizAttempt
	attemptsQuery := `SELECT a.id, a.quiz_id, a.user_id, COALESCE(u.username, '') AS username, a.correct_count, a.attempted_at
	                  FROM quiz_attempts a LEFT JOIN users u ON u.id = a.user_id
	                  WHERE a.quiz_id = $1
	                  ORDER BY a.attempted_at`
	if err := exec.SelectContext(ctx, &attempts, attemptsQuery, quizID); err != nil {
		return nil, fmt.Errorf("failed to get quiz attempts: %w", err)
	}

	quiz := toDomainQuiz(&m)
	for _, at := range attempts {
		quiz.Attempts = append(quiz.Attempts, domain.Attempt{
			ID:           at.ID,
			QuizID:       at.QuizID,
			UserID:       at.UserID,
			Username:     at.Username,
			CorrectCount: at.CorrectCount,
			AttemptedAt:  at.AttemptedAt,
		})
	}
	return quiz, nil
}

func (a *QuizDatabaseAdapter) QuizExists(ctx context.Context, quizID string) (bool, error) {
	var exists bool
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM quizzes WHERE id = $1)`, quizID); err != nil {
		return false, fmt.Errorf("failed to check quiz: %w", err)
	}
	return exists, nil
}

// ListQuizzes returns summaries newest first, optionally filtered by category.
func (a *QuizDatabaseAdapter) ListQuizzes(ctx context.Context, category string) ([]domain.QuizSummary, error) {
	var rows []models.QuizSummary
	var err error
	exec := GetExecutor(ctx, a.db)
	if category == "" {
		err = exec.SelectContext(ctx, &rows, `SELECT `+quizSummaryColumns+` FROM quizzes ORDER BY created_at DESC`)
	} else {
		err = exec.SelectContext(ctx, &rows, `SELECT `+quizSummaryColumns+` FROM quizzes WHERE category = $1 ORDER BY created_at DESC`, category)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return toDomainSummaries(rows), nil
}

// GetQuizSummaries returns summaries for the ids that still exist.
func (a *QuizDatabaseAdapter) GetQuizSummaries(ctx context.Context, quizIDs []string) ([]domain.QuizSummary, error) {
	if len(quizIDs) == 0 {
		return []domain.QuizSummary{}, nil
	}
	var rows []models.QuizSummary
	query := `SELECT ` + quizSummaryColumns + ` FROM quizzes WHERE id = ANY($1)`
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, pq.Array(quizIDs)); err != nil {
		return nil, fmt.Errorf("failed to get quiz summaries: %w", err)
	}
	return toDomainSummaries(rows), nil
}

// DeleteQuiz removes the quiz; its attempts and favourite links cascade.
func (a *QuizDatabaseAdapter) DeleteQuiz(ctx context.Context, quizID string) (bool, error) {
	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, `DELETE FROM quizzes WHERE id = $1`, quizID)
	if err != nil {
		return false, fmt.Errorf("failed to delete quiz: %w", err)
	}
	return rowsAffected(result)
}

func (a *QuizDatabaseAdapter) AddAttempt(ctx context.Context, attempt *domain.Attempt) error {
	query := `INSERT INTO quiz_attempts (id, quiz_id, user_id, correct_count, attempted_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		attempt.ID, attempt.QuizID, attempt.UserID, attempt.CorrectCount, attempt.AttemptedAt)
	if err != nil {
		return fmt.Errorf("failed to add quiz attempt: %w", err)
	}
	return nil
}

func (a *QuizDatabaseAdapter) ListQuizIDsByOwner(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &ids, `SELECT id FROM quizzes WHERE created_by = $1 ORDER BY created_at`, userID); err != nil {
		return nil, fmt.Errorf("failed to list quizzes by owner: %w", err)
	}
	return ids, nil
}

func (a *QuizDatabaseAdapter) ReassignOwner(ctx context.Context, fromUserID, toUserID string) (int64, error) {
	result, err := GetExecutor(ctx, a.db).ExecContext(ctx,
		`UPDATE quizzes SET created_by = $2, updated_at = now() WHERE created_by = $1`, fromUserID, toUserID)
	if err != nil {
		return 0, fmt.Errorf("failed to reassign quizzes: %w", err)
	}
	return result.RowsAffected()
}

func (a *QuizDatabaseAdapter) DeleteQuizzesByOwner(ctx context.Context, userID string) (int64, error) {
	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, `DELETE FROM quizzes WHERE created_by = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete quizzes by owner: %w", err)
	}
	return result.RowsAffected()
}

func (a *QuizDatabaseAdapter) RemoveAttemptsByUser(ctx context.Context, userID string) (int64, error) {
	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, `DELETE FROM quiz_attempts WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to remove attempts: %w", err)
	}
	return result.RowsAffected()
}

package dto

import (
	"math"
	"time"

	"quizhub/internal/domain"
)

// AnswerRequest is one answer option in a new quiz.
type AnswerRequest struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionRequest is one question in a new quiz.
type QuestionRequest struct {
	Text    string          `json:"text"`
	Answers []AnswerRequest `json:"answers"`
}

// CreateQuizRequest is the body of POST /api/quizzes.
// @Description Request body for creating a quiz
type CreateQuizRequest struct {
	Title                string            `json:"title"`
	Category             string            `json:"category"`
	Questions            []QuestionRequest `json:"questions"`
	AllowMultipleCorrect bool              `json:"allow_multiple_correct"`
	ReqToPass            int               `json:"req_to_pass"`
}

// AnswerResponse hides correctness from quiz takers.
type AnswerResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type QuestionResponse struct {
	ID      string           `json:"id"`
	Text    string           `json:"text"`
	Answers []AnswerResponse `json:"answers"`
}

// QuizResponse represents a quiz in the API response
// @Description Quiz detail without correct answers
type QuizResponse struct {
	ID                   string             `json:"id"`
	Title                string             `json:"title"`
	Category             string             `json:"category"`
	CreatedBy            string             `json:"created_by"`
	Questions            []QuestionResponse `json:"questions"`
	AllowMultipleCorrect bool               `json:"allow_multiple_correct"`
	ReqToPass            int                `json:"req_to_pass"`
	AttemptsCount        int                `json:"attempts_count"`
	CreatedAt            time.Time          `json:"created_at"`
}

type QuizSummaryResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	CreatedBy     string    `json:"created_by"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type QuizListResponse struct {
	Quizzes []QuizSummaryResponse `json:"quizzes"`
}

// SubmitQuizRequest holds the selected answer ids per question, in question order.
// @Description Selected answer ids for each question
type SubmitQuizRequest struct {
	Answers [][]string `json:"answers"`
}

type SubmitQuizResponse struct {
	CorrectAnswers  int     `json:"correctAnswers"`
	TotalQuestions  int     `json:"totalQuestions"`
	ScorePercentage float64 `json:"scorePercentage"`
	Passed          bool    `json:"passed"`
}

type LeaderboardEntryResponse struct {
	Rank          int       `json:"rank"`
	UserID        string    `json:"user_id"`
	Username      string    `json:"username"`
	AttemptsCount int       `json:"attempts_count"`
	BestCorrect   int       `json:"best_correct"`
	BestAttemptAt time.Time `json:"best_attempt_at"`
	Passed        bool      `json:"passed"`
}

type LeaderboardResponse struct {
	QuizID  string                     `json:"quiz_id"`
	Entries []LeaderboardEntryResponse `json:"entries"`
}

// ToDomainQuiz builds an unsaved quiz from the request. Ids are assigned by newID.
func (r CreateQuizRequest) ToDomainQuiz(newID func() string, createdBy string) *domain.Quiz {
	questions := make([]domain.Question, 0, len(r.Questions))
	for _, q := range r.Questions {
		answers := make([]domain.Answer, 0, len(q.Answers))
		for _, a := range q.Answers {
			answers = append(answers, domain.Answer{ID: newID(), Text: a.Text, IsCorrect: a.IsCorrect})
		}
		questions = append(questions, domain.Question{ID: newID(), Text: q.Text, Answers: answers})
	}
	return &domain.Quiz{
		ID:                   newID(),
		Title:                r.Title,
		Category:             r.Category,
		CreatedBy:            createdBy,
		Questions:            questions,
		AllowMultipleCorrect: r.AllowMultipleCorrect,
		ReqToPass:            r.ReqToPass,
	}
}

func NewQuizResponse(q *domain.Quiz) QuizResponse {
	questions := make([]QuestionResponse, 0, len(q.Questions))
	for _, question := range q.Questions {
		answers := make([]AnswerResponse, 0, len(question.Answers))
		for _, a := range question.Answers {
			answers = append(answers, AnswerResponse{ID: a.ID, Text: a.Text})
		}
		questions = append(questions, QuestionResponse{ID: question.ID, Text: question.Text, Answers: answers})
	}
	return QuizResponse{
		ID:                   q.ID,
		Title:                q.Title,
		Category:             q.Category,
		CreatedBy:            q.CreatedBy,
		Questions:            questions,
		AllowMultipleCorrect: q.AllowMultipleCorrect,
		ReqToPass:            q.ReqToPass,
		AttemptsCount:        len(q.Attempts),
		CreatedAt:            q.CreatedAt,
	}
}

func NewQuizSummaryResponses(summaries []domain.QuizSummary) []QuizSummaryResponse {
	out := make([]QuizSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, QuizSummaryResponse{
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

// NewSubmitQuizResponse rounds the percentage to two decimals.
func NewSubmitQuizResponse(correct, total int, passed bool) SubmitQuizResponse {
	pct := 0.0
	if total > 0 {
		pct = math.Round(float64(correct)/float64(total)*10000) / 100
	}
	return SubmitQuizResponse{
		CorrectAnswers:  correct,
		TotalQuestions:  total,
		ScorePercentage: pct,
		Passed:          passed,
	}
}

func NewLeaderboardResponse(quizID string, entries []domain.LeaderboardEntry) LeaderboardResponse {
	out := make([]LeaderboardEntryResponse, 0, len(entries))
	for i, e := range entries {
		out = append(out, LeaderboardEntryResponse{
			Rank:          i + 1,
			UserID:        e.UserID,
			Username:      e.Username,
			AttemptsCount: e.AttemptsCount,
			BestCorrect:   e.BestCorrect,
			BestAttemptAt: e.BestAttemptAt,
			Passed:        e.Passed,
		})
	}
	return LeaderboardResponse{QuizID: quizID, Entries: out}
}

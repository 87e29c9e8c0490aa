package domain

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Categories a quiz can be filed under.
var QuizCategories = []string{"art", "science", "history", "music", "other"}

// IsValidCategory reports whether c is a known quiz category.
func IsValidCategory(c string) bool {
	for _, known := range QuizCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Answer is one option of a question.
type Answer struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Question holds its answers in display order.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Answers []Answer `json:"answers"`
}

// CorrectAnswerIDs returns the set of correct answer ids.
func (q Question) CorrectAnswerIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, a := range q.Answers {
		if a.IsCorrect {
			ids[a.ID] = struct{}{}
		}
	}
	return ids
}

// IsAnsweredBy reports whether the selected answer ids match the correct set exactly.
func (q Question) IsAnsweredBy(selected []string) bool {
	correct := q.CorrectAnswerIDs()
	picked := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		picked[id] = struct{}{}
	}
	if len(picked) != len(correct) {
		return false
	}
	for id := range picked {
		if _, ok := correct[id]; !ok {
			return false
		}
	}
	return true
}

// Attempt is one entry of a quiz's attempts log.
type Attempt struct {
	ID           string
	QuizID       string
	UserID       string
	Username     string
	CorrectCount int
	AttemptedAt  time.Time
}

// Quiz represents a quiz in the domain
type Quiz struct {
	ID                   string
	Title                string
	Category             string
	CreatedBy            string
	Questions            []Question
	AllowMultipleCorrect bool
	ReqToPass            int
	Attempts             []Attempt
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Validate checks the structural rules for a quiz before it is stored.
func (q *Quiz) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(q.Title) == "" {
		errs = append(errs, NewMissingFieldError("title"))
	}
	if !IsValidCategory(q.Category) {
		errs = append(errs, NewInvalidFormatError("category", q.Category))
	}
	if len(q.Questions) == 0 {
		errs = append(errs, NewFieldError("questions", "at least one question is required"))
	}
	for i, question := range q.Questions {
		field := "questions[" + strconv.Itoa(i) + "]"
		if strings.TrimSpace(question.Text) == "" {
			errs = append(errs, NewMissingFieldError(field+".text"))
		}
		if len(question.Answers) < 2 {
			errs = append(errs, NewFieldError(field+".answers", "at least two answers are required"))
		}
		correct := len(question.CorrectAnswerIDs())
		switch {
		case correct == 0:
			errs = append(errs, NewFieldError(field+".answers", "at least one answer must be correct"))
		case correct > 1 && !q.AllowMultipleCorrect:
			errs = append(errs, NewFieldError(field+".answers", "only one answer may be correct"))
		}
		for j, a := range question.Answers {
			if strings.TrimSpace(a.Text) == "" {
				errs = append(errs, NewMissingFieldError(field+".answers["+strconv.Itoa(j)+"].text"))
			}
		}
	}
	if q.ReqToPass < 0 || q.ReqToPass > len(q.Questions) {
		errs = append(errs, NewOutOfRangeError("req_to_pass", q.ReqToPass, 0, len(q.Questions)))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Score counts the questions answered correctly. selections[i] holds the answer
// ids picked for question i; missing entries count as wrong.
func (q *Quiz) Score(selections [][]string) int {
	correct := 0
	for i, question := range q.Questions {
		if i >= len(selections) {
			break
		}
		if question.IsAnsweredBy(selections[i]) {
			correct++
		}
	}
	return correct
}

// Passed reports whether correctCount meets the quiz threshold.
func (q *Quiz) Passed(correctCount int) bool {
	return correctCount >= q.ReqToPass
}

// LeaderboardEntry is one user's best result on a quiz.
type LeaderboardEntry struct {
	UserID        string
	Username      string
	AttemptsCount int
	BestCorrect   int
	BestAttemptAt time.Time
	Passed        bool
}

// Leaderboard ranks users by best score, then fewer attempts, then the earlier
// best attempt, then username. At most limit entries are returned.
func (q *Quiz) Leaderboard(limit int) []LeaderboardEntry {
	if len(q.Questions) == 0 || len(q.Attempts) == 0 {
		return []LeaderboardEntry{}
	}
	byUser := make(map[string]*LeaderboardEntry)
	for _, a := range q.Attempts {
		e, ok := byUser[a.UserID]
		if !ok {
			byUser[a.UserID] = &LeaderboardEntry{
				UserID:        a.UserID,
				Username:      a.Username,
				AttemptsCount: 1,
				BestCorrect:   a.CorrectCount,
				BestAttemptAt: a.AttemptedAt,
			}
			continue
		}
		e.AttemptsCount++
		switch {
		case a.CorrectCount > e.BestCorrect:
			e.BestCorrect = a.CorrectCount
			e.BestAttemptAt = a.AttemptedAt
		case a.CorrectCount == e.BestCorrect && a.AttemptedAt.Before(e.BestAttemptAt):
			e.BestAttemptAt = a.AttemptedAt
		}
		if e.Username == "" {
			e.Username = a.Username
		}
	}

	entries := make([]LeaderboardEntry, 0, len(byUser))
	for _, e := range byUser {
		e.Passed = q.Passed(e.BestCorrect)
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.BestCorrect != b.BestCorrect {
			return a.BestCorrect > b.BestCorrect
		}
		if a.AttemptsCount != b.AttemptsCount {
			return a.AttemptsCount < b.AttemptsCount
		}
		if !a.BestAttemptAt.Equal(b.BestAttemptAt) {
			return a.BestAttemptAt.Before(b.BestAttemptAt)
		}
		return strings.ToLower(a.Username) < strings.ToLower(b.Username)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// QuizSummary is the projection used by listings and favourites.
type QuizSummary struct {
	ID            string
	Title         string
	Category      string
	CreatedBy     string
	QuestionCount int
	CreatedAt     time.Time
}

// QuizRepository defines the interface for quiz persistence
type QuizRepository interface {
	CreateQuiz(ctx context.Context, quiz *Quiz) error
	GetQuizByID(ctx context.Context, quizID string) (*Quiz, error)
	QuizExists(ctx context.Context, quizID string) (bool, error)
	ListQuizzes(ctx context.Context, category string) ([]QuizSummary, error)
	GetQuizSummaries(ctx context.Context, quizIDs []string) ([]QuizSummary, error)
	DeleteQuiz(ctx context.Context, quizID string) (bool, error)
	AddAttempt(ctx context.Context, attempt *Attempt) error

	ListQuizIDsByOwner(ctx context.Context, userID string) ([]string, error)
	ReassignOwner(ctx context.Context, fromUserID, toUserID string) (int64, error)
	DeleteQuizzesByOwner(ctx context.Context, userID string) (int64, error)
	// RemoveAttemptsByUser scrubs the user's entries from every quiz's attempts log.
	RemoveAttemptsByUser(ctx context.Context, userID string) (int64, error)
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Answer is the stored form of a question option.
type Answer struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Question is the stored form of a quiz question.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Answers []Answer `json:"answers"`
}

// QuestionList maps the questions JSONB column.
type QuestionList []Question

// Value implements the driver.Valuer interface
func (q QuestionList) Value() (driver.Value, error) {
	if q == nil {
		return "[]", nil
	}
	data, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (q *QuestionList) Scan(value interface{}) error {
	if value == nil {
		*q = QuestionList{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("QuestionList Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(raw) == 0 || string(raw) == "null" {
		*q = QuestionList{}
		return nil
	}
	return json.Unmarshal(raw, q)
}

// Quiz is a row of the quizzes table.
type Quiz struct {
	ID                   string       `db:"id"`
	Title                string       `db:"title"`
	Category             string       `db:"category"`
	CreatedBy            string       `db:"created_by"`
	Questions            QuestionList `db:"questions"`
	AllowMultipleCorrect bool         `db:"allow_multiple_correct"`
	ReqToPass            int          `db:"req_to_pass"`
	CreatedAt            time.Time    `db:"created_at"`
	UpdatedAt            time.Time    `db:"updated_at"`
}

// QuizSummary is the listing projection of a quiz.
type QuizSummary struct {
	ID            string    `db:"id"`
	Title         string    `db:"title"`
	Category      string    `db:"category"`
	CreatedBy     string    `db:"created_by"`
	QuestionCount int       `db:"question_count"`
	CreatedAt     time.Time `db:"created_at"`
}

// QuizAttempt is a row of quiz_attempts joined with the attempting user's name.
type QuizAttempt struct {
	ID           string    `db:"id"`
	QuizID       string    `db:"quiz_id"`
	UserID       string    `db:"user_id"`
	Username     string    `db:"username"`
	CorrectCount int       `db:"correct_count"`
	AttemptedAt  time.Time `db:"attempted_at"`
}

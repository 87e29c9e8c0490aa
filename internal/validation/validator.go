package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"quizhub/internal/domain"

	"github.com/microcosm-cc/bluemonday"
)

const (
	MaxUsernameLength = 30
	MaxTitleLength    = 120
	MaxTextLength     = 500
	MaxQuestions      = 50
	MaxAnswers        = 10
)

// Themes a user can pick.
var Themes = []string{"light", "dark"}

var validULID = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)

// Validator provides request validation and sanitisation of user-generated text.
type Validator struct {
	policy *bluemonday.Policy
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{policy: bluemonday.StrictPolicy()}
}

// Sanitize strips all markup from s and trims surrounding space.
func (v *Validator) Sanitize(s string) string {
	return strings.TrimSpace(v.policy.Sanitize(s))
}

// NormalizeUsername sanitises and validates a username, returning the stored form.
func (v *Validator) NormalizeUsername(username string) (string, domain.ValidationErrors) {
	var errs domain.ValidationErrors
	raw := strings.TrimSpace(username)
	if raw == "" {
		return "", append(errs, domain.NewMissingFieldError("username"))
	}
	clean := v.Sanitize(raw)
	if clean != raw {
		errs = append(errs, domain.NewInvalidFormatError("username", username))
	}
	if n := utf8.RuneCountInString(clean); n > MaxUsernameLength {
		errs = append(errs, domain.NewOutOfRangeError("username", n, 1, MaxUsernameLength))
	}
	return clean, errs
}

// ValidateTheme checks theme against the supported themes.
func (v *Validator) ValidateTheme(theme string) domain.ValidationErrors {
	for _, t := range Themes {
		if theme == t {
			return nil
		}
	}
	return domain.ValidationErrors{domain.NewInvalidFormatError("theme", theme)}
}

// ValidateID checks that id looks like a ULID.
func (v *Validator) ValidateID(field, id string) domain.ValidationErrors {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	if !validULID.MatchString(id) {
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, id)}
	}
	return nil
}

// SanitizeQuiz strips markup from every text field of quiz in place and
// enforces the size limits. Structural rules are checked by Quiz.Validate.
func (v *Validator) SanitizeQuiz(quiz *domain.Quiz) domain.ValidationErrors {
	var errs domain.ValidationErrors
	quiz.Title = v.Sanitize(quiz.Title)
	if n := utf8.RuneCountInString(quiz.Title); n > MaxTitleLength {
		errs = append(errs, domain.NewOutOfRangeError("title", n, 1, MaxTitleLength))
	}
	if len(quiz.Questions) > MaxQuestions {
		errs = append(errs, domain.NewOutOfRangeError("questions", len(quiz.Questions), 1, MaxQuestions))
	}
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		q.Text = v.Sanitize(q.Text)
		if n := utf8.RuneCountInString(q.Text); n > MaxTextLength {
			errs = append(errs, domain.NewOutOfRangeError("questions.text", n, 1, MaxTextLength))
		}
		if len(q.Answers) > MaxAnswers {
			errs = append(errs, domain.NewOutOfRangeError("questions.answers", len(q.Answers), 2, MaxAnswers))
		}
		for j := range q.Answers {
			q.Answers[j].Text = v.Sanitize(q.Answers[j].Text)
			if n := utf8.RuneCountInString(q.Answers[j].Text); n > MaxTextLength {
				errs = append(errs, domain.NewOutOfRangeError("questions.answers.text", n, 1, MaxTextLength))
			}
		}
	}
	return errs
}

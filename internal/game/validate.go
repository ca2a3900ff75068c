// internal/game/validate.go
//
// Input validation for player names and category answers.
// All checks are pure; failures are *ValidationError values whose message
// is safe to show to players as-is.

package game

import (
	"strings"
	"unicode/utf8"
)

// ValidationCode identifies which rule an input broke.
type ValidationCode string

const (
	EmptyEntry   ValidationCode = "EmptyEntry"
	WrongLetter  ValidationCode = "WrongLetter"
	EmptyName    ValidationCode = "EmptyName"
	NameTooShort ValidationCode = "NameTooShort"
)

// MinNameLength is the shortest accepted player name, in characters.
const MinNameLength = 2

// ValidationError reports a rejected name or answer.
// Field is the answer key ("animal") for answer errors and "name" for name errors.
type ValidationError struct {
	Code    ValidationCode `json:"code"`
	Field   string         `json:"field,omitempty"`
	Message string         `json:"error"`
}

func (e *ValidationError) Error() string { return e.Message }

// ValidateAnswer checks a single entry against the required starting letter.
// Only surrounding whitespace is ignored; case does not matter.
func ValidateAnswer(entry, requiredLetter string) error {
	if requiredLetter == "" {
		requiredLetter = DefaultLetter
	}
	trimmed := strings.TrimSpace(entry)
	if trimmed == "" {
		return &ValidationError{Code: EmptyEntry, Message: "Entry cannot be empty"}
	}
	first, _ := utf8.DecodeRuneInString(trimmed)
	want, _ := utf8.DecodeRuneInString(requiredLetter)
	if !strings.EqualFold(string(first), string(want)) {
		return &ValidationError{
			Code:    WrongLetter,
			Message: `Entry must start with "` + strings.ToUpper(string(want)) + `"`,
		}
	}
	return nil
}

// ValidateAllAnswers validates every category in order and returns the first
// failure, tagged with the failing field.
func ValidateAllAnswers(answers PlayerAnswers, requiredLetter string) error {
	for i, v := range answers.Values() {
		if err := ValidateAnswer(v, requiredLetter); err != nil {
			ve := err.(*ValidationError)
			ve.Field = Categories[i].Key
			return ve
		}
	}
	return nil
}

// ValidateName requires at least MinNameLength characters after trimming.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return &ValidationError{Code: EmptyName, Field: "name", Message: "Name cannot be empty"}
	}
	if utf8.RuneCountInString(trimmed) < MinNameLength {
		return &ValidationError{Code: NameTooShort, Field: "name", Message: "Name must be at least 2 characters"}
	}
	return nil
}

package grading

import (
	"errors"
	"fmt"
)

// QuestionType is the closed set of question kinds a homework can hold.
type QuestionType string

const (
	Single     QuestionType = "single"
	Multiple   QuestionType = "multiple"
	Subjective QuestionType = "subjective"
)

var ErrUnknownQuestionType = errors.New("unknown question type")

func ParseQuestionType(s string) (QuestionType, error) {
	t := QuestionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownQuestionType, s)
	}
	return t, nil
}

func (t QuestionType) Valid() bool {
	switch t {
	case Single, Multiple, Subjective:
		return true
	}
	return false
}

// IsObjective reports whether answers of this type are decided by letter matching.
// Unknown types are never objective; callers reject them with Valid first.
func (t QuestionType) IsObjective() bool {
	switch t {
	case Single, Multiple:
		return true
	case Subjective:
		return false
	}
	return false
}

func (t QuestionType) String() string {
	return string(t)
}

// UnmarshalText rejects tags outside the closed set so an unknown type
// can never reach a grading switch.
func (t *QuestionType) UnmarshalText(b []byte) error {
	parsed, err := ParseQuestionType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t QuestionType) MarshalText() ([]byte, error) {
	return []byte(t), nil
}

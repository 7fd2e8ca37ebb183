package grading

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	CommentCorrect  = "正确"
	CommentWrong    = "错误"
	CommentAIFailed = "AI批改失败"
)

var (
	ErrSubjectiveNeedsJudge = errors.New("subjective answers need an external judgment")
	ErrInvalidReference     = errors.New("invalid reference answer")
)

// ObjectiveCorrect decides an objective answer locally.
// Single choice compares trimmed letters case-insensitively; multiple choice
// requires the exact same letter set with no partial credit.
func ObjectiveCorrect(t QuestionType, reference, submitted string) (bool, error) {
	switch t {
	case Single:
		sub := strings.TrimSpace(submitted)
		return sub != "" && strings.EqualFold(strings.TrimSpace(reference), sub), nil
	case Multiple:
		if len(ParseLetters(submitted)) == 0 {
			return false, nil
		}
		return SameLetterSet(reference, submitted), nil
	case Subjective:
		return false, ErrSubjectiveNeedsJudge
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownQuestionType, t)
}

// Percentage is round(total/possible*100) with halves rounded up.
// A homework worth nothing yields 0.
func Percentage(total, possible float64) int {
	if possible <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return 0
	}
	return int(math.Floor(total/possible*100 + 0.5))
}

func TotalPossible(scores ...float64) float64 {
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum
}

// ValidateReference checks that an objective reference answer only names
// letters of existing options, and that subjective questions carry no options.
func ValidateReference(t QuestionType, options []string, answer string) error {
	switch t {
	case Single, Multiple:
		if len(options) == 0 {
			return fmt.Errorf("%w: %s question needs options", ErrInvalidReference, t)
		}
		letters := ParseLetters(answer)
		if len(letters) == 0 {
			return fmt.Errorf("%w: empty answer", ErrInvalidReference)
		}
		if t == Single && len(letters) != 1 {
			return fmt.Errorf("%w: single choice takes exactly one letter", ErrInvalidReference)
		}
		last := OptionLetter(len(options) - 1)
		for _, l := range letters {
			if len(l) != 1 || l < "A" || l > last {
				return fmt.Errorf("%w: letter %q outside A-%s", ErrInvalidReference, l, last)
			}
		}
		return nil
	case Subjective:
		if len(options) != 0 {
			return fmt.Errorf("%w: subjective question cannot have options", ErrInvalidReference)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownQuestionType, t)
}

func ObjectiveExplanation(text, submitted, reference string) string {
	return fmt.Sprintf("题目：%s，你的答案：%s，正确答案：%s", text, submitted, reference)
}

func SubjectiveExplanation(text, comment string) string {
	return fmt.Sprintf("题目：%s，AI评语：%s", text, comment)
}

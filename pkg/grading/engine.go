package grading

import (
	"context"
	"fmt"
)

// Item is the view of a question needed for grading.
type Item struct {
	Type      QuestionType
	Text      string
	Reference string
	Score     float64
}

// Outcome is the result of grading one answer.
type Outcome struct {
	Points      float64
	Correct     bool
	Pending     bool // left for a later judgment
	Comment     string
	Explanation string // empty when full credit was awarded
}

// Judgment is what an external judge returns for a subjective answer.
type Judgment struct {
	Score   float64
	Comment string
}

// Judge scores free-text answers.
type Judge interface {
	Judge(ctx context.Context, item Item, answer string) (Judgment, error)
}

// Strategy grades a single answer of one question type.
type Strategy interface {
	Grade(ctx context.Context, item Item, answer string) (Outcome, error)
}

type Option func(*engineConfig)

type engineConfig struct {
	judge           Judge
	deferSubjective bool
}

// WithJudge installs the judge used for subjective answers.
func WithJudge(j Judge) Option { return func(c *engineConfig) { c.judge = j } }

// WithDeferredSubjective leaves subjective answers pending instead of judging them inline.
func WithDeferredSubjective(b bool) Option { return func(c *engineConfig) { c.deferSubjective = b } }

// Engine routes each answer to the strategy for its question type.
type Engine struct {
	strategies map[QuestionType]Strategy
}

func NewEngine(opts ...Option) *Engine {
	cfg := &engineConfig{}
	for _, o := range opts {
		o(cfg)
	}
	return &Engine{
		strategies: map[QuestionType]Strategy{
			Single:     objectiveStrategy{},
			Multiple:   objectiveStrategy{},
			Subjective: subjectiveStrategy{judge: cfg.judge, deferred: cfg.deferSubjective || cfg.judge == nil},
		},
	}
}

func (e *Engine) Grade(ctx context.Context, item Item, answer string) (Outcome, error) {
	s, ok := e.strategies[item.Type]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownQuestionType, item.Type)
	}
	return s.Grade(ctx, item, answer)
}

// Defers reports whether subjective answers are left pending by this engine.
func (e *Engine) Defers() bool {
	s, ok := e.strategies[Subjective].(subjectiveStrategy)
	return ok && s.deferred
}

type objectiveStrategy struct{}

func (objectiveStrategy) Grade(_ context.Context, item Item, answer string) (Outcome, error) {
	correct, err := ObjectiveCorrect(item.Type, item.Reference, answer)
	if err != nil {
		return Outcome{}, err
	}
	if correct {
		return Outcome{Points: item.Score, Correct: true, Comment: CommentCorrect}, nil
	}
	return Outcome{
		Comment:     CommentWrong,
		Explanation: ObjectiveExplanation(item.Text, answer, item.Reference),
	}, nil
}

type subjectiveStrategy struct {
	judge    Judge
	deferred bool
}

func (s subjectiveStrategy) Grade(ctx context.Context, item Item, answer string) (Outcome, error) {
	if s.deferred {
		return Outcome{Pending: true}, nil
	}

	j, err := s.judge.Judge(ctx, item, answer)
	if err != nil {
		j = Judgment{Score: 0, Comment: CommentAIFailed}
	}
	points := clamp(j.Score, 0, item.Score)

	out := Outcome{Points: points, Comment: j.Comment, Correct: points >= item.Score}
	if !out.Correct {
		out.Explanation = SubjectiveExplanation(item.Text, j.Comment)
	}
	return out, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

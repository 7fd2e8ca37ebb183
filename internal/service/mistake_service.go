package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"snaplearn_backend/internal/model"
	"snaplearn_backend/internal/repository"
	"snaplearn_backend/internal/util"
	"snaplearn_backend/pkg/grading"
	"snaplearn_backend/pkg/logger"
	"snaplearn_backend/pkg/monitoring"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MistakeService struct {
	Mistakes  *repository.MistakeRepository
	Homeworks *repository.HomeworkRepository

	mu     sync.RWMutex
	judge  grading.Judge
	sample int
}

func NewMistakeService(mistakes *repository.MistakeRepository, homeworks *repository.HomeworkRepository, judge grading.Judge, sample int) *MistakeService {
	s := &MistakeService{Mistakes: mistakes, Homeworks: homeworks}
	s.Reconfigure(judge, sample)
	return s
}

func (s *MistakeService) Reconfigure(judge grading.Judge, sample int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.judge = judge
	s.sample = sample
}

func (s *MistakeService) settings() (grading.Judge, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.judge, s.sample
}

// MistakeView 错题本条目，ID 为题目 ID；客观题附带参考答案
type MistakeView struct {
	ID              uint                 `json:"id"`
	HomeworkID      uint                 `json:"homework_id"`
	QuestionType    grading.QuestionType `json:"question_type"`
	Text            string               `json:"text"`
	Options         []string             `json:"options"`
	Score           float64              `json:"score"`
	Answer          string               `json:"answer,omitempty"`
	WrongTimes      int                  `json:"wrong_times"`
	LastWrongAnswer string               `json:"last_wrong_answer"`
	Status          model.MistakeStatus  `json:"status"`
}

// List 错题较多时随机抽取 sample 道，已批改的错题优先
func (s *MistakeService) List(studentID uint) ([]MistakeView, error) {
	entries, err := s.Mistakes.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}

	_, sample := s.settings()
	entries = sampleEntries(entries, sample)

	views := make([]MistakeView, 0, len(entries))
	for _, e := range entries {
		if e.Question == nil {
			continue
		}
		q := e.Question
		v := MistakeView{
			ID:              q.ID,
			HomeworkID:      e.HomeworkID,
			QuestionType:    q.QuestionType,
			Text:            q.Text,
			Options:         []string(q.Options),
			Score:           q.Score,
			WrongTimes:      e.WrongTimes,
			LastWrongAnswer: e.LastWrongAnswer,
			Status:          e.Status,
		}
		if v.Options == nil {
			v.Options = []string{}
		}
		if q.QuestionType.IsObjective() {
			v.Answer = q.Answer
		}
		views = append(views, v)
	}
	return views, nil
}

// sampleEntries 待批改的错题不能重做，只用来补足名额
func sampleEntries(entries []model.MistakeEntry, sample int) []model.MistakeEntry {
	if sample <= 0 || len(entries) <= sample {
		return entries
	}
	var graded, ungraded []model.MistakeEntry
	for _, e := range entries {
		if e.Status == model.MistakeUngraded {
			ungraded = append(ungraded, e)
		} else {
			graded = append(graded, e)
		}
	}
	rand.Shuffle(len(graded), func(i, j int) { graded[i], graded[j] = graded[j], graded[i] })
	rand.Shuffle(len(ungraded), func(i, j int) { ungraded[i], ungraded[j] = ungraded[j], ungraded[i] })
	return append(graded, ungraded...)[:sample]
}

// Reconcile 重做正确则移出错题本，否则错误次数加一
func (s *MistakeService) Reconcile(studentID, questionID uint, isCorrect bool) (*model.MistakeEntry, error) {
	entry, err := s.Mistakes.Find(studentID, questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		monitoring.MistakeReconcileCounter.WithLabelValues("not_found").Inc()
		return nil, util.ErrMistakeNotFound
	}
	if err != nil {
		return nil, err
	}

	if isCorrect {
		if _, err := s.Mistakes.Clear(studentID, questionID); err != nil {
			return nil, err
		}
		monitoring.MistakeReconcileCounter.WithLabelValues("cleared").Inc()
		return nil, nil
	}

	if err := s.Mistakes.IncrementWrong(entry); err != nil {
		return nil, err
	}
	monitoring.MistakeReconcileCounter.WithLabelValues("missed").Inc()
	return entry, nil
}

type JudgeResult struct {
	IsCorrect bool    `json:"is_correct"`
	Score     float64 `json:"score"`
	Comment   string  `json:"comment"`
}

// Judge 判定错题重做的答案，不修改错题本
// 主观题交给 AI，AI 不可用时返回错误而不是判错
func (s *MistakeService) Judge(ctx context.Context, studentID, questionID uint, answer string) (*JudgeResult, error) {
	if _, err := s.Mistakes.Find(studentID, questionID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrMistakeNotFound
	} else if err != nil {
		return nil, err
	}

	q, err := s.Homeworks.FindQuestionByID(questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}

	if q.QuestionType.IsObjective() {
		ok, err := grading.ObjectiveCorrect(q.QuestionType, q.Answer, answer)
		if err != nil {
			return nil, err
		}
		res := &JudgeResult{IsCorrect: ok, Comment: grading.CommentWrong}
		if ok {
			res.Score = q.Score
			res.Comment = grading.CommentCorrect
		}
		return res, nil
	}

	judge, _ := s.settings()
	if judge == nil {
		return nil, util.ErrAIUnavailable
	}
	j, err := judge.Judge(ctx, q.Item(), answer)
	if err != nil {
		logger.Log.Warn("mistake judge failed", zap.Uint("question_id", questionID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", util.ErrAIUnavailable, err)
	}
	score := min(max(j.Score, 0), q.Score)
	return &JudgeResult{IsCorrect: score >= q.Score, Score: score, Comment: j.Comment}, nil
}

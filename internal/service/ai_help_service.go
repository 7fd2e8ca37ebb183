package service

import (
	"context"
	"errors"
	"fmt"
	"snaplearn_backend/internal/model"
	"snaplearn_backend/internal/repository"
	"snaplearn_backend/internal/util"
	"sync"

	"gorm.io/gorm"
)

// AIHelpService 为学生提供解题思路提示，并统计求助次数
type AIHelpService struct {
	Records   *repository.AIHelpRepository
	Homeworks *repository.HomeworkRepository

	mu     sync.RWMutex
	grader AIGrader
}

func NewAIHelpService(records *repository.AIHelpRepository, homeworks *repository.HomeworkRepository, grader AIGrader) *AIHelpService {
	return &AIHelpService{Records: records, Homeworks: homeworks, grader: grader}
}

func (s *AIHelpService) SetGrader(grader AIGrader) {
	s.mu.Lock()
	s.grader = grader
	s.mu.Unlock()
}

type HintResult struct {
	Hint  string `json:"hint"`
	Times int    `json:"times"`
}

func (s *AIHelpService) Hint(ctx context.Context, studentID, questionID uint) (*HintResult, error) {
	q, err := s.Homeworks.FindQuestionByID(questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	grader := s.grader
	s.mu.RUnlock()
	if grader == nil {
		return nil, util.ErrAIUnavailable
	}

	hint, err := grader.Hint(ctx, q.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrAIUnavailable, err)
	}
	rec, err := s.Records.Increment(studentID, questionID)
	if err != nil {
		return nil, err
	}
	return &HintResult{Hint: hint, Times: rec.Times}, nil
}

// Feedback 学生反馈提示后是否解决了问题
func (s *AIHelpService) Feedback(studentID, questionID uint, solved bool) (*model.AIHelpRecord, error) {
	rec, err := s.Records.Find(studentID, questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAIHelpNotFound
	}
	if err != nil {
		return nil, err
	}
	if !solved {
		return rec, nil
	}
	if err := s.Records.MarkSolved(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

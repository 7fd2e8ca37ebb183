// Package learner 实现学生端作业流程：答题、提交、成绩展示、错题重做与成绩查询
package learner

import (
	"fmt"
	"snaplearn_backend/pkg/client"
	"snaplearn_backend/pkg/grading"
	"strings"
)

// AnswerSheet 每道题一个答案槽，初始为空
// 不做并发保护，同一时间只由一个页面操作
type AnswerSheet struct {
	questions []client.Question
	slots     []string
	locked    bool
}

func NewAnswerSheet(questions []client.Question) *AnswerSheet {
	qs := append([]client.Question(nil), questions...)
	return &AnswerSheet{
		questions: qs,
		slots:     make([]string, len(qs)),
	}
}

func (s *AnswerSheet) Len() int {
	return len(s.slots)
}

func (s *AnswerSheet) Questions() []client.Question {
	return append([]client.Question(nil), s.questions...)
}

// Answers 按题目顺序返回答案副本
func (s *AnswerSheet) Answers() []string {
	return append([]string(nil), s.slots...)
}

func (s *AnswerSheet) Answer(i int) string {
	if i < 0 || i >= len(s.slots) {
		return ""
	}
	return s.slots[i]
}

func (s *AnswerSheet) Locked() bool {
	return s.locked
}

func (s *AnswerSheet) lock() {
	s.locked = true
}

func (s *AnswerSheet) slot(i int, want grading.QuestionType) error {
	if s.locked {
		return ErrSheetLocked
	}
	if i < 0 || i >= len(s.slots) {
		return fmt.Errorf("%w: %d", ErrSlotIndex, i)
	}
	if got := s.questions[i].QuestionType; got != want {
		return fmt.Errorf("%w: question %d is %s", ErrSlotType, i+1, got)
	}
	return nil
}

// Select 单选题，每次选择覆盖之前的答案
func (s *AnswerSheet) Select(i int, letter string) error {
	if err := s.slot(i, grading.Single); err != nil {
		return err
	}
	s.slots[i] = strings.ToUpper(strings.TrimSpace(letter))
	return nil
}

// Toggle 多选题，勾选加入、取消勾选移除，保持去重和原有顺序
func (s *AnswerSheet) Toggle(i int, letter string, checked bool) error {
	if err := s.slot(i, grading.Multiple); err != nil {
		return err
	}
	s.slots[i] = grading.ToggleLetter(s.slots[i], letter, checked)
	return nil
}

// Write 主观题自由作答
func (s *AnswerSheet) Write(i int, text string) error {
	if err := s.slot(i, grading.Subjective); err != nil {
		return err
	}
	s.slots[i] = text
	return nil
}

// Fill 按题型把一个原始答案写入槽位，多选题以逗号分隔
func (s *AnswerSheet) Fill(i int, raw string) error {
	if i < 0 || i >= len(s.questions) {
		return fmt.Errorf("%w: %d", ErrSlotIndex, i)
	}
	switch t := s.questions[i].QuestionType; t {
	case grading.Single:
		return s.Select(i, raw)
	case grading.Multiple:
		if s.locked {
			return ErrSheetLocked
		}
		s.slots[i] = ""
		for _, l := range grading.ParseLetters(raw) {
			if err := s.Toggle(i, l, true); err != nil {
				return err
			}
		}
		return nil
	case grading.Subjective:
		return s.Write(i, raw)
	default:
		return fmt.Errorf("%w: %q", grading.ErrUnknownQuestionType, t)
	}
}

// Validate 客观题必须作答，主观题可以留空
func (s *AnswerSheet) Validate() error {
	var missing []int
	for i, q := range s.questions {
		switch q.QuestionType {
		case grading.Single, grading.Multiple:
			if strings.TrimSpace(s.slots[i]) == "" {
				missing = append(missing, i)
			}
		case grading.Subjective:
		default:
			return fmt.Errorf("question %d: %w: %q", i+1, grading.ErrUnknownQuestionType, q.QuestionType)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

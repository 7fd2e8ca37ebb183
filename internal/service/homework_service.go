package service

import (
	"context"
	"errors"
	"fmt"
	"snaplearn_backend/internal/config"
	"snaplearn_backend/internal/model"
	"snaplearn_backend/internal/repository"
	"snaplearn_backend/internal/util"
	"snaplearn_backend/pkg/grading"
	"snaplearn_backend/pkg/logger"
	"snaplearn_backend/pkg/monitoring"
	"sync"
	"time"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type HomeworkService struct {
	DB          *gorm.DB
	Homeworks   *repository.HomeworkRepository
	Submissions *repository.SubmissionRepository
	Mistakes    *repository.MistakeRepository
	Users       *repository.UserRepository
	Storage     *StorageService // 可选，用于生成头像 URL

	mu     sync.RWMutex
	engine *grading.Engine
}

func NewHomeworkService(
	db *gorm.DB,
	homeworks *repository.HomeworkRepository,
	submissions *repository.SubmissionRepository,
	mistakes *repository.MistakeRepository,
	users *repository.UserRepository,
	cfg config.GradingConfig,
	judge grading.Judge,
) *HomeworkService {
	s := &HomeworkService{
		DB:          db,
		Homeworks:   homeworks,
		Submissions: submissions,
		Mistakes:    mistakes,
		Users:       users,
	}
	s.Reconfigure(cfg, judge)
	return s
}

// Reconfigure 配置热更新时替换批改策略
func (s *HomeworkService) Reconfigure(cfg config.GradingConfig, judge grading.Judge) {
	engine := grading.NewEngine(
		grading.WithJudge(judge),
		grading.WithDeferredSubjective(cfg.DeferSubjective),
	)
	s.mu.Lock()
	s.engine = engine
	s.mu.Unlock()
}

func (s *HomeworkService) currentEngine() *grading.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// QuestionView 学生端题目，不含参考答案
type QuestionView struct {
	ID           uint                 `json:"id"`
	QuestionType grading.QuestionType `json:"question_type"`
	Text         string               `json:"text"`
	Options      []string             `json:"options"`
	Score        float64              `json:"score"`
}

type HomeworkView struct {
	ID          uint           `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	VideoID     *uint          `json:"video_id"`
	Questions   []QuestionView `json:"questions"`
}

// GetForVideo 视频没有作业时返回 nil
func (s *HomeworkService) GetForVideo(videoID uint) (*HomeworkView, error) {
	hw, err := s.Homeworks.FindByVideoID(videoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return toHomeworkView(hw)
}

// ListForStudents 学生端作业列表，题目不含参考答案
func (s *HomeworkService) ListForStudents() ([]HomeworkView, error) {
	hws, err := s.Homeworks.ListWithQuestions()
	if err != nil {
		return nil, err
	}
	views := make([]HomeworkView, 0, len(hws))
	for i := range hws {
		view, err := toHomeworkView(&hws[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func toHomeworkView(hw *model.Homework) (*HomeworkView, error) {
	var view HomeworkView
	if err := copier.Copy(&view, hw); err != nil {
		return nil, err
	}
	if view.Questions == nil {
		view.Questions = []QuestionView{}
	}
	for i := range view.Questions {
		if view.Questions[i].Options == nil {
			view.Questions[i].Options = []string{}
		}
	}
	return &view, nil
}

type SubmitResult struct {
	Status       model.ResultStatus `json:"status"`
	TotalScore   *float64           `json:"total_score,omitempty"`
	Explanations []string           `json:"explanations,omitempty"`
}

type mistakeChange struct {
	question *model.Question
	answer   string
	correct  bool
}

// Submit 批改并保存学生提交
// 客观题当场判分；主观题按配置交给 AI 即时批改，或整份作业标记为待批改由后台任务处理
func (s *HomeworkService) Submit(ctx context.Context, studentID, videoID uint, answers []string) (*SubmitResult, error) {
	hw, err := s.Homeworks.FindByVideoID(videoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrHomeworkNotFound
	}
	if err != nil {
		return nil, err
	}

	engine := s.currentEngine()
	pending := engine.Defers() && hw.HasSubjective()
	now := time.Now()

	var total float64
	explanations := []string{}
	stored := make([]model.StudentAnswer, 0, len(hw.Questions))
	changes := make([]mistakeChange, 0, len(hw.Questions))

	for i := range hw.Questions {
		q := &hw.Questions[i]
		ans := ""
		if i < len(answers) {
			ans = answers[i]
		}

		out, err := engine.Grade(ctx, q.Item(), ans)
		if err != nil {
			return nil, fmt.Errorf("grade question %d: %w", q.ID, err)
		}

		sa := model.StudentAnswer{
			HomeworkID:  hw.ID,
			QuestionID:  q.ID,
			StudentID:   studentID,
			Answer:      ans,
			Comment:     out.Comment,
			Graded:      !out.Pending,
			SubmittedAt: now,
		}
		if !out.Pending {
			points := out.Points
			sa.Score = &points
			total += points
			if out.Explanation != "" {
				explanations = append(explanations, out.Explanation)
			}
			changes = append(changes, mistakeChange{question: q, answer: ans, correct: out.Correct})
		}
		stored = append(stored, sa)
	}

	result := &model.StudentHomeworkResult{
		HomeworkID:   hw.ID,
		StudentID:    studentID,
		Status:       model.ResultGraded,
		Explanations: explanations,
		SubmittedAt:  now,
	}
	mistakeStatus := model.MistakeGraded
	if pending {
		result.Status = model.ResultPending
		mistakeStatus = model.MistakeUngraded
	} else {
		result.TotalScore = &total
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		subs := s.Submissions.WithTx(tx)
		mistakes := s.Mistakes.WithTx(tx)

		if err := subs.ReplaceAnswers(hw.ID, studentID, stored); err != nil {
			return err
		}
		for _, c := range changes {
			if c.correct {
				if _, err := mistakes.Clear(studentID, c.question.ID); err != nil {
					return err
				}
				continue
			}
			if _, err := mistakes.RecordMiss(studentID, c.question, c.answer, mistakeStatus); err != nil {
				return err
			}
		}
		return subs.UpsertResult(result)
	})
	if err != nil {
		return nil, err
	}

	monitoring.SubmissionCounter.WithLabelValues(string(result.Status)).Inc()
	logger.Log.Info("homework submitted",
		zap.Uint("homework_id", hw.ID),
		zap.Uint("student_id", studentID),
		zap.String("status", string(result.Status)),
	)

	if pending {
		return &SubmitResult{Status: model.ResultPending}, nil
	}
	return &SubmitResult{Status: model.ResultGraded, TotalScore: &total, Explanations: explanations}, nil
}

// ScoreRecordView 成绩查询列表的一行
type ScoreRecordView struct {
	ID            uint               `json:"id"`
	HomeworkID    uint               `json:"homework_id"`
	HomeworkTitle string             `json:"homework_title"`
	SubmittedAt   time.Time          `json:"submitted_at"`
	Status        model.ResultStatus `json:"status"`
	TotalScore    *float64           `json:"total_score"`
	PossibleScore float64            `json:"possible_score"`
	Explanations  []string           `json:"explanations"`
}

func (s *HomeworkService) MyScores(studentID uint) ([]ScoreRecordView, error) {
	results, err := s.Submissions.ListResultsByStudent(studentID)
	if err != nil {
		return nil, err
	}

	views := make([]ScoreRecordView, 0, len(results))
	for _, r := range results {
		v := ScoreRecordView{
			ID:           r.ID,
			HomeworkID:   r.HomeworkID,
			SubmittedAt:  r.SubmittedAt,
			Status:       r.Status,
			TotalScore:   r.TotalScore,
			Explanations: []string(r.Explanations),
		}
		if v.Explanations == nil {
			v.Explanations = []string{}
		}
		if r.Homework != nil {
			v.HomeworkTitle = r.Homework.Title
			v.PossibleScore = r.Homework.PossibleScore()
		}
		if r.Status == model.ResultPending {
			v.TotalScore = nil
		}
		views = append(views, v)
	}
	return views, nil
}

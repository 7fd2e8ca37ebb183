package service

import (
	"context"
	"fmt"
	"snaplearn_backend/internal/config"
	"snaplearn_backend/internal/model"
	"snaplearn_backend/internal/repository"
	"snaplearn_backend/pkg/grading"
	"snaplearn_backend/pkg/logger"
	"snaplearn_backend/pkg/monitoring"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const batchLockKey = "snaplearn:grading:batch"

// BatchGrader 定时批改待批改的提交
type BatchGrader struct {
	DB          *gorm.DB
	Homeworks   *repository.HomeworkRepository
	Submissions *repository.SubmissionRepository
	Mistakes    *repository.MistakeRepository
	Locker      Locker

	mu    sync.RWMutex
	judge grading.Judge
	cfg   config.GradingConfig
}

func NewBatchGrader(
	db *gorm.DB,
	homeworks *repository.HomeworkRepository,
	submissions *repository.SubmissionRepository,
	mistakes *repository.MistakeRepository,
	locker Locker,
	cfg config.GradingConfig,
	judge grading.Judge,
) *BatchGrader {
	return &BatchGrader{
		DB:          db,
		Homeworks:   homeworks,
		Submissions: submissions,
		Mistakes:    mistakes,
		Locker:      locker,
		judge:       judge,
		cfg:         cfg,
	}
}

func (g *BatchGrader) Reconfigure(cfg config.GradingConfig, judge grading.Judge) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cfg = cfg
	g.judge = judge
}

func (g *BatchGrader) settings() (config.GradingConfig, grading.Judge) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cfg, g.judge
}

// Start 按间隔执行批改，ctx 取消后退出
func (g *BatchGrader) Start(ctx context.Context) {
	cfg, _ := g.settings()
	ticker := time.NewTicker(cfg.BatchInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := g.RunOnce(ctx); err != nil {
				logger.Log.Error("batch grading failed", zap.Error(err))
			} else if n > 0 {
				logger.Log.Info("batch grading finished", zap.Int("graded", n))
			}
		}
	}
}

// RunOnce 批改一批待批改提交，返回完成批改的数量
// 未拿到锁时说明其他实例正在批改，直接返回
func (g *BatchGrader) RunOnce(ctx context.Context) (int, error) {
	cfg, judge := g.settings()
	if judge == nil {
		logger.Log.Warn("batch grading skipped, no AI grader configured")
		return 0, nil
	}

	locked, err := g.Locker.TryLock(ctx, batchLockKey, cfg.LockTTL())
	if err != nil {
		return 0, fmt.Errorf("acquire batch lock: %w", err)
	}
	if !locked {
		return 0, nil
	}
	defer func() {
		if err := g.Locker.Unlock(context.Background(), batchLockKey); err != nil {
			logger.Log.Warn("release batch lock failed", zap.Error(err))
		}
	}()

	pending, err := g.Submissions.ListPending(cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	engine := grading.NewEngine(grading.WithJudge(judge))
	graded := 0
	for i := range pending {
		if ctx.Err() != nil {
			break
		}
		if err := g.gradeResult(ctx, engine, &pending[i]); err != nil {
			logger.Log.Error("grade pending result failed",
				zap.Uint("result_id", pending[i].ID),
				zap.Error(err),
			)
			continue
		}
		graded++
		monitoring.BatchGradedCounter.Inc()
	}
	return graded, nil
}

func (g *BatchGrader) gradeResult(ctx context.Context, engine *grading.Engine, result *model.StudentHomeworkResult) error {
	hw, err := g.Homeworks.FindByID(result.HomeworkID)
	if err != nil {
		return err
	}
	answers, err := g.Submissions.ListAnswers(result.HomeworkID, result.StudentID)
	if err != nil {
		return err
	}
	byQuestion := make(map[uint]*model.StudentAnswer, len(answers))
	for i := range answers {
		byQuestion[answers[i].QuestionID] = &answers[i]
	}

	var (
		total        float64
		explanations = []string{}
		updated      []*model.StudentAnswer
		changes      []mistakeChange
	)
	for i := range hw.Questions {
		q := &hw.Questions[i]
		a, ok := byQuestion[q.ID]
		if !ok {
			continue
		}

		if !a.Graded {
			out, err := engine.Grade(ctx, q.Item(), a.Answer)
			if err != nil {
				return err
			}
			points := out.Points
			a.Score = &points
			a.Comment = out.Comment
			a.Graded = true
			updated = append(updated, a)
			changes = append(changes, mistakeChange{question: q, answer: a.Answer, correct: out.Correct})
		}

		if a.Score != nil {
			total += *a.Score
		}
		if e := explanationFor(q, a); e != "" {
			explanations = append(explanations, e)
		}
	}

	return g.DB.Transaction(func(tx *gorm.DB) error {
		subs := g.Submissions.WithTx(tx)
		mistakes := g.Mistakes.WithTx(tx)

		for _, a := range updated {
			if err := subs.SaveAnswer(a); err != nil {
				return err
			}
		}
		for _, c := range changes {
			if c.correct {
				if _, err := mistakes.Clear(result.StudentID, c.question.ID); err != nil {
					return err
				}
				continue
			}
			if _, err := mistakes.RecordMiss(result.StudentID, c.question, c.answer, model.MistakeGraded); err != nil {
				return err
			}
		}
		if err := mistakes.MarkGraded(result.StudentID, result.HomeworkID); err != nil {
			return err
		}

		result.Status = model.ResultGraded
		result.TotalScore = &total
		result.Explanations = explanations
		return subs.SaveResult(result)
	})
}

// explanationFor 未得满分的已批改作答生成解析，其余返回空串
func explanationFor(q *model.Question, a *model.StudentAnswer) string {
	if !a.Graded {
		return ""
	}
	var score float64
	if a.Score != nil {
		score = *a.Score
	}
	if score >= q.Score {
		return ""
	}
	if q.QuestionType == grading.Subjective {
		return grading.SubjectiveExplanation(q.Text, a.Comment)
	}
	return grading.ObjectiveExplanation(q.Text, a.Answer, q.Answer)
}

// explainAnswers 按题目顺序重建整份作业的解析，answers 需预加载 Question
func explainAnswers(answers []model.StudentAnswer) []string {
	explanations := []string{}
	for i := range answers {
		if answers[i].Question == nil {
			continue
		}
		if e := explanationFor(answers[i].Question, &answers[i]); e != "" {
			explanations = append(explanations, e)
		}
	}
	return explanations
}

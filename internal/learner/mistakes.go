package learner

import (
	"context"
	"fmt"
	"snaplearn_backend/pkg/client"
	"snaplearn_backend/pkg/grading"
	"snaplearn_backend/pkg/logger"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// 同时进行的回写请求上限
const reconcileConcurrency = 4

const statusUngraded = "ungraded"

// MistakeAPI 错题本相关的远端接口，*client.Client 满足该接口
type MistakeAPI interface {
	Mistakes(ctx context.Context, s client.Session) ([]client.MistakeEntry, error)
	Reconcile(ctx context.Context, s client.Session, questionID uint, isCorrect bool) error
	Judge(ctx context.Context, s client.Session, questionID uint, answer string) (*client.Judgement, error)
}

type QuestionResult struct {
	QuestionID uint
	IsCorrect  bool
	Err        error
}

type ReviewSummary struct {
	Correct int
	Total   int
	Failed  int
	Results []QuestionResult
}

func (r ReviewSummary) Message() string {
	msg := fmt.Sprintf("本次共答对 %d / %d 题", r.Correct, r.Total)
	if r.Failed > 0 {
		msg += fmt.Sprintf("，%d 题提交失败，请稍后重试", r.Failed)
	}
	return msg
}

// MistakeReview 错题重做；每次回写后重新拉取错题本，不在本地修补
type MistakeReview struct {
	api     MistakeAPI
	session client.Session

	mu      sync.Mutex
	busy    bool
	entries []client.MistakeEntry
	sheet   *AnswerSheet
}

func NewMistakeReview(api MistakeAPI, session client.Session) *MistakeReview {
	return &MistakeReview{
		api:     api,
		session: session,
		sheet:   NewAnswerSheet(nil),
	}
}

// Load 只保留所属作业已批改完成的错题
func (r *MistakeReview) Load(ctx context.Context) error {
	all, err := r.api.Mistakes(ctx, r.session)
	if err != nil {
		logger.Named("learner").Warn("load mistake book failed", zap.Error(err))
		return &ActionError{Message: MsgLoadFailed, Err: err}
	}

	entries := make([]client.MistakeEntry, 0, len(all))
	questions := make([]client.Question, 0, len(all))
	for _, e := range all {
		if e.Status == statusUngraded {
			continue
		}
		entries = append(entries, e)
		questions = append(questions, client.Question{
			ID:           e.ID,
			QuestionType: e.QuestionType,
			Text:         e.Text,
			Options:      e.Options,
			Score:        e.Score,
		})
	}

	r.mu.Lock()
	r.entries = entries
	r.sheet = NewAnswerSheet(questions)
	r.mu.Unlock()
	return nil
}

func (r *MistakeReview) Entries() []client.MistakeEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]client.MistakeEntry(nil), r.entries...)
}

// Sheet 当前错题的答题卡，与作业答题卡规则相同
func (r *MistakeReview) Sheet() *AnswerSheet {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sheet
}

func (r *MistakeReview) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy
}

// Submit 逐题判定并回写，全部请求结束后才汇总，然后重新加载错题本
// 重新加载失败时仍返回汇总结果
func (r *MistakeReview) Submit(ctx context.Context) (*ReviewSummary, error) {
	r.mu.Lock()
	if r.busy {
		r.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	r.busy = true
	entries := append([]client.MistakeEntry(nil), r.entries...)
	answers := r.sheet.Answers()
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.busy = false
		r.mu.Unlock()
	}()

	results := make([]QuestionResult, len(entries))
	var g errgroup.Group
	g.SetLimit(reconcileConcurrency)
	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			results[i] = r.settle(ctx, e, answers[i])
			// 单题失败不取消其它请求
			return nil
		})
	}
	_ = g.Wait()

	summary := &ReviewSummary{Total: len(entries), Results: results}
	for _, res := range results {
		switch {
		case res.Err != nil:
			summary.Failed++
		case res.IsCorrect:
			summary.Correct++
		}
	}

	if err := r.Load(ctx); err != nil {
		return summary, err
	}
	return summary, nil
}

func (r *MistakeReview) settle(ctx context.Context, e client.MistakeEntry, answer string) QuestionResult {
	res := QuestionResult{QuestionID: e.ID}

	correct, err := r.decide(ctx, e, answer)
	if err != nil {
		logger.Named("learner").Warn("judge mistake failed", zap.Uint("question_id", e.ID), zap.Error(err))
		res.Err = &ActionError{Message: MsgSubmitFailed, Err: err}
		return res
	}
	if err := r.api.Reconcile(ctx, r.session, e.ID, correct); err != nil {
		logger.Named("learner").Warn("reconcile mistake failed", zap.Uint("question_id", e.ID), zap.Error(err))
		res.Err = &ActionError{Message: MsgSubmitFailed, Err: err}
		return res
	}
	res.IsCorrect = correct
	return res
}

// decide 客观题本地判定，主观题交给服务端
func (r *MistakeReview) decide(ctx context.Context, e client.MistakeEntry, answer string) (bool, error) {
	switch e.QuestionType {
	case grading.Single, grading.Multiple:
		return grading.ObjectiveCorrect(e.QuestionType, e.Answer, answer)
	case grading.Subjective:
		j, err := r.api.Judge(ctx, r.session, e.ID, answer)
		if err != nil {
			return false, err
		}
		return j.IsCorrect, nil
	default:
		return false, fmt.Errorf("%w: %q", grading.ErrUnknownQuestionType, e.QuestionType)
	}
}

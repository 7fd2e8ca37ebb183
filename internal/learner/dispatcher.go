package learner

import (
	"context"
	"snaplearn_backend/pkg/client"
	"snaplearn_backend/pkg/logger"
	"sync"

	"go.uber.org/zap"
)

type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateAwaitingGrading
	StateGraded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateAwaitingGrading:
		return "awaiting_grading"
	case StateGraded:
		return "graded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Submitter 提交作业的远端接口，*client.Client 满足该接口
type Submitter interface {
	Submit(ctx context.Context, s client.Session, videoID uint, answers []string) (*client.SubmitResult, error)
}

// Outcome 提交结果；Pending 时不带任何分数
type Outcome struct {
	Pending      bool
	TotalScore   float64
	Explanations []string
}

// Dispatcher 一次页面加载只允许成功提交一次
type Dispatcher struct {
	api     Submitter
	session client.Session
	videoID uint

	mu    sync.Mutex
	state State
}

func NewDispatcher(api Submitter, session client.Session, videoID uint) *Dispatcher {
	return &Dispatcher{api: api, session: session, videoID: videoID}
}

func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Busy 请求进行中，提交按钮应禁用
func (d *Dispatcher) Busy() bool {
	return d.State() == StateSubmitting
}

func (d *Dispatcher) Submit(ctx context.Context, sheet *AnswerSheet) (*Outcome, error) {
	d.mu.Lock()
	if d.state == StateSubmitting {
		d.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if sheet.Locked() {
		d.mu.Unlock()
		return nil, ErrSheetLocked
	}
	if err := sheet.Validate(); err != nil {
		d.mu.Unlock()
		return nil, err
	}
	d.state = StateSubmitting
	answers := sheet.Answers()
	d.mu.Unlock()

	res, err := d.api.Submit(ctx, d.session, d.videoID, answers)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.state = StateFailed
		logger.Named("learner").Warn("submit homework failed", zap.Uint("video_id", d.videoID), zap.Error(err))
		return nil, &ActionError{Message: MsgSubmitFailed, Err: err}
	}

	sheet.lock()
	if res.Status == client.StatusPending {
		d.state = StateAwaitingGrading
		return &Outcome{Pending: true}, nil
	}

	d.state = StateGraded
	out := &Outcome{Explanations: res.Explanations}
	if res.TotalScore != nil {
		out.TotalScore = *res.TotalScore
	}
	return out, nil
}

package learner

import (
	"context"
	"fmt"
	"snaplearn_backend/pkg/client"
	"snaplearn_backend/pkg/grading"
	"snaplearn_backend/pkg/logger"
	"sync"
	"time"

	"go.uber.org/zap"
)

type ScoreAPI interface {
	MyScores(ctx context.Context, s client.Session) ([]client.ScoreRecord, error)
}

type ScoreRow struct {
	HomeworkTitle string
	SubmittedAt   time.Time
	Status        string
	DetailEnabled bool
}

type ScoreDetail struct {
	Record  client.ScoreRecord
	Percent int
}

// ScoreLedger 成绩查询；列表一次拉全，详情只读本地缓存
type ScoreLedger struct {
	api     ScoreAPI
	session client.Session

	mu      sync.Mutex
	records []client.ScoreRecord
}

func NewScoreLedger(api ScoreAPI, session client.Session) *ScoreLedger {
	return &ScoreLedger{api: api, session: session}
}

func (l *ScoreLedger) Load(ctx context.Context) error {
	records, err := l.api.MyScores(ctx, l.session)
	if err != nil {
		logger.Named("learner").Warn("load scores failed", zap.Error(err))
		return &ActionError{Message: MsgLoadFailed, Err: err}
	}
	l.mu.Lock()
	l.records = records
	l.mu.Unlock()
	return nil
}

func (l *ScoreLedger) Rows() []ScoreRow {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows := make([]ScoreRow, len(l.records))
	for i, rec := range l.records {
		rows[i] = ScoreRow{
			HomeworkTitle: rec.HomeworkTitle,
			SubmittedAt:   rec.SubmittedAt,
			Status:        rec.Status,
			DetailEnabled: rec.Status == client.StatusGraded,
		}
	}
	return rows
}

// Detail 未批改的记录不允许查看详情
func (l *ScoreLedger) Detail(i int) (*ScoreDetail, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i < 0 || i >= len(l.records) {
		return nil, fmt.Errorf("score row %d out of range", i)
	}
	rec := l.records[i]
	if rec.Status != client.StatusGraded {
		return nil, ErrDetailDisabled
	}

	var total float64
	if rec.TotalScore != nil {
		total = *rec.TotalScore
	}
	return &ScoreDetail{
		Record:  rec,
		Percent: grading.Percentage(total, rec.PossibleScore),
	}, nil
}

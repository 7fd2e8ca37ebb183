package learner

import (
	"snaplearn_backend/pkg/client"
	"snaplearn_backend/pkg/grading"
)

type Exit string

const (
	ExitMistakeBook Exit = "mistake_book"
	ExitVideoList   Exit = "video_list"
	ExitScoreQuery  Exit = "score_query"
)

type ScoreView struct {
	Pending      bool
	Message      string
	Total        float64
	Possible     float64
	Percent      int
	Explanations []string
	Exits        []Exit
}

// Present 纯函数，只负责把提交结果转换为展示数据
func Present(o Outcome, questions []client.Question) ScoreView {
	if o.Pending {
		return ScoreView{
			Pending: true,
			Message: MsgPending,
			Exits:   []Exit{ExitScoreQuery, ExitVideoList},
		}
	}

	scores := make([]float64, len(questions))
	for i, q := range questions {
		scores[i] = q.Score
	}
	possible := grading.TotalPossible(scores...)

	return ScoreView{
		Total:        o.TotalScore,
		Possible:     possible,
		Percent:      grading.Percentage(o.TotalScore, possible),
		Explanations: append([]string(nil), o.Explanations...),
		Exits:        []Exit{ExitMistakeBook, ExitVideoList},
	}
}

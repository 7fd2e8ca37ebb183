package model

import (
	"snaplearn_backend/pkg/grading"

	"gorm.io/datatypes"
)

// swagger:model Homework
type Homework struct {
	BaseModel
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	TeacherID   uint       `gorm:"index;not null" json:"teacher_id"`
	VideoID     *uint      `gorm:"uniqueIndex" json:"video_id"` // 一个视频最多绑定一份作业
	Questions   []Question `gorm:"foreignKey:HomeworkID" json:"questions,omitempty"`
}

func (Homework) TableName() string {
	return "homeworks"
}

// PossibleScore 作业满分
func (h *Homework) PossibleScore() float64 {
	scores := make([]float64, len(h.Questions))
	for i, q := range h.Questions {
		scores[i] = q.Score
	}
	return grading.TotalPossible(scores...)
}

// HasSubjective 是否包含主观题
func (h *Homework) HasSubjective() bool {
	for _, q := range h.Questions {
		if q.QuestionType == grading.Subjective {
			return true
		}
	}
	return false
}

// swagger:model Question
type Question struct {
	BaseModel
	HomeworkID   uint                        `gorm:"index;not null" json:"homework_id"`
	QuestionType grading.QuestionType        `gorm:"size:20;not null" json:"question_type"`
	Text         string                      `gorm:"type:text;not null" json:"text"`
	Options      datatypes.JSONSlice[string] `json:"options"`
	Answer       string                      `gorm:"type:text" json:"-"` // 参考答案，学生端不下发
	Score        float64                     `gorm:"default:5" json:"score"`
	Position     int                         `gorm:"default:0" json:"position"`
}

func (Question) TableName() string {
	return "homework_questions"
}

func (q *Question) Item() grading.Item {
	return grading.Item{
		Type:      q.QuestionType,
		Text:      q.Text,
		Reference: q.Answer,
		Score:     q.Score,
	}
}

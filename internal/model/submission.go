package model

import (
	"time"

	"gorm.io/datatypes"
)

type ResultStatus string

const (
	ResultGraded  ResultStatus = "graded"
	ResultPending ResultStatus = "pending"
)

// StudentHomeworkResult 学生某份作业的最近一次提交，(homework, student) 唯一
// swagger:model StudentHomeworkResult
type StudentHomeworkResult struct {
	BaseModel
	HomeworkID   uint                        `gorm:"uniqueIndex:idx_result_homework_student;not null" json:"homework_id"`
	Homework     *Homework                   `gorm:"foreignKey:HomeworkID" json:"-"`
	StudentID    uint                        `gorm:"uniqueIndex:idx_result_homework_student;not null" json:"student_id"`
	Student      *User                       `gorm:"foreignKey:StudentID" json:"-"`
	Status       ResultStatus                `gorm:"size:20;index;default:'graded'" json:"status"`
	TotalScore   *float64                    `json:"total_score"` // pending 时为空
	Explanations datatypes.JSONSlice[string] `json:"explanations"`
	SubmittedAt  time.Time                   `json:"submitted_at"`
}

func (StudentHomeworkResult) TableName() string {
	return "student_homework_results"
}

// StudentAnswer 单题作答记录
// swagger:model StudentAnswer
type StudentAnswer struct {
	BaseModel
	HomeworkID  uint      `gorm:"index;not null" json:"homework_id"`
	QuestionID  uint      `gorm:"index;not null" json:"question_id"`
	Question    *Question `gorm:"foreignKey:QuestionID" json:"-"`
	StudentID   uint      `gorm:"index;not null" json:"student_id"`
	Answer      string    `gorm:"type:text" json:"answer"`
	Score       *float64  `json:"score"`
	Comment     string    `gorm:"type:text" json:"comment"`
	Graded      bool      `gorm:"default:false" json:"graded"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func (StudentAnswer) TableName() string {
	return "student_answers"
}

package model

type MistakeStatus string

const (
	MistakeGraded   MistakeStatus = "graded"
	MistakeUngraded MistakeStatus = "ungraded" // 所属提交仍在等待批改
)

// MistakeEntry 错题本条目，(student, question) 唯一，重复答错累加 WrongTimes
// swagger:model MistakeEntry
type MistakeEntry struct {
	BaseModel
	StudentID       uint          `gorm:"uniqueIndex:idx_mistake_student_question;not null" json:"student_id"`
	QuestionID      uint          `gorm:"uniqueIndex:idx_mistake_student_question;not null" json:"question_id"`
	Question        *Question     `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	HomeworkID      uint          `gorm:"index;not null" json:"homework_id"`
	WrongTimes      int           `gorm:"default:1" json:"wrong_times"`
	LastWrongAnswer string        `gorm:"type:text" json:"last_wrong_answer"`
	Status          MistakeStatus `gorm:"size:20;default:'graded'" json:"status"`
}

func (MistakeEntry) TableName() string {
	return "mistake_entries"
}

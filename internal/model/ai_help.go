package model

// AIHelpRecord 学生对某题请求 AI 提示的次数
type AIHelpRecord struct {
	BaseModel
	StudentID  uint `gorm:"uniqueIndex:idx_ai_help_student_question;not null" json:"student_id"`
	QuestionID uint `gorm:"uniqueIndex:idx_ai_help_student_question;not null" json:"question_id"`
	Times      int  `gorm:"default:0" json:"times"`
	Solved     bool `gorm:"default:false" json:"solved"`
}

func (AIHelpRecord) TableName() string {
	return "ai_help_records"
}

package model

// ScoreCorrectionLog 教师改分记录
type ScoreCorrectionLog struct {
	BaseModel
	AnswerID   uint     `gorm:"index;not null" json:"answer_id"`
	TeacherID  uint     `gorm:"index;not null" json:"teacher_id"`
	OldScore   *float64 `json:"old_score"`
	NewScore   float64  `json:"new_score"`
	OldComment string   `gorm:"type:text" json:"old_comment"`
	NewComment string   `gorm:"type:text" json:"new_comment"`
}

func (ScoreCorrectionLog) TableName() string {
	return "score_correction_logs"
}

// SubjectiveCorrectionLog 主观题 AI 评分与教师评分的对照，用于后续评估 AI 批改质量
type SubjectiveCorrectionLog struct {
	BaseModel
	AnswerID       uint    `gorm:"index;not null" json:"answer_id"`
	QuestionID     uint    `gorm:"index;not null" json:"question_id"`
	TeacherID      uint    `gorm:"index;not null" json:"teacher_id"`
	AIScore        float64 `json:"ai_score"`
	AIComment      string  `gorm:"type:text" json:"ai_comment"`
	TeacherScore   float64 `json:"teacher_score"`
	TeacherComment string  `gorm:"type:text" json:"teacher_comment"`
}

func (SubjectiveCorrectionLog) TableName() string {
	return "subjective_correction_logs"
}

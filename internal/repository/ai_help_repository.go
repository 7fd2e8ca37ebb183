package repository

import (
	"snaplearn_backend/internal/model"

	"gorm.io/gorm"
)

type AIHelpRepository struct {
	DB *gorm.DB
}

func NewAIHelpRepository(db *gorm.DB) *AIHelpRepository {
	return &AIHelpRepository{DB: db}
}

// Increment 累加求助次数并返回最新记录
func (r *AIHelpRepository) Increment(studentID, questionID uint) (*model.AIHelpRecord, error) {
	var rec model.AIHelpRecord
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(model.AIHelpRecord{StudentID: studentID, QuestionID: questionID}).
			FirstOrCreate(&rec).Error; err != nil {
			return err
		}
		rec.Times++
		return tx.Save(&rec).Error
	})
	return &rec, err
}

func (r *AIHelpRepository) Find(studentID, questionID uint) (*model.AIHelpRecord, error) {
	var rec model.AIHelpRecord
	err := r.DB.Where("student_id = ? AND question_id = ?", studentID, questionID).First(&rec).Error
	return &rec, err
}

func (r *AIHelpRepository) MarkSolved(rec *model.AIHelpRecord) error {
	rec.Solved = true
	return r.DB.Save(rec).Error
}

package repository

import (
	"errors"
	"snaplearn_backend/internal/model"

	"gorm.io/gorm"
)

type MistakeRepository struct {
	DB *gorm.DB
}

func NewMistakeRepository(db *gorm.DB) *MistakeRepository {
	return &MistakeRepository{DB: db}
}

func (r *MistakeRepository) WithTx(tx *gorm.DB) *MistakeRepository {
	return &MistakeRepository{DB: tx}
}

func (r *MistakeRepository) Find(studentID, questionID uint) (*model.MistakeEntry, error) {
	var mb model.MistakeEntry
	err := r.DB.Where("student_id = ? AND question_id = ?", studentID, questionID).First(&mb).Error
	return &mb, err
}

// RecordMiss 首次答错创建条目，再次答错累加次数
func (r *MistakeRepository) RecordMiss(studentID uint, q *model.Question, answer string, status model.MistakeStatus) (*model.MistakeEntry, error) {
	mb, err := r.Find(studentID, q.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		mb = &model.MistakeEntry{
			StudentID:       studentID,
			QuestionID:      q.ID,
			HomeworkID:      q.HomeworkID,
			WrongTimes:      1,
			LastWrongAnswer: answer,
			Status:          status,
		}
		return mb, r.DB.Create(mb).Error
	}
	if err != nil {
		return nil, err
	}

	mb.WrongTimes++
	mb.LastWrongAnswer = answer
	mb.Status = status
	return mb, r.DB.Save(mb).Error
}

// Clear 删除条目，返回是否存在
func (r *MistakeRepository) Clear(studentID, questionID uint) (bool, error) {
	res := r.DB.Unscoped().
		Where("student_id = ? AND question_id = ?", studentID, questionID).
		Delete(&model.MistakeEntry{})
	return res.RowsAffected > 0, res.Error
}

func (r *MistakeRepository) IncrementWrong(mb *model.MistakeEntry) error {
	if err := r.DB.Model(mb).Update("wrong_times", gorm.Expr("wrong_times + 1")).Error; err != nil {
		return err
	}
	mb.WrongTimes++
	return nil
}

func (r *MistakeRepository) ListByStudent(studentID uint) ([]model.MistakeEntry, error) {
	var entries []model.MistakeEntry
	err := r.DB.Preload("Question").
		Where("student_id = ?", studentID).
		Order("updated_at desc").
		Find(&entries).Error
	return entries, err
}

// MarkGraded 提交批改完成后放开对应错题
func (r *MistakeRepository) MarkGraded(studentID, homeworkID uint) error {
	return r.DB.Model(&model.MistakeEntry{}).
		Where("student_id = ? AND homework_id = ? AND status = ?", studentID, homeworkID, model.MistakeUngraded).
		Update("status", model.MistakeGraded).Error
}

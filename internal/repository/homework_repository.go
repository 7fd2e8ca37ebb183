package repository

import (
	"snaplearn_backend/internal/model"

	"gorm.io/gorm"
)

type HomeworkRepository struct {
	DB *gorm.DB
}

func NewHomeworkRepository(db *gorm.DB) *HomeworkRepository {
	return &HomeworkRepository{DB: db}
}

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("position asc, id asc")
}

// Create 作业与题目在同一事务中写入
func (r *HomeworkRepository) Create(hw *model.Homework) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		questions := hw.Questions
		hw.Questions = nil
		if err := tx.Create(hw).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].HomeworkID = hw.ID
			if questions[i].Position == 0 {
				questions[i].Position = i + 1
			}
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}
		hw.Questions = questions
		return nil
	})
}

func (r *HomeworkRepository) FindByID(id uint) (*model.Homework, error) {
	var hw model.Homework
	err := r.DB.Preload("Questions", orderedQuestions).First(&hw, id).Error
	return &hw, err
}

func (r *HomeworkRepository) FindByVideoID(videoID uint) (*model.Homework, error) {
	var hw model.Homework
	err := r.DB.Preload("Questions", orderedQuestions).Where("video_id = ?", videoID).First(&hw).Error
	return &hw, err
}

func (r *HomeworkRepository) VideoTaken(videoID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Homework{}).Where("video_id = ?", videoID).Count(&count).Error
	return count > 0, err
}

func (r *HomeworkRepository) ListByTeacher(teacherID uint) ([]model.Homework, error) {
	var hws []model.Homework
	err := r.DB.Where("teacher_id = ?", teacherID).Order("created_at desc").Find(&hws).Error
	return hws, err
}

// ListWithQuestions 全部作业，最新发布的在前
func (r *HomeworkRepository) ListWithQuestions() ([]model.Homework, error) {
	var hws []model.Homework
	err := r.DB.Preload("Questions", orderedQuestions).Order("created_at desc, id desc").Find(&hws).Error
	return hws, err
}

func (r *HomeworkRepository) AddQuestion(q *model.Question) error {
	if q.Position == 0 {
		var maxPos int
		r.DB.Model(&model.Question{}).Where("homework_id = ?", q.HomeworkID).
			Select("COALESCE(MAX(position), 0)").Scan(&maxPos)
		q.Position = maxPos + 1
	}
	return r.DB.Create(q).Error
}

func (r *HomeworkRepository) FindQuestionByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, id).Error
	return &q, err
}

// Delete 级联删除题目、作答、成绩、错题与 AI 求助记录
func (r *HomeworkRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&model.Question{}).Where("homework_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Unscoped().Where("question_id IN ?", questionIDs).Delete(&model.AIHelpRecord{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("homework_id = ?", id).Delete(&model.MistakeEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("homework_id = ?", id).Delete(&model.StudentAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("homework_id = ?", id).Delete(&model.StudentHomeworkResult{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("homework_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Homework{}, id).Error
	})
}

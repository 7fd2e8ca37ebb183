package repository

import (
	"errors"
	"snaplearn_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) WithTx(tx *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: tx}
}

func (r *SubmissionRepository) FindResult(homeworkID, studentID uint) (*model.StudentHomeworkResult, error) {
	var res model.StudentHomeworkResult
	err := r.DB.Where("homework_id = ? AND student_id = ?", homeworkID, studentID).First(&res).Error
	return &res, err
}

// UpsertResult 每个学生每份作业只保留一条成绩，重复提交覆盖旧记录
func (r *SubmissionRepository) UpsertResult(result *model.StudentHomeworkResult) error {
	existing, err := r.FindResult(result.HomeworkID, result.StudentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.DB.Create(result).Error
	}
	if err != nil {
		return err
	}
	result.ID = existing.ID
	result.CreatedAt = existing.CreatedAt
	return r.DB.Save(result).Error
}

func (r *SubmissionRepository) SaveResult(result *model.StudentHomeworkResult) error {
	return r.DB.Save(result).Error
}

// ReplaceAnswers 删除学生在该作业下的旧作答后写入新作答
func (r *SubmissionRepository) ReplaceAnswers(homeworkID, studentID uint, answers []model.StudentAnswer) error {
	if err := r.DB.Unscoped().
		Where("homework_id = ? AND student_id = ?", homeworkID, studentID).
		Delete(&model.StudentAnswer{}).Error; err != nil {
		return err
	}
	if len(answers) == 0 {
		return nil
	}
	return r.DB.Create(&answers).Error
}

func (r *SubmissionRepository) ListAnswers(homeworkID, studentID uint) ([]model.StudentAnswer, error) {
	var answers []model.StudentAnswer
	err := r.DB.Preload("Question").
		Joins("JOIN homework_questions q ON q.id = student_answers.question_id").
		Where("student_answers.homework_id = ? AND student_answers.student_id = ?", homeworkID, studentID).
		Order("q.position asc, q.id asc").
		Find(&answers).Error
	return answers, err
}

func (r *SubmissionRepository) FindAnswerByID(id uint) (*model.StudentAnswer, error) {
	var ans model.StudentAnswer
	err := r.DB.Preload("Question").First(&ans, id).Error
	return &ans, err
}

func (r *SubmissionRepository) SaveAnswer(ans *model.StudentAnswer) error {
	return r.DB.Omit("Question").Save(ans).Error
}

func (r *SubmissionRepository) SumScores(homeworkID, studentID uint) (float64, error) {
	var total float64
	err := r.DB.Model(&model.StudentAnswer{}).
		Where("homework_id = ? AND student_id = ?", homeworkID, studentID).
		Select("COALESCE(SUM(score), 0)").
		Scan(&total).Error
	return total, err
}

func (r *SubmissionRepository) ListPending(limit int) ([]model.StudentHomeworkResult, error) {
	var results []model.StudentHomeworkResult
	q := r.DB.Where("status = ?", model.ResultPending).Order("submitted_at asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&results).Error
	return results, err
}

func (r *SubmissionRepository) ListResultsByStudent(studentID uint) ([]model.StudentHomeworkResult, error) {
	var results []model.StudentHomeworkResult
	err := r.DB.Preload("Homework").Preload("Homework.Questions").
		Where("student_id = ?", studentID).
		Order("submitted_at desc").
		Find(&results).Error
	return results, err
}

type SubmitterRow struct {
	ID          uint               `json:"id"`
	Username    string             `json:"username"`
	Avatar      string             `json:"avatar"`
	Status      model.ResultStatus `json:"status"`
	TotalScore  *float64           `json:"total_score"`
	SubmittedAt time.Time          `json:"submitted_at"`
}

func (r *SubmissionRepository) ListSubmitters(homeworkID uint) ([]SubmitterRow, error) {
	var rows []SubmitterRow
	err := r.DB.Table("student_homework_results r").
		Select("u.id as id, u.name as username, u.avatar as avatar, r.status as status, r.total_score as total_score, r.submitted_at as submitted_at").
		Joins("JOIN users u ON u.id = r.student_id").
		Where("r.homework_id = ? AND r.deleted_at IS NULL", homeworkID).
		Order("r.submitted_at desc").
		Scan(&rows).Error
	return rows, err
}

func (r *SubmissionRepository) CreateScoreLog(log *model.ScoreCorrectionLog) error {
	return r.DB.Create(log).Error
}

func (r *SubmissionRepository) CreateSubjectiveLog(log *model.SubjectiveCorrectionLog) error {
	return r.DB.Create(log).Error
}

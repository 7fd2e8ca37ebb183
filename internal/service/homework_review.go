package service

import (
	"errors"
	"snaplearn_backend/internal/model"
	"snaplearn_backend/internal/repository"
	"snaplearn_backend/internal/util"
	"snaplearn_backend/pkg/grading"
	"snaplearn_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultQuestionScore = 5

// Actor 发起请求的用户
type Actor struct {
	UserID uint
	Role   model.UserRole
}

type QuestionInput struct {
	QuestionType grading.QuestionType `json:"question_type" binding:"required"`
	Text         string               `json:"text" binding:"required"`
	Options      []string             `json:"options"`
	Answer       string               `json:"answer"`
	Score        float64              `json:"score"`
}

type CreateHomeworkRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	VideoID     *uint           `json:"video_id"`
	Questions   []QuestionInput `json:"questions"`
}

type HomeworkSummary struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoID     *uint     `json:"video_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type UpdateScoreRequest struct {
	AnswerID uint     `json:"answer_id" binding:"required"`
	NewScore *float64 `json:"new_score" binding:"required"`
	Comment  string   `json:"comment"`
}

type CorrectSubjectiveRequest struct {
	AnswerID       uint     `json:"answer_id" binding:"required"`
	TeacherScore   *float64 `json:"teacher_score" binding:"required"`
	TeacherComment string   `json:"teacher_comment"`
}

type AnswerDetail struct {
	AnswerID     uint                 `json:"answer_id"`
	QuestionID   uint                 `json:"question_id"`
	QuestionText string               `json:"question_text"`
	QuestionType grading.QuestionType `json:"question_type"`
	Answer       string               `json:"answer"`
	Score        *float64             `json:"score"`
	MaxScore     float64              `json:"max_score"`
	Comment      string               `json:"comment"`
	Graded       bool                 `json:"graded"`
}

type StudentDetailView struct {
	HomeworkID   uint               `json:"homework_id"`
	StudentID    uint               `json:"student_id"`
	Status       model.ResultStatus `json:"status"`
	TotalScore   *float64           `json:"total_score"`
	SubmittedAt  time.Time          `json:"submitted_at"`
	Explanations []string           `json:"explanations"`
	Answers      []AnswerDetail     `json:"answers"`
}

func buildQuestion(in QuestionInput) (model.Question, error) {
	if !in.QuestionType.Valid() {
		return model.Question{}, grading.ErrUnknownQuestionType
	}
	if err := grading.ValidateReference(in.QuestionType, in.Options, in.Answer); err != nil {
		return model.Question{}, err
	}
	if in.Score < 0 {
		return model.Question{}, util.ErrScoreOutOfRange
	}
	if in.Score == 0 {
		in.Score = defaultQuestionScore
	}

	answer := strings.TrimSpace(in.Answer)
	switch in.QuestionType {
	case grading.Single:
		answer = strings.ToUpper(answer)
	case grading.Multiple:
		answer = grading.JoinLetters(grading.ParseLetters(answer))
	}

	return model.Question{
		QuestionType: in.QuestionType,
		Text:         strings.TrimSpace(in.Text),
		Options:      in.Options,
		Answer:       answer,
		Score:        in.Score,
	}, nil
}

// requireAuthor 只有认证教师或管理员可以发布与修改作业
func (s *HomeworkService) requireAuthor(actor Actor) error {
	if actor.Role == model.Admin {
		return nil
	}
	user, err := s.Users.FindByID(actor.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if !user.CanAuthorHomework() {
		return util.ErrTeacherNotVerified
	}
	return nil
}

// ownedHomework 作业布置者或管理员才能查看与修改提交
func (s *HomeworkService) ownedHomework(actor Actor, homeworkID uint) (*model.Homework, error) {
	hw, err := s.Homeworks.FindByID(homeworkID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrHomeworkNotFound
	}
	if err != nil {
		return nil, err
	}
	if actor.Role != model.Admin && hw.TeacherID != actor.UserID {
		return nil, util.ErrPermissionDenied
	}
	return hw, nil
}

func (s *HomeworkService) CreateHomework(actor Actor, req CreateHomeworkRequest) (*model.Homework, error) {
	if err := s.requireAuthor(actor); err != nil {
		return nil, err
	}

	if req.VideoID != nil {
		taken, err := s.Homeworks.VideoTaken(*req.VideoID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, util.ErrVideoTaken
		}
	}

	hw := &model.Homework{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		TeacherID:   actor.UserID,
		VideoID:     req.VideoID,
	}
	for _, in := range req.Questions {
		q, err := buildQuestion(in)
		if err != nil {
			return nil, err
		}
		hw.Questions = append(hw.Questions, q)
	}

	if err := s.Homeworks.Create(hw); err != nil {
		return nil, err
	}
	logger.Log.Info("homework created",
		zap.Uint("homework_id", hw.ID),
		zap.Uint("teacher_id", actor.UserID),
		zap.Int("questions", len(hw.Questions)),
	)
	return hw, nil
}

func (s *HomeworkService) AddQuestion(actor Actor, homeworkID uint, in QuestionInput) (*model.Question, error) {
	if err := s.requireAuthor(actor); err != nil {
		return nil, err
	}
	if _, err := s.ownedHomework(actor, homeworkID); err != nil {
		return nil, err
	}

	q, err := buildQuestion(in)
	if err != nil {
		return nil, err
	}
	q.HomeworkID = homeworkID
	if err := s.Homeworks.AddQuestion(&q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *HomeworkService) DeleteHomework(actor Actor, homeworkID uint) error {
	if _, err := s.ownedHomework(actor, homeworkID); err != nil {
		return err
	}
	if err := s.Homeworks.Delete(homeworkID); err != nil {
		return err
	}
	logger.Log.Info("homework deleted", zap.Uint("homework_id", homeworkID), zap.Uint("by", actor.UserID))
	return nil
}

func (s *HomeworkService) ListMine(teacherID uint) ([]HomeworkSummary, error) {
	hws, err := s.Homeworks.ListByTeacher(teacherID)
	if err != nil {
		return nil, err
	}
	list := make([]HomeworkSummary, 0, len(hws))
	for _, hw := range hws {
		list = append(list, HomeworkSummary{
			ID:          hw.ID,
			Title:       hw.Title,
			Description: hw.Description,
			VideoID:     hw.VideoID,
			CreatedAt:   hw.CreatedAt,
		})
	}
	return list, nil
}

// ListSubmitters 头像字段转换为可访问的 URL
func (s *HomeworkService) ListSubmitters(actor Actor, homeworkID uint) ([]repository.SubmitterRow, error) {
	if _, err := s.ownedHomework(actor, homeworkID); err != nil {
		return nil, err
	}
	rows, err := s.Submissions.ListSubmitters(homeworkID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repository.SubmitterRow{}
	}
	if s.Storage != nil {
		for i := range rows {
			if rows[i].Avatar != "" {
				rows[i].Avatar = s.Storage.GetURL(rows[i].Avatar)
			}
		}
	}
	return rows, nil
}

func (s *HomeworkService) StudentDetail(actor Actor, homeworkID, studentID uint) (*StudentDetailView, error) {
	if _, err := s.ownedHomework(actor, homeworkID); err != nil {
		return nil, err
	}
	return s.loadDetail(homeworkID, studentID)
}

func (s *HomeworkService) loadDetail(homeworkID, studentID uint) (*StudentDetailView, error) {
	result, err := s.Submissions.FindResult(homeworkID, studentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}
	answers, err := s.Submissions.ListAnswers(homeworkID, studentID)
	if err != nil {
		return nil, err
	}

	view := &StudentDetailView{
		HomeworkID:   homeworkID,
		StudentID:    studentID,
		Status:       result.Status,
		TotalScore:   result.TotalScore,
		SubmittedAt:  result.SubmittedAt,
		Explanations: []string(result.Explanations),
		Answers:      make([]AnswerDetail, 0, len(answers)),
	}
	if view.Explanations == nil {
		view.Explanations = []string{}
	}
	for _, a := range answers {
		d := AnswerDetail{
			AnswerID:   a.ID,
			QuestionID: a.QuestionID,
			Answer:     a.Answer,
			Score:      a.Score,
			Comment:    a.Comment,
			Graded:     a.Graded,
		}
		if a.Question != nil {
			d.QuestionText = a.Question.Text
			d.QuestionType = a.Question.QuestionType
			d.MaxScore = a.Question.Score
		}
		view.Answers = append(view.Answers, d)
	}
	return view, nil
}

// UpdateScore 教师改分，记录改分日志并重新计算总分
func (s *HomeworkService) UpdateScore(actor Actor, req UpdateScoreRequest) (*StudentDetailView, error) {
	ans, err := s.reviewableAnswer(actor, req.AnswerID)
	if err != nil {
		return nil, err
	}

	oldScore, oldComment := ans.Score, ans.Comment
	err = s.applyOverride(ans, *req.NewScore, req.Comment, func(tx *repository.SubmissionRepository) error {
		return tx.CreateScoreLog(&model.ScoreCorrectionLog{
			AnswerID:   ans.ID,
			TeacherID:  actor.UserID,
			OldScore:   oldScore,
			NewScore:   *req.NewScore,
			OldComment: oldComment,
			NewComment: req.Comment,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.loadDetail(ans.HomeworkID, ans.StudentID)
}

// CorrectSubjective 记录 AI 评分与教师评分的对照，并以教师评分为准
func (s *HomeworkService) CorrectSubjective(actor Actor, req CorrectSubjectiveRequest) (*StudentDetailView, error) {
	ans, err := s.reviewableAnswer(actor, req.AnswerID)
	if err != nil {
		return nil, err
	}
	if ans.Question.QuestionType != grading.Subjective {
		return nil, util.ErrNotSubjective
	}

	var aiScore float64
	if ans.Score != nil {
		aiScore = *ans.Score
	}
	aiComment := ans.Comment
	err = s.applyOverride(ans, *req.TeacherScore, req.TeacherComment, func(tx *repository.SubmissionRepository) error {
		return tx.CreateSubjectiveLog(&model.SubjectiveCorrectionLog{
			AnswerID:       ans.ID,
			QuestionID:     ans.QuestionID,
			TeacherID:      actor.UserID,
			AIScore:        aiScore,
			AIComment:      aiComment,
			TeacherScore:   *req.TeacherScore,
			TeacherComment: req.TeacherComment,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.loadDetail(ans.HomeworkID, ans.StudentID)
}

func (s *HomeworkService) reviewableAnswer(actor Actor, answerID uint) (*model.StudentAnswer, error) {
	if err := s.requireAuthor(actor); err != nil {
		return nil, err
	}
	ans, err := s.Submissions.FindAnswerByID(answerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAnswerNotFound
	}
	if err != nil {
		return nil, err
	}
	if ans.Question == nil {
		return nil, util.ErrQuestionNotFound
	}
	if _, err := s.ownedHomework(actor, ans.HomeworkID); err != nil {
		return nil, err
	}
	return ans, nil
}

// applyOverride 在一个事务内写日志、更新作答、重算总分并同步错题本
func (s *HomeworkService) applyOverride(ans *model.StudentAnswer, score float64, comment string, audit func(*repository.SubmissionRepository) error) error {
	if score < 0 || score > ans.Question.Score {
		return util.ErrScoreOutOfRange
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		subs := s.Submissions.WithTx(tx)
		mistakes := s.Mistakes.WithTx(tx)

		if err := audit(subs); err != nil {
			return err
		}

		ans.Score = &score
		ans.Comment = comment
		ans.Graded = true
		if err := subs.SaveAnswer(ans); err != nil {
			return err
		}

		result, err := subs.FindResult(ans.HomeworkID, ans.StudentID)
		if err != nil {
			return err
		}
		total, err := subs.SumScores(ans.HomeworkID, ans.StudentID)
		if err != nil {
			return err
		}

		answers, err := subs.ListAnswers(ans.HomeworkID, ans.StudentID)
		if err != nil {
			return err
		}
		allGraded := true
		for _, a := range answers {
			if !a.Graded {
				allGraded = false
				break
			}
		}
		result.Explanations = explainAnswers(answers)
		if allGraded {
			result.Status = model.ResultGraded
			result.TotalScore = &total
		} else if result.Status == model.ResultGraded {
			result.TotalScore = &total
		}
		if err := subs.SaveResult(result); err != nil {
			return err
		}

		status := model.MistakeUngraded
		if result.Status == model.ResultGraded {
			status = model.MistakeGraded
			if err := mistakes.MarkGraded(ans.StudentID, ans.HomeworkID); err != nil {
				return err
			}
		}

		// 满分视为答对，移出错题本；否则保证错题本中有该题
		if score >= ans.Question.Score {
			_, err := mistakes.Clear(ans.StudentID, ans.QuestionID)
			return err
		}
		if _, err := mistakes.Find(ans.StudentID, ans.QuestionID); errors.Is(err, gorm.ErrRecordNotFound) {
			_, err := mistakes.RecordMiss(ans.StudentID, ans.Question, ans.Answer, status)
			return err
		} else if err != nil {
			return err
		}
		return nil
	})
}

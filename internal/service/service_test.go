package service

import (
	"context"
	"errors"
	"snaplearn_backend/internal/config"
	"snaplearn_backend/internal/model"
	"snaplearn_backend/internal/repository"
	"snaplearn_backend/internal/util"
	"snaplearn_backend/pkg/database"
	"snaplearn_backend/pkg/grading"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeGrader struct {
	score   float64
	comment string
	err     error
	calls   int
}

func (f *fakeGrader) Judge(context.Context, grading.Item, string) (grading.Judgment, error) {
	f.calls++
	if f.err != nil {
		return grading.Judgment{}, f.err
	}
	return grading.Judgment{Score: f.score, Comment: f.comment}, nil
}

func (f *fakeGrader) Hint(context.Context, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "先想想质数的定义", nil
}

type fixture struct {
	db          *gorm.DB
	teacher     *model.User
	student     *model.User
	mixed       *model.Homework // video 1，含主观题
	objective   *model.Homework // video 2，仅客观题
	users       *repository.UserRepository
	homeworks   *repository.HomeworkRepository
	submissions *repository.SubmissionRepository
	mistakes    *repository.MistakeRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)

	f := &fixture{
		db:          db,
		users:       repository.NewUserRepository(db),
		homeworks:   repository.NewHomeworkRepository(db),
		submissions: repository.NewSubmissionRepository(db),
		mistakes:    repository.NewMistakeRepository(db),
	}
	f.teacher = &model.User{Name: "王老师", Email: "teacher@example.com", Password: "x", Role: model.Teacher, IsVerifiedTeacher: true}
	f.student = &model.User{Name: "小明", Email: "student@example.com", Password: "x", Role: model.Student}
	require.NoError(t, f.users.Create(f.teacher))
	require.NoError(t, f.users.Create(f.student))

	single := model.Question{QuestionType: grading.Single, Text: "1+1=?", Options: []string{"1", "2"}, Answer: "B", Score: 5}
	multiple := model.Question{QuestionType: grading.Multiple, Text: "哪些是质数", Options: []string{"2", "3", "4"}, Answer: "A,B", Score: 5}
	essay := model.Question{QuestionType: grading.Subjective, Text: "解释闭包", Answer: "函数与其引用环境", Score: 10}

	v1, v2 := uint(1), uint(2)
	f.mixed = &model.Homework{Title: "混合作业", TeacherID: f.teacher.ID, VideoID: &v1, Questions: []model.Question{single, multiple, essay}}
	f.objective = &model.Homework{Title: "客观作业", TeacherID: f.teacher.ID, VideoID: &v2, Questions: []model.Question{single, multiple}}
	require.NoError(t, f.homeworks.Create(f.mixed))
	require.NoError(t, f.homeworks.Create(f.objective))
	return f
}

func (f *fixture) homeworkService(deferSubjective bool, judge grading.Judge) *HomeworkService {
	return NewHomeworkService(f.db, f.homeworks, f.submissions, f.mistakes, f.users,
		config.GradingConfig{DeferSubjective: deferSubjective}, judge)
}

func (f *fixture) teacherActor() Actor {
	return Actor{UserID: f.teacher.ID, Role: model.Teacher}
}

func TestGetForVideoHidesReferenceAnswers(t *testing.T) {
	f := newFixture(t)
	svc := f.homeworkService(true, nil)

	view, err := svc.GetForVideo(1)
	require.NoError(t, err)
	require.NotNil(t, view)
	require.Len(t, view.Questions, 3)
	assert.Equal(t, f.mixed.ID, view.ID)
	assert.Equal(t, grading.Multiple, view.Questions[1].QuestionType)
	assert.Equal(t, []string{"2", "3", "4"}, view.Questions[1].Options)
	assert.Equal(t, []string{}, view.Questions[2].Options)

	view, err = svc.GetForVideo(404)
	require.NoError(t, err)
	assert.Nil(t, view)
}

func TestListForStudents(t *testing.T) {
	f := newFixture(t)
	svc := f.homeworkService(true, nil)

	views, err := svc.ListForStudents()
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, f.objective.ID, views[0].ID)
	assert.Equal(t, f.mixed.ID, views[1].ID)
	require.Len(t, views[1].Questions, 3)
	assert.Equal(t, "1+1=?", views[1].Questions[0].Text)
	assert.Equal(t, grading.Subjective, views[1].Questions[2].QuestionType)
	assert.Equal(t, []string{}, views[1].Questions[2].Options)
}

func TestSubmitObjectiveGradedImmediately(t *testing.T) {
	f := newFixture(t)
	svc := f.homeworkService(true, nil)

	res, err := svc.Submit(context.Background(), f.student.ID, 2, []string{"b", "A"})
	require.NoError(t, err)
	assert.Equal(t, model.ResultGraded, res.Status)
	require.NotNil(t, res.TotalScore)
	assert.Equal(t, 5.0, *res.TotalScore)
	assert.Equal(t, []string{grading.ObjectiveExplanation("哪些是质数", "A", "A,B")}, res.Explanations)

	entry, err := f.mistakes.Find(f.student.ID, f.objective.Questions[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.WrongTimes)
	assert.Equal(t, model.MistakeGraded, entry.Status)

	// 再次提交全对，覆盖旧成绩并清除错题
	res, err = svc.Submit(context.Background(), f.student.ID, 2, []string{"B", "B,A"})
	require.NoError(t, err)
	assert.Equal(t, 10.0, *res.TotalScore)
	assert.Empty(t, res.Explanations)

	_, err = f.mistakes.Find(f.student.ID, f.objective.Questions[1].ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	f.db.Model(&model.StudentHomeworkResult{}).Where("student_id = ?", f.student.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSubmitUnknownVideo(t *testing.T) {
	f := newFixture(t)
	_, err := f.homeworkService(true, nil).Submit(context.Background(), f.student.ID, 99, nil)
	assert.ErrorIs(t, err, util.ErrHomeworkNotFound)
}

func TestSubmitDeferredThenBatchGraded(t *testing.T) {
	f := newFixture(t)
	svc := f.homeworkService(true, nil)

	res, err := svc.Submit(context.Background(), f.student.ID, 1, []string{"A", "B,A", "闭包就是函数"})
	require.NoError(t, err)
	assert.Equal(t, model.ResultPending, res.Status)
	assert.Nil(t, res.TotalScore)
	assert.Empty(t, res.Explanations)

	entry, err := f.mistakes.Find(f.student.ID, f.mixed.Questions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.MistakeUngraded, entry.Status)

	scores, err := svc.MyScores(f.student.ID)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, model.ResultPending, scores[0].Status)
	assert.Nil(t, scores[0].TotalScore)
	assert.Equal(t, 20.0, scores[0].PossibleScore)

	judge := &fakeGrader{score: 6, comment: "不够完整"}
	batch := NewBatchGrader(f.db, f.homeworks, f.submissions, f.mistakes, NewLocalLocker(),
		config.GradingConfig{BatchSize: 10}, judge)
	n, err := batch.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, judge.calls)

	result, err := f.submissions.FindResult(f.mixed.ID, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ResultGraded, result.Status)
	require.NotNil(t, result.TotalScore)
	assert.Equal(t, 11.0, *result.TotalScore)
	assert.Equal(t, []string{
		grading.ObjectiveExplanation("1+1=?", "A", "B"),
		grading.SubjectiveExplanation("解释闭包", "不够完整"),
	}, []string(result.Explanations))

	entries, err := f.mistakes.ListByStudent(f.student.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, model.MistakeGraded, e.Status)
	}

	n, err = batch.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "nothing left pending")
}

func TestSubmitInlineAIFailureScoresZero(t *testing.T) {
	f := newFixture(t)
	svc := f.homeworkService(false, &fakeGrader{err: errors.New("timeout")})

	res, err := svc.Submit(context.Background(), f.student.ID, 1, []string{"B", "A,B", "随便写写"})
	require.NoError(t, err)
	assert.Equal(t, model.ResultGraded, res.Status)
	assert.Equal(t, 10.0, *res.TotalScore)
	assert.Equal(t, []string{grading.SubjectiveExplanation("解释闭包", grading.CommentAIFailed)}, res.Explanations)

	answers, err := f.submissions.ListAnswers(f.mixed.ID, f.student.ID)
	require.NoError(t, err)
	require.Len(t, answers, 3)
	assert.Equal(t, grading.CommentAIFailed, answers[2].Comment)
	assert.True(t, answers[2].Graded)
}

func TestBatchGraderSkipsWhenLocked(t *testing.T) {
	f := newFixture(t)
	_, err := f.homeworkService(true, nil).Submit(context.Background(), f.student.ID, 1, []string{"B", "A,B", "x"})
	require.NoError(t, err)

	locker := NewLocalLocker()
	ok, err := locker.TryLock(context.Background(), batchLockKey, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	batch := NewBatchGrader(f.db, f.homeworks, f.submissions, f.mistakes, locker,
		config.GradingConfig{}, &fakeGrader{score: 10})
	n, err := batch.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateScore(t *testing.T) {
	f := newFixture(t)
	svc := f.homeworkService(true, nil)
	_, err := svc.Submit(context.Background(), f.student.ID, 2, []string{"A", "A,B"})
	require.NoError(t, err)

	answers, err := f.submissions.ListAnswers(f.objective.ID, f.student.ID)
	require.NoError(t, err)
	wrong := answers[0]

	other := &model.User{Name: "李老师", Email: "other@example.com", Password: "x", Role: model.Teacher, IsVerifiedTeacher: true}
	require.NoError(t, f.users.Create(other))
	score := 5.0
	_, err = svc.UpdateScore(Actor{UserID: other.ID, Role: model.Teacher}, UpdateScoreRequest{AnswerID: wrong.ID, NewScore: &score})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	tooHigh := 6.0
	_, err = svc.UpdateScore(f.teacherActor(), UpdateScoreRequest{AnswerID: wrong.ID, NewScore: &tooHigh})
	assert.ErrorIs(t, err, util.ErrScoreOutOfRange)

	detail, err := svc.UpdateScore(f.teacherActor(), UpdateScoreRequest{AnswerID: wrong.ID, NewScore: &score, Comment: "思路正确"})
	require.NoError(t, err)
	assert.Equal(t, 10.0, *detail.TotalScore)
	assert.Empty(t, detail.Explanations, "full marks leave no wrong-answer line")
	assert.Equal(t, "思路正确", detail.Answers[0].Comment)
	assert.Equal(t, 5.0, detail.Answers[0].MaxScore)

	_, err = f.mistakes.Find(f.student.ID, f.objective.Questions[0].ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "full credit removes the mistake")

	var logs []model.ScoreCorrectionLog
	require.NoError(t, f.db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, 0.0, *logs[0].OldScore)
	assert.Equal(t, 5.0, logs[0].NewScore)

	scores, err := svc.MyScores(f.student.ID)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Empty(t, scores[0].Explanations)

	// 改为部分得分后重新出现解析
	partial := 2.0
	detail, err = svc.UpdateScore(f.teacherActor(), UpdateScoreRequest{AnswerID: wrong.ID, NewScore: &partial})
	require.NoError(t, err)
	assert.Equal(t, 7.0, *detail.TotalScore)
	assert.Equal(t, []string{grading.ObjectiveExplanation("1+1=?", "A", "B")}, detail.Explanations)
}

func TestUpdateScoreCompletesPendingWithSubjectiveComment(t *testing.T) {
	f := newFixture(t)
	svc := f.homeworkService(true, nil)
	_, err := svc.Submit(context.Background(), f.student.ID, 1, []string{"B", "A", "闭包就是函数"})
	require.NoError(t, err)

	answers, err := f.submissions.ListAnswers(f.mixed.ID, f.student.ID)
	require.NoError(t, err)
	require.Len(t, answers, 3)

	score := 6.0
	detail, err := svc.UpdateScore(f.teacherActor(), UpdateScoreRequest{AnswerID: answers[2].ID, NewScore: &score, Comment: "缺少引用环境"})
	require.NoError(t, err)
	assert.Equal(t, model.ResultGraded, detail.Status)
	assert.Equal(t, 11.0, *detail.TotalScore)
	assert.Equal(t, []string{
		grading.ObjectiveExplanation("哪些是质数", "A", "A,B"),
		grading.SubjectiveExplanation("解释闭包", "缺少引用环境"),
	}, detail.Explanations)
}

func TestCorrectSubjective(t *testing.T) {
	f := newFixture(t)
	svc := f.homeworkService(false, &fakeGrader{score: 4, comment: "一般"})
	_, err := svc.Submit(context.Background(), f.student.ID, 1, []string{"B", "A,B", "答案"})
	require.NoError(t, err)

	answers, err := f.submissions.ListAnswers(f.mixed.ID, f.student.ID)
	require.NoError(t, err)

	score := 8.0
	_, err = svc.CorrectSubjective(f.teacherActor(), CorrectSubjectiveRequest{AnswerID: answers[0].ID, TeacherScore: &score})
	assert.ErrorIs(t, err, util.ErrNotSubjective)

	detail, err := svc.CorrectSubjective(f.teacherActor(), CorrectSubjectiveRequest{AnswerID: answers[2].ID, TeacherScore: &score, TeacherComment: "不错"})
	require.NoError(t, err)
	assert.Equal(t, 18.0, *detail.TotalScore)

	var log model.SubjectiveCorrectionLog
	require.NoError(t, f.db.First(&log).Error)
	assert.Equal(t, 4.0, log.AIScore)
	assert.Equal(t, "一般", log.AIComment)
	assert.Equal(t, 8.0, log.TeacherScore)
}

func TestListSubmittersAndDetail(t *testing.T) {
	f := newFixture(t)
	svc := f.homeworkService(true, nil)
	_, err := svc.Submit(context.Background(), f.student.ID, 2, []string{"B", "A"})
	require.NoError(t, err)

	rows, err := svc.ListSubmitters(f.teacherActor(), f.objective.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "小明", rows[0].Username)

	_, err = svc.ListSubmitters(Actor{UserID: f.student.ID, Role: model.Student}, f.objective.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	detail, err := svc.StudentDetail(Actor{UserID: 999, Role: model.Admin}, f.objective.ID, f.student.ID)
	require.NoError(t, err)
	require.Len(t, detail.Answers, 2)
	assert.Equal(t, "1+1=?", detail.Answers[0].QuestionText)
	assert.Equal(t, grading.Multiple, detail.Answers[1].QuestionType)

	_, err = svc.StudentDetail(f.teacherActor(), f.objective.ID, 12345)
	assert.ErrorIs(t, err, util.ErrResultNotFound)
}

func TestCreateHomework(t *testing.T) {
	f := newFixture(t)
	svc := f.homeworkService(true, nil)
	video := uint(3)
	req := CreateHomeworkRequest{
		Title:   "新作业",
		VideoID: &video,
		Questions: []QuestionInput{
			{QuestionType: grading.Multiple, Text: "选出偶数", Options: []string{"1", "2", "4"}, Answer: "c, b"},
			{QuestionType: grading.Subjective, Text: "简述"},
		},
	}

	unverified := &model.User{Name: "新老师", Email: "new@example.com", Password: "x", Role: model.Teacher}
	require.NoError(t, f.users.Create(unverified))
	_, err := svc.CreateHomework(Actor{UserID: unverified.ID, Role: model.Teacher}, req)
	assert.ErrorIs(t, err, util.ErrTeacherNotVerified)

	hw, err := svc.CreateHomework(f.teacherActor(), req)
	require.NoError(t, err)
	require.Len(t, hw.Questions, 2)
	assert.Equal(t, "C,B", hw.Questions[0].Answer)
	assert.Equal(t, 5.0, hw.Questions[0].Score)

	_, err = svc.CreateHomework(f.teacherActor(), req)
	assert.ErrorIs(t, err, util.ErrVideoTaken)

	bad := CreateHomeworkRequest{Title: "坏题", Questions: []QuestionInput{
		{QuestionType: grading.Single, Text: "?", Options: []string{"x"}, Answer: "B"},
	}}
	_, err = svc.CreateHomework(f.teacherActor(), bad)
	assert.ErrorIs(t, err, grading.ErrInvalidReference)

	q, err := svc.AddQuestion(f.teacherActor(), hw.ID, QuestionInput{QuestionType: grading.Single, Text: "追加", Options: []string{"x", "y"}, Answer: "b", Score: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, q.Position)
	assert.Equal(t, "B", q.Answer)

	require.NoError(t, svc.DeleteHomework(f.teacherActor(), hw.ID))
	_, err = f.homeworks.FindByID(hw.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, svc.DeleteHomework(f.teacherActor(), hw.ID), util.ErrHomeworkNotFound)
	_, err = svc.AddQuestion(f.teacherActor(), hw.ID, QuestionInput{QuestionType: grading.Subjective, Text: "?"})
	assert.ErrorIs(t, err, util.ErrHomeworkNotFound)
}

func TestMistakeServiceListAndReconcile(t *testing.T) {
	f := newFixture(t)
	_, err := f.homeworkService(true, nil).Submit(context.Background(), f.student.ID, 2, []string{"A", "C"})
	require.NoError(t, err)

	svc := NewMistakeService(f.mistakes, f.homeworks, nil, 10)
	views, err := svc.List(f.student.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, v := range views {
		assert.NotEmpty(t, v.Answer, "objective entries carry the reference answer")
		assert.Equal(t, 1, v.WrongTimes)
	}

	svc.Reconfigure(nil, 1)
	views, err = svc.List(f.student.ID)
	require.NoError(t, err)
	assert.Len(t, views, 1)

	_, err = svc.Reconcile(f.student.ID, 4242, true)
	assert.ErrorIs(t, err, util.ErrMistakeNotFound)

	entry, err := svc.Reconcile(f.student.ID, f.objective.Questions[0].ID, false)
	require.NoError(t, err)
	assert.Equal(t, 2, entry.WrongTimes)

	_, err = svc.Reconcile(f.student.ID, f.objective.Questions[0].ID, true)
	require.NoError(t, err)
	_, err = f.mistakes.Find(f.student.ID, f.objective.Questions[0].ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMistakeServiceSamplePrefersGraded(t *testing.T) {
	f := newFixture(t)
	v := uint(9)
	hw := &model.Homework{Title: "大作业", TeacherID: f.teacher.ID, VideoID: &v}
	for i := 0; i < 15; i++ {
		hw.Questions = append(hw.Questions, model.Question{QuestionType: grading.Single, Text: "题", Options: []string{"x", "y"}, Answer: "A", Score: 1})
	}
	require.NoError(t, f.homeworks.Create(hw))

	graded := map[uint]bool{}
	for i := range hw.Questions {
		status := model.MistakeUngraded
		if i >= 12 {
			status = model.MistakeGraded
			graded[hw.Questions[i].ID] = true
		}
		_, err := f.mistakes.RecordMiss(f.student.ID, &hw.Questions[i], "B", status)
		require.NoError(t, err)
	}

	svc := NewMistakeService(f.mistakes, f.homeworks, nil, 10)
	for n := 0; n < 5; n++ {
		views, err := svc.List(f.student.ID)
		require.NoError(t, err)
		require.Len(t, views, 10)
		got := 0
		for _, view := range views {
			if graded[view.ID] {
				got++
			}
		}
		assert.Equal(t, 3, got)
	}
}

func TestMistakeServiceJudge(t *testing.T) {
	f := newFixture(t)
	_, err := f.homeworkService(false, &fakeGrader{score: 2, comment: "太短"}).
		Submit(context.Background(), f.student.ID, 1, []string{"A", "A,B", "短"})
	require.NoError(t, err)

	svc := NewMistakeService(f.mistakes, f.homeworks, nil, 10)
	ctx := context.Background()

	res, err := svc.Judge(ctx, f.student.ID, f.mixed.Questions[0].ID, " b ")
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)

	_, err = svc.Judge(ctx, f.student.ID, f.mixed.Questions[2].ID, "函数与其引用环境")
	assert.ErrorIs(t, err, util.ErrAIUnavailable)

	svc.Reconfigure(&fakeGrader{score: 12, comment: "完整"}, 10)
	res, err = svc.Judge(ctx, f.student.ID, f.mixed.Questions[2].ID, "函数与其引用环境")
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, 10.0, res.Score, "score is clamped to the question score")

	views, err := svc.List(f.student.ID)
	require.NoError(t, err)
	for _, v := range views {
		if v.QuestionType == grading.Subjective {
			assert.Empty(t, v.Answer)
		}
	}

	_, err = svc.Judge(ctx, f.student.ID, f.mixed.Questions[1].ID, "A,B")
	assert.ErrorIs(t, err, util.ErrMistakeNotFound, "answered correctly, so no entry")
}

func TestAIHelpService(t *testing.T) {
	f := newFixture(t)
	svc := NewAIHelpService(repository.NewAIHelpRepository(f.db), f.homeworks, &fakeGrader{})
	qid := f.mixed.Questions[1].ID

	_, err := svc.Feedback(f.student.ID, qid, true)
	assert.ErrorIs(t, err, util.ErrAIHelpNotFound)

	res, err := svc.Hint(context.Background(), f.student.ID, qid)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Hint)
	res, err = svc.Hint(context.Background(), f.student.ID, qid)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Times)

	rec, err := svc.Feedback(f.student.ID, qid, true)
	require.NoError(t, err)
	assert.True(t, rec.Solved)

	svc.SetGrader(nil)
	_, err = svc.Hint(context.Background(), f.student.ID, qid)
	assert.ErrorIs(t, err, util.ErrAIUnavailable)
}

func TestAuthService(t *testing.T) {
	f := newFixture(t)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "secret", ExpireTime: time.Hour}}
	svc := NewAuthService(f.users, cfg)

	user, err := svc.Register(RegisterRequest{Name: "甲", Email: "A@Example.com", Password: "123456", Role: model.Admin})
	require.NoError(t, err)
	assert.Equal(t, model.Student, user.Role, "admin cannot be self-registered")
	assert.Equal(t, "a@example.com", user.Email)

	_, err = svc.Register(RegisterRequest{Name: "乙", Email: "a@example.com", Password: "123456"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)

	_, err = svc.Login("a@example.com", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	res, err := svc.Login("a@example.com", "123456")
	require.NoError(t, err)
	claims, err := util.ParseJWT(res.Token, "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestParseGradeReply(t *testing.T) {
	j := ParseGradeReply("分数：7.5\n评语: 论述清楚")
	assert.Equal(t, 7.5, j.Score)
	assert.Equal(t, "论述清楚", j.Comment)

	j = ParseGradeReply("无法评分")
	assert.Zero(t, j.Score)
	assert.Empty(t, j.Comment)
}

func TestLocalLocker(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	ok, err := l.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = l.TryLock(ctx, "k", time.Minute)
	assert.False(t, ok)

	require.NoError(t, l.Unlock(ctx, "k"))
	ok, _ = l.TryLock(ctx, "k", time.Minute)
	assert.True(t, ok)
}

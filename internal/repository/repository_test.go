package repository

import (
	"snaplearn_backend/internal/model"
	"snaplearn_backend/pkg/database"
	"snaplearn_backend/pkg/grading"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	return db
}

func seedHomework(t *testing.T, db *gorm.DB) (*model.User, *model.Homework) {
	t.Helper()
	teacher := &model.User{Name: "teacher", Email: "t@example.com", Password: "x", Role: model.Teacher, IsVerifiedTeacher: true}
	require.NoError(t, NewUserRepository(db).Create(teacher))

	video := uint(9)
	hw := &model.Homework{
		Title:     "hw",
		TeacherID: teacher.ID,
		VideoID:   &video,
		Questions: []model.Question{
			{QuestionType: grading.Subjective, Text: "explain", Answer: "rubric", Score: 5},
			{QuestionType: grading.Single, Text: "pick", Options: []string{"a", "b"}, Answer: "A", Score: 5},
		},
	}
	require.NoError(t, NewHomeworkRepository(db).Create(hw))
	return teacher, hw
}

func TestHomeworkRepositoryCreateAndFind(t *testing.T) {
	db := newTestDB(t)
	_, hw := seedHomework(t, db)
	repo := NewHomeworkRepository(db)

	got, err := repo.FindByVideoID(9)
	require.NoError(t, err)
	require.Len(t, got.Questions, 2)
	assert.Equal(t, "explain", got.Questions[0].Text, "questions keep their upload order")
	assert.Equal(t, []string{"a", "b"}, []string(got.Questions[1].Options))

	taken, err := repo.VideoTaken(9)
	require.NoError(t, err)
	assert.True(t, taken)

	q := &model.Question{HomeworkID: hw.ID, QuestionType: grading.Multiple, Text: "more", Options: []string{"x", "y"}, Answer: "A,B", Score: 2}
	require.NoError(t, repo.AddQuestion(q))
	assert.Equal(t, 3, q.Position)
}

func TestMistakeRepositoryRecordMissIncrements(t *testing.T) {
	db := newTestDB(t)
	_, hw := seedHomework(t, db)
	repo := NewMistakeRepository(db)
	q := &hw.Questions[1]

	mb, err := repo.RecordMiss(7, q, "B", model.MistakeUngraded)
	require.NoError(t, err)
	assert.Equal(t, 1, mb.WrongTimes)

	mb, err = repo.RecordMiss(7, q, "b", model.MistakeGraded)
	require.NoError(t, err)
	assert.Equal(t, 2, mb.WrongTimes)
	assert.Equal(t, model.MistakeGraded, mb.Status)

	entries, err := repo.ListByStudent(7)
	require.NoError(t, err)
	require.Len(t, entries, 1, "one entry per (student, question)")
	assert.Equal(t, "pick", entries[0].Question.Text)

	require.NoError(t, repo.IncrementWrong(mb))
	again, err := repo.Find(7, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, again.WrongTimes)

	found, err := repo.Clear(7, q.ID)
	require.NoError(t, err)
	assert.True(t, found)
	found, err = repo.Clear(7, q.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMistakeRepositoryMarkGraded(t *testing.T) {
	db := newTestDB(t)
	_, hw := seedHomework(t, db)
	repo := NewMistakeRepository(db)

	_, err := repo.RecordMiss(7, &hw.Questions[1], "B", model.MistakeUngraded)
	require.NoError(t, err)
	require.NoError(t, repo.MarkGraded(7, hw.ID))

	mb, err := repo.Find(7, hw.Questions[1].ID)
	require.NoError(t, err)
	assert.Equal(t, model.MistakeGraded, mb.Status)
}

func TestSubmissionRepositoryUpsertAndSum(t *testing.T) {
	db := newTestDB(t)
	teacher, hw := seedHomework(t, db)
	repo := NewSubmissionRepository(db)

	five := 5.0
	answers := []model.StudentAnswer{
		{HomeworkID: hw.ID, QuestionID: hw.Questions[0].ID, StudentID: teacher.ID, Answer: "x"},
		{HomeworkID: hw.ID, QuestionID: hw.Questions[1].ID, StudentID: teacher.ID, Answer: "A", Score: &five, Graded: true},
	}
	require.NoError(t, repo.ReplaceAnswers(hw.ID, teacher.ID, answers))
	require.NoError(t, repo.UpsertResult(&model.StudentHomeworkResult{
		HomeworkID: hw.ID, StudentID: teacher.ID, Status: model.ResultPending, SubmittedAt: time.Now(),
	}))

	pending, err := repo.ListPending(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	total, err := repo.SumScores(hw.ID, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, total)

	// resubmission replaces the earlier attempt
	require.NoError(t, repo.ReplaceAnswers(hw.ID, teacher.ID, answers[1:]))
	require.NoError(t, repo.UpsertResult(&model.StudentHomeworkResult{
		HomeworkID: hw.ID, StudentID: teacher.ID, Status: model.ResultGraded, TotalScore: &five, SubmittedAt: time.Now(),
	}))

	listed, err := repo.ListAnswers(hw.ID, teacher.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "pick", listed[0].Question.Text)

	results, err := repo.ListResultsByStudent(teacher.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, model.ResultGraded, results[0].Status)
	assert.Equal(t, "hw", results[0].Homework.Title)

	rows, err := repo.ListSubmitters(hw.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "teacher", rows[0].Username)
}

func TestHomeworkRepositoryDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	teacher, hw := seedHomework(t, db)

	_, err := NewMistakeRepository(db).RecordMiss(teacher.ID, &hw.Questions[1], "B", model.MistakeGraded)
	require.NoError(t, err)
	require.NoError(t, NewHomeworkRepository(db).Delete(hw.ID))

	var count int64
	db.Model(&model.MistakeEntry{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&model.Question{}).Count(&count)
	assert.Zero(t, count)

	taken, err := NewHomeworkRepository(db).VideoTaken(9)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestAIHelpRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewAIHelpRepository(db)

	rec, err := repo.Increment(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Times)
	rec, err = repo.Increment(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Times)

	require.NoError(t, repo.MarkSolved(rec))
	got, err := repo.Find(1, 2)
	require.NoError(t, err)
	assert.True(t, got.Solved)
}

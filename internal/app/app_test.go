package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"snaplearn_backend/internal/config"
	"snaplearn_backend/internal/learner"
	"snaplearn_backend/internal/model"
	"snaplearn_backend/internal/util"
	"snaplearn_backend/pkg/client"
	"snaplearn_backend/pkg/database"
	"snaplearn_backend/pkg/grading"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestApp(t *testing.T) (*App, *httptest.Server) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.JWT.Secret = "snaplearn-test-secret-0123456789abcdef"
	cfg.JWT.ExpireTime = time.Hour
	cfg.Grading.DeferSubjective = true
	cfg.Grading.MistakeSample = 10
	cfg.Storage.Type = util.StorageLocal
	cfg.Storage.LocalPath = t.TempDir()

	a := &App{Config: cfg}
	a.build(db, nil)
	srv := httptest.NewServer(a.Router)
	t.Cleanup(srv.Close)
	return a, srv
}

// call 直接发送请求并解出 data
func call(t *testing.T, srv *httptest.Server, method, path, token string, body any) (int, json.RawMessage) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env.Data
}

func register(t *testing.T, srv *httptest.Server, name, email string, role model.UserRole) {
	t.Helper()
	code, _ := call(t, srv, http.MethodPost, "/api/register", "", map[string]any{
		"name": name, "email": email, "password": "secret123", "role": role,
	})
	require.Equal(t, http.StatusCreated, code)
}

func TestHealthAndAuthGate(t *testing.T) {
	_, srv := newTestApp(t)

	code, _ := call(t, srv, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = call(t, srv, http.MethodGet, "/api/homework/mistakebook", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestHomeworkLifecycleOverHTTP(t *testing.T) {
	a, srv := newTestApp(t)
	ctx := context.Background()
	api := client.New(client.Options{BaseURL: srv.URL})

	// 教师注册并通过认证
	register(t, srv, "王老师", "teacher@example.com", model.Teacher)
	require.NoError(t, a.DB.Model(&model.User{}).
		Where("email = ?", "teacher@example.com").
		Update("is_verified_teacher", true).Error)
	teacherLogin, err := api.Login(ctx, "teacher@example.com", "secret123")
	require.NoError(t, err)
	teacher := teacherLogin.Token

	mixedVideo, objectiveVideo := uint(42), uint(43)
	code, data := call(t, srv, http.MethodPost, "/api/homework/upload", teacher, map[string]any{
		"title":    "第一章",
		"video_id": mixedVideo,
		"questions": []map[string]any{
			{"question_type": "single", "text": "1+1=?", "options": []string{"2", "3"}, "answer": "A", "score": 5},
			{"question_type": "subjective", "text": "解释闭包", "answer": "函数与其引用环境", "score": 5},
		},
	})
	require.Equal(t, http.StatusCreated, code, string(data))
	var mixed struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(data, &mixed))

	code, data = call(t, srv, http.MethodPost, "/api/homework/upload", teacher, map[string]any{
		"title":    "第二章",
		"video_id": objectiveVideo,
		"questions": []map[string]any{
			{"question_type": "multiple", "text": "哪些是质数", "options": []string{"2", "3", "4"}, "answer": "A,B", "score": 5},
			{"question_type": "single", "text": "2*3=?", "options": []string{"5", "8", "6"}, "answer": "C", "score": 5},
		},
	})
	require.Equal(t, http.StatusCreated, code, string(data))

	// 学生
	register(t, srv, "小明", "student@example.com", model.Student)
	studentLogin, err := api.Login(ctx, "student@example.com", "secret123")
	require.NoError(t, err)
	session := client.Session{Token: studentLogin.Token}

	// 学生不能访问教师接口
	code, _ = call(t, srv, http.MethodGet, "/api/homework/myhomeworks", session.Token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	// 含主观题的作业进入待批改
	hw, err := api.GetHomework(ctx, session, mixedVideo)
	require.NoError(t, err)
	require.NotNil(t, hw)
	require.Len(t, hw.Questions, 2)
	sheet := learner.NewAnswerSheet(hw.Questions)
	require.NoError(t, sheet.Select(0, "B"))
	out, err := learner.NewDispatcher(api, session, mixedVideo).Submit(ctx, sheet)
	require.NoError(t, err)
	view := learner.Present(*out, hw.Questions)
	assert.True(t, view.Pending)
	assert.Zero(t, view.Percent)

	// 纯客观题作业即时出分
	hw2, err := api.GetHomework(ctx, session, objectiveVideo)
	require.NoError(t, err)
	sheet2 := learner.NewAnswerSheet(hw2.Questions)
	require.NoError(t, sheet2.Toggle(0, "A", true))
	require.NoError(t, sheet2.Select(1, "c"))
	out2, err := learner.NewDispatcher(api, session, objectiveVideo).Submit(ctx, sheet2)
	require.NoError(t, err)
	view2 := learner.Present(*out2, hw2.Questions)
	assert.False(t, view2.Pending)
	assert.Equal(t, 5.0, view2.Total)
	assert.Equal(t, 50, view2.Percent)
	require.Len(t, view2.Explanations, 1)
	assert.Equal(t, grading.ObjectiveExplanation("哪些是质数", "A", "A,B"), view2.Explanations[0])

	// 作业列表不泄露参考答案
	code, data = call(t, srv, http.MethodGet, "/api/homework/homeworks", session.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(data, &listed))
	require.Len(t, listed, 2)
	for _, h := range listed {
		for _, q := range h["questions"].([]any) {
			assert.NotContains(t, q.(map[string]any), "answer")
		}
	}

	none, err := api.GetHomework(ctx, session, 999)
	require.NoError(t, err)
	assert.Nil(t, none)

	// 错题本只显示已批改的错题，重做答对后移除
	review := learner.NewMistakeReview(api, session)
	require.NoError(t, review.Load(ctx))
	entries := review.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, grading.Multiple, entries[0].QuestionType)
	require.NoError(t, review.Sheet().Fill(0, "B,A"))
	summary, err := review.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "本次共答对 1 / 1 题", summary.Message())
	assert.Empty(t, review.Entries())

	// 成绩查询：待批改的记录不能查看详情
	ledger := learner.NewScoreLedger(api, session)
	require.NoError(t, ledger.Load(ctx))
	rows := ledger.Rows()
	require.Len(t, rows, 2)
	for i, row := range rows {
		switch row.HomeworkTitle {
		case "第一章":
			assert.False(t, row.DetailEnabled)
			_, err := ledger.Detail(i)
			assert.ErrorIs(t, err, learner.ErrDetailDisabled)
		case "第二章":
			assert.True(t, row.DetailEnabled)
			d, err := ledger.Detail(i)
			require.NoError(t, err)
			assert.Equal(t, 50, d.Percent)
		}
	}

	// 教师查看提交并为主观题打分
	code, data = call(t, srv, http.MethodGet, "/api/homework/"+itoa(mixed.ID)+"/students", teacher, nil)
	require.Equal(t, http.StatusOK, code)
	var submitters []struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(data, &submitters))
	require.Len(t, submitters, 1)
	assert.Equal(t, "小明", submitters[0].Username)

	code, data = call(t, srv, http.MethodGet, "/api/homework/"+itoa(mixed.ID)+"/student/"+itoa(submitters[0].ID), teacher, nil)
	require.Equal(t, http.StatusOK, code)
	var detail struct {
		Status  string `json:"status"`
		Answers []struct {
			AnswerID     uint   `json:"answer_id"`
			QuestionType string `json:"question_type"`
		} `json:"answers"`
	}
	require.NoError(t, json.Unmarshal(data, &detail))
	assert.Equal(t, "pending", detail.Status)
	var subjectiveAnswer uint
	for _, ans := range detail.Answers {
		if ans.QuestionType == "subjective" {
			subjectiveAnswer = ans.AnswerID
		}
	}
	require.NotZero(t, subjectiveAnswer)

	code, _ = call(t, srv, http.MethodPost, "/api/homework/update_score", teacher, map[string]any{
		"answer_id": subjectiveAnswer, "new_score": 99, "comment": "超出分值",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, data = call(t, srv, http.MethodPost, "/api/homework/update_score", teacher, map[string]any{
		"answer_id": subjectiveAnswer, "new_score": 5, "comment": "完全正确",
	})
	require.Equal(t, http.StatusOK, code, string(data))
	require.NoError(t, json.Unmarshal(data, &detail))
	assert.Equal(t, "graded", detail.Status)

	// 批改完成后，第一章的错题进入错题本，成绩可查看
	require.NoError(t, review.Load(ctx))
	require.Len(t, review.Entries(), 1)
	assert.Equal(t, grading.Single, review.Entries()[0].QuestionType)

	require.NoError(t, ledger.Load(ctx))
	for _, row := range ledger.Rows() {
		assert.True(t, row.DetailEnabled, row.HomeworkTitle)
	}
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

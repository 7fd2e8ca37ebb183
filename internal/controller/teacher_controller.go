package controller

import (
	"snaplearn_backend/internal/service"
	"snaplearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// TeacherController 教师端作业发布与批阅
type TeacherController struct {
	HomeworkService *service.HomeworkService
}

func NewTeacherController(homeworkService *service.HomeworkService) *TeacherController {
	return &TeacherController{HomeworkService: homeworkService}
}

// @Summary 发布作业
// @Description 仅认证教师可发布；客观题参考答案必须是已有选项的字母
// @Tags 教师-作业
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateHomeworkRequest true "作业与题目"
// @Success 201 {object} util.Response{data=model.Homework}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response "仅认证教师可发布作业"
// @Failure 409 {object} util.Response "该视频已绑定作业"
// @Router /api/homework/upload [post]
func (c *TeacherController) CreateHomework(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateHomeworkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	hw, err := c.HomeworkService.CreateHomework(actorOf(user), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, hw)
}

// @Summary 追加题目
// @Tags 教师-作业
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param homeworkId path int true "作业ID"
// @Param body body service.QuestionInput true "题目"
// @Success 201 {object} util.Response{data=model.Question}
// @Router /api/homework/{homeworkId}/add_question [post]
func (c *TeacherController) AddQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	homeworkID, ok := uintParam(ctx, "homeworkId")
	if !ok {
		return
	}

	var req service.QuestionInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.HomeworkService.AddQuestion(actorOf(user), homeworkID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// @Summary 删除作业
// @Description 同时删除题目、作答、成绩与错题
// @Tags 教师-作业
// @Produce json
// @Security ApiKeyAuth
// @Param homeworkId path int true "作业ID"
// @Success 200 {object} util.Response
// @Router /api/homework/{homeworkId} [delete]
func (c *TeacherController) DeleteHomework(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	homeworkID, ok := uintParam(ctx, "homeworkId")
	if !ok {
		return
	}

	if err := c.HomeworkService.DeleteHomework(actorOf(user), homeworkID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": homeworkID})
}

// @Summary 我发布的作业
// @Tags 教师-作业
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.HomeworkSummary}
// @Router /api/homework/myhomeworks [get]
func (c *TeacherController) MyHomeworks(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	list, err := c.HomeworkService.ListMine(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 已提交的学生
// @Tags 教师-批阅
// @Produce json
// @Security ApiKeyAuth
// @Param homeworkId path int true "作业ID"
// @Success 200 {object} util.Response{data=[]repository.SubmitterRow}
// @Failure 403 {object} util.Response
// @Router /api/homework/{homeworkId}/students [get]
func (c *TeacherController) Submitters(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	homeworkID, ok := uintParam(ctx, "homeworkId")
	if !ok {
		return
	}

	rows, err := c.HomeworkService.ListSubmitters(actorOf(user), homeworkID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// @Summary 学生作答详情
// @Tags 教师-批阅
// @Produce json
// @Security ApiKeyAuth
// @Param homeworkId path int true "作业ID"
// @Param studentId path int true "学生ID"
// @Success 200 {object} util.Response{data=service.StudentDetailView}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/homework/{homeworkId}/student/{studentId} [get]
func (c *TeacherController) StudentDetail(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	homeworkID, ok := uintParam(ctx, "homeworkId")
	if !ok {
		return
	}
	studentID, ok := uintParam(ctx, "studentId")
	if !ok {
		return
	}

	detail, err := c.HomeworkService.StudentDetail(actorOf(user), homeworkID, studentID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary 修改单题得分
// @Description 分数须在 0 到题目分值之间，改分会记录日志并重算总分
// @Tags 教师-批阅
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.UpdateScoreRequest true "新分数"
// @Success 200 {object} util.Response{data=service.StudentDetailView}
// @Failure 400 {object} util.Response "分数超出题目分值范围"
// @Router /api/homework/update_score [post]
func (c *TeacherController) UpdateScore(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	detail, err := c.HomeworkService.UpdateScore(actorOf(user), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary 修正主观题 AI 评分
// @Description 记录 AI 与教师评分对照后以教师评分为准
// @Tags 教师-批阅
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CorrectSubjectiveRequest true "教师评分"
// @Success 200 {object} util.Response{data=service.StudentDetailView}
// @Router /api/homework/correct_subjective [post]
func (c *TeacherController) CorrectSubjective(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CorrectSubjectiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	detail, err := c.HomeworkService.CorrectSubjective(actorOf(user), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

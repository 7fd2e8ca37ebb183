package controller

import (
	"snaplearn_backend/internal/service"
	"snaplearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// HomeworkController 学生端作业接口
type HomeworkController struct {
	HomeworkService *service.HomeworkService
	AIHelpService   *service.AIHelpService
}

func NewHomeworkController(homeworkService *service.HomeworkService, aiHelpService *service.AIHelpService) *HomeworkController {
	return &HomeworkController{
		HomeworkService: homeworkService,
		AIHelpService:   aiHelpService,
	}
}

// SubmitHomeworkRequest 答案按题目顺序排列，缺少的答案视为空
// swagger:model SubmitHomeworkRequest
type SubmitHomeworkRequest struct {
	Answers []string `json:"answers"`
}

// @Summary 获取视频对应的作业
// @Description 返回作业题目（不含参考答案），视频没有作业时 data 为空
// @Tags 作业
// @Produce json
// @Security ApiKeyAuth
// @Param videoId path int true "视频ID"
// @Success 200 {object} util.Response{data=service.HomeworkView}
// @Failure 401 {object} util.Response
// @Router /api/videos/{videoId}/homework [get]
func (c *HomeworkController) GetVideoHomework(ctx *gin.Context) {
	videoID, ok := uintParam(ctx, "videoId")
	if !ok {
		return
	}

	view, err := c.HomeworkService.GetForVideo(videoID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	// 没有作业时 view 为 nil 指针，输出 "data": null
	util.Success(ctx, view)
}

// @Summary 作业列表
// @Description 返回全部作业及题目（不含参考答案）
// @Tags 作业
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.HomeworkView}
// @Failure 401 {object} util.Response
// @Router /api/homework/homeworks [get]
func (c *HomeworkController) ListHomeworks(ctx *gin.Context) {
	views, err := c.HomeworkService.ListForStudents()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, views)
}

// @Summary 提交作业
// @Description 客观题即时判分；含主观题时返回 pending，由后台批改
// @Tags 作业
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param videoId path int true "视频ID"
// @Param body body SubmitHomeworkRequest true "答案列表"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "未找到该视频对应的作业"
// @Router /api/videos/{videoId}/submit_homework [post]
func (c *HomeworkController) SubmitHomework(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	videoID, ok := uintParam(ctx, "videoId")
	if !ok {
		return
	}

	var req SubmitHomeworkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.HomeworkService.Submit(ctx.Request.Context(), user.UserID, videoID, req.Answers)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 我的作业成绩
// @Description 按提交时间倒序返回全部成绩，待批改的记录不含分数
// @Tags 作业
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.ScoreRecordView}
// @Router /api/homework/my_scores [get]
func (c *HomeworkController) MyScores(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	scores, err := c.HomeworkService.MyScores(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, scores)
}

// @Summary 获取 AI 解题思路
// @Tags 作业
// @Produce json
// @Security ApiKeyAuth
// @Param questionId path int true "题目ID"
// @Success 200 {object} util.Response{data=service.HintResult}
// @Failure 503 {object} util.Response "AI 服务暂不可用"
// @Router /api/homework/questions/{questionId}/ai_help [post]
func (c *HomeworkController) AIHelp(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	questionID, ok := uintParam(ctx, "questionId")
	if !ok {
		return
	}

	res, err := c.AIHelpService.Hint(ctx.Request.Context(), user.UserID, questionID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

type AIFeedbackRequest struct {
	Solved bool `json:"solved"`
}

// @Summary 反馈 AI 提示是否有帮助
// @Tags 作业
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param questionId path int true "题目ID"
// @Param body body AIFeedbackRequest true "是否已解决"
// @Success 200 {object} util.Response{data=model.AIHelpRecord}
// @Failure 404 {object} util.Response "尚未请求过 AI 提示"
// @Router /api/homework/questions/{questionId}/ai_feedback [post]
func (c *HomeworkController) AIFeedback(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	questionID, ok := uintParam(ctx, "questionId")
	if !ok {
		return
	}

	var req AIFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rec, err := c.AIHelpService.Feedback(user.UserID, questionID, req.Solved)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, rec)
}

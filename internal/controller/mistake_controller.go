package controller

import (
	"snaplearn_backend/internal/service"
	"snaplearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MistakeController struct {
	MistakeService *service.MistakeService
}

func NewMistakeController(mistakeService *service.MistakeService) *MistakeController {
	return &MistakeController{MistakeService: mistakeService}
}

// @Summary 获取错题本
// @Description 错题较多时随机抽取部分题目；客观题附带参考答案
// @Tags 错题本
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.MistakeView}
// @Router /api/homework/mistakebook [get]
func (c *MistakeController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	views, err := c.MistakeService.List(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, views)
}

// swagger:model ReconcileMistakeRequest
type ReconcileMistakeRequest struct {
	QuestionID uint  `json:"question_id" binding:"required"`
	IsCorrect  *bool `json:"is_correct" binding:"required"`
}

// @Summary 回写错题重做结果
// @Description 答对移出错题本，答错错误次数加一
// @Tags 错题本
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ReconcileMistakeRequest true "重做结果"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "错题不存在"
// @Router /api/homework/mistakebook/update [post]
func (c *MistakeController) Reconcile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ReconcileMistakeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	entry, err := c.MistakeService.Reconcile(user.UserID, req.QuestionID, *req.IsCorrect)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if entry == nil {
		util.Success(ctx, gin.H{"question_id": req.QuestionID, "removed": true})
		return
	}
	util.Success(ctx, gin.H{"question_id": req.QuestionID, "removed": false, "wrong_times": entry.WrongTimes})
}

// swagger:model JudgeMistakeRequest
type JudgeMistakeRequest struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Answer     string `json:"answer"`
}

// @Summary 判定错题重做答案
// @Description 客观题按规则判定，主观题交给 AI 评分；不修改错题本
// @Tags 错题本
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body JudgeMistakeRequest true "重做答案"
// @Success 200 {object} util.Response{data=service.JudgeResult}
// @Failure 404 {object} util.Response "错题不存在"
// @Failure 503 {object} util.Response "AI 服务暂不可用"
// @Router /api/homework/mistakebook/judge [post]
func (c *MistakeController) Judge(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req JudgeMistakeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.MistakeService.Judge(ctx.Request.Context(), user.UserID, req.QuestionID, req.Answer)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

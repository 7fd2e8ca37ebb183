package controller

import (
	"errors"
	"net/http"
	"snaplearn_backend/internal/service"
	"snaplearn_backend/internal/util"
	"snaplearn_backend/pkg/grading"

	"github.com/gin-gonic/gin"
)

// respondError 将业务错误映射为 HTTP 状态码，未知错误记录日志后返回 500
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrHomeworkNotFound),
		errors.Is(err, util.ErrResultNotFound),
		errors.Is(err, util.ErrAnswerNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrMistakeNotFound),
		errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrAIHelpNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrPermissionDenied),
		errors.Is(err, util.ErrTeacherNotVerified):
		util.Error(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, util.ErrVideoTaken):
		util.Error(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, util.ErrScoreOutOfRange),
		errors.Is(err, util.ErrNotSubjective),
		errors.Is(err, grading.ErrInvalidReference),
		errors.Is(err, grading.ErrUnknownQuestionType):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrAIUnavailable):
		util.Error(ctx, http.StatusServiceUnavailable, util.ErrAIUnavailable.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

func actorOf(claims *util.Claims) service.Actor {
	return service.Actor{UserID: claims.UserID, Role: claims.Role}
}

// uintParam 路径参数非法时返回 false 并写入 400
func uintParam(ctx *gin.Context, name string) (uint, bool) {
	id := util.MustParseUint(ctx.Param(name))
	if id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return id, true
}

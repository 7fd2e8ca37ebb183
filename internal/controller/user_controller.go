package controller

import (
	"io"
	"snaplearn_backend/internal/service"
	"snaplearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// UserController 头像上传与教师认证
type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{
		UserService: userService,
	}
}

// UploadAvatar godoc
// @Summary 上传头像
// @Description 仅支持常见图片格式，大小不超过 2MB
// @Tags 用户
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "头像图片"
// @Success 200 {object} util.Response{data=object} "头像 URL"
// @Failure 400 {object} util.Response
// @Router /api/user/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "File is required")
		return
	}
	if file.Size > util.MaxAvatarSize {
		util.BadRequest(ctx, "头像不能超过 2MB")
		return
	}
	if !util.HasAllowedExtension(file.Filename, util.AllowedImageExtensions) {
		util.BadRequest(ctx, "不支持的图片格式")
		return
	}

	f, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer f.Close()

	mimeType, err := util.ValidateMimeType(f, []string{util.MimeImage})
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	url, err := c.UserService.UploadAvatar(ctx.Request.Context(), user.UserID, file.Filename, f, file.Size, mimeType)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"avatar": url})
}

type VerifyTeacherRequest struct {
	Verified bool `json:"verified"`
}

// VerifyTeacher godoc
// @Summary 认证教师
// @Description 管理员认证或撤销教师发布作业的资格
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "用户ID"
// @Param body body VerifyTeacherRequest true "是否认证"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/users/{id}/verify [post]
func (c *UserController) VerifyTeacher(ctx *gin.Context) {
	userID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}

	var req VerifyTeacherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.VerifyTeacher(userID, req.Verified); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": userID, "is_verified_teacher": req.Verified})
}

package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrTeacherNotVerified = errors.New("仅认证教师可发布作业")

	ErrHomeworkNotFound = errors.New("未找到该视频对应的作业")
	ErrQuestionNotFound = errors.New("题目不存在")
	ErrVideoTaken       = errors.New("该视频已绑定作业")
	ErrAnswerNotFound   = errors.New("答题不存在")
	ErrResultNotFound   = errors.New("未找到作业")
	ErrMistakeNotFound  = errors.New("not found")
	ErrScoreOutOfRange  = errors.New("分数超出题目分值范围")
	ErrNotSubjective    = errors.New("仅主观题可以进行 AI 对照修正")
	ErrAIHelpNotFound   = errors.New("尚未请求过 AI 提示")
	ErrAIUnavailable    = errors.New("AI 服务暂不可用")
)

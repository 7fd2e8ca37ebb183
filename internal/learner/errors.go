package learner

import (
	"errors"
	"fmt"
)

const (
	MsgIncomplete   = "请完成所有客观题"
	MsgSubmitFailed = "提交失败，请稍后重试"
	MsgLoadFailed   = "加载失败，请稍后重试"
	MsgPending      = "作业已提交，主观题正在批改中，请稍后在成绩查询中查看"
)

var (
	ErrSheetLocked    = errors.New("answer sheet is locked after submission")
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	ErrDetailDisabled = errors.New("detail is only available for graded records")
	ErrSlotIndex      = errors.New("answer slot out of range")
	ErrSlotType       = errors.New("answer slot does not accept this input")
)

// ValidationError 本地校验失败，不发起任何请求，表单仍可编辑
type ValidationError struct {
	Missing []int
}

func (e *ValidationError) Error() string {
	return MsgIncomplete
}

// ActionError 网络或服务端失败，Message 为面向用户的通用提示
type ActionError struct {
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// UserMessage 返回可直接展示给用户的提示
func UserMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Message
	}
	if err == nil {
		return ""
	}
	return MsgSubmitFailed
}

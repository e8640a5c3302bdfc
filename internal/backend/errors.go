package backend

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindNetwork Kind = iota + 1 // 请求未到达后端（连接失败/超时）
	KindHTTP                    // 非 2xx
	KindDecode                  // 2xx 但响应体无法解析为目标类型
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// 后端结构化错误码
const (
	CodeCategoryInUse       = "CATEGORY_IN_USE"
	CodeReferenceConstraint = "REFERENCE_CONSTRAINT"
	CodeEmailNotVerified    = "EMAIL_NOT_VERIFIED"
)

const (
	msgNetwork       = "Cannot connect to server. Please check if the API server is running."
	msgTimeout       = "The server took too long to respond. Please try again."
	msgTooLarge      = "Response from server is too large"
	msgCategoryInUse = "Cannot delete this category because it contains products. Please move or delete all products in this category first."
	msgConstraint    = "Cannot delete this category due to database constraints. It may contain related data."
)

var (
	ErrNetwork          = errors.New("backend unreachable")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrCategoryInUse    = errors.New("category in use")
	ErrEmailNotVerified = errors.New("email not verified")
)

// Error 统一的失败形态 {status, message}；Network 时 Status=0
type Error struct {
	Op      string
	Kind    Kind
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrCategoryInUse:
		return e.Code == CodeCategoryInUse || e.Code == CodeReferenceConstraint
	case ErrEmailNotVerified:
		return e.Code == CodeEmailNotVerified
	}
	return false
}

// friendly 按错误码改写提示；不匹配消息文本
func friendly(code, fallback string) string {
	switch code {
	case CodeCategoryInUse:
		return msgCategoryInUse
	case CodeReferenceConstraint:
		return msgConstraint
	}
	return fallback
}

// Message 任意错误转成可直接展示的文字
func Message(err error) string {
	if err == nil {
		return ""
	}
	var be *Error
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return err.Error()
}

// StatusOf Network 错误与非后端错误返回 0
func StatusOf(err error) int {
	var be *Error
	if errors.As(err, &be) {
		return be.Status
	}
	return 0
}

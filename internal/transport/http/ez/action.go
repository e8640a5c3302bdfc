// Package ez 一行注册的动作接口：绑定入参、取出当前控制台、统一错误映射。
package ez

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"recloop-admin/internal/backend"
	"recloop-admin/internal/console"
	"recloop-admin/internal/transport/http/middleware"
	resp "recloop-admin/internal/transport/http/response"
)

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// AErr 统一错误对象（配合 resp.Error(int, msg)）
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// Action I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "PATCH" | "DELETE"
	Path    string // 例："/auth/login"、"/products/:id/approve"
	Binder  Binder
	Handler func(c *gin.Context, con *console.Console, in *I) (O, error)
}

// Register 在分组下注册动作；分组需已挂 ConsoleSession
func Register[I any, O any](g *gin.RouterGroup, a Action[I, O]) {
	h := func(c *gin.Context) {
		con := middleware.ConsoleFrom(c)
		if con == nil {
			resp.Write(c, resp.Error(resp.CodeServerError, "console session missing"))
			return
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default:
		}
		if bindErr != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(bindErr, &tooLarge) {
				resp.Write(c, resp.Error(resp.CodeEntityTooLarge, "request body too large"))
				return
			}
			resp.Write(c, resp.Error(resp.CodeBadRequest, "invalid request body"))
			return
		}

		out, err := a.Handler(c, con, &in)
		if err != nil {
			code, msg := Classify(err)
			var data any
			if !reflect.ValueOf(&out).Elem().IsZero() {
				data = out
			}
			resp.Write(c, resp.ErrorWith(code, msg, data))
			return
		}
		resp.Write(c, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		g.GET(a.Path, h)
	case http.MethodPut:
		g.PUT(a.Path, h)
	case http.MethodPatch:
		g.PATCH(a.Path, h)
	case http.MethodDelete:
		g.DELETE(a.Path, h)
	default:
		g.POST(a.Path, h)
	}
}

// Classify 错误 → 业务码 + 可展示文案
func Classify(err error) (int, string) {
	var (
		ae *AErr
		ve *console.ValidationError
		be *backend.Error
	)
	switch {
	case errors.As(err, &ae):
		return ae.Code, ae.Error()
	case errors.As(err, &ve):
		return resp.CodeBadRequest, ve.Message
	case errors.Is(err, backend.ErrCategoryNameRequired):
		return resp.CodeBadRequest, err.Error()
	case errors.As(err, &be):
		return backendCode(be), be.Message
	case errors.Is(err, context.DeadlineExceeded):
		return resp.CodeGatewayTimeout, "timeout"
	default:
		return resp.CodeServerError, "internal error"
	}
}

func backendCode(be *backend.Error) int {
	switch be.Kind {
	case backend.KindNetwork:
		return resp.CodeUnavailable
	case backend.KindDecode:
		return resp.CodeBadGateway
	}
	if be.Status >= 400 && be.Status < 500 {
		return be.Status
	}
	return resp.CodeBadGateway
}

// ParamID 路径上的数字 id
func ParamID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, BadRequest("invalid " + name)
	}
	return id, nil
}

package response

// 业务码直接沿用 HTTP 语义
const (
	CodeOK             = 0
	CodeBadRequest     = 400
	CodeUnauthorized   = 401
	CodeForbidden      = 403
	CodeNotFound       = 404
	CodeConflict       = 409
	CodeEntityTooLarge = 413
	CodeUnprocessable  = 422
	CodeTooMany        = 429
	CodeServerError    = 500
	CodeBadGateway     = 502
	CodeUnavailable    = 503
	CodeGatewayTimeout = 504
)

// CodeMsgMap 集中管理 code - msg
var CodeMsgMap = map[int]string{
	CodeOK:             "OK",
	CodeBadRequest:     "Bad Request",
	CodeUnauthorized:   "Unauthorized",
	CodeForbidden:      "Forbidden",
	CodeNotFound:       "Not Found",
	CodeConflict:       "Conflict",
	CodeEntityTooLarge: "Request Entity Too Large",
	CodeUnprocessable:  "Unprocessable Entity",
	CodeTooMany:        "Too Many Requests",
	CodeServerError:    "Internal Server Error",
	CodeBadGateway:     "Bad Gateway",
	CodeUnavailable:    "Service Unavailable",
	CodeGatewayTimeout: "Gateway Timeout",
}

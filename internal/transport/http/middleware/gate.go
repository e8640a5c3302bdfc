package middleware

import (
	"github.com/gin-gonic/gin"

	"recloop-admin/internal/domain"
	resp "recloop-admin/internal/transport/http/response"
)

// RequireRole 访问闸门：未登录 401，角色不符 403；每个请求都重新判断
func RequireRole(allowed ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		con := ConsoleFrom(c)
		if con == nil {
			resp.Abort(c, resp.CodeUnauthorized, "Please log in")
			return
		}
		s := con.Session().Snapshot()
		if !s.Authenticated {
			resp.Abort(c, resp.CodeUnauthorized, "Please log in")
			return
		}
		if !domain.HasRole(s.User, allowed...) {
			resp.Abort(c, resp.CodeForbidden, "You do not have permission to access this page")
			return
		}
		c.Next()
	}
}

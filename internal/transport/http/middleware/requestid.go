package middleware

import (
	"github.com/gin-gonic/gin"

	"recloop-admin/internal/backend"
	"recloop-admin/pkg/utils"
)

const KeyRequestID = "X-Request-ID"

// RequestID 透传或生成请求 ID，并放进 request context 供后端调用带上
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get(KeyRequestID)
		if rid == "" || len(rid) > 64 {
			rid = utils.NewID()
		}
		c.Writer.Header().Set(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Request = c.Request.WithContext(backend.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recloop-admin/internal/console"
	"recloop-admin/pkg/utils"
)

const (
	KeySessionID = "consoleSid"
	keyConsole   = "console"
)

type CookieOptions struct {
	Name   string
	Secure bool
	MaxAge int // 秒
}

// ConsoleSession 按 cookie 找到（或新建）该浏览器的控制台
func ConsoleSession(reg *console.Registry, o CookieOptions) gin.HandlerFunc {
	if o.Name == "" {
		o.Name = "rm_sid"
	}
	return func(c *gin.Context) {
		sid, err := c.Cookie(o.Name)
		if err != nil || !utils.ValidID(sid) {
			sid = utils.NewID()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(o.Name, sid, o.MaxAge, "/", "", o.Secure, true)

		con := reg.Get(c.Request.Context(), sid)
		c.Set(KeySessionID, sid)
		c.Set(keyConsole, con)
		c.Next()
	}
}

// ConsoleFrom ConsoleSession 之后可用
func ConsoleFrom(c *gin.Context) *console.Console {
	v, ok := c.Get(keyConsole)
	if !ok {
		return nil
	}
	con, _ := v.(*console.Console)
	return con
}

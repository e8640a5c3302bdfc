package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"recloop-admin/internal/console"
	"recloop-admin/internal/core/config"
	"recloop-admin/internal/core/server"
	"recloop-admin/internal/domain"
	"recloop-admin/internal/transport/http/handler"
	mdw "recloop-admin/internal/transport/http/middleware"
)

const Prefix = "/console/v1"

type Deps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Registry *console.Registry
	// Metrics 为空时用 prometheus 默认 registry
	Metrics  prometheus.Registerer
	Gatherer prometheus.Gatherer
	Modules  []any // 为空时用 handler.Modules()
}

func NewConsoleEngine(d Deps) *gin.Engine {
	h := d.Config.App.HTTP
	r := server.NewRouter(d.Logger, server.Options{
		Name:         d.Config.App.Name,
		Mode:         ginMode(d.Config.App.Env),
		AllowOrigins: h.AllowOrigins,
	})

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(orF(h.RateLimitRPS, 200)), orI(h.RateLimitBurst, 400)),
		mdw.ConcurrencyLimit(orI64(h.MaxConcurrent, 300)),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(time.Duration(orI(h.RequestTimeoutSec, 20))*time.Second),
		mdw.SimpleRecovery(d.Logger),
		mdw.Metrics(d.Metrics),
		mdw.AccessLog(d.Logger),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1, "consoles": d.Registry.Len()}) })

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	cc := d.Config.Console
	public := r.Group(Prefix)
	public.Use(mdw.ConsoleSession(d.Registry, mdw.CookieOptions{
		Name:   cc.CookieName,
		Secure: cc.CookieSecure,
		MaxAge: int(cc.IdleTTL() / time.Second),
	}))
	// 登录/注册/OTP 额外按 IP 限速
	authLimit := mdw.RateLimitPerIP(2, 10)
	public.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.FullPath(), Prefix+"/auth/") {
			authLimit(c)
			return
		}
		c.Next()
	})

	admin := public.Group("")
	admin.Use(mdw.RequireRole(domain.RoleAdmin))

	mods := d.Modules
	if len(mods) == 0 {
		mods = handler.Modules()
	}
	mountAll(public, admin, mods)
	return r
}

func ginMode(env string) string {
	switch env {
	case "prod", "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func orF(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}

func orI(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func orI64(v, def int64) int64 {
	if v > 0 {
		return v
	}
	return def
}

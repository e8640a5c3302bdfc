package router

import (
	"sort"

	"github.com/gin-gonic/gin"

	"recloop-admin/internal/transport/http/handler"
)

// 可选：实现该接口控制挂载顺序（数值越小越先挂），默认 100
type prioritizer interface{ Priority() int }

// mountAll 按类型分发到公开/管理分组
func mountAll(public, admin *gin.RouterGroup, mods []any) {
	mods = append([]any(nil), mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		if pm, ok := m.(handler.PublicModule); ok {
			pm.MountPublic(public)
		}
		if am, ok := m.(handler.AdminModule); ok {
			am.MountAdmin(admin)
		}
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}

// Package handler 控制台 BFF 的各功能模块，每个模块把自己的动作挂到公开或管理分组上。
package handler

import "github.com/gin-gonic/gin"

// PublicModule 挂在无需登录的分组
type PublicModule interface{ MountPublic(*gin.RouterGroup) }

// AdminModule 挂在 RequireRole(admin) 分组
type AdminModule interface{ MountAdmin(*gin.RouterGroup) }

// Modules 全部模块，按挂载顺序
func Modules() []any {
	return []any{Auth{}, Categories{}, Products{}, Reports{}, Users{}}
}

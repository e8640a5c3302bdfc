package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recloop-admin/internal/console"
	"recloop-admin/internal/domain"
	"recloop-admin/internal/state"
	"recloop-admin/internal/transport/http/ez"
)

type Users struct{}

type userSnapshot = state.Snapshot[domain.AdminUser]

func (Users) MountAdmin(g *gin.RouterGroup) {
	ez.Register(g, ez.Action[struct{}, userSnapshot]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, con *console.Console, _ *struct{}) (userSnapshot, error) {
			err := con.ListUsers(c.Request.Context())
			return con.Users.Snapshot(), err
		},
	})
	ez.Register(g, ez.Action[struct{}, domain.AdminUser]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, con *console.Console, _ *struct{}) (domain.AdminUser, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return domain.AdminUser{}, err
			}
			return con.GetUser(c.Request.Context(), id)
		},
	})
	ez.Register(g, ez.Action[domain.UserUpdateRequest, domain.AdminUser]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, con *console.Console, in *domain.UserUpdateRequest) (domain.AdminUser, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return domain.AdminUser{}, err
			}
			return con.UpdateUser(c.Request.Context(), id, *in)
		},
	})
	ez.Register(g, ez.Action[struct{}, domain.AdminUser]{
		Method: http.MethodPatch,
		Path:   "/users/:id/toggle-lock",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, con *console.Console, _ *struct{}) (domain.AdminUser, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return domain.AdminUser{}, err
			}
			return con.ToggleUserLock(c.Request.Context(), id)
		},
	})
}

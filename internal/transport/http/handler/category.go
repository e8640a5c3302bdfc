package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recloop-admin/internal/console"
	"recloop-admin/internal/domain"
	"recloop-admin/internal/state"
	"recloop-admin/internal/transport/http/ez"
)

type Categories struct{}

type categorySnapshot = state.Snapshot[domain.Category]

// 变更后返回刷新过的整表
func (Categories) MountAdmin(g *gin.RouterGroup) {
	ez.Register(g, ez.Action[struct{}, categorySnapshot]{
		Method: http.MethodGet,
		Path:   "/categories",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, con *console.Console, _ *struct{}) (categorySnapshot, error) {
			err := con.ListCategories(c.Request.Context())
			return con.Categories.Snapshot(), err
		},
	})
	ez.Register(g, ez.Action[domain.CategoryRequest, categorySnapshot]{
		Method: http.MethodPost,
		Path:   "/categories",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, con *console.Console, in *domain.CategoryRequest) (categorySnapshot, error) {
			err := con.CreateCategory(c.Request.Context(), in.Name)
			return con.Categories.Snapshot(), err
		},
	})
	ez.Register(g, ez.Action[domain.CategoryRequest, categorySnapshot]{
		Method: http.MethodPut,
		Path:   "/categories/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, con *console.Console, in *domain.CategoryRequest) (categorySnapshot, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return categorySnapshot{}, err
			}
			err = con.UpdateCategory(c.Request.Context(), id, in.Name)
			return con.Categories.Snapshot(), err
		},
	})
	ez.Register(g, ez.Action[struct{}, categorySnapshot]{
		Method: http.MethodDelete,
		Path:   "/categories/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, con *console.Console, _ *struct{}) (categorySnapshot, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return categorySnapshot{}, err
			}
			err = con.DeleteCategory(c.Request.Context(), id)
			return con.Categories.Snapshot(), err
		},
	})
}

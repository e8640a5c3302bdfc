package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recloop-admin/internal/console"
	"recloop-admin/internal/domain"
	"recloop-admin/internal/transport/http/ez"
)

type Products struct{}

type productQuery struct {
	Filter string `form:"filter"`
}

func (Products) MountAdmin(g *gin.RouterGroup) {
	ez.Register(g, ez.Action[productQuery, console.ProductView]{
		Method: http.MethodGet,
		Path:   "/products",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, con *console.Console, in *productQuery) (console.ProductView, error) {
			err := con.ListProducts(c.Request.Context())
			return con.FilterProducts(domain.ParseModerationState(in.Filter)), err
		},
	})
	ez.Register(g, ez.Action[struct{}, domain.Product]{
		Method: http.MethodGet,
		Path:   "/products/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, con *console.Console, _ *struct{}) (domain.Product, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return domain.Product{}, err
			}
			return con.GetProduct(c.Request.Context(), id)
		},
	})
	ez.Register(g, ez.Action[struct{}, domain.Product]{
		Method: http.MethodPut,
		Path:   "/products/:id/approve",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, con *console.Console, _ *struct{}) (domain.Product, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return domain.Product{}, err
			}
			return con.ApproveProduct(c.Request.Context(), id)
		},
	})
	ez.Register(g, ez.Action[domain.RejectProductRequest, domain.Product]{
		Method: http.MethodPut,
		Path:   "/products/:id/reject",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, con *console.Console, in *domain.RejectProductRequest) (domain.Product, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return domain.Product{}, err
			}
			return con.RejectProduct(c.Request.Context(), id, in.RejectedReason)
		},
	})
}

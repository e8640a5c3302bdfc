package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recloop-admin/internal/console"
	"recloop-admin/internal/domain"
	"recloop-admin/internal/state"
	"recloop-admin/internal/transport/http/ez"
)

type Reports struct{}

type reportSnapshot = state.Snapshot[domain.Report]

func (Reports) MountAdmin(g *gin.RouterGroup) {
	ez.Register(g, ez.Action[struct{}, reportSnapshot]{
		Method: http.MethodGet,
		Path:   "/reports",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, con *console.Console, _ *struct{}) (reportSnapshot, error) {
			err := con.ListReports(c.Request.Context())
			return con.Reports.Snapshot(), err
		},
	})
	ez.Register(g, ez.Action[struct{}, domain.Report]{
		Method: http.MethodGet,
		Path:   "/reports/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, con *console.Console, _ *struct{}) (domain.Report, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return domain.Report{}, err
			}
			return con.GetReport(c.Request.Context(), id)
		},
	})
	ez.Register(g, ez.Action[struct{}, reportSnapshot]{
		Method: http.MethodPut,
		Path:   "/reports/:id/resolve",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, con *console.Console, _ *struct{}) (reportSnapshot, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return reportSnapshot{}, err
			}
			err = con.ResolveReport(c.Request.Context(), id)
			return con.Reports.Snapshot(), err
		},
	})
	ez.Register(g, ez.Action[struct{}, reportSnapshot]{
		Method: http.MethodDelete,
		Path:   "/reports/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, con *console.Console, _ *struct{}) (reportSnapshot, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return reportSnapshot{}, err
			}
			err = con.DeleteReport(c.Request.Context(), id)
			return con.Reports.Snapshot(), err
		},
	})
}

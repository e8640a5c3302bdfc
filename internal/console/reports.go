package console

import (
	"context"

	"recloop-admin/internal/domain"
	"recloop-admin/pkg/utils"
)

func (c *Console) ListReports(ctx context.Context) error {
	return c.Reports.Load(ctx, func(ctx context.Context) ([]domain.Report, error) {
		rs, err := c.api.ListReports(ctx, c.token())
		for i := range rs {
			rs[i] = cleanReport(rs[i])
		}
		return rs, err
	})
}

func (c *Console) GetReport(ctx context.Context, id int64) (domain.Report, error) {
	return c.Reports.LoadOne(ctx, func(ctx context.Context) (domain.Report, error) {
		r, err := c.api.GetReport(ctx, c.token(), id)
		return cleanReport(r), err
	})
}

// ResolveReport 成功后本地标记已处理
func (c *Console) ResolveReport(ctx context.Context, id int64) error {
	err := c.Reports.Run(ctx, func(ctx context.Context) error {
		return c.api.ResolveReport(ctx, c.token(), id)
	})
	if err != nil {
		return err
	}
	c.Reports.Patch(id, func(r *domain.Report) { r.IsResolved = true })
	return nil
}

// DeleteReport 成功后本地移除
func (c *Console) DeleteReport(ctx context.Context, id int64) error {
	err := c.Reports.Run(ctx, func(ctx context.Context) error {
		return c.api.DeleteReport(ctx, c.token(), id)
	})
	if err != nil {
		return err
	}
	c.Reports.Remove(id)
	return nil
}

func cleanReport(r domain.Report) domain.Report {
	r.ProductTitle = utils.CleanText(r.ProductTitle)
	r.ReporterName = utils.CleanText(r.ReporterName)
	r.Reason = utils.CleanText(r.Reason)
	return r
}

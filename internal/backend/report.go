package backend

import (
	"context"
	"net/http"
	"strconv"

	"recloop-admin/internal/domain"
)

const reportEndpoint = "/api/Admin/ReportManagement"

func (c *Client) ListReports(ctx context.Context, token string) ([]domain.Report, error) {
	var out []domain.Report
	err := c.do(ctx, call{op: "report.list", method: http.MethodGet, path: reportEndpoint,
		token: token, fallback: "Failed to fetch reports"}, &out)
	return out, err
}

func (c *Client) GetReport(ctx context.Context, token string, id int64) (domain.Report, error) {
	var out domain.Report
	err := c.do(ctx, call{op: "report.get", method: http.MethodGet, path: reportPath(id),
		token: token, fallback: "Failed to fetch report details"}, &out)
	return out, err
}

func (c *Client) ResolveReport(ctx context.Context, token string, id int64) error {
	return c.do(ctx, call{op: "report.resolve", method: http.MethodPut, path: reportPath(id) + "/resolve",
		token: token, fallback: "Failed to resolve report"}, nil)
}

func (c *Client) DeleteReport(ctx context.Context, token string, id int64) error {
	return c.do(ctx, call{op: "report.delete", method: http.MethodDelete, path: reportPath(id),
		token: token, fallback: "Failed to delete report"}, nil)
}

func reportPath(id int64) string { return reportEndpoint + "/" + strconv.FormatInt(id, 10) }

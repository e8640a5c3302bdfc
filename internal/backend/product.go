package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"recloop-admin/internal/domain"
)

func (c *Client) ListProducts(ctx context.Context, token string) ([]domain.Product, error) {
	var out []domain.Product
	err := c.do(ctx, call{op: "product.list", method: http.MethodGet, path: "/api/admin/products",
		token: token, fallback: "Failed to fetch products"}, &out)
	return out, err
}

func (c *Client) GetProduct(ctx context.Context, token string, id int64) (domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, call{op: "product.get", method: http.MethodGet, path: productPath(id),
		token: token, fallback: "Failed to fetch product"}, &out)
	return out, err
}

// ApproveProduct 返回审核后的商品；响应不是商品时重新读取
func (c *Client) ApproveProduct(ctx context.Context, token string, id int64) (domain.Product, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{op: "product.approve", method: http.MethodPut, path: productPath(id) + "/approve",
		token: token, fallback: "Failed to approve product"}, &raw); err != nil {
		return domain.Product{}, err
	}
	return entityOr(raw, "product.approve", func() (domain.Product, error) { return c.GetProduct(ctx, token, id) })
}

func (c *Client) RejectProduct(ctx context.Context, token string, id int64, reason string) (domain.Product, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{op: "product.reject", method: http.MethodPut, path: productPath(id) + "/reject",
		token: token, body: domain.RejectProductRequest{RejectedReason: reason}, fallback: "Failed to reject product"}, &raw); err != nil {
		return domain.Product{}, err
	}
	return entityOr(raw, "product.reject", func() (domain.Product, error) { return c.GetProduct(ctx, token, id) })
}

func productPath(id int64) string { return "/api/admin/products/" + strconv.FormatInt(id, 10) }

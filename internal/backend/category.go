package backend

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"recloop-admin/internal/domain"
)

// ErrCategoryNameRequired 本地校验失败，不发请求
var ErrCategoryNameRequired = errors.New("Category name is required")

func (c *Client) ListCategories(ctx context.Context, token string) ([]domain.Category, error) {
	var out []domain.Category
	err := c.do(ctx, call{op: "category.list", method: http.MethodGet, path: "/api/Category",
		token: token, fallback: "Failed to fetch categories"}, &out)
	return out, err
}

func (c *Client) CreateCategory(ctx context.Context, token string, req domain.CategoryRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return ErrCategoryNameRequired
	}
	return c.do(ctx, call{op: "category.create", method: http.MethodPost, path: "/api/Category",
		token: token, body: req, fallback: "Failed to create category"}, nil)
}

// UpdateCategory 只发送去空格后的 name
func (c *Client) UpdateCategory(ctx context.Context, token string, id int64, req domain.CategoryRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return ErrCategoryNameRequired
	}
	return c.do(ctx, call{op: "category.update", method: http.MethodPut, path: categoryPath(id),
		token: token, body: req, fallback: "Failed to update category"}, nil)
}

func (c *Client) DeleteCategory(ctx context.Context, token string, id int64) error {
	return c.do(ctx, call{op: "category.delete", method: http.MethodDelete, path: categoryPath(id),
		token: token, fallback: "Failed to delete category"}, nil)
}

func categoryPath(id int64) string { return "/api/Category/" + strconv.FormatInt(id, 10) }

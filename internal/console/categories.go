package console

import (
	"context"
	"strings"

	"recloop-admin/internal/domain"
)

func (c *Console) ListCategories(ctx context.Context) error {
	return c.Categories.Load(ctx, c.fetchCategories)
}

func (c *Console) fetchCategories(ctx context.Context) ([]domain.Category, error) {
	return c.api.ListCategories(ctx, c.token())
}

// CreateCategory 成功后整表刷新
func (c *Console) CreateCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("name", "Category name is required")
	}
	err := c.Categories.Run(ctx, func(ctx context.Context) error {
		return c.api.CreateCategory(ctx, c.token(), domain.CategoryRequest{Name: name})
	})
	if err != nil {
		return err
	}
	c.refetched("categories", c.Categories.Reload(ctx, c.fetchCategories))
	return nil
}

func (c *Console) UpdateCategory(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("name", "Category name is required")
	}
	err := c.Categories.Run(ctx, func(ctx context.Context) error {
		return c.api.UpdateCategory(ctx, c.token(), id, domain.CategoryRequest{Name: name})
	})
	if err != nil {
		return err
	}
	c.refetched("categories", c.Categories.Reload(ctx, c.fetchCategories))
	return nil
}

func (c *Console) DeleteCategory(ctx context.Context, id int64) error {
	err := c.Categories.Run(ctx, func(ctx context.Context) error {
		return c.api.DeleteCategory(ctx, c.token(), id)
	})
	if err != nil {
		return err
	}
	c.refetched("categories", c.Categories.Reload(ctx, c.fetchCategories))
	return nil
}

package console

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"recloop-admin/internal/domain"
)

func (c *Console) ListUsers(ctx context.Context) error {
	return c.Users.Load(ctx, c.fetchUsers)
}

func (c *Console) fetchUsers(ctx context.Context) ([]domain.AdminUser, error) {
	return c.api.ListUsers(ctx, c.token())
}

func (c *Console) GetUser(ctx context.Context, id int64) (domain.AdminUser, error) {
	return c.Users.LoadOne(ctx, func(ctx context.Context) (domain.AdminUser, error) {
		return c.api.GetUser(ctx, c.token(), id)
	})
}

// UpdateUser 编辑的是当前登录者时同步更新登录态，之后整表刷新
func (c *Console) UpdateUser(ctx context.Context, id int64, req domain.UserUpdateRequest) (domain.AdminUser, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	if r := domain.ParseRole(req.Role); req.Role != "" && !r.Valid() {
		return domain.AdminUser{}, invalid("role", "Role must be admin or user")
	}
	u, err := c.Users.Apply(ctx, func(ctx context.Context) (domain.AdminUser, error) {
		return c.api.UpdateUser(ctx, c.token(), id, req)
	})
	if err != nil {
		return u, err
	}
	if me := c.holder.User(); me != nil && me.ID == id {
		if err := c.holder.UpdateUser(ctx, domain.Profile{FullName: u.FullName, Role: u.Role}); err != nil {
			c.log.Warn("sync current profile", zap.Error(err))
		}
	}
	c.refetched("users", c.Users.Reload(ctx, c.fetchUsers))
	return u, nil
}

// ToggleUserLock 只替换该用户
func (c *Console) ToggleUserLock(ctx context.Context, id int64) (domain.AdminUser, error) {
	return c.Users.Apply(ctx, func(ctx context.Context) (domain.AdminUser, error) {
		return c.api.ToggleUserLock(ctx, c.token(), id)
	})
}

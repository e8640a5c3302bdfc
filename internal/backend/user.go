package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"recloop-admin/internal/domain"
)

const userEndpoint = "/api/UserManager"

// wireUser isLocked 可能缺失；缺失时按未锁定处理并记录
type wireUser struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsLocked *bool  `json:"isLocked"`
}

func (c *Client) toAdminUser(op string, w wireUser) domain.AdminUser {
	u := domain.AdminUser{ID: w.ID, FullName: w.FullName, Email: w.Email, Role: w.Role}
	if w.IsLocked == nil {
		c.log.Warn("backend user without isLocked", zap.String("op", op), zap.Int64("id", w.ID))
	} else {
		u.IsLocked = *w.IsLocked
	}
	return u
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]domain.AdminUser, error) {
	var ws []wireUser
	if err := c.do(ctx, call{op: "user.list", method: http.MethodGet, path: userEndpoint,
		token: token, fallback: "Failed to fetch users"}, &ws); err != nil {
		return nil, err
	}
	out := make([]domain.AdminUser, 0, len(ws))
	for _, w := range ws {
		out = append(out, c.toAdminUser("user.list", w))
	}
	return out, nil
}

func (c *Client) GetUser(ctx context.Context, token string, id int64) (domain.AdminUser, error) {
	var w wireUser
	if err := c.do(ctx, call{op: "user.get", method: http.MethodGet, path: userPath(id),
		token: token, fallback: "Failed to fetch user"}, &w); err != nil {
		return domain.AdminUser{}, err
	}
	return c.toAdminUser("user.get", w), nil
}

func (c *Client) UpdateUser(ctx context.Context, token string, id int64, req domain.UserUpdateRequest) (domain.AdminUser, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{op: "user.update", method: http.MethodPut, path: userPath(id),
		token: token, body: req, fallback: "Failed to update user"}, &raw); err != nil {
		return domain.AdminUser{}, err
	}
	return c.userFrom(raw, "user.update", func() (domain.AdminUser, error) { return c.GetUser(ctx, token, id) })
}

// ToggleUserLock 后端只回消息文本时重新读取该用户，不在本地推测锁定状态
func (c *Client) ToggleUserLock(ctx context.Context, token string, id int64) (domain.AdminUser, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{op: "user.toggle_lock", method: http.MethodPatch, path: userPath(id) + "/toggle-lock",
		token: token, fallback: "Failed to toggle user lock"}, &raw); err != nil {
		return domain.AdminUser{}, err
	}
	return c.userFrom(raw, "user.toggle_lock", func() (domain.AdminUser, error) { return c.GetUser(ctx, token, id) })
}

func (c *Client) userFrom(raw json.RawMessage, op string, refetch func() (domain.AdminUser, error)) (domain.AdminUser, error) {
	w, err := entityOr(raw, op, func() (wireUser, error) {
		u, err := refetch()
		if err != nil {
			return wireUser{}, err
		}
		locked := u.IsLocked
		return wireUser{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role, IsLocked: &locked}, nil
	})
	if err != nil {
		return domain.AdminUser{}, err
	}
	return c.toAdminUser(op, w), nil
}

func userPath(id int64) string { return userEndpoint + "/" + strconv.FormatInt(id, 10) }

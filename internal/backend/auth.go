package backend

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"recloop-admin/internal/core/auth"
	"recloop-admin/internal/domain"
)

func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) error {
	return c.do(ctx, call{op: "auth.register", method: http.MethodPost, path: "/api/Auth/register",
		body: req, fallback: "Registration failed"}, nil)
}

func (c *Client) VerifyEmail(ctx context.Context, req domain.VerifyEmailRequest) error {
	return c.do(ctx, call{op: "auth.verify_email", method: http.MethodPost, path: "/api/Auth/verify-email",
		body: req, fallback: "OTP verification failed"}, nil)
}

func (c *Client) ResendOTP(ctx context.Context, req domain.ResendOTPRequest) error {
	return c.do(ctx, call{op: "auth.resend_otp", method: http.MethodPost, path: "/api/Auth/resend-otp",
		body: req, fallback: "Resend OTP failed"}, nil)
}

// Login 响应缺少 user 时从 token claims 推出资料，再不行只保留登录邮箱
func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	var out domain.LoginResult
	if err := c.do(ctx, call{op: "auth.login", method: http.MethodPost, path: "/api/Auth/login",
		body: req, fallback: "Login failed"}, &out); err != nil {
		return nil, err
	}
	out.Token = strings.TrimSpace(out.Token)
	if out.Token == "" {
		return nil, &Error{Op: "auth.login", Kind: KindDecode, Status: http.StatusOK, Message: "Login response did not include a token"}
	}
	if out.User == nil {
		p := domain.Profile{Email: req.Email}
		if info, err := auth.Inspect(out.Token); err == nil {
			p = info.Profile(req.Email)
		} else {
			c.log.Warn("login token unreadable", zap.Error(err))
		}
		out.User = &p
	}
	return &out, nil
}

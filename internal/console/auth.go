package console

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"recloop-admin/internal/backend"
	"recloop-admin/internal/domain"
)

var otpPattern = regexp.MustCompile(`^[0-9]{6}$`)

type RegisterForm struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Register 两次密码不一致直接失败，不发请求
func (c *Console) Register(ctx context.Context, f RegisterForm) (Outcome, error) {
	f.Email = strings.TrimSpace(f.Email)
	switch {
	case f.Password != f.ConfirmPassword:
		return Outcome{}, c.Auth.Fail(invalid("confirmPassword", "Passwords do not match!"))
	case f.Email == "" || f.Password == "":
		return Outcome{}, c.Auth.Fail(invalid("email", "Email and password are required"))
	}
	req := domain.RegisterRequest{Email: f.Email, Password: f.Password, FullName: strings.TrimSpace(f.FullName)}
	if err := c.Auth.Run(ctx, func(ctx context.Context) error { return c.api.Register(ctx, req) }); err != nil {
		return Outcome{}, err
	}
	if err := c.holder.SetPendingEmail(ctx, f.Email); err != nil {
		return Outcome{}, err
	}
	return Outcome{Next: RouteVerifyOTP, Message: "Registration successful! Please check your email for the OTP."}, nil
}

// Login 401 或后端标记邮箱未验证时转入 OTP 验证
func (c *Console) Login(ctx context.Context, email, password string) (Outcome, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Outcome{}, c.Auth.Fail(invalid("email", "Email and password are required"))
	}
	var res *domain.LoginResult
	err := c.Auth.Run(ctx, func(ctx context.Context) (err error) {
		res, err = c.api.Login(ctx, domain.LoginRequest{Email: email, Password: password})
		return err
	})
	if err != nil {
		if !needsVerification(err) {
			return Outcome{}, err
		}
		if err := c.holder.SetPendingEmail(ctx, email); err != nil {
			return Outcome{}, err
		}
		return Outcome{Next: RouteVerifyOTP, Message: "Please verify your email to continue."}, nil
	}
	if prev := c.holder.User(); prev != nil && !sameOperator(prev, res.User) {
		c.resetData()
	}
	if err := c.holder.Login(ctx, res.Token, *res.User); err != nil {
		return Outcome{}, err
	}
	c.log.Info("operator logged in", zap.String("email", email), zap.String("role", res.User.Role))
	return Outcome{Next: c.Home(), Message: "Login successful! Redirecting..."}, nil
}

func needsVerification(err error) bool {
	return errors.Is(err, backend.ErrUnauthorized) || errors.Is(err, backend.ErrEmailNotVerified)
}

// VerifyOTP 需要待验证邮箱；成功后清除并回到登录
func (c *Console) VerifyOTP(ctx context.Context, otp string) (Outcome, error) {
	email := c.holder.PendingEmail()
	if email == "" {
		return Outcome{Next: RouteRegister}, c.OTP.Fail(invalid("email", "No email is waiting for verification"))
	}
	otp = strings.TrimSpace(otp)
	if !otpPattern.MatchString(otp) {
		return Outcome{}, c.OTP.Fail(invalid("otp", "Please enter all 6 digits"))
	}
	req := domain.VerifyEmailRequest{Email: email, OTP: otp}
	if err := c.OTP.Run(ctx, func(ctx context.Context) error { return c.api.VerifyEmail(ctx, req) }); err != nil {
		return Outcome{}, err
	}
	if err := c.holder.ClearPendingEmail(ctx); err != nil {
		c.log.Warn("clear pending email", zap.Error(err))
	}
	return Outcome{Next: RouteLogin, Message: "Email verified successfully!"}, nil
}

func (c *Console) ResendOTP(ctx context.Context) (Outcome, error) {
	email := c.holder.PendingEmail()
	if email == "" {
		return Outcome{Next: RouteRegister}, c.OTP.Fail(invalid("email", "No email is waiting for verification"))
	}
	req := domain.ResendOTPRequest{Email: email}
	if err := c.OTP.Run(ctx, func(ctx context.Context) error { return c.api.ResendOTP(ctx, req) }); err != nil {
		return Outcome{}, err
	}
	return Outcome{Message: "OTP resent successfully!"}, nil
}

// Logout 清空登录态与全部缓存
func (c *Console) Logout(ctx context.Context) (Outcome, error) {
	c.reset()
	next, err := c.holder.Logout(ctx)
	return Outcome{Next: next}, err
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recloop-admin/internal/console"
	"recloop-admin/internal/domain"
	"recloop-admin/internal/transport/http/ez"
)

type Auth struct{}

type loginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type otpIn struct {
	OTP string `json:"otp"`
}

// Me 当前控制台的登录态
type Me struct {
	Authenticated bool            `json:"isAuthenticated"`
	User          *domain.Profile `json:"user"`
	Expired       bool            `json:"expired"`
	PendingEmail  string          `json:"pendingEmail,omitempty"`
	Home          string          `json:"home"`
}

func (Auth) MountPublic(g *gin.RouterGroup) {
	ez.Register(g, ez.Action[console.RegisterForm, console.Outcome]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, con *console.Console, in *console.RegisterForm) (console.Outcome, error) {
			return con.Register(c.Request.Context(), *in)
		},
	})
	ez.Register(g, ez.Action[loginIn, console.Outcome]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, con *console.Console, in *loginIn) (console.Outcome, error) {
			return con.Login(c.Request.Context(), in.Email, in.Password)
		},
	})
	ez.Register(g, ez.Action[otpIn, console.Outcome]{
		Method: http.MethodPost,
		Path:   "/auth/verify-otp",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, con *console.Console, in *otpIn) (console.Outcome, error) {
			return con.VerifyOTP(c.Request.Context(), in.OTP)
		},
	})
	ez.Register(g, ez.Action[struct{}, console.Outcome]{
		Method: http.MethodPost,
		Path:   "/auth/resend-otp",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, con *console.Console, _ *struct{}) (console.Outcome, error) {
			return con.ResendOTP(c.Request.Context())
		},
	})
	ez.Register(g, ez.Action[struct{}, console.Outcome]{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, con *console.Console, _ *struct{}) (console.Outcome, error) {
			return con.Logout(c.Request.Context())
		},
	})
	ez.Register(g, ez.Action[struct{}, Me]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, con *console.Console, _ *struct{}) (Me, error) {
			h := con.Session()
			s := h.Snapshot()
			return Me{
				Authenticated: s.Authenticated,
				User:          s.User,
				Expired:       h.Expired(),
				PendingEmail:  h.PendingEmail(),
				Home:          con.Home(),
			}, nil
		},
	})
	ez.Register(g, ez.Action[struct{}, console.Outcome]{
		Method: http.MethodGet,
		Path:   "/route",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, con *console.Console, _ *struct{}) (console.Outcome, error) {
			return console.Outcome{Next: con.Home()}, nil
		},
	})
}

// Package console 单个操作员的控制台：登录态、各资源缓存与后端客户端绑定在一起，
// 每个方法对应仪表盘上的一个动作。
package console

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"recloop-admin/internal/backend"
	"recloop-admin/internal/core/kv"
	"recloop-admin/internal/domain"
	"recloop-admin/internal/session"
	"recloop-admin/internal/state"
)

const (
	RouteLogin        = session.LoginRoute
	RouteRegister     = "/register"
	RouteVerifyOTP    = "/verify-otp-register"
	RouteDashboard    = "/dashboard"
	RouteUnauthorized = "/unauthorized"
)

// Backend 控制台用到的后端操作；*backend.Client 实现
type Backend interface {
	Register(ctx context.Context, req domain.RegisterRequest) error
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error)
	VerifyEmail(ctx context.Context, req domain.VerifyEmailRequest) error
	ResendOTP(ctx context.Context, req domain.ResendOTPRequest) error

	ListCategories(ctx context.Context, token string) ([]domain.Category, error)
	CreateCategory(ctx context.Context, token string, req domain.CategoryRequest) error
	UpdateCategory(ctx context.Context, token string, id int64, req domain.CategoryRequest) error
	DeleteCategory(ctx context.Context, token string, id int64) error

	ListProducts(ctx context.Context, token string) ([]domain.Product, error)
	GetProduct(ctx context.Context, token string, id int64) (domain.Product, error)
	ApproveProduct(ctx context.Context, token string, id int64) (domain.Product, error)
	RejectProduct(ctx context.Context, token string, id int64, reason string) (domain.Product, error)

	ListReports(ctx context.Context, token string) ([]domain.Report, error)
	GetReport(ctx context.Context, token string, id int64) (domain.Report, error)
	ResolveReport(ctx context.Context, token string, id int64) error
	DeleteReport(ctx context.Context, token string, id int64) error

	ListUsers(ctx context.Context, token string) ([]domain.AdminUser, error)
	GetUser(ctx context.Context, token string, id int64) (domain.AdminUser, error)
	UpdateUser(ctx context.Context, token string, id int64, req domain.UserUpdateRequest) (domain.AdminUser, error)
	ToggleUserLock(ctx context.Context, token string, id int64) (domain.AdminUser, error)
}

// ValidationError 本地校验失败，未发出请求
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, msg string) error { return &ValidationError{Field: field, Message: msg} }

// Outcome 动作结果：下一步路由与提示
type Outcome struct {
	Next    string `json:"next,omitempty"`
	Message string `json:"message,omitempty"`
}

type Console struct {
	id     string
	api    Backend
	log    *zap.Logger
	holder *session.Holder

	Categories *state.Resource[domain.Category]
	Products   *state.Resource[domain.Product]
	Reports    *state.Resource[domain.Report]
	Users      *state.Resource[domain.AdminUser]
	Auth       *state.Flow
	OTP        *state.Flow

	lastUsed atomic.Int64
}

// New store 应已按控制台隔离（kv.Scoped）
func New(id string, api Backend, store kv.Store, log *zap.Logger) *Console {
	if log == nil {
		log = zap.NewNop()
	}
	msg := state.WithMessage(backend.Message)
	c := &Console{
		id:         id,
		api:        api,
		log:        log.With(zap.String("console", id)),
		holder:     session.New(store, log),
		Categories: state.New[domain.Category]("categories", msg),
		Products:   state.New[domain.Product]("products", msg),
		Reports:    state.New[domain.Report]("reports", msg),
		Users:      state.New[domain.AdminUser]("users", msg),
		Auth:       state.NewFlow(msg),
		OTP:        state.NewFlow(msg),
	}
	c.Touch()
	return c
}

// Init 恢复持久化的登录态
func (c *Console) Init(ctx context.Context) error {
	if err := c.holder.Init(ctx); err != nil {
		c.log.Warn("session restore failed", zap.Error(err))
		return err
	}
	return nil
}

func (c *Console) ID() string { return c.id }

func (c *Console) Session() *session.Holder { return c.holder }

func (c *Console) Touch() { c.lastUsed.Store(time.Now().UnixNano()) }

func (c *Console) LastUsed() time.Time { return time.Unix(0, c.lastUsed.Load()) }

// Home 首页跳转：管理员进仪表盘，已登录非管理员进无权限页，其余去登录
func (c *Console) Home() string {
	s := c.holder.Snapshot()
	switch {
	case !s.Authenticated || s.User == nil:
		return RouteLogin
	case domain.HasRole(s.User, domain.RoleAdmin):
		return RouteDashboard
	default:
		return RouteUnauthorized
	}
}

// reset 登出时清空所有缓存
func (c *Console) reset() {
	c.resetData()
	c.Auth.Reset()
	c.OTP.Reset()
}

// resetData 丢弃上一位操作员拉取的列表
func (c *Console) resetData() {
	c.Categories.Reset()
	c.Products.Reset()
	c.Reports.Reset()
	c.Users.Reset()
}

func sameOperator(a, b *domain.Profile) bool {
	if a == nil || b == nil {
		return false
	}
	if a.ID != 0 && b.ID != 0 && a.ID != b.ID {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(a.Email), strings.TrimSpace(b.Email))
}

func (c *Console) token() string { return c.holder.Token() }

// refetched 变更已成功；刷新失败只记录，错误已写入资源状态
func (c *Console) refetched(resource string, err error) {
	if err != nil {
		c.log.Warn("refetch after mutation failed", zap.String("resource", resource), zap.Error(err))
	}
}

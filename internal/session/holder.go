// Package session 当前操作员的登录态：内存中一份，持久化存储中一份，每次变更同步写入。
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"recloop-admin/internal/core/auth"
	"recloop-admin/internal/core/kv"
	"recloop-admin/internal/domain"
)

const (
	KeyToken        = "authToken"
	KeyUser         = "authUser"
	KeyPendingEmail = "registerEmail"
	KeyPendingAt    = "registerEmailAt" // unix 秒

	// PendingEmailTTL 待验证邮箱只是临时数据，过期后需重新注册或登录
	PendingEmailTTL = 30 * time.Minute

	LoginRoute = "/login"
)

var ErrEmptyToken = errors.New("session: empty token")

// Session 对外的只读视图；User 仅在 Authenticated 时有意义
type Session struct {
	Token         string          `json:"-"`
	User          *domain.Profile `json:"user"`
	Authenticated bool            `json:"isAuthenticated"`
}

type Holder struct {
	store kv.Store
	log   *zap.Logger
	now   func() time.Time

	mu        sync.RWMutex
	token     string
	user      *domain.Profile
	pending   string
	pendingAt time.Time
}

func New(store kv.Store, log *zap.Logger) *Holder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Holder{store: store, log: log.Named("session"), now: time.Now}
}

// Init 从存储恢复；资料损坏时两项一起丢弃，读失败时内存与存储都清空
func (h *Holder) Init(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token, h.user, h.pending, h.pendingAt = "", nil, "", time.Time{}

	token, hasToken, err := h.store.Get(ctx, KeyToken)
	if err != nil {
		h.clearStore(ctx)
		return fmt.Errorf("session init: %w", err)
	}
	raw, hasUser, err := h.store.Get(ctx, KeyUser)
	if err != nil {
		h.clearStore(ctx)
		return fmt.Errorf("session init: %w", err)
	}
	h.loadPending(ctx)

	if !hasToken || token == "" {
		if hasUser {
			_ = h.store.Delete(ctx, KeyUser)
		}
		return nil
	}
	if hasUser {
		var p domain.Profile
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			h.log.Warn("discard corrupt persisted session", zap.Error(err))
			h.clearStore(ctx)
			return nil
		}
		h.user = &p
	}
	h.token = token
	return nil
}

func (h *Holder) clearStore(ctx context.Context) {
	if err := h.store.Delete(ctx, KeyToken, KeyUser); err != nil {
		h.log.Warn("clear persisted session", zap.Error(err))
	}
}

// Login 先落盘再切换内存，返回时两边一致
func (h *Holder) Login(ctx context.Context, token string, p domain.Profile) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.store.Set(ctx, KeyToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := h.store.Set(ctx, KeyUser, string(b)); err != nil {
		_ = h.store.Delete(ctx, KeyToken)
		return fmt.Errorf("persist user: %w", err)
	}
	h.token = token
	h.user = &p
	if h.pending != "" {
		h.dropPending(ctx)
	}
	return nil
}

// Logout 清空内存与存储，返回登录页路由
func (h *Holder) Logout(ctx context.Context) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token, h.user = "", nil
	if err := h.store.Delete(ctx, KeyToken, KeyUser); err != nil {
		return LoginRoute, fmt.Errorf("clear session: %w", err)
	}
	return LoginRoute, nil
}

// UpdateUser 局部覆盖当前资料
func (h *Holder) UpdateUser(ctx context.Context, patch domain.Profile) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.token == "" {
		return nil
	}
	next := patch
	if h.user != nil {
		next = h.user.Merge(patch)
	}
	b, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if err := h.store.Set(ctx, KeyUser, string(b)); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	h.user = &next
	return nil
}

func (h *Holder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *Holder) User() *domain.Profile {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return nil
	}
	p := *h.user
	return &p
}

func (h *Holder) IsAuthenticated() bool { return h.Token() != "" }

func (h *Holder) Snapshot() Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s := Session{Token: h.token, Authenticated: h.token != ""}
	if h.user != nil {
		p := *h.user
		s.User = &p
	}
	return s
}

// Expired token 的 exp 已过；无法解析或无 exp 视为未过期，由后端决定
func (h *Holder) Expired() bool {
	tok := h.Token()
	if tok == "" {
		return false
	}
	info, err := auth.Inspect(tok)
	if err != nil {
		return false
	}
	return info.Expired(h.now())
}

// SetPendingEmail 记录待验证邮箱（注册后或登录提示未验证时），PendingEmailTTL 后失效
func (h *Holder) SetPendingEmail(ctx context.Context, email string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	at := h.now()
	if err := h.store.Set(ctx, KeyPendingEmail, email); err != nil {
		return err
	}
	if err := h.store.Set(ctx, KeyPendingAt, strconv.FormatInt(at.Unix(), 10)); err != nil {
		return err
	}
	h.pending, h.pendingAt = email, at
	return nil
}

func (h *Holder) PendingEmail() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.pending == "" || h.now().Sub(h.pendingAt) > PendingEmailTTL {
		return ""
	}
	return h.pending
}

func (h *Holder) ClearPendingEmail(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending, h.pendingAt = "", time.Time{}
	return h.store.Delete(ctx, KeyPendingEmail, KeyPendingAt)
}

// loadPending 调用方持有写锁；缺少时间戳或已过期的记录直接删除
func (h *Holder) loadPending(ctx context.Context) {
	email, ok, err := h.store.Get(ctx, KeyPendingEmail)
	if err != nil || !ok || email == "" {
		return
	}
	raw, _, err := h.store.Get(ctx, KeyPendingAt)
	sec, perr := strconv.ParseInt(raw, 10, 64)
	if err != nil || perr != nil || h.now().Sub(time.Unix(sec, 0)) > PendingEmailTTL {
		h.dropPending(ctx)
		return
	}
	h.pending, h.pendingAt = email, time.Unix(sec, 0)
}

// dropPending 调用方持有写锁
func (h *Holder) dropPending(ctx context.Context) {
	h.pending, h.pendingAt = "", time.Time{}
	if err := h.store.Delete(ctx, KeyPendingEmail, KeyPendingAt); err != nil {
		h.log.Warn("clear pending email", zap.Error(err))
	}
}

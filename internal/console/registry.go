package console

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"recloop-admin/internal/core/kv"
)

// Registry 控制台会话 id -> Console；登录态持久化在 store，缓存只在内存
type Registry struct {
	api   Backend
	store kv.Store
	log   *zap.Logger
	idle  time.Duration

	mu       sync.Mutex
	consoles map[string]*Console

	active prometheus.Gauge
}

type RegistryOptions struct {
	Backend    Backend
	Store      kv.Store
	IdleTTL    time.Duration // <=0 不淘汰
	Logger     *zap.Logger
	Registerer prometheus.Registerer
}

func NewRegistry(o RegistryOptions) *Registry {
	l := o.Logger
	if l == nil {
		l = zap.NewNop()
	}
	r := &Registry{
		api:      o.Backend,
		store:    o.Store,
		log:      l.Named("console"),
		idle:     o.IdleTTL,
		consoles: map[string]*Console{},
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "recloop_console_sessions",
			Help: "Console sessions held in memory",
		}),
	}
	if o.Registerer != nil {
		if err := o.Registerer.Register(r.active); err != nil {
			r.log.Warn("register console gauge", zap.Error(err))
		}
	}
	return r
}

func storePrefix(sid string) string { return "sid:" + sid + ":" }

// Get 取出或创建控制台；新建时从 store 恢复登录态
func (r *Registry) Get(ctx context.Context, sid string) *Console {
	r.mu.Lock()
	if c, ok := r.consoles[sid]; ok {
		r.mu.Unlock()
		c.Touch()
		return c
	}
	r.mu.Unlock()

	c := New(sid, r.api, kv.Scoped(r.store, storePrefix(sid)), r.log)
	_ = c.Init(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.consoles[sid]; ok {
		existing.Touch()
		return existing
	}
	r.consoles[sid] = c
	r.active.Set(float64(len(r.consoles)))
	return c
}

func (r *Registry) Lookup(sid string) (*Console, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.consoles[sid]
	return c, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.consoles)
}

// Sweep 淘汰空闲的控制台（只丢内存，持久化登录态保留）
func (r *Registry) Sweep(now time.Time) int {
	if r.idle <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for sid, c := range r.consoles {
		if now.Sub(c.LastUsed()) > r.idle {
			delete(r.consoles, sid)
			n++
		}
	}
	r.active.Set(float64(len(r.consoles)))
	return n
}

// Run 周期清理，直到 ctx 结束
func (r *Registry) Run(ctx context.Context) {
	if r.idle <= 0 {
		return
	}
	every := r.idle / 4
	if every < time.Second {
		every = time.Second
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := r.Sweep(now); n > 0 {
				r.log.Info("evicted idle consoles", zap.Int("count", n), zap.Int("remaining", r.Len()))
			}
		}
	}
}

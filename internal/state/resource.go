package state

import (
	"context"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Keyed 资源实体需要暴露 id
type Keyed interface{ Key() int64 }

// Snapshot 某一时刻的只读副本
type Snapshot[T any] struct {
	Items    []T    `json:"items"`
	Selected *T     `json:"selected"`
	Loading  bool   `json:"loading"`
	Error    string `json:"error"`
	Version  uint64 `json:"version"`
}

type Option func(*options)

type options struct {
	message     func(error) string
	loadTimeout time.Duration
}

// WithMessage 失败时写入 Error 的文字
func WithMessage(fn func(error) string) Option {
	return func(o *options) { o.message = fn }
}

// WithLoadTimeout 合并后的列表加载不跟随单个调用方取消，只受这个上限约束
func WithLoadTimeout(d time.Duration) Option {
	return func(o *options) { o.loadTimeout = d }
}

// Resource 一个远端集合的本地缓存：集合、当前选中项、加载中、最近一次错误
//
// 每个异步操作都经过 pending -> fulfilled | rejected；rejected 只写 Error，不动 Items
type Resource[T Keyed] struct {
	name string
	opt  options
	sf   singleflight.Group

	mu       sync.Mutex
	items    []T
	selected *T
	inflight int
	err      string
	version  uint64
	seq      uint64 // 列表加载序号，落后的响应直接丢弃
}

func New[T Keyed](name string, opts ...Option) *Resource[T] {
	o := options{
		message:     func(err error) string { return err.Error() },
		loadTimeout: 30 * time.Second,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return &Resource[T]{name: name, opt: o}
}

func (r *Resource[T]) Name() string { return r.name }

func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Snapshot[T]{
		Items:   slices.Clone(r.items),
		Loading: r.inflight > 0,
		Error:   r.err,
		Version: r.version,
	}
	if s.Items == nil {
		s.Items = []T{}
	}
	if r.selected != nil {
		v := *r.selected
		s.Selected = &v
	}
	return s
}

// Find 按 id 查缓存
func (r *Resource[T]) Find(id int64) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.index(id); i >= 0 {
		return r.items[i], true
	}
	var zero T
	return zero, false
}

// Load 拉取整个集合；并发调用合并为一次请求
//
// 共享的请求跑在脱离调用方取消的 ctx 上（保留 request id 等值）；
// 某个调用方取消只让它自己提前返回，其余等待者照常拿到结果
func (r *Resource[T]) Load(ctx context.Context, fn func(context.Context) ([]T, error)) error {
	ch := r.sf.DoChan("list", func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.opt.loadTimeout)
		defer cancel()
		return nil, r.load(lctx, fn)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reload 不复用进行中的加载；变更成功后用它刷新，旧请求的结果会被丢弃
func (r *Resource[T]) Reload(ctx context.Context, fn func(context.Context) ([]T, error)) error {
	r.sf.Forget("list")
	return r.Load(ctx, fn)
}

func (r *Resource[T]) load(ctx context.Context, fn func(context.Context) ([]T, error)) error {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.pending()
	r.mu.Unlock()

	items, err := fn(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if seq != r.seq {
		r.settle(nil)
		return err
	}
	r.settle(err)
	if err == nil {
		r.items = slices.Clone(items)
	}
	return err
}

// LoadOne 拉取单个实体作为当前选中项
func (r *Resource[T]) LoadOne(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	r.begin()
	v, err := fn(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.settle(err)
	if err == nil {
		r.selected = &v
	}
	return v, err
}

// Apply 单实体操作；成功后只替换 key 相同的那一项（以及选中项）
func (r *Resource[T]) Apply(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	r.begin()
	v, err := fn(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.settle(err)
	if err != nil {
		return v, err
	}
	if i := r.index(v.Key()); i >= 0 {
		r.items[i] = v
	}
	if r.selected != nil && (*r.selected).Key() == v.Key() {
		r.selected = &v
	}
	return v, nil
}

// Run 无返回实体的变更（新建、删除、处理）
func (r *Resource[T]) Run(ctx context.Context, fn func(context.Context) error) error {
	r.begin()
	err := fn(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.settle(err)
	return err
}

// Patch 成功后的本地修正
func (r *Resource[T]) Patch(id int64, fn func(*T)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return false
	}
	fn(&r.items[i])
	if r.selected != nil && (*r.selected).Key() == id {
		v := r.items[i]
		r.selected = &v
	}
	r.version++
	return true
}

func (r *Resource[T]) Remove(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return false
	}
	r.items = slices.Delete(r.items, i, i+1)
	if r.selected != nil && (*r.selected).Key() == id {
		r.selected = nil
	}
	r.version++
	return true
}

// Reset 清空缓存（登出）；进行中的加载结果会被丢弃
func (r *Resource[T]) Reset() {
	r.sf.Forget("list")
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.items = nil
	r.selected = nil
	r.err = ""
	r.version++
}

func (r *Resource[T]) begin() {
	r.mu.Lock()
	r.pending()
	r.mu.Unlock()
}

func (r *Resource[T]) pending() {
	r.inflight++
	r.err = ""
	r.version++
}

func (r *Resource[T]) settle(err error) {
	if r.inflight > 0 {
		r.inflight--
	}
	if err != nil {
		r.err = r.opt.message(err)
	}
	r.version++
}

func (r *Resource[T]) index(id int64) int {
	return slices.IndexFunc(r.items, func(v T) bool { return v.Key() == id })
}

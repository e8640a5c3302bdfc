package state

import (
	"context"
	"sync"
)

// FlowSnapshot 无集合的异步流程（登录、注册、OTP）的状态
type FlowSnapshot struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error"`
	Done    bool   `json:"done"`
	Version uint64 `json:"version"`
}

type Flow struct {
	opt options

	mu       sync.Mutex
	inflight int
	err      string
	done     bool
	version  uint64
}

func NewFlow(opts ...Option) *Flow {
	o := options{message: func(err error) string { return err.Error() }}
	for _, fn := range opts {
		fn(&o)
	}
	return &Flow{opt: o}
}

func (f *Flow) Run(ctx context.Context, fn func(context.Context) error) error {
	f.mu.Lock()
	f.inflight++
	f.err = ""
	f.done = false
	f.version++
	f.mu.Unlock()

	err := fn(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inflight > 0 {
		f.inflight--
	}
	if err != nil {
		f.err = f.opt.message(err)
	} else {
		f.done = true
	}
	f.version++
	return err
}

// Fail 记录本地校验失败（未发请求）
func (f *Flow) Fail(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = f.opt.message(err)
	f.done = false
	f.version++
	return err
}

func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = ""
	f.done = false
	f.version++
}

func (f *Flow) Snapshot() FlowSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FlowSnapshot{Loading: f.inflight > 0, Error: f.err, Done: f.done, Version: f.version}
}

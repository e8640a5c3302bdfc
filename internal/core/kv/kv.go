// Package kv 控制台的持久化键值存储（对应浏览器 localStorage 的角色）。
package kv

import (
	"context"
	"errors"
)

var ErrClosed = errors.New("kv: store closed")

type Store interface {
	// Get 第二个返回值表示 key 是否存在
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

type scoped struct {
	s      Store
	prefix string
}

// Scoped 为每个控制台会话隔离 key 空间
func Scoped(s Store, prefix string) Store {
	return &scoped{s: s, prefix: prefix}
}

func (p *scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return p.s.Get(ctx, p.prefix+key)
}

func (p *scoped) Set(ctx context.Context, key, value string) error {
	return p.s.Set(ctx, p.prefix+key, value)
}

func (p *scoped) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = p.prefix + k
	}
	return p.s.Delete(ctx, full...)
}

package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// File 单个 JSON 文件；每次写入整体落盘（tmp + rename）
type File struct {
	mu   sync.Mutex
	path string
	m    map[string]string
	log  *zap.Logger
}

// OpenFile 文件损坏时丢弃内容重新开始（与浏览器端行为一致）
func OpenFile(path string, l *zap.Logger) (*File, error) {
	if l == nil {
		l = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("kv file: mkdir: %w", err)
	}
	f := &File{path: path, m: map[string]string{}, log: l}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("kv file: read: %w", err)
	case len(b) > 0:
		if err := json.Unmarshal(b, &f.m); err != nil {
			l.Warn("kv file corrupted, starting empty", zap.String("path", path), zap.Error(err))
			f.m = map[string]string{}
		}
	}
	return f, nil
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.m[key]
	return v, ok, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[key] = value
	return f.flush()
}

func (f *File) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	changed := false
	for _, k := range keys {
		if _, ok := f.m[k]; ok {
			delete(f.m, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return f.flush()
}

// flush 调用方持有锁
func (f *File) flush() error {
	b, err := json.Marshal(f.m)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".kv-*")
	if err != nil {
		return fmt.Errorf("kv file: temp: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("kv file: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

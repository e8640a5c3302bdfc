package kv

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"recloop-admin/internal/core/config"
	"recloop-admin/internal/core/database"
)

// Open 按 store.driver 选择实现；返回的 cleanup 负责释放连接
func Open(ctx context.Context, c *config.Config, l *zap.Logger) (Store, func(), error) {
	noop := func() {}
	switch c.Store.Driver {
	case "", "file":
		s, err := OpenFile(c.Store.Path, l)
		return s, noop, err
	case "memory":
		return NewMemory(), noop, nil
	case "redis":
		r := NewRedis(c.Redis.Addr, c.Redis.Password, c.Redis.DB, c.Store.Prefix, 0)
		if err := r.Ping(ctx); err != nil {
			_ = r.Close()
			return nil, noop, fmt.Errorf("kv redis: %w", err)
		}
		return r, func() { _ = r.Close() }, nil
	case "postgres", "mysql":
		db, err := database.NewGorm(database.Opts{
			Driver:             c.Store.Driver,
			DSN:                c.DB.DSN,
			Username:           c.DB.Username,
			Password:           c.DB.Password,
			MaxOpenConns:       c.DB.MaxOpenConns,
			MaxIdleConns:       c.DB.MaxIdleConns,
			ConnMaxLifetimeMin: c.DB.ConnMaxLifetimeMin,
			LogLevel:           c.DB.LogLevel,
		}, l)
		if err != nil {
			return nil, noop, fmt.Errorf("kv %s: %w", c.Store.Driver, err)
		}
		g, err := NewGorm(db, c.DB.AutoMigrate)
		closeDB := func() {
			if sqlDB, e := db.DB(); e == nil {
				_ = sqlDB.Close()
			}
		}
		if err != nil {
			closeDB()
			return nil, noop, fmt.Errorf("kv %s: migrate: %w", c.Store.Driver, err)
		}
		return g, closeDB, nil
	default:
		return nil, noop, fmt.Errorf("kv: unknown driver %q", c.Store.Driver)
	}
}

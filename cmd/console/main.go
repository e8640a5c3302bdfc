package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"recloop-admin/internal/backend"
	"recloop-admin/internal/console"
	"recloop-admin/internal/core/config"
	"recloop-admin/internal/core/kv"
	"recloop-admin/internal/core/logger"
	"recloop-admin/internal/core/server"
	"recloop-admin/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	restoreStd := logger.RedirectStdLog(log, zapcore.WarnLevel)
	defer restoreStd()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 会话持久化（失败直接 Fatal）
	store, closeStore, err := kv.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("store open", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer closeStore()
	log.Info("store ready", zap.String("driver", cfg.Store.Driver))

	// 依赖
	api := backend.New(backend.Options{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout(),
		Logger:  log,
		Metrics: backend.NewMetrics(prometheus.DefaultRegisterer),
	})
	reg := console.NewRegistry(console.RegistryOptions{
		Backend:    api,
		Store:      store,
		IdleTTL:    cfg.Console.IdleTTL(),
		Logger:     log,
		Registerer: prometheus.DefaultRegisterer,
	})
	go reg.Run(ctx)

	r := router.NewConsoleEngine(router.Deps{Config: cfg, Logger: log, Registry: reg})

	h := cfg.App.HTTP
	addr := server.Addr(h.Host, h.Port)
	srv := server.BuildServer(addr, r,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)

	// 启动前打印可点击地址
	host4human := h.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(h.Port)
	log.Info("console bff starting",
		zap.String("addr", addr),
		zap.String("backend", api.BaseURL()),
		zap.String("health", baseURL+"/health"),
		zap.String("console_v1", baseURL+router.Prefix),
	)

	if err := server.StartHTTP(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("console bff stopped with error", zap.Error(err))
		return
	}
	log.Info("console bff stopped gracefully")
}

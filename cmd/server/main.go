package main

import (
	"log/slog"
	"os"

	"github.com/blogicum/internal/config"
	"github.com/blogicum/internal/db"
	"github.com/blogicum/internal/observability"
	"github.com/blogicum/internal/router"
	"github.com/blogicum/internal/service"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logger := observability.Setup(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabaseDriver, cfg.DSN()); err != nil {
		logger.Error("failed to initialize database", slog.Any("error", err))
		os.Exit(1)
	}

	created, err := db.EnsureUser(db.DB, cfg.BootstrapUsername, cfg.BootstrapPassword)
	if err != nil {
		logger.Error("failed to bootstrap user", slog.Any("error", err))
		os.Exit(1)
	}
	if created {
		logger.Info("bootstrap user created", slog.String("username", cfg.BootstrapUsername))
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(db.DB, router.Options{
		SessionSecret:      cfg.SessionSecret,
		SecureCookies:      cfg.SecureCookies,
		StaticDir:          cfg.StaticDir,
		Media:              service.NewMediaStore(cfg.MediaDir, cfg.MediaURLPath),
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		RateLimitBurst:     cfg.RateLimitBurst,
		Location:           cfg.Location(),
	})

	logger.Info("server listening", slog.String("addr", cfg.ListenAddr))
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Error("failed to run server", slog.Any("error", err))
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/writespace/internal/config"
	"github.com/writespace/internal/db"
	"github.com/writespace/internal/handler"
	"github.com/writespace/internal/router"
	"github.com/writespace/internal/service"
	"github.com/writespace/internal/store"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
}

// run 返回前会执行全部 defer，确保存储连接被关闭。
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	gin.SetMode(cfg.GinMode)

	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeRepo()

	suggestions := service.NewAISuggestionService(service.AISettings{
		Provider:        cfg.AIProvider,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		OpenAIBaseURL:   cfg.OpenAIBaseURL,
		OpenAIModel:     cfg.OpenAIModel,
		DeepSeekAPIKey:  cfg.DeepSeekAPIKey,
		DeepSeekBaseURL: cfg.DeepSeekBaseURL,
		DeepSeekModel:   cfg.DeepSeekModel,
		GeminiAPIKey:    cfg.GeminiAPIKey,
		GeminiModel:     cfg.GeminiModel,
		Timeout:         cfg.AITimeout,
	})
	if !suggestions.Configured() {
		log.Printf("[WARN] no API key configured for AI provider %q; /api/ai-suggestions will fail", suggestions.Provider())
	}

	api := handler.NewAPI(repo, service.NewTokenService(cfg.JWTSecret, cfg.JWTTTL), suggestions)
	api.SetStorageDriver(cfg.StorageDriver)

	if user, err := api.Auth().EnsureUser(cfg.DemoUserName, cfg.DemoUserEmail, cfg.DemoUserPassword); err != nil {
		return fmt.Errorf("failed to ensure demo user: %w", err)
	} else if user != nil {
		log.Printf("demo user ready: id=%d email=%s", user.ID, user.Email)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.SetupRouter(cfg, api),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("writespace listening on %s (storage=%s)", cfg.ListenAddr, cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("failed to run server: %w", err)
	case <-ctx.Done():
		log.Printf("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	return nil
}

// openRepository 按配置选择内存或 sqlite 存储，返回的 close 函数用于释放连接。
func openRepository(cfg config.AppConfig) (store.Repository, func(), error) {
	if cfg.StorageDriver != config.StorageSQLite {
		return store.NewMemoryStore(), func() {}, nil
	}

	gdb, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return store.NewSQLStore(gdb), closeFn, nil
}

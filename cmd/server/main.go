// Package main is the entry point of the ElderEase chat backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elderease/internal/config"
	"elderease/internal/handler"
	"elderease/internal/middleware"
	"elderease/internal/repository"
	"elderease/internal/service"
	"elderease/pkg/database"
	"elderease/pkg/llm"
	"elderease/pkg/log"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. configuration; missing credentials stop the process before the port is bound
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}
	if err := config.Init(configPath); err != nil {
		log.Init("info", "console", "")
		log.Fatal("failed to load configuration", err)
	}
	cfg := config.Conf

	// 2. logger
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()
	log.Info("logger initialised")

	ctx := context.Background()

	// 3. history store
	historyRepo, closeStore, err := newHistoryRepository(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("failed to initialise history store", err)
	}
	defer closeStore()

	// 4. generative-language client
	llmClient, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		log.Fatal("failed to create llm client", err)
	}

	// 5. services
	chatService := service.NewChatService(llmClient, llm.ParamsFromConfig(cfg.LLM.Generation), cfg.History.MaxTurns)
	historyService := service.NewHistoryService(historyRepo, cfg.History.MaxTurns)

	// 6. router
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())
	handler.RegisterRoutes(r, handler.NewChatHandler(chatService), handler.NewHistoryHandler(historyService))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: middleware.CORS(cfg.CORS.AllowedOrigins, r),
	}

	go func() {
		log.Infow("server listening", "addr", srv.Addr, "storage", cfg.Storage.Driver, "provider", cfg.LLM.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP listen failed: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", err)
		return
	}
	log.Info("server stopped")
}

// newHistoryRepository opens the configured store. The returned func releases it.
func newHistoryRepository(ctx context.Context, cfg config.StorageConfig) (repository.HistoryRepository, func(), error) {
	switch cfg.Driver {
	case config.DriverFirestore:
		client, err := database.NewFirestore(ctx, cfg.Firestore)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewFirestoreHistoryRepository(client, cfg.Firestore.Collection), closer(client), nil
	case config.DriverRedis:
		rdb, err := database.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		ttl := time.Duration(cfg.Redis.TTLHours) * time.Hour
		return repository.NewRedisHistoryRepository(rdb, ttl), closer(rdb), nil
	case config.DriverMySQL:
		db, err := database.NewMySQL(cfg.MySQL.DSN)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		return repository.NewMySQLHistoryRepository(db), closer(sqlDB), nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func closer(c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Error("failed to close history store", err)
		}
	}
}

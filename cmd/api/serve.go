package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zhouzirui/ev-commerce/backend/internal/analysis/intent"
	"github.com/zhouzirui/ev-commerce/backend/internal/config"
	"github.com/zhouzirui/ev-commerce/backend/internal/handler"
	"github.com/zhouzirui/ev-commerce/backend/internal/logging"
	"github.com/zhouzirui/ev-commerce/backend/internal/metrics"
	"github.com/zhouzirui/ev-commerce/backend/internal/model/catalog"
	"github.com/zhouzirui/ev-commerce/backend/internal/ratelimit"
	"github.com/zhouzirui/ev-commerce/backend/internal/service/ai"
	cartService "github.com/zhouzirui/ev-commerce/backend/internal/service/cart"
	catalogService "github.com/zhouzirui/ev-commerce/backend/internal/service/catalog"
	chatService "github.com/zhouzirui/ev-commerce/backend/internal/service/chat"
	orderService "github.com/zhouzirui/ev-commerce/backend/internal/service/order"
	reviewService "github.com/zhouzirui/ev-commerce/backend/internal/service/review"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	restore := zap.ReplaceGlobals(logger)
	defer restore()

	if envErr != nil {
		logger.Debug("no .env file loaded, using process environment", zap.Error(envErr))
	}

	kb, err := loadKnowledge(cfg.Chatbot)
	if err != nil {
		return err
	}

	m := metrics.New()
	vehicles := catalog.NewMemoryStore(catalog.Seed())

	chatOpts := []chatService.Option{
		chatService.WithMetrics(m),
		chatService.WithLogger(logging.Component(logger, "chat")),
	}
	if assistant := newAssistant(ctx, cfg, kb, vehicles, logger); assistant != nil {
		chatOpts = append(chatOpts, chatService.WithFallback(assistant))
	}

	limiter, closeLimiter, err := newLimiter(ctx, cfg.RateLimit, logger)
	if err != nil {
		return err
	}
	defer closeLimiter()

	carts := cartService.NewService(vehicles)
	router := handler.NewRouter(handler.Dependencies{
		Catalog:     catalogService.NewService(vehicles),
		Chat:        chatService.NewService(kb, chatOpts...),
		Carts:       carts,
		Orders:      orderService.NewService(carts, m, logging.Component(logger, "order")),
		Reviews:     reviewService.NewService(vehicles),
		Metrics:     m,
		Limiter:     limiter,
		Logger:      logger,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("EV storefront backend listening", zap.String("addr", cfg.Server.Addr))
	if err := runServer(ctx, srv); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func loadKnowledge(cfg config.ChatbotConfig) (*intent.KnowledgeBase, error) {
	if cfg.KnowledgeFile == "" {
		return intent.Default()
	}
	kb, err := intent.LoadFile(cfg.KnowledgeFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge file %s: %w", cfg.KnowledgeFile, err)
	}
	return kb, nil
}

// newAssistant 在配置齐全且开启时创建 LLM 兜底，失败时仅记录日志。
func newAssistant(ctx context.Context, cfg *config.Config, kb *intent.KnowledgeBase, vehicles catalog.Store, logger *zap.Logger) *ai.Service {
	if !cfg.Chatbot.AIFallback {
		return nil
	}
	if !cfg.AI.Enabled() {
		logger.Warn("CHATBOT_AI_FALLBACK is set but Ark credentials are missing, using canned fallback")
		return nil
	}
	assistant, err := ai.NewService(ctx, cfg.AI, kb, vehicles, logging.Component(logger, "ai"))
	if err != nil {
		logger.Warn("failed to initialize assistant, using canned fallback", zap.Error(err))
		return nil
	}
	logger.Info("assistant fallback enabled", zap.String("model", cfg.AI.Model))
	return assistant
}

// newLimiter 优先使用 Redis，未配置时退回进程内令牌桶。
func newLimiter(ctx context.Context, cfg config.RateLimitConfig, logger *zap.Logger) (ratelimit.Limiter, func(), error) {
	if !cfg.Enabled() {
		logger.Info("rate limiting disabled")
		return nil, func() {}, nil
	}
	if cfg.RedisAddr != "" {
		limiter, err := ratelimit.DialRedis(ctx, cfg.RedisAddr, cfg.Capacity, cfg.Window)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect rate limit redis: %w", err)
		}
		logger.Info("rate limiting via redis", zap.String("addr", cfg.RedisAddr))
		return limiter, func() { _ = limiter.Close() }, nil
	}
	limiter := ratelimit.NewMemory(cfg.Capacity, cfg.Window)
	return limiter, limiter.Stop, nil
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

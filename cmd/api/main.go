package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/poker-advisor/backend/internal/config"
	"github.com/zhouzirui/poker-advisor/backend/internal/handler"
	"github.com/zhouzirui/poker-advisor/backend/internal/logging"
	"github.com/zhouzirui/poker-advisor/backend/internal/model/profile"
	"github.com/zhouzirui/poker-advisor/backend/internal/service/advisor"
	"github.com/zhouzirui/poker-advisor/backend/internal/service/ai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	completer, err := ai.NewCompleter(ctx, cfg.LLM)
	if err != nil {
		logger.Fatal("failed to initialize llm provider", zap.Error(err))
	}
	if !cfg.LLM.HasCredentials() {
		// 仍然启动服务，请求时返回 "API key mancante"
		logger.Warn("llm credentials missing, requests will fail until configured",
			zap.String("provider", cfg.LLM.Provider))
	} else {
		logger.Info("llm provider initialized",
			zap.String("provider", completer.Name()),
			zap.String("text_model", cfg.LLM.TextModel),
			zap.String("vision_model", cfg.LLM.VisionModel))
	}

	profileStore := profile.NewMemoryStore(profile.Seed())
	advisorSvc := advisor.NewService(completer, profileStore, advisor.Options{
		Models: advisor.Models{
			Text:   cfg.LLM.TextModel,
			Vision: cfg.LLM.VisionModel,
		},
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}, logger)

	router := handler.NewRouter(cfg.HTTP, advisorSvc, profileStore, logger)

	startServer(ctx, cfg.Server, router, logger)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("Poker Advisor AI backend listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
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

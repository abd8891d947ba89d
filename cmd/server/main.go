package main

import (
	"GophChat/internal/catalog"
	"GophChat/internal/config"
	"GophChat/internal/gemini"
	"GophChat/internal/handlers"
	"GophChat/internal/metrics"
	"GophChat/internal/middleware"
	"GophChat/internal/repo"
	"GophChat/internal/service"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	m := metrics.New()
	cat := catalog.Default()

	chatService := service.NewChatService(repo.NewChatRepository(gormDB), cat)
	messageService := service.NewMessageService(repo.NewMessageRepository(gormDB))
	keyVault := service.NewKeyVault(repo.NewAPIKeyRepository(gormDB))

	client := gemini.NewClient(
		gemini.WithBaseURL(cfg.GeminiBaseURL),
		gemini.WithTimeout(cfg.GenerationTimeout),
		gemini.WithMaxOutputTokens(cfg.MaxOutputTokens),
	)
	generation := service.NewGenerationService(chatService, messageService, keyVault, cat, client,
		service.WithDefaultAPIKey(cfg.GeminiAPIKey),
		service.WithRecorder(m),
		service.WithLogger(sugar),
	)

	h := handlers.NewHandler(handlers.Services{
		Users:      service.NewUserService(repo.NewUserRepository(gormDB)),
		Chats:      chatService,
		Messages:   messageService,
		Keys:       keyVault,
		Generation: generation,
		Catalog:    cat,
	}, m, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"DatabaseDSN", cfg.DatabaseDSN,
		"GenerationTimeout", cfg.GenerationTimeout,
		"MaxOutputTokens", cfg.MaxOutputTokens,
		"DefaultKeyConfigured", cfg.GeminiAPIKey != "",
	)

	srv := &http.Server{Addr: addr, Handler: h.Router}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.GenerationTimeout+5*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Shutdown failed", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"cadchat/internal/api"
	"cadchat/internal/bridge"
	"cadchat/internal/config"
	"cadchat/internal/repository"
	"cadchat/internal/service"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database (panels, sessions, messages, history)
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	panelRepo := repository.NewPanelRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	// Load the documentation snapshot (read-only for the process lifetime,
	// swapped wholesale on admin reload)
	docsService, err := service.NewDocsService(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize docs service", zap.Error(err))
	}

	// Initialize the code-generation bridge
	br, err := newBridge(cfg, docsService)
	if err != nil {
		logger.Fatal("Failed to initialize bridge", zap.Error(err))
	}

	// Initialize services. No host executor is wired in this deployment;
	// generated code runs only when the CAD host executes it.
	chatService := service.NewChatService(
		cfg,
		panelRepo,
		sessionRepo,
		historyRepo,
		br,
		nil,
		docsService.Store(),
		logger,
	)

	panelService := service.NewPanelService(cfg, panelRepo, chatService)
	adminService := service.NewAdminService(panelRepo, sessionRepo, docsService)

	// Setup router
	router := api.SetupRouter(adminService, panelService, docsService, api.RouterConfig{
		APIKey:       cfg.Admin.APIKey,
		AllowOrigins: []string{"*"},
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * cfg.Bridge.Timeout(),
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting CADChat server",
			zap.String("address", cfg.Address()),
			zap.String("base_url", cfg.Server.BaseURL),
			zap.String("llm_provider", cfg.LLM.Provider),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// newBridge selects the code-generation backend from config.
func newBridge(cfg *config.Config, docsService *service.DocsService) (bridge.Bridge, error) {
	switch cfg.LLM.Provider {
	case "anthropic":
		return bridge.NewClaudeBridge(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.MaxTokens, docsService.Store())
	case "openai":
		return bridge.NewOpenAIBridge(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.MaxTokens, docsService.Store())
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.LLM.Provider)
	}
}

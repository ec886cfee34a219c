package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gitcord/config"
	_ "gitcord/docs" // Swagger docs
	"gitcord/internal/command"
	"gitcord/internal/httpserver"
	"gitcord/internal/relay/repository/sqlite"
	"gitcord/internal/relay/usecase"
	"gitcord/internal/webhook"
	"gitcord/pkg/discord"
	"gitcord/pkg/log"
)

// @title       Gitcord Relay API
// @description GitHub to Discord branch-channel relay.
// @version     1
// @host        localhost:3000
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Gitcord Relay...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Store path: %s", cfg.Store.Path)

	// 3. Destination store
	store, err := sqlite.New(cfg.Store.Path)
	if err != nil {
		logger.Error(ctx, "Failed to open destination store: ", err)
		return
	}
	defer store.Close()

	// 4. Discord client
	discordClient := discord.NewClient(cfg.Discord.BotToken)
	if cfg.Discord.APIBaseURL != "" {
		discordClient.SetAPIURL(cfg.Discord.APIBaseURL)
	}
	if cfg.Discord.APIRateLimit > 0 {
		discordClient.SetRateLimit(cfg.Discord.APIRateLimit)
	}

	// 5. Relay usecase + delivery handlers
	relayUC := usecase.New(logger, store, discordClient)
	webhookHandler := webhook.NewHandler(relayUC, logger)

	registry := command.NewRegistry(store)
	commandHandler := command.NewHandler(registry, logger)

	// 6. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:         logger,
		Port:           cfg.HTTPServer.Port,
		Mode:           cfg.HTTPServer.Mode,
		Environment:    cfg.Environment.Name,
		WebhookHandler: webhookHandler,
		CommandHandler: commandHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 7. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm/logger"

	"autodocgen/internal/config"
	"autodocgen/internal/database"
	"autodocgen/internal/ingest"
	"autodocgen/internal/llm/client"
	"autodocgen/internal/services"
	"autodocgen/internal/trello"
	"autodocgen/internal/utils"
	"autodocgen/internal/webhook"
	"autodocgen/internal/workflow"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("autodocgen: %v", err)
	}
}

func run() error {
	if err := utils.LoadEnv(); err != nil {
		log.Printf("load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Init(database.Config{
		Path:     cfg.DatabasePath,
		LogLevel: logger.Warn,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Printf("close database: %v", err)
		}
	}()

	generator, err := newGenerator(ctx, cfg)
	if err != nil {
		return err
	}

	var trelloOpts []trello.Option
	if cfg.TrelloBaseURL != "" {
		trelloOpts = append(trelloOpts, trello.WithBaseURL(cfg.TrelloBaseURL))
	}
	boardClient := trello.NewClient(trelloOpts...)

	pipeline := workflow.NewPipeline(boardClient, generator)

	svcs := services.NewServices(db, boardClient, pipeline, services.Config{
		AppKey:  cfg.TrelloAPIKey,
		BaseURL: cfg.BaseURL,
	})

	// Boards created since a user's last reconnect are only picked up by a
	// fresh sync, so rebuild the board-user map for every stored token.
	if err := svcs.Boards.RefreshMappings(ctx); err != nil {
		log.Printf("board mapping refresh: %v", err)
	}

	queue := ingest.NewQueue(ctx, ingest.ProcessorFunc(svcs.Notifications.Ingest))

	server := webhook.NewServer(webhook.Settings{Addr: cfg.Addr}, svcs, queue)
	if err := server.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	log.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	queue.Close()
	return nil
}

func newGenerator(ctx context.Context, cfg *config.Config) (*client.Generator, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return client.NewGeminiGenerator(ctx, cfg.ProviderAPIKey, cfg.Model)
	case config.ProviderOpenAI:
		return client.NewOpenAIGenerator(ctx, cfg.ProviderAPIKey, cfg.Model)
	case config.ProviderClaude:
		return client.NewClaudeGenerator(ctx, cfg.ProviderAPIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

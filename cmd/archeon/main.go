// Package main provides the entry point for the Archeon Discord bot.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/archeon-bot/archeon/internal/assistant"
	"github.com/archeon-bot/archeon/internal/bot"
	"github.com/archeon-bot/archeon/internal/config"
	"github.com/archeon-bot/archeon/internal/conversation"
	"github.com/archeon-bot/archeon/internal/music"
	"github.com/archeon-bot/archeon/internal/resolver"
)

func main() {
	os.Exit(runMain())
}

func runMain() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return 1
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal error", slog.Any("error", err))
		return 1
	}
	return 0
}

func run(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("archeon starting",
		slog.String("prefix", cfg.CommandPrefix),
		slog.String("model", cfg.GeminiModel))

	res := resolver.NewClient(resolver.Config{Path: cfg.YtdlpPath})

	gen, err := assistant.NewGeminiClient(context.Background(), assistant.Config{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	})
	if err != nil {
		return fmt.Errorf("failed to create assistant client: %w", err)
	}

	b, err := bot.New(cfg, logger, res, gen,
		music.NewPlaylistStore(), conversation.NewStore())
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	if err := b.Start(); err != nil {
		return fmt.Errorf("failed to start bot: %w", err)
	}
	logger.Info("archeon started, listening for commands")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down gracefully")
	if err := b.Stop(); err != nil {
		return fmt.Errorf("failed to stop bot: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}

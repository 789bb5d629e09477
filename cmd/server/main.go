package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cobsari123-dotcom/marcket-app2/internal/app"
	"github.com/cobsari123-dotcom/marcket-app2/internal/config"
	"github.com/cobsari123-dotcom/marcket-app2/pkg/logger"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger.
	log := logger.New(app.ServiceName, cfg.LogLevel)
	slog.SetDefault(log)
	log.Info("starting marketplace trigger server",
		slog.String("environment", cfg.Environment),
		slog.String("version", app.Version),
		slog.Int("http_port", cfg.HTTPPort),
		slog.String("payment_provider", cfg.PaymentProvider),
		slog.String("push_sender", cfg.PushSender),
	)

	// Create the application with all dependencies wired.
	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create a context that is canceled on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Run the application. This blocks until shutdown.
	if err := application.Run(ctx); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("marketplace trigger server stopped")
}

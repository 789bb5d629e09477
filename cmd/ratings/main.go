package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cobsari123-dotcom/marcket-app2/internal/config"
	"github.com/cobsari123-dotcom/marcket-app2/internal/repository/postgres"
	"github.com/cobsari123-dotcom/marcket-app2/internal/service"
	"github.com/cobsari123-dotcom/marcket-app2/pkg/database"
	"github.com/cobsari123-dotcom/marcket-app2/pkg/logger"
)

var Version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := &cobra.Command{
		Use:           "ratings",
		Short:         "Maintain product rating aggregates",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(backfillCmd(openRatingService))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openRatingService connects to PostgreSQL with the server's configuration.
func openRatingService(ctx context.Context) (ratingBackfiller, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New("ratings-cli", cfg.LogLevel)

	pgCfg := cfg.Postgres()
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	pool, err := database.NewPostgresPool(connectCtx, &pgCfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	log.Debug("connected to PostgreSQL", slog.String("host", pgCfg.Host))

	svc := service.NewRatingService(
		postgres.NewReviewRepository(pool),
		postgres.NewRatingRepository(pool),
		log,
	)
	return svc, pool.Close, nil
}

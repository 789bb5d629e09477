package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/cobsari123-dotcom/marcket-app2/internal/config"
	"github.com/cobsari123-dotcom/marcket-app2/internal/event"
	handler "github.com/cobsari123-dotcom/marcket-app2/internal/handler/http"
	"github.com/cobsari123-dotcom/marcket-app2/internal/repository/postgres"
	"github.com/cobsari123-dotcom/marcket-app2/internal/service"
	"github.com/cobsari123-dotcom/marcket-app2/migrations"
	"github.com/cobsari123-dotcom/marcket-app2/pkg/database"
	"github.com/cobsari123-dotcom/marcket-app2/pkg/health"
	pkgkafka "github.com/cobsari123-dotcom/marcket-app2/pkg/kafka"
	"github.com/cobsari123-dotcom/marcket-app2/pkg/tracing"
)

// ServiceName identifies the process in logs, metrics and traces.
const ServiceName = "marketplace-triggers"

// Version is set at build time.
var Version = "dev"

// App wires together all dependencies and runs the trigger server.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *redis.Client
	dlq            *pkgkafka.DLQProducer
	consumers      []*pkgkafka.Consumer
	consumersWG    sync.WaitGroup
	httpServer     *http.Server
	tracerShutdown tracing.ShutdownFunc
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.InitTracer(ctx, cfg.Tracing(ServiceName, Version))
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL connection pool.
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		_ = tracerShutdown(context.Background())
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", pgCfg.Host),
		slog.Int("port", pgCfg.Port),
		slog.String("database", pgCfg.DBName),
	)
	database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, ServiceName); err != nil {
		logger.Warn("failed to register pool metrics", slog.String("error", err.Error()))
	}

	a := &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		tracerShutdown: tracerShutdown,
	}

	if cfg.RunMigrations {
		if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
			a.closeResources()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	// Idempotency guard for redelivered trigger events.
	var store pkgkafka.IdempotencyStore
	if cfg.RedisEnabled {
		rdb, err := database.NewRedisClient(ctx, cfg.Redis(), logger)
		if err != nil {
			a.closeResources()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = rdb
		store = pkgkafka.NewRedisIdempotencyStore(rdb, cfg.IdempotencyTTL)
		logger.Info("connected to Redis", slog.String("addr", cfg.Redis().Addr()))
	} else {
		store = pkgkafka.NewMemoryIdempotencyStore(cfg.IdempotencyTTL)
		logger.Info("redis disabled, using in-memory idempotency store")
	}

	// Build the dependency graph.
	reviews := postgres.NewReviewRepository(pool)
	ratings := postgres.NewRatingRepository(pool)
	orders := postgres.NewOrderRepository(pool)
	rooms := postgres.NewChatRoomRepository(pool)
	users := postgres.NewUserRepository(pool)

	paymentProvider := newProvider(cfg, logger)
	pushSender := newSender(cfg, logger)

	ratingService := service.NewRatingService(reviews, ratings, logger)
	paymentService := service.NewPaymentService(cfg.Payment(), paymentProvider, users, orders, logger)
	chatService := service.NewChatService(rooms, users, pushSender, logger)

	// Kafka trigger consumers.
	a.dlq = pkgkafka.NewDLQProducer(cfg.KafkaBrokers, logger)
	consumerHandler := event.NewConsumerHandler(ratingService, chatService, logger)
	a.consumers = event.NewConsumers(event.ConsumersConfig{
		Brokers: cfg.KafkaBrokers,
		GroupID: cfg.KafkaConsumerGroup,
	}, consumerHandler, store, a.dlq, logger)
	logger.Info("kafka consumers initialized",
		slog.Any("brokers", cfg.KafkaBrokers),
		slog.String("group", cfg.KafkaConsumerGroup),
	)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if a.redis != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		})
	}
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers, pkgkafka.TopicReviewCreated, pkgkafka.TopicChatMessageCreated)
	})

	// HTTP router.
	router := handler.NewRouter(handler.RouterConfig{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		WebhookRateLimit: cfg.WebhookRateLimitRPS,
		WebhookBurst:     cfg.WebhookRateLimitBurst,
	}, paymentService, healthHandler, logger)

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return a, nil
}

// Run starts the HTTP server and Kafka consumers, then blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	consumerCtx, stopConsumers := context.WithCancel(ctx)
	defer stopConsumers()

	for _, consumer := range a.consumers {
		a.consumersWG.Add(1)
		go func(c *pkgkafka.Consumer) {
			defer a.consumersWG.Done()
			if err := c.Start(consumerCtx); err != nil {
				a.logger.Error("kafka consumer error",
					slog.String("topic", c.Topic()),
					slog.String("error", err.Error()),
				)
			}
		}(consumer)
	}

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case runErr = <-errCh:
	}

	stopConsumers()
	shutdownErr := a.Shutdown()
	if runErr != nil {
		return runErr
	}
	return shutdownErr
}

// Shutdown drains HTTP, waits for in-flight trigger invocations, then
// closes every client.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	done := make(chan struct{})
	go func() {
		a.consumersWG.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		a.logger.Warn("timed out waiting for kafka consumers")
	}

	a.closeResources()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// closeResources releases clients in reverse dependency order. Consumers
// close their own readers when Start returns.
func (a *App) closeResources() {
	for _, consumer := range a.consumers {
		if err := consumer.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
		}
	}
	if a.dlq != nil {
		if err := a.dlq.Close(); err != nil {
			a.logger.Error("dlq producer close error", slog.String("error", err.Error()))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if a.tracerShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracerShutdown(ctx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}
}

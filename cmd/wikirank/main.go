package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wikirank/wikirank/internal/analytics"
	"github.com/wikirank/wikirank/internal/ranking"
	"github.com/wikirank/wikirank/internal/search"
	"github.com/wikirank/wikirank/internal/store"
	"github.com/wikirank/wikirank/internal/tokenizer"
	"github.com/wikirank/wikirank/pkg/config"
	"github.com/wikirank/wikirank/pkg/health"
	"github.com/wikirank/wikirank/pkg/kafka"
	"github.com/wikirank/wikirank/pkg/logger"
	"github.com/wikirank/wikirank/pkg/metrics"
	"github.com/wikirank/wikirank/pkg/middleware"
	"github.com/wikirank/wikirank/pkg/postgres"
	pkgredis "github.com/wikirank/wikirank/pkg/redis"
	"github.com/wikirank/wikirank/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting wikirank", "port", cfg.Server.Port, "scheme", cfg.Ranking.Scheme)

	scheme, err := ranking.ParseScheme(cfg.Ranking.Scheme)
	if err != nil {
		slog.Error("invalid ranking scheme", "error", err)
		os.Exit(1)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer shutdownMetrics(context.Background())
	}

	var pgClient *postgres.Client
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 30*time.Second)
	err = resilience.Retry(connectCtx, "postgres-connect", resilience.RetryConfig{MaxAttempts: 5}, func() error {
		var connErr error
		pgClient, connErr = postgres.New(cfg.Postgres)
		return connErr
	})
	cancelConnect()
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pgClient.Close()
	slog.Info("postgres connected", "host", cfg.Postgres.Host, "database", cfg.Postgres.Database)

	indexStore := store.NewIndex(pgClient)
	authorityStore := store.NewBreakerAuthority(
		store.NewAuthority(pgClient),
		resilience.CircuitBreakerConfig{},
		m,
	)
	metadataStore := store.NewMetadata(pgClient)

	pipeline, err := ranking.NewPipeline(
		tokenizer.New(),
		indexStore,
		authorityStore,
		metadataStore,
		ranking.Options{
			Scheme:            scheme,
			TextWeight:        cfg.Ranking.TextWeight,
			AuthorityWeight:   cfg.Ranking.AuthorityWeight,
			DefaultK:          cfg.Ranking.DefaultK,
			ParallelThreshold: cfg.Ranking.ParallelThreshold,
			ParallelWorkers:   cfg.Ranking.ParallelWorkers,
		},
	)
	if err != nil {
		slog.Error("failed to build ranking pipeline", "error", err)
		os.Exit(1)
	}

	var queryCache *search.QueryCache
	redisClient, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, query caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		queryCache = search.NewQueryCache(redisClient, cfg.Redis)
		slog.Info("query cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.QueryEvents)
	defer producer.Close()
	collector := analytics.NewCollector(producer, 10000)
	collector.Start(ctx)
	defer collector.Close()
	slog.Info("analytics collector started", "topic", cfg.Kafka.QueryEvents)

	checker := health.NewChecker()
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if err := pgClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	h := search.NewHandler(pipeline, queryCache, collector, m, cfg.Ranking)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("wikirank listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("wikirank stopped")
}

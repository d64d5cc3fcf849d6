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

	"github.com/sajidalishaik45/coauthor-network/internal/api"
	"github.com/sajidalishaik45/coauthor-network/internal/api/handlers"
	"github.com/sajidalishaik45/coauthor-network/internal/cache"
	"github.com/sajidalishaik45/coauthor-network/internal/config"
	"github.com/sajidalishaik45/coauthor-network/internal/errorreporting"
	"github.com/sajidalishaik45/coauthor-network/internal/force"
	"github.com/sajidalishaik45/coauthor-network/internal/graph"
	"github.com/sajidalishaik45/coauthor-network/internal/logger"
	"github.com/sajidalishaik45/coauthor-network/internal/metrics"
	"github.com/sajidalishaik45/coauthor-network/internal/middleware"
	"github.com/sajidalishaik45/coauthor-network/internal/records"
	"github.com/sajidalishaik45/coauthor-network/internal/tracing"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (falling back to system env)")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize structured logging
	logger.Setup(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger.Info("Initializing layout server", "version", cfg.SentryRelease, "log_level", cfg.LogLevel)

	// Initialize error reporting
	if err := errorreporting.Init(errorreporting.Options{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     cfg.SentryRelease,
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		logger.Warn("Failed to initialize error reporting", "error", err)
	} else if errorreporting.IsSentryEnabled() {
		logger.Info("Error reporting initialized", "environment", cfg.SentryEnvironment)
		defer func() {
			logger.Info("Flushing error reports...")
			errorreporting.Flush(2 * time.Second)
		}()
	}

	// Initialize tracing
	shutdownTracing, err := tracing.Init(tracing.Options{
		Enabled:     cfg.OTELEnabled,
		Endpoint:    cfg.OTELEndpoint,
		SampleRate:  cfg.OTELSampleRate,
		ServiceName: "coauthor-network-server",
		Version:     cfg.SentryRelease,
	})
	if err != nil {
		logger.Warn("Failed to initialize tracing", "error", err)
	} else if cfg.OTELEnabled {
		logger.Info("Tracing initialized", "endpoint", cfg.OTELEndpoint, "sample_rate", cfg.OTELSampleRate)
		defer func() {
			logger.Info("Shutting down tracer...")
			if err := shutdownTracing(context.Background()); err != nil {
				logger.Error("Failed to shutdown tracer", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("Server failed", "error", err)
		errorreporting.CaptureError(err)
		errorreporting.Flush(2 * time.Second)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	source, closeSource, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	g, err := graph.NewService(source).Load(ctx)
	if err != nil {
		return err
	}

	params, err := cfg.ResolveForceParams()
	if err != nil {
		return err
	}
	sim := g.NewSimulation(params, cfg.SimulationOptions()...)
	driver := force.NewDriver(sim, cfg.TickInterval)
	driver.Start()

	payloads, closeCache := newCache(cfg)
	defer closeCache()

	hub := handlers.NewHub(driver)
	deps := api.Deps{
		Graph:    g,
		Layout:   driver,
		Hub:      hub,
		Cache:    payloads,
		CacheTTL: cfg.CacheTTL,
		CORS:     corsConfig(cfg),
	}
	if cfg.EnableRateLimit {
		deps.RateLimiter = middleware.NewRateLimiter(ctx, middleware.RateLimitOptions{
			GlobalRPS:   cfg.RateLimitGlobal,
			GlobalBurst: cfg.RateLimitGlobalBurst,
			IPRPS:       cfg.RateLimitPerIP,
			IPBurst:     cfg.RateLimitPerIPBurst,
		})
	}

	go driver.Run(ctx)
	go hub.Run(ctx)
	collector := metrics.NewCollector(driver, cfg.MetricsInterval)
	go collector.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewHandler(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", cfg.HTTPAddr, "nodes", len(g.Nodes), "links", len(g.Links))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openSource(cfg *config.Config) (records.Source, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("Reading publications from CSV", "path", cfg.DataCSV)
		return records.NewCSVSource(cfg.DataCSV), func() {}, nil
	}

	pg, err := records.DialPostgres(cfg.DatabaseURL, cfg.PublicationsTable)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Reading publications from Postgres", "table", cfg.PublicationsTable)
	src := records.WithRetry(pg, records.RetryOptions{
		MaxAttempts: cfg.SourceMaxAttempts,
		BaseDelay:   cfg.SourceRetryBase,
	})
	return src, func() { pg.Close() }, nil
}

func newCache(cfg *config.Config) (cache.Cache, func()) {
	c, err := cache.NewRistretto(cfg.CacheMaxSizeMB, cfg.CacheMaxEntries, cfg.CacheTTL)
	if err != nil {
		logger.Warn("Falling back to in-memory cache", "error", err)
		return cache.NewMemory(), func() {}
	}
	return c, c.Close
}

func corsConfig(cfg *config.Config) *middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	c.AllowedOrigins = cfg.CORSAllowedOrigins
	return c
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"snipdesk/docs"
	"snipdesk/internal/auth"
	"snipdesk/internal/cache"
	"snipdesk/internal/capture"
	"snipdesk/internal/config"
	"snipdesk/internal/database"
	"snipdesk/internal/database/migration"
	"snipdesk/internal/events"
	handlers "snipdesk/internal/http/handler"
	"snipdesk/internal/http/middleware"
	"snipdesk/internal/logger"
	"snipdesk/internal/otel"
	"snipdesk/internal/repository/postgres"
	"snipdesk/internal/service"
	"snipdesk/internal/storage"
)

// @title snipdesk API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.Default(cfg.Location())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Str("event", "startup_failed").Err(err).Send()
	}
}

func run(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) error {
	shutdownTracing, err := otel.Init(ctx, log, "snipdesk-api")
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer shutdownTracing(context.Background())

	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		return err
	}

	store, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("init object storage: %w", err)
	}

	folderCache, closeCache := newFolderCache(ctx, cfg.Redis, log)
	defer closeCache()

	var pub events.Publisher = events.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		pub = events.NewKafkaPublisher(cfg.Kafka)
		log.Info().Str("component", "events").Str("event", "publisher_ready").Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Send()
	}
	defer pub.Close()

	repos := service.Repos{
		Folders:    postgres.NewFolderPostgres(db),
		PDFs:       postgres.NewPDFPostgres(db),
		Snips:      postgres.NewSnipPostgres(db),
		Highlights: postgres.NewHighlightPostgres(db),
	}
	links := service.NewLinks(cfg.PublicBaseURL)
	folders := service.NewFolderService(store, repos, links, folderCache, pub, log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.MaxUploadMB * 1024 * 1024,
	})

	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestLogger(logger.Component(log, "http")))
	app.Use(metrics.Handler())
	app.Use(middleware.Auth(auth.NewVerifier(cfg.JWTSecret)))

	captures := service.NewCaptureService(newCaptureBackend(cfg.Capture, log), store, folders, links, log)
	go sweepCaptures(ctx, captures, cfg.Capture.StagedTTL, log)

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:         db,
		Folders:    folders,
		PDFs:       service.NewPDFService(store, repos, folders, links, folderCache, pub, log),
		Snips:      service.NewSnipService(store, repos.Snips, folders, links, pub, log),
		Highlights: service.NewHighlightService(repos.Highlights, pub, log),
		Capture:    captures,
		Gatherer:   reg,
		Log:        log,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("event", "server_listening").Str("addr", ":"+cfg.Port).Str("public_base_url", cfg.PublicBaseURL).Send()
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	log.Info().Str("event", "server_shutdown").Send()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Str("event", "server_shutdown_failed").Err(err).Send()
	}
	return nil
}

func newStorage(ctx context.Context, cfg config.StorageConfig) (storage.Storage, error) {
	switch cfg.Driver {
	case "minio":
		return storage.NewMinIO(ctx, cfg.MinIO)
	case "local":
		return storage.NewLocal(cfg.LocalDir)
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Driver)
	}
}

// newFolderCache connects to Redis when configured. An unreachable server is logged
// and the API runs uncached.
func newFolderCache(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (cache.FolderCache, func()) {
	if cfg.Addr == "" {
		return cache.Nop{}, func() {}
	}
	c, client, err := cache.NewRedisFolderCache(ctx, cfg)
	if err != nil {
		log.Warn().Str("component", "cache").Str("event", "cache_unavailable").Str("redis_addr", cfg.Addr).Err(err).Send()
		return cache.Nop{}, func() {}
	}
	log.Info().Str("component", "cache").Str("event", "cache_ready").Str("redis_addr", cfg.Addr).Send()
	return c, func() { _ = client.Close() }
}

// sweepCaptures removes captures nobody fetched, checking every ttl/2 until ctx ends.
func sweepCaptures(ctx context.Context, svc service.CaptureService, ttl time.Duration, log zerolog.Logger) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.Sweep(ctx, ttl); err != nil {
				log.Warn().Str("event", "capture_sweep_failed").Err(err).Send()
			}
		}
	}
}

// newCaptureBackend returns nil for "none", which makes /start-snip answer CAPTURE_UNAVAILABLE.
func newCaptureBackend(cfg config.CaptureConfig, log zerolog.Logger) capture.Backend {
	switch cfg.Backend {
	case "portal":
		return capture.NewPortalBackend(log)
	case "none":
		return nil
	case "command":
		return capture.NewCommandBackend(cfg, log)
	default:
		log.Warn().Str("component", "capture").Str("event", "capture_backend_unknown").Str("backend", cfg.Backend).Send()
		return capture.NewCommandBackend(cfg, log)
	}
}

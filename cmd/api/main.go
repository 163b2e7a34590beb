package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"convertapi/internal/config"
	"convertapi/internal/convert"
	"convertapi/internal/database"
	"convertapi/internal/database/migration"
	"convertapi/internal/format"
	handlers "convertapi/internal/http/handler"
	"convertapi/internal/http/middleware"
	"convertapi/internal/otel"
	"convertapi/internal/repository/postgres"
	"convertapi/internal/service"
	"convertapi/internal/storage"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing first so the sql driver wrapper picks up the global provider
	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}
	defer shutdownTracing(context.Background())

	// PostgreSQL connection (pooled via database/sql, traced via otelsql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}

	// Conversion engine: bounded raster surfaces feed the converter registry
	surfaces, err := convert.NewSurfacePool(cfg.Engine.MaxSurfaces)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize surface pool")
	}
	resolver := format.NewDefaultResolver()
	registry := convert.NewDefaultRegistry(convert.Options{
		JPEGQuality:  cfg.Engine.JPEGQuality,
		RenderDPI:    cfg.Engine.RenderDPI,
		PageMarginMM: cfg.Engine.PageMarginMM,
		SlideWidth:   cfg.Engine.SlideWidth,
		SlideHeight:  cfg.Engine.SlideHeight,
	}, surfaces)

	jobs := service.NewJobTracker(cfg.Engine.JobTTL)
	jobs.StartSweeper(ctx, cfg.Engine.JobSweepInterval, log)

	fileRepo := postgres.NewFilePostgres(db)
	boardRepo := postgres.NewBoardPostgres(db)
	convSvc := service.NewConversionService(objStore, fileRepo, resolver, registry, jobs, cfg.Engine.PresignTTL, log)
	boardSvc := service.NewBoardService(boardRepo, surfaces, cfg.Whiteboard.ExportWidth, cfg.Whiteboard.ExportHeight, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    64 * 1024 * 1024,
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(otelfiber.Middleware())

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector())
	promMiddleware, err := middleware.NewPrometheusMiddleware(promReg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register prometheus metrics")
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))

	// HTTP routes with injected services
	handlers.RegisterRoutes(app, db, convSvc, boardSvc)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	addr := ":" + cfg.Port
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

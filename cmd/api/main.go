package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sp3clock/docs"
	"sp3clock/internal/config"
	"sp3clock/internal/database"
	"sp3clock/internal/database/migration"
	"sp3clock/internal/ftpsource"
	handlers "sp3clock/internal/http/handler"
	"sp3clock/internal/http/middleware"
	"sp3clock/internal/logging"
	"sp3clock/internal/metrics"
	"sp3clock/internal/otel"
	"sp3clock/internal/repository/postgres"
	"sp3clock/internal/service"
	"sp3clock/internal/storage"
)

var version = "dev"

// @title SP3 Clock API
// @version 1.0
// @description Satellite clock stability analysis over SP3 products.
// @BasePath /
func main() {
	cfg := config.Load()
	log := logging.New(cfg.Location(), "api")

	if path := os.Getenv("APP_CONFIG_FILE"); path != "" {
		if err := config.LoadFile(path, cfg); err != nil {
			fatal(log, "config_file_failed", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		fatal(log, "config_invalid", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log, version)
	if err != nil {
		fatal(log, "tracing_init_failed", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		fatal(log, "database_connect_failed", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		fatal(log, "migration_failed", err)
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		fatal(log, "storage_init_failed", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics, err := metrics.New(reg)
	if err != nil {
		fatal(log, "metrics_init_failed", err)
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		fatal(log, "metrics_init_failed", err)
	}

	productRepo := postgres.NewProductPostgres(db)
	analysisRepo := postgres.NewAnalysisPostgres(db)

	analysisSvc, err := service.NewAnalysisService(objStore, productRepo, cfg.Analysis,
		service.WithAnalysisLogger(log),
		service.WithAnalysisMetrics(appMetrics),
	)
	if err != nil {
		fatal(log, "service_init_failed", err)
	}
	svc := handlers.Services{
		Products: service.NewProductService(objStore, productRepo),
		Sync: service.NewSyncService(ftpsource.Dialer(cfg.FTP), objStore, productRepo,
			service.WithSyncLogger(log),
			service.WithSyncMetrics(appMetrics),
		),
		Analyses: analysisSvc,
		Reports:  service.NewReportService(objStore, analysisRepo),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    64 * 1024 * 1024,
	})

	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || c.Path() == "/healthz"
	})))
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	handlers.RegisterRoutes(app, db, svc)

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

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(sctx); err != nil {
			log.Error("shutdown_failed", err, nil)
		}
	}()

	addr := ":" + cfg.Port
	log.Info("server_starting", logging.Fields{"addr": addr, "app_host": cfg.AppHost, "version": version})
	if err := app.Listen(addr); err != nil {
		fatal(log, "server_failed", err)
	}
	log.Info("server_stopped", nil)
}

func fatal(log *logging.Logger, event string, err error) {
	log.Error(event, err, nil)
	os.Exit(1)
}

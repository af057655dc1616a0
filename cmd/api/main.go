package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	"github.com/jhoicas/kardex-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/kardex-api/internal/infrastructure/pdf"
	"github.com/jhoicas/kardex-api/internal/infrastructure/postgres"
	"github.com/jhoicas/kardex-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/kardex-api/internal/interfaces/http"
	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()

	var (
		productRepo repository.ProductRepository
		movRepo     repository.StockMovementRepository
		txRunner    inventory.TxRunner
	)
	switch cfg.App.StorageDriver {
	case config.StorageMemory:
		store, err := memory.NewStore()
		if err != nil {
			log.Fatal().Err(err).Msg("store en memoria")
		}
		productRepo = store.Products()
		movRepo = store.Movements()
		txRunner = memory.NewTxRunner(store)
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		if cfg.DB.Migrate {
			if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		productRepo = postgres.NewProductRepository(pool)
		movRepo = postgres.NewStockMovementRepository(pool)
		txRunner = postgres.NewTxRunner(pool, cfg.Stock.TxMaxRetries, cfg.Stock.LockTimeout())
	}

	prom := metrics.NewPrometheus()

	productUC := usecase.NewProductUseCase(productRepo, txRunner, prom)
	stockUC := inventory.NewStockUseCase(txRunner, productRepo, movRepo, prom, log.Component("stock"))
	reportUC := inventory.NewReportUseCase(productRepo, movRepo, infrapdf.NewMarotoKardexGenerator())

	// Job periódico: gauges de inventario + warnings de productos agotados
	schedLog := log.Component("scheduler")
	sched := scheduler.New(schedLog)
	if cfg.Alerts.Cron != "" {
		if err := sched.AddStockAlerts(cfg.Alerts.Cron, scheduler.NewStockAlertsJob(productRepo, prom, schedLog)); err != nil {
			log.Fatal().Err(err).Msg("scheduler")
		}
		sched.Start()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http"), prom))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Kardex API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:      productUC,
		StockUC:        stockUC,
		ReportUC:       reportUC,
		JWTSecret:      cfg.JWT.Secret,
		RateLimiter:    httpRouter.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, log.Component("ratelimit")),
		MetricsHandler: prom.Handler(),
		ServiceName:    cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sched.Stop(shutdownCtx)
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

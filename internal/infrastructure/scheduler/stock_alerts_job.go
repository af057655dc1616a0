package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/kardex-api/internal/application/ports"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// DefaultSchedule cada minuto.
const DefaultSchedule = "@every 1m"

// StockAlertsJob recalcula las estadísticas del inventario, las publica como gauges
// y emite un warning por cada producto agotado.
type StockAlertsJob struct {
	products  repository.ProductRepository
	publisher ports.GaugePublisher
	log       *logger.Logger
	timeout   time.Duration
}

// NewStockAlertsJob construye el job. publisher nil = solo logs.
func NewStockAlertsJob(products repository.ProductRepository, publisher ports.GaugePublisher, log *logger.Logger) *StockAlertsJob {
	if publisher == nil {
		publisher = ports.NoopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &StockAlertsJob{products: products, publisher: publisher, log: log, timeout: 30 * time.Second}
}

// Run una ejecución. Devuelve el snapshot publicado.
func (j *StockAlertsJob) Run(ctx context.Context) (ports.InventoryGauges, error) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	list, err := j.products.Search(ctx, repository.ProductFilter{})
	if err != nil {
		return ports.InventoryGauges{}, fmt.Errorf("alertas: listar productos: %w", err)
	}
	s := inventory.Summarize(list)
	g := ports.InventoryGauges{
		TotalProducts:   s.TotalProducts,
		LowStockCount:   s.LowStockCount,
		OutOfStockCount: s.OutOfStockCount,
		TotalValue:      s.TotalValue,
		Categories:      s.Categories,
	}
	j.publisher.PublishInventory(g)

	for _, p := range list {
		if inventory.Classify(p).OutOfStock {
			j.log.Warn().Str("product_id", p.ID).Str("name", p.Name).Msg("producto agotado")
		}
	}
	j.log.Debug().
		Int("total", g.TotalProducts).
		Int("low_stock", g.LowStockCount).
		Int("out_of_stock", g.OutOfStockCount).
		Msg("alertas de stock recalculadas")
	return g, nil
}

// Scheduler envoltorio de cron con el logger de la app.
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

// New crea el scheduler. Una ejecución que aún no terminó hace que se salte la siguiente.
func New(log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	cl := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		log:  log,
	}
}

// AddStockAlerts registra el job con la expresión expr (vacía = DefaultSchedule).
func (s *Scheduler) AddStockAlerts(expr string, job *StockAlertsJob) error {
	if expr == "" {
		expr = DefaultSchedule
	}
	_, err := s.cron.AddFunc(expr, func() {
		if _, err := job.Run(context.Background()); err != nil {
			s.log.Error().Err(err).Msg("job de alertas de stock")
		}
	})
	if err != nil {
		return fmt.Errorf("scheduler: expresión %q: %w", expr, err)
	}
	return nil
}

// Start arranca el scheduler en su propia goroutine.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop detiene el scheduler y espera a que terminen los jobs en curso o a que venza ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// cronLogger adapta el logger de la app a cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

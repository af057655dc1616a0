package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Los conflictos de concurrencia (40001, 40P01, 55P03) se reintentan con espera lineal.
type TxRunner struct {
	pool        *pgxpool.Pool
	maxRetries  int
	lockTimeout time.Duration
	backoff     time.Duration
}

// NewTxRunner construye el runner con el pool. maxRetries <= 0 usa 3; lockTimeout <= 0 usa 5s.
func NewTxRunner(pool *pgxpool.Pool, maxRetries int, lockTimeout time.Duration) *TxRunner {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if lockTimeout <= 0 {
		lockTimeout = 5 * time.Second
	}
	return &TxRunner{pool: pool, maxRetries: maxRetries, lockTimeout: lockTimeout, backoff: 50 * time.Millisecond}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// fn puede ejecutarse más de una vez: no debe tener efectos fuera de los repositorios recibidos.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return retry(ctx, r.maxRetries, r.backoff, func(ctx context.Context) error {
		return r.runOnce(ctx, fn)
	})
}

// retry ejecuta once hasta attempts veces mientras falle con un error reintentable,
// esperando attempt*backoff entre intentos (nunca después del último).
// Agotados los intentos devuelve domain.ErrConflict envolviendo el último error.
func retry(ctx context.Context, attempts int, backoff time.Duration, once func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = once(ctx)
		if lastErr == nil || !isRetryableTxError(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * backoff):
		}
	}
	return fmt.Errorf("%w: %d intentos: %w", domain.ErrConflict, attempts, lastErr)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// SET no acepta parámetros; el valor es un entero controlado por configuración.
	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = %d", r.lockTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("set lock_timeout: %w", err)
	}

	if err := fn(NewProductRepository(tx), NewStockMovementRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

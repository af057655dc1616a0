package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/go-memdb"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo kardex sobre memdb. No expone actualización ni borrado.
type StockMovementRepo struct {
	db  *memdb.MemDB
	txn *memdb.Txn
}

func (r *StockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return write(r.db, r.txn, func(txn *memdb.Txn) error {
		existing, err := txn.First(tableMovements, "id", m.ID)
		if err != nil {
			return fmt.Errorf("memdb: buscar movimiento: %w", err)
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		cp := *m
		if err := txn.Insert(tableMovements, &cp); err != nil {
			return fmt.Errorf("memdb: insertar movimiento: %w", err)
		}
		return nil
	})
}

func (r *StockMovementRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockMovement, error) {
	it, err := read(r.db, r.txn).Get(tableMovements, "product", productID)
	if err != nil {
		return nil, fmt.Errorf("memdb: historial: %w", err)
	}
	return collectMovements(it, 0), nil
}

func (r *StockMovementRepo) ListRecent(_ context.Context, limit int) ([]*entity.StockMovement, error) {
	it, err := read(r.db, r.txn).Get(tableMovements, "id")
	if err != nil {
		return nil, fmt.Errorf("memdb: movimientos recientes: %w", err)
	}
	return collectMovements(it, limit), nil
}

// collectMovements copia, ordena (Timestamp DESC, ID DESC) y recorta a limit si limit > 0.
func collectMovements(it memdb.ResultIterator, limit int) []*entity.StockMovement {
	out := make([]*entity.StockMovement, 0)
	for raw := it.Next(); raw != nil; raw = it.Next() {
		cp := *raw.(*entity.StockMovement)
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

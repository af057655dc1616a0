package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// StockMovementRepository puerto del kardex: solo inserción y lectura (append-only).
// Los listados se devuelven del más reciente al más antiguo (Timestamp DESC, ID DESC).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockMovement, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.StockMovement, error)
}

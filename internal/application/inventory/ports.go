package inventory

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de stock: actualización del producto y alta del movimiento
// se confirman juntas o no se confirman. Los conflictos de concurrencia se reintentan dentro de Run
// y, agotados los reintentos, se devuelven como domain.ErrConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// KardexPDFGenerator puerto de salida para la representación en PDF del kardex de un producto.
type KardexPDFGenerator interface {
	GenerateKardexPDF(ctx context.Context, product *entity.Product, movements []*entity.StockMovement) ([]byte, error)
}

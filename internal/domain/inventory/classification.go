package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Estados de stock derivados. No existe columna de estado: se recalculan en cada lectura.
const (
	StatusInStock    = "IN_STOCK"
	StatusLowStock   = "LOW_STOCK"
	StatusOutOfStock = "OUT_OF_STOCK"
)

// Classification indicadores derivados de cantidad, umbral y precio.
type Classification struct {
	LowStock   bool
	OutOfStock bool
	TotalValue decimal.Decimal
}

// Classify es función pura de Quantity, MinimumStock y Price.
//   - LowStock   = Quantity <= MinimumStock (incluye agotado)
//   - OutOfStock = Quantity == 0
//   - TotalValue = Price * Quantity
func Classify(p *entity.Product) Classification {
	return Classification{
		LowStock:   p.Quantity <= p.MinimumStock,
		OutOfStock: p.Quantity == 0,
		TotalValue: p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))),
	}
}

// StatusOf devuelve el estado de stock: OUT_OF_STOCK tiene prioridad sobre LOW_STOCK.
func StatusOf(p *entity.Product) string {
	c := Classify(p)
	switch {
	case c.OutOfStock:
		return StatusOutOfStock
	case c.LowStock:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

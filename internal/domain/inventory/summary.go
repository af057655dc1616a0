package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Summary agregado del inventario completo.
type Summary struct {
	TotalProducts   int
	LowStockCount   int
	OutOfStockCount int
	TotalValue      decimal.Decimal
	Categories      int
}

// Summarize recorre los productos una vez. Las categorías vacías no cuentan.
func Summarize(products []*entity.Product) Summary {
	s := Summary{TotalValue: decimal.Zero}
	cats := make(map[string]struct{})
	for _, p := range products {
		c := Classify(p)
		s.TotalProducts++
		if c.LowStock {
			s.LowStockCount++
		}
		if c.OutOfStock {
			s.OutOfStockCount++
		}
		s.TotalValue = s.TotalValue.Add(c.TotalValue)
		if cat := strings.TrimSpace(p.Category); cat != "" {
			cats[cat] = struct{}{}
		}
	}
	s.Categories = len(cats)
	return s
}

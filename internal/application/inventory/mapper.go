package inventory

import (
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
)

// ToProductResponse mapea el producto agregando los indicadores derivados.
func ToProductResponse(p *entity.Product) dto.ProductResponse {
	c := inventory.Classify(p)
	return dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Price:        p.Price,
		Quantity:     p.Quantity,
		MinimumStock: p.MinimumStock,
		LowStock:     c.LowStock,
		OutOfStock:   c.OutOfStock,
		TotalValue:   c.TotalValue,
		StockStatus:  inventory.StatusOf(p),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToPublicProductResponse vista de invitado: oculta cantidad, mínimo y valorización.
func ToPublicProductResponse(p *entity.Product) dto.PublicProductResponse {
	return dto.PublicProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		OutOfStock:  inventory.Classify(p).OutOfStock,
	}
}

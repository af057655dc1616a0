package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// ReportUseCase reportes de solo lectura: alertas de stock con lista de reposición,
// resumen de integración y kardex en PDF.
type ReportUseCase struct {
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	pdfGen      KardexPDFGenerator
	now         func() time.Time
}

// NewReportUseCase construye el caso de uso de reportes. pdfGen puede ser nil si no se expone el PDF.
func NewReportUseCase(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	pdfGen KardexPDFGenerator,
) *ReportUseCase {
	return &ReportUseCase{
		productRepo: productRepo,
		movRepo:     movRepo,
		pdfGen:      pdfGen,
		now:         time.Now,
	}
}

// StockAlerts devuelve los productos con stock bajo, los agotados y la lista de reposición.
func (uc *ReportUseCase) StockAlerts(ctx context.Context) (*dto.StockAlertsResponse, error) {
	low, err := uc.productRepo.Search(ctx, repository.ProductFilter{LowStockOnly: true})
	if err != nil {
		return nil, fmt.Errorf("reportes: stock bajo: %w", err)
	}
	return buildAlerts(low), nil
}

// InventorySummary estadísticas + alertas + hora de generación.
func (uc *ReportUseCase) InventorySummary(ctx context.Context) (*dto.InventorySummaryResponse, error) {
	all, err := uc.productRepo.Search(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("reportes: productos: %w", err)
	}
	low := make([]*entity.Product, 0)
	for _, p := range all {
		if inventory.Classify(p).LowStock {
			low = append(low, p)
		}
	}
	s := inventory.Summarize(all)
	return &dto.InventorySummaryResponse{
		Stats: dto.ProductStatsResponse{
			TotalProducts:   s.TotalProducts,
			LowStockCount:   s.LowStockCount,
			OutOfStockCount: s.OutOfStockCount,
			TotalValue:      s.TotalValue,
			Categories:      s.Categories,
		},
		Alerts:      *buildAlerts(low),
		GeneratedAt: uc.now().UTC(),
		ReportType:  "INVENTORY_SUMMARY",
	}, nil
}

// ProductHistoryPDF genera el kardex del producto en PDF (movimientos del más reciente al más antiguo).
// Un producto eliminado con movimientos se imprime con el nombre y la cantidad del último movimiento;
// sin producto ni movimientos devuelve ErrNotFound.
func (uc *ReportUseCase) ProductHistoryPDF(ctx context.Context, productID string) ([]byte, error) {
	if uc.pdfGen == nil {
		return nil, fmt.Errorf("reportes: generador de PDF no configurado")
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("reportes: obtener producto: %w", err)
	}
	movements, err := uc.movRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("reportes: historial: %w", err)
	}
	if product == nil {
		if len(movements) == 0 {
			return nil, domain.ErrNotFound
		}
		product = productFromLedger(productID, movements[0])
	}
	return uc.pdfGen.GenerateKardexPDF(ctx, product, movements)
}

// DeletedProductSuffix se agrega al nombre de un producto reconstruido desde el kardex.
const DeletedProductSuffix = " (eliminado)"

// productFromLedger reconstruye la cabecera de un producto eliminado a partir de su último movimiento.
func productFromLedger(productID string, last *entity.StockMovement) *entity.Product {
	return &entity.Product{
		ID:        productID,
		Name:      last.ProductName + DeletedProductSuffix,
		Price:     decimal.Zero,
		Quantity:  last.NewQuantity,
		UpdatedAt: last.Timestamp,
	}
}

// buildAlerts separa agotados de stock bajo y calcula la reposición sugerida para cada uno.
func buildAlerts(low []*entity.Product) *dto.StockAlertsResponse {
	out := &dto.StockAlertsResponse{
		LowStock:       make([]dto.ProductResponse, 0, len(low)),
		OutOfStock:     make([]dto.ProductResponse, 0),
		Replenishments: make([]dto.ReplenishmentSuggestionDTO, 0, len(low)),
	}
	for _, p := range low {
		out.LowStock = append(out.LowStock, ToProductResponse(p))
		if inventory.Classify(p).OutOfStock {
			out.OutOfStock = append(out.OutOfStock, ToProductResponse(p))
		}
		if s, ok := suggestReplenishment(p); ok {
			out.Replenishments = append(out.Replenishments, s)
		}
	}

	// Mayor déficit bajo el mínimo primero; empate: agotados antes, luego nombre
	sort.SliceStable(out.Replenishments, func(i, j int) bool {
		a, b := out.Replenishments[i], out.Replenishments[j]
		defA := a.MinimumStock - a.CurrentStock
		defB := b.MinimumStock - b.CurrentStock
		if defA != defB {
			return defA > defB
		}
		if (a.CurrentStock == 0) != (b.CurrentStock == 0) {
			return a.CurrentStock == 0
		}
		return a.ProductName < b.ProductName
	})
	for i := range out.Replenishments {
		out.Replenishments[i].Priority = i + 1
	}
	return out
}

// suggestReplenishment stock ideal = ceil(mínimo * 1.5); pedido sugerido = ideal - actual.
// Sin sugerencia cuando el pedido resultante no es positivo (p. ej. mínimo 0).
func suggestReplenishment(p *entity.Product) (dto.ReplenishmentSuggestionDTO, bool) {
	ideal := int(decimal.NewFromInt(int64(p.MinimumStock)).Mul(decimal.NewFromFloat(1.5)).Ceil().IntPart())
	suggested := ideal - p.Quantity
	if suggested <= 0 {
		return dto.ReplenishmentSuggestionDTO{}, false
	}
	return dto.ReplenishmentSuggestionDTO{
		ProductID:          p.ID,
		ProductName:        p.Name,
		Category:           p.Category,
		CurrentStock:       p.Quantity,
		MinimumStock:       p.MinimumStock,
		IdealStock:         ideal,
		SuggestedOrderQty:  suggested,
		UnitPrice:          p.Price,
		EstimatedOrderCost: p.Price.Mul(decimal.NewFromInt(int64(suggested))),
	}, true
}

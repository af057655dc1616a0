package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
)

// IntegrationHandler endpoints para sistemas externos (solo ADMIN).
type IntegrationHandler struct {
	products *usecase.ProductUseCase
	stock    *inventory.StockUseCase
	reports  *inventory.ReportUseCase
}

// NewIntegrationHandler construye el handler.
func NewIntegrationHandler(products *usecase.ProductUseCase, stock *inventory.StockUseCase, reports *inventory.ReportUseCase) *IntegrationHandler {
	return &IntegrationHandler{products: products, stock: stock, reports: reports}
}

// Export godoc
// @Summary      Exportar productos
// @Tags         integration
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/v2/integration/products/export [get]
func (h *IntegrationHandler) Export(c *fiber.Ctx) error {
	out, err := h.products.All(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="products-export.json"`)
	return c.JSON(out)
}

// Import godoc
// @Summary      Importar productos
// @Description  Cada producto se crea de forma independiente; los fallos se reportan por ítem.
// @Tags         integration
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  []dto.CreateProductRequest  true  "Productos"
// @Success      200   {object}  dto.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v2/integration/products/import [post]
func (h *IntegrationHandler) Import(c *fiber.Ctx) error {
	var in []dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.products.Import(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SyncStatus godoc
// @Summary      Estado de sincronización
// @Tags         integration
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v2/integration/products/sync-status [get]
func (h *IntegrationHandler) SyncStatus(c *fiber.Ctx) error {
	stats, err := h.products.Stats(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"last_sync_time":     time.Now().UTC(),
		"total_products":     stats.TotalProducts,
		"low_stock_count":    stats.LowStockCount,
		"out_of_stock_count": stats.OutOfStockCount,
		"system_status":      "ACTIVE",
		"api_version":        "v2.0",
	})
}

// BulkUpdate godoc
// @Summary      Actualización masiva de stock
// @Description  Cada ítem es un ajuste independiente a la cantidad indicada.
// @Tags         integration
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  []dto.BulkStockUpdateItem  true  "product_id, quantity, reason opcional"
// @Success      200   {object}  dto.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v2/integration/stock/bulk-update [post]
func (h *IntegrationHandler) BulkUpdate(c *fiber.Ctx) error {
	var in []dto.BulkStockUpdateItem
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.stock.BulkAdjust(c.Context(), in, GetUsername(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// InventorySummary godoc
// @Summary      Resumen de inventario
// @Tags         integration
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventorySummaryResponse
// @Router       /api/v2/integration/reports/inventory-summary [get]
func (h *IntegrationHandler) InventorySummary(c *fiber.Ctx) error {
	out, err := h.reports.InventorySummary(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

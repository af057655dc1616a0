package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
)

// StockHandler maneja las peticiones HTTP del motor de stock y del kardex (protegido).
type StockHandler struct {
	uc      *inventory.StockUseCase
	reports *inventory.ReportUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase, reports *inventory.ReportUseCase) *StockHandler {
	return &StockHandler{uc: uc, reports: reports}
}

// StockIn godoc
// @Summary      Registrar entrada de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockChangeRequest  true  "product_id, quantity (> 0), reason opcional"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v2/stock/in [post]
func (h *StockHandler) StockIn(c *fiber.Ctx) error {
	var in dto.StockChangeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RegisterStockIn(c.Context(), in.ProductID, in.Quantity, in.Reason, GetUsername(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// StockOut godoc
// @Summary      Registrar salida de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockChangeRequest  true  "product_id, quantity (> 0), reason opcional"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK o CONFLICT"
// @Router       /api/v2/stock/out [post]
func (h *StockHandler) StockOut(c *fiber.Ctx) error {
	var in dto.StockChangeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RegisterStockOut(c.Context(), in.ProductID, in.Quantity, in.Reason, GetUsername(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Adjustment godoc
// @Summary      Ajustar stock a una cantidad absoluta
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockAdjustmentRequest  true  "product_id, new_quantity (>= 0), reason opcional"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v2/stock/adjustment [post]
func (h *StockHandler) Adjustment(c *fiber.Ctx) error {
	var in dto.StockAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RegisterAdjustment(c.Context(), in.ProductID, in.NewQuantity, in.Reason, GetUsername(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RegisterMovement godoc
// @Summary      Registrar movimiento (endpoint único)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "movement_type: STOCK_IN | STOCK_OUT | ADJUSTMENT"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v2/stock/movement [post]
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RegisterMovement(c.Context(), in, GetUsername(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// History godoc
// @Summary      Kardex del producto
// @Description  Movimientos del más reciente al más antiguo. Disponible también para productos eliminados.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/v2/stock/product/{id} [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.GetProductHistory(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Current godoc
// @Summary      Cantidad actual
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.CurrentStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v2/stock/product/{id}/current [get]
func (h *StockHandler) Current(c *fiber.Ctx) error {
	id := c.Params("id")
	qty, err := h.uc.GetCurrentStock(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CurrentStockResponse{ProductID: id, Quantity: qty})
}

// Sufficient godoc
// @Summary      ¿Hay stock suficiente?
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true  "ID del producto"
// @Param        quantity  query  int     true  "Cantidad requerida"
// @Success      200  {object}  dto.SufficientStockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v2/stock/product/{id}/sufficient [get]
func (h *StockHandler) Sufficient(c *fiber.Ctx) error {
	id := c.Params("id")
	if c.Query("quantity") == "" {
		return writeError(c, domain.NewValidationError("quantity", "es requerido"))
	}
	required := c.QueryInt("quantity", -1)
	if required < 0 {
		return writeError(c, domain.NewValidationError("quantity", "debe ser un entero no negativo"))
	}
	ok, err := h.uc.HasSufficientStock(c.Context(), id, required)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SufficientStockResponse{ProductID: id, RequiredQuantity: required, Sufficient: ok})
}

// Recent godoc
// @Summary      Movimientos recientes de todos los productos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo 500"  default(50)
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/v2/stock/recent [get]
func (h *StockHandler) Recent(c *fiber.Ctx) error {
	out, err := h.uc.RecentMovements(c.Context(), c.QueryInt("limit", 50))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Alerts godoc
// @Summary      Alertas de stock y lista de reposición
// @Description  Productos con stock bajo y agotados, con la cantidad sugerida de pedido
//
//	(stock ideal = ceil(mínimo * 1.5)), ordenados por déficit.
//
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockAlertsResponse
// @Router       /api/v2/stock/alerts [get]
func (h *StockHandler) Alerts(c *fiber.Ctx) error {
	out, err := h.reports.StockAlerts(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// KardexPDF godoc
// @Summary      Kardex del producto en PDF
// @Tags         stock
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v2/stock/product/{id}/kardex.pdf [get]
func (h *StockHandler) KardexPDF(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.reports.ProductHistoryPDF(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="kardex-`+id+`.pdf"`)
	return c.Send(pdf)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/usecase"
)

// PublicHandler catálogo para invitados: sin cantidades exactas ni valorización.
type PublicHandler struct {
	uc *usecase.ProductUseCase
}

// NewPublicHandler construye el handler.
func NewPublicHandler(uc *usecase.ProductUseCase) *PublicHandler {
	return &PublicHandler{uc: uc}
}

// Products godoc
// @Summary      Catálogo público
// @Tags         public
// @Produce      json
// @Success      200  {array}  dto.PublicProductResponse
// @Router       /api/public/products [get]
func (h *PublicHandler) Products(c *fiber.Ctx) error {
	out, err := h.uc.PublicList(c.Context(), false)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Available godoc
// @Summary      Productos con stock
// @Tags         public
// @Produce      json
// @Success      200  {array}  dto.PublicProductResponse
// @Router       /api/public/products/available [get]
func (h *PublicHandler) Available(c *fiber.Ctx) error {
	out, err := h.uc.PublicList(c.Context(), true)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Product godoc
// @Summary      Producto público
// @Tags         public
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.PublicProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/public/products/{id} [get]
func (h *PublicHandler) Product(c *fiber.Ctx) error {
	out, err := h.uc.PublicView(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Categories godoc
// @Summary      Categorías
// @Tags         public
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/public/categories [get]
func (h *PublicHandler) Categories(c *fiber.Ctx) error {
	out, err := h.uc.Categories(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas básicas
// @Tags         public
// @Produce      json
// @Success      200  {object}  dto.PublicStatsResponse
// @Router       /api/public/stats/basic [get]
func (h *PublicHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.PublicStats(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

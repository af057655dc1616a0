package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	"github.com/jhoicas/kardex-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC      *usecase.ProductUseCase
	StockUC        *inventory.StockUseCase
	ReportUC       *inventory.ReportUseCase
	JWTSecret      string
	RateLimiter    *RateLimiter    // nil = sin límite
	MetricsHandler nethttp.Handler // nil = no se expone /metrics
	ServiceName    string
}

// Router registra las rutas de la API. Las rutas estáticas van antes que /:id.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	productHandler := NewProductHandler(deps.ProductUC)
	stockHandler := NewStockHandler(deps.StockUC, deps.ReportUC)
	publicHandler := NewPublicHandler(deps.ProductUC)
	integrationHandler := NewIntegrationHandler(deps.ProductUC, deps.StockUC, deps.ReportUC)

	staff := RequireRole(jwt.RoleAdmin, jwt.RoleEmployee)
	adminOnly := RequireRole(jwt.RoleAdmin)
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleEmployee, jwt.RoleGuest)

	// Catálogo público (sin token)
	public := app.Group("/api/public")
	public.Get("/products", publicHandler.Products)
	public.Get("/products/available", publicHandler.Available)
	public.Get("/products/:id", publicHandler.Product)
	public.Get("/categories", publicHandler.Categories)
	public.Get("/stats/basic", publicHandler.Stats)

	// Rutas protegidas (requieren Bearer Token)
	v2 := app.Group("/api/v2", AuthMiddleware(deps.JWTSecret))

	products := v2.Group("/products")
	products.Post("/", staff, productHandler.Create)
	products.Get("/", anyRole, productHandler.List)
	products.Get("/search", anyRole, productHandler.Search)
	products.Post("/search", anyRole, productHandler.Search)
	products.Get("/categories", anyRole, productHandler.Categories)
	products.Get("/stats", anyRole, productHandler.Stats)
	products.Get("/low-stock", staff, productHandler.LowStock)
	products.Get("/out-of-stock", staff, productHandler.OutOfStock)
	products.Get("/category/:category", anyRole, productHandler.ListByCategory)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Put("/:id", staff, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	stock := v2.Group("/stock")
	limit := deps.RateLimiter.Handler()
	stock.Post("/in", staff, limit, stockHandler.StockIn)
	stock.Post("/out", staff, limit, stockHandler.StockOut)
	stock.Post("/adjustment", staff, limit, stockHandler.Adjustment)
	stock.Post("/movement", staff, limit, stockHandler.RegisterMovement)
	stock.Get("/recent", anyRole, stockHandler.Recent)
	stock.Get("/alerts", staff, stockHandler.Alerts)
	stock.Get("/product/:id", anyRole, stockHandler.History)
	stock.Get("/product/:id/current", anyRole, stockHandler.Current)
	stock.Get("/product/:id/sufficient", anyRole, stockHandler.Sufficient)
	stock.Get("/product/:id/kardex.pdf", anyRole, stockHandler.KardexPDF)

	integration := v2.Group("/integration", adminOnly)
	integration.Get("/products/export", integrationHandler.Export)
	integration.Post("/products/import", integrationHandler.Import)
	integration.Get("/products/sync-status", integrationHandler.SyncStatus)
	integration.Post("/stock/bulk-update", limit, integrationHandler.BulkUpdate)
	integration.Get("/reports/inventory-summary", integrationHandler.InventorySummary)
}

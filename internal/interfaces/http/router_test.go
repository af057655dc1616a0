package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	"github.com/jhoicas/kardex-api/internal/infrastructure/metrics"
	"github.com/jhoicas/kardex-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/kardex-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/kardex-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type apiClient struct {
	t   *testing.T
	app *fiber.App
}

// newAPI arma la API completa sobre el driver en memoria.
func newAPI(t *testing.T, limiter *apphttp.RateLimiter) *apiClient {
	t.Helper()
	store, err := memory.NewStore()
	require.NoError(t, err)
	tx := memory.NewTxRunner(store)
	prom := metrics.NewPrometheus()

	app := fiber.New()
	app.Use(apphttp.RequestLogger(nil, prom))
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:      usecase.NewProductUseCase(store.Products(), tx, prom),
		StockUC:        inventory.NewStockUseCase(tx, store.Products(), store.Movements(), prom, nil),
		ReportUC:       inventory.NewReportUseCase(store.Products(), store.Movements(), pdf.NewMarotoKardexGenerator()),
		JWTSecret:      testJWTSecret,
		RateLimiter:    limiter,
		MetricsHandler: prom.Handler(),
		ServiceName:    "kardex-api-test",
	})
	return &apiClient{t: t, app: app}
}

func (a *apiClient) do(method, path, role string, body interface{}) *http.Response {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(a.t, role))
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (a *apiClient) createProduct(name string, qty, min int) dto.ProductResponse {
	a.t.Helper()
	resp := a.do(http.MethodPost, "/api/v2/products", pkgjwt.RoleAdmin, map[string]interface{}{
		"name":          name,
		"category":      "Ferretería",
		"price":         "1500.50",
		"quantity":      qty,
		"minimum_stock": min,
	})
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)
	return decode[dto.ProductResponse](a.t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Health, métricas y catálogo público
// ──────────────────────────────────────────────────────────────────────────────

func TestHealthYMetrics(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.do(http.MethodGet, "/health", "", nil)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])

	resp = api.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "kardex_http_requests_total")
}

func TestCatalogoPublico_SinCantidades(t *testing.T) {
	api := newAPI(t, nil)
	p := api.createProduct("Martillo", 0, 2)

	resp := api.do(http.MethodGet, "/api/public/products/"+p.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]interface{}](t, resp)
	assert.Equal(t, "Martillo", body["name"])
	assert.Equal(t, true, body["out_of_stock"])
	assert.NotContains(t, body, "quantity")
	assert.NotContains(t, body, "total_value")

	resp = api.do(http.MethodGet, "/api/public/products/available", "", nil)
	assert.Empty(t, decode[[]dto.PublicProductResponse](t, resp))

	resp = api.do(http.MethodGet, "/api/public/stats/basic", "", nil)
	stats := decode[dto.PublicStatsResponse](t, resp)
	assert.Equal(t, 1, stats.TotalProducts)
	assert.Equal(t, 0, stats.AvailableProducts)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProductos_CRUD(t *testing.T) {
	api := newAPI(t, nil)
	p := api.createProduct("Destornillador", 5, 2)
	assert.Equal(t, "IN_STOCK", p.StockStatus)

	resp := api.do(http.MethodGet, "/api/v2/products/"+p.ID, pkgjwt.RoleGuest, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = api.do(http.MethodPut, "/api/v2/products/"+p.ID, pkgjwt.RoleEmployee, map[string]interface{}{"quantity": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, 1, updated.Quantity)
	assert.True(t, updated.LowStock)

	resp = api.do(http.MethodDelete, "/api/v2/products/"+p.ID, pkgjwt.RoleEmployee, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "solo ADMIN elimina")

	resp = api.do(http.MethodDelete, "/api/v2/products/"+p.ID, pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = api.do(http.MethodGet, "/api/v2/products/"+p.ID, pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}

func TestProductos_ValidacionYCuerpoInvalido(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.do(http.MethodPost, "/api/v2/products", pkgjwt.RoleAdmin, map[string]interface{}{"name": " "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Equal(t, "name", e.Field)

	// fuera del rango de las columnas: 400, nunca 500
	resp = api.do(http.MethodPost, "/api/v2/products", pkgjwt.RoleAdmin, map[string]interface{}{
		"name": "Clavos", "price": "1", "quantity": 3000000000,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e = decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Equal(t, "quantity", e.Field)

	p := api.createProduct("Clavos", 5, 1)
	resp = api.do(http.MethodPost, "/api/v2/stock/adjustment", pkgjwt.RoleEmployee, map[string]interface{}{
		"product_id": p.ID, "new_quantity": 3000000000,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "new_quantity", decode[dto.ErrorResponse](t, resp).Field)

	req := httptest.NewRequest(http.MethodPost, "/api/v2/products", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleAdmin))
	r, err := api.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)

	resp = api.do(http.MethodPost, "/api/v2/products", pkgjwt.RoleGuest, map[string]interface{}{"name": "X"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = api.do(http.MethodGet, "/api/v2/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProductos_BusquedaPorQueryString(t *testing.T) {
	api := newAPI(t, nil)
	api.createProduct("Llave inglesa", 10, 2)
	api.createProduct("Llave Allen", 1, 2)
	api.createProduct("Taladro", 0, 1)

	resp := api.do(http.MethodGet, "/api/v2/products/search?search_term=llave&low_stock=true", pkgjwt.RoleGuest, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[[]dto.ProductResponse](t, resp)
	require.Len(t, out, 1)
	assert.Equal(t, "Llave Allen", out[0].Name)

	resp = api.do(http.MethodGet, "/api/v2/products/search?min_price=abc", pkgjwt.RoleGuest, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = api.do(http.MethodPost, "/api/v2/products/search", pkgjwt.RoleGuest, map[string]interface{}{"out_of_stock_only": true})
	out = decode[[]dto.ProductResponse](t, resp)
	require.Len(t, out, 1)
	assert.Equal(t, "Taladro", out[0].Name)

	resp = api.do(http.MethodGet, "/api/v2/products/low-stock", pkgjwt.RoleGuest, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = api.do(http.MethodGet, "/api/v2/products/categories", pkgjwt.RoleGuest, nil)
	assert.Equal(t, []string{"Ferretería"}, decode[[]string](t, resp))
}

// ──────────────────────────────────────────────────────────────────────────────
// Motor de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestStock_FlujoCompleto(t *testing.T) {
	api := newAPI(t, nil)
	p := api.createProduct("Clavos", 10, 3)

	resp := api.do(http.MethodPost, "/api/v2/stock/in", pkgjwt.RoleEmployee, dto.StockChangeRequest{ProductID: p.ID, Quantity: 5})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	mov := decode[dto.StockMovementResponse](t, resp)
	assert.Equal(t, 15, mov.NewQuantity)
	assert.Equal(t, testUsername, mov.Username, "el usuario sale del token")

	resp = api.do(http.MethodPost, "/api/v2/stock/out", pkgjwt.RoleEmployee, dto.StockChangeRequest{ProductID: p.ID, Quantity: 20})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, resp).Code)

	resp = api.do(http.MethodPost, "/api/v2/stock/adjustment", pkgjwt.RoleAdmin, dto.StockAdjustmentRequest{ProductID: p.ID, NewQuantity: 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 13, decode[dto.StockMovementResponse](t, resp).Quantity)

	resp = api.do(http.MethodPost, "/api/v2/stock/movement", pkgjwt.RoleEmployee, dto.RegisterMovementRequest{ProductID: p.ID, MovementType: "STOCK_IN", Quantity: 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = api.do(http.MethodGet, "/api/v2/stock/product/"+p.ID+"/current", pkgjwt.RoleGuest, nil)
	assert.Equal(t, 3, decode[dto.CurrentStockResponse](t, resp).Quantity)

	resp = api.do(http.MethodGet, "/api/v2/stock/product/"+p.ID, pkgjwt.RoleGuest, nil)
	hist := decode[[]dto.StockMovementResponse](t, resp)
	require.Len(t, hist, 3)
	assert.Equal(t, "STOCK_IN", hist[0].MovementType)
	assert.Equal(t, "ADJUSTMENT", hist[1].MovementType)

	resp = api.do(http.MethodGet, "/api/v2/stock/product/"+p.ID+"/sufficient?quantity=3", pkgjwt.RoleGuest, nil)
	assert.True(t, decode[dto.SufficientStockResponse](t, resp).Sufficient)

	resp = api.do(http.MethodGet, "/api/v2/stock/product/"+p.ID+"/sufficient", pkgjwt.RoleGuest, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = api.do(http.MethodGet, "/api/v2/stock/recent?limit=2", pkgjwt.RoleGuest, nil)
	assert.Len(t, decode[[]dto.StockMovementResponse](t, resp), 2)

	resp = api.do(http.MethodGet, "/api/v2/stock/alerts", pkgjwt.RoleEmployee, nil)
	alerts := decode[dto.StockAlertsResponse](t, resp)
	require.Len(t, alerts.Replenishments, 1)
	assert.Equal(t, 2, alerts.Replenishments[0].SuggestedOrderQty, "ceil(3*1.5) - 3")

	resp = api.do(http.MethodGet, "/api/v2/stock/product/"+p.ID+"/kardex.pdf", pkgjwt.RoleGuest, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestStock_InvitadoNoRegistraMovimientos(t *testing.T) {
	api := newAPI(t, nil)
	p := api.createProduct("Clavos", 10, 3)

	resp := api.do(http.MethodPost, "/api/v2/stock/in", pkgjwt.RoleGuest, dto.StockChangeRequest{ProductID: p.ID, Quantity: 1})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestStock_ProductoInexistente(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.do(http.MethodPost, "/api/v2/stock/in", pkgjwt.RoleEmployee, dto.StockChangeRequest{ProductID: "no-existe", Quantity: 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = api.do(http.MethodGet, "/api/v2/stock/product/no-existe", pkgjwt.RoleGuest, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]dto.StockMovementResponse](t, resp))
}

func TestStock_RateLimitPorUsuario(t *testing.T) {
	api := newAPI(t, apphttp.NewRateLimiter(0.001, 2, nil))
	p := api.createProduct("Clavos", 10, 3)

	for i := 0; i < 2; i++ {
		resp := api.do(http.MethodPost, "/api/v2/stock/in", pkgjwt.RoleEmployee, dto.StockChangeRequest{ProductID: p.ID, Quantity: 1})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp := api.do(http.MethodPost, "/api/v2/stock/in", pkgjwt.RoleEmployee, dto.StockChangeRequest{ProductID: p.ID, Quantity: 1})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))

	// Las lecturas no pasan por el limitador
	resp = api.do(http.MethodGet, "/api/v2/stock/product/"+p.ID+"/current", pkgjwt.RoleEmployee, nil)
	assert.Equal(t, 12, decode[dto.CurrentStockResponse](t, resp).Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Integración
// ──────────────────────────────────────────────────────────────────────────────

func TestIntegracion_SoloAdmin(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.do(http.MethodGet, "/api/v2/integration/products/export", pkgjwt.RoleEmployee, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestIntegracion_ImportBulkYResumen(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.do(http.MethodPost, "/api/v2/integration/products/import", pkgjwt.RoleAdmin, []map[string]interface{}{
		{"name": "Pala", "price": "30000", "quantity": 4, "minimum_stock": 1},
		{"name": "", "price": "1"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[dto.ImportResult](t, resp)
	assert.Equal(t, 1, res.Successful)
	assert.Equal(t, 1, res.Errors)

	resp = api.do(http.MethodGet, "/api/v2/integration/products/export", pkgjwt.RoleAdmin, nil)
	exported := decode[[]dto.ProductResponse](t, resp)
	require.Len(t, exported, 1)

	resp = api.do(http.MethodPost, "/api/v2/integration/stock/bulk-update", pkgjwt.RoleAdmin, []dto.BulkStockUpdateItem{
		{ProductID: exported[0].ID, Quantity: 0},
		{ProductID: "no-existe", Quantity: 3},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	bulk := decode[dto.ImportResult](t, resp)
	assert.Equal(t, 1, bulk.Successful)
	assert.Equal(t, 1, bulk.Errors)

	resp = api.do(http.MethodGet, "/api/v2/integration/reports/inventory-summary", pkgjwt.RoleAdmin, nil)
	summary := decode[dto.InventorySummaryResponse](t, resp)
	assert.Equal(t, "INVENTORY_SUMMARY", summary.ReportType)
	assert.Equal(t, 1, summary.Stats.OutOfStockCount)

	resp = api.do(http.MethodGet, "/api/v2/integration/products/sync-status", pkgjwt.RoleAdmin, nil)
	status := decode[map[string]interface{}](t, resp)
	assert.Equal(t, "ACTIVE", status["system_status"])
	assert.EqualValues(t, 1, status["total_products"])
}

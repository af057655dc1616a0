package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type countingMetrics struct {
	created, deleted int
}

func (m *countingMetrics) ProductCreated() { m.created++ }
func (m *countingMetrics) ProductDeleted() { m.deleted++ }

type fixture struct {
	products *usecase.ProductUseCase
	stock    *inventory.StockUseCase
	metrics  *countingMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := memory.NewStore()
	require.NoError(t, err)
	tx := memory.NewTxRunner(store)
	m := &countingMetrics{}
	return &fixture{
		products: usecase.NewProductUseCase(store.Products(), tx, m),
		stock:    inventory.NewStockUseCase(tx, store.Products(), store.Movements(), nil, nil),
		metrics:  m,
	}
}

func (f *fixture) create(t *testing.T, name, category, price string, qty, min int) *dto.ProductResponse {
	t.Helper()
	out, err := f.products.Create(context.Background(), dto.CreateProductRequest{
		Name:         name,
		Category:     category,
		Price:        decimal.RequireFromString(price),
		Quantity:     qty,
		MinimumStock: min,
	})
	require.NoError(t, err)
	return out
}

func names(list []dto.ProductResponse) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.Name)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// Alta, consulta y baja
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_CalculaIndicadores(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "  Escritorio  ", " Muebles ", "350.50", 2, 2)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Escritorio", p.Name)
	assert.Equal(t, "Muebles", p.Category)
	assert.True(t, p.LowStock)
	assert.False(t, p.OutOfStock)
	assert.Equal(t, "LOW_STOCK", p.StockStatus)
	assert.True(t, p.TotalValue.Equal(decimal.RequireFromString("701")))
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, 1, f.metrics.created)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		in    dto.CreateProductRequest
		field string
	}{
		{"sin nombre", dto.CreateProductRequest{Name: "  "}, "name"},
		{"precio negativo", dto.CreateProductRequest{Name: "X", Price: decimal.NewFromInt(-1)}, "price"},
		{"cantidad negativa", dto.CreateProductRequest{Name: "X", Quantity: -1}, "quantity"},
		{"mínimo negativo", dto.CreateProductRequest{Name: "X", MinimumStock: -1}, "minimum_stock"},
		{"cantidad sobre el máximo", dto.CreateProductRequest{Name: "X", Quantity: entity.MaxQuantity + 1}, "quantity"},
		{"mínimo sobre el máximo", dto.CreateProductRequest{Name: "X", MinimumStock: 3000000000}, "minimum_stock"},
		{"precio con tres decimales", dto.CreateProductRequest{Name: "X", Price: decimal.RequireFromString("1.005")}, "price"},
		{"precio sobre el máximo", dto.CreateProductRequest{Name: "X", Price: decimal.RequireFromString("1000000000000")}, "price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.products.Create(ctx, tc.in)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
	assert.Zero(t, f.metrics.created)
}

func TestCreate_PrecioConCerosFinalesEsValido(t *testing.T) {
	f := newFixture(t)
	out, err := f.products.Create(context.Background(), dto.CreateProductRequest{
		Name: "Cinta", Price: decimal.RequireFromString("12.500"), Quantity: entity.MaxQuantity,
	})
	require.NoError(t, err)
	assert.True(t, out.Price.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, entity.MaxQuantity, out.Quantity)
}

func TestGetByID_NoEncontrado(t *testing.T) {
	f := newFixture(t)
	_, err := f.products.GetByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Silla", "Muebles", "10", 1, 0)
	ctx := context.Background()

	require.NoError(t, f.products.Delete(ctx, p.ID))
	assert.Equal(t, 1, f.metrics.deleted)

	_, err := f.products.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, f.products.Delete(ctx, p.ID), domain.ErrNotFound)
	assert.Equal(t, 1, f.metrics.deleted)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_ParcialSinMovimientoEnKardex(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Archivador", "Oficina", "80", 5, 1)
	ctx := context.Background()

	out, err := f.products.Update(ctx, p.ID, dto.UpdateProductRequest{
		Price:    ptr(decimal.RequireFromString("95")),
		Quantity: ptr(0),
	})
	require.NoError(t, err)

	assert.Equal(t, "Archivador", out.Name, "los campos nil no cambian")
	assert.Equal(t, "Oficina", out.Category)
	assert.True(t, out.Price.Equal(decimal.NewFromInt(95)))
	assert.Equal(t, 0, out.Quantity)
	assert.True(t, out.OutOfStock)
	assert.Equal(t, p.CreatedAt, out.CreatedAt)

	h, err := f.stock.GetProductHistory(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, h, "la sobrescritura directa no registra movimiento")
}

func TestUpdate_Validaciones(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Archivador", "Oficina", "80", 5, 1)
	ctx := context.Background()

	_, err := f.products.Update(ctx, p.ID, dto.UpdateProductRequest{Name: ptr(" ")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.products.Update(ctx, p.ID, dto.UpdateProductRequest{Quantity: ptr(-3)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.products.Update(ctx, p.ID, dto.UpdateProductRequest{Quantity: ptr(3000000000)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.products.Update(ctx, p.ID, dto.UpdateProductRequest{Price: ptr(decimal.RequireFromString("9.999"))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity, "un update rechazado no modifica nada")
	assert.True(t, got.Price.Equal(decimal.NewFromInt(80)))

	_, err = f.products.Update(ctx, uuid.NewString(), dto.UpdateProductRequest{Name: ptr("Otro")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listados y búsqueda
// ──────────────────────────────────────────────────────────────────────────────

func TestList_OrdenDeCreacionYPaginacion(t *testing.T) {
	f := newFixture(t)
	for _, n := range []string{"Uno", "Dos", "Tres"} {
		f.create(t, n, "", "1", 1, 0)
	}
	ctx := context.Background()

	page, err := f.products.List(ctx, dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Uno", "Dos"}, names(page.Items))
	assert.Equal(t, 2, page.Page.Limit)
	assert.Equal(t, 2, page.Page.Count)
	assert.True(t, page.Page.HasMore)

	page, err = f.products.List(ctx, dto.PageRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Tres"}, names(page.Items))
	assert.False(t, page.Page.HasMore)

	page, err = f.products.List(ctx, dto.PageRequest{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, dto.MaxPageLimit, page.Page.Limit)
	assert.Len(t, page.Items, 3)

	page, err = f.products.List(ctx, dto.PageRequest{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, dto.DefaultPageLimit, page.Page.Limit, "limit por defecto")
}

func TestSearch_FiltrosCombinados(t *testing.T) {
	f := newFixture(t)
	f.create(t, "Cámara réflex", "Electrónica", "2450", 8, 3)
	f.create(t, "Cámara compacta", "Electrónica", "900", 1, 3)
	f.create(t, "Trípode", "Accesorios", "185", 0, 5)
	ctx := context.Background()

	out, err := f.products.Search(ctx, dto.ProductSearchRequest{SearchTerm: "CAMARA"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cámara réflex", "Cámara compacta"}, names(out))

	out, err = f.products.Search(ctx, dto.ProductSearchRequest{SearchTerm: "camara", LowStockOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cámara compacta"}, names(out))

	out, err = f.products.Search(ctx, dto.ProductSearchRequest{
		MinPrice: ptr(decimal.NewFromInt(100)),
		MaxPrice: ptr(decimal.NewFromInt(1000)),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cámara compacta", "Trípode"}, names(out))

	_, err = f.products.Search(ctx, dto.ProductSearchRequest{
		MinPrice: ptr(decimal.NewFromInt(10)),
		MaxPrice: ptr(decimal.NewFromInt(1)),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListadosDerivados(t *testing.T) {
	f := newFixture(t)
	f.create(t, "A", "Hogar", "1", 10, 2)
	f.create(t, "B", "hogar", "1", 2, 2)
	f.create(t, "C", "Jardín", "1", 0, 2)
	f.create(t, "D", "", "1", 1, 0)
	ctx := context.Background()

	low, err := f.products.LowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, names(low))

	out, err := f.products.OutOfStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, names(out))

	byCat, err := f.products.ListByCategory(ctx, "HOGAR")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names(byCat))

	_, err = f.products.ListByCategory(ctx, " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	cats, err := f.products.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hogar", "Jardín", "hogar"}, cats)
}

func TestCategories_SinProductos(t *testing.T) {
	f := newFixture(t)
	cats, err := f.products.Categories(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cats)
	assert.Empty(t, cats)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	f.create(t, "A", "Hogar", "2.5", 4, 1)
	f.create(t, "B", "Jardín", "10", 0, 1)

	s, err := f.products.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, s.TotalProducts)
	assert.Equal(t, 1, s.LowStockCount)
	assert.Equal(t, 1, s.OutOfStockCount)
	assert.True(t, s.TotalValue.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 2, s.Categories)
}

// ──────────────────────────────────────────────────────────────────────────────
// Importación y catálogo público
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_FallosPorItem(t *testing.T) {
	f := newFixture(t)
	res, err := f.products.Import(context.Background(), []dto.CreateProductRequest{
		{Name: "Bueno", Price: decimal.NewFromInt(1)},
		{Name: "Malo", Quantity: -1},
		{Name: ""},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalProcessed)
	assert.Equal(t, 1, res.Successful)
	assert.Equal(t, 2, res.Errors)
	require.Len(t, res.ErrorDetails, 2)
	assert.Contains(t, res.ErrorDetails[0], "producto Malo")

	all, err := f.products.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Bueno"}, names(all))
}

func TestCatalogoPublico(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, "Disponible", "Hogar", "5", 3, 1)
	f.create(t, "Agotado", "Hogar", "5", 0, 1)
	ctx := context.Background()

	all, err := f.products.PublicList(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	avail, err := f.products.PublicList(ctx, true)
	require.NoError(t, err)
	require.Len(t, avail, 1)
	assert.Equal(t, "Disponible", avail[0].Name)

	view, err := f.products.PublicView(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, view.OutOfStock)

	_, err = f.products.PublicView(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stats, err := f.products.PublicStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalProducts)
	assert.Equal(t, 1, stats.AvailableProducts)
	assert.Equal(t, 1, stats.Categories)
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	appinv "github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/ports"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD, búsqueda y estadísticas de productos.
// Las variaciones de stock se registran con el motor de stock; Update solo sobrescribe la cantidad.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner appinv.TxRunner
	metrics  ports.ProductMetrics
	now      func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner appinv.TxRunner, metrics ports.ProductMetrics) *ProductUseCase {
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	return &ProductUseCase{repo: repo, txRunner: txRunner, metrics: metrics, now: time.Now}
}

// Create crea un nuevo producto con la cantidad inicial indicada (sin movimiento en el kardex).
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "es requerido")
	}
	if err := validateAmounts(&in.Price, &in.Quantity, &in.MinimumStock); err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	product := &entity.Product{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Name:         name,
		Description:  in.Description,
		Category:     strings.TrimSpace(in.Category),
		Price:        in.Price,
		Quantity:     in.Quantity,
		MinimumStock: in.MinimumStock,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.metrics.ProductCreated()
	out := appinv.ToProductResponse(product)
	return &out, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := appinv.ToProductResponse(product)
	return &out, nil
}

// Update actualización parcial. Si viene Quantity se sobrescribe directamente (sin movimiento),
// bajo el mismo bloqueo de fila que usa el motor de stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.NewValidationError("name", "no puede estar vacío")
	}
	if err := validateAmounts(in.Price, in.Quantity, in.MinimumStock); err != nil {
		return nil, err
	}

	var updated *entity.Product
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, _ repository.StockMovementRepository) error {
		product, err := productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if in.Name != nil {
			product.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.Category != nil {
			product.Category = strings.TrimSpace(*in.Category)
		}
		if in.Price != nil {
			product.Price = *in.Price
		}
		if in.Quantity != nil {
			product.Quantity = *in.Quantity
		}
		if in.MinimumStock != nil {
			product.MinimumStock = *in.MinimumStock
		}
		product.UpdatedAt = uc.now().UTC()
		if err := productRepo.Update(ctx, product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := appinv.ToProductResponse(updated)
	return &out, nil
}

// Delete elimina el producto. Sus movimientos permanecen en el kardex.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.metrics.ProductDeleted()
	return nil
}

// List lista productos en orden de creación con paginación.
// Pide un elemento de más al repositorio para saber si hay página siguiente.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, page.Limit+1, page.Offset)
	if err != nil {
		return nil, err
	}
	hasMore := len(list) > page.Limit
	if hasMore {
		list = list[:page.Limit]
	}
	items := toProductResponses(list)
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(items), HasMore: hasMore},
	}, nil
}

// All devuelve todos los productos (exportación de integración).
func (uc *ProductUseCase) All(ctx context.Context) ([]dto.ProductResponse, error) {
	return uc.search(ctx, repository.ProductFilter{})
}

// Search aplica los filtros combinados con AND.
func (uc *ProductUseCase) Search(ctx context.Context, in dto.ProductSearchRequest) ([]dto.ProductResponse, error) {
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return nil, domain.NewValidationError("min_price", "no puede ser mayor que max_price")
	}
	return uc.search(ctx, repository.ProductFilter{
		SearchTerm:     strings.TrimSpace(in.SearchTerm),
		Category:       strings.TrimSpace(in.Category),
		MinPrice:       in.MinPrice,
		MaxPrice:       in.MaxPrice,
		LowStockOnly:   in.LowStockOnly,
		OutOfStockOnly: in.OutOfStockOnly,
	})
}

// ListByCategory productos de una categoría (sin distinguir mayúsculas).
func (uc *ProductUseCase) ListByCategory(ctx context.Context, category string) ([]dto.ProductResponse, error) {
	if strings.TrimSpace(category) == "" {
		return nil, domain.NewValidationError("category", "es requerida")
	}
	return uc.search(ctx, repository.ProductFilter{Category: category})
}

// LowStock productos con cantidad <= stock mínimo (incluye agotados).
func (uc *ProductUseCase) LowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	return uc.search(ctx, repository.ProductFilter{LowStockOnly: true})
}

// OutOfStock productos con cantidad 0.
func (uc *ProductUseCase) OutOfStock(ctx context.Context) ([]dto.ProductResponse, error) {
	return uc.search(ctx, repository.ProductFilter{OutOfStockOnly: true})
}

// Categories categorías distintas no vacías, ordenadas.
func (uc *ProductUseCase) Categories(ctx context.Context) ([]string, error) {
	cats, err := uc.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []string{}
	}
	return cats, nil
}

// Stats estadísticas del inventario completo.
func (uc *ProductUseCase) Stats(ctx context.Context) (*dto.ProductStatsResponse, error) {
	list, err := uc.repo.Search(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	s := inventory.Summarize(list)
	return &dto.ProductStatsResponse{
		TotalProducts:   s.TotalProducts,
		LowStockCount:   s.LowStockCount,
		OutOfStockCount: s.OutOfStockCount,
		TotalValue:      s.TotalValue,
		Categories:      s.Categories,
	}, nil
}

// Import crea cada producto de forma independiente y reporta los fallos por ítem.
func (uc *ProductUseCase) Import(ctx context.Context, items []dto.CreateProductRequest) (*dto.ImportResult, error) {
	res := &dto.ImportResult{ErrorDetails: []string{}}
	for _, it := range items {
		res.TotalProcessed++
		if _, err := uc.Create(ctx, it); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			res.Errors++
			res.ErrorDetails = append(res.ErrorDetails, fmt.Sprintf("producto %s: %v", it.Name, err))
			continue
		}
		res.Successful++
	}
	return res, nil
}

// PublicList productos para invitados. availableOnly filtra los agotados.
func (uc *ProductUseCase) PublicList(ctx context.Context, availableOnly bool) ([]dto.PublicProductResponse, error) {
	list, err := uc.repo.Search(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]dto.PublicProductResponse, 0, len(list))
	for _, p := range list {
		if availableOnly && inventory.Classify(p).OutOfStock {
			continue
		}
		out = append(out, appinv.ToPublicProductResponse(p))
	}
	return out, nil
}

// PublicView producto para invitados, sin cantidades ni valorización.
func (uc *ProductUseCase) PublicView(ctx context.Context, id string) (*dto.PublicProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := appinv.ToPublicProductResponse(product)
	return &out, nil
}

// PublicStats estadísticas visibles para invitados.
func (uc *ProductUseCase) PublicStats(ctx context.Context) (*dto.PublicStatsResponse, error) {
	list, err := uc.repo.Search(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	s := inventory.Summarize(list)
	return &dto.PublicStatsResponse{
		TotalProducts:     s.TotalProducts,
		Categories:        s.Categories,
		AvailableProducts: s.TotalProducts - s.OutOfStockCount,
	}, nil
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func (uc *ProductUseCase) search(ctx context.Context, f repository.ProductFilter) ([]dto.ProductResponse, error) {
	list, err := uc.repo.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// validateAmounts valida los campos numéricos presentes (nil = no se valida) contra los
// límites de almacenamiento, para que ambos drivers acepten y rechacen lo mismo.
func validateAmounts(price *decimal.Decimal, quantity, minimumStock *int) error {
	if price != nil {
		switch {
		case price.IsNegative():
			return domain.NewValidationError("price", "no puede ser negativo")
		case !price.Equal(price.Round(entity.PriceDecimals)):
			return domain.NewValidationError("price", fmt.Sprintf("admite como máximo %d decimales", entity.PriceDecimals))
		case price.GreaterThanOrEqual(entity.MaxPrice):
			return domain.NewValidationError("price", "supera el máximo permitido")
		}
	}
	if quantity != nil {
		if err := validateCount("quantity", *quantity); err != nil {
			return err
		}
	}
	if minimumStock != nil {
		if err := validateCount("minimum_stock", *minimumStock); err != nil {
			return err
		}
	}
	return nil
}

func validateCount(field string, n int) error {
	if n < 0 {
		return domain.NewValidationError(field, "no puede ser negativo")
	}
	if n > entity.MaxQuantity {
		return domain.NewValidationError(field, fmt.Sprintf("no puede superar %d", entity.MaxQuantity))
	}
	return nil
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, appinv.ToProductResponse(p))
	}
	return items
}

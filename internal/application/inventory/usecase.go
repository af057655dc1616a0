package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/ports"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// Motivos por defecto cuando el llamador no envía uno.
const (
	DefaultReasonStockIn    = "Entrada de stock"
	DefaultReasonStockOut   = "Salida de stock"
	DefaultReasonAdjustment = "Ajuste de inventario"
)

// StockUseCase es el motor del kardex: valida y aplica cambios de cantidad de forma transaccional
// (bloqueo de fila con SELECT FOR UPDATE) y agrega el movimiento en la misma transacción.
type StockUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	metrics     ports.StockMetrics
	log         *logger.Logger
	now         func() time.Time
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	metrics ports.StockMetrics,
	log *logger.Logger,
) *StockUseCase {
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &StockUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		movRepo:     movRepo,
		metrics:     metrics,
		log:         log,
		now:         time.Now,
	}
}

// quantityRule calcula la nueva cantidad a partir de la actual (leída bajo bloqueo).
// Devuelve la nueva cantidad y la magnitud registrada en el movimiento.
type quantityRule func(current int) (newQty, magnitude int, err error)

// RegisterStockIn suma quantity (> 0) al producto y registra un STOCK_IN.
// La cantidad resultante no puede superar entity.MaxQuantity.
func (uc *StockUseCase) RegisterStockIn(ctx context.Context, productID string, quantity int, reason, username string) (*dto.StockMovementResponse, error) {
	if err := validateMovementQuantity(quantity); err != nil {
		return nil, err
	}
	return uc.apply(ctx, entity.MovementTypeStockIn, productID, orDefault(reason, DefaultReasonStockIn), username,
		func(current int) (int, int, error) {
			if quantity > entity.MaxQuantity-current {
				return 0, 0, domain.NewValidationError("quantity",
					fmt.Sprintf("la cantidad resultante supera el máximo (%d)", entity.MaxQuantity))
			}
			return current + quantity, quantity, nil
		})
}

// RegisterStockOut resta quantity (> 0) del producto y registra un STOCK_OUT.
// Nunca deja la cantidad en negativo: si quantity supera el stock devuelve ErrInsufficientStock.
func (uc *StockUseCase) RegisterStockOut(ctx context.Context, productID string, quantity int, reason, username string) (*dto.StockMovementResponse, error) {
	if err := validateMovementQuantity(quantity); err != nil {
		return nil, err
	}
	return uc.apply(ctx, entity.MovementTypeStockOut, productID, orDefault(reason, DefaultReasonStockOut), username,
		func(current int) (int, int, error) {
			if quantity > current {
				return 0, 0, domain.InsufficientStock(current, quantity)
			}
			return current - quantity, quantity, nil
		})
}

// RegisterAdjustment fija la cantidad en newQuantity (>= 0) y registra un ADJUSTMENT
// cuya magnitud es |newQuantity - cantidad anterior|.
func (uc *StockUseCase) RegisterAdjustment(ctx context.Context, productID string, newQuantity int, reason, username string) (*dto.StockMovementResponse, error) {
	if newQuantity < 0 {
		return nil, domain.NewValidationError("new_quantity", "no puede ser negativa")
	}
	if newQuantity > entity.MaxQuantity {
		return nil, domain.NewValidationError("new_quantity", fmt.Sprintf("no puede superar %d", entity.MaxQuantity))
	}
	return uc.apply(ctx, entity.MovementTypeAdjustment, productID, orDefault(reason, DefaultReasonAdjustment), username,
		func(current int) (int, int, error) {
			diff := newQuantity - current
			if diff < 0 {
				diff = -diff
			}
			return newQuantity, diff, nil
		})
}

// apply ejecuta lectura con bloqueo -> regla -> actualización del producto -> alta del movimiento
// dentro de una sola transacción. Si la regla falla no hay efectos parciales.
func (uc *StockUseCase) apply(
	ctx context.Context,
	movementType, productID, reason, username string,
	rule quantityRule,
) (*dto.StockMovementResponse, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, domain.NewValidationError("product_id", "es requerido")
	}
	if strings.TrimSpace(username) == "" {
		return nil, domain.NewValidationError("username", "es requerido")
	}

	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error {
		// Bloquea la fila del producto hasta el commit para serializar cambios sobre el mismo producto
		product, err := productRepo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		newQty, magnitude, err := rule(product.Quantity)
		if err != nil {
			return err
		}
		now := uc.now().UTC()
		if err := productRepo.UpdateQuantity(ctx, product.ID, newQty, now); err != nil {
			return err
		}
		mov = &entity.StockMovement{
			ID:               uuid.Must(uuid.NewV7()).String(),
			ProductID:        product.ID,
			ProductName:      product.Name,
			MovementType:     movementType,
			Quantity:         magnitude,
			PreviousQuantity: product.Quantity,
			NewQuantity:      newQty,
			Reason:           reason,
			Username:         username,
			Timestamp:        now,
		}
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.MovementRegistered(movementType)
	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("product_id", mov.ProductID).
		Str("type", mov.MovementType).
		Int("previous", mov.PreviousQuantity).
		Int("new", mov.NewQuantity).
		Str("username", mov.Username).
		Msg("movimiento de stock registrado")
	return toMovementResponse(mov), nil
}

// HasSufficientStock indica si la cantidad actual cubre requiredQuantity. Solo lectura.
func (uc *StockUseCase) HasSufficientStock(ctx context.Context, productID string, requiredQuantity int) (bool, error) {
	qty, err := uc.GetCurrentStock(ctx, productID)
	if err != nil {
		return false, err
	}
	return qty >= requiredQuantity, nil
}

// GetCurrentStock devuelve la cantidad actual del producto.
func (uc *StockUseCase) GetCurrentStock(ctx context.Context, productID string) (int, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("stock: obtener producto: %w", err)
	}
	if product == nil {
		return 0, domain.ErrNotFound
	}
	return product.Quantity, nil
}

// GetProductHistory devuelve el kardex del producto, del movimiento más reciente al más antiguo.
// Sigue disponible aunque el producto haya sido eliminado (referencias huérfanas).
func (uc *StockUseCase) GetProductHistory(ctx context.Context, productID string) ([]dto.StockMovementResponse, error) {
	list, err := uc.movRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("stock: historial: %w", err)
	}
	return toMovementResponses(list), nil
}

// RecentMovements últimos movimientos de todos los productos (limit entre 1 y 500, por defecto 50).
func (uc *StockUseCase) RecentMovements(ctx context.Context, limit int) ([]dto.StockMovementResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	list, err := uc.movRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("stock: movimientos recientes: %w", err)
	}
	return toMovementResponses(list), nil
}

func validateMovementQuantity(quantity int) error {
	if quantity <= 0 {
		return domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if quantity > entity.MaxQuantity {
		return domain.NewValidationError("quantity", fmt.Sprintf("no puede superar %d", entity.MaxQuantity))
	}
	return nil
}

func orDefault(reason, def string) string {
	if r := strings.TrimSpace(reason); r != "" {
		return r
	}
	return def
}

func toMovementResponse(m *entity.StockMovement) *dto.StockMovementResponse {
	if m == nil {
		return nil
	}
	return &dto.StockMovementResponse{
		ID:               m.ID,
		ProductID:        m.ProductID,
		ProductName:      m.ProductName,
		MovementType:     m.MovementType,
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		Reason:           m.Reason,
		Username:         m.Username,
		Timestamp:        m.Timestamp,
	}
}

func toMovementResponses(list []*entity.StockMovement) []dto.StockMovementResponse {
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMovementResponse(m))
	}
	return out
}

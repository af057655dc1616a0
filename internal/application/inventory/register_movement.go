package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// DefaultReasonBulk motivo de los ajustes de la actualización masiva de integración.
const DefaultReasonBulk = "Actualización masiva vía API"

// RegisterMovement adapta el request HTTP de endpoint único al caso de uso correspondiente según movement_type.
// Para ADJUSTMENT se usa new_quantity; si no viene, quantity se toma como cantidad objetivo.
func (uc *StockUseCase) RegisterMovement(ctx context.Context, in dto.RegisterMovementRequest, username string) (*dto.StockMovementResponse, error) {
	switch in.MovementType {
	case entity.MovementTypeStockIn:
		return uc.RegisterStockIn(ctx, in.ProductID, in.Quantity, in.Reason, username)
	case entity.MovementTypeStockOut:
		return uc.RegisterStockOut(ctx, in.ProductID, in.Quantity, in.Reason, username)
	case entity.MovementTypeAdjustment:
		target := in.Quantity
		if in.NewQuantity != nil {
			target = *in.NewQuantity
		}
		return uc.RegisterAdjustment(ctx, in.ProductID, target, in.Reason, username)
	default:
		return nil, domain.NewValidationError("movement_type", "debe ser STOCK_IN, STOCK_OUT o ADJUSTMENT")
	}
}

// BulkAdjust aplica cada ítem como un ajuste independiente: un ítem fallido no revierte los demás.
func (uc *StockUseCase) BulkAdjust(ctx context.Context, items []dto.BulkStockUpdateItem, username string) (*dto.ImportResult, error) {
	if len(items) == 0 {
		return nil, domain.NewValidationError("items", "la lista no puede estar vacía")
	}
	res := &dto.ImportResult{ErrorDetails: []string{}}
	for i, it := range items {
		res.TotalProcessed++
		reason := it.Reason
		if reason == "" {
			reason = DefaultReasonBulk
		}
		if _, err := uc.RegisterAdjustment(ctx, it.ProductID, it.Quantity, reason, username); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			res.Errors++
			res.ErrorDetails = append(res.ErrorDetails, fmt.Sprintf("ítem %d (%s): %v", i+1, it.ProductID, err))
			continue
		}
		res.Successful++
	}
	uc.log.Info().
		Int("processed", res.TotalProcessed).
		Int("errors", res.Errors).
		Str("username", username).
		Msg("actualización masiva de stock")
	return res, nil
}

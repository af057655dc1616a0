package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockChangeRequest body para POST /api/v2/stock/in y /out.
type StockChangeRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason,omitempty"`
}

// StockAdjustmentRequest body para POST /api/v2/stock/adjustment (cantidad objetivo absoluta).
type StockAdjustmentRequest struct {
	ProductID   string `json:"product_id"`
	NewQuantity int    `json:"new_quantity"`
	Reason      string `json:"reason,omitempty"`
}

// RegisterMovementRequest body para POST /api/v2/stock/movement.
// Para STOCK_IN/STOCK_OUT se usa Quantity; para ADJUSTMENT se usa NewQuantity.
type RegisterMovementRequest struct {
	ProductID    string `json:"product_id"`
	MovementType string `json:"movement_type"`
	Quantity     int    `json:"quantity"`
	NewQuantity  *int   `json:"new_quantity,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// BulkStockUpdateItem un ajuste dentro de la actualización masiva de integración.
type BulkStockUpdateItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason,omitempty"`
}

// StockMovementResponse una entrada del kardex.
type StockMovementResponse struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"product_id"`
	ProductName      string    `json:"product_name"`
	MovementType     string    `json:"movement_type"`
	Quantity         int       `json:"quantity"`
	PreviousQuantity int       `json:"previous_quantity"`
	NewQuantity      int       `json:"new_quantity"`
	Reason           string    `json:"reason"`
	Username         string    `json:"username"`
	Timestamp        time.Time `json:"timestamp"`
}

// CurrentStockResponse salida de GET /stock/product/:id/current.
type CurrentStockResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// SufficientStockResponse salida de GET /stock/product/:id/sufficient.
type SufficientStockResponse struct {
	ProductID        string `json:"product_id"`
	RequiredQuantity int    `json:"required_quantity"`
	Sufficient       bool   `json:"sufficient"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto en o bajo su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	ProductName        string          `json:"product_name"`
	Category           string          `json:"category"`
	CurrentStock       int             `json:"current_stock"`
	MinimumStock       int             `json:"minimum_stock"`
	IdealStock         int             `json:"ideal_stock"`          // ceil(MinimumStock * 1.5)
	SuggestedOrderQty  int             `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitPrice          decimal.Decimal `json:"unit_price"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitPrice
	Priority           int             `json:"priority"`             // 1 = más urgente
}

// StockAlertsResponse productos con stock bajo/agotado y sugerencias de reposición.
type StockAlertsResponse struct {
	LowStock       []ProductResponse            `json:"low_stock"`
	OutOfStock     []ProductResponse            `json:"out_of_stock"`
	Replenishments []ReplenishmentSuggestionDTO `json:"replenishments"`
}

// InventorySummaryResponse reporte de integración.
type InventorySummaryResponse struct {
	Stats       ProductStatsResponse `json:"stats"`
	Alerts      StockAlertsResponse  `json:"alerts"`
	GeneratedAt time.Time            `json:"generated_at"`
	ReportType  string               `json:"report_type"`
}

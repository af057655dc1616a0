package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	MinimumStock int             `json:"minimum_stock"`
}

// UpdateProductRequest entrada para actualizar un producto. Los campos nil no se modifican.
// Quantity sobrescribe la cantidad sin registrar movimiento en el kardex.
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description"`
	Category     *string          `json:"category"`
	Price        *decimal.Decimal `json:"price"`
	Quantity     *int             `json:"quantity"`
	MinimumStock *int             `json:"minimum_stock"`
}

// ProductResponse salida de un producto con los indicadores calculados al responder.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	MinimumStock int             `json:"minimum_stock"`
	LowStock     bool            `json:"low_stock"`
	OutOfStock   bool            `json:"out_of_stock"`
	TotalValue   decimal.Decimal `json:"total_value"`
	StockStatus  string          `json:"stock_status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PublicProductResponse vista para invitados: sin cantidades exactas ni valorización.
type PublicProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	OutOfStock  bool            `json:"out_of_stock"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductSearchRequest filtros de búsqueda (POST /search o query string en GET /search).
type ProductSearchRequest struct {
	SearchTerm     string           `json:"search_term" query:"search_term"`
	Category       string           `json:"category" query:"category"`
	MinPrice       *decimal.Decimal `json:"min_price" query:"-"`
	MaxPrice       *decimal.Decimal `json:"max_price" query:"-"`
	LowStockOnly   bool             `json:"low_stock_only" query:"low_stock"`
	OutOfStockOnly bool             `json:"out_of_stock_only" query:"out_of_stock"`
}

// ProductStatsResponse estadísticas básicas del inventario.
type ProductStatsResponse struct {
	TotalProducts   int             `json:"total_products"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
	TotalValue      decimal.Decimal `json:"total_value"`
	Categories      int             `json:"categories"`
}

// PublicStatsResponse estadísticas visibles para invitados.
type PublicStatsResponse struct {
	TotalProducts     int `json:"total_products"`
	Categories        int `json:"categories"`
	AvailableProducts int `json:"available_products"`
}

// ImportResult resultado de una operación masiva (importación o actualización de stock).
type ImportResult struct {
	TotalProcessed int      `json:"total_processed"`
	Successful     int      `json:"successful"`
	Errors         int      `json:"errors"`
	ErrorDetails   []string `json:"error_details"`
}

package entity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Límites de las columnas: quantity y minimum_stock son INTEGER, price es NUMERIC(14, 2).
const (
	MaxQuantity   = math.MaxInt32
	PriceDecimals = 2
)

// MaxPrice cota exclusiva del precio (12 dígitos enteros).
var MaxPrice = decimal.New(1, 12)

// Product representa un producto del inventario.
// Quantity solo cambia por el motor de stock (o por la sobrescritura directa de Update);
// los indicadores de stock bajo/agotado se derivan en lectura y no se guardan.
type Product struct {
	ID           string
	Name         string
	Description  string
	Category     string
	Price        decimal.Decimal // precio unitario
	Quantity     int
	MinimumStock int // umbral de stock bajo
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

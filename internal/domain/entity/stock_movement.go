package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeStockIn    = "STOCK_IN"   // entrada (delta positivo)
	MovementTypeStockOut   = "STOCK_OUT"  // salida (delta negativo)
	MovementTypeAdjustment = "ADJUSTMENT" // ajuste a cantidad absoluta
)

// IsValidMovementType indica si t es uno de los tipos soportados.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeStockIn, MovementTypeStockOut, MovementTypeAdjustment:
		return true
	}
	return false
}

// StockMovement es una entrada inmutable del kardex: nunca se actualiza ni se elimina.
// ProductID es una referencia débil; ProductName guarda el nombre al momento del movimiento
// para que el historial siga siendo legible si el producto se elimina.
type StockMovement struct {
	ID               string
	ProductID        string
	ProductName      string
	MovementType     string
	Quantity         int // magnitud; en ADJUSTMENT es |NewQuantity - PreviousQuantity|
	PreviousQuantity int
	NewQuantity      int
	Reason           string
	Username         string
	Timestamp        time.Time
}

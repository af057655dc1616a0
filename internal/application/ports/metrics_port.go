package ports

import "github.com/shopspring/decimal"

// ProductMetrics puerto de salida para contadores de productos (creación/eliminación).
// Los adaptadores (Prometheus, no-op) no participan en la consistencia del kardex.
type ProductMetrics interface {
	ProductCreated()
	ProductDeleted()
}

// StockMetrics puerto de salida para contadores de movimientos de stock.
// El motor lo invoca después del commit; un fallo aquí nunca revierte un movimiento.
type StockMetrics interface {
	MovementRegistered(movementType string)
}

// InventoryGauges snapshot agregado que publica el job periódico de alertas.
type InventoryGauges struct {
	TotalProducts   int
	LowStockCount   int
	OutOfStockCount int
	TotalValue      decimal.Decimal
	Categories      int
}

// GaugePublisher puerto para publicar el snapshot de inventario (gauges).
type GaugePublisher interface {
	PublishInventory(g InventoryGauges)
}

// NoopMetrics implementa todos los puertos de métricas sin efecto (tests, herramientas CLI).
type NoopMetrics struct{}

func (NoopMetrics) ProductCreated() {}
func (NoopMetrics) ProductDeleted() {}
func (NoopMetrics) MovementRegistered(string) {}
func (NoopMetrics) PublishInventory(InventoryGauges) {}

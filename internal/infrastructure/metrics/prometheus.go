package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/kardex-api/internal/application/ports"
)

const namespace = "kardex"

var (
	_ ports.ProductMetrics = (*Prometheus)(nil)
	_ ports.StockMetrics   = (*Prometheus)(nil)
	_ ports.GaugePublisher = (*Prometheus)(nil)
)

// Prometheus adaptador de los puertos de métricas con su propio registry.
type Prometheus struct {
	registry *prometheus.Registry

	productsCreated prometheus.Counter
	productsDeleted prometheus.Counter
	movements       *prometheus.CounterVec

	totalProducts   prometheus.Gauge
	lowStock        prometheus.Gauge
	outOfStock      prometheus.Gauge
	inventoryValue  prometheus.Gauge
	categories      prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewPrometheus registra los collectors en un registry nuevo.
func NewPrometheus() *Prometheus {
	m := &Prometheus{
		registry: prometheus.NewRegistry(),
		productsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "products",
			Name:      "created_total",
			Help:      "Productos creados.",
		}),
		productsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "products",
			Name:      "deleted_total",
			Help:      "Productos eliminados.",
		}),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stock",
			Name:      "movements_total",
			Help:      "Movimientos de stock confirmados por tipo.",
		}, []string{"type"}),
		totalProducts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "products",
			Help:      "Total de productos.",
		}),
		lowStock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "low_stock_products",
			Help:      "Productos con cantidad <= stock mínimo.",
		}),
		outOfStock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "out_of_stock_products",
			Help:      "Productos agotados.",
		}),
		inventoryValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "value",
			Help:      "Valor total del inventario (precio * cantidad).",
		}),
		categories: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "categories",
			Help:      "Categorías distintas.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Peticiones HTTP atendidas.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms a ~5s
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		m.productsCreated,
		m.productsDeleted,
		m.movements,
		m.totalProducts,
		m.lowStock,
		m.outOfStock,
		m.inventoryValue,
		m.categories,
		m.httpRequests,
		m.httpDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return m
}

func (m *Prometheus) ProductCreated() { m.productsCreated.Inc() }
func (m *Prometheus) ProductDeleted() { m.productsDeleted.Inc() }

func (m *Prometheus) MovementRegistered(movementType string) {
	m.movements.WithLabelValues(movementType).Inc()
}

// PublishInventory actualiza los gauges con el snapshot calculado por el job de alertas.
func (m *Prometheus) PublishInventory(g ports.InventoryGauges) {
	m.totalProducts.Set(float64(g.TotalProducts))
	m.lowStock.Set(float64(g.LowStockCount))
	m.outOfStock.Set(float64(g.OutOfStockCount))
	m.inventoryValue.Set(g.TotalValue.InexactFloat64())
	m.categories.Set(float64(g.Categories))
}

// ObserveHTTP registra una petición. route es el patrón de la ruta, no la URL, para acotar la cardinalidad.
func (m *Prometheus) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Registry expone el registry (tests).
func (m *Prometheus) Registry() *prometheus.Registry {
	return m.registry
}

// Handler devuelve el handler HTTP con la exposición de métricas.
func (m *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

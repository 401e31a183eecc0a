// Package metrics provides Prometheus metrics for the pharmacist API.
// HTTP metrics:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// Prescription pipeline metrics:
//   - prescription_rows_total: Counter of table rows by outcome (parsed, skipped)
//   - prescription_medicines_total: Counter of parsed medicines by stock status
//   - prescription_orders_total: Counter of pipeline runs by result (ok, empty, failed)
//   - inventory_lookup_duration_seconds: Histogram of single name lookups
//   - inventory_records: Gauge with the size of the loaded inventory snapshot
//
// All metrics are registered with the Prometheus default registry
// during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	PrescriptionRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prescription_rows_total",
			Help: "Prescription table rows by parse outcome",
		},
		[]string{"outcome"},
	)

	Medicines = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prescription_medicines_total",
			Help: "Parsed medicines by stock status",
		},
		[]string{"stock"},
	)

	OrdersProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prescription_orders_total",
			Help: "Prescription pipeline runs by result",
		},
		[]string{"result"},
	)

	InventoryLookupDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inventory_lookup_duration_seconds",
			Help:    "Inventory name lookup latency",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
	)

	InventoryRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_records",
			Help: "Number of records in the loaded inventory snapshot",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(PrescriptionRows)
	prometheus.MustRegister(Medicines)
	prometheus.MustRegister(OrdersProcessed)
	prometheus.MustRegister(InventoryLookupDuration)
	prometheus.MustRegister(InventoryRecords)
}

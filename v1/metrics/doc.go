// Package metrics provides Prometheus-based monitoring for traced operations.
//
// Metrics implements observability.Observer, so it can be attached to the
// tracer and the HTTP client to count finalized spans and outbound requests:
//
//	m := metrics.NewMetrics(metrics.Config{
//		Address:                 ":9090",
//		EnableDefaultCollectors: true,
//		ServiceName:             "items-search",
//	})
//	tracerClient.WithObserver(m)
//	httpClient.WithObserver(m)
//	go m.Server.ListenAndServe()
//
// # Architecture
//
// This package follows the "accept interfaces, return structs" design pattern:
//   - MetricsCollector interface: Defines the contract for metrics operations
//   - Metrics struct: Concrete implementation of the MetricsCollector interface
//   - NewMetrics constructor: Returns *Metrics (concrete type)
//   - FX module: Provides *Metrics, MetricsCollector and observability.Observer
//
// # Configuration
//
//	METRICS_ADDRESS=:9090                      # Port and address for /metrics endpoint
//	METRICS_ENABLE_DEFAULT_COLLECTORS=true     # Enable runtime and process metrics
//	METRICS_NAMESPACE=spantrace                # Optional prefix for all metric names
//	METRICS_SERVICE_NAME=items-search          # Adds service label to all metrics
//
// # Custom Metrics
//
// Applications can register additional metrics with CreateCounter,
// CreateHistogram and CreateGauge; they share the namespace and service label.
//
// # Thread Safety
//
// All methods on the Metrics struct and Prometheus collectors are safe for
// concurrent use by multiple goroutines.
package metrics

// Package logger is the structured logging layer: a map-based API over zap
// that can tag entries with the active trace.
//
// NewLoggerClient returns the concrete *LoggerClient; other packages depend on
// the Logger interface it implements. FXModule provides both.
//
// Usage:
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:         logger.Info,
//		EnableTracing: true,
//		ServiceName:   "items-search",
//	})
//
//	log.Info("search started", nil, map[string]interface{}{"term": "bicycle"})
//	log.Error("search failed", err, map[string]interface{}{"term": "bicycle"})
//
//	// trace_id and span_id of the span active in ctx are added
//	log.InfoWithContext(ctx, "request sent", nil, nil)
//
// Several field maps may be passed; on duplicate keys the later map wins.
//
// Environment:
//
//	ZAP_LOGGER_LEVEL       debug | info | warning | error (default info)
//	LOGGER_ENABLE_TRACING  add trace fields in *WithContext methods (default true)
//	LOGGER_SERVICE_NAME    value of the "service" field (default spantrace)
//
// A LoggerClient is safe for concurrent use.
package logger

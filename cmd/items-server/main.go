// Command items-server serves GET /api/items and continues the trace of
// every incoming request.
package main

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/spantrace/v1/items"
	"github.com/Aleph-Alpha/spantrace/v1/logger"
	"github.com/Aleph-Alpha/spantrace/v1/metrics"
	"github.com/Aleph-Alpha/spantrace/v1/observability"
	"github.com/Aleph-Alpha/spantrace/v1/tracer"
)

func main() {
	fx.New(
		fx.Provide(
			logger.NewConfig,
			tracer.NewConfig,
			metrics.NewConfig,
			items.NewServerConfig,
			func(l *logger.LoggerClient) tracer.Logger { return l },
		),
		logger.FXModule,
		tracer.FXModule,
		metrics.FXModule,
		items.ServerModule,
		fx.Invoke(func(t *tracer.Tracer, o observability.Observer) {
			t.WithObserver(o)
		}),
	).Run()
}

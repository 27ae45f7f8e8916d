package httpclient

import (
	"context"

	"go.uber.org/fx"
)

// FXModule wires the traced HTTP client into Fx.
//
// It provides:
//   - *Client        (NewClient)
//   - Lifecycle hook (RegisterClientLifecycle)
//
// A httpclient.Config, *tracer.Tracer and logger.Logger must be available.
var FXModule = fx.Module(
	"httpclient",

	fx.Provide(
		NewClient,
	),

	fx.Invoke(RegisterClientLifecycle),
)

// RegisterClientLifecycle closes idle connections on application shutdown.
func RegisterClientLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}

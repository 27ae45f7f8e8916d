package items

import (
	"context"
	"net"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/spantrace/v1/logger"
)

// ClientModule provides *SearchClient.
//
// A ClientConfig, *httpclient.Client, *tracer.Tracer and logger.Logger must be available.
var ClientModule = fx.Module("items-client",
	fx.Provide(
		NewSearchClient,
	),
)

// ServerModule provides the items service: Store, *Handler and *Server, and
// runs the server for the lifetime of the application.
//
// A ServerConfig, *tracer.Tracer and logger.Logger must be available.
var ServerModule = fx.Module("items-server",
	fx.Provide(
		NewStore,
		NewHandler,
		NewServer,
	),
	fx.Invoke(RegisterServerLifecycle),
)

// RegisterServerLifecycle starts listening on OnStart and shuts the server
// and the store down on OnStop.
func RegisterServerLifecycle(lc fx.Lifecycle, s *Server, store Store, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			l, err := net.Listen("tcp", s.HTTP.Addr)
			if err != nil {
				return err
			}
			log.Info("items server listening", nil, map[string]interface{}{
				"address": l.Addr().String(),
			})
			go func() {
				if err := s.Serve(l); err != nil {
					log.Error("items server stopped", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down items server", nil, nil)
			err := s.Shutdown(ctx)
			if closer, ok := store.(interface{ Close() error }); ok {
				if cerr := closer.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}
			return err
		},
	})
}

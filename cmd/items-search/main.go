// Command items-search runs traced searches against the items service.
//
// Each search is its own trace: "submit fetch" with the outgoing request as
// its child. With -lucky a second search for the lucky term runs alongside.
// Span and request metrics are served on METRICS_ADDRESS while it runs.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"

	"github.com/Aleph-Alpha/spantrace/v1/httpclient"
	"github.com/Aleph-Alpha/spantrace/v1/items"
	"github.com/Aleph-Alpha/spantrace/v1/logger"
	"github.com/Aleph-Alpha/spantrace/v1/metrics"
	"github.com/Aleph-Alpha/spantrace/v1/observability"
	"github.com/Aleph-Alpha/spantrace/v1/tracer"
)

func main() {
	term := flag.String("q", "bicycle", "search term")
	limit := flag.Int("limit", 5, "maximum number of results")
	lucky := flag.Bool("lucky", false, "also run a lucky search")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	var search *items.SearchClient
	var log logger.Logger
	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			logger.NewConfig,
			tracer.NewConfig,
			httpclient.NewConfig,
			metrics.NewConfig,
			items.NewClientConfig,
			func(l *logger.LoggerClient) tracer.Logger { return l },
		),
		logger.FXModule,
		tracer.FXModule,
		httpclient.FXModule,
		metrics.FXModule,
		items.ClientModule,
		fx.Invoke(func(t *tracer.Tracer, c *httpclient.Client, o observability.Observer) {
			t.WithObserver(o)
			c.WithObserver(o)
		}),
		fx.Populate(&search, &log),
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err := run(ctx, search, items.Query{Term: *term, Limit: *limit}, *lucky)
	if err != nil {
		log.Error("search failed", err, nil)
	}

	// Stop flushes the exporter, so it gets a fresh deadline.
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if stopErr := app.Stop(stopCtx); stopErr != nil {
		fmt.Fprintln(os.Stderr, stopErr)
	}

	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, search *items.SearchClient, q items.Query, lucky bool) error {
	g, ctx := errgroup.WithContext(ctx)

	var found, luckyFound []items.Item
	g.Go(func() error {
		var err error
		found, err = search.FetchItems(ctx, q)
		return err
	})
	if lucky {
		g.Go(func() error {
			var err error
			luckyFound, err = search.Lucky(ctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Println(items.RenderItems(found))
	if lucky {
		fmt.Println(items.RenderItems(luckyFound))
	}
	return nil
}

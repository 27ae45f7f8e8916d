// Package items is the demonstration domain for the tracing packages: a
// traced search client and the items service it talks to.
//
// The client side, SearchClient, wraps every search in a "submit fetch" span.
// The HTTP request made through httpclient becomes its child and carries a
// traceparent header, so the server side continues the same trace:
//
//	submit fetch                      (client)
//	└── Request: GET /api/items?...   (client)
//	    └── GET /items                (server)
//
// Client usage:
//
//	search := items.NewSearchClient(items.ClientConfig{}, httpClient, tracerClient, log)
//	found, err := search.FetchItems(ctx, items.Query{Term: "bicycle", Limit: 5})
//	if items.IsStatusError(err) {
//		// the service answered with a status >= 400
//	}
//	fmt.Println(items.RenderItems(found))
//
// The server side is a gin handler over a Store. MemoryStore serves a fixed
// catalogue; PostgresStore queries an "items" table through GORM.
//
// FX Integration:
//
//	app := fx.New(
//		logger.FXModule,
//		tracer.FXModule,
//		items.ServerModule,
//		fx.Provide(items.NewServerConfig),
//	)
package items

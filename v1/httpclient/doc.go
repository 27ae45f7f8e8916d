// Package httpclient performs outbound HTTP requests with distributed tracing.
//
// Every Client.Request runs inside its own child span named
// "Request: <METHOD> <url>" and sends a W3C traceparent header derived from
// that span, so the receiving service continues the same trace.
//
// Basic Usage:
//
//	client := httpclient.NewClient(httpclient.Config{
//		BaseURL: "http://localhost:8000",
//		Timeout: 10 * time.Second,
//	}, tracerClient, log)
//
//	res, err := client.Request(ctx, "/api/items?limit=5&q=bicycle", httpclient.Options{})
//	if err != nil {
//		return err // transport failure, already recorded on the span
//	}
//	if res.StatusCode >= 400 {
//		return fmt.Errorf("items: %d: %s", res.StatusCode, res.Text())
//	}
//	var items []Item
//	err = res.JSON(&items)
//
// Status codes are never turned into errors here. Callers decide which codes
// are failures, typically capturing res.Text() on their own span first.
//
// The network call goes through the Fetcher interface. The default RestyFetcher
// uses go-resty over a retryablehttp pooled transport; tests substitute
// MockFetcher or an httptest server.
package httpclient

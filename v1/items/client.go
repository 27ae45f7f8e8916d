package items

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/url"

	"github.com/Aleph-Alpha/spantrace/v1/httpclient"
	"github.com/Aleph-Alpha/spantrace/v1/logger"
	"github.com/Aleph-Alpha/spantrace/v1/tracer"
)

// SearchClient queries the items service. Every search runs in its own
// "submit fetch" span with the request span nested below it.
type SearchClient struct {
	cfg         ClientConfig
	http        *httpclient.Client
	tracer      *tracer.Tracer
	logger      logger.Logger
	randomLimit func() int
}

// NewSearchClient creates a SearchClient.
func NewSearchClient(cfg ClientConfig, http *httpclient.Client, t *tracer.Tracer, log logger.Logger) *SearchClient {
	if cfg.Path == "" {
		cfg.Path = "/api/items"
	}
	if cfg.LuckyTerm == "" {
		cfg.LuckyTerm = "bicycle"
	}
	return &SearchClient{
		cfg:    cfg,
		http:   http,
		tracer: t,
		logger: log,
		// a limit between 0 and 3
		randomLimit: func() int { return rand.IntN(4) },
	}
}

// FetchItems searches for items matching q.
//
// A response status >= 400 is returned as *StatusError after the response
// body was recorded as app.responseBody. A body that is not a JSON item list
// is returned as the decoding error. On success app.resultCount and
// app.resultJson describe the result.
func (c *SearchClient) FetchItems(ctx context.Context, q Query) ([]Item, error) {
	if q.Trigger == "" {
		q.Trigger = TriggerSearch
	}

	return tracer.RunInSpan(ctx, c.tracer, SpanSubmitFetch, func(ctx context.Context, span *tracer.Span) ([]Item, error) {
		span.SetAttributes(map[string]interface{}{
			AttrFetchTrigger: q.Trigger,
			AttrSearchLimit:  q.Limit,
			AttrSearchTerm:   q.Term,
			AttrQuery:        q.Term,
			AttrLimit:        q.Limit,
		})

		res, err := c.http.Request(ctx, c.searchURL(q), httpclient.Options{})
		if err != nil {
			return nil, err
		}

		if res.StatusCode >= 400 {
			body := res.Text()
			span.SetAttribute(AttrResponseBody, body)
			return nil, &StatusError{StatusCode: res.StatusCode, Body: body}
		}

		var items []Item
		if err := res.JSON(&items); err != nil {
			return nil, err
		}
		if items == nil {
			items = []Item{}
		}

		resultJSON, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(map[string]interface{}{
			AttrResultCount: len(items),
			AttrResultJSON:  string(resultJSON),
		})

		c.logger.InfoWithContext(ctx, "items fetched", nil, map[string]interface{}{
			"trigger":      q.Trigger,
			"term":         q.Term,
			"result_count": len(items),
		})
		return items, nil
	})
}

// Lucky searches the lucky term with a random limit between 0 and 3.
func (c *SearchClient) Lucky(ctx context.Context) ([]Item, error) {
	return c.FetchItems(ctx, Query{
		Term:    c.cfg.LuckyTerm,
		Limit:   c.randomLimit(),
		Trigger: TriggerLucky,
	})
}

func (c *SearchClient) searchURL(q Query) string {
	return fmt.Sprintf("%s?limit=%d&q=%s", c.cfg.Path, q.Limit, url.QueryEscape(q.Term))
}

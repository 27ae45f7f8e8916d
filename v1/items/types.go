package items

import "context"

// Item is one search result.
type Item struct {
	Value string `json:"value"`
}

// Fetch triggers recorded as app.fetchTrigger.
const (
	TriggerSearch = "search"
	TriggerLucky  = "lucky"
)

// Query is the input of a search.
type Query struct {
	Term  string
	Limit int

	// Trigger names what started the search; defaults to TriggerSearch.
	Trigger string
}

// Span names.
const (
	SpanSubmitFetch = "submit fetch"
	SpanGetItems    = "GET /items"
)

// Span attribute keys written by the search client.
const (
	AttrFetchTrigger = "app.fetchTrigger"
	AttrSearchLimit  = "app.itemsSearch.limit"
	AttrSearchTerm   = "app.itemsSearch.term"
	AttrQuery        = "q"
	AttrLimit        = "limit"
	AttrResultCount  = "app.resultCount"
	AttrResultJSON   = "app.resultJson"
	AttrResponseBody = "app.responseBody"
)

// Store finds items matching a term.
type Store interface {
	FindItems(ctx context.Context, term string, limit int) ([]Item, error)
}

package items

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Aleph-Alpha/spantrace/v1/logger"
	"github.com/Aleph-Alpha/spantrace/v1/tracer"
)

// Handler serves item searches over HTTP. Each request continues the trace
// carried by its traceparent header, if any.
type Handler struct {
	store  Store
	tracer *tracer.Tracer
	logger logger.Logger
}

// NewHandler creates a Handler.
func NewHandler(store Store, t *tracer.Tracer, log logger.Logger) *Handler {
	return &Handler{store: store, tracer: t, logger: log}
}

// Register mounts the search routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/items", h.GetItems)
	r.GET("/api/items", h.GetItems)
}

// GetItems handles GET /items?q=<term>&limit=<n>.
//
// It answers 400 for a malformed limit, 500 when the store fails and 200 with
// a JSON list of items otherwise.
func (h *Handler) GetItems(c *gin.Context) {
	ctx := h.tracer.SetCarrierOnContext(c.Request.Context(), tracer.HeaderCarrier(c.Request.Header))

	// The outcome is already recorded on the span and in the response.
	_ = h.tracer.Run(ctx, SpanGetItems, func(ctx context.Context, span *tracer.Span) error {
		span.SetAttributes(map[string]interface{}{
			"url":    c.Request.URL.Path,
			"method": c.Request.Method,
		})

		term := c.Query("q")
		limit, err := parseLimit(c.Query("limit"))
		span.SetAttributes(map[string]interface{}{
			"searchTerm": term,
			"limit":      limit,
		})
		if err != nil {
			span.SetAttribute("response.status", http.StatusBadRequest)
			c.String(http.StatusBadRequest, "invalid limit")
			return err
		}

		found, err := h.store.FindItems(ctx, term, limit)
		if err != nil {
			span.SetAttribute("response.status", http.StatusInternalServerError)
			h.logger.ErrorWithContext(ctx, "items query failed", err, map[string]interface{}{
				"term":  term,
				"limit": limit,
			})
			c.String(http.StatusInternalServerError, "Internal server error")
			return err
		}

		span.SetAttributes(map[string]interface{}{
			"resultCount":     len(found),
			"response.status": http.StatusOK,
		})
		c.JSON(http.StatusOK, found)
		return nil
	})
}

// parseLimit accepts an empty value as 0.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, ErrInvalidLimit
	}
	return limit, nil
}

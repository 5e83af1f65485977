package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-timeline/pkg/types"
	"github.com/goliatone/go-timeline/query"
)

// Handlers exposes the two read-only feed endpoints as go-router handler
// factories. Route registration stays with the host application.
type Handlers struct {
	events   *query.EventPageQuery
	timeline *query.TimelineQuery
	logger   types.Logger
}

// NewHandlers wires the HTTP surface over the query layer.
func NewHandlers(events *query.EventPageQuery, timeline *query.TimelineQuery, logger types.Logger) *Handlers {
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &Handlers{
		events:   events,
		timeline: timeline,
		logger:   logger,
	}
}

// Events serves GET /api/events: one page of the scoped feed with side-loaded
// persons. Query parameters: customer_org_id, account_id (required), page,
// page_size, date (optional, YYYY-MM-DD, navigates to that day).
func (h *Handlers) Events() router.HandlerFunc {
	return func(c router.Context) error {
		filter := types.EventPageFilter{
			Scope:    scopeFromQuery(c),
			Page:     queryInt(c, "page", 1),
			PageSize: queryInt(c, "page_size", 50),
		}
		if raw := c.Query("date", ""); raw != "" {
			// Malformed dates are ignored rather than rejected.
			if date, err := time.Parse(types.DateLayout, raw); err == nil {
				filter.Date = &date
			}
		}

		page, err := h.events.Query(c.Context(), filter)
		if err != nil {
			return h.fail(c, err)
		}
		return writeJSON(c, http.StatusOK, BuildEventsResponse(page))
	}
}

// Timeline serves GET /api/timeline: daily inbound counts plus
// first-touchpoint markers for the minimap. Query parameters:
// customer_org_id, account_id (required).
func (h *Handlers) Timeline() router.HandlerFunc {
	return func(c router.Context) error {
		data, err := h.timeline.Query(c.Context(), types.TimelineFilter{
			Scope: scopeFromQuery(c),
		})
		if err != nil {
			return h.fail(c, err)
		}
		return writeJSON(c, http.StatusOK, BuildTimelineResponse(data))
	}
}

func (h *Handlers) fail(c router.Context, err error) error {
	status := http.StatusInternalServerError
	var rich *goerrors.Error
	if errors.As(err, &rich) && rich.Category == goerrors.CategoryValidation {
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("timeline request failed", err)
	}
	return writeJSON(c, status, ErrorResponse{Error: err.Error()})
}

func scopeFromQuery(c router.Context) types.Scope {
	return types.Scope{
		OrgID:     c.Query("customer_org_id", ""),
		AccountID: c.Query("account_id", ""),
	}
}

func queryInt(c router.Context, key string, def int) int {
	raw := c.Query(key, "")
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}

func writeJSON(c router.Context, status int, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return c.Status(http.StatusInternalServerError).SendString("failed to marshal JSON")
	}
	c.SetHeader("Content-Type", "application/json")
	return c.Status(status).Send(data)
}

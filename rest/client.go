package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-timeline/pkg/types"
)

// Client consumes the feed endpoints over HTTP. It satisfies
// types.EventRepository, so the feed controller can run against a remote
// server exactly as it runs against a local store.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger types.Logger
}

var _ types.EventRepository = (*Client)(nil)

// ClientOption tweaks the HTTP client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying http.Client, e.g. to install
// timeouts or instrumented transports.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithClientLogger wires the client logger.
func WithClientLogger(logger types.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a client rooted at baseURL (e.g. "http://host:8978/api").
func NewClient(baseURL string, options ...ClientOption) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("rest: invalid base url: %w", err)
	}
	client := &Client{
		base:   base,
		http:   http.DefaultClient,
		logger: types.NopLogger{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// FetchPage implements types.EventRepository over GET /events.
func (c *Client) FetchPage(ctx context.Context, filter types.EventPageFilter) (types.EventPage, error) {
	if err := filter.Validate(); err != nil {
		return types.EventPage{}, err
	}
	params := url.Values{}
	params.Set("customer_org_id", filter.Scope.OrgID)
	params.Set("account_id", filter.Scope.AccountID)
	params.Set("page_size", strconv.Itoa(filter.PageSize))
	if filter.Page > 0 {
		params.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Date != nil {
		params.Set("date", types.DateOf(*filter.Date))
	}

	var body EventsResponse
	if err := c.get(ctx, "events", params, &body); err != nil {
		return types.EventPage{}, err
	}
	return parseEventsResponse(body)
}

// ComputeTimeline implements types.EventRepository over GET /timeline.
func (c *Client) ComputeTimeline(ctx context.Context, filter types.TimelineFilter) (types.TimelineData, error) {
	if err := filter.Validate(); err != nil {
		return types.TimelineData{}, err
	}
	params := url.Values{}
	params.Set("customer_org_id", filter.Scope.OrgID)
	params.Set("account_id", filter.Scope.AccountID)

	var body TimelineResponse
	if err := c.get(ctx, "timeline", params, &body); err != nil {
		return types.TimelineData{}, err
	}
	return parseTimelineResponse(body)
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	target := c.base.JoinPath(path)
	target.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "feed request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "feed response malformed")
	}
	return nil
}

func (c *Client) statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload ErrorResponse
	message := resp.Status
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	}
	category := goerrors.CategoryExternal
	code := goerrors.CodeInternal
	if resp.StatusCode == http.StatusBadRequest {
		category = goerrors.CategoryValidation
		code = goerrors.CodeBadRequest
	}
	return goerrors.New(message, category).WithCode(code)
}

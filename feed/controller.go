package feed

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-timeline/pkg/types"
)

// State names the scroll pagination machine's position. Loading states differ
// by merge semantics: LoadingInitial and Navigating replace the row list,
// LoadingMore appends to it.
type State string

const (
	StateIdle           State = "idle"
	StateLoadingInitial State = "loading_initial"
	StateReady          State = "ready"
	StateLoadingMore    State = "loading_more"
	StateNavigating     State = "navigating"
	StateError          State = "error"
)

// DefaultPageSize matches the server-side feed default.
const DefaultPageSize = 50

// PageFetcher is the upstream the controller pulls pages from; both the Bun
// store and the REST client satisfy it.
type PageFetcher interface {
	FetchPage(ctx context.Context, filter types.EventPageFilter) (types.EventPage, error)
}

// Config wires the controller.
type Config struct {
	Fetcher  PageFetcher
	Scope    types.Scope
	PageSize int
	Logger   types.Logger
}

// Controller owns the client's in-memory row list and drives fetches against
// the event store. State transitions are serialized by a mutex, but fetch
// completions can interleave arbitrarily; every fetch carries a sequence
// number and completions that are no longer the latest issued are discarded
// before they can touch state. That is what prevents a slow "load more"
// response from appending rows after a navigation already replaced the list.
type Controller struct {
	mu       sync.Mutex
	fetcher  PageFetcher
	scope    types.Scope
	pageSize int
	logger   types.Logger

	state    State
	rows     []types.Event
	persons  map[string]types.Person
	page     int
	hasNext  bool
	err      error
	seq      uint64
	lastReq  types.EventPageFilter
	lastMode mergeMode

	onChange func()
}

type mergeMode int

const (
	mergeReplace mergeMode = iota
	mergeAppend
)

// NewController builds an idle controller. PageSize defaults to 50.
func NewController(cfg Config) *Controller {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &Controller{
		fetcher:  cfg.Fetcher,
		scope:    cfg.Scope,
		pageSize: pageSize,
		logger:   logger,
		state:    StateIdle,
		persons:  map[string]types.Person{},
	}
}

// OnChange registers the callback invoked after every loaded-list mutation.
// The range sync coordinator hangs off this hook.
func (c *Controller) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// LoadInitial fetches the first page, replacing whatever is loaded.
func (c *Controller) LoadInitial(ctx context.Context) error {
	filter := types.EventPageFilter{
		Scope:    c.scope,
		Page:     1,
		PageSize: c.pageSize,
	}
	return c.issue(ctx, StateLoadingInitial, mergeReplace, filter)
}

// LoadMore appends the next page. It is a no-op unless the controller is
// Ready with more pages available; the scroll threshold trigger can therefore
// call it unconditionally.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateReady || !c.hasNext {
		c.mu.Unlock()
		return nil
	}
	filter := types.EventPageFilter{
		Scope:    c.scope,
		Page:     c.page + 1,
		PageSize: c.pageSize,
	}
	c.mu.Unlock()
	return c.issue(ctx, StateLoadingMore, mergeAppend, filter)
}

// NavigateToDate jumps the feed to the page containing the given calendar
// day, replacing the row list. It supersedes any in-flight load: the older
// fetch's completion will carry a stale sequence number and be dropped.
func (c *Controller) NavigateToDate(ctx context.Context, date time.Time) error {
	filter := types.EventPageFilter{
		Scope:    c.scope,
		PageSize: c.pageSize,
		Date:     &date,
	}
	return c.issue(ctx, StateNavigating, mergeReplace, filter)
}

// Retry re-issues the request that last failed. The controller never retries
// on its own; retry is a caller-initiated action.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateError {
		c.mu.Unlock()
		return nil
	}
	filter := c.lastReq
	mode := c.lastMode
	c.mu.Unlock()

	loading := StateLoadingInitial
	if mode == mergeAppend {
		loading = StateLoadingMore
	}
	return c.issue(ctx, loading, mode, filter)
}

// issue tags the fetch with the next sequence number, flips the loading
// state, runs the fetch without holding the lock, and merges only if the
// response is still the latest issued.
func (c *Controller) issue(ctx context.Context, loading State, mode mergeMode, filter types.EventPageFilter) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state = loading
	c.err = nil
	c.lastReq = filter
	c.lastMode = mode
	c.mu.Unlock()

	page, err := c.fetcher.FetchPage(ctx, filter)
	return c.complete(seq, mode, page, err)
}

func (c *Controller) complete(seq uint64, mode mergeMode, page types.EventPage, err error) error {
	c.mu.Lock()
	if seq != c.seq {
		// A newer request superseded this one; its outcome is void.
		c.mu.Unlock()
		c.logger.Debug("stale response discarded", "seq", seq)
		return nil
	}
	if err != nil {
		c.state = StateError
		c.err = err
		c.mu.Unlock()
		c.logger.Error("feed fetch failed", err)
		return err
	}

	if mode == mergeAppend {
		c.rows = append(c.rows, page.Events...)
		for id, person := range page.Persons {
			c.persons[id] = person
		}
	} else {
		c.rows = append([]types.Event(nil), page.Events...)
		c.persons = make(map[string]types.Person, len(page.Persons))
		for id, person := range page.Persons {
			c.persons[id] = person
		}
	}
	c.page = page.Page
	c.hasNext = page.HasNext
	c.state = StateReady
	notify := c.onChange
	c.mu.Unlock()

	if notify != nil {
		notify()
	}
	return nil
}

// State reports the machine's current position.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Rows returns a copy of the accumulated row list. The controller alone owns
// the backing slice.
func (c *Controller) Rows() []types.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.Event(nil), c.rows...)
}

// Persons returns a copy of the accumulated side-loaded person mapping.
func (c *Controller) Persons() map[string]types.Person {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]types.Person, len(c.persons))
	for id, person := range c.persons {
		out[id] = person
	}
	return out
}

// HasNext reports whether more pages remain.
func (c *Controller) HasNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasNext
}

// IsLoadingInitial reports whether the first page is in flight.
func (c *Controller) IsLoadingInitial() bool {
	return c.State() == StateLoadingInitial
}

// IsLoadingMore reports whether an append fetch is in flight.
func (c *Controller) IsLoadingMore() bool {
	return c.State() == StateLoadingMore
}

// Err returns the failure that moved the machine into StateError, if any.
// Previously loaded rows are retained across failures.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

package rangesync

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-timeline/pkg/types"
)

// VisibleRange is the date span covered by the rows currently held in the
// client's loaded list, not the full dataset. Start is never after End.
type VisibleRange struct {
	Start string
	End   string
}

// RowSource exposes the accumulated row list; the feed controller satisfies
// it. The coordinator only reads.
type RowSource interface {
	Rows() []types.Event
}

// Navigator accepts date navigation requests; the feed controller satisfies
// it.
type Navigator interface {
	NavigateToDate(ctx context.Context, date time.Time) error
}

// Coordinator derives the visible date window from the loaded rows and
// propagates it to the minimap overlay, while forwarding chart clicks back to
// the pagination controller. Wire Recompute into the controller's OnChange
// hook.
type Coordinator struct {
	mu      sync.Mutex
	source  RowSource
	nav     Navigator
	onRange func(start, end string)
	pending *time.Time
	visible *VisibleRange
}

// New builds a coordinator over the given row source and navigator.
func New(source RowSource, nav Navigator) *Coordinator {
	return &Coordinator{source: source, nav: nav}
}

// OnRangeChanged registers the overlay callback. Each emission is
// authoritative; consumers treat a repeated range as a visual no-op.
func (c *Coordinator) OnRangeChanged(fn func(start, end string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRange = fn
}

// RequestNavigation forwards a chart click to the pagination controller. The
// request is one-shot: the recompute that follows the navigation's replace
// consumes it, so a completed navigation's own range-changed emission can
// never be misread as a new click.
func (c *Coordinator) RequestNavigation(ctx context.Context, date time.Time) error {
	c.mu.Lock()
	c.pending = &date
	nav := c.nav
	c.mu.Unlock()
	if nav == nil {
		return nil
	}
	return nav.NavigateToDate(ctx, date)
}

// PendingNavigation reports whether a forwarded click has not yet been
// consumed by a loaded-list mutation.
func (c *Coordinator) PendingNavigation() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// Recompute rederives the visible range from the whole accumulated row list
// and emits it. Called once per loaded-list mutation: initial load, append,
// or navigation replace. An empty list clears the range without emitting.
func (c *Coordinator) Recompute() {
	rows := c.source.Rows()

	c.mu.Lock()
	c.pending = nil
	if len(rows) == 0 {
		c.visible = nil
		c.mu.Unlock()
		return
	}

	min := rows[0].Timestamp
	max := rows[0].Timestamp
	for _, row := range rows[1:] {
		if row.Timestamp.Before(min) {
			min = row.Timestamp
		}
		if row.Timestamp.After(max) {
			max = row.Timestamp
		}
	}
	visible := VisibleRange{
		Start: types.DateOf(min),
		End:   types.DateOf(max),
	}
	c.visible = &visible
	emit := c.onRange
	c.mu.Unlock()

	if emit != nil {
		emit(visible.Start, visible.End)
	}
}

// Visible returns the current range, when one is loaded.
func (c *Coordinator) Visible() (VisibleRange, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.visible == nil {
		return VisibleRange{}, false
	}
	return *c.visible, true
}

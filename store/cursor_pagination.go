package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// EventCursor marks a resume point within the (timestamp, id) total order of
// a scoped feed.
type EventCursor struct {
	Timestamp time.Time
	ID        uuid.UUID
}

// ApplyFeedOrdering installs the canonical feed ordering, timestamp DESC
// then id DESC, with an optional row limit. Page selection layers an offset
// on top of this ordering.
func ApplyFeedOrdering(q *bun.SelectQuery, limit int) *bun.SelectQuery {
	if q == nil {
		return nil
	}
	q = q.OrderExpr("timestamp DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

// ApplyCursorScan installs the ascending order used by full-dataset
// aggregation, timestamp ASC then id ASC, resuming strictly after the
// supplied cursor. A nil or zero cursor leaves the full feed in place.
func ApplyCursorScan(q *bun.SelectQuery, cursor *EventCursor, limit int) *bun.SelectQuery {
	if q == nil {
		return nil
	}
	q = q.OrderExpr("timestamp ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if cursor == nil || cursor.Timestamp.IsZero() {
		return q
	}
	if cursor.ID == uuid.Nil {
		return q.Where("timestamp > ?", cursor.Timestamp)
	}
	return q.Where("(timestamp > ?) OR (timestamp = ? AND id > ?)", cursor.Timestamp, cursor.Timestamp, cursor.ID)
}

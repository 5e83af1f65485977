package store

import (
	"context"
	"errors"

	"github.com/goliatone/go-timeline/pkg/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// touchpointScanBatch bounds memory while walking the full scoped dataset.
const touchpointScanBatch = 500

// ComputeTimeline aggregates the entire scoped dataset, independent of
// pagination state: daily inbound counts for the minimap line plus the first
// touchpoint per referenced person. Days without inbound events are omitted.
func (r *Repository) ComputeTimeline(ctx context.Context, filter types.TimelineFilter) (types.TimelineData, error) {
	if err := filter.Validate(); err != nil {
		return types.TimelineData{}, err
	}
	if r.db == nil {
		return types.TimelineData{}, errors.New("store: timeline aggregation requires bun DB")
	}

	buckets, err := r.inboundBuckets(ctx, filter.Scope)
	if err != nil {
		return types.TimelineData{}, err
	}
	touchpoints, err := r.firstTouchpoints(ctx, filter.Scope)
	if err != nil {
		return types.TimelineData{}, err
	}
	return types.TimelineData{
		Buckets:     buckets,
		Touchpoints: touchpoints,
	}, nil
}

func (r *Repository) inboundBuckets(ctx context.Context, scope types.Scope) ([]types.TimelineBucket, error) {
	expr := utcDateExpr(r.db)
	query := applyScope(r.db.NewSelect().Model((*EventRow)(nil)), scope).
		ColumnExpr(expr+" AS date").
		ColumnExpr("COUNT(*) AS count").
		Where("direction = ?", types.DirectionIn).
		GroupExpr(expr).
		OrderExpr("date ASC")

	type row struct {
		Date  string `bun:"date"`
		Count int    `bun:"count"`
	}
	var rows []row
	if err := query.Scan(ctx, &rows); err != nil {
		return nil, err
	}
	buckets := make([]types.TimelineBucket, 0, len(rows))
	for _, rec := range rows {
		buckets = append(buckets, types.TimelineBucket{Date: rec.Date, Count: rec.Count})
	}
	return buckets, nil
}

// firstTouchpoints walks the scoped dataset ascending by (timestamp, id) in
// bounded batches; the first event mentioning a person wins. Any direction
// counts, so a person whose first contact was outbound still gets a marker.
func (r *Repository) firstTouchpoints(ctx context.Context, scope types.Scope) ([]types.FirstTouchpoint, error) {
	seen := make(map[string]struct{})
	touchpoints := make([]types.FirstTouchpoint, 0)

	var cursor *EventCursor
	for {
		var rows []*EventRow
		q := applyScope(r.db.NewSelect().Model(&rows), scope)
		q = ApplyCursorScan(q, cursor, touchpointScanBatch)
		if err := q.Scan(ctx); err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			break
		}
		for _, row := range rows {
			for _, ref := range row.PersonRefs {
				if _, ok := seen[ref]; ok {
					continue
				}
				seen[ref] = struct{}{}
				touchpoints = append(touchpoints, types.FirstTouchpoint{
					PersonID:  ref,
					Date:      types.DateOf(row.Timestamp),
					Timestamp: row.Timestamp,
				})
			}
		}
		last := rows[len(rows)-1]
		cursor = &EventCursor{Timestamp: last.Timestamp, ID: last.ID}
		if len(rows) < touchpointScanBatch {
			break
		}
	}
	return touchpoints, nil
}

// utcDateExpr yields the dialect-specific expression for an event's UTC
// calendar date. Timestamps are stored in UTC.
func utcDateExpr(db *bun.DB) string {
	switch db.Dialect().Name() {
	case dialect.PG:
		return "to_char(timestamp AT TIME ZONE 'UTC', 'YYYY-MM-DD')"
	default:
		return "date(timestamp)"
	}
}

package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-timeline/pkg/types"
	"github.com/goliatone/go-timeline/scope"
)

// TimelineQuery aggregates the full scoped dataset for the minimap chart. It
// runs once per view load; per-session caching is handled by the repository
// cache decorator, not here.
type TimelineQuery struct {
	repo  types.EventRepository
	guard scope.Guard
	opts  queryOptions
}

// NewTimelineQuery constructs the aggregation query helper.
func NewTimelineQuery(repo types.EventRepository, guard scope.Guard, options ...Option) *TimelineQuery {
	return &TimelineQuery{
		repo:  repo,
		guard: scope.Ensure(guard),
		opts:  applyOptions(options),
	}
}

var _ gocommand.Querier[types.TimelineFilter, types.TimelineData] = (*TimelineQuery)(nil)

// Query computes daily inbound buckets plus first-touchpoint markers.
func (q *TimelineQuery) Query(ctx context.Context, filter types.TimelineFilter) (types.TimelineData, error) {
	if q.repo == nil {
		return types.TimelineData{}, types.ErrMissingEventRepository
	}
	scoped, err := q.guard.Enforce(ctx, filter.Scope)
	if err != nil {
		return types.TimelineData{}, invalidScope(err)
	}
	filter.Scope = scoped
	return q.repo.ComputeTimeline(ctx, filter)
}

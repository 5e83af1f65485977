package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-timeline/pkg/types"
	"github.com/goliatone/go-timeline/scope"
	"github.com/goliatone/go-timeline/store"
)

// FeatureContactDetails gates whether side-loaded person contact fields are
// exposed unmasked. A nil gate means enabled.
const FeatureContactDetails = "timeline.contact_details"

// EventPageQuery serves paginated feed pages for the scrolling event list.
type EventPageQuery struct {
	repo  types.EventRepository
	guard scope.Guard
	opts  queryOptions
}

// NewEventPageQuery constructs the feed page query helper.
func NewEventPageQuery(repo types.EventRepository, guard scope.Guard, options ...Option) *EventPageQuery {
	return &EventPageQuery{
		repo:  repo,
		guard: scope.Ensure(guard),
		opts:  applyOptions(options),
	}
}

var _ gocommand.Querier[types.EventPageFilter, types.EventPage] = (*EventPageQuery)(nil)

// Query fetches one page of the scoped feed via the injected repository,
// masking contact details when the feature gate is off for the scope.
func (q *EventPageQuery) Query(ctx context.Context, filter types.EventPageFilter) (types.EventPage, error) {
	if q.repo == nil {
		return types.EventPage{}, types.ErrMissingEventRepository
	}
	scoped, err := q.guard.Enforce(ctx, filter.Scope)
	if err != nil {
		return types.EventPage{}, invalidScope(err)
	}
	filter.Scope = scoped
	if err := filter.Validate(); err != nil {
		return types.EventPage{}, invalidFilter(err)
	}

	page, err := q.repo.FetchPage(ctx, filter)
	if err != nil {
		return types.EventPage{}, err
	}

	enabled, err := featureEnabled(ctx, q.opts.gate, FeatureContactDetails, filter.Scope)
	if err != nil {
		q.opts.logger.Error("feature gate lookup failed, masking contacts", err, "feature", FeatureContactDetails)
		enabled = false
	}
	if !enabled {
		page.Persons = store.SanitizePersons(q.opts.masker, page.Persons)
	}
	return page, nil
}

func featureEnabled(ctx context.Context, gate featuregate.FeatureGate, key string, sc types.Scope) (bool, error) {
	if gate == nil {
		return true, nil
	}
	scopeSet := featureScopeSet(sc)
	if scopeSet == nil {
		return gate.Enabled(ctx, key)
	}
	return gate.Enabled(ctx, key, featuregate.WithScopeSet(*scopeSet))
}

func featureScopeSet(sc types.Scope) *featuregate.ScopeSet {
	if sc.OrgID == "" && sc.AccountID == "" {
		return nil
	}
	return &featuregate.ScopeSet{
		System:   true,
		TenantID: sc.OrgID,
		OrgID:    sc.AccountID,
	}
}

func invalidScope(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid timeline scope").
		WithCode(goerrors.CodeBadRequest)
}

func invalidFilter(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid feed filter").
		WithCode(goerrors.CodeBadRequest)
}

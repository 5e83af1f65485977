package query

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-timeline/pkg/types"
	"github.com/goliatone/go-timeline/scope"
	"github.com/stretchr/testify/require"
)

var testScope = types.Scope{OrgID: "org-1", AccountID: "acct-1"}

func TestEventPageQuery_DelegatesToRepository(t *testing.T) {
	repo := &recordingRepo{
		page: types.EventPage{
			Events:     []types.Event{{TouchpointID: "tp-1", Timestamp: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)}},
			Page:       1,
			TotalPages: 1,
			TotalCount: 1,
		},
	}
	q := NewEventPageQuery(repo, nil)

	page, err := q.Query(context.Background(), types.EventPageFilter{Scope: testScope, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, repo.page, page)
	require.Equal(t, testScope, repo.lastPageFilter.Scope)
}

func TestEventPageQuery_RejectsMissingScope(t *testing.T) {
	q := NewEventPageQuery(&recordingRepo{}, nil)

	_, err := q.Query(context.Background(), types.EventPageFilter{Page: 1, PageSize: 10})
	require.Error(t, err)

	var richErr *goerrors.Error
	require.ErrorAs(t, err, &richErr)
	require.Equal(t, goerrors.CategoryValidation, richErr.Category)
	require.ErrorIs(t, err, types.ErrScopeRequired)
}

func TestEventPageQuery_RejectsInvalidPageSize(t *testing.T) {
	q := NewEventPageQuery(&recordingRepo{}, nil)

	_, err := q.Query(context.Background(), types.EventPageFilter{Scope: testScope, Page: 1})
	require.Error(t, err)

	var richErr *goerrors.Error
	require.ErrorAs(t, err, &richErr)
	require.Equal(t, goerrors.CategoryValidation, richErr.Category)
}

func TestEventPageQuery_TrimsScope(t *testing.T) {
	repo := &recordingRepo{}
	q := NewEventPageQuery(repo, nil)

	_, err := q.Query(context.Background(), types.EventPageFilter{
		Scope:    types.Scope{OrgID: "  org-1  ", AccountID: " acct-1 "},
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Equal(t, testScope, repo.lastPageFilter.Scope)
}

func TestEventPageQuery_ResolverRewritesScope(t *testing.T) {
	repo := &recordingRepo{}
	resolver := scopeResolverFunc(func(_ context.Context, requested types.Scope) (types.Scope, error) {
		return types.Scope{OrgID: "canonical-" + requested.OrgID, AccountID: requested.AccountID}, nil
	})
	q := NewEventPageQuery(repo, scope.NewGuard(resolver))

	_, err := q.Query(context.Background(), types.EventPageFilter{Scope: testScope, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, "canonical-org-1", repo.lastPageFilter.Scope.OrgID)
}

func TestEventPageQuery_MasksContactsWhenGateOff(t *testing.T) {
	repo := &recordingRepo{
		page: types.EventPage{
			Persons: map[string]types.Person{
				"p1": {ID: "p1", FirstName: "Ada", Email: "ada@acme.test", JobTitle: "CTO"},
			},
		},
	}
	gate := &stubFeatureGate{enabled: false}
	q := NewEventPageQuery(repo, nil, WithFeatureGate(gate))

	page, err := q.Query(context.Background(), types.EventPageFilter{Scope: testScope, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, []string{FeatureContactDetails}, gate.keys)
	require.Equal(t, "Ada", page.Persons["p1"].FirstName)
	require.NotEqual(t, "ada@acme.test", page.Persons["p1"].Email)
}

func TestEventPageQuery_KeepsContactsWhenGateOn(t *testing.T) {
	repo := &recordingRepo{
		page: types.EventPage{
			Persons: map[string]types.Person{
				"p1": {ID: "p1", Email: "ada@acme.test"},
			},
		},
	}
	q := NewEventPageQuery(repo, nil, WithFeatureGate(&stubFeatureGate{enabled: true}))

	page, err := q.Query(context.Background(), types.EventPageFilter{Scope: testScope, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, "ada@acme.test", page.Persons["p1"].Email)
}

func TestEventPageQuery_GateErrorMasksContacts(t *testing.T) {
	repo := &recordingRepo{
		page: types.EventPage{
			Persons: map[string]types.Person{
				"p1": {ID: "p1", Email: "ada@acme.test"},
			},
		},
	}
	gate := &stubFeatureGate{err: errors.New("gate backend down")}
	q := NewEventPageQuery(repo, nil, WithFeatureGate(gate))

	page, err := q.Query(context.Background(), types.EventPageFilter{Scope: testScope, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.NotEqual(t, "ada@acme.test", page.Persons["p1"].Email)
}

func TestEventPageQuery_MissingRepository(t *testing.T) {
	q := NewEventPageQuery(nil, nil)

	_, err := q.Query(context.Background(), types.EventPageFilter{Scope: testScope, Page: 1, PageSize: 10})
	require.ErrorIs(t, err, types.ErrMissingEventRepository)
}

type recordingRepo struct {
	page            types.EventPage
	pageErr         error
	timeline        types.TimelineData
	timelineErr     error
	lastPageFilter  types.EventPageFilter
	lastTimelineReq types.TimelineFilter
}

func (r *recordingRepo) FetchPage(_ context.Context, filter types.EventPageFilter) (types.EventPage, error) {
	r.lastPageFilter = filter
	if r.pageErr != nil {
		return types.EventPage{}, r.pageErr
	}
	return r.page, nil
}

func (r *recordingRepo) ComputeTimeline(_ context.Context, filter types.TimelineFilter) (types.TimelineData, error) {
	r.lastTimelineReq = filter
	if r.timelineErr != nil {
		return types.TimelineData{}, r.timelineErr
	}
	return r.timeline, nil
}

type scopeResolverFunc func(ctx context.Context, requested types.Scope) (types.Scope, error)

func (f scopeResolverFunc) ResolveScope(ctx context.Context, requested types.Scope) (types.Scope, error) {
	return f(ctx, requested)
}

type stubFeatureGate struct {
	enabled bool
	err     error
	keys    []string
}

func (s *stubFeatureGate) Enabled(_ context.Context, key string, _ ...featuregate.ResolveOption) (bool, error) {
	s.keys = append(s.keys, key)
	if s.err != nil {
		return false, s.err
	}
	return s.enabled, nil
}

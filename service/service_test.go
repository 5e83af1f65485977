package service

import (
	"context"
	"testing"

	"github.com/goliatone/go-timeline/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestNew_WiresQueriesOverInjectedRepository(t *testing.T) {
	repo := &fakeRepo{page: types.EventPage{Page: 1, TotalPages: 1}}

	svc, err := New(Config{Repository: repo})
	require.NoError(t, err)
	require.NotNil(t, svc.Queries().EventPage)
	require.NotNil(t, svc.Queries().Timeline)
	require.Same(t, repo, svc.Repository().(*fakeRepo))

	page, err := svc.Queries().EventPage.Query(context.Background(), types.EventPageFilter{
		Scope:    types.Scope{OrgID: "org-1", AccountID: "acct-1"},
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Equal(t, repo.page, page)
}

func TestNew_RequiresDBOrRepository(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

type fakeRepo struct {
	page types.EventPage
	data types.TimelineData
}

func (f *fakeRepo) FetchPage(context.Context, types.EventPageFilter) (types.EventPage, error) {
	return f.page, nil
}

func (f *fakeRepo) ComputeTimeline(context.Context, types.TimelineFilter) (types.TimelineData, error) {
	return f.data, nil
}

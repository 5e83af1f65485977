package rangesync

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-timeline/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_VisibleRangeFromRows(t *testing.T) {
	source := &stubSource{rows: []types.Event{
		{Timestamp: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)},
		{Timestamp: time.Date(2024, 1, 12, 9, 0, 0, 0, time.UTC)},
		{Timestamp: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)},
	}}
	coord := New(source, nil)

	coord.Recompute()

	visible, ok := coord.Visible()
	require.True(t, ok)
	require.Equal(t, VisibleRange{Start: "2024-01-10", End: "2024-01-15"}, visible)
}

func TestCoordinator_EmitsOncePerMutation(t *testing.T) {
	source := &stubSource{rows: []types.Event{
		{Timestamp: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)},
	}}
	coord := New(source, nil)

	var emitted []VisibleRange
	coord.OnRangeChanged(func(start, end string) {
		emitted = append(emitted, VisibleRange{Start: start, End: end})
	})

	coord.Recompute()
	source.rows = append(source.rows, types.Event{Timestamp: time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC)})
	coord.Recompute()

	require.Equal(t, []VisibleRange{
		{Start: "2024-01-15", End: "2024-01-15"},
		{Start: "2024-01-11", End: "2024-01-15"},
	}, emitted)
}

func TestCoordinator_EmptyRowsClearWithoutEmitting(t *testing.T) {
	source := &stubSource{rows: []types.Event{
		{Timestamp: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)},
	}}
	coord := New(source, nil)
	coord.Recompute()

	emissions := 0
	coord.OnRangeChanged(func(string, string) { emissions++ })

	source.rows = nil
	coord.Recompute()

	_, ok := coord.Visible()
	require.False(t, ok)
	require.Equal(t, 0, emissions)
}

func TestCoordinator_NavigationIsOneShot(t *testing.T) {
	source := &stubSource{}
	nav := &stubNavigator{}
	coord := New(source, nav)

	target := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, coord.RequestNavigation(context.Background(), target))
	require.True(t, coord.PendingNavigation())
	require.Len(t, nav.targets, 1)
	require.True(t, nav.targets[0].Equal(target))

	// The mutation that follows the navigation consumes the request
	source.rows = []types.Event{{Timestamp: target}}
	coord.Recompute()
	require.False(t, coord.PendingNavigation())
}

func TestCoordinator_NilNavigator(t *testing.T) {
	coord := New(&stubSource{}, nil)
	require.NoError(t, coord.RequestNavigation(context.Background(), time.Now()))
}

type stubSource struct {
	rows []types.Event
}

func (s *stubSource) Rows() []types.Event { return s.rows }

type stubNavigator struct {
	targets []time.Time
}

func (s *stubNavigator) NavigateToDate(_ context.Context, date time.Time) error {
	s.targets = append(s.targets, date)
	return nil
}

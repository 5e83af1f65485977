package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/goliatone/go-timeline/pkg/types"
)

// TestProperty_PageConcatenation validates that concatenating every page of a
// scoped feed, in fetch order, reconstructs the full descending sequence with
// no duplicate and no missing event, for arbitrary dataset and page sizes.
func TestProperty_PageConcatenation(t *testing.T) {
	ctx := context.Background()
	db := newTestTimelineDB(t)
	applyTimelineDDL(t, db)

	repo, err := NewRepository(RepositoryConfig{DB: db})
	if err != nil {
		t.Fatal(err)
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	// Each run seeds its own scope so datasets never interfere
	run := 0

	properties.Property("all pages concatenate to the full descending feed", prop.ForAll(
		func(total, pageSize, hourStep int) bool {
			run++
			scope := types.Scope{
				OrgID:     fmt.Sprintf("org-prop-%d", run),
				AccountID: "acct-prop",
			}

			base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			inserted := make([]uuid.UUID, 0, total)
			for i := 0; i < total; i++ {
				id := uuid.New()
				inserted = append(inserted, id)
				if err := repo.Ingest(ctx, scope, types.Event{
					ID:           id,
					TouchpointID: fmt.Sprintf("tp-%d", i),
					Timestamp:    base.Add(time.Duration(i*hourStep) * time.Hour),
					Direction:    types.DirectionIn,
				}); err != nil {
					return false
				}
			}

			var all []types.Event
			for pageNum := 1; ; pageNum++ {
				page, err := repo.FetchPage(ctx, types.EventPageFilter{
					Scope:    scope,
					Page:     pageNum,
					PageSize: pageSize,
				})
				if err != nil {
					return false
				}
				all = append(all, page.Events...)
				if !page.HasNext {
					break
				}
			}

			if len(all) != total {
				return false
			}
			seen := make(map[uuid.UUID]struct{}, total)
			for i, event := range all {
				if i > 0 {
					prev := all[i-1]
					older := event.Timestamp.Before(prev.Timestamp)
					tieBroken := event.Timestamp.Equal(prev.Timestamp) && event.ID.String() < prev.ID.String()
					if !older && !tieBroken {
						return false
					}
				}
				if _, dup := seen[event.ID]; dup {
					return false
				}
				seen[event.ID] = struct{}{}
			}
			for _, id := range inserted {
				if _, ok := seen[id]; !ok {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 40),
		gen.IntRange(1, 7),
		// hourStep 0 forces identical timestamps so the id tie-break is hit
		gen.IntRange(0, 30),
	))

	properties.TestingRun(t)
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-timeline/pkg/types"
	"github.com/goliatone/go-timeline/store"
	"github.com/google/uuid"
)

var demoScope = types.Scope{
	OrgID:     "org-demo",
	AccountID: "acct-acme",
}

var demoPersons = []types.Person{
	{ID: "person-ada", FirstName: "Ada", LastName: "Lovelace", Email: "ada@acme.test", JobTitle: "CTO"},
	{ID: "person-grace", FirstName: "Grace", LastName: "Hopper", Email: "grace@acme.test", JobTitle: "VP Engineering"},
	{ID: "person-alan", FirstName: "Alan", LastName: "Turing", Email: "alan@acme.test", JobTitle: "Research Lead"},
}

type demoEvent struct {
	daysAgo    int
	direction  string
	channel    string
	activity   string
	status     string
	personRefs []string
	campaign   string
}

var demoEvents = []demoEvent{
	{daysAgo: 90, direction: types.DirectionOut, channel: "email", activity: "sequence_sent", status: "delivered", personRefs: []string{"person-ada"}, campaign: "Spring Outreach"},
	{daysAgo: 88, direction: types.DirectionIn, channel: "email", activity: "reply", status: "received", personRefs: []string{"person-ada"}},
	{daysAgo: 60, direction: types.DirectionOut, channel: "call", activity: "call_logged", status: "completed", personRefs: []string{"person-grace"}},
	{daysAgo: 59, direction: types.DirectionIn, channel: "call", activity: "call_back", status: "completed", personRefs: []string{"person-grace"}},
	{daysAgo: 30, direction: types.DirectionIn, channel: "web", activity: "form_submission", status: "received", personRefs: []string{"person-alan"}},
	{daysAgo: 12, direction: types.DirectionOut, channel: "email", activity: "sequence_sent", status: "delivered", personRefs: []string{"person-ada", "person-grace"}, campaign: "Renewal Push"},
	{daysAgo: 11, direction: types.DirectionIn, channel: "email", activity: "reply", status: "received", personRefs: []string{"person-grace"}},
	{daysAgo: 2, direction: types.DirectionIn, channel: "meeting", activity: "meeting_held", status: "completed", personRefs: []string{"person-ada", "person-alan"}},
}

// seedDemoActivity loads a small scoped dataset so the /api endpoints return
// something useful on a fresh database. Skipped when events already exist.
func seedDemoActivity(ctx context.Context, app *App) error {
	count, err := app.bunDB.NewSelect().
		Model((*store.EventRow)(nil)).
		Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	ingester, ok := app.timeline.Repository().(interface {
		Ingest(ctx context.Context, scope types.Scope, event types.Event) error
		IngestPerson(ctx context.Context, orgID string, person types.Person) error
	})
	if !ok {
		return fmt.Errorf("seed: repository does not support ingestion")
	}

	for _, person := range demoPersons {
		if err := ingester.IngestPerson(ctx, demoScope.OrgID, person); err != nil {
			return fmt.Errorf("seed person %s: %w", person.ID, err)
		}
	}

	now := time.Now().UTC()
	for i, entry := range demoEvents {
		event := types.Event{
			ID:           uuid.New(),
			TouchpointID: fmt.Sprintf("tp-%03d", i+1),
			Timestamp:    now.AddDate(0, 0, -entry.daysAgo),
			Direction:    entry.direction,
			Channel:      entry.channel,
			Activity:     entry.activity,
			Status:       entry.status,
			RecordType:   "touchpoint",
			CampaignName: entry.campaign,
			PersonRefs:   entry.personRefs,
		}
		if err := ingester.Ingest(ctx, demoScope, event); err != nil {
			return fmt.Errorf("seed event %s: %w", event.TouchpointID, err)
		}
	}

	app.GetLogger("seed").Info("demo activity seeded",
		"events", len(demoEvents),
		"persons", len(demoPersons),
		"org_id", demoScope.OrgID,
		"account_id", demoScope.AccountID,
	)

	return nil
}

package store

import (
	"time"

	"github.com/goliatone/go-timeline/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// EventRow models the persisted row in activity_events.
type EventRow struct {
	bun.BaseModel `bun:"table:activity_events"`

	ID              uuid.UUID `bun:",pk,type:uuid"`
	OrgID           string    `bun:"org_id"`
	AccountID       string    `bun:"account_id"`
	TouchpointID    string    `bun:"touchpoint_id"`
	Timestamp       time.Time `bun:"timestamp"`
	Direction       string    `bun:"direction"`
	Channel         string    `bun:"channel"`
	Status          string    `bun:"status"`
	Activity        string    `bun:"activity"`
	RecordType      string    `bun:"record_type"`
	CampaignID      string    `bun:"campaign_id"`
	CampaignName    string    `bun:"campaign_name"`
	PersonRefs      []string  `bun:"person_refs,type:jsonb"`
	TeamRefs        []string  `bun:"team_refs,type:jsonb"`
	OpportunityRefs []string  `bun:"opportunity_refs,type:jsonb"`
	GroupingID      string    `bun:"grouping_id"`
}

// PersonRow models the persisted row in persons. Person identifiers come from
// the upstream CRM, so the primary key is (org_id, id) rather than a UUID.
type PersonRow struct {
	bun.BaseModel `bun:"table:persons"`

	ID        string `bun:"id,pk"`
	OrgID     string `bun:"org_id,pk"`
	FirstName string `bun:"first_name"`
	LastName  string `bun:"last_name"`
	Email     string `bun:"email"`
	JobTitle  string `bun:"job_title"`
}

func toEvent(row *EventRow) types.Event {
	if row == nil {
		return types.Event{}
	}
	return types.Event{
		ID:              row.ID,
		TouchpointID:    row.TouchpointID,
		Timestamp:       row.Timestamp,
		Direction:       row.Direction,
		Channel:         row.Channel,
		Status:          row.Status,
		Activity:        row.Activity,
		RecordType:      row.RecordType,
		CampaignID:      row.CampaignID,
		CampaignName:    row.CampaignName,
		PersonRefs:      cloneRefs(row.PersonRefs),
		TeamRefs:        cloneRefs(row.TeamRefs),
		OpportunityRefs: cloneRefs(row.OpportunityRefs),
		GroupingID:      row.GroupingID,
	}
}

func toPerson(row *PersonRow) types.Person {
	if row == nil {
		return types.Person{}
	}
	return types.Person{
		ID:        row.ID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Email:     row.Email,
		JobTitle:  row.JobTitle,
	}
}

// FromEvent converts a domain event into the Bun model so transports and
// seeders can reuse the conversion.
func FromEvent(scope types.Scope, event types.Event) *EventRow {
	return &EventRow{
		ID:              event.ID,
		OrgID:           scope.OrgID,
		AccountID:       scope.AccountID,
		TouchpointID:    event.TouchpointID,
		Timestamp:       event.Timestamp,
		Direction:       event.Direction,
		Channel:         event.Channel,
		Status:          event.Status,
		Activity:        event.Activity,
		RecordType:      event.RecordType,
		CampaignID:      event.CampaignID,
		CampaignName:    event.CampaignName,
		PersonRefs:      cloneRefs(event.PersonRefs),
		TeamRefs:        cloneRefs(event.TeamRefs),
		OpportunityRefs: cloneRefs(event.OpportunityRefs),
		GroupingID:      event.GroupingID,
	}
}

// FromPerson converts a domain person into the Bun model.
func FromPerson(orgID string, person types.Person) *PersonRow {
	return &PersonRow{
		ID:        person.ID,
		OrgID:     orgID,
		FirstName: person.FirstName,
		LastName:  person.LastName,
		Email:     person.Email,
		JobTitle:  person.JobTitle,
	}
}

func cloneRefs(src []string) []string {
	if len(src) == 0 {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

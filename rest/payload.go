package rest

import (
	"time"

	"github.com/goliatone/go-timeline/pkg/types"
	"github.com/google/uuid"
)

// Wire shapes follow the upstream ingest contract: snake_case keys, person
// references under "people", ISO-8601 timestamps.

// EventPayload is one feed row on the wire.
type EventPayload struct {
	ID              string   `json:"id"`
	Timestamp       string   `json:"timestamp"`
	Activity        string   `json:"activity"`
	Channel         string   `json:"channel"`
	Status          string   `json:"status"`
	Direction       string   `json:"direction"`
	People          []string `json:"people"`
	InvolvedTeamIDs []string `json:"involved_team_ids"`
}

// PersonPayload is one side-loaded contact.
type PersonPayload struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	EmailAddress string `json:"email_address"`
	JobTitle     string `json:"job_title"`
}

// PaginationPayload carries the cursor state for one page.
type PaginationPayload struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	TotalCount  int  `json:"total_count"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// EventsResponse is the GET /api/events body.
type EventsResponse struct {
	Events     []EventPayload           `json:"events"`
	Persons    map[string]PersonPayload `json:"persons"`
	Pagination PaginationPayload        `json:"pagination"`
}

// BucketPayload is one minimap line point.
type BucketPayload struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// TouchpointPayload is one first-touchpoint marker.
type TouchpointPayload struct {
	PersonID  string `json:"person_id"`
	Date      string `json:"date"`
	Timestamp string `json:"timestamp"`
}

// TimelineResponse is the GET /api/timeline body.
type TimelineResponse struct {
	TimelineData     []BucketPayload     `json:"timeline_data"`
	FirstTouchpoints []TouchpointPayload `json:"first_touchpoints"`
}

// ErrorResponse is the body of 4xx/5xx replies.
type ErrorResponse struct {
	Error string `json:"error"`
}

// BuildEventsResponse converts a domain page into its wire form.
func BuildEventsResponse(page types.EventPage) EventsResponse {
	events := make([]EventPayload, 0, len(page.Events))
	for _, event := range page.Events {
		events = append(events, EventPayload{
			ID:              event.ID.String(),
			Timestamp:       event.Timestamp.UTC().Format(time.RFC3339),
			Activity:        event.Activity,
			Channel:         event.Channel,
			Status:          event.Status,
			Direction:       event.Direction,
			People:          event.PersonRefs,
			InvolvedTeamIDs: event.TeamRefs,
		})
	}
	persons := make(map[string]PersonPayload, len(page.Persons))
	for id, person := range page.Persons {
		persons[id] = PersonPayload{
			FirstName:    person.FirstName,
			LastName:     person.LastName,
			EmailAddress: person.Email,
			JobTitle:     person.JobTitle,
		}
	}
	return EventsResponse{
		Events:  events,
		Persons: persons,
		Pagination: PaginationPayload{
			CurrentPage: page.Page,
			TotalPages:  page.TotalPages,
			TotalCount:  page.TotalCount,
			HasNext:     page.HasNext,
			HasPrevious: page.HasPrevious,
		},
	}
}

// BuildTimelineResponse converts aggregation output into its wire form.
func BuildTimelineResponse(data types.TimelineData) TimelineResponse {
	buckets := make([]BucketPayload, 0, len(data.Buckets))
	for _, bucket := range data.Buckets {
		buckets = append(buckets, BucketPayload{Date: bucket.Date, Count: bucket.Count})
	}
	touchpoints := make([]TouchpointPayload, 0, len(data.Touchpoints))
	for _, tp := range data.Touchpoints {
		touchpoints = append(touchpoints, TouchpointPayload{
			PersonID:  tp.PersonID,
			Date:      tp.Date,
			Timestamp: tp.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	return TimelineResponse{
		TimelineData:     buckets,
		FirstTouchpoints: touchpoints,
	}
}

// parseEventsResponse converts the wire page back into domain form for the
// HTTP fetcher.
func parseEventsResponse(body EventsResponse) (types.EventPage, error) {
	events := make([]types.Event, 0, len(body.Events))
	for _, payload := range body.Events {
		id, err := uuid.Parse(payload.ID)
		if err != nil {
			return types.EventPage{}, err
		}
		ts, err := time.Parse(time.RFC3339, payload.Timestamp)
		if err != nil {
			return types.EventPage{}, err
		}
		events = append(events, types.Event{
			ID:         id,
			Timestamp:  ts,
			Activity:   payload.Activity,
			Channel:    payload.Channel,
			Status:     payload.Status,
			Direction:  payload.Direction,
			PersonRefs: payload.People,
			TeamRefs:   payload.InvolvedTeamIDs,
		})
	}
	persons := make(map[string]types.Person, len(body.Persons))
	for id, payload := range body.Persons {
		persons[id] = types.Person{
			ID:        id,
			FirstName: payload.FirstName,
			LastName:  payload.LastName,
			Email:     payload.EmailAddress,
			JobTitle:  payload.JobTitle,
		}
	}
	return types.EventPage{
		Events:      events,
		Persons:     persons,
		Page:        body.Pagination.CurrentPage,
		TotalPages:  body.Pagination.TotalPages,
		TotalCount:  body.Pagination.TotalCount,
		HasNext:     body.Pagination.HasNext,
		HasPrevious: body.Pagination.HasPrevious,
	}, nil
}

func parseTimelineResponse(body TimelineResponse) (types.TimelineData, error) {
	buckets := make([]types.TimelineBucket, 0, len(body.TimelineData))
	for _, payload := range body.TimelineData {
		buckets = append(buckets, types.TimelineBucket{Date: payload.Date, Count: payload.Count})
	}
	touchpoints := make([]types.FirstTouchpoint, 0, len(body.FirstTouchpoints))
	for _, payload := range body.FirstTouchpoints {
		ts, err := time.Parse(time.RFC3339, payload.Timestamp)
		if err != nil {
			return types.TimelineData{}, err
		}
		touchpoints = append(touchpoints, types.FirstTouchpoint{
			PersonID:  payload.PersonID,
			Date:      payload.Date,
			Timestamp: ts,
		})
	}
	return types.TimelineData{Buckets: buckets, Touchpoints: touchpoints}, nil
}

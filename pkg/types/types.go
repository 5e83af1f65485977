package types

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Direction labels whether an activity event was received from or sent to a
// customer contact.
const (
	DirectionIn  = "IN"
	DirectionOut = "OUT"
)

// DateLayout is the calendar-date form used across buckets, cursors, and the
// wire payloads. All dates are normalized to UTC before formatting.
const DateLayout = "2006-01-02"

// DateOf returns the UTC calendar date for the supplied instant.
func DateOf(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Scope carries the tenant/account identifier pair that bounds every query.
// It is explicit input on every request rather than ambient configuration,
// so hosts can serve any tenant.
type Scope struct {
	OrgID     string
	AccountID string
}

// Validate ensures both identifiers are present.
func (s Scope) Validate() error {
	if strings.TrimSpace(s.OrgID) == "" || strings.TrimSpace(s.AccountID) == "" {
		return ErrScopeRequired
	}
	return nil
}

// Event is an immutable record of one customer interaction. Within a scope,
// events are totally ordered by (Timestamp, ID) so pagination ties break
// deterministically.
type Event struct {
	ID              uuid.UUID
	TouchpointID    string
	Timestamp       time.Time
	Direction       string
	Channel         string
	Status          string
	Activity        string
	RecordType      string
	CampaignID      string
	CampaignName    string
	PersonRefs      []string
	TeamRefs        []string
	OpportunityRefs []string
	GroupingID      string
}

// Date returns the event's UTC calendar date.
func (e Event) Date() string {
	return DateOf(e.Timestamp)
}

// Person is the canonical contact record referenced by events. Events hold
// weak references (IDs) resolved through the side-loaded mapping on each page.
type Person struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	JobTitle  string
}

// EventPage is one bounded, ordered slice of the scoped feed plus cursor
// state. Pages are created per fetch and never mutated.
type EventPage struct {
	Events      []Event
	Persons     map[string]Person
	Page        int
	TotalPages  int
	TotalCount  int
	HasNext     bool
	HasPrevious bool
}

// TimelineBucket is one (date, count) aggregate point on the minimap line:
// the number of inbound events on that UTC calendar day. Days without inbound
// activity are omitted, so the series is sparse.
type TimelineBucket struct {
	Date  string
	Count int
}

// FirstTouchpoint records the earliest interaction with a person across the
// entire scoped dataset, regardless of direction. Exactly one exists per
// person with at least one event; it is the global minimum by (Timestamp, ID).
type FirstTouchpoint struct {
	PersonID  string
	Date      string
	Timestamp time.Time
}

// TimelineData bundles the minimap series with the touchpoint markers.
type TimelineData struct {
	Buckets     []TimelineBucket
	Touchpoints []FirstTouchpoint
}

// EventPageFilter is the query input for one feed page. Date, when set,
// navigates to the page containing the most recent event on or before that
// calendar day.
type EventPageFilter struct {
	Scope    Scope
	Page     int
	PageSize int
	Date     *time.Time
}

// Type implements gocommand.Message for query inputs.
func (EventPageFilter) Type() string {
	return "query.timeline.events"
}

// Validate implements gocommand.Message.
func (f EventPageFilter) Validate() error {
	if err := f.Scope.Validate(); err != nil {
		return err
	}
	if f.PageSize <= 0 {
		return ErrInvalidPageSize
	}
	return nil
}

// TimelineFilter scopes a timeline aggregation request.
type TimelineFilter struct {
	Scope Scope
}

// Type implements gocommand.Message for query inputs.
func (TimelineFilter) Type() string {
	return "query.timeline.aggregate"
}

// Validate implements gocommand.Message.
func (f TimelineFilter) Validate() error {
	return f.Scope.Validate()
}

// EventRepository is the read-side contract the query layer depends on. The
// default implementation is the Bun-backed store; hosts can swap storage
// engines behind it.
type EventRepository interface {
	FetchPage(ctx context.Context, filter EventPageFilter) (EventPage, error)
	ComputeTimeline(ctx context.Context, filter TimelineFilter) (TimelineData, error)
}

// Clock abstracts time retrieval for deterministic testing.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID creation.
type IDGenerator interface {
	UUID() uuid.UUID
}

// Logger captures basic logging hooks used by the library.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Error(msg string, err error, fields ...any)
}

// SystemClock defers to time.Now for production usage.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator produces UUIDv4 identifiers.
type UUIDGenerator struct{}

// UUID returns a randomly generated UUID.
func (UUIDGenerator) UUID() uuid.UUID { return uuid.New() }

// NopLogger discards all log lines.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, error, ...any) {}

var (
	// ErrScopeRequired indicates the org/account scope pair was missing or
	// incomplete. Requests failing with it cannot be retried without fixing
	// the input.
	ErrScopeRequired = errors.New("go-timeline: org and account scope required")
	// ErrInvalidPageSize indicates a non-positive page size reached the
	// query layer. Treated as a programmer error.
	ErrInvalidPageSize = errors.New("go-timeline: page size must be positive")
	// ErrMissingEventRepository indicates the query layer was constructed
	// without a repository.
	ErrMissingEventRepository = errors.New("go-timeline: event repository required")
)

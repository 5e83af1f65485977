package store

import (
	"context"
	"errors"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/goliatone/go-timeline/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed event store.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*EventRow]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type eventStore interface {
	repository.Repository[*EventRow]
}

// Repository resolves scoped, cursor-bounded event pages and the full-dataset
// timeline aggregation. It is read-mostly and stateless per request, so it is
// safe for unlimited concurrent callers.
type Repository struct {
	eventStore
	db    *bun.DB
	clock types.Clock
	idGen types.IDGenerator
}

// NewRepository constructs the event store. When cfg.Repository is nil a
// default Bun repository is built from cfg.DB; WithCache decorates reads
// through go-repository-cache.
func NewRepository(cfg RepositoryConfig, options ...RepositoryOption) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("store: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*EventRow]{
			NewRecord: func() *EventRow { return &EventRow{} },
			GetID: func(row *EventRow) uuid.UUID {
				if row == nil {
					return uuid.Nil
				}
				return row.ID
			},
			SetID: func(row *EventRow, id uuid.UUID) {
				if row != nil {
					row.ID = id
				}
			},
		})
	}

	opts := applyRepositoryOptions(options)
	if opts.CacheEnabled {
		wrapped, err := wrapWithCache(repo, opts.CacheConfig)
		if err != nil {
			return nil, err
		}
		repo = wrapped
	}

	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}

	return &Repository{
		eventStore: repo,
		db:         cfg.DB,
		clock:      clock,
		idGen:      idGen,
	}, nil
}

var _ repository.Repository[*EventRow] = (*Repository)(nil)

func wrapWithCache(repo repository.Repository[*EventRow], cfg *cache.Config) (repository.Repository[*EventRow], error) {
	if _, ok := repo.(*repositorycache.CachedRepository[*EventRow]); ok {
		return repo, nil
	}
	conf := cache.DefaultConfig()
	if cfg != nil {
		conf = *cfg
	}
	service, err := cache.NewCacheService(conf)
	if err != nil {
		return nil, err
	}
	return repositorycache.New(repo, service, cache.NewDefaultKeySerializer()), nil
}

// Ingest persists an event under the supplied scope, generating an ID when
// the caller did not set one. Used by seeders and import pipelines.
func (r *Repository) Ingest(ctx context.Context, scope types.Scope, event types.Event) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	row := FromEvent(scope, event)
	if row.ID == uuid.Nil {
		row.ID = r.idGen.UUID()
	}
	if row.Timestamp.IsZero() {
		row.Timestamp = r.clock.Now()
	}
	_, err := r.Create(ctx, row)
	return err
}

// IngestPerson persists a canonical person record for the org.
func (r *Repository) IngestPerson(ctx context.Context, orgID string, person types.Person) error {
	if r.db == nil {
		return errors.New("store: person ingest requires bun DB")
	}
	_, err := r.db.NewInsert().Model(FromPerson(orgID, person)).Exec(ctx)
	return err
}

// FetchPage returns one page of the scoped feed, most recent first, with
// every referenced person side-loaded. When filter.Date is set the page
// number is derived server-side so the returned slice contains the most
// recent event on or before that calendar day; the call is idempotent for a
// static dataset.
func (r *Repository) FetchPage(ctx context.Context, filter types.EventPageFilter) (types.EventPage, error) {
	if err := filter.Validate(); err != nil {
		return types.EventPage{}, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize

	total, err := r.countScoped(ctx, filter.Scope)
	if err != nil {
		return types.EventPage{}, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if filter.Date != nil {
		newer, err := r.countNewerThan(ctx, filter.Scope, *filter.Date)
		if err != nil {
			return types.EventPage{}, err
		}
		page = newer/pageSize + 1
	}
	if page > totalPages {
		page = totalPages
	}

	criteria := []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			q = applyScope(q, filter.Scope)
			q = ApplyFeedOrdering(q, pageSize)
			return q.Offset((page - 1) * pageSize)
		},
	}
	rows, _, err := r.List(ctx, criteria...)
	if err != nil {
		return types.EventPage{}, err
	}

	events := make([]types.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, toEvent(row))
	}

	persons, err := r.loadPersons(ctx, filter.Scope.OrgID, events)
	if err != nil {
		return types.EventPage{}, err
	}

	return types.EventPage{
		Events:      events,
		Persons:     persons,
		Page:        page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNext:     page < totalPages && total > 0,
		HasPrevious: page > 1,
	}, nil
}

func (r *Repository) countScoped(ctx context.Context, scope types.Scope) (int, error) {
	if r.db == nil {
		return 0, errors.New("store: counting requires bun DB")
	}
	return applyScope(r.db.NewSelect().Model((*EventRow)(nil)), scope).Count(ctx)
}

// countNewerThan counts events strictly after the end of the target UTC day.
// The page containing index `newer` in the descending order is the page that
// holds the first event at or before that day.
func (r *Repository) countNewerThan(ctx context.Context, scope types.Scope, target time.Time) (int, error) {
	if r.db == nil {
		return 0, errors.New("store: counting requires bun DB")
	}
	dayEnd := time.Date(target.UTC().Year(), target.UTC().Month(), target.UTC().Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	q := applyScope(r.db.NewSelect().Model((*EventRow)(nil)), scope).
		Where("timestamp >= ?", dayEnd)
	return q.Count(ctx)
}

func (r *Repository) loadPersons(ctx context.Context, orgID string, events []types.Event) (map[string]types.Person, error) {
	ids := make([]string, 0)
	seen := make(map[string]struct{})
	for _, event := range events {
		for _, ref := range event.PersonRefs {
			if _, ok := seen[ref]; ok {
				continue
			}
			seen[ref] = struct{}{}
			ids = append(ids, ref)
		}
	}
	persons := make(map[string]types.Person, len(ids))
	if len(ids) == 0 {
		return persons, nil
	}
	if r.db == nil {
		return nil, errors.New("store: person side-load requires bun DB")
	}
	var rows []*PersonRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("org_id = ?", orgID).
		Where("id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		persons[row.ID] = toPerson(row)
	}
	return persons, nil
}

func applyScope(q *bun.SelectQuery, scope types.Scope) *bun.SelectQuery {
	return q.Where("org_id = ?", scope.OrgID).
		Where("account_id = ?", scope.AccountID)
}

package service

import (
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-masker"
	"github.com/goliatone/go-timeline/pkg/types"
	"github.com/goliatone/go-timeline/query"
	"github.com/goliatone/go-timeline/scope"
	"github.com/goliatone/go-timeline/store"
	"github.com/uptrace/bun"
)

// Service is the entry point for go-timeline's server side. It wires the
// event store and the read queries the HTTP surface consumes.
type Service struct {
	cfg        Config
	repo       types.EventRepository
	queries    Queries
	scopeGuard scope.Guard
}

// Queries exposes the read-model helpers.
type Queries struct {
	EventPage *query.EventPageQuery
	Timeline  *query.TimelineQuery
}

// Config captures dependencies so callers can provide their own instances
// (bun.DB, cached repositories, custom guards).
type Config struct {
	DB            *bun.DB
	Repository    types.EventRepository
	ScopeResolver scope.Resolver
	FeatureGate   featuregate.FeatureGate
	Masker        *masker.Masker
	Clock         types.Clock
	IDGenerator   types.IDGenerator
	Logger        types.Logger
	CacheEnabled  bool
}

// New constructs a Service from the supplied configuration.
func New(cfg Config) (*Service, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}

	repo := cfg.Repository
	if repo == nil {
		var options []store.RepositoryOption
		if cfg.CacheEnabled {
			options = append(options, store.WithCache(true))
		}
		bunRepo, err := store.NewRepository(store.RepositoryConfig{
			DB:    cfg.DB,
			Clock: cfg.Clock,
			IDGen: cfg.IDGenerator,
		}, options...)
		if err != nil {
			return nil, err
		}
		repo = bunRepo
	}

	guard := scope.NewGuard(cfg.ScopeResolver)

	queryOptions := []query.Option{
		query.WithLogger(logger),
		query.WithFeatureGate(cfg.FeatureGate),
	}
	if cfg.Masker != nil {
		queryOptions = append(queryOptions, query.WithMasker(cfg.Masker))
	}

	return &Service{
		cfg:        cfg,
		repo:       repo,
		scopeGuard: guard,
		queries: Queries{
			EventPage: query.NewEventPageQuery(repo, guard, queryOptions...),
			Timeline:  query.NewTimelineQuery(repo, guard, query.WithLogger(logger)),
		},
	}, nil
}

// Queries returns the read-model facade.
func (s *Service) Queries() Queries {
	return s.queries
}

// Repository returns the wired event repository.
func (s *Service) Repository() types.EventRepository {
	return s.repo
}

// ScopeGuard returns the guard used by the queries.
func (s *Service) ScopeGuard() scope.Guard {
	return s.scopeGuard
}

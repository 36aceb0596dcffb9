package store

import (
	"context"
	"errors"

	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LookupStoreConfig wires the Bun-backed lookup store.
type LookupStoreConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*LookupModel]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

// LookupOption configures lookup store construction.
type LookupOption func(*lookupOptions)

type lookupOptions struct {
	cacheEnabled bool
	cacheConfig  *cache.Config
}

// WithLookupCache toggles the repository cache decorator. Lookup tables are
// small and read often, so callers usually want this on.
func WithLookupCache(enabled bool) LookupOption {
	return func(opts *lookupOptions) {
		opts.cacheEnabled = enabled
	}
}

// WithLookupCacheConfig supplies the cache configuration used when caching is
// enabled.
func WithLookupCacheConfig(cfg cache.Config) LookupOption {
	return func(opts *lookupOptions) {
		opts.cacheConfig = &cfg
	}
}

type lookupStore interface {
	repository.Repository[*LookupModel]
}

// LookupStore persists the shared lookup tables (engagement types, deal
// types, contact roles).
type LookupStore struct {
	lookupStore
	clock types.Clock
	idGen types.IDGenerator
}

// NewLookupStore constructs the default lookup store, optionally wrapped with
// the repository cache decorator.
func NewLookupStore(cfg LookupStoreConfig, options ...LookupOption) (*LookupStore, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("store: db or lookup repository required")
	}
	var opts lookupOptions
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}

	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*LookupModel]{
			NewRecord: func() *LookupModel { return &LookupModel{} },
			GetID: func(model *LookupModel) uuid.UUID {
				if model == nil {
					return uuid.Nil
				}
				return model.ID
			},
			SetID: func(model *LookupModel, id uuid.UUID) {
				if model != nil {
					model.ID = id
				}
			},
		})
	}
	if opts.cacheEnabled {
		if _, ok := repo.(*repositorycache.CachedRepository[*LookupModel]); !ok {
			cacheCfg := cache.DefaultConfig()
			if opts.cacheConfig != nil {
				cacheCfg = *opts.cacheConfig
			}
			service, err := cache.NewCacheService(cacheCfg)
			if err != nil {
				return nil, err
			}
			repo = repositorycache.New(repo, service, cache.NewDefaultKeySerializer())
		}
	}

	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}

	return &LookupStore{
		lookupStore: repo,
		clock:       clock,
		idGen:       idGen,
	}, nil
}

var (
	_ repository.Repository[*LookupModel] = (*LookupStore)(nil)
	_ types.LookupRepository              = (*LookupStore)(nil)
)

// ListLookup returns every entry of a lookup kind visible to the actor,
// ordered by position then name.
func (s *LookupStore) ListLookup(ctx context.Context, actor types.ActorRef, kind types.LookupKind) ([]types.LookupEntry, error) {
	criteria := []repository.SelectCriteria{
		scope.SelectCriteria(scope.Resolve(actor)),
		func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("kind = ?", string(kind)).
				OrderExpr("position ASC, name ASC")
		},
	}
	rows, _, err := s.List(ctx, criteria...)
	if err != nil {
		return nil, err
	}
	entries := make([]types.LookupEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, *toLookupEntry(row))
	}
	return entries, nil
}

// CreateLookup inserts a lookup entry, stamping the actor's tenant when none
// is supplied.
func (s *LookupStore) CreateLookup(ctx context.Context, actor types.ActorRef, kind types.LookupKind, entry types.LookupEntry) (*types.LookupEntry, error) {
	now := s.clock.Now()
	model := &LookupModel{
		ID:        entry.ID,
		TenantID:  scope.AssignTenant(actor, entry.TenantID),
		Kind:      string(kind),
		Name:      entry.Name,
		Position:  entry.Position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if model.ID == uuid.Nil {
		model.ID = s.idGen.UUID()
	}
	created, err := s.Create(ctx, model)
	if err != nil {
		return nil, err
	}
	return toLookupEntry(created), nil
}

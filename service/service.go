package service

import (
	"context"

	"github.com/goliatone/go-crm/audit"
	"github.com/goliatone/go-crm/command"
	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/query"
	"github.com/goliatone/go-crm/scope"
	"github.com/goliatone/go-crm/store"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-masker"
	"github.com/uptrace/bun"
)

// Service is the entry point for go-crm. It wires stores, the audit trail,
// hooks, and command/query facades supplied by the host application. Hosts
// can hand in a bun.DB and let the service build the default stores, or
// supply their own repository implementations.
type Service struct {
	cfg        Config
	commands   Commands
	queries    Queries
	auditRepo  types.AuditRepository
	auditSink  types.AuditSink
	scopeGuard scope.Guard
}

// Commands exposes the service mutation handlers.
type Commands struct {
	CompanyCreate    *command.CompanyCreateCommand
	CompanyUpdate    *command.CompanyUpdateCommand
	CompanyDelete    *command.CompanyDeleteCommand
	ContactCreate    *command.ContactCreateCommand
	ContactUpdate    *command.ContactUpdateCommand
	ContactDelete    *command.ContactDeleteCommand
	EngagementCreate *command.EngagementCreateCommand
	EngagementUpdate *command.EngagementUpdateCommand
	EngagementDelete *command.EngagementDeleteCommand
	DealCreate       *command.DealCreateCommand
	DealUpdate       *command.DealUpdateCommand
	DealStage        *command.DealStageCommand
	DealDelete       *command.DealDeleteCommand
	LookupCreate     *command.LookupCreateCommand
	TenantCreate     *command.TenantCreateCommand
}

// Queries exposes the read-model handlers.
type Queries struct {
	CompanyGet     *query.CompanyGetQuery
	CompanyList    *query.CompanyListQuery
	ContactGet     *query.ContactGetQuery
	ContactList    *query.ContactListQuery
	EngagementGet  *query.EngagementGetQuery
	EngagementList *query.EngagementListQuery
	DealGet        *query.DealGetQuery
	DealList       *query.DealListQuery
	AuditFeed      *query.AuditFeedQuery
	AuditStats     *query.AuditStatsQuery
	LookupList     *query.LookupListQuery
}

// Config captures the service dependencies. Repositories left nil are built
// from DB when one is supplied.
type Config struct {
	DB *bun.DB

	CompanyRepository    types.CompanyRepository
	ContactRepository    types.ContactRepository
	EngagementRepository types.EngagementRepository
	DealRepository       types.DealRepository
	LookupRepository     types.LookupRepository
	TenantRepository     types.TenantRepository
	AuditRepository      types.AuditRepository

	// AuditSink overrides the sink commands write through. When nil the
	// audit repository records entries directly, wrapped with the actor
	// name enricher when ActorNames is set.
	AuditSink  types.AuditSink
	ActorNames audit.ActorNameResolver

	Hooks       types.Hooks
	Clock       types.Clock
	IDGenerator types.IDGenerator
	Logger      types.Logger

	AuthorizationPolicy types.AuthorizationPolicy
	StagePolicy         types.StagePolicy
	FeatureGate         featuregate.FeatureGate

	// SanitizeAuditFeed masks sensitive snapshot fields on the audit feed.
	SanitizeAuditFeed bool
	AuditMasker       *masker.Masker

	// CacheLookups wraps the lookup store with the repository cache
	// decorator when the service builds its own stores.
	CacheLookups bool
}

// New constructs a Service from the supplied configuration.
func New(cfg Config) *Service {
	norm := normalizeConfig(cfg)

	if norm.DB != nil {
		if norm.CompanyRepository == nil {
			if repo, err := store.NewCompanyStore(store.CompanyStoreConfig{
				DB:    norm.DB,
				Clock: norm.Clock,
				IDGen: norm.IDGenerator,
			}); err == nil {
				norm.CompanyRepository = repo
			}
		}
		if norm.ContactRepository == nil {
			if repo, err := store.NewContactStore(store.ContactStoreConfig{
				DB:    norm.DB,
				Clock: norm.Clock,
				IDGen: norm.IDGenerator,
			}); err == nil {
				norm.ContactRepository = repo
			}
		}
		if norm.EngagementRepository == nil {
			if repo, err := store.NewEngagementStore(store.EngagementStoreConfig{
				DB:    norm.DB,
				Clock: norm.Clock,
				IDGen: norm.IDGenerator,
			}); err == nil {
				norm.EngagementRepository = repo
			}
		}
		if norm.DealRepository == nil {
			if repo, err := store.NewDealStore(store.DealStoreConfig{
				DB:    norm.DB,
				Clock: norm.Clock,
				IDGen: norm.IDGenerator,
			}); err == nil {
				norm.DealRepository = repo
			}
		}
		if norm.LookupRepository == nil {
			if repo, err := store.NewLookupStore(store.LookupStoreConfig{
				DB:    norm.DB,
				Clock: norm.Clock,
				IDGen: norm.IDGenerator,
			}, store.WithLookupCache(norm.CacheLookups)); err == nil {
				norm.LookupRepository = repo
			}
		}
		if norm.TenantRepository == nil {
			if repo, err := store.NewTenantStore(store.TenantStoreConfig{
				DB:    norm.DB,
				Clock: norm.Clock,
				IDGen: norm.IDGenerator,
			}); err == nil {
				norm.TenantRepository = repo
			}
		}
		if norm.AuditRepository == nil {
			if repo, err := audit.NewRepository(audit.RepositoryConfig{
				DB:    norm.DB,
				Clock: norm.Clock,
				IDGen: norm.IDGenerator,
			}); err == nil {
				norm.AuditRepository = repo
			}
		}
	}

	sink := norm.AuditSink
	if sink == nil {
		if repoSink, ok := norm.AuditRepository.(types.AuditSink); ok {
			sink = repoSink
		}
	}
	if sink != nil && norm.ActorNames != nil {
		sink = &audit.EnrichedSink{
			Sink:       sink,
			Enricher:   audit.ActorNameEnricher(norm.ActorNames),
			BestEffort: true,
		}
	}

	s := &Service{
		cfg:        norm,
		auditRepo:  norm.AuditRepository,
		auditSink:  sink,
		scopeGuard: scope.Ensure(scope.NewGuard(norm.AuthorizationPolicy)),
	}
	s.commands = s.buildCommands()
	s.queries = s.buildQueries()
	return s
}

func normalizeConfig(cfg Config) Config {
	if cfg.Clock == nil {
		cfg.Clock = types.SystemClock{}
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = types.UUIDGenerator{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	if cfg.StagePolicy == nil {
		cfg.StagePolicy = types.DefaultStagePolicy()
	}
	return cfg
}

// Commands returns the command facade.
func (s *Service) Commands() Commands {
	return s.commands
}

// Queries returns the query facade.
func (s *Service) Queries() Queries {
	return s.queries
}

// Ready reports whether the service has the required dependencies wired in.
func (s *Service) Ready() bool {
	return s != nil &&
		s.cfg.CompanyRepository != nil &&
		s.cfg.ContactRepository != nil &&
		s.cfg.EngagementRepository != nil &&
		s.cfg.DealRepository != nil &&
		s.auditRepo != nil &&
		s.auditSink != nil
}

// HealthCheck surfaces missing configuration so transports can fail fast
// before serving traffic.
func (s *Service) HealthCheck(ctx context.Context) error {
	if !s.Ready() {
		return types.ErrServiceNotReady
	}
	if s.cfg.CompanyRepository == nil {
		return types.ErrMissingCompanyRepository
	}
	if s.cfg.ContactRepository == nil {
		return types.ErrMissingContactRepository
	}
	if s.cfg.EngagementRepository == nil {
		return types.ErrMissingEngagementRepository
	}
	if s.cfg.DealRepository == nil {
		return types.ErrMissingDealRepository
	}
	if s.auditRepo == nil {
		return types.ErrMissingAuditRepository
	}
	if s.auditSink == nil {
		return types.ErrMissingAuditSink
	}
	return nil
}

// ScopeGuard exposes the guard instance used internally so transports can
// reuse the same policy for HTTP adapters (crudguard).
func (s *Service) ScopeGuard() scope.Guard {
	if s == nil {
		return scope.NopGuard()
	}
	return scope.Ensure(s.scopeGuard)
}

// AuditSink returns the configured sink so hosts can record entries for
// auxiliary workflows alongside the commands.
func (s *Service) AuditSink() types.AuditSink {
	if s == nil {
		return nil
	}
	return s.auditSink
}

func (s *Service) buildCommands() Commands {
	return Commands{
		CompanyCreate: command.NewCompanyCreateCommand(command.CompanyCreateCommandConfig{
			Repository: s.cfg.CompanyRepository,
			Clock:      s.cfg.Clock,
			Audit:      s.auditSink,
			Hooks:      s.cfg.Hooks,
			Logger:     s.cfg.Logger,
			ScopeGuard: s.scopeGuard,
		}),
		CompanyUpdate: command.NewCompanyUpdateCommand(command.CompanyUpdateCommandConfig{
			Repository: s.cfg.CompanyRepository,
			Clock:      s.cfg.Clock,
			Audit:      s.auditSink,
			Hooks:      s.cfg.Hooks,
			Logger:     s.cfg.Logger,
			ScopeGuard: s.scopeGuard,
		}),
		CompanyDelete: command.NewCompanyDeleteCommand(command.CompanyDeleteCommandConfig{
			DB:         s.cfg.DB,
			Repository: s.cfg.CompanyRepository,
			Clock:      s.cfg.Clock,
			Audit:      s.auditSink,
			Hooks:      s.cfg.Hooks,
			Logger:     s.cfg.Logger,
			ScopeGuard: s.scopeGuard,
		}),
		ContactCreate: command.NewContactCreateCommand(command.ContactCreateCommandConfig{
			Repository: s.cfg.ContactRepository,
			Clock:      s.cfg.Clock,
			Audit:      s.auditSink,
			Hooks:      s.cfg.Hooks,
			Logger:     s.cfg.Logger,
			ScopeGuard: s.scopeGuard,
		}),
		ContactUpdate: command.NewContactUpdateCommand(command.ContactUpdateCommandConfig{
			Repository: s.cfg.ContactRepository,
			Clock:      s.cfg.Clock,
			Audit:      s.auditSink,
			Hooks:      s.cfg.Hooks,
			Logger:     s.cfg.Logger,
			ScopeGuard: s.scopeGuard,
		}),
		ContactDelete: command.NewContactDeleteCommand(command.ContactDeleteCommandConfig{
			DB:         s.cfg.DB,
			Repository: s.cfg.ContactRepository,
			Clock:      s.cfg.Clock,
			Audit:      s.auditSink,
			Hooks:      s.cfg.Hooks,
			Logger:     s.cfg.Logger,
			ScopeGuard: s.scopeGuard,
		}),
		EngagementCreate: command.NewEngagementCreateCommand(command.EngagementCreateCommandConfig{
			Repository: s.cfg.EngagementRepository,
			Clock:      s.cfg.Clock,
			Audit:      s.auditSink,
			Hooks:      s.cfg.Hooks,
			Logger:     s.cfg.Logger,
			ScopeGuard: s.scopeGuard,
		}),
		EngagementUpdate: command.NewEngagementUpdateCommand(command.EngagementUpdateCommandConfig{
			Repository: s.cfg.EngagementRepository,
			Clock:      s.cfg.Clock,
			Audit:      s.auditSink,
			Hooks:      s.cfg.Hooks,
			Logger:     s.cfg.Logger,
			ScopeGuard: s.scopeGuard,
		}),
		EngagementDelete: command.NewEngagementDeleteCommand(command.EngagementDeleteCommandConfig{
			DB:         s.cfg.DB,
			Repository: s.cfg.EngagementRepository,
			Clock:      s.cfg.Clock,
			Audit:      s.auditSink,
			Hooks:      s.cfg.Hooks,
			Logger:     s.cfg.Logger,
			ScopeGuard: s.scopeGuard,
		}),
		DealCreate: command.NewDealCreateCommand(command.DealCreateCommandConfig{
			Repository:  s.cfg.DealRepository,
			Clock:       s.cfg.Clock,
			Audit:       s.auditSink,
			Hooks:       s.cfg.Hooks,
			Logger:      s.cfg.Logger,
			ScopeGuard:  s.scopeGuard,
			FeatureGate: s.cfg.FeatureGate,
		}),
		DealUpdate: command.NewDealUpdateCommand(command.DealUpdateCommandConfig{
			Repository:  s.cfg.DealRepository,
			Clock:       s.cfg.Clock,
			Audit:       s.auditSink,
			Hooks:       s.cfg.Hooks,
			Logger:      s.cfg.Logger,
			ScopeGuard:  s.scopeGuard,
			FeatureGate: s.cfg.FeatureGate,
		}),
		DealStage: command.NewDealStageCommand(command.DealStageCommandConfig{
			Repository:  s.cfg.DealRepository,
			Clock:       s.cfg.Clock,
			Audit:       s.auditSink,
			Hooks:       s.cfg.Hooks,
			Logger:      s.cfg.Logger,
			ScopeGuard:  s.scopeGuard,
			FeatureGate: s.cfg.FeatureGate,
			StagePolicy: s.cfg.StagePolicy,
		}),
		DealDelete: command.NewDealDeleteCommand(command.DealDeleteCommandConfig{
			DB:          s.cfg.DB,
			Repository:  s.cfg.DealRepository,
			Clock:       s.cfg.Clock,
			Audit:       s.auditSink,
			Hooks:       s.cfg.Hooks,
			Logger:      s.cfg.Logger,
			ScopeGuard:  s.scopeGuard,
			FeatureGate: s.cfg.FeatureGate,
		}),
		LookupCreate: command.NewLookupCreateCommand(command.LookupCreateCommandConfig{
			Repository: s.cfg.LookupRepository,
			Logger:     s.cfg.Logger,
			ScopeGuard: s.scopeGuard,
		}),
		TenantCreate: command.NewTenantCreateCommand(command.TenantCreateCommandConfig{
			Repository: s.cfg.TenantRepository,
			Logger:     s.cfg.Logger,
		}),
	}
}

func (s *Service) buildQueries() Queries {
	return Queries{
		CompanyGet:     query.NewCompanyGetQuery(s.cfg.CompanyRepository, s.scopeGuard),
		CompanyList:    query.NewCompanyListQuery(s.cfg.CompanyRepository, s.scopeGuard),
		ContactGet:     query.NewContactGetQuery(s.cfg.ContactRepository, s.scopeGuard),
		ContactList:    query.NewContactListQuery(s.cfg.ContactRepository, s.scopeGuard),
		EngagementGet:  query.NewEngagementGetQuery(s.cfg.EngagementRepository, s.scopeGuard),
		EngagementList: query.NewEngagementListQuery(s.cfg.EngagementRepository, s.scopeGuard),
		DealGet:        query.NewDealGetQuery(s.cfg.DealRepository, s.scopeGuard),
		DealList:       query.NewDealListQuery(s.cfg.DealRepository, s.scopeGuard),
		AuditFeed: query.NewAuditFeedQuery(query.AuditFeedQueryConfig{
			Repository: s.auditRepo,
			ScopeGuard: s.scopeGuard,
			Sanitize:   s.cfg.SanitizeAuditFeed,
			Masker:     s.cfg.AuditMasker,
		}),
		AuditStats: query.NewAuditStatsQuery(s.auditRepo, s.scopeGuard),
		LookupList: query.NewLookupListQuery(s.cfg.LookupRepository, s.scopeGuard),
	}
}

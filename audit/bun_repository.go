package audit

import (
	"context"
	"errors"

	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed audit repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Entry]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type entryStore interface {
	repository.Repository[*Entry]
}

// Repository persists audit entries and exposes query helpers. It implements
// both the AuditSink and AuditRepository contracts.
type Repository struct {
	entryStore
	db    *bun.DB
	clock types.Clock
	idGen types.IDGenerator
}

// NewRepository constructs the default audit repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("audit: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*Entry]{
			NewRecord: func() *Entry { return &Entry{} },
			GetID: func(entry *Entry) uuid.UUID {
				if entry == nil {
					return uuid.Nil
				}
				return entry.ID
			},
			SetID: func(entry *Entry, id uuid.UUID) {
				if entry != nil {
					entry.ID = id
				}
			},
		})
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
		entryStore: repo,
		db:         cfg.DB,
		clock:      clock,
		idGen:      idGen,
	}, nil
}

var (
	_ repository.Repository[*Entry] = (*Repository)(nil)
	_ types.AuditSink               = (*Repository)(nil)
	_ types.AuditRepository         = (*Repository)(nil)
)

// Record persists an audit entry. Recording is not idempotent: two calls
// produce two rows, so callers record exactly once per logical mutation.
func (r *Repository) Record(ctx context.Context, entry types.AuditEntry) error {
	row := toEntry(entry)
	if row.ID == uuid.Nil {
		row.ID = r.idGen.UUID()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = r.clock.Now()
	}
	_, err := r.Create(ctx, row)
	return err
}

// RecordTx persists an audit entry inside the caller's transaction so
// deletion logs commit or roll back together with the cascade.
func (r *Repository) RecordTx(ctx context.Context, idb bun.IDB, entry types.AuditEntry) error {
	row := toEntry(entry)
	if row.ID == uuid.Nil {
		row.ID = r.idGen.UUID()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = r.clock.Now()
	}
	_, err := idb.NewInsert().Model(row).Exec(ctx)
	return err
}

// ListAudit returns a paginated feed filtered by the supplied criteria,
// newest first. The actor's tenant visibility narrows the feed the same way
// it narrows entity listings.
func (r *Repository) ListAudit(ctx context.Context, filter types.AuditFilter) (types.AuditPage, error) {
	pagination := normalizePagination(filter.Pagination, 50, 200)
	criteria := []repository.SelectCriteria{
		scope.SelectCriteria(scope.Resolve(filter.Actor)),
		func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.OrderExpr("created_at DESC").
				Limit(pagination.Limit).
				Offset(pagination.Offset)
			return applyAuditFilter(q, filter)
		},
	}

	rows, total, err := r.List(ctx, criteria...)
	if err != nil {
		return types.AuditPage{}, err
	}
	entries := make([]types.AuditEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, toDomain(row))
	}
	return types.AuditPage{
		Entries:    entries,
		Total:      total,
		NextOffset: pagination.Offset + pagination.Limit,
		HasMore:    pagination.Offset+pagination.Limit < total,
	}, nil
}

// AuditStats aggregates counts grouped by operation kind.
func (r *Repository) AuditStats(ctx context.Context, filter types.AuditStatsFilter) (types.AuditStats, error) {
	stats := types.AuditStats{
		ByKind: make(map[types.OperationKind]int),
	}
	if r.db == nil {
		return stats, errors.New("audit: stats requires bun DB")
	}
	query := r.db.NewSelect().
		Table("crm_audit_log").
		ColumnExpr("COUNT(*) AS total").
		ColumnExpr("kind").
		Group("kind")
	query = applyAuditStatsFilter(query, filter)

	type row struct {
		Kind  string `bun:"kind"`
		Total int    `bun:"total"`
	}
	var rows []row
	if err := query.Scan(ctx, &rows); err != nil {
		return stats, err
	}
	total := 0
	for _, rec := range rows {
		stats.ByKind[types.OperationKind(rec.Kind)] = rec.Total
		total += rec.Total
	}
	stats.Total = total
	return stats, nil
}

func applyAuditFilter(q *bun.SelectQuery, filter types.AuditFilter) *bun.SelectQuery {
	if filter.EntityType != "" {
		q = q.Where("entity_type = ?", string(filter.EntityType))
	}
	if filter.EntityID != uuid.Nil {
		q = q.Where("entity_id = ?", filter.EntityID)
	}
	if filter.ActorID != uuid.Nil {
		q = q.Where("actor_id = ?", filter.ActorID)
	}
	if len(filter.Kinds) > 0 {
		kinds := make([]string, 0, len(filter.Kinds))
		for _, kind := range filter.Kinds {
			kinds = append(kinds, string(kind))
		}
		q = q.Where("kind IN (?)", bun.In(kinds))
	}
	if filter.Since != nil {
		q = q.Where("created_at >= ?", *filter.Since)
	}
	if filter.Until != nil {
		q = q.Where("created_at <= ?", *filter.Until)
	}
	return q
}

func applyAuditStatsFilter(q *bun.SelectQuery, filter types.AuditStatsFilter) *bun.SelectQuery {
	visibility := scope.Resolve(filter.Actor)
	if !visibility.Unrestricted {
		q = q.Where("(tenant_id = ? OR tenant_id IS NULL)", visibility.TenantID)
	}
	if filter.EntityType != "" {
		q = q.Where("entity_type = ?", string(filter.EntityType))
	}
	if filter.Since != nil {
		q = q.Where("created_at >= ?", *filter.Since)
	}
	if filter.Until != nil {
		q = q.Where("created_at <= ?", *filter.Until)
	}
	return q
}

func normalizePagination(p types.Pagination, def, max int) types.Pagination {
	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit > max {
		p.Limit = max
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

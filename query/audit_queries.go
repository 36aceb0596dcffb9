package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm/audit"
	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	"github.com/goliatone/go-masker"
	"github.com/google/uuid"
)

// AuditFeedQueryConfig wires the audit feed with an optional read-side
// masker. When Sanitize is set, contact details in the stored snapshots are
// masked before entries leave the query.
type AuditFeedQueryConfig struct {
	Repository types.AuditRepository
	ScopeGuard scope.Guard
	Sanitize   bool
	Masker     *masker.Masker
}

// AuditFeedQuery renders paginated audit trails for entity detail pages and
// dashboards.
type AuditFeedQuery struct {
	repo     types.AuditRepository
	guard    scope.Guard
	sanitize bool
	masker   *masker.Masker
}

// NewAuditFeedQuery constructs the feed helper.
func NewAuditFeedQuery(cfg AuditFeedQueryConfig) *AuditFeedQuery {
	return &AuditFeedQuery{
		repo:     cfg.Repository,
		guard:    safeScopeGuard(cfg.ScopeGuard),
		sanitize: cfg.Sanitize,
		masker:   cfg.Masker,
	}
}

var _ gocommand.Querier[types.AuditFilter, types.AuditPage] = (*AuditFeedQuery)(nil)

// Query fetches a page of audit entries, newest first.
func (q *AuditFeedQuery) Query(ctx context.Context, filter types.AuditFilter) (types.AuditPage, error) {
	if q.repo == nil {
		return types.AuditPage{}, types.ErrMissingAuditRepository
	}
	if _, err := q.guard.Enforce(ctx, filter.Actor, types.PolicyActionAuditRead, uuid.Nil); err != nil {
		return types.AuditPage{}, err
	}
	page, err := q.repo.ListAudit(ctx, filter)
	if err != nil {
		return types.AuditPage{}, err
	}
	if q.sanitize {
		page.Entries = audit.SanitizeEntries(q.masker, page.Entries)
	}
	return page, nil
}

// AuditStatsQuery aggregates operation counts per kind for dashboard widgets.
type AuditStatsQuery struct {
	repo  types.AuditRepository
	guard scope.Guard
}

// NewAuditStatsQuery constructs the stats helper.
func NewAuditStatsQuery(repo types.AuditRepository, guard scope.Guard) *AuditStatsQuery {
	return &AuditStatsQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[types.AuditStatsFilter, types.AuditStats] = (*AuditStatsQuery)(nil)

// Query returns aggregate counts per operation kind.
func (q *AuditStatsQuery) Query(ctx context.Context, filter types.AuditStatsFilter) (types.AuditStats, error) {
	if q.repo == nil {
		return types.AuditStats{}, types.ErrMissingAuditRepository
	}
	if _, err := q.guard.Enforce(ctx, filter.Actor, types.PolicyActionAuditRead, uuid.Nil); err != nil {
		return types.AuditStats{}, err
	}
	return q.repo.AuditStats(ctx, filter)
}

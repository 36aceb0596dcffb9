package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	"github.com/google/uuid"
)

// EngagementGetInput scopes single-engagement lookups.
type EngagementGetInput struct {
	ID    uuid.UUID
	Actor types.ActorRef
}

// EngagementGetQuery fetches one engagement within the actor's visibility.
type EngagementGetQuery struct {
	repo  types.EngagementRepository
	guard scope.Guard
}

// NewEngagementGetQuery constructs the lookup helper.
func NewEngagementGetQuery(repo types.EngagementRepository, guard scope.Guard) *EngagementGetQuery {
	return &EngagementGetQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[EngagementGetInput, *types.Engagement] = (*EngagementGetQuery)(nil)

// Query returns the engagement, or not-found outside the actor's scope.
func (q *EngagementGetQuery) Query(ctx context.Context, input EngagementGetInput) (*types.Engagement, error) {
	if q.repo == nil {
		return nil, types.ErrMissingEngagementRepository
	}
	if _, err := q.guard.Enforce(ctx, input.Actor, types.PolicyActionEngagementsRead, input.ID); err != nil {
		return nil, err
	}
	return q.repo.GetEngagement(ctx, input.Actor, input.ID)
}

// EngagementListQuery renders calendar-style engagement listings with
// company/contact/type and date-range filters.
type EngagementListQuery struct {
	repo  types.EngagementRepository
	guard scope.Guard
}

// NewEngagementListQuery constructs the listing helper.
func NewEngagementListQuery(repo types.EngagementRepository, guard scope.Guard) *EngagementListQuery {
	return &EngagementListQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[types.EngagementFilter, types.EngagementPage] = (*EngagementListQuery)(nil)

// Query fetches a page of engagements visible to the actor.
func (q *EngagementListQuery) Query(ctx context.Context, filter types.EngagementFilter) (types.EngagementPage, error) {
	if q.repo == nil {
		return types.EngagementPage{}, types.ErrMissingEngagementRepository
	}
	if _, err := q.guard.Enforce(ctx, filter.Actor, types.PolicyActionEngagementsRead, uuid.Nil); err != nil {
		return types.EngagementPage{}, err
	}
	return q.repo.ListEngagements(ctx, filter)
}

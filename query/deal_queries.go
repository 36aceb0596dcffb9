package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	"github.com/google/uuid"
)

// DealGetInput scopes single-deal lookups.
type DealGetInput struct {
	ID    uuid.UUID
	Actor types.ActorRef
}

// DealGetQuery fetches one deal, contact links included.
type DealGetQuery struct {
	repo  types.DealRepository
	guard scope.Guard
}

// NewDealGetQuery constructs the lookup helper.
func NewDealGetQuery(repo types.DealRepository, guard scope.Guard) *DealGetQuery {
	return &DealGetQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[DealGetInput, *types.Deal] = (*DealGetQuery)(nil)

// Query returns the deal, or not-found outside the actor's scope.
func (q *DealGetQuery) Query(ctx context.Context, input DealGetInput) (*types.Deal, error) {
	if q.repo == nil {
		return nil, types.ErrMissingDealRepository
	}
	if _, err := q.guard.Enforce(ctx, input.Actor, types.PolicyActionDealsRead, input.ID); err != nil {
		return nil, err
	}
	return q.repo.GetDeal(ctx, input.Actor, input.ID)
}

// DealListQuery renders pipeline/kanban deal listings.
type DealListQuery struct {
	repo  types.DealRepository
	guard scope.Guard
}

// NewDealListQuery constructs the listing helper.
func NewDealListQuery(repo types.DealRepository, guard scope.Guard) *DealListQuery {
	return &DealListQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[types.DealFilter, types.DealPage] = (*DealListQuery)(nil)

// Query fetches a page of deals visible to the actor.
func (q *DealListQuery) Query(ctx context.Context, filter types.DealFilter) (types.DealPage, error) {
	if q.repo == nil {
		return types.DealPage{}, types.ErrMissingDealRepository
	}
	if _, err := q.guard.Enforce(ctx, filter.Actor, types.PolicyActionDealsRead, uuid.Nil); err != nil {
		return types.DealPage{}, err
	}
	return q.repo.ListDeals(ctx, filter)
}

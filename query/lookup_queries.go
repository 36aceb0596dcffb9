package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	"github.com/google/uuid"
)

// LookupListInput selects one lookup table within the actor's visibility.
type LookupListInput struct {
	Kind  types.LookupKind
	Actor types.ActorRef
}

// LookupListQuery lists the entries of a lookup table in display order.
type LookupListQuery struct {
	repo  types.LookupRepository
	guard scope.Guard
}

// NewLookupListQuery constructs the listing helper.
func NewLookupListQuery(repo types.LookupRepository, guard scope.Guard) *LookupListQuery {
	return &LookupListQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[LookupListInput, []types.LookupEntry] = (*LookupListQuery)(nil)

// Query returns the lookup entries visible to the actor, ordered by position
// then name.
func (q *LookupListQuery) Query(ctx context.Context, input LookupListInput) ([]types.LookupEntry, error) {
	if q.repo == nil {
		return nil, types.ErrMissingLookupRepository
	}
	if _, err := q.guard.Enforce(ctx, input.Actor, types.PolicyActionLookupsRead, uuid.Nil); err != nil {
		return nil, err
	}
	return q.repo.ListLookup(ctx, input.Actor, input.Kind)
}

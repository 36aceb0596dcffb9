package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	"github.com/google/uuid"
)

// ContactGetInput scopes single-contact lookups.
type ContactGetInput struct {
	ID    uuid.UUID
	Actor types.ActorRef
}

// ContactGetQuery fetches one contact within the actor's visibility.
type ContactGetQuery struct {
	repo  types.ContactRepository
	guard scope.Guard
}

// NewContactGetQuery constructs the lookup helper.
func NewContactGetQuery(repo types.ContactRepository, guard scope.Guard) *ContactGetQuery {
	return &ContactGetQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[ContactGetInput, *types.Contact] = (*ContactGetQuery)(nil)

// Query returns the contact, or not-found outside the actor's scope.
func (q *ContactGetQuery) Query(ctx context.Context, input ContactGetInput) (*types.Contact, error) {
	if q.repo == nil {
		return nil, types.ErrMissingContactRepository
	}
	if _, err := q.guard.Enforce(ctx, input.Actor, types.PolicyActionContactsRead, input.ID); err != nil {
		return nil, err
	}
	return q.repo.GetContact(ctx, input.Actor, input.ID)
}

// ContactListQuery renders paginated, filtered contact listings.
type ContactListQuery struct {
	repo  types.ContactRepository
	guard scope.Guard
}

// NewContactListQuery constructs the listing helper.
func NewContactListQuery(repo types.ContactRepository, guard scope.Guard) *ContactListQuery {
	return &ContactListQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[types.ContactFilter, types.ContactPage] = (*ContactListQuery)(nil)

// Query fetches a page of contacts visible to the actor.
func (q *ContactListQuery) Query(ctx context.Context, filter types.ContactFilter) (types.ContactPage, error) {
	if q.repo == nil {
		return types.ContactPage{}, types.ErrMissingContactRepository
	}
	if _, err := q.guard.Enforce(ctx, filter.Actor, types.PolicyActionContactsRead, uuid.Nil); err != nil {
		return types.ContactPage{}, err
	}
	return q.repo.ListContacts(ctx, filter)
}

package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	"github.com/google/uuid"
)

// CompanyGetInput scopes single-company lookups.
type CompanyGetInput struct {
	ID    uuid.UUID
	Actor types.ActorRef
}

// CompanyGetQuery fetches one company within the actor's visibility.
type CompanyGetQuery struct {
	repo  types.CompanyRepository
	guard scope.Guard
}

// NewCompanyGetQuery constructs the lookup helper.
func NewCompanyGetQuery(repo types.CompanyRepository, guard scope.Guard) *CompanyGetQuery {
	return &CompanyGetQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[CompanyGetInput, *types.Company] = (*CompanyGetQuery)(nil)

// Query returns the company, or not-found when it sits outside the actor's
// tenant scope.
func (q *CompanyGetQuery) Query(ctx context.Context, input CompanyGetInput) (*types.Company, error) {
	if q.repo == nil {
		return nil, types.ErrMissingCompanyRepository
	}
	if _, err := q.guard.Enforce(ctx, input.Actor, types.PolicyActionCompaniesRead, input.ID); err != nil {
		return nil, err
	}
	return q.repo.GetCompany(ctx, input.Actor, input.ID)
}

// CompanyListQuery renders paginated, filtered company listings.
type CompanyListQuery struct {
	repo  types.CompanyRepository
	guard scope.Guard
}

// NewCompanyListQuery constructs the listing helper.
func NewCompanyListQuery(repo types.CompanyRepository, guard scope.Guard) *CompanyListQuery {
	return &CompanyListQuery{
		repo:  repo,
		guard: safeScopeGuard(guard),
	}
}

var _ gocommand.Querier[types.CompanyFilter, types.CompanyPage] = (*CompanyListQuery)(nil)

// Query fetches a page of companies visible to the actor.
func (q *CompanyListQuery) Query(ctx context.Context, filter types.CompanyFilter) (types.CompanyPage, error) {
	if q.repo == nil {
		return types.CompanyPage{}, types.ErrMissingCompanyRepository
	}
	if _, err := q.guard.Enforce(ctx, filter.Actor, types.PolicyActionCompaniesRead, uuid.Nil); err != nil {
		return types.CompanyPage{}, err
	}
	return q.repo.ListCompanies(ctx, filter)
}

package scope

import (
	"github.com/goliatone/go-crm/pkg/types"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SelectCriteria returns the tenant restriction clause for the resolved
// visibility. The clause composes with caller-supplied criteria via AND; the
// OR between tenant match and tenant-null lives inside the clause itself.
func SelectCriteria(visibility types.Visibility) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if visibility.Unrestricted {
			return q
		}
		return q.Where("(tenant_id = ? OR tenant_id IS NULL)", visibility.TenantID)
	}
}

// AssignTenant implements the creation half of the assignment guard: when the
// caller did not set a tenant and the actor belongs to one, the row is
// stamped with the actor's tenant. Admin and tenant-less actors leave the
// value as provided (possibly null).
func AssignTenant(actor types.ActorRef, requested uuid.UUID) uuid.UUID {
	if requested != uuid.Nil {
		return requested
	}
	if actor.Present() && actor.Tenanted() {
		return actor.TenantID
	}
	return requested
}

// GuardTenantChange implements the update half of the assignment guard: a
// non-admin actor cannot move a row between tenants. The change is reverted
// silently; no error surfaces to the caller.
func GuardTenantChange(actor types.ActorRef, original, requested uuid.UUID) uuid.UUID {
	if original == requested {
		return original
	}
	if original == uuid.Nil {
		// Rows without a tenant may be claimed; the creation rule applies.
		return requested
	}
	if actor.Present() && !actor.Admin {
		return original
	}
	return requested
}

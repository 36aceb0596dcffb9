package scope

import (
	"context"

	"github.com/goliatone/go-crm/pkg/types"
	"github.com/google/uuid"
)

// Resolve computes the read visibility for an actor:
//   - no actor resolved: unrestricted (unauthenticated paths apply no
//     restriction, matching the legacy behavior; see DESIGN.md)
//   - admin: unrestricted
//   - non-admin without a tenant: unrestricted (legacy gap, kept deliberately)
//   - non-admin with tenant T: rows where tenant_id = T or tenant_id is null
func Resolve(actor types.ActorRef) types.Visibility {
	if !actor.Present() {
		return types.Visibility{Unrestricted: true}
	}
	if actor.Admin {
		return types.Visibility{Unrestricted: true}
	}
	if !actor.Tenanted() {
		return types.Visibility{Unrestricted: true}
	}
	return types.Visibility{TenantID: actor.TenantID}
}

// Guard enforces visibility resolution and authorization policies for
// commands and queries. It is intentionally small so callers can swap custom
// guards in tests if needed.
type Guard interface {
	Enforce(ctx context.Context, actor types.ActorRef, action types.PolicyAction, target uuid.UUID) (types.Visibility, error)
}

type guard struct {
	policy types.AuthorizationPolicy
}

// NewGuard builds a Guard from the supplied authorization policy. A nil
// policy is treated as allow-all; the tenant visibility rule always applies.
func NewGuard(policy types.AuthorizationPolicy) Guard {
	return guard{policy: policy}
}

// Ensure returns a non-nil guard so command/query constructors can accept nil
// guards when tests instantiate them directly.
func Ensure(g Guard) Guard {
	if g == nil {
		return guard{}
	}
	return g
}

// NopGuard returns a guard that resolves visibility and never blocks.
func NopGuard() Guard {
	return guard{}
}

// Enforce resolves the actor's visibility and authorizes the action.
func (g guard) Enforce(ctx context.Context, actor types.ActorRef, action types.PolicyAction, target uuid.UUID) (types.Visibility, error) {
	visibility := Resolve(actor)
	if g.policy != nil && action != "" {
		check := types.PolicyCheck{
			Actor:    actor,
			Scope:    visibility,
			Action:   action,
			TargetID: target,
		}
		if err := g.policy.Authorize(ctx, check); err != nil {
			return types.Visibility{}, err
		}
	}
	return visibility, nil
}

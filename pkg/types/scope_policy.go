package types

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// PolicyAction enumerates the authorization actions enforced by the scope
// guard. Host applications can remap these actions to their own ACL systems.
type PolicyAction string

const (
	PolicyActionCompaniesRead    PolicyAction = "companies:read"
	PolicyActionCompaniesWrite   PolicyAction = "companies:write"
	PolicyActionContactsRead     PolicyAction = "contacts:read"
	PolicyActionContactsWrite    PolicyAction = "contacts:write"
	PolicyActionEngagementsRead  PolicyAction = "engagements:read"
	PolicyActionEngagementsWrite PolicyAction = "engagements:write"
	PolicyActionDealsRead        PolicyAction = "deals:read"
	PolicyActionDealsWrite       PolicyAction = "deals:write"
	PolicyActionAuditRead        PolicyAction = "audit:read"
	PolicyActionLookupsRead      PolicyAction = "lookups:read"
	PolicyActionLookupsWrite     PolicyAction = "lookups:write"
)

// PolicyCheck captures the authorization context for a single command/query.
type PolicyCheck struct {
	Actor    ActorRef
	Scope    Visibility
	Action   PolicyAction
	TargetID uuid.UUID
}

// AuthorizationPolicy governs whether an actor can perform the supplied
// action. The tenant visibility rule itself is fixed; policies layer extra
// restrictions on top (role checks, per-module permissions).
type AuthorizationPolicy interface {
	Authorize(ctx context.Context, check PolicyCheck) error
}

// AuthorizationPolicyFunc adapts bare functions to AuthorizationPolicy.
type AuthorizationPolicyFunc func(ctx context.Context, check PolicyCheck) error

// Authorize implements AuthorizationPolicy.
func (f AuthorizationPolicyFunc) Authorize(ctx context.Context, check PolicyCheck) error {
	return f(ctx, check)
}

var (
	// ErrUnauthorizedScope indicates the actor is not authorized for the
	// action according to the configured authorization policy.
	ErrUnauthorizedScope = errors.New("go-crm: actor not authorized for scope")
)

// AllowAllAuthorizationPolicy allows every action/scope combination.
type AllowAllAuthorizationPolicy struct{}

// Authorize implements AuthorizationPolicy.
func (AllowAllAuthorizationPolicy) Authorize(context.Context, PolicyCheck) error {
	return nil
}

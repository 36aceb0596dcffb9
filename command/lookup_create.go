package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	"github.com/google/uuid"
)

// LookupCreateInput captures a new lookup entry (engagement type, deal type
// or contact role).
type LookupCreateInput struct {
	Kind   types.LookupKind
	Entry  types.LookupEntry
	Actor  types.ActorRef
	Result *types.LookupEntry
}

// Type implements gocommand.Message.
func (LookupCreateInput) Type() string {
	return "command.lookup.create"
}

// Validate implements gocommand.Message.
func (input LookupCreateInput) Validate() error {
	if !types.ValidLookupKind(input.Kind) {
		return ErrInvalidLookupKind
	}
	if strings.TrimSpace(input.Entry.Name) == "" {
		return ErrLookupNameRequired
	}
	return nil
}

// LookupCreateCommand adds entries to the tenant-scoped lookup tables.
// Lookup rows are configuration, not CRM records, so no audit trail is
// written for them.
type LookupCreateCommand struct {
	repo   types.LookupRepository
	logger types.Logger
	guard  scope.Guard
}

// LookupCreateCommandConfig wires dependencies for the create command.
type LookupCreateCommandConfig struct {
	Repository types.LookupRepository
	Logger     types.Logger
	ScopeGuard scope.Guard
}

// NewLookupCreateCommand constructs the create handler.
func NewLookupCreateCommand(cfg LookupCreateCommandConfig) *LookupCreateCommand {
	return &LookupCreateCommand{
		repo:   cfg.Repository,
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
	}
}

var _ gocommand.Commander[LookupCreateInput] = (*LookupCreateCommand)(nil)

// Execute creates the lookup entry under the actor's tenant.
func (c *LookupCreateCommand) Execute(ctx context.Context, input LookupCreateInput) error {
	if c.repo == nil {
		return types.ErrMissingLookupRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if _, err := c.guard.Enforce(ctx, input.Actor, types.PolicyActionLookupsWrite, uuid.Nil); err != nil {
		return err
	}

	created, err := c.repo.CreateLookup(ctx, input.Actor, input.Kind, input.Entry)
	if err != nil {
		return err
	}

	if input.Result != nil {
		*input.Result = *created
	}
	return nil
}

package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm/audit"
	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	"github.com/google/uuid"
)

// ContactUpdateInput captures a partial contact update.
type ContactUpdateInput struct {
	ID     uuid.UUID
	Patch  types.ContactPatch
	Actor  types.ActorRef
	Result *types.Contact
}

// Type implements gocommand.Message.
func (ContactUpdateInput) Type() string {
	return "command.contact.update"
}

// Validate implements gocommand.Message.
func (input ContactUpdateInput) Validate() error {
	if input.ID == uuid.Nil {
		return ErrContactIDRequired
	}
	return nil
}

// ContactUpdateCommand applies partial updates and logs alterations when at
// least one field actually changed.
type ContactUpdateCommand struct {
	repo   types.ContactRepository
	clock  types.Clock
	sink   types.AuditSink
	hooks  types.Hooks
	logger types.Logger
	guard  scope.Guard
}

// ContactUpdateCommandConfig wires dependencies for the update command.
type ContactUpdateCommandConfig struct {
	Repository types.ContactRepository
	Clock      types.Clock
	Audit      types.AuditSink
	Hooks      types.Hooks
	Logger     types.Logger
	ScopeGuard scope.Guard
}

// NewContactUpdateCommand constructs the update handler.
func NewContactUpdateCommand(cfg ContactUpdateCommandConfig) *ContactUpdateCommand {
	return &ContactUpdateCommand{
		repo:   cfg.Repository,
		clock:  safeClock(cfg.Clock),
		sink:   cfg.Audit,
		hooks:  safeHooks(cfg.Hooks),
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
	}
}

var _ gocommand.Commander[ContactUpdateInput] = (*ContactUpdateCommand)(nil)

// Execute updates the contact and logs the before/after states.
func (c *ContactUpdateCommand) Execute(ctx context.Context, input ContactUpdateInput) error {
	if c.repo == nil {
		return types.ErrMissingContactRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if _, err := c.guard.Enforce(ctx, input.Actor, types.PolicyActionContactsWrite, input.ID); err != nil {
		return err
	}

	prior, err := c.repo.GetContact(ctx, input.Actor, input.ID)
	if err != nil {
		return err
	}
	priorSnapshot := audit.ContactSnapshot(*prior)

	updated, err := c.repo.UpdateContact(ctx, input.Actor, input.ID, input.Patch)
	if err != nil {
		return err
	}
	newSnapshot := audit.ContactSnapshot(*updated)

	if audit.Changed(priorSnapshot, newSnapshot) {
		entry := types.AuditEntry{
			EntityType:  types.EntityTypeContact,
			EntityID:    updated.ID,
			ActorID:     input.Actor.ID,
			TenantID:    updated.TenantID,
			Kind:        types.OperationAlteration,
			Description: audit.Describe(types.OperationAlteration, types.EntityTypeContact, input.Actor.Name),
			Prior:       priorSnapshot,
			New:         newSnapshot,
			CreatedAt:   now(c.clock),
		}
		recordAudit(ctx, c.sink, entry)
		emitAuditHook(ctx, c.hooks, entry)
	}

	if input.Result != nil {
		*input.Result = *updated
	}
	return nil
}

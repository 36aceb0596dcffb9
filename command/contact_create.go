package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm/audit"
	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	"github.com/google/uuid"
)

// ContactCreateInput captures the payload for contact creation.
type ContactCreateInput struct {
	Contact types.Contact
	Actor   types.ActorRef
	Result  *types.Contact
}

// Type implements gocommand.Message.
func (ContactCreateInput) Type() string {
	return "command.contact.create"
}

// Validate implements gocommand.Message.
func (input ContactCreateInput) Validate() error {
	if strings.TrimSpace(input.Contact.FirstName) == "" {
		return ErrContactNameRequired
	}
	return nil
}

// ContactCreateCommand creates contacts and records the creation trail.
type ContactCreateCommand struct {
	repo   types.ContactRepository
	clock  types.Clock
	sink   types.AuditSink
	hooks  types.Hooks
	logger types.Logger
	guard  scope.Guard
}

// ContactCreateCommandConfig wires dependencies for the create command.
type ContactCreateCommandConfig struct {
	Repository types.ContactRepository
	Clock      types.Clock
	Audit      types.AuditSink
	Hooks      types.Hooks
	Logger     types.Logger
	ScopeGuard scope.Guard
}

// NewContactCreateCommand constructs the create handler.
func NewContactCreateCommand(cfg ContactCreateCommandConfig) *ContactCreateCommand {
	return &ContactCreateCommand{
		repo:   cfg.Repository,
		clock:  safeClock(cfg.Clock),
		sink:   cfg.Audit,
		hooks:  safeHooks(cfg.Hooks),
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
	}
}

var _ gocommand.Commander[ContactCreateInput] = (*ContactCreateCommand)(nil)

// Execute creates the contact and logs the creation.
func (c *ContactCreateCommand) Execute(ctx context.Context, input ContactCreateInput) error {
	if c.repo == nil {
		return types.ErrMissingContactRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if _, err := c.guard.Enforce(ctx, input.Actor, types.PolicyActionContactsWrite, uuid.Nil); err != nil {
		return err
	}

	created, err := c.repo.CreateContact(ctx, input.Actor, input.Contact)
	if err != nil {
		return err
	}

	entry := types.AuditEntry{
		EntityType:  types.EntityTypeContact,
		EntityID:    created.ID,
		ActorID:     input.Actor.ID,
		TenantID:    created.TenantID,
		Kind:        types.OperationCreation,
		Description: audit.Describe(types.OperationCreation, types.EntityTypeContact, input.Actor.Name),
		New:         audit.ContactSnapshot(*created),
		CreatedAt:   now(c.clock),
	}
	recordAudit(ctx, c.sink, entry)
	emitAuditHook(ctx, c.hooks, entry)

	if input.Result != nil {
		*input.Result = *created
	}
	return nil
}

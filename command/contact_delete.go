package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm/audit"
	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	"github.com/goliatone/go-crm/store"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ContactDeleteInput captures a contact removal request.
type ContactDeleteInput struct {
	ID     uuid.UUID
	Actor  types.ActorRef
	Result *types.DeleteEvent
}

// Type implements gocommand.Message.
func (ContactDeleteInput) Type() string {
	return "command.contact.delete"
}

// Validate implements gocommand.Message.
func (input ContactDeleteInput) Validate() error {
	if input.ID == uuid.Nil {
		return ErrContactIDRequired
	}
	return nil
}

// ContactDeleteCommand removes a contact, its engagements and its deal links
// in one transaction.
type ContactDeleteCommand struct {
	db     *bun.DB
	repo   types.ContactRepository
	clock  types.Clock
	sink   types.AuditSink
	hooks  types.Hooks
	logger types.Logger
	guard  scope.Guard
}

// ContactDeleteCommandConfig wires dependencies for the delete command.
type ContactDeleteCommandConfig struct {
	DB         *bun.DB
	Repository types.ContactRepository
	Clock      types.Clock
	Audit      types.AuditSink
	Hooks      types.Hooks
	Logger     types.Logger
	ScopeGuard scope.Guard
}

// NewContactDeleteCommand constructs the delete handler.
func NewContactDeleteCommand(cfg ContactDeleteCommandConfig) *ContactDeleteCommand {
	return &ContactDeleteCommand{
		db:     cfg.DB,
		repo:   cfg.Repository,
		clock:  safeClock(cfg.Clock),
		sink:   cfg.Audit,
		hooks:  safeHooks(cfg.Hooks),
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
	}
}

var _ gocommand.Commander[ContactDeleteInput] = (*ContactDeleteCommand)(nil)

// Execute deletes the contact subtree with the deletion log inside the
// transaction.
func (c *ContactDeleteCommand) Execute(ctx context.Context, input ContactDeleteInput) error {
	if c.db == nil {
		return types.ErrMissingDB
	}
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

	occurredAt := now(c.clock)
	entry := types.AuditEntry{
		EntityType:  types.EntityTypeContact,
		EntityID:    prior.ID,
		ActorID:     input.Actor.ID,
		TenantID:    prior.TenantID,
		Kind:        types.OperationDeletion,
		Description: audit.Describe(types.OperationDeletion, types.EntityTypeContact, input.Actor.Name),
		Prior:       audit.ContactSnapshot(*prior),
		CreatedAt:   occurredAt,
	}

	err = c.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := recordAuditTx(ctx, c.sink, tx, entry); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*store.EngagementModel)(nil)).
			Where("contact_id = ?", input.ID).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*store.DealContactModel)(nil)).
			Where("contact_id = ?", input.ID).
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().
			Model((*store.ContactModel)(nil)).
			Where("id = ?", input.ID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}

	event := types.DeleteEvent{
		EntityType: types.EntityTypeContact,
		EntityID:   prior.ID,
		ActorID:    input.Actor.ID,
		TenantID:   prior.TenantID,
		OccurredAt: occurredAt,
	}
	emitAuditHook(ctx, c.hooks, entry)
	emitDeleteHook(ctx, c.hooks, event)

	if input.Result != nil {
		*input.Result = event
	}
	return nil
}

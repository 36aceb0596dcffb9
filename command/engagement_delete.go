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

// EngagementDeleteInput captures an engagement removal request.
type EngagementDeleteInput struct {
	ID     uuid.UUID
	Actor  types.ActorRef
	Result *types.DeleteEvent
}

// Type implements gocommand.Message.
func (EngagementDeleteInput) Type() string {
	return "command.engagement.delete"
}

// Validate implements gocommand.Message.
func (input EngagementDeleteInput) Validate() error {
	if input.ID == uuid.Nil {
		return ErrEngagementIDRequired
	}
	return nil
}

// EngagementDeleteCommand removes a single engagement. Engagements are leaf
// rows, but the removal still shares a transaction with its deletion log.
type EngagementDeleteCommand struct {
	db     *bun.DB
	repo   types.EngagementRepository
	clock  types.Clock
	sink   types.AuditSink
	hooks  types.Hooks
	logger types.Logger
	guard  scope.Guard
}

// EngagementDeleteCommandConfig wires dependencies for the delete command.
type EngagementDeleteCommandConfig struct {
	DB         *bun.DB
	Repository types.EngagementRepository
	Clock      types.Clock
	Audit      types.AuditSink
	Hooks      types.Hooks
	Logger     types.Logger
	ScopeGuard scope.Guard
}

// NewEngagementDeleteCommand constructs the delete handler.
func NewEngagementDeleteCommand(cfg EngagementDeleteCommandConfig) *EngagementDeleteCommand {
	return &EngagementDeleteCommand{
		db:     cfg.DB,
		repo:   cfg.Repository,
		clock:  safeClock(cfg.Clock),
		sink:   cfg.Audit,
		hooks:  safeHooks(cfg.Hooks),
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
	}
}

var _ gocommand.Commander[EngagementDeleteInput] = (*EngagementDeleteCommand)(nil)

// Execute deletes the engagement with its deletion log in the same
// transaction.
func (c *EngagementDeleteCommand) Execute(ctx context.Context, input EngagementDeleteInput) error {
	if c.db == nil {
		return types.ErrMissingDB
	}
	if c.repo == nil {
		return types.ErrMissingEngagementRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if _, err := c.guard.Enforce(ctx, input.Actor, types.PolicyActionEngagementsWrite, input.ID); err != nil {
		return err
	}

	prior, err := c.repo.GetEngagement(ctx, input.Actor, input.ID)
	if err != nil {
		return err
	}

	occurredAt := now(c.clock)
	entry := types.AuditEntry{
		EntityType:  types.EntityTypeEngagement,
		EntityID:    prior.ID,
		ActorID:     input.Actor.ID,
		TenantID:    prior.TenantID,
		Kind:        types.OperationDeletion,
		Description: audit.Describe(types.OperationDeletion, types.EntityTypeEngagement, input.Actor.Name),
		Prior:       audit.EngagementSnapshot(*prior),
		CreatedAt:   occurredAt,
	}

	err = c.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := recordAuditTx(ctx, c.sink, tx, entry); err != nil {
			return err
		}
		_, err := tx.NewDelete().
			Model((*store.EngagementModel)(nil)).
			Where("id = ?", input.ID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}

	event := types.DeleteEvent{
		EntityType: types.EntityTypeEngagement,
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

package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm/audit"
	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	"github.com/goliatone/go-crm/store"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DealDeleteInput captures a deal removal request.
type DealDeleteInput struct {
	ID     uuid.UUID
	Actor  types.ActorRef
	Result *types.DeleteEvent
}

// Type implements gocommand.Message.
func (DealDeleteInput) Type() string {
	return "command.deal.delete"
}

// Validate implements gocommand.Message.
func (input DealDeleteInput) Validate() error {
	if input.ID == uuid.Nil {
		return ErrDealIDRequired
	}
	return nil
}

// DealDeleteCommand removes a deal and its contact links. The link cleanup
// and the deletion log share one transaction with the row removal.
type DealDeleteCommand struct {
	db     *bun.DB
	repo   types.DealRepository
	clock  types.Clock
	sink   types.AuditSink
	hooks  types.Hooks
	logger types.Logger
	guard  scope.Guard
	gate   featuregate.FeatureGate
}

// DealDeleteCommandConfig wires dependencies for the delete command.
type DealDeleteCommandConfig struct {
	DB          *bun.DB
	Repository  types.DealRepository
	Clock       types.Clock
	Audit       types.AuditSink
	Hooks       types.Hooks
	Logger      types.Logger
	ScopeGuard  scope.Guard
	FeatureGate featuregate.FeatureGate
}

// NewDealDeleteCommand constructs the delete handler.
func NewDealDeleteCommand(cfg DealDeleteCommandConfig) *DealDeleteCommand {
	return &DealDeleteCommand{
		db:     cfg.DB,
		repo:   cfg.Repository,
		clock:  safeClock(cfg.Clock),
		sink:   cfg.Audit,
		hooks:  safeHooks(cfg.Hooks),
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
		gate:   cfg.FeatureGate,
	}
}

var _ gocommand.Commander[DealDeleteInput] = (*DealDeleteCommand)(nil)

// Execute deletes the deal, contact links first. The deletion log is written
// inside the transaction so it never survives a rolled back delete.
func (c *DealDeleteCommand) Execute(ctx context.Context, input DealDeleteInput) error {
	if c.db == nil {
		return types.ErrMissingDB
	}
	if c.repo == nil {
		return types.ErrMissingDealRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	enabled, err := featureEnabled(ctx, c.gate, featureDeals, input.Actor)
	if err != nil {
		return err
	}
	if !enabled {
		return ErrDealsDisabled
	}
	if _, err := c.guard.Enforce(ctx, input.Actor, types.PolicyActionDealsWrite, input.ID); err != nil {
		return err
	}

	prior, err := c.repo.GetDeal(ctx, input.Actor, input.ID)
	if err != nil {
		return err
	}

	occurredAt := now(c.clock)
	entry := types.AuditEntry{
		EntityType:  types.EntityTypeDeal,
		EntityID:    prior.ID,
		ActorID:     input.Actor.ID,
		TenantID:    prior.TenantID,
		Kind:        types.OperationDeletion,
		Description: audit.Describe(types.OperationDeletion, types.EntityTypeDeal, input.Actor.Name),
		Prior:       audit.DealSnapshot(*prior),
		CreatedAt:   occurredAt,
	}

	err = c.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := recordAuditTx(ctx, c.sink, tx, entry); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*store.DealContactModel)(nil)).
			Where("deal_id = ?", input.ID).
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().
			Model((*store.DealModel)(nil)).
			Where("id = ?", input.ID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}

	event := types.DeleteEvent{
		EntityType: types.EntityTypeDeal,
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

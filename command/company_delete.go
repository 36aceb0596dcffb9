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

// CompanyDeleteInput captures a company removal request.
type CompanyDeleteInput struct {
	ID     uuid.UUID
	Actor  types.ActorRef
	Result *types.DeleteEvent
}

// Type implements gocommand.Message.
func (CompanyDeleteInput) Type() string {
	return "command.company.delete"
}

// Validate implements gocommand.Message.
func (input CompanyDeleteInput) Validate() error {
	if input.ID == uuid.Nil {
		return ErrCompanyIDRequired
	}
	return nil
}

// CompanyDeleteCommand removes a company and everything hanging off it:
// engagements, contacts, deal contact links, then deals. The whole cascade
// plus the deletion log runs in one transaction.
type CompanyDeleteCommand struct {
	db     *bun.DB
	repo   types.CompanyRepository
	clock  types.Clock
	sink   types.AuditSink
	hooks  types.Hooks
	logger types.Logger
	guard  scope.Guard
}

// CompanyDeleteCommandConfig wires dependencies for the delete command.
type CompanyDeleteCommandConfig struct {
	DB         *bun.DB
	Repository types.CompanyRepository
	Clock      types.Clock
	Audit      types.AuditSink
	Hooks      types.Hooks
	Logger     types.Logger
	ScopeGuard scope.Guard
}

// NewCompanyDeleteCommand constructs the delete handler.
func NewCompanyDeleteCommand(cfg CompanyDeleteCommandConfig) *CompanyDeleteCommand {
	return &CompanyDeleteCommand{
		db:     cfg.DB,
		repo:   cfg.Repository,
		clock:  safeClock(cfg.Clock),
		sink:   cfg.Audit,
		hooks:  safeHooks(cfg.Hooks),
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
	}
}

var _ gocommand.Commander[CompanyDeleteInput] = (*CompanyDeleteCommand)(nil)

// Execute deletes the company subtree. The deletion log is written first so
// it commits or rolls back together with the removals.
func (c *CompanyDeleteCommand) Execute(ctx context.Context, input CompanyDeleteInput) error {
	if c.db == nil {
		return types.ErrMissingDB
	}
	if c.repo == nil {
		return types.ErrMissingCompanyRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if _, err := c.guard.Enforce(ctx, input.Actor, types.PolicyActionCompaniesWrite, input.ID); err != nil {
		return err
	}

	prior, err := c.repo.GetCompany(ctx, input.Actor, input.ID)
	if err != nil {
		return err
	}

	occurredAt := now(c.clock)
	entry := types.AuditEntry{
		EntityType:  types.EntityTypeCompany,
		EntityID:    prior.ID,
		ActorID:     input.Actor.ID,
		TenantID:    prior.TenantID,
		Kind:        types.OperationDeletion,
		Description: audit.Describe(types.OperationDeletion, types.EntityTypeCompany, input.Actor.Name),
		Prior:       audit.CompanySnapshot(*prior),
		CreatedAt:   occurredAt,
	}

	err = c.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := recordAuditTx(ctx, c.sink, tx, entry); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*store.EngagementModel)(nil)).
			Where("company_id = ?", input.ID).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*store.ContactModel)(nil)).
			Where("company_id = ?", input.ID).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*store.DealContactModel)(nil)).
			Where("deal_id IN (SELECT id FROM crm_deals WHERE company_id = ?)", input.ID).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*store.DealModel)(nil)).
			Where("company_id = ?", input.ID).
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().
			Model((*store.CompanyModel)(nil)).
			Where("id = ?", input.ID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}

	event := types.DeleteEvent{
		EntityType: types.EntityTypeCompany,
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

package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm/audit"
	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/google/uuid"
)

// DealCreateInput captures the payload for deal creation.
type DealCreateInput struct {
	Deal   types.Deal
	Actor  types.ActorRef
	Result *types.Deal
}

// Type implements gocommand.Message.
func (DealCreateInput) Type() string {
	return "command.deal.create"
}

// Validate implements gocommand.Message.
func (input DealCreateInput) Validate() error {
	if strings.TrimSpace(input.Deal.Name) == "" {
		return ErrDealNameRequired
	}
	if input.Deal.Stage != "" && !types.ValidDealStage(input.Deal.Stage) {
		return ErrInvalidDealStage
	}
	return nil
}

// DealCreateCommand creates deals and records the creation trail. The deals
// module can be toggled per tenant via feature gate.
type DealCreateCommand struct {
	repo   types.DealRepository
	clock  types.Clock
	sink   types.AuditSink
	hooks  types.Hooks
	logger types.Logger
	guard  scope.Guard
	gate   featuregate.FeatureGate
}

// DealCreateCommandConfig wires dependencies for the create command.
type DealCreateCommandConfig struct {
	Repository  types.DealRepository
	Clock       types.Clock
	Audit       types.AuditSink
	Hooks       types.Hooks
	Logger      types.Logger
	ScopeGuard  scope.Guard
	FeatureGate featuregate.FeatureGate
}

// NewDealCreateCommand constructs the create handler.
func NewDealCreateCommand(cfg DealCreateCommandConfig) *DealCreateCommand {
	return &DealCreateCommand{
		repo:   cfg.Repository,
		clock:  safeClock(cfg.Clock),
		sink:   cfg.Audit,
		hooks:  safeHooks(cfg.Hooks),
		logger: safeLogger(cfg.Logger),
		guard:  safeScopeGuard(cfg.ScopeGuard),
		gate:   cfg.FeatureGate,
	}
}

var _ gocommand.Commander[DealCreateInput] = (*DealCreateCommand)(nil)

// Execute creates the deal and logs the creation.
func (c *DealCreateCommand) Execute(ctx context.Context, input DealCreateInput) error {
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
	if _, err := c.guard.Enforce(ctx, input.Actor, types.PolicyActionDealsWrite, uuid.Nil); err != nil {
		return err
	}

	created, err := c.repo.CreateDeal(ctx, input.Actor, input.Deal)
	if err != nil {
		return err
	}

	entry := types.AuditEntry{
		EntityType:  types.EntityTypeDeal,
		EntityID:    created.ID,
		ActorID:     input.Actor.ID,
		TenantID:    created.TenantID,
		Kind:        types.OperationCreation,
		Description: audit.Describe(types.OperationCreation, types.EntityTypeDeal, input.Actor.Name),
		New:         audit.DealSnapshot(*created),
		CreatedAt:   now(c.clock),
	}
	recordAudit(ctx, c.sink, entry)
	emitAuditHook(ctx, c.hooks, entry)

	if input.Result != nil {
		*input.Result = *created
	}
	return nil
}

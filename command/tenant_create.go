package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm/pkg/types"
)

// TenantCreateInput captures a new tenant organization.
type TenantCreateInput struct {
	Tenant types.Tenant
	Actor  types.ActorRef
	Result *types.Tenant
}

// Type implements gocommand.Message.
func (TenantCreateInput) Type() string {
	return "command.tenant.create"
}

// Validate implements gocommand.Message.
func (input TenantCreateInput) Validate() error {
	if strings.TrimSpace(input.Tenant.Name) == "" {
		return ErrTenantNameRequired
	}
	return nil
}

// TenantCreateCommand provisions tenants. Tenants sit above the visibility
// rule, so the command requires an admin actor instead of going through the
// scope guard.
type TenantCreateCommand struct {
	repo   types.TenantRepository
	logger types.Logger
}

// TenantCreateCommandConfig wires dependencies for the create command.
type TenantCreateCommandConfig struct {
	Repository types.TenantRepository
	Logger     types.Logger
}

// NewTenantCreateCommand constructs the create handler.
func NewTenantCreateCommand(cfg TenantCreateCommandConfig) *TenantCreateCommand {
	return &TenantCreateCommand{
		repo:   cfg.Repository,
		logger: safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[TenantCreateInput] = (*TenantCreateCommand)(nil)

// Execute creates the tenant. Only admin actors may provision tenants.
func (c *TenantCreateCommand) Execute(ctx context.Context, input TenantCreateInput) error {
	if c.repo == nil {
		return types.ErrMissingTenantRepository
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if !input.Actor.Admin {
		return ErrAdminRequired
	}

	created, err := c.repo.CreateTenant(ctx, input.Tenant)
	if err != nil {
		return err
	}

	if input.Result != nil {
		*input.Result = *created
	}
	return nil
}

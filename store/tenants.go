package store

import (
	"context"
	"errors"

	"github.com/goliatone/go-crm/pkg/types"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TenantStoreConfig wires the Bun-backed tenant store.
type TenantStoreConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*TenantModel]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type tenantStore interface {
	repository.Repository[*TenantModel]
}

// TenantStore persists tenant records. Tenants are not themselves scoped;
// callers restrict access to admins.
type TenantStore struct {
	tenantStore
	clock types.Clock
	idGen types.IDGenerator
}

// NewTenantStore constructs the default tenant store.
func NewTenantStore(cfg TenantStoreConfig) (*TenantStore, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("store: db or tenant repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*TenantModel]{
			NewRecord: func() *TenantModel { return &TenantModel{} },
			GetID: func(model *TenantModel) uuid.UUID {
				if model == nil {
					return uuid.Nil
				}
				return model.ID
			},
			SetID: func(model *TenantModel, id uuid.UUID) {
				if model != nil {
					model.ID = id
				}
			},
		})
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}

	return &TenantStore{
		tenantStore: repo,
		clock:       clock,
		idGen:       idGen,
	}, nil
}

var (
	_ repository.Repository[*TenantModel] = (*TenantStore)(nil)
	_ types.TenantRepository              = (*TenantStore)(nil)
)

// GetTenant fetches a tenant by ID.
func (s *TenantStore) GetTenant(ctx context.Context, id uuid.UUID) (*types.Tenant, error) {
	model, err := s.GetByID(ctx, id.String())
	if err != nil {
		return nil, err
	}
	return toTenant(model), nil
}

// ListTenants returns every tenant ordered by name.
func (s *TenantStore) ListTenants(ctx context.Context) ([]types.Tenant, error) {
	rows, _, err := s.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("name ASC")
	})
	if err != nil {
		return nil, err
	}
	tenants := make([]types.Tenant, 0, len(rows))
	for _, row := range rows {
		tenants = append(tenants, *toTenant(row))
	}
	return tenants, nil
}

// CreateTenant inserts a tenant record.
func (s *TenantStore) CreateTenant(ctx context.Context, tenant types.Tenant) (*types.Tenant, error) {
	now := s.clock.Now()
	model := &TenantModel{
		ID:          tenant.ID,
		Name:        tenant.Name,
		TaxID:       tenant.TaxID,
		Address:     tenant.Address,
		Phone:       tenant.Phone,
		Email:       tenant.Email,
		Active:      tenant.Active,
		TrialEndsAt: tenant.TrialEndsAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if model.ID == uuid.Nil {
		model.ID = s.idGen.UUID()
	}
	created, err := s.Create(ctx, model)
	if err != nil {
		return nil, err
	}
	return toTenant(created), nil
}

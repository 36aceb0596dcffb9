package store

import (
	"context"
	"errors"

	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CompanyStoreConfig wires the Bun-backed company store.
type CompanyStoreConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*CompanyModel]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type companyStore interface {
	repository.Repository[*CompanyModel]
}

// CompanyStore persists companies. Reads are narrowed to the actor's tenant
// visibility; writes stamp and guard the tenant assignment.
type CompanyStore struct {
	companyStore
	clock types.Clock
	idGen types.IDGenerator
}

// NewCompanyStore constructs the default company store.
func NewCompanyStore(cfg CompanyStoreConfig) (*CompanyStore, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("store: db or company repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*CompanyModel]{
			NewRecord: func() *CompanyModel { return &CompanyModel{} },
			GetID: func(model *CompanyModel) uuid.UUID {
				if model == nil {
					return uuid.Nil
				}
				return model.ID
			},
			SetID: func(model *CompanyModel, id uuid.UUID) {
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

	return &CompanyStore{
		companyStore: repo,
		clock:        clock,
		idGen:        idGen,
	}, nil
}

var (
	_ repository.Repository[*CompanyModel] = (*CompanyStore)(nil)
	_ types.CompanyRepository              = (*CompanyStore)(nil)
)

// GetCompany fetches a single company visible to the actor. Rows outside the
// actor's tenant scope surface as not found.
func (s *CompanyStore) GetCompany(ctx context.Context, actor types.ActorRef, id uuid.UUID) (*types.Company, error) {
	model, err := s.GetByID(ctx, id.String(), scope.SelectCriteria(scope.Resolve(actor)))
	if err != nil {
		return nil, err
	}
	return toCompany(model), nil
}

// ListCompanies returns a paginated, scope-filtered listing ordered by name.
func (s *CompanyStore) ListCompanies(ctx context.Context, filter types.CompanyFilter) (types.CompanyPage, error) {
	pagination := normalizePagination(filter.Pagination, 25, 100)
	criteria := []repository.SelectCriteria{
		scope.SelectCriteria(scope.Resolve(filter.Actor)),
		func(q *bun.SelectQuery) *bun.SelectQuery {
			if filter.Keyword != "" {
				pattern := keywordPattern(filter.Keyword)
				q = q.WhereGroup(" AND ", func(sq *bun.SelectQuery) *bun.SelectQuery {
					return sq.Where("lower(name) LIKE ?", pattern).
						WhereOr("lower(email) LIKE ?", pattern).
						WhereOr("lower(locality) LIKE ?", pattern)
				})
			}
			if filter.Status != "" {
				q = q.Where("status = ?", string(filter.Status))
			}
			if filter.Country != "" {
				q = q.Where("country = ?", filter.Country)
			}
			return q.OrderExpr("name ASC").
				Limit(pagination.Limit).
				Offset(pagination.Offset)
		},
	}

	rows, total, err := s.List(ctx, criteria...)
	if err != nil {
		return types.CompanyPage{}, err
	}
	companies := make([]types.Company, 0, len(rows))
	for _, row := range rows {
		companies = append(companies, *toCompany(row))
	}
	return types.CompanyPage{
		Companies:  companies,
		Total:      total,
		NextOffset: pagination.Offset + pagination.Limit,
		HasMore:    pagination.Offset+pagination.Limit < total,
	}, nil
}

// CreateCompany inserts a company. A zero TenantID is stamped from the
// actor's tenant; a caller-supplied value survives as-is.
func (s *CompanyStore) CreateCompany(ctx context.Context, actor types.ActorRef, company types.Company) (*types.Company, error) {
	now := s.clock.Now()
	model := &CompanyModel{
		ID:         company.ID,
		TenantID:   scope.AssignTenant(actor, company.TenantID),
		Name:       company.Name,
		Address:    company.Address,
		PostalCode: company.PostalCode,
		Locality:   company.Locality,
		Country:    company.Country,
		Phone:      company.Phone,
		Email:      company.Email,
		Website:    company.Website,
		Notes:      company.Notes,
		Status:     string(company.Status),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if model.ID == uuid.Nil {
		model.ID = s.idGen.UUID()
	}
	if model.Status == "" {
		model.Status = string(types.EntityStatusActive)
	}
	created, err := s.Create(ctx, model)
	if err != nil {
		return nil, err
	}
	return toCompany(created), nil
}

// UpdateCompany applies a partial update. Tenant reassignment by non-admin
// actors is silently reverted to the persisted value.
func (s *CompanyStore) UpdateCompany(ctx context.Context, actor types.ActorRef, id uuid.UUID, patch types.CompanyPatch) (*types.Company, error) {
	model, err := s.GetByID(ctx, id.String(), scope.SelectCriteria(scope.Resolve(actor)))
	if err != nil {
		return nil, err
	}
	original := model.TenantID

	if patch.Name != nil {
		model.Name = *patch.Name
	}
	if patch.Address != nil {
		model.Address = *patch.Address
	}
	if patch.PostalCode != nil {
		model.PostalCode = *patch.PostalCode
	}
	if patch.Locality != nil {
		model.Locality = *patch.Locality
	}
	if patch.Country != nil {
		model.Country = *patch.Country
	}
	if patch.Phone != nil {
		model.Phone = *patch.Phone
	}
	if patch.Email != nil {
		model.Email = *patch.Email
	}
	if patch.Website != nil {
		model.Website = *patch.Website
	}
	if patch.Notes != nil {
		model.Notes = *patch.Notes
	}
	if patch.Status != nil {
		model.Status = string(*patch.Status)
	}
	requested := original
	if patch.TenantID != nil {
		requested = *patch.TenantID
	}
	model.TenantID = scope.GuardTenantChange(actor, original, requested)
	model.UpdatedAt = s.clock.Now()

	updated, err := s.Update(ctx, model)
	if err != nil {
		return nil, err
	}
	return toCompany(updated), nil
}

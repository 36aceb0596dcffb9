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

// ContactStoreConfig wires the Bun-backed contact store.
type ContactStoreConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*ContactModel]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type contactStore interface {
	repository.Repository[*ContactModel]
}

// ContactStore persists contacts.
type ContactStore struct {
	contactStore
	clock types.Clock
	idGen types.IDGenerator
}

// NewContactStore constructs the default contact store.
func NewContactStore(cfg ContactStoreConfig) (*ContactStore, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("store: db or contact repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*ContactModel]{
			NewRecord: func() *ContactModel { return &ContactModel{} },
			GetID: func(model *ContactModel) uuid.UUID {
				if model == nil {
					return uuid.Nil
				}
				return model.ID
			},
			SetID: func(model *ContactModel, id uuid.UUID) {
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

	return &ContactStore{
		contactStore: repo,
		clock:        clock,
		idGen:        idGen,
	}, nil
}

var (
	_ repository.Repository[*ContactModel] = (*ContactStore)(nil)
	_ types.ContactRepository              = (*ContactStore)(nil)
)

// GetContact fetches a single contact visible to the actor.
func (s *ContactStore) GetContact(ctx context.Context, actor types.ActorRef, id uuid.UUID) (*types.Contact, error) {
	model, err := s.GetByID(ctx, id.String(), scope.SelectCriteria(scope.Resolve(actor)))
	if err != nil {
		return nil, err
	}
	return toContact(model), nil
}

// ListContacts returns a paginated, scope-filtered listing ordered by name.
func (s *ContactStore) ListContacts(ctx context.Context, filter types.ContactFilter) (types.ContactPage, error) {
	pagination := normalizePagination(filter.Pagination, 25, 100)
	criteria := []repository.SelectCriteria{
		scope.SelectCriteria(scope.Resolve(filter.Actor)),
		func(q *bun.SelectQuery) *bun.SelectQuery {
			if filter.CompanyID != uuid.Nil {
				q = q.Where("company_id = ?", filter.CompanyID)
			}
			if filter.RoleID != uuid.Nil {
				q = q.Where("role_id = ?", filter.RoleID)
			}
			if filter.Keyword != "" {
				pattern := keywordPattern(filter.Keyword)
				q = q.WhereGroup(" AND ", func(sq *bun.SelectQuery) *bun.SelectQuery {
					return sq.Where("lower(first_name) LIKE ?", pattern).
						WhereOr("lower(last_name) LIKE ?", pattern).
						WhereOr("lower(email) LIKE ?", pattern)
				})
			}
			if filter.Status != "" {
				q = q.Where("status = ?", string(filter.Status))
			}
			return q.OrderExpr("first_name ASC, last_name ASC").
				Limit(pagination.Limit).
				Offset(pagination.Offset)
		},
	}

	rows, total, err := s.List(ctx, criteria...)
	if err != nil {
		return types.ContactPage{}, err
	}
	contacts := make([]types.Contact, 0, len(rows))
	for _, row := range rows {
		contacts = append(contacts, *toContact(row))
	}
	return types.ContactPage{
		Contacts:   contacts,
		Total:      total,
		NextOffset: pagination.Offset + pagination.Limit,
		HasMore:    pagination.Offset+pagination.Limit < total,
	}, nil
}

// CreateContact inserts a contact, stamping the actor's tenant when none is
// supplied.
func (s *ContactStore) CreateContact(ctx context.Context, actor types.ActorRef, contact types.Contact) (*types.Contact, error) {
	now := s.clock.Now()
	model := &ContactModel{
		ID:        contact.ID,
		TenantID:  scope.AssignTenant(actor, contact.TenantID),
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		CompanyID: contact.CompanyID,
		RoleID:    contact.RoleID,
		Phone:     contact.Phone,
		Mobile:    contact.Mobile,
		Email:     contact.Email,
		Notes:     contact.Notes,
		Status:    string(contact.Status),
		CreatedAt: now,
		UpdatedAt: now,
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
	return toContact(created), nil
}

// UpdateContact applies a partial update with the tenant assignment guard.
func (s *ContactStore) UpdateContact(ctx context.Context, actor types.ActorRef, id uuid.UUID, patch types.ContactPatch) (*types.Contact, error) {
	model, err := s.GetByID(ctx, id.String(), scope.SelectCriteria(scope.Resolve(actor)))
	if err != nil {
		return nil, err
	}
	original := model.TenantID

	if patch.FirstName != nil {
		model.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		model.LastName = *patch.LastName
	}
	if patch.CompanyID != nil {
		model.CompanyID = *patch.CompanyID
	}
	if patch.RoleID != nil {
		model.RoleID = *patch.RoleID
	}
	if patch.Phone != nil {
		model.Phone = *patch.Phone
	}
	if patch.Mobile != nil {
		model.Mobile = *patch.Mobile
	}
	if patch.Email != nil {
		model.Email = *patch.Email
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
	return toContact(updated), nil
}

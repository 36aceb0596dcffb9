package crudsvc

import (
	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crm/command"
	"github.com/goliatone/go-crm/crudguard"
	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/query"
	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// ContactServiceConfig wires dependencies for the contact resource controller.
type ContactServiceConfig struct {
	Guard  GuardAdapter
	Lister gocommand.Querier[types.ContactFilter, types.ContactPage]
	Getter gocommand.Querier[query.ContactGetInput, *types.Contact]
	Create gocommand.Commander[command.ContactCreateInput]
	Update gocommand.Commander[command.ContactUpdateInput]
	Delete gocommand.Commander[command.ContactDeleteInput]
}

// ContactService exposes contacts through go-crud.
type ContactService struct {
	guard  GuardAdapter
	lister gocommand.Querier[types.ContactFilter, types.ContactPage]
	getter gocommand.Querier[query.ContactGetInput, *types.Contact]
	create gocommand.Commander[command.ContactCreateInput]
	update gocommand.Commander[command.ContactUpdateInput]
	delete gocommand.Commander[command.ContactDeleteInput]
	logger types.Logger
}

// NewContactService constructs the adapter.
func NewContactService(cfg ContactServiceConfig, opts ...ServiceOption) *ContactService {
	options := applyOptions(opts)
	return &ContactService{
		guard:  cfg.Guard,
		lister: cfg.Lister,
		getter: cfg.Getter,
		create: cfg.Create,
		update: cfg.Update,
		delete: cfg.Delete,
		logger: options.logger,
	}
}

func (s *ContactService) Index(ctx crud.Context, _ []repository.SelectCriteria) ([]*types.Contact, int, error) {
	if s.lister == nil {
		return nil, 0, goerrors.New("contact list query missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpList,
	})
	if err != nil {
		return nil, 0, err
	}
	filter := types.ContactFilter{
		Actor:      res.Actor,
		CompanyID:  queryUUID(ctx, "company_id"),
		RoleID:     queryUUID(ctx, "role_id"),
		Keyword:    ctx.Query("q"),
		Status:     parseEntityStatus(ctx.Query("status")),
		Pagination: types.Pagination{Limit: queryInt(ctx, "limit", 50), Offset: queryInt(ctx, "offset", 0)},
	}
	page, err := s.lister.Query(ctx.UserContext(), filter)
	if err != nil {
		return nil, 0, err
	}
	records := make([]*types.Contact, 0, len(page.Contacts))
	for i := range page.Contacts {
		record := page.Contacts[i]
		records = append(records, &record)
	}
	return records, page.Total, nil
}

func (s *ContactService) Show(ctx crud.Context, id string, _ []repository.SelectCriteria) (*types.Contact, error) {
	if s.getter == nil {
		return nil, goerrors.New("contact get query missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	contactID, err := uuid.Parse(id)
	if err != nil {
		return nil, goerrors.New("invalid contact id", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpRead,
		TargetID:  contactID,
	})
	if err != nil {
		return nil, err
	}
	return s.getter.Query(ctx.UserContext(), query.ContactGetInput{ID: contactID, Actor: res.Actor})
}

func (s *ContactService) Create(ctx crud.Context, record *types.Contact) (*types.Contact, error) {
	if s.create == nil {
		return nil, notSupported(crud.OpCreate)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpCreate,
	})
	if err != nil {
		return nil, err
	}
	var created types.Contact
	input := command.ContactCreateInput{Contact: *record, Actor: res.Actor, Result: &created}
	if err := s.create.Execute(ctx.UserContext(), input); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *ContactService) Update(ctx crud.Context, record *types.Contact) (*types.Contact, error) {
	if s.update == nil {
		return nil, notSupported(crud.OpUpdate)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpUpdate,
		TargetID:  record.ID,
	})
	if err != nil {
		return nil, err
	}
	var updated types.Contact
	input := command.ContactUpdateInput{
		ID:     record.ID,
		Patch:  contactPatchFromRecord(record),
		Actor:  res.Actor,
		Result: &updated,
	}
	if err := s.update.Execute(ctx.UserContext(), input); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *ContactService) Delete(ctx crud.Context, record *types.Contact) error {
	if s.delete == nil {
		return notSupported(crud.OpDelete)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpDelete,
		TargetID:  record.ID,
	})
	if err != nil {
		return err
	}
	return s.delete.Execute(ctx.UserContext(), command.ContactDeleteInput{ID: record.ID, Actor: res.Actor})
}

func (s *ContactService) CreateBatch(crud.Context, []*types.Contact) ([]*types.Contact, error) {
	return nil, notSupported(crud.OpCreateBatch)
}

func (s *ContactService) UpdateBatch(crud.Context, []*types.Contact) ([]*types.Contact, error) {
	return nil, notSupported(crud.OpUpdateBatch)
}

func (s *ContactService) DeleteBatch(crud.Context, []*types.Contact) error {
	return notSupported(crud.OpDeleteBatch)
}

func contactPatchFromRecord(record *types.Contact) types.ContactPatch {
	patch := types.ContactPatch{
		FirstName: &record.FirstName,
		LastName:  &record.LastName,
		Phone:     &record.Phone,
		Mobile:    &record.Mobile,
		Email:     &record.Email,
		Notes:     &record.Notes,
	}
	if record.CompanyID != uuid.Nil {
		company := record.CompanyID
		patch.CompanyID = &company
	}
	if record.RoleID != uuid.Nil {
		role := record.RoleID
		patch.RoleID = &role
	}
	if record.Status != "" {
		status := record.Status
		patch.Status = &status
	}
	if record.TenantID != uuid.Nil {
		tenant := record.TenantID
		patch.TenantID = &tenant
	}
	return patch
}

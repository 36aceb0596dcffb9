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

// CompanyServiceConfig wires dependencies for the company resource controller.
type CompanyServiceConfig struct {
	Guard  GuardAdapter
	Lister gocommand.Querier[types.CompanyFilter, types.CompanyPage]
	Getter gocommand.Querier[query.CompanyGetInput, *types.Company]
	Create gocommand.Commander[command.CompanyCreateInput]
	Update gocommand.Commander[command.CompanyUpdateInput]
	Delete gocommand.Commander[command.CompanyDeleteInput]
}

// CompanyService exposes companies through go-crud, resolving the actor from
// the request context and delegating every write to the command layer so the
// audit trail stays consistent regardless of transport.
type CompanyService struct {
	guard  GuardAdapter
	lister gocommand.Querier[types.CompanyFilter, types.CompanyPage]
	getter gocommand.Querier[query.CompanyGetInput, *types.Company]
	create gocommand.Commander[command.CompanyCreateInput]
	update gocommand.Commander[command.CompanyUpdateInput]
	delete gocommand.Commander[command.CompanyDeleteInput]
	logger types.Logger
}

// NewCompanyService constructs the adapter.
func NewCompanyService(cfg CompanyServiceConfig, opts ...ServiceOption) *CompanyService {
	options := applyOptions(opts)
	return &CompanyService{
		guard:  cfg.Guard,
		lister: cfg.Lister,
		getter: cfg.Getter,
		create: cfg.Create,
		update: cfg.Update,
		delete: cfg.Delete,
		logger: options.logger,
	}
}

func (s *CompanyService) Index(ctx crud.Context, _ []repository.SelectCriteria) ([]*types.Company, int, error) {
	if s.lister == nil {
		return nil, 0, goerrors.New("company list query missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpList,
	})
	if err != nil {
		return nil, 0, err
	}
	filter := types.CompanyFilter{
		Actor:      res.Actor,
		Keyword:    ctx.Query("q"),
		Status:     parseEntityStatus(ctx.Query("status")),
		Country:    ctx.Query("country"),
		Pagination: types.Pagination{Limit: queryInt(ctx, "limit", 50), Offset: queryInt(ctx, "offset", 0)},
	}
	page, err := s.lister.Query(ctx.UserContext(), filter)
	if err != nil {
		return nil, 0, err
	}
	records := make([]*types.Company, 0, len(page.Companies))
	for i := range page.Companies {
		record := page.Companies[i]
		records = append(records, &record)
	}
	return records, page.Total, nil
}

func (s *CompanyService) Show(ctx crud.Context, id string, _ []repository.SelectCriteria) (*types.Company, error) {
	if s.getter == nil {
		return nil, goerrors.New("company get query missing", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	companyID, err := uuid.Parse(id)
	if err != nil {
		return nil, goerrors.New("invalid company id", goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpRead,
		TargetID:  companyID,
	})
	if err != nil {
		return nil, err
	}
	return s.getter.Query(ctx.UserContext(), query.CompanyGetInput{ID: companyID, Actor: res.Actor})
}

func (s *CompanyService) Create(ctx crud.Context, record *types.Company) (*types.Company, error) {
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
	var created types.Company
	input := command.CompanyCreateInput{Company: *record, Actor: res.Actor, Result: &created}
	if err := s.create.Execute(ctx.UserContext(), input); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *CompanyService) Update(ctx crud.Context, record *types.Company) (*types.Company, error) {
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
	var updated types.Company
	input := command.CompanyUpdateInput{
		ID:     record.ID,
		Patch:  companyPatchFromRecord(record),
		Actor:  res.Actor,
		Result: &updated,
	}
	if err := s.update.Execute(ctx.UserContext(), input); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *CompanyService) Delete(ctx crud.Context, record *types.Company) error {
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
	return s.delete.Execute(ctx.UserContext(), command.CompanyDeleteInput{ID: record.ID, Actor: res.Actor})
}

func (s *CompanyService) CreateBatch(crud.Context, []*types.Company) ([]*types.Company, error) {
	return nil, notSupported(crud.OpCreateBatch)
}

func (s *CompanyService) UpdateBatch(crud.Context, []*types.Company) ([]*types.Company, error) {
	return nil, notSupported(crud.OpUpdateBatch)
}

func (s *CompanyService) DeleteBatch(crud.Context, []*types.Company) error {
	return notSupported(crud.OpDeleteBatch)
}

// companyPatchFromRecord turns a full record into a patch that rewrites every
// field, matching PUT semantics. TenantID is carried only when set so a blank
// payload cannot strip tenancy.
func companyPatchFromRecord(record *types.Company) types.CompanyPatch {
	patch := types.CompanyPatch{
		Name:       &record.Name,
		Address:    &record.Address,
		PostalCode: &record.PostalCode,
		Locality:   &record.Locality,
		Country:    &record.Country,
		Phone:      &record.Phone,
		Email:      &record.Email,
		Website:    &record.Website,
		Notes:      &record.Notes,
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

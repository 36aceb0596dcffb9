package command

import "errors"

var (
	// ErrCompanyNameRequired indicates a company payload without a name.
	ErrCompanyNameRequired = errors.New("go-crm: company name required")
	// ErrCompanyIDRequired indicates a company command without a target ID.
	ErrCompanyIDRequired = errors.New("go-crm: company id required")
	// ErrContactNameRequired indicates a contact payload without a first name.
	ErrContactNameRequired = errors.New("go-crm: contact first name required")
	// ErrContactIDRequired indicates a contact command without a target ID.
	ErrContactIDRequired = errors.New("go-crm: contact id required")
	// ErrEngagementDateRequired indicates an engagement without a date.
	ErrEngagementDateRequired = errors.New("go-crm: engagement date required")
	// ErrEngagementCompanyRequired indicates an engagement without a company.
	ErrEngagementCompanyRequired = errors.New("go-crm: engagement company required")
	// ErrEngagementIDRequired indicates an engagement command without a target ID.
	ErrEngagementIDRequired = errors.New("go-crm: engagement id required")
	// ErrDealNameRequired indicates a deal payload without a name.
	ErrDealNameRequired = errors.New("go-crm: deal name required")
	// ErrDealIDRequired indicates a deal command without a target ID.
	ErrDealIDRequired = errors.New("go-crm: deal id required")
	// ErrInvalidDealStage indicates a stage outside the pipeline.
	ErrInvalidDealStage = errors.New("go-crm: invalid deal stage")
	// ErrDealsDisabled indicates the deals module is disabled via feature gate.
	ErrDealsDisabled = errors.New("go-crm: deals disabled")
	// ErrLookupNameRequired indicates a lookup entry without a name.
	ErrLookupNameRequired = errors.New("go-crm: lookup name required")
	// ErrInvalidLookupKind indicates an unknown lookup table.
	ErrInvalidLookupKind = errors.New("go-crm: invalid lookup kind")
	// ErrTenantNameRequired indicates a tenant payload without a name.
	ErrTenantNameRequired = errors.New("go-crm: tenant name required")
	// ErrAdminRequired indicates an operation restricted to admin actors.
	ErrAdminRequired = errors.New("go-crm: admin actor required")
)

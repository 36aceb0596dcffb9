package types

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ActorRef identifies who is performing an operation. The zero value means no
// authenticated actor (system/unauthenticated); commands record those with a
// null actor reference on the audit trail.
type ActorRef struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	Admin    bool
	Name     string
}

// Present reports whether an authenticated actor was resolved.
func (a ActorRef) Present() bool {
	return a.ID != uuid.Nil
}

// Tenanted reports whether the actor belongs to a tenant.
func (a ActorRef) Tenanted() bool {
	return a.TenantID != uuid.Nil
}

// SystemActor is the ActorRef used when no authenticated session exists.
func SystemActor() ActorRef {
	return ActorRef{}
}

// Visibility is the resolved read scope for an actor. Unrestricted visibility
// sees every row; otherwise reads are narrowed to rows whose tenant matches
// TenantID or whose tenant is null (shared/global rows).
type Visibility struct {
	Unrestricted bool
	TenantID     uuid.UUID
}

// Pagination supports query pagination across listing endpoints.
type Pagination struct {
	Limit  int
	Offset int
}

// Clock abstracts time retrieval for deterministic testing.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID creation.
type IDGenerator interface {
	UUID() uuid.UUID
}

// Logger captures basic logging hooks used by the service.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Error(msg string, err error, fields ...any)
}

// DeleteEvent is emitted after a cascade deletion completes.
type DeleteEvent struct {
	EntityType EntityType
	EntityID   uuid.UUID
	ActorID    uuid.UUID
	TenantID   uuid.UUID
	OccurredAt time.Time
}

// DealStageEvent is emitted when a deal moves through the pipeline.
type DealStageEvent struct {
	DealID     uuid.UUID
	ActorID    uuid.UUID
	TenantID   uuid.UUID
	FromStage  DealStage
	ToStage    DealStage
	OccurredAt time.Time
}

// Hooks groups optional callbacks invoked after key workflows complete.
type Hooks struct {
	AfterAudit     func(context.Context, AuditEntry)
	AfterDealStage func(context.Context, DealStageEvent)
	AfterDelete    func(context.Context, DeleteEvent)
}

// SystemClock defers to time.Now for production usage.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator produces UUIDv4 identifiers.
type UUIDGenerator struct{}

// UUID returns a randomly generated UUID.
func (UUIDGenerator) UUID() uuid.UUID { return uuid.New() }

// NopLogger discards all log lines.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, error, ...any) {}

var (
	// ErrServiceNotReady indicates the service has not been properly configured.
	ErrServiceNotReady = errors.New("go-crm: service not ready")
	// ErrMissingDB occurs when no bun database handle was supplied.
	ErrMissingDB = errors.New("go-crm: missing database handle")
	// ErrMissingCompanyRepository occurs when no company repository was supplied.
	ErrMissingCompanyRepository = errors.New("go-crm: missing company repository")
	// ErrMissingContactRepository occurs when no contact repository was supplied.
	ErrMissingContactRepository = errors.New("go-crm: missing contact repository")
	// ErrMissingEngagementRepository occurs when no engagement repository was supplied.
	ErrMissingEngagementRepository = errors.New("go-crm: missing engagement repository")
	// ErrMissingDealRepository occurs when no deal repository was supplied.
	ErrMissingDealRepository = errors.New("go-crm: missing deal repository")
	// ErrMissingAuditSink occurs when no audit sink was supplied.
	ErrMissingAuditSink = errors.New("go-crm: missing audit sink")
	// ErrMissingAuditRepository occurs when no audit repository was supplied.
	ErrMissingAuditRepository = errors.New("go-crm: missing audit repository")
	// ErrMissingLookupRepository occurs when no lookup repository was supplied.
	ErrMissingLookupRepository = errors.New("go-crm: missing lookup repository")
	// ErrMissingTenantRepository occurs when no tenant repository was supplied.
	ErrMissingTenantRepository = errors.New("go-crm: missing tenant repository")
)

package types

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EntityType tags which scoped entity an audit entry belongs to. A single
// polymorphic log table replaces the per-entity log tables of earlier designs.
type EntityType string

const (
	EntityTypeCompany    EntityType = "company"
	EntityTypeContact    EntityType = "contact"
	EntityTypeEngagement EntityType = "engagement"
	EntityTypeDeal       EntityType = "deal"
)

// OperationKind enumerates the mutation kinds captured on the audit trail.
type OperationKind string

const (
	OperationCreation   OperationKind = "creation"
	OperationAlteration OperationKind = "alteration"
	OperationDeletion   OperationKind = "deletion"
)

// Snapshot is a full field-value dump of an entity at a point in time. Audit
// entries store complete snapshots, not diffs; comparing two snapshots is how
// callers decide whether an alteration is worth logging.
type Snapshot map[string]any

// Clone returns a shallow copy so callers can mutate safely.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Equal reports whether two snapshots carry identical field values. It is a
// full-field comparison; nested values are compared by their string form.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		ov, ok := other[k]
		if !ok {
			return false
		}
		if !snapshotValueEqual(v, ov) {
			return false
		}
	}
	return true
}

func snapshotValueEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a == b || stringify(a) == stringify(b)
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// AuditEntry describes one append-only audit log row. Prior is nil for
// creations, New is nil for deletions; alterations carry both.
type AuditEntry struct {
	ID          uuid.UUID
	EntityType  EntityType
	EntityID    uuid.UUID
	ActorID     uuid.UUID
	TenantID    uuid.UUID
	Kind        OperationKind
	Description string
	Prior       Snapshot
	New         Snapshot
	CreatedAt   time.Time
}

// AuditSink is the minimal DI contract for recording audit entries. Recording
// is not idempotent; callers must record exactly once per logical mutation.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// AuditRepository exposes read-side access to the audit trail.
type AuditRepository interface {
	ListAudit(ctx context.Context, filter AuditFilter) (AuditPage, error)
	AuditStats(ctx context.Context, filter AuditStatsFilter) (AuditStats, error)
}

// AuditFilter narrows audit feed queries. Entries are returned newest first.
type AuditFilter struct {
	Actor      ActorRef
	EntityType EntityType
	EntityID   uuid.UUID
	ActorID    uuid.UUID
	Kinds      []OperationKind
	Since      *time.Time
	Until      *time.Time
	Pagination Pagination
}

// Type implements gocommand.Message for query inputs.
func (AuditFilter) Type() string {
	return "query.audit.feed"
}

// Validate implements gocommand.Message.
func (AuditFilter) Validate() error { return nil }

// AuditPage represents a paginated audit feed response.
type AuditPage struct {
	Entries    []AuditEntry
	Total      int
	NextOffset int
	HasMore    bool
}

// AuditStatsFilter scopes aggregate audit queries.
type AuditStatsFilter struct {
	Actor      ActorRef
	EntityType EntityType
	Since      *time.Time
	Until      *time.Time
}

// Type implements gocommand.Message for query inputs.
func (AuditStatsFilter) Type() string {
	return "query.audit.stats"
}

// Validate implements gocommand.Message.
func (AuditStatsFilter) Validate() error { return nil }

// AuditStats powers dashboard widgets summarizing operations per kind.
type AuditStats struct {
	Total  int
	ByKind map[OperationKind]int
}

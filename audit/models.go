package audit

import (
	"time"

	"github.com/goliatone/go-crm/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Entry models the persisted row in crm_audit_log. One polymorphic table
// covers every scoped entity type; entity_type + entity_id identify the
// subject. Rows are append-only: the repository exposes no update or delete.
type Entry struct {
	bun.BaseModel `bun:"table:crm_audit_log"`

	ID          uuid.UUID      `bun:",pk,type:uuid"`
	EntityType  string         `bun:"entity_type,notnull"`
	EntityID    uuid.UUID      `bun:"entity_id,type:uuid,notnull"`
	ActorID     uuid.UUID      `bun:"actor_id,type:uuid,nullzero"`
	TenantID    uuid.UUID      `bun:"tenant_id,type:uuid,nullzero"`
	Kind        string         `bun:"kind,notnull"`
	Description string         `bun:"description"`
	PriorState  map[string]any `bun:"prior_state,type:jsonb,nullzero"`
	NewState    map[string]any `bun:"new_state,type:jsonb,nullzero"`
	CreatedAt   time.Time      `bun:"created_at,notnull"`
}

func toEntry(entry types.AuditEntry) *Entry {
	return &Entry{
		ID:          entry.ID,
		EntityType:  string(entry.EntityType),
		EntityID:    entry.EntityID,
		ActorID:     entry.ActorID,
		TenantID:    entry.TenantID,
		Kind:        string(entry.Kind),
		Description: entry.Description,
		PriorState:  entry.Prior,
		NewState:    entry.New,
		CreatedAt:   entry.CreatedAt,
	}
}

func toDomain(entry *Entry) types.AuditEntry {
	if entry == nil {
		return types.AuditEntry{}
	}
	return types.AuditEntry{
		ID:          entry.ID,
		EntityType:  types.EntityType(entry.EntityType),
		EntityID:    entry.EntityID,
		ActorID:     entry.ActorID,
		TenantID:    entry.TenantID,
		Kind:        types.OperationKind(entry.Kind),
		Description: entry.Description,
		Prior:       entry.PriorState,
		New:         entry.NewState,
		CreatedAt:   entry.CreatedAt,
	}
}

package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-crm/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// EntryEnricher mutates or returns an enriched audit entry.
type EntryEnricher interface {
	Enrich(ctx context.Context, entry types.AuditEntry) (types.AuditEntry, error)
}

// EnricherFunc adapts a function into an EntryEnricher.
type EnricherFunc func(ctx context.Context, entry types.AuditEntry) (types.AuditEntry, error)

// Enrich executes the function and satisfies EntryEnricher.
func (f EnricherFunc) Enrich(ctx context.Context, entry types.AuditEntry) (types.AuditEntry, error) {
	return f(ctx, entry)
}

// EnricherChain composes multiple enrichers in order. The chain stops on the
// first error and returns the original entry.
type EnricherChain []EntryEnricher

// Enrich applies the chain sequentially.
func (c EnricherChain) Enrich(ctx context.Context, entry types.AuditEntry) (types.AuditEntry, error) {
	original := entry
	for _, enricher := range c {
		if enricher == nil {
			continue
		}
		next, err := enricher.Enrich(ctx, entry)
		if err != nil {
			return original, err
		}
		entry = next
	}
	return entry, nil
}

// EnrichedSink enriches audit entries before handing them to a sink.
// BestEffort forwards the original entry when enrichment fails instead of
// dropping the write.
type EnrichedSink struct {
	Sink       types.AuditSink
	Enricher   EntryEnricher
	BestEffort bool
}

var _ types.AuditSink = (*EnrichedSink)(nil)

// Record enriches the entry (if configured) and forwards it to the sink.
func (s *EnrichedSink) Record(ctx context.Context, entry types.AuditEntry) error {
	if s == nil || s.Sink == nil {
		return types.ErrMissingAuditSink
	}
	enriched, err := s.enrich(ctx, entry)
	if err != nil {
		return err
	}
	return s.Sink.Record(ctx, enriched)
}

// RecordTx enriches the entry and forwards it through the inner sink's
// transactional path, so deletion logs wrapped by an EnrichedSink still
// commit or roll back together with the removal they describe. When the
// inner sink cannot join a transaction the write degrades to Record.
func (s *EnrichedSink) RecordTx(ctx context.Context, idb bun.IDB, entry types.AuditEntry) error {
	if s == nil || s.Sink == nil {
		return types.ErrMissingAuditSink
	}
	enriched, err := s.enrich(ctx, entry)
	if err != nil {
		return err
	}
	tx, ok := s.Sink.(interface {
		RecordTx(ctx context.Context, idb bun.IDB, entry types.AuditEntry) error
	})
	if !ok {
		return s.Sink.Record(ctx, enriched)
	}
	return tx.RecordTx(ctx, idb, enriched)
}

func (s *EnrichedSink) enrich(ctx context.Context, entry types.AuditEntry) (types.AuditEntry, error) {
	if s.Enricher == nil {
		return entry, nil
	}
	enriched, err := s.Enricher.Enrich(ctx, entry)
	if err != nil {
		if !s.BestEffort {
			return entry, err
		}
		return entry, nil
	}
	return enriched, nil
}

// ActorNameResolver maps an actor ID to a display name.
type ActorNameResolver interface {
	ActorName(ctx context.Context, id uuid.UUID) (string, error)
}

// ActorNameEnricher appends the acting user's name to entry descriptions,
// producing feed lines such as "company created by Jane Doe". Descriptions
// that already end with the resolved name are left alone, so recorders that
// bake the actor name in up front do not produce "by Jane by Jane" lines.
func ActorNameEnricher(resolver ActorNameResolver) EntryEnricher {
	return EnricherFunc(func(ctx context.Context, entry types.AuditEntry) (types.AuditEntry, error) {
		if resolver == nil || entry.ActorID == uuid.Nil || entry.Description == "" {
			return entry, nil
		}
		name, err := resolver.ActorName(ctx, entry.ActorID)
		if err != nil {
			return entry, err
		}
		if name == "" || strings.HasSuffix(entry.Description, " by "+name) {
			return entry, nil
		}
		entry.Description = fmt.Sprintf("%s by %s", entry.Description, name)
		return entry, nil
	})
}

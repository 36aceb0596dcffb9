package command

import (
	"context"
	"time"

	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crm/scope"
	"github.com/uptrace/bun"
)

func safeClock(clock types.Clock) types.Clock {
	if clock != nil {
		return clock
	}
	return types.SystemClock{}
}

func safeLogger(logger types.Logger) types.Logger {
	if logger != nil {
		return logger
	}
	return types.NopLogger{}
}

func safeHooks(hooks types.Hooks) types.Hooks {
	return hooks
}

func safeScopeGuard(g scope.Guard) scope.Guard {
	return scope.Ensure(g)
}

func now(clock types.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now()
}

// recordAudit logs the entry best-effort. Creation and alteration trails never
// veto the mutation they describe; deletion logs are the exception and run
// inside the removal transaction.
func recordAudit(ctx context.Context, sink types.AuditSink, entry types.AuditEntry) {
	if sink == nil {
		return
	}
	_ = sink.Record(ctx, entry)
}

// transactionalAuditSink is satisfied by sinks that can join the caller's
// transaction, such as the audit repository.
type transactionalAuditSink interface {
	RecordTx(ctx context.Context, idb bun.IDB, entry types.AuditEntry) error
}

// recordAuditTx writes the deletion log inside the transaction when the sink
// supports it, and falls back to a plain record otherwise.
func recordAuditTx(ctx context.Context, sink types.AuditSink, idb bun.IDB, entry types.AuditEntry) error {
	if sink == nil {
		return nil
	}
	if tx, ok := sink.(transactionalAuditSink); ok {
		return tx.RecordTx(ctx, idb, entry)
	}
	return sink.Record(ctx, entry)
}

func emitAuditHook(ctx context.Context, hooks types.Hooks, entry types.AuditEntry) {
	if hooks.AfterAudit == nil {
		return
	}
	hooks.AfterAudit(ctx, entry)
}

func emitDealStageHook(ctx context.Context, hooks types.Hooks, event types.DealStageEvent) {
	if hooks.AfterDealStage == nil {
		return
	}
	hooks.AfterDealStage(ctx, event)
}

func emitDeleteHook(ctx context.Context, hooks types.Hooks, event types.DeleteEvent) {
	if hooks.AfterDelete == nil {
		return
	}
	hooks.AfterDelete(ctx, event)
}

package crudsvc

import (
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-crm/pkg/types"
	"github.com/goliatone/go-crud"
	"github.com/google/uuid"
)

func queryUUID(ctx crud.Context, key string) uuid.UUID {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func queryInt(ctx crud.Context, key string, def int) int {
	if value := ctx.Query(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return def
}

func queryTime(ctx crud.Context, key string) *time.Time {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &parsed
}

func parseEntityStatus(value string) types.EntityStatus {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(types.EntityStatusActive):
		return types.EntityStatusActive
	case string(types.EntityStatusInactive):
		return types.EntityStatusInactive
	default:
		return ""
	}
}

func parseDealStage(value string) types.DealStage {
	stage := types.DealStage(strings.ToLower(strings.TrimSpace(value)))
	if types.ValidDealStage(stage) {
		return stage
	}
	return ""
}

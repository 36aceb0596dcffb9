package command

import (
	"context"

	"github.com/goliatone/go-crm/pkg/types"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/google/uuid"
)

const featureDeals = "crm.deals"

func featureEnabled(ctx context.Context, gate featuregate.FeatureGate, key string, actor types.ActorRef) (bool, error) {
	if gate == nil {
		return true, nil
	}
	chain := featureScopeChain(actor)
	if chain == nil {
		return gate.Enabled(ctx, key)
	}
	return gate.Enabled(ctx, key, featuregate.WithScopeChain(chain))
}

func featureScopeChain(actor types.ActorRef) featuregate.ScopeChain {
	tenantID := ""
	if actor.TenantID != uuid.Nil {
		tenantID = actor.TenantID.String()
	}
	userID := ""
	if actor.ID != uuid.Nil {
		userID = actor.ID.String()
	}
	if tenantID == "" && userID == "" {
		return nil
	}
	var chain featuregate.ScopeChain
	if userID != "" {
		chain = append(chain, featuregate.ScopeRef{Kind: featuregate.ScopeUser, ID: userID, TenantID: tenantID})
	}
	if tenantID != "" {
		chain = append(chain, featuregate.ScopeRef{Kind: featuregate.ScopeTenant, ID: tenantID, TenantID: tenantID})
	}
	chain = append(chain, featuregate.ScopeRef{Kind: featuregate.ScopeSystem})
	return chain
}

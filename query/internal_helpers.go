package query

import "github.com/goliatone/go-crm/scope"

func safeScopeGuard(guard scope.Guard) scope.Guard {
	return scope.Ensure(guard)
}

package audit

import (
	"fmt"

	"github.com/goliatone/go-crm/pkg/types"
)

var kindVerbs = map[types.OperationKind]string{
	types.OperationCreation:   "created",
	types.OperationAlteration: "updated",
	types.OperationDeletion:   "deleted",
}

// Describe builds the human readable feed line for an audit entry, e.g.
// "company created by Jane Doe". The actor name is omitted when empty.
func Describe(kind types.OperationKind, entity types.EntityType, actorName string) string {
	verb, ok := kindVerbs[kind]
	if !ok {
		verb = string(kind)
	}
	if actorName == "" {
		return fmt.Sprintf("%s %s", entity, verb)
	}
	return fmt.Sprintf("%s %s by %s", entity, verb, actorName)
}

package types

const (
	// ActorRoleAdmin represents administrators that bypass tenant scoping.
	ActorRoleAdmin = "admin"
	// ActorRoleManager represents tenant-scoped users with full module access.
	ActorRoleManager = "manager"
	// ActorRoleUser represents regular tenant-scoped users.
	ActorRoleUser = "user"
)

// AdminRoles lists the role names granted unrestricted visibility. Hosts with
// custom role taxonomies pass their own list to the authctx helpers.
func AdminRoles() []string {
	return []string{ActorRoleAdmin}
}

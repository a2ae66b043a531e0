package service

// Authz is the caller's resolved capability, passed explicitly into every
// service entry point. The matcher and merge logic never consult
// authorization state on their own; whoever constructs an Authz (the auth
// middleware) owns the role lookup.
type Authz struct {
	// Operator is the authenticated operator username
	Operator string

	// CanManageMembers grants the member/alumni administration surface:
	// link preview, link confirmation, duplicate merge
	CanManageMembers bool
}

// requireAdmin refuses callers without the administrative capability,
// before any data is read
func requireAdmin(authz Authz) error {
	if !authz.CanManageMembers {
		return ErrUnauthorized("operator may not administer member data")
	}
	return nil
}

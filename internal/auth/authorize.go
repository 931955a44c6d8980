package auth

// Authorize evaluates a route's declared allowed-role set against the
// resolved identity.
//
// An empty set means the route declares no restriction and any authenticated
// identity passes. Administrators bypass restriction sets entirely, which is
// the only use of the role hierarchy; every other decision is explicit
// membership.
func Authorize(identity AccessContext, allowed []Role) error {
	if len(allowed) == 0 {
		return nil
	}
	if identity.Role == RoleAdmin {
		return nil
	}
	for _, role := range allowed {
		if identity.Role == role {
			return nil
		}
	}
	return &RoleDeniedError{Required: allowed, Actual: identity.Role}
}

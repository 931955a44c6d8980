package auth

import "strings"

// Role is the application-level business role stored on an Account. It is a
// closed enumeration owned by this system; the identity provider's own role
// claim (e.g. "authenticated") is a session classification and never maps
// onto these values.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleCommercial Role = "commercial"
	RoleStandard   Role = "standard"
)

// roleLevels is the fixed role hierarchy. It exists solely for the
// administrator bypass in Authorize; route restrictions use explicit
// membership, so a commercial-only route does not implicitly admit standard
// accounts and vice versa.
var roleLevels = map[Role]int{
	RoleAdmin:      3,
	RoleCommercial: 2,
	RoleStandard:   1,
}

// ParseRole normalizes and validates a raw role string.
func ParseRole(raw string) (Role, bool) {
	role := Role(strings.TrimSpace(strings.ToLower(raw)))
	return role, role.Valid()
}

// Valid reports whether the role is one of the predefined values.
func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// Level returns the hierarchy rank of the role, 0 for unknown values.
func (r Role) Level() int {
	return roleLevels[r]
}

// AssignableByInvite reports whether the role may be granted at invitation
// time. Administrators cannot be minted through the invite flow.
func AssignableByInvite(r Role) bool {
	return r == RoleCommercial || r == RoleStandard
}

// AllRoles returns the predefined roles in descending hierarchy order.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleCommercial, RoleStandard}
}

package httpapi

import (
	"strings"

	"github.com/relaycrm/relay/internal/auth"
)

// RoutePolicy declares who may reach a route. Public routes skip
// authentication entirely; otherwise an authenticated identity is required
// and, when AllowedRoles is non-empty, the identity's role must match (an
// administrator always passes).
type RoutePolicy struct {
	Public       bool
	AllowedRoles []auth.Role
}

// policies is the single source of truth for route access. Every route the
// mux serves has an entry here; paths without one are treated as
// authenticated admin-only, so a forgotten entry fails closed.
var policies = map[string]RoutePolicy{
	"/healthz":             {Public: true},
	"/readyz":              {Public: true},
	"/metrics":             {Public: true},
	"/v1/info":             {Public: true},
	"/v1/me":               {},
	"/v1/users":            {AllowedRoles: []auth.Role{auth.RoleAdmin}},
	"/v1/users/:id":        {AllowedRoles: []auth.Role{auth.RoleAdmin}},
	"/v1/users/:id/role":   {AllowedRoles: []auth.Role{auth.RoleAdmin}},
	"/v1/users/:id/active": {AllowedRoles: []auth.Role{auth.RoleAdmin}},
	"/v1/invite":           {AllowedRoles: []auth.Role{auth.RoleAdmin}},
}

// routeKey collapses a concrete request path onto its policy key.
func routeKey(path string) string {
	if !strings.HasPrefix(path, "/v1/users/") {
		return path
	}
	rest := strings.Trim(strings.TrimPrefix(path, "/v1/users/"), "/")
	if rest == "" {
		return "/v1/users"
	}
	parts := strings.Split(rest, "/")
	switch len(parts) {
	case 1:
		return "/v1/users/:id"
	case 2:
		return "/v1/users/:id/" + parts[1]
	default:
		return path
	}
}

func policyFor(path string) RoutePolicy {
	if p, ok := policies[routeKey(path)]; ok {
		return p
	}
	return RoutePolicy{AllowedRoles: []auth.Role{auth.RoleAdmin}}
}

package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/relaycrm/relay/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// withAuth authenticates every non-public request: validates the bearer
// token, resolves the account, and stores the identity in the request
// context. Role checks happen per-handler via authorize.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		if policyFor(r.URL.Path).Public {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			unauthorized(w, r, "authentication required")
			return
		}

		claims, err := a.validator.Validate(token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				unauthorized(w, r, "session expired, please sign in again")
			default:
				unauthorized(w, r, "invalid or expired credentials")
			}
			return
		}

		identity, err := a.resolver.Resolve(r.Context(), claims)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrUnknownAccount):
				unauthorized(w, r, "account not found, it may have been removed")
			case errors.Is(err, auth.ErrAccountDeactivated):
				unauthorized(w, r, "account deactivated, contact your administrator")
			default:
				writeError(w, r, http.StatusInternalServerError, "authentication error")
			}
			return
		}

		ctx := auth.ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authorize enforces the route policy's role set against the authenticated
// identity. Returns false after writing the response when access is denied.
func (a *API) authorize(w http.ResponseWriter, r *http.Request) bool {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		unauthorized(w, r, "authentication required")
		return false
	}
	if err := auth.Authorize(identity, policyFor(r.URL.Path).AllowedRoles); err != nil {
		w.Header().Set("WWW-Authenticate", `Bearer error="insufficient_scope"`)
		writeError(w, r, http.StatusForbidden, err.Error())
		return false
	}
	return true
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="relay"`)
	writeError(w, r, http.StatusUnauthorized, msg)
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

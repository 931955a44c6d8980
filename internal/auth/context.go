package auth

import "context"

type identityContextKey struct{}

// ContextWithIdentity attaches the resolved request identity to the context.
func ContextWithIdentity(ctx context.Context, identity AccessContext) context.Context {
	return context.WithValue(ctx, identityContextKey{}, &identity)
}

// IdentityFromContext extracts the resolved identity from the context.
func IdentityFromContext(ctx context.Context) (AccessContext, bool) {
	if ctx == nil {
		return AccessContext{}, false
	}
	v, ok := ctx.Value(identityContextKey{}).(*AccessContext)
	if !ok || v == nil {
		return AccessContext{}, false
	}
	return *v, true
}

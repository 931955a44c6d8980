package auth

import (
	"context"
	"errors"
)

// Resolver reconciles verified token claims against the live account store.
//
// Resolution is the load-bearing decision of the whole core: the token proves
// identity, the stored Account decides permissions. The provider's role claim
// is ignored, so a demotion or deactivation takes effect on the very next
// request even while earlier tokens remain cryptographically valid until they
// expire.
type Resolver struct {
	store AccountStore
}

// NewResolver constructs a Resolver over the account store.
func NewResolver(store AccountStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve looks up the account named by the token subject and builds the
// request identity. Store errors fail closed: they are never treated as an
// allow.
func (r *Resolver) Resolve(ctx context.Context, claims TokenClaims) (AccessContext, error) {
	account, err := r.store.Find(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AccessContext{}, ErrUnknownAccount
		}
		return AccessContext{}, err
	}
	if !account.Active {
		return AccessContext{}, ErrAccountDeactivated
	}
	return AccessContext{
		AccountID: account.ID,
		Role:      account.Role,
		FullName:  account.FullName,
		Email:     claims.Email,
		Active:    account.Active,
	}, nil
}

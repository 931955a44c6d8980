package auth

import "context"

// AccountStore describes persistence operations required by the identity
// core. Implementations perform simple point reads and single-row writes and
// rely on the datastore's own atomicity; no multi-row transactions are
// needed here.
type AccountStore interface {
	// Find returns the account by id, ErrNotFound when absent.
	Find(ctx context.Context, id string) (*Account, error)
	// List returns all accounts ordered by creation time.
	List(ctx context.Context) ([]*Account, error)
	// Upsert inserts the account or, on id conflict, re-asserts role and
	// full name over whatever a provider-side trigger may have written.
	Upsert(ctx context.Context, account *Account) error
	// UpdateProfile patches the account's own editable fields.
	UpdateProfile(ctx context.Context, id string, patch ProfileUpdate) (*Account, error)
	// UpdateRole sets the business role.
	UpdateRole(ctx context.Context, id string, role Role) (*Account, error)
	// SetActive toggles the active flag.
	SetActive(ctx context.Context, id string, active bool) (*Account, error)
	// Delete removes the account row, ErrNotFound when absent.
	Delete(ctx context.Context, id string) error
}

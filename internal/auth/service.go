package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/relaycrm/relay/internal/obs"
)

// IdentityProvider is the external system that owns end-user credentials and
// delivers invitation emails. It is authoritative for identity only; role and
// active status live on the Account.
type IdentityProvider interface {
	// InviteByEmail provisions an identity and sends the invitation email,
	// returning the provider-issued subject id. Implementations return
	// ErrEmailRegistered when the address already has an identity.
	InviteByEmail(ctx context.Context, email, fullName string) (string, error)
	// DeleteIdentity removes the identity; the provider cascades onto the
	// local account row where configured.
	DeleteIdentity(ctx context.Context, subject string) error
}

const maxNameLength = 255

// Service implements administrative account lifecycle operations plus the
// self-profile surface. Admin-only access and the requester's identity are
// enforced at the HTTP boundary; the self-action invariant is enforced here
// so it holds no matter how the service is driven.
type Service struct {
	store      AccountStore
	provider   IdentityProvider
	production bool
	now        func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithServiceClock overrides the time source (useful for tests).
func WithServiceClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithProductionRedaction controls provider-failure logging: when enabled,
// provider diagnostics are reduced to a generic summary so upstream internals
// never reach production logs.
func WithProductionRedaction(enabled bool) ServiceOption {
	return func(s *Service) {
		s.production = enabled
	}
}

// NewService constructs the account lifecycle service.
func NewService(store AccountStore, provider IdentityProvider, opts ...ServiceOption) *Service {
	svc := &Service{
		store:    store,
		provider: provider,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// GetProfile returns the account's full record. ErrNotFound when the account
// vanished mid-session.
func (s *Service) GetProfile(ctx context.Context, id string) (*Account, error) {
	return s.store.Find(ctx, id)
}

// UpdateProfile patches the account's own editable fields (name, phone,
// avatar). Privileged fields are not reachable through this path.
func (s *Service) UpdateProfile(ctx context.Context, id string, patch ProfileUpdate) (*Account, error) {
	if patch.FullName != nil {
		name := strings.TrimSpace(*patch.FullName)
		if name == "" {
			return nil, fmt.Errorf("%w: full_name must not be empty", ErrInvalidInput)
		}
		if len(name) > maxNameLength {
			return nil, fmt.Errorf("%w: full_name exceeds %d characters", ErrInvalidInput, maxNameLength)
		}
		patch.FullName = &name
	}
	return s.store.UpdateProfile(ctx, id, patch)
}

// ListAccounts returns every account, ordered by creation time.
func (s *Service) ListAccounts(ctx context.Context) ([]*Account, error) {
	return s.store.List(ctx)
}

// Invitation is the outcome of a successful invite.
type Invitation struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Message   string `json:"message"`
}

// Invite provisions an identity with the provider and upserts the local
// account with the intended role. The upsert wins over any default row a
// provider-side signup trigger may have created. Provider failures surface as
// a generic conflict; their detail is logged only outside production.
func (s *Service) Invite(ctx context.Context, email, fullName string, role Role) (*Invitation, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" || len(fullName) > maxNameLength {
		return nil, fmt.Errorf("%w: full_name is required and must not exceed %d characters", ErrInvalidInput, maxNameLength)
	}
	if !AssignableByInvite(role) {
		return nil, fmt.Errorf("%w: role must be one of commercial, standard", ErrInvalidInput)
	}

	subject, err := s.provider.InviteByEmail(ctx, email, fullName)
	if err != nil {
		s.logProviderFailure("invite", err)
		if errors.Is(err, ErrEmailRegistered) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, fmt.Errorf("%w: invitation failed", ErrConflict)
	}

	account := &Account{
		ID:       subject,
		FullName: fullName,
		Role:     role,
		Active:   true,
	}
	if err := s.store.Upsert(ctx, account); err != nil {
		return nil, err
	}

	return &Invitation{
		AccountID: subject,
		Email:     email,
		Role:      role,
		Message:   fmt.Sprintf("invitation sent to %s", email),
	}, nil
}

// ChangeRole sets the target account's business role. An account can never
// change its own role, admin or not.
func (s *Service) ChangeRole(ctx context.Context, requesterID, targetID string, role Role) (*Account, error) {
	if requesterID == targetID {
		return nil, fmt.Errorf("%w: cannot modify your own role", ErrSelfAction)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	return s.store.UpdateRole(ctx, targetID, role)
}

// SetActive toggles the target account's active flag. An account can never
// deactivate itself.
func (s *Service) SetActive(ctx context.Context, requesterID, targetID string, active bool) (*Account, error) {
	if requesterID == targetID {
		return nil, fmt.Errorf("%w: cannot deactivate your own account", ErrSelfAction)
	}
	return s.store.SetActive(ctx, targetID, active)
}

// Delete removes the target's external identity first and only then the
// local account. An account can never delete itself.
func (s *Service) Delete(ctx context.Context, requesterID, targetID string) error {
	if requesterID == targetID {
		return fmt.Errorf("%w: cannot delete your own account", ErrSelfAction)
	}
	if err := s.provider.DeleteIdentity(ctx, targetID); err != nil {
		s.logProviderFailure("delete", err)
		return fmt.Errorf("%w: deletion failed", ErrConflict)
	}
	if err := s.store.Delete(ctx, targetID); err != nil {
		// The provider may cascade onto the local row; a missing row after a
		// successful provider delete is not an error.
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

func (s *Service) logProviderFailure(op string, err error) {
	entry := map[string]any{
		"ts":    s.now().UTC().Format(time.RFC3339Nano),
		"level": "error",
		"msg":   "identity provider call failed",
		"op":    op,
	}
	if !s.production {
		entry["detail"] = err.Error()
	}
	obs.LogEvent(entry)
}

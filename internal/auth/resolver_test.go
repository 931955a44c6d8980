package auth

import (
	"context"
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	store := newFakeStore(&Account{
		ID:       "acct-1",
		FullName: "Jane Seller",
		Role:     RoleCommercial,
		Active:   true,
	})
	r := NewResolver(store)

	identity, err := r.Resolve(context.Background(), TokenClaims{
		Subject: "acct-1",
		Email:   "jane@example.com",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if identity.AccountID != "acct-1" {
		t.Fatalf("account id = %q", identity.AccountID)
	}
	if identity.Role != RoleCommercial {
		t.Fatalf("role = %q", identity.Role)
	}
	if identity.Email != "jane@example.com" {
		t.Fatalf("email = %q", identity.Email)
	}
}

func TestResolveStoredRoleWins(t *testing.T) {
	store := newFakeStore(&Account{ID: "acct-1", Role: RoleStandard, Active: true})
	r := NewResolver(store)

	// The provider marks every session "authenticated"; it must never leak
	// into the resolved role.
	identity, err := r.Resolve(context.Background(), TokenClaims{
		Subject:      "acct-1",
		ProviderRole: "authenticated",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if identity.Role != RoleStandard {
		t.Fatalf("role = %q, want stored role", identity.Role)
	}
}

func TestResolveUnknownAccount(t *testing.T) {
	r := NewResolver(newFakeStore())
	if _, err := r.Resolve(context.Background(), TokenClaims{Subject: "ghost"}); !errors.Is(err, ErrUnknownAccount) {
		t.Fatalf("err = %v, want ErrUnknownAccount", err)
	}
}

func TestResolveDeactivated(t *testing.T) {
	store := newFakeStore(&Account{ID: "acct-1", Role: RoleStandard, Active: false})
	r := NewResolver(store)
	if _, err := r.Resolve(context.Background(), TokenClaims{Subject: "acct-1"}); !errors.Is(err, ErrAccountDeactivated) {
		t.Fatalf("err = %v, want ErrAccountDeactivated", err)
	}
}

func TestResolveStoreFailureFailsClosed(t *testing.T) {
	store := newFakeStore()
	store.findErr = errors.New("connection reset")
	r := NewResolver(store)

	_, err := r.Resolve(context.Background(), TokenClaims{Subject: "acct-1"})
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrUnknownAccount) {
		t.Fatalf("store failure must not masquerade as unknown account: %v", err)
	}
}

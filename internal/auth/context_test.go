package auth

import (
	"context"
	"testing"
)

func TestIdentityContextRoundTrip(t *testing.T) {
	identity := AccessContext{
		AccountID: "acct-1",
		Role:      RoleCommercial,
		FullName:  "Jane Seller",
		Email:     "jane@example.com",
		Active:    true,
	}
	ctx := ContextWithIdentity(context.Background(), identity)

	got, ok := IdentityFromContext(ctx)
	if !ok {
		t.Fatal("expected identity in context")
	}
	if got != identity {
		t.Fatalf("identity = %+v, want %+v", got, identity)
	}
}

func TestIdentityFromEmptyContext(t *testing.T) {
	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Fatal("expected no identity")
	}
	if _, ok := IdentityFromContext(nil); ok {
		t.Fatal("expected no identity from nil context")
	}
}

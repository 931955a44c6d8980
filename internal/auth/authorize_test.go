package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestAuthorize(t *testing.T) {
	admin := AccessContext{AccountID: "a", Role: RoleAdmin, Active: true}
	commercial := AccessContext{AccountID: "c", Role: RoleCommercial, Active: true}
	standard := AccessContext{AccountID: "s", Role: RoleStandard, Active: true}

	if err := Authorize(standard, nil); err != nil {
		t.Fatalf("empty role set must allow: %v", err)
	}
	if err := Authorize(admin, []Role{RoleCommercial}); err != nil {
		t.Fatalf("admin must bypass restrictions: %v", err)
	}
	if err := Authorize(commercial, []Role{RoleCommercial}); err != nil {
		t.Fatalf("matching role must allow: %v", err)
	}
	if err := Authorize(standard, []Role{RoleCommercial}); err == nil {
		t.Fatal("standard must be denied a commercial-only resource")
	}
}

func TestAuthorizeDenialMessage(t *testing.T) {
	standard := AccessContext{AccountID: "s", Role: RoleStandard, Active: true}
	err := Authorize(standard, []Role{RoleAdmin, RoleCommercial})
	if err == nil {
		t.Fatal("expected denial")
	}
	var denied *RoleDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("err = %T, want *RoleDeniedError", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "admin or commercial") {
		t.Fatalf("message must name required roles: %q", msg)
	}
	if !strings.Contains(msg, "standard") {
		t.Fatalf("message must name actual role: %q", msg)
	}
}

package idp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/relaycrm/relay/internal/auth"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(Config{
		URL:         srv.URL,
		ServiceKey:  "service-key",
		RedirectURL: "https://app.example.com/welcome",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, srv
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{ServiceKey: "k"}); err == nil {
		t.Fatal("expected error for missing URL")
	}
	if _, err := NewClient(Config{URL: "https://idp.example.com"}); err == nil {
		t.Fatal("expected error for missing service key")
	}
	if _, err := NewClient(Config{URL: "not a url", ServiceKey: "k"}); err == nil {
		t.Fatal("expected error for malformed URL")
	}
}

func TestInviteByEmail(t *testing.T) {
	var got struct {
		path    string
		auth    string
		apikey  string
		payload inviteRequest
	}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.auth = r.Header.Get("Authorization")
		got.apikey = r.Header.Get("apikey")
		if err := json.NewDecoder(r.Body).Decode(&got.payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"id": "11111111-2222-3333-4444-555555555555"})
	}))

	subject, err := client.InviteByEmail(context.Background(), "new@example.com", "New Person")
	if err != nil {
		t.Fatalf("InviteByEmail: %v", err)
	}
	if subject != "11111111-2222-3333-4444-555555555555" {
		t.Fatalf("subject = %q", subject)
	}
	if got.path != "/auth/v1/invite" {
		t.Fatalf("path = %q", got.path)
	}
	if got.auth != "Bearer service-key" || got.apikey != "service-key" {
		t.Fatalf("auth headers = %q / %q", got.auth, got.apikey)
	}
	if got.payload.Email != "new@example.com" {
		t.Fatalf("email = %q", got.payload.Email)
	}
	if got.payload.Data["full_name"] != "New Person" {
		t.Fatalf("full_name = %v", got.payload.Data["full_name"])
	}
	if got.payload.RedirectTo != "https://app.example.com/welcome" {
		t.Fatalf("redirect_to = %q", got.payload.RedirectTo)
	}
}

func TestInviteByEmailDuplicate(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"conflict": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		},
		"unprocessable": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		},
		"bad request with message": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"msg": "A user with this email address has already registered"})
		},
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, handler)
			_, err := client.InviteByEmail(context.Background(), "dup@example.com", "Dup")
			if !errors.Is(err, auth.ErrEmailRegistered) {
				t.Fatalf("err = %v, want ErrEmailRegistered", err)
			}
		})
	}
}

func TestInviteByEmailProviderError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "smtp unavailable"})
	}))
	_, err := client.InviteByEmail(context.Background(), "x@example.com", "X")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, auth.ErrEmailRegistered) {
		t.Fatalf("unexpected duplicate classification: %v", err)
	}
}

func TestDeleteIdentity(t *testing.T) {
	var gotPath, gotMethod string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	if err := client.DeleteIdentity(context.Background(), "subject-123"); err != nil {
		t.Fatalf("DeleteIdentity: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Fatalf("method = %q", gotMethod)
	}
	if gotPath != "/auth/v1/admin/users/subject-123" {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestDeleteIdentityMissingTolerated(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	if err := client.DeleteIdentity(context.Background(), "gone"); err != nil {
		t.Fatalf("DeleteIdentity: %v", err)
	}
}

func TestDeleteIdentityFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	if err := client.DeleteIdentity(context.Background(), "s"); err == nil {
		t.Fatal("expected error")
	}
	if err := client.DeleteIdentity(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty subject")
	}
}

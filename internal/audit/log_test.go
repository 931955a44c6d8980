package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/relaycrm/relay/internal/auth"
	"github.com/relaycrm/relay/internal/obs"
)

func TestLogEvent(t *testing.T) {
	logger := obs.Logger()
	original := logger.Writer()
	logger.SetFlags(0)
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(original)

	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-123")
	ctx = auth.ContextWithIdentity(ctx, auth.AccessContext{
		AccountID: "acct-42",
		Role:      auth.RoleAdmin,
		Active:    true,
	})

	if err := LogEvent(ctx, "account.role.change", map[string]any{"role": "commercial"}); err != nil {
		t.Fatalf("LogEvent failed: %v", err)
	}

	line := buf.String()
	if line == "" {
		t.Fatal("expected log output")
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log not valid JSON: %v", err)
	}
	if entry["type"] != "audit" {
		t.Fatalf("unexpected type: %v", entry["type"])
	}
	if entry["event"] != "account.role.change" {
		t.Fatalf("unexpected event: %v", entry["event"])
	}
	if entry["request_id"] != "req-123" {
		t.Fatalf("unexpected request id: %v", entry["request_id"])
	}
	if entry["actor_id"] != "acct-42" {
		t.Fatalf("unexpected actor id: %v", entry["actor_id"])
	}
	if entry["actor_role"] != "admin" {
		t.Fatalf("unexpected actor role: %v", entry["actor_role"])
	}
	fields, ok := entry["fields"].(map[string]any)
	if !ok || fields["role"] != "commercial" {
		t.Fatalf("fields missing or incorrect: %v", entry["fields"])
	}
}

func TestLogEventRequiresName(t *testing.T) {
	if err := LogEvent(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected error for empty event name")
	}
}

func TestLogEventWithoutContext(t *testing.T) {
	logger := obs.Logger()
	original := logger.Writer()
	logger.SetFlags(0)
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(original)

	if err := LogEvent(context.Background(), "account.invite", nil); err != nil {
		t.Fatalf("LogEvent failed: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log not valid JSON: %v", err)
	}
	if _, present := entry["request_id"]; present {
		t.Fatalf("unexpected request_id: %v", entry["request_id"])
	}
	if _, present := entry["actor_id"]; present {
		t.Fatalf("unexpected actor_id: %v", entry["actor_id"])
	}
}

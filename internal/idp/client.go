// Package idp is the admin client for the external identity provider. The
// provider authenticates end users and issues bearer tokens; this client only
// drives its admin surface (invitations, identity deletion) with the
// server-side service key.
package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/relaycrm/relay/internal/auth"
)

const defaultTimeout = 10 * time.Second

var _ auth.IdentityProvider = (*Client)(nil)

// Config holds provider connection settings.
type Config struct {
	// URL is the provider's base URL.
	URL string
	// ServiceKey is the server-side admin key. Never exposed to callers.
	ServiceKey string
	// RedirectURL is where the invitation email sends the user to finish
	// signup.
	RedirectURL string
	// Timeout bounds each admin call; defaults to 10s.
	Timeout time.Duration
}

// Client talks to the provider's admin REST API.
type Client struct {
	baseURL     string
	serviceKey  string
	redirectURL string
	httpClient  *http.Client
}

// NewClient validates the configuration and constructs a Client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		return nil, errors.New("idp: URL is required")
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, errors.New("idp: URL must be a valid http(s) URL")
	}
	key := strings.TrimSpace(cfg.ServiceKey)
	if key == "" {
		return nil, errors.New("idp: service key is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:     base,
		serviceKey:  key,
		redirectURL: strings.TrimSpace(cfg.RedirectURL),
		httpClient:  &http.Client{Timeout: timeout},
	}, nil
}

type inviteRequest struct {
	Email      string         `json:"email"`
	Data       map[string]any `json:"data,omitempty"`
	RedirectTo string         `json:"redirect_to,omitempty"`
}

type inviteResponse struct {
	ID string `json:"id"`
}

// InviteByEmail provisions an identity and triggers the provider's
// invitation email. Returns the provider-issued subject id.
func (c *Client) InviteByEmail(ctx context.Context, email, fullName string) (string, error) {
	payload := inviteRequest{
		Email:      email,
		Data:       map[string]any{"full_name": fullName},
		RedirectTo: c.redirectURL,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("idp: encode invite: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/invite", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("idp: build invite request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("idp: invite: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var out inviteResponse
		if err := json.Unmarshal(raw, &out); err != nil || strings.TrimSpace(out.ID) == "" {
			return "", errors.New("idp: invite response missing subject id")
		}
		return out.ID, nil
	case isDuplicateIdentity(resp.StatusCode, raw):
		return "", auth.ErrEmailRegistered
	default:
		return "", fmt.Errorf("idp: invite failed: status %d: %s", resp.StatusCode, providerMessage(raw))
	}
}

// DeleteIdentity removes the identity from the provider. A 404 is treated as
// success: the identity is gone either way.
func (c *Client) DeleteIdentity(ctx context.Context, subject string) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return errors.New("idp: subject is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/auth/v1/admin/users/"+neturl.PathEscape(subject), nil)
	if err != nil {
		return fmt.Errorf("idp: build delete request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("idp: delete: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return fmt.Errorf("idp: delete failed: status %d: %s", resp.StatusCode, providerMessage(raw))
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
}

func isDuplicateIdentity(status int, raw []byte) bool {
	if status == http.StatusConflict || status == http.StatusUnprocessableEntity {
		return true
	}
	return status == http.StatusBadRequest &&
		strings.Contains(strings.ToLower(string(raw)), "already registered")
}

// providerMessage pulls a short human message out of a provider error body
// for logs; the body shape varies across provider versions.
func providerMessage(raw []byte) string {
	var body struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, candidate := range []string{body.Msg, body.Message, body.Error} {
			if candidate != "" {
				return candidate
			}
		}
	}
	if len(raw) > 120 {
		raw = raw[:120]
	}
	return string(raw)
}

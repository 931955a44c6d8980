package auth

import "time"

// Account is the internally-owned identity record. Its id matches the
// external identity provider's subject claim; role and is_active are the
// single source of truth for authorization and are never read from token
// claims.
type Account struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenClaims is the verified, ephemeral payload of a bearer token. It is
// never persisted. ProviderRole carries the identity provider's session
// classification and must not be used for authorization decisions.
type TokenClaims struct {
	Subject      string
	Email        string
	ProviderRole string
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// AccessContext is the resolved per-request identity, built fresh on every
// request from the stored Account. It is the only identity representation
// downstream code may trust.
type AccessContext struct {
	AccountID string `json:"account_id"`
	Role      Role   `json:"role"`
	FullName  string `json:"full_name"`
	Email     string `json:"email,omitempty"`
	Active    bool   `json:"is_active"`
}

// ProfileUpdate is a patch over an account's own editable fields. Nil fields
// are left untouched. Role and active status are deliberately absent: those
// mutate only through admin operations.
type ProfileUpdate struct {
	FullName  *string `json:"full_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

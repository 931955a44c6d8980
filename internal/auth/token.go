package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAudience is the audience the identity provider stamps on end-user
// tokens.
const DefaultAudience = "authenticated"

// Validator verifies bearer tokens issued by the external identity provider.
// Validation is purely cryptographic and structural: signature against the
// fixed shared secret, expiry, audience. It never touches the database.
type Validator struct {
	secret   []byte
	audience string
	now      func() time.Time
}

// ValidatorOption configures Validator behavior.
type ValidatorOption func(*Validator)

// WithAudience overrides the expected audience claim. An empty value
// disables the audience check.
func WithAudience(aud string) ValidatorOption {
	return func(v *Validator) {
		v.audience = strings.TrimSpace(aud)
	}
}

// WithValidatorClock overrides the time source (useful for tests).
func WithValidatorClock(fn func() time.Time) ValidatorOption {
	return func(v *Validator) {
		if fn != nil {
			v.now = fn
		}
	}
}

// NewValidator constructs a Validator for the provider's signing secret.
func NewValidator(secret string, opts ...ValidatorOption) (*Validator, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("auth: signing secret is not configured")
	}
	v := &Validator{
		secret:   []byte(secret),
		audience: DefaultAudience,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// providerClaims mirrors the identity provider's token payload. The role
// claim is the provider's session classification, carried through for
// diagnostics only.
type providerClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Validate verifies a raw bearer token and returns its claims. Failures map
// onto ErrTokenMissing, ErrTokenExpired and ErrTokenInvalid; everything the
// underlying library reports beyond the expiry case collapses into
// ErrTokenInvalid so callers never see parser internals.
func (v *Validator) Validate(bearer string) (TokenClaims, error) {
	bearer = strings.TrimSpace(bearer)
	if bearer == "" {
		return TokenClaims{}, ErrTokenMissing
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	parsed, err := jwt.ParseWithClaims(bearer, &providerClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenInvalid
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenClaims{}, ErrTokenExpired
		}
		return TokenClaims{}, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*providerClaims)
	if !ok || !parsed.Valid {
		return TokenClaims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return TokenClaims{}, ErrTokenInvalid
	}

	out := TokenClaims{
		Subject:      claims.Subject,
		Email:        claims.Email,
		ProviderRole: claims.Role,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

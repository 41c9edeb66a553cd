// Package auth checks the shared token that clients of the gesture feed
// present when the bridge is exposed beyond localhost.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

// ErrInvalidToken indicates the token is missing or wrong.
var ErrInvalidToken = errors.New("auth: invalid token")

// Validator validates client tokens.
type Validator interface {
	Validate(ctx context.Context, token string) error
}

// StaticValidator accepts a single shared token.
type StaticValidator struct {
	token []byte
}

// NewStaticValidator creates a validator for token. Use NoopValidator to
// disable authentication.
func NewStaticValidator(token string) (*StaticValidator, error) {
	if token == "" {
		return nil, errors.New("auth: empty token")
	}
	return &StaticValidator{token: []byte(token)}, nil
}

func (v *StaticValidator) Validate(ctx context.Context, token string) error {
	if token == "" || subtle.ConstantTimeCompare([]byte(token), v.token) != 1 {
		return ErrInvalidToken
	}
	return nil
}

// NoopValidator allows all connections without validation (dev mode).
type NoopValidator struct{}

func (NoopValidator) Validate(ctx context.Context, token string) error {
	return nil
}

// FromConfig returns a StaticValidator for a configured token, or a
// NoopValidator when none is set.
func FromConfig(token string) Validator {
	if token == "" {
		return NoopValidator{}
	}
	v, err := NewStaticValidator(token)
	if err != nil {
		return NoopValidator{}
	}
	return v
}

// TokenFromRequest extracts a bearer token from the Authorization header,
// falling back to the token query parameter since browsers cannot set
// headers on WebSocket requests.
func TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get("token")
}

package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"product-catalog-api/internal/domain"
)

// Provider is one external login provider reachable through an
// authorization-code redirect.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	// Exchange trades the callback code for the caller's external identity.
	// A missing email is reported as an empty Email, not an error.
	Exchange(ctx context.Context, code string) (*domain.ExternalLoginInfo, error)
}

// StateStore holds issued CSRF state values until the callback consumes them.
type StateStore interface {
	Put(ctx context.Context, state string, ttl time.Duration) error
	Take(ctx context.Context, state string) (bool, error)
}

func NewState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

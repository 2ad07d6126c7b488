package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"product-catalog-api/internal/domain"
)

// DefaultTTL is the fixed access token lifetime.
const DefaultTTL = 30 * time.Minute

type Claims struct {
	Roles []domain.RoleName `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) HasAnyRole(roles ...domain.RoleName) bool {
	for _, r := range roles {
		if slices.Contains(c.Roles, r) {
			return true
		}
	}
	return false
}

type JWTer struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
	Now      func() time.Time
}

func (j *JWTer) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

func (j *JWTer) ttl() time.Duration {
	if j.TTL > 0 {
		return j.TTL
	}
	return DefaultTTL
}

func (j *JWTer) audience() string {
	if j.Audience != "" {
		return j.Audience
	}
	return j.Issuer
}

// Issue signs a token whose subject is the user name, with one role entry
// per membership in the order given.
func (j *JWTer) Issue(userName string, roles []domain.RoleName) (string, error) {
	if len(j.Secret) == 0 {
		return "", errors.New("jwt: empty signing key")
	}
	now := j.now()
	claims := Claims{
		Roles: append([]domain.RoleName{}, roles...),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userName,
			ID:        uuid.NewString(),
			Issuer:    j.Issuer,
			Audience:  jwt.ClaimStrings{j.audience()},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl())),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithIssuer(j.Issuer),
		jwt.WithAudience(j.audience()),
		jwt.WithLeeway(60 * time.Second),
		jwt.WithTimeFunc(j.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return j.Secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

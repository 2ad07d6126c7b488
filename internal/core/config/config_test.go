package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
app:
  http:
    port: 9090
jwt:
  secret: test-secret
  issuer: catalog
oauth:
  providers:
    github:
      kind: github
      clientid: abc
      clientsecret: def
`

func TestLoad_DefaultsAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	c := Load(path)

	assert.Equal(t, 9090, c.App.HTTP.Port)
	assert.Equal(t, "test-secret", c.JWT.Secret)
	assert.Equal(t, 30, c.JWT.AccessTokenTTLMin)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.True(t, c.DB.SeedRoles)
	assert.Equal(t, "http://localhost:4200/login", c.OAuth.FrontEndURL)
	require.Contains(t, c.OAuth.Providers, "github")
	assert.Equal(t, "abc", c.OAuth.Providers["github"].ClientID)
}

func TestValidate(t *testing.T) {
	c := &Config{DB: DB{Driver: "oracle"}}
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
	assert.Contains(t, err.Error(), "oracle")

	c = &Config{
		JWT: JWT{Secret: "s"},
		DB:  DB{Driver: "sqlite"},
		OAuth: OAuth{Providers: map[string]Provider{
			"corp": {Kind: "oidc"},
		}},
	}
	err = c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "issuerurl")

	c.OAuth.Providers["corp"] = Provider{Kind: "oidc", IssuerURL: "https://id.example.com"}
	assert.NoError(t, c.Validate())
}

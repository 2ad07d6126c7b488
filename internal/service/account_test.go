package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-catalog-api/internal/domain"
)

const goodPassword = "Passw0rd!"

func TestAccountService_RegisterAssignsRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.accounts.Register(ctx, "manager@example.com", goodPassword, "Manager"))

	u, err := env.users.FindByEmail(ctx, "manager@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	roles, err := env.users.GetRoles(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, []domain.RoleName{domain.RoleManager}, roles)
}

func TestAccountService_RegisterUnknownRoleKeepsUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.accounts.Register(ctx, "someone@example.com", goodPassword, "Overlord")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Invalid role specified.", err.Error())
	assert.EqualValues(t, 1, env.count(t, &domain.User{}, "email = ?", "someone@example.com"))

	err = env.accounts.Register(ctx, "someone@example.com", goodPassword, "Overlord")
	var ie domain.IdentityErrors
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "DuplicateUserName", ie[0].Code)
	assert.EqualValues(t, 1, env.count(t, &domain.User{}, "email = ?", "someone@example.com"))

	u, _ := env.users.FindByEmail(ctx, "someone@example.com")
	roles, err := env.users.GetRoles(ctx, u)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestAccountService_RegisterPasswordPolicy(t *testing.T) {
	env := newTestEnv(t)

	err := env.accounts.Register(context.Background(), "weak@example.com", "abc", "Capturer")
	var ie domain.IdentityErrors
	require.True(t, errors.As(err, &ie))
	codes := make([]string, 0, len(ie))
	for _, e := range ie {
		codes = append(codes, e.Code)
	}
	assert.Equal(t, []string{
		"PasswordTooShort",
		"PasswordRequiresNonAlphanumeric",
		"PasswordRequiresDigit",
		"PasswordRequiresUpper",
	}, codes)
	assert.Zero(t, env.count(t, &domain.User{}, "email = ?", "weak@example.com"))
}

func TestAccountService_LoginIssuesRoleClaims(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.accounts.Register(ctx, "boss@example.com", goodPassword, "Manager"))
	u, _ := env.users.FindByEmail(ctx, "boss@example.com")
	require.NoError(t, env.users.AddToRole(ctx, u, domain.RoleCapturer))

	token, err := env.accounts.Login(ctx, "boss@example.com", goodPassword)
	require.NoError(t, err)

	claims, err := env.jwt.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "boss@example.com", claims.Subject)
	assert.Equal(t, []domain.RoleName{domain.RoleManager, domain.RoleCapturer}, claims.Roles)
	assert.NotEmpty(t, claims.ID)
}

func TestAccountService_LoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.accounts.Register(ctx, "boss@example.com", goodPassword, "Manager"))

	token, err := env.accounts.Login(ctx, "boss@example.com", "Wrong0ne!")
	assert.ErrorIs(t, err, domain.ErrAuthentication)
	assert.Empty(t, token)

	token, err = env.accounts.Login(ctx, "nobody@example.com", goodPassword)
	assert.ErrorIs(t, err, domain.ErrAuthentication)
	assert.Empty(t, token)
}

func TestAccountService_SignInExternalProvisionsOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	info := *env.provider.info

	token, err := env.accounts.SignInExternal(ctx, &info)
	require.NoError(t, err)
	claims, err := env.jwt.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "octo@example.com", claims.Subject)
	assert.Equal(t, []domain.RoleName{domain.RoleCapturer}, claims.Roles)

	_, err = env.accounts.SignInExternal(ctx, &info)
	require.NoError(t, err)

	u, _ := env.users.FindByEmail(ctx, "octo@example.com")
	logins, err := env.users.GetLogins(ctx, u)
	require.NoError(t, err)
	require.Len(t, logins, 1)
	assert.Equal(t, "GitHub", logins[0].LoginProvider)
	assert.Equal(t, "4242", logins[0].ProviderKey)
	roles, _ := env.users.GetRoles(ctx, u)
	assert.Equal(t, []domain.RoleName{domain.RoleCapturer}, roles)
	assert.EqualValues(t, 1, env.count(t, &domain.User{}, "1 = 1"))
}

func TestAccountService_SignInExternalCreatesMissingRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.db.Where("name = ?", domain.RoleCapturer).Delete(&domain.Role{}).Error)

	_, err := env.accounts.SignInExternal(ctx, env.provider.info)
	require.NoError(t, err)

	ok, err := env.users.RoleExists(ctx, domain.RoleCapturer)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAccountService_SignInExternalLinksExistingUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.accounts.Register(ctx, "octo@example.com", goodPassword, "Manager"))

	token, err := env.accounts.SignInExternal(ctx, env.provider.info)
	require.NoError(t, err)

	claims, err := env.jwt.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, []domain.RoleName{domain.RoleManager, domain.RoleCapturer}, claims.Roles)

	u, _ := env.users.FindByEmail(ctx, "octo@example.com")
	logins, _ := env.users.GetLogins(ctx, u)
	assert.Len(t, logins, 1)
	assert.True(t, env.users.CheckPassword(ctx, u, goodPassword))
}

func TestAccountService_SignInExternalValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.SignInExternal(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.accounts.SignInExternal(ctx, &domain.ExternalLoginInfo{LoginProvider: "GitHub", ProviderKey: "1"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Email claim not received from external provider.", err.Error())
}

func TestAccountService_SignInExternalRollsBackOnFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	// the provider key is already linked to a different account
	require.NoError(t, env.accounts.Register(ctx, "first@example.com", goodPassword, "Capturer"))
	first, _ := env.users.FindByEmail(ctx, "first@example.com")
	require.NoError(t, env.users.AddLogin(ctx, first, *env.provider.info))

	info := *env.provider.info
	info.Email = "second@example.com"
	_, err := env.accounts.SignInExternal(ctx, &info)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.True(t, strings.HasPrefix(err.Error(), "Adding external login failed"))
	assert.Zero(t, env.count(t, &domain.User{}, "email = ?", "second@example.com"))
}

func TestAccountService_ExternalRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	authURL, err := env.accounts.ExternalChallenge(ctx, "github")
	require.NoError(t, err)
	u, err := url.Parse(authURL)
	require.NoError(t, err)
	state := u.Query().Get("state")
	require.NotEmpty(t, state)

	redirect, token, err := env.accounts.ExternalCallback(ctx, "github", state, "code")
	require.NoError(t, err)
	r, err := url.Parse(redirect)
	require.NoError(t, err)
	assert.Equal(t, "localhost:4200", r.Host)
	assert.Equal(t, "/login", r.Path)
	assert.Equal(t, token, r.Query().Get("token"))

	// state is single use
	_, _, err = env.accounts.ExternalCallback(ctx, "github", state, "code")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAccountService_ExternalCallbackErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.ExternalChallenge(ctx, "gitlab")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = env.accounts.ExternalCallback(ctx, "github", "never-issued", "code")
	assert.ErrorIs(t, err, domain.ErrValidation)

	env.provider.err = errors.New("exchange failed")
	authURL, err := env.accounts.ExternalChallenge(ctx, "github")
	require.NoError(t, err)
	u, _ := url.Parse(authURL)
	_, _, err = env.accounts.ExternalCallback(ctx, "github", u.Query().Get("state"), "code")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Error loading external login information.", err.Error())
}

func TestAdminService_Roles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	roles, err := env.admin.ListRoles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, domain.RoleManager, roles[0].Name)

	assert.ErrorIs(t, env.admin.CreateRole(ctx, "Overlord"), domain.ErrValidation)
	assert.ErrorIs(t, env.admin.CreateRole(ctx, "Manager"), domain.ErrValidation)

	require.NoError(t, env.accounts.Register(ctx, "cap@example.com", goodPassword, "Capturer"))
	require.NoError(t, env.admin.AssignRole(ctx, "cap@example.com", "Manager"))
	assert.ErrorIs(t, env.admin.AssignRole(ctx, "ghost@example.com", "Manager"), domain.ErrNotFound)

	users, total, err := env.admin.ListUsers(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, []domain.RoleName{domain.RoleCapturer, domain.RoleManager}, users[0].Roles)
}

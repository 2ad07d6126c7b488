package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"time"

	"go.uber.org/zap"

	"product-catalog-api/internal/core/oauth"
	"product-catalog-api/internal/domain"
)

// ExternalRole is granted to every user that signs in through a provider.
const ExternalRole = domain.RoleCapturer

type TokenIssuer interface {
	Issue(userName string, roles []domain.RoleName) (string, error)
}

type ExternalLoginOptions struct {
	Providers   []oauth.Provider
	States      oauth.StateStore
	FrontEndURL string
	StateTTL    time.Duration
}

type AccountService struct {
	store       domain.IdentityStore
	tokens      TokenIssuer
	providers   map[string]oauth.Provider
	states      oauth.StateStore
	frontEndURL string
	stateTTL    time.Duration
	log         *zap.Logger
}

func NewAccountService(store domain.IdentityStore, tokens TokenIssuer, ext ExternalLoginOptions, log *zap.Logger) *AccountService {
	s := &AccountService{
		store:       store,
		tokens:      tokens,
		providers:   make(map[string]oauth.Provider, len(ext.Providers)),
		states:      ext.States,
		frontEndURL: ext.FrontEndURL,
		stateTTL:    ext.StateTTL,
		log:         log,
	}
	for _, p := range ext.Providers {
		s.providers[p.Name()] = p
	}
	if s.stateTTL <= 0 {
		s.stateTTL = 10 * time.Minute
	}
	return s
}

func (s *AccountService) Providers() []string {
	names := make([]string, 0, len(s.providers))
	for n := range s.providers {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Register creates the user first and checks the role afterwards, so an
// unknown role leaves the account in place without any role.
func (s *AccountService) Register(ctx context.Context, email, password, role string) error {
	u := &domain.User{UserName: email, Email: email}
	if err := s.store.CreateUser(ctx, u, password); err != nil {
		return err
	}

	name := domain.RoleName(role)
	ok, err := s.store.RoleExists(ctx, name)
	if err != nil {
		return err
	}
	if !ok || !name.Known() {
		s.log.Warn("registered user without role", zap.String("user", email), zap.String("role", role))
		return domain.Validation("Invalid role specified.")
	}
	if err := s.store.AddToRole(ctx, u, name); err != nil {
		return err
	}
	s.log.Info("user registered", zap.String("user", email), zap.String("role", role))
	return nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.store.FindByUserName(ctx, email)
	if err != nil {
		return "", err
	}
	if u == nil || !s.store.CheckPassword(ctx, u, password) {
		loginTotal.WithLabelValues("password", "rejected").Inc()
		return "", domain.Authentication("invalid credentials")
	}
	token, err := s.issue(ctx, u)
	if err != nil {
		return "", err
	}
	loginTotal.WithLabelValues("password", "ok").Inc()
	return token, nil
}

// ExternalChallenge issues a one-shot state and returns the provider URL the
// browser should be sent to.
func (s *AccountService) ExternalChallenge(ctx context.Context, provider string) (string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", domain.NotFound(fmt.Sprintf("unknown external provider %q", provider))
	}
	state, err := oauth.NewState()
	if err != nil {
		return "", err
	}
	if err := s.states.Put(ctx, state, s.stateTTL); err != nil {
		return "", fmt.Errorf("store oauth state: %w", err)
	}
	return p.AuthCodeURL(state), nil
}

// ExternalCallback completes a provider round trip and returns the front-end
// URL carrying the issued token, together with the token itself.
func (s *AccountService) ExternalCallback(ctx context.Context, provider, state, code string) (redirect, token string, err error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", "", domain.NotFound(fmt.Sprintf("unknown external provider %q", provider))
	}
	valid, err := s.states.Take(ctx, state)
	if err != nil {
		return "", "", fmt.Errorf("load oauth state: %w", err)
	}
	if state == "" || !valid {
		return "", "", domain.Validation("invalid state parameter")
	}
	if code == "" {
		return "", "", domain.Validation("Error loading external login information.")
	}
	info, err := p.Exchange(ctx, code)
	if err != nil {
		s.log.Warn("external exchange failed", zap.String("provider", provider), zap.Error(err))
		loginTotal.WithLabelValues(provider, "rejected").Inc()
		return "", "", domain.Validation("Error loading external login information.")
	}

	token, err = s.SignInExternal(ctx, info)
	if err != nil {
		loginTotal.WithLabelValues(provider, "rejected").Inc()
		return "", "", err
	}
	loginTotal.WithLabelValues(provider, "ok").Inc()

	u, err := url.Parse(s.frontEndURL)
	if err != nil {
		return "", "", fmt.Errorf("parse front end url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), token, nil
}

// SignInExternal resolves info to a local user, provisioning or linking as
// needed, and issues a token. Provisioning runs in one transaction.
func (s *AccountService) SignInExternal(ctx context.Context, info *domain.ExternalLoginInfo) (string, error) {
	if info == nil {
		return "", domain.Validation("Error loading external login information.")
	}
	if info.Email == "" {
		return "", domain.Validation("Email claim not received from external provider.")
	}

	var user *domain.User
	err := s.store.WithTx(ctx, func(tx domain.IdentityStore) error {
		u, err := tx.FindByEmail(ctx, info.Email)
		if err != nil {
			return err
		}
		if u == nil {
			user, err = s.provision(ctx, tx, info)
			return err
		}
		user = u
		return s.link(ctx, tx, u, info)
	})
	if err != nil {
		return "", err
	}
	return s.issue(ctx, user)
}

func (s *AccountService) provision(ctx context.Context, tx domain.IdentityStore, info *domain.ExternalLoginInfo) (*domain.User, error) {
	u := &domain.User{UserName: info.Email, Email: info.Email}
	if err := tx.CreateUser(ctx, u, ""); err != nil {
		return nil, describe("User creation failed", err)
	}
	ok, err := tx.RoleExists(ctx, ExternalRole)
	if err != nil {
		return nil, err
	}
	if !ok {
		if err := tx.CreateRole(ctx, ExternalRole); err != nil {
			return nil, describe("Role creation failed", err)
		}
	}
	if err := tx.AddToRole(ctx, u, ExternalRole); err != nil {
		return nil, describe("Adding role to user failed", err)
	}
	if err := tx.AddLogin(ctx, u, *info); err != nil {
		return nil, describe("Adding external login failed", err)
	}
	s.log.Info("user provisioned from external login",
		zap.String("user", u.UserName),
		zap.String("provider", info.LoginProvider),
	)
	return u, nil
}

func (s *AccountService) link(ctx context.Context, tx domain.IdentityStore, u *domain.User, info *domain.ExternalLoginInfo) error {
	logins, err := tx.GetLogins(ctx, u)
	if err != nil {
		return err
	}
	linked := slices.ContainsFunc(logins, func(l domain.UserLogin) bool {
		return l.LoginProvider == info.LoginProvider && l.ProviderKey == info.ProviderKey
	})
	if !linked {
		if err := tx.AddLogin(ctx, u, *info); err != nil {
			return describe("Adding external login failed", err)
		}
		s.log.Info("external login linked", zap.String("user", u.UserName), zap.String("provider", info.LoginProvider))
	}

	roles, err := tx.GetRoles(ctx, u)
	if err != nil {
		return err
	}
	if !slices.Contains(roles, ExternalRole) {
		if err := tx.AddToRole(ctx, u, ExternalRole); err != nil {
			return describe("Adding role to user failed", err)
		}
	}
	return nil
}

func (s *AccountService) issue(ctx context.Context, u *domain.User) (string, error) {
	roles, err := s.store.GetRoles(ctx, u)
	if err != nil {
		return "", err
	}
	token, err := s.tokens.Issue(u.UserName, roles)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// describe turns identity rule failures into a validation error with a
// prefix naming the failed step. Other errors pass through.
func describe(step string, err error) error {
	var ie domain.IdentityErrors
	if errors.As(err, &ie) || errors.Is(err, domain.ErrValidation) {
		return domain.Validation(fmt.Sprintf("%s: %s", step, err.Error()))
	}
	return err
}

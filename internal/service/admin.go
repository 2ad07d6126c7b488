package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"product-catalog-api/internal/domain"
)

type UserWithRoles struct {
	ID       string            `json:"id"`
	UserName string            `json:"userName"`
	Email    string            `json:"email"`
	Roles    []domain.RoleName `json:"roles"`
	Logins   []string          `json:"logins"`
}

// AdminService backs the Manager-only admin API: user listing and role
// management over the closed role set.
type AdminService struct {
	store domain.IdentityStore
	log   *zap.Logger
}

func NewAdminService(store domain.IdentityStore, log *zap.Logger) *AdminService {
	return &AdminService{store: store, log: log}
}

func (s *AdminService) ListUsers(ctx context.Context, offset, limit int) ([]UserWithRoles, int64, error) {
	users, total, err := s.store.ListUsers(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]UserWithRoles, 0, len(users))
	for i := range users {
		u := &users[i]
		roles, err := s.store.GetRoles(ctx, u)
		if err != nil {
			return nil, 0, err
		}
		logins, err := s.store.GetLogins(ctx, u)
		if err != nil {
			return nil, 0, err
		}
		providers := make([]string, 0, len(logins))
		for _, l := range logins {
			providers = append(providers, l.LoginProvider)
		}
		out = append(out, UserWithRoles{ID: u.ID, UserName: u.UserName, Email: u.Email, Roles: roles, Logins: providers})
	}
	return out, total, nil
}

func (s *AdminService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return s.store.ListRoles(ctx)
}

func (s *AdminService) CreateRole(ctx context.Context, name string) error {
	role := domain.RoleName(name)
	if !role.Known() {
		return domain.Validation(fmt.Sprintf("unknown role %q", name))
	}
	if err := s.store.CreateRole(ctx, role); err != nil {
		return err
	}
	s.log.Info("role created", zap.String("role", name))
	return nil
}

func (s *AdminService) AssignRole(ctx context.Context, email, name string) error {
	role := domain.RoleName(name)
	if !role.Known() {
		return domain.Validation(fmt.Sprintf("unknown role %q", name))
	}
	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.NotFound("user not found")
	}
	if err := s.store.AddToRole(ctx, u, role); err != nil {
		return err
	}
	s.log.Info("role assigned", zap.String("user", email), zap.String("role", name))
	return nil
}

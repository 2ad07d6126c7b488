package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"product-catalog-api/internal/domain"
	"product-catalog-api/pkg/utils"
)

// UserRepo is the gorm-backed identity store: users, roles, role
// memberships and external login links.
type UserRepo struct {
	db     *gorm.DB
	policy PasswordPolicy
}

func NewUserRepo(db *gorm.DB, policy PasswordPolicy) *UserRepo {
	return &UserRepo{db: db, policy: policy}
}

func (r *UserRepo) WithTx(ctx context.Context, fn func(tx domain.IdentityStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UserRepo{db: tx, policy: r.policy})
	})
}

func (r *UserRepo) CreateUser(ctx context.Context, u *domain.User, password string) error {
	var errs domain.IdentityErrors
	if password != "" {
		errs = append(errs, r.policy.Check(password)...)
	}
	if !validUserName(u.UserName) {
		errs = append(errs, domain.IdentityError{
			Code:        "InvalidUserName",
			Description: fmt.Sprintf("Username '%s' is invalid, can only contain letters or digits.", u.UserName),
		})
	}
	if existing, err := r.FindByUserName(ctx, u.UserName); err != nil {
		return err
	} else if existing != nil {
		errs = append(errs, duplicateUserName(u.UserName))
	}
	if len(errs) > 0 {
		return errs
	}

	if u.ID == "" {
		u.ID = utils.NewID()
	}
	if password != "" {
		hash, err := utils.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDupKey(err) {
			return domain.IdentityErrors{duplicateUserName(u.UserName)}
		}
		return err
	}
	return nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *UserRepo) FindByUserName(ctx context.Context, userName string) (*domain.User, error) {
	return r.findOne(ctx, "user_name = ?", userName)
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) CheckPassword(_ context.Context, u *domain.User, password string) bool {
	if u == nil || u.PasswordHash == "" {
		return false
	}
	return utils.CheckPassword(password, u.PasswordHash)
}

func (r *UserRepo) ListUsers(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	var users []domain.User
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := tx.Offset(offset).Limit(limit).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) RoleExists(ctx context.Context, name domain.RoleName) (bool, error) {
	role, err := r.findRole(ctx, name)
	return role != nil, err
}

func (r *UserRepo) CreateRole(ctx context.Context, name domain.RoleName) error {
	if strings.TrimSpace(string(name)) == "" {
		return domain.IdentityErrors{{Code: "InvalidRoleName", Description: "Role name is invalid."}}
	}
	if err := r.db.WithContext(ctx).Create(&domain.Role{Name: name}).Error; err != nil {
		if isDupKey(err) {
			return domain.IdentityErrors{{
				Code:        "DuplicateRoleName",
				Description: fmt.Sprintf("Role name '%s' is already taken.", name),
			}}
		}
		return err
	}
	return nil
}

func (r *UserRepo) ListRoles(ctx context.Context) ([]domain.Role, error) {
	var roles []domain.Role
	err := r.db.WithContext(ctx).Order("id").Find(&roles).Error
	return roles, err
}

func (r *UserRepo) findRole(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	var role domain.Role
	err := r.db.WithContext(ctx).First(&role, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *UserRepo) AddToRole(ctx context.Context, u *domain.User, name domain.RoleName) error {
	role, err := r.findRole(ctx, name)
	if err != nil {
		return err
	}
	if role == nil {
		return domain.IdentityErrors{{
			Code:        "RoleNotFound",
			Description: fmt.Sprintf("Role %s does not exist.", name),
		}}
	}
	if err := r.db.WithContext(ctx).Create(&domain.UserRole{UserID: u.ID, RoleID: role.ID}).Error; err != nil {
		if isDupKey(err) {
			return domain.IdentityErrors{{
				Code:        "UserAlreadyInRole",
				Description: fmt.Sprintf("User already in role '%s'.", name),
			}}
		}
		return err
	}
	return nil
}

// GetRoles returns role names in assignment order.
func (r *UserRepo) GetRoles(ctx context.Context, u *domain.User) ([]domain.RoleName, error) {
	names := make([]domain.RoleName, 0)
	err := r.db.WithContext(ctx).
		Table("user_roles").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id = ?", u.ID).
		Order("user_roles.id").
		Pluck("roles.name", &names).Error
	return names, err
}

func (r *UserRepo) GetLogins(ctx context.Context, u *domain.User) ([]domain.UserLogin, error) {
	var logins []domain.UserLogin
	err := r.db.WithContext(ctx).Where("user_id = ?", u.ID).Find(&logins).Error
	return logins, err
}

func (r *UserRepo) AddLogin(ctx context.Context, u *domain.User, info domain.ExternalLoginInfo) error {
	l := domain.UserLogin{
		LoginProvider:       info.LoginProvider,
		ProviderKey:         info.ProviderKey,
		ProviderDisplayName: info.ProviderDisplayName,
		UserID:              u.ID,
	}
	if err := r.db.WithContext(ctx).Create(&l).Error; err != nil {
		if isDupKey(err) {
			return domain.IdentityErrors{{Code: "LoginAlreadyAssociated", Description: "A user with this login already exists."}}
		}
		return err
	}
	return nil
}

func duplicateUserName(name string) domain.IdentityError {
	return domain.IdentityError{
		Code:        "DuplicateUserName",
		Description: fmt.Sprintf("Username '%s' is already taken.", name),
	}
}

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

const userNameChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-._@+"

func validUserName(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	for _, r := range name {
		if !strings.ContainsRune(userNameChars, r) {
			return false
		}
	}
	return true
}

package domain

import (
	"context"
	"time"
)

type RoleName string

const (
	RoleManager  RoleName = "Manager"
	RoleCapturer RoleName = "Capturer"
)

// KnownRoles is the closed role set, in seeding order.
var KnownRoles = []RoleName{RoleManager, RoleCapturer}

func (r RoleName) Known() bool {
	for _, k := range KnownRoles {
		if r == k {
			return true
		}
	}
	return false
}

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	UserName     string    `gorm:"uniqueIndex;size:191;not null" json:"userName"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string    `gorm:"size:100" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

type Role struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      RoleName  `gorm:"uniqueIndex;size:64;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Role) TableName() string { return "roles" }

type UserRole struct {
	ID     uint   `gorm:"primaryKey"`
	UserID string `gorm:"size:36;uniqueIndex:ux_user_role;not null"`
	RoleID uint   `gorm:"uniqueIndex:ux_user_role;not null"`
}

func (UserRole) TableName() string { return "user_roles" }

// UserLogin links an external provider identity to a local user.
type UserLogin struct {
	LoginProvider       string `gorm:"primaryKey;size:64" json:"loginProvider"`
	ProviderKey         string `gorm:"primaryKey;size:191" json:"providerKey"`
	ProviderDisplayName string `gorm:"size:64" json:"providerDisplayName"`
	UserID              string `gorm:"size:36;index;not null" json:"userId"`
}

func (UserLogin) TableName() string { return "user_logins" }

// ExternalLoginInfo is what a provider exchange yields.
type ExternalLoginInfo struct {
	LoginProvider       string
	ProviderKey         string
	ProviderDisplayName string
	Email               string
}

type IdentityStore interface {
	// CreateUser persists u. An empty password creates a user without a
	// local credential. Policy failures come back as IdentityErrors.
	CreateUser(ctx context.Context, u *User, password string) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUserName(ctx context.Context, userName string) (*User, error)
	CheckPassword(ctx context.Context, u *User, password string) bool
	ListUsers(ctx context.Context, offset, limit int) ([]User, int64, error)

	RoleExists(ctx context.Context, name RoleName) (bool, error)
	CreateRole(ctx context.Context, name RoleName) error
	ListRoles(ctx context.Context) ([]Role, error)
	AddToRole(ctx context.Context, u *User, name RoleName) error
	GetRoles(ctx context.Context, u *User) ([]RoleName, error)

	GetLogins(ctx context.Context, u *User) ([]UserLogin, error)
	AddLogin(ctx context.Context, u *User, info ExternalLoginInfo) error

	WithTx(ctx context.Context, fn func(tx IdentityStore) error) error
}

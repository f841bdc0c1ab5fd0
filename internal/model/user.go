package model

import (
	"strings"
	"time"

	"github.com/carzone/server/internal/utils/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole represents what a user is allowed to do.
type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleSeller   UserRole = "seller"
	UserRoleAdmin    UserRole = "admin"
)

// IsValid returns true if the role is known.
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleCustomer, UserRoleSeller, UserRoleAdmin:
		return true
	}
	return false
}

// CanManageCatalog reports whether the role may create and edit products.
func (r UserRole) CanManageCatalog() bool {
	return r == UserRoleSeller || r == UserRoleAdmin
}

// UserStatus represents the account status.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// IsValid returns true if the status is known.
func (s UserStatus) IsValid() bool {
	return s == UserStatusActive || s == UserStatusSuspended
}

// User represents a storefront account.
type User struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string         `json:"email" gorm:"uniqueIndex;not null"`
	Name         string         `json:"name" gorm:"not null"`
	PasswordHash string         `json:"-"`
	Role         UserRole       `json:"role" gorm:"not null;default:customer"`
	Status       UserStatus     `json:"status" gorm:"not null;default:active"`
	AvatarURL    string         `json:"avatar_url,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "users"
}

// IsAdmin returns true for administrators.
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// IsActive returns true if the user may sign in.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserFilter represents user query filters.
type UserFilter struct {
	Role   *UserRole   `form:"role"`
	Status *UserStatus `form:"status"`
	Search string      `form:"q"`
	pagination.Pagination
}

// UpdateUserRequest is the admin payload for changing a user's role or status.
type UpdateUserRequest struct {
	Role   *UserRole   `json:"role,omitempty"`
	Status *UserStatus `json:"status,omitempty"`
	Name   *string     `json:"name,omitempty"`
}

// Actor is the authenticated caller of a domain operation.
type Actor struct {
	UserID uuid.UUID
	Role   UserRole
}

// IsAdmin returns true for administrators.
func (a Actor) IsAdmin() bool {
	return a.Role == UserRoleAdmin
}

// CanManageProduct reports whether the actor may edit a product owned by sellerID.
func (a Actor) CanManageProduct(sellerID uuid.UUID) bool {
	return a.IsAdmin() || (a.Role == UserRoleSeller && a.UserID == sellerID)
}

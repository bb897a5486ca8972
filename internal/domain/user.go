package domain

import (
	"context"
	"time"
)

// Role designates what a user may do in the system
type Role string

const (
	RoleOrganization Role = "ORGANIZATION"
	RoleProfessor    Role = "PROFESSOR"
	RoleAdmin        Role = "ADMIN"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleOrganization, RoleProfessor, RoleAdmin:
		return true
	}
	return false
}

// UserStatus is the lifecycle state of an account
type UserStatus string

const (
	UserStatusActive  UserStatus = "ACTIVE"
	UserStatusPending UserStatus = "PENDING"
	UserStatusDeleted UserStatus = "DELETED"
)

// User represents an organization, professor or admin account
type User struct {
	ID               int64
	Email            string // Unique, used as login name
	FirstName        string
	LastName         string
	OrganizationName *string // Only set for organizations
	Phone            string
	Role             Role
	Status           UserStatus
	PasswordHash     string // Bcrypt hash (never returned in API)
	UpdatedAt        time.Time
}

// NewUser builds an ACTIVE user from signup data. The password must already be hashed.
func NewUser(email, firstName, lastName string, organizationName *string, phone string, role Role, passwordHash string, now time.Time) *User {
	return &User{
		Email:            email,
		FirstName:        firstName,
		LastName:         lastName,
		OrganizationName: organizationName,
		Phone:            phone,
		Role:             role,
		Status:           UserStatusActive,
		PasswordHash:     passwordHash,
		UpdatedAt:        now,
	}
}

// UserRepository defines data access for users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByIDAndRole(ctx context.Context, id int64, role Role) (bool, error)
}

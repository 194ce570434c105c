package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is the coarse permission tier of a user within its tenant.
// Operators carry RoleOperator and no tenant; everyone else has exactly one.
type Role string

const (
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
	RoleEditor   Role = "editor"
	RoleViewer   Role = "viewer"
)

// User is a persisted account. TenantID is nil only for platform operators.
type User struct {
	ID           uuid.UUID
	TenantID     *uuid.UUID
	Email        string
	Name         string
	Role         Role
	PasswordHash []byte
	Active       bool
	CreatedAt    time.Time
}

// UserStore loads accounts for authentication. Lookups are tenant-filtered
// at the query level: the same email existing under another tenant must not
// authenticate here.
type UserStore interface {
	// FindByEmailAndTenant returns the active user with this email inside
	// the given tenant, or ErrInvalidCredentials semantics via not-found.
	FindByEmailAndTenant(ctx context.Context, email string, tenantID uuid.UUID) (*User, error)

	// FindOperatorByEmail returns the active operator account (no tenant)
	// with this email.
	FindOperatorByEmail(ctx context.Context, email string) (*User, error)

	// FindByID returns the active user by id, for token refresh.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
}

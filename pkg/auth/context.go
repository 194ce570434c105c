package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/sitegrid/sitegrid/pkg/authz"
)

// Principal is the authenticated caller attached to the request context.
// Its Scope is derived once from the credential: operator when the token
// carries no tenant, tenant-bound otherwise.
type Principal struct {
	ID    uuid.UUID
	Email string
	Role  Role
	Scope authz.Scope
}

type contextKey struct{}

// WithPrincipal attaches the authenticated principal to the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PrincipalFromContext retrieves the authenticated principal.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(*Principal)
	return p, ok && p != nil
}

// ScopeFromContext adapts the principal context to the guard's ScopeFunc.
func ScopeFromContext(ctx context.Context) (authz.Scope, bool) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return authz.Scope{}, false
	}
	return p.Scope, true
}

// principalFromClaims builds the request principal from validated claims.
func principalFromClaims(claims *Claims) *Principal {
	scope := authz.OperatorScope()
	if claims.TenantID != nil {
		scope = authz.TenantScope(*claims.TenantID)
	}
	return &Principal{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  claims.Role,
		Scope: scope,
	}
}

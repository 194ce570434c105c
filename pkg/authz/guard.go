package authz

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/sitegrid/sitegrid/pkg/tenant"
)

// Authorize is the single decision point for tenant isolation: operator
// scopes act on any tenant, tenant scopes only on their own.
func Authorize(scope Scope, resolved uuid.UUID) error {
	if scope.IsOperator() {
		return nil
	}
	if id, ok := scope.Tenant(); ok && id == resolved {
		return nil
	}
	return ErrTenantMismatch
}

// ScopeFunc extracts the authenticated principal's scope from the request
// context. It decouples the guard from the authentication package.
type ScopeFunc func(ctx context.Context) (Scope, bool)

// GuardOption configures the guard middleware.
type GuardOption func(*guardConfig)

type guardConfig struct {
	logger       *slog.Logger
	errorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

// WithLogger sets the audit logger for authorization failures.
func WithLogger(logger *slog.Logger) GuardOption {
	return func(c *guardConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(handler func(w http.ResponseWriter, r *http.Request, err error)) GuardOption {
	return func(c *guardConfig) {
		if handler != nil {
			c.errorHandler = handler
		}
	}
}

func newGuardConfig(opts []GuardOption) *guardConfig {
	cfg := &guardConfig{
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		errorHandler: defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// RequireTenantAccess verifies that the tenant implied by the request's
// resolution matches the tenant embedded in the caller's credential.
// Operator principals bypass the comparison; everyone else must match
// exactly. Mismatches are rejected as forbidden and logged with both tenant
// ids for audit.
func RequireTenantAccess(scopeFrom ScopeFunc, opts ...GuardOption) func(http.Handler) http.Handler {
	cfg := newGuardConfig(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope, ok := scopeFrom(r.Context())
			if !ok {
				cfg.errorHandler(w, r, ErrNoPrincipal)
				return
			}

			resolved, ok := tenant.IDFromContext(r.Context())
			if !ok {
				cfg.errorHandler(w, r, tenant.ErrTenantRequired)
				return
			}

			if err := Authorize(scope, resolved); err != nil {
				cfg.logger.WarnContext(r.Context(), "cross-tenant access denied",
					slog.String("principal_scope", scope.String()),
					slog.String("request_tenant_id", resolved.String()),
					slog.String("path", r.URL.Path),
				)
				cfg.errorHandler(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireOperator restricts a route group to platform-operator principals.
func RequireOperator(scopeFrom ScopeFunc, opts ...GuardOption) func(http.Handler) http.Handler {
	cfg := newGuardConfig(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope, ok := scopeFrom(r.Context())
			if !ok {
				cfg.errorHandler(w, r, ErrNoPrincipal)
				return
			}
			if !scope.IsOperator() {
				cfg.logger.WarnContext(r.Context(), "operator route access denied",
					slog.String("principal_scope", scope.String()),
					slog.String("path", r.URL.Path),
				)
				cfg.errorHandler(w, r, ErrOperatorRequired)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNoPrincipal):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, tenant.ErrTenantRequired):
		http.Error(w, "Tenant context required", http.StatusBadRequest)
	case errors.Is(err, ErrTenantMismatch), errors.Is(err, ErrOperatorRequired):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

package authz

import "errors"

var (
	// ErrTenantMismatch is returned when a tenant-scoped principal acts on a
	// request resolved to a different tenant. This is an authorization
	// failure, not a not-found: the resource may exist, just not for this
	// caller, and the rejection must stay auditable rather than dissolving
	// into an empty result set.
	ErrTenantMismatch = errors.New("principal tenant does not match request tenant")

	// ErrOperatorRequired is returned when a non-operator principal reaches
	// a platform-administration route.
	ErrOperatorRequired = errors.New("operator scope required")

	// ErrNoPrincipal is returned when no authenticated principal scope is
	// available for the check.
	ErrNoPrincipal = errors.New("no authenticated principal")
)

package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when no servable tenant matches the
	// request. Inactive and suspended tenants deliberately surface as this
	// error as well.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrReservedDomain is returned when a request targets a platform
	// infrastructure hostname that must never map to a tenant.
	ErrReservedDomain = errors.New("domain is reserved")

	// ErrTenantRequired is returned when a route that mandates tenant
	// scoping received no resolvable host and no trusted explicit id.
	ErrTenantRequired = errors.New("tenant context required")

	// ErrInvalidTenantID is returned when an explicit tenant id is malformed.
	ErrInvalidTenantID = errors.New("invalid tenant id")

	// ErrNoTenantInContext is returned when a handler requires a resolution
	// that the middleware never attached.
	ErrNoTenantInContext = errors.New("no tenant in context")
)

package tenant

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// ErrorHandler maps resolution failures to HTTP responses.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// config holds middleware configuration.
type config struct {
	cache         Cache
	cacheTTL      time.Duration
	errorHandler  ErrorHandler
	skipPaths     []string
	require       bool
	trustIDHeader bool
	logger        *slog.Logger
}

// Option configures the middleware.
type Option func(*config)

// WithCache sets a custom cache implementation.
func WithCache(cache Cache) Option {
	return func(c *config) { c.cache = cache }
}

// WithCacheTTL sets how long resolutions stay cached. Keep this short
// relative to how quickly deactivations must take effect; cached entries
// are re-validated for servability but admin mutations should also call
// Cache.Delete for the affected keys.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *config) { c.cacheTTL = ttl }
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(c *config) {
		if handler != nil {
			c.errorHandler = handler
		}
	}
}

// WithSkipPaths sets path prefixes that bypass resolution entirely
// (health checks, metrics).
func WithSkipPaths(paths ...string) Option {
	return func(c *config) { c.skipPaths = append(c.skipPaths, paths...) }
}

// WithRequired makes a missing host a hard ErrTenantRequired failure instead
// of passing the request through without a tenant. Informational call sites
// (debug endpoints) leave this off and degrade gracefully.
func WithRequired() Option {
	return func(c *config) { c.require = true }
}

// WithTrustedIDHeader enables the explicit-id path: an X-Tenant-Id header
// takes precedence over hostname resolution. Only mount this on route groups
// whose callers are already authenticated as operators.
func WithTrustedIDHeader() Option {
	return func(c *config) { c.trustIDHeader = true }
}

// WithLogger sets the logger used for resolution diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// DefaultErrorHandler maps the resolution error taxonomy onto statuses:
// reserved domains are forbidden, unknown domains are not found, and a
// missing or malformed tenant signal is the caller's fault.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrReservedDomain):
		http.Error(w, "Domain is reserved", http.StatusForbidden)
	case errors.Is(err, ErrTenantNotFound):
		http.Error(w, "Tenant not found", http.StatusNotFound)
	case errors.Is(err, ErrTenantRequired):
		http.Error(w, "Tenant context required", http.StatusBadRequest)
	case errors.Is(err, ErrInvalidTenantID):
		http.Error(w, "Invalid tenant id", http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

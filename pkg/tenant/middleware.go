package tenant

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Middleware resolves the request tenant and attaches the resolution to the
// context before any business logic runs. Resolution happens strictly ahead
// of the handler chain, so tenant-scoped data access can rely on the context
// being populated (or the request already rejected).
func Middleware(resolver *Resolver, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		cache:        NewInMemoryCache(),
		cacheTTL:     5 * time.Minute,
		errorHandler: DefaultErrorHandler,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			if cfg.trustIDHeader {
				if raw := r.Header.Get(HeaderTenantID); raw != "" {
					id, err := uuid.Parse(raw)
					if err != nil {
						cfg.errorHandler(w, r, ErrInvalidTenantID)
						return
					}
					res, err := resolver.ResolveID(r.Context(), id)
					if err != nil {
						cfg.errorHandler(w, r, err)
						return
					}
					next.ServeHTTP(w, r.WithContext(WithResolution(r.Context(), res)))
					return
				}
			}

			host := HostFromRequest(r)
			if host == "" {
				if cfg.require {
					cfg.errorHandler(w, r, ErrTenantRequired)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if cached, ok := cfg.cache.Get(r.Context(), host); ok {
				// A deactivation may land between cache fill and hit; the
				// servability re-check keeps stale entries from attaching a
				// disabled tenant.
				if !cached.Tenant.IsServable() {
					cfg.cache.Delete(r.Context(), host)
					cfg.errorHandler(w, r, ErrTenantNotFound)
					return
				}
				next.ServeHTTP(w, r.WithContext(WithResolution(r.Context(), cached)))
				return
			}

			res, err := resolver.ResolveDomain(r.Context(), host)
			if err != nil {
				cfg.logger.DebugContext(r.Context(), "tenant resolution failed",
					slog.String("host", host),
					slog.String("error", err.Error()),
				)
				cfg.errorHandler(w, r, err)
				return
			}

			cfg.cache.Set(r.Context(), host, res, cfg.cacheTTL)
			next.ServeHTTP(w, r.WithContext(WithResolution(r.Context(), res)))
		})
	}
}

// RequireTenant rejects requests whose context carries no resolution.
// Mount it behind Middleware on route groups that mandate tenant scoping.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = DefaultErrorHandler
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); !ok {
				errorHandler(w, r, ErrTenantRequired)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Package tenant resolves which customer site an incoming request belongs to
// and threads that decision through the request context.
//
// Resolution is the security boundary of the platform: every downstream
// query takes the resolved tenant id as a mandatory predicate, so an
// incorrect or missing resolution would leak one tenant's data to another.
// The package therefore fails closed everywhere: reserved platform
// hostnames never resolve, inactive tenants are indistinguishable from
// absent ones, and store errors abort the request instead of degrading to
// an unfiltered query.
//
// # Architecture
//
// Three pieces cooperate:
//
//  1. HostFromRequest derives a normalized hostname candidate from the
//     header set (X-Tenant-Host, X-Forwarded-Host, Host — first wins).
//  2. Resolver maps the hostname (or a trusted explicit id) to a servable
//     tenant with a fixed fallback precedence: reserved check, primary
//     domain, slug-under-base-domain, alias domain.
//  3. Middleware runs resolution ahead of the handler chain, caches the
//     outcome, and attaches an immutable Resolution to the context.
//
// # Usage
//
//	reserved := tenant.NewReservedDomains("admin.sitegrid.app", "api.sitegrid.app", "localhost")
//	resolver := tenant.NewResolver(store, reserved, tenant.WithBaseDomain("sitegrid.app"))
//
//	r.Use(tenant.Middleware(resolver,
//		tenant.WithRequired(),
//		tenant.WithCache(tenant.NewRedisCache(redisClient, "")),
//		tenant.WithSkipPaths("/health"),
//	))
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		res := tenant.MustFromContext(r.Context())
//		// res.Tenant.ID is the mandatory query predicate
//	}
//
// The Resolution records provenance (primary domain, slug, alias domain or
// explicit id) for diagnostics; business logic must not branch on it.
package tenant

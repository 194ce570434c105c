package tenant

import (
	"net/http"
	"strings"
)

// Headers consulted for the hostname candidate, in priority order.
// X-Tenant-Host lets trusted proxies pin the tenant host explicitly,
// X-Forwarded-Host covers conventional reverse-proxy setups, and the raw
// Host header is the direct-connection fallback.
const (
	HeaderTenantHost    = "X-Tenant-Host"
	HeaderForwardedHost = "X-Forwarded-Host"
	HeaderTenantID      = "X-Tenant-Id"
)

// HostFromRequest derives a single normalized hostname candidate from the
// request headers. It is a pure function of the header set: first non-empty
// of X-Tenant-Host, X-Forwarded-Host, Host wins. Returns "" when no header
// carries a value.
func HostFromRequest(r *http.Request) string {
	for _, h := range []string{
		r.Header.Get(HeaderTenantHost),
		r.Header.Get(HeaderForwardedHost),
		r.Host,
	} {
		if h = strings.TrimSpace(h); h != "" {
			return NormalizeHost(h)
		}
	}
	return ""
}

// NormalizeHost lowercases the hostname and strips an optional trailing
// :port suffix.
func NormalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	// Strip the suffix only when it is actually a port; a bare colon inside
	// an IPv6 literal must survive.
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		if port := host[idx+1:]; port != "" && strings.IndexFunc(port, func(r rune) bool { return r < '0' || r > '9' }) == -1 {
			host = host[:idx]
		}
	}
	return strings.TrimSuffix(host, ".")
}

package tenant

// ReservedDomains is an immutable, exact-match set of platform hostnames
// (admin console, portal, API gateway, localhost) that must never resolve
// to a tenant, even if a tenant row exists with that exact domain. The set
// is built once at startup and is safe for unsynchronized concurrent reads.
type ReservedDomains struct {
	set map[string]struct{}
}

// NewReservedDomains builds the reserved set from the given hostnames.
// Entries are normalized the same way request hosts are, so membership
// checks stay case- and port-insensitive.
func NewReservedDomains(hosts ...string) ReservedDomains {
	set := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		if h = NormalizeHost(h); h != "" {
			set[h] = struct{}{}
		}
	}
	return ReservedDomains{set: set}
}

// Contains reports whether the normalized hostname is reserved.
// Exact string match only; no wildcard or subdomain matching happens here.
func (r ReservedDomains) Contains(host string) bool {
	_, ok := r.set[NormalizeHost(host)]
	return ok
}

// Len returns the number of reserved hostnames.
func (r ReservedDomains) Len() int { return len(r.set) }

package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Resolver maps a normalized hostname or an explicit tenant id to a servable
// tenant record. Resolution is stateless and idempotent; a Resolver is safe
// for concurrent use.
//
// Domain resolution precedence is fixed and documented here once:
//
//  1. reserved-domain check (exact match, always fails resolution)
//  2. primary domain exact match
//  3. slug fallback, only for the first label of hosts directly under the
//     configured base domain (e.g. "acme" from "acme.sitegrid.app")
//  4. alias lookup through the secondary-domain table
//
// The slug step never applies free-form prefix matching against arbitrary
// hostnames; without a configured base domain it is skipped entirely.
type Resolver struct {
	store      Store
	reserved   ReservedDomains
	baseDomain string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithBaseDomain enables the slug fallback for subdomains of the platform
// base domain (e.g. "sitegrid.app").
func WithBaseDomain(domain string) ResolverOption {
	return func(r *Resolver) {
		r.baseDomain = NormalizeHost(domain)
	}
}

// NewResolver creates a Resolver over the given store and reserved set.
func NewResolver(store Store, reserved ReservedDomains, opts ...ResolverOption) *Resolver {
	r := &Resolver{store: store, reserved: reserved}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reserved reports whether the hostname belongs to platform infrastructure.
func (r *Resolver) Reserved(host string) bool {
	return r.reserved.Contains(host)
}

// ResolveDomain maps a hostname to a servable tenant. Failures are typed:
// ErrReservedDomain, ErrTenantRequired (empty host) or ErrTenantNotFound,
// each wrapped with the offending hostname for diagnostics. Store errors
// other than not-found propagate unchanged so a timed-out lookup fails the
// request closed instead of silently dropping the tenant filter.
func (r *Resolver) ResolveDomain(ctx context.Context, host string) (*Resolution, error) {
	host = NormalizeHost(host)
	if host == "" {
		return nil, ErrTenantRequired
	}
	if r.reserved.Contains(host) {
		return nil, fmt.Errorf("%w: %s", ErrReservedDomain, host)
	}

	t, err := r.store.FindByDomain(ctx, host)
	switch {
	case err == nil:
		return &Resolution{Tenant: t, Provenance: ProvenancePrimaryDomain}, nil
	case !errors.Is(err, ErrTenantNotFound):
		return nil, err
	}

	if slug, ok := r.slugCandidate(host); ok {
		t, err = r.store.FindBySlug(ctx, slug)
		switch {
		case err == nil:
			return &Resolution{Tenant: t, Provenance: ProvenanceSlug}, nil
		case !errors.Is(err, ErrTenantNotFound):
			return nil, err
		}
	}

	t, err = r.store.FindByAliasDomain(ctx, host)
	switch {
	case err == nil:
		return &Resolution{Tenant: t, Provenance: ProvenanceAliasDomain}, nil
	case !errors.Is(err, ErrTenantNotFound):
		return nil, err
	}

	return nil, fmt.Errorf("%w: no tenant for domain %s", ErrTenantNotFound, host)
}

// ResolveID maps an explicitly claimed tenant id to a servable tenant.
// This path skips hostname logic entirely and is meant for callers that are
// already trusted: an operator switching tenant context, or a tenant id
// carried inside a validated credential.
func (r *Resolver) ResolveID(ctx context.Context, id uuid.UUID) (*Resolution, error) {
	if id == uuid.Nil {
		return nil, ErrInvalidTenantID
	}
	t, err := r.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Resolution{Tenant: t, Provenance: ProvenanceExplicitID}, nil
}

// slugCandidate extracts the slug fallback label. Only single-label
// subdomains directly under the base domain qualify.
func (r *Resolver) slugCandidate(host string) (string, bool) {
	if r.baseDomain == "" || !strings.HasSuffix(host, "."+r.baseDomain) {
		return "", false
	}
	label := strings.TrimSuffix(host, "."+r.baseDomain)
	if label == "" || strings.Contains(label, ".") {
		return "", false
	}
	return label, true
}

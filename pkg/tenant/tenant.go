package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status is the operational lifecycle state of a tenant.
type Status string

const (
	StatusActive       Status = "active"
	StatusSuspended    Status = "suspended"
	StatusTrialExpired Status = "trial_expired"
)

// Tenant is the per-request view of a customer site. It carries everything
// downstream services need to scope queries and render tenant-specific
// behavior without further lookups.
type Tenant struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Domain          string    `json:"domain"`
	Status          Status    `json:"status"`
	Active          bool      `json:"active"`
	DefaultLanguage string    `json:"default_language"`
	Languages       []string  `json:"languages"`
	Theme           string    `json:"theme"`
	CreatedAt       time.Time `json:"created_at"`
}

// IsServable reports whether the tenant may be attached to a request.
// Both the status and the active flag must allow it; a row that exists but
// fails either check is indistinguishable from an absent one to callers.
func (t *Tenant) IsServable() bool {
	return t != nil && t.Active && t.Status == StatusActive
}

// Store loads tenant records from the data source. Every lookup must filter
// to servable tenants (status=active AND is_active) and return
// ErrTenantNotFound for rows that exist but are filtered out, so suspended
// tenants do not leak their existence through resolution.
type Store interface {
	// FindByDomain looks up a tenant by its primary domain (exact match).
	FindByDomain(ctx context.Context, domain string) (*Tenant, error)

	// FindBySlug looks up a tenant by its unique slug.
	FindBySlug(ctx context.Context, slug string) (*Tenant, error)

	// FindByAliasDomain looks up a tenant through the secondary-domain table.
	FindByAliasDomain(ctx context.Context, domain string) (*Tenant, error)

	// FindByID looks up a tenant by id for trusted explicit-id resolution.
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
}

// Provenance records how a resolution outcome was obtained. It is retained
// on the request context for diagnostics and audit logging only; business
// logic must not branch on it.
type Provenance string

const (
	ProvenancePrimaryDomain Provenance = "primary_domain"
	ProvenanceSlug          Provenance = "slug"
	ProvenanceAliasDomain   Provenance = "alias_domain"
	ProvenanceExplicitID    Provenance = "explicit_id"
)

// Resolution is the immutable, per-request outcome of tenant resolution.
// It is computed once before any business logic runs and travels via context.
type Resolution struct {
	Tenant     *Tenant    `json:"tenant"`
	Provenance Provenance `json:"provenance"`
}

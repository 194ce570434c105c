package tenants

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/sitegrid/sitegrid/pkg/auth"
	"github.com/sitegrid/sitegrid/pkg/slug"
	"github.com/sitegrid/sitegrid/pkg/tenant"
)

var (
	// ErrInvalidInput wraps provisioning validation failures.
	ErrInvalidInput = errors.New("invalid tenant input")
)

// ProvisionInput describes a new tenant and its initial admin account.
type ProvisionInput struct {
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	Domain          string   `json:"domain"`
	DefaultLanguage string   `json:"default_language"`
	Languages       []string `json:"languages"`
	Theme           string   `json:"theme"`
	AdminEmail      string   `json:"admin_email"`
	AdminName       string   `json:"admin_name"`
	AdminPassword   string   `json:"admin_password"`
}

// UpdateInput carries optional tenant attribute changes; nil fields keep
// their current value.
type UpdateInput struct {
	Name            *string        `json:"name"`
	Status          *tenant.Status `json:"status"`
	DefaultLanguage *string        `json:"default_language"`
	Languages       []string       `json:"languages"`
	Theme           *string        `json:"theme"`
}

// Service orchestrates administrative tenant lifecycle operations. Every
// mutation that can change how a hostname resolves also evicts the affected
// cache keys, so a deactivation takes effect without waiting out the TTL.
type Service struct {
	repo     *Repository
	reserved tenant.ReservedDomains
	cache    tenant.Cache
	logger   *slog.Logger
}

// NewService creates the tenant administration service.
func NewService(repo *Repository, reserved tenant.ReservedDomains, cache tenant.Cache, logger *slog.Logger) *Service {
	if cache == nil {
		cache = tenant.NewNoOpCache()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{repo: repo, reserved: reserved, cache: cache, logger: logger}
}

// Provision creates a tenant together with its admin user, default settings
// and feature flags in one transaction.
func (s *Service) Provision(ctx context.Context, in ProvisionInput) (*tenant.Tenant, error) {
	if in.Name == "" || in.AdminEmail == "" || in.AdminPassword == "" {
		return nil, fmt.Errorf("%w: name, admin email and admin password are required", ErrInvalidInput)
	}

	tenantSlug := in.Slug
	if tenantSlug == "" {
		tenantSlug = slug.Make(in.Name)
	}
	if !slug.IsValid(tenantSlug) {
		return nil, fmt.Errorf("%w: malformed slug %q", ErrInvalidInput, in.Slug)
	}

	domain, err := s.validateDomain(in.Domain)
	if err != nil {
		return nil, err
	}

	defaultLang, languages, err := validateLanguages(in.DefaultLanguage, in.Languages)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.AdminPassword, 0)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	t := &tenant.Tenant{
		ID:              uuid.New(),
		Name:            in.Name,
		Slug:            tenantSlug,
		Domain:          domain,
		Status:          tenant.StatusActive,
		Active:          true,
		DefaultLanguage: defaultLang,
		Languages:       languages,
		Theme:           in.Theme,
		CreatedAt:       now,
	}
	tenantID := t.ID
	admin := &auth.User{
		ID:           uuid.New(),
		TenantID:     &tenantID,
		Email:        in.AdminEmail,
		Name:         in.AdminName,
		Role:         auth.RoleAdmin,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
	}

	if err := s.repo.Create(ctx, t, admin); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tenant provisioned",
		slog.String("tenant_id", t.ID.String()),
		slog.String("domain", t.Domain),
	)
	return t, nil
}

// Get returns the tenant regardless of status (administrative read).
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return s.repo.GetAny(ctx, id)
}

// List returns all tenants (administrative read).
func (s *Service) List(ctx context.Context) ([]*tenant.Tenant, error) {
	return s.repo.List(ctx)
}

// Update applies partial attribute changes and evicts stale resolutions.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*tenant.Tenant, error) {
	t, err := s.repo.GetAny(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Theme != nil {
		t.Theme = *in.Theme
	}
	if in.DefaultLanguage != nil || in.Languages != nil {
		defaultLang := t.DefaultLanguage
		if in.DefaultLanguage != nil {
			defaultLang = *in.DefaultLanguage
		}
		languages := t.Languages
		if in.Languages != nil {
			languages = in.Languages
		}
		if t.DefaultLanguage, t.Languages, err = validateLanguages(defaultLang, languages); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.evict(ctx, t)
	return t, nil
}

// Deactivate is the normal "delete": the tenant stops resolving but its
// data stays.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	t, err := s.repo.GetAny(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, t)
	s.logger.InfoContext(ctx, "tenant deactivated", slog.String("tenant_id", id.String()))
	return nil
}

// HardDelete destroys the tenant and everything it owns. Explicitly
// destructive; there is no undo.
func (s *Service) HardDelete(ctx context.Context, id uuid.UUID) error {
	t, err := s.repo.GetAny(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.HardDelete(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, t)
	s.logger.WarnContext(ctx, "tenant hard-deleted", slog.String("tenant_id", id.String()))
	return nil
}

// AddDomain binds a secondary hostname after the same reserved/normalization
// checks the resolver applies.
func (s *Service) AddDomain(ctx context.Context, tenantID uuid.UUID, rawDomain string) (*Domain, error) {
	domain, err := s.validateDomain(rawDomain)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetAny(ctx, tenantID); err != nil {
		return nil, err
	}

	d := &Domain{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Domain:    domain,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := s.repo.AddDomain(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// RemoveDomain unbinds an alias and evicts its cached resolution.
func (s *Service) RemoveDomain(ctx context.Context, tenantID uuid.UUID, rawDomain string) error {
	domain := tenant.NormalizeHost(rawDomain)
	if err := s.repo.RemoveDomain(ctx, tenantID, domain); err != nil {
		return err
	}
	s.cache.Delete(ctx, domain)
	return nil
}

// ListDomains returns the tenant's alias domains.
func (s *Service) ListDomains(ctx context.Context, tenantID uuid.UUID) ([]*Domain, error) {
	return s.repo.ListDomains(ctx, tenantID)
}

// VerifyDomain marks an alias as ownership-verified.
func (s *Service) VerifyDomain(ctx context.Context, tenantID uuid.UUID, rawDomain string) error {
	return s.repo.MarkDomainVerified(ctx, tenantID, tenant.NormalizeHost(rawDomain))
}

// SetPrimaryDomain promotes an alias to primary.
func (s *Service) SetPrimaryDomain(ctx context.Context, tenantID uuid.UUID, rawDomain string) error {
	return s.repo.SetPrimaryDomain(ctx, tenantID, tenant.NormalizeHost(rawDomain))
}

// Store exposes the repository as the resolver's read side.
func (s *Service) Store() tenant.Store { return s.repo }

func (s *Service) validateDomain(raw string) (string, error) {
	domain := tenant.NormalizeHost(raw)
	if domain == "" {
		return "", fmt.Errorf("%w: domain is required", ErrInvalidInput)
	}
	if s.reserved.Contains(domain) {
		return "", fmt.Errorf("%w: %s", tenant.ErrReservedDomain, domain)
	}
	return domain, nil
}

// evict clears every cache key a resolution for this tenant could live
// under: primary domain, alias domains and the explicit id.
func (s *Service) evict(ctx context.Context, t *tenant.Tenant) {
	s.cache.Delete(ctx, t.Domain)
	s.cache.Delete(ctx, t.ID.String())
	if domains, err := s.repo.ListDomains(ctx, t.ID); err == nil {
		for _, d := range domains {
			s.cache.Delete(ctx, d.Domain)
		}
	}
}

// validateLanguages checks BCP-47 well-formedness and makes sure the default
// language is part of the supported set.
func validateLanguages(defaultLang string, languages []string) (string, []string, error) {
	if defaultLang == "" {
		defaultLang = "en"
	}
	if _, err := language.Parse(defaultLang); err != nil {
		return "", nil, fmt.Errorf("%w: default language %q: %v", ErrInvalidInput, defaultLang, err)
	}
	if len(languages) == 0 {
		languages = []string{defaultLang}
	}
	seen := false
	for _, l := range languages {
		if _, err := language.Parse(l); err != nil {
			return "", nil, fmt.Errorf("%w: language %q: %v", ErrInvalidInput, l, err)
		}
		if l == defaultLang {
			seen = true
		}
	}
	if !seen {
		languages = append(languages, defaultLang)
	}
	return defaultLang, languages, nil
}

package tenants

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sitegrid/sitegrid/pkg/auth"
	"github.com/sitegrid/sitegrid/pkg/pg"
	"github.com/sitegrid/sitegrid/pkg/tenant"
)

var (
	// ErrDomainTaken is returned when a domain or slug collides with an
	// existing tenant or alias.
	ErrDomainTaken = errors.New("domain or slug already in use")

	// ErrDomainNotFound is returned when an alias domain does not exist.
	ErrDomainNotFound = errors.New("domain not found")
)

// Domain is a secondary hostname bound to a tenant.
type Domain struct {
	ID         uuid.UUID `json:"id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	Domain     string    `json:"domain"`
	IsPrimary  bool      `json:"is_primary"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// Repository persists tenants, their alias domains and provisioning side
// effects. It implements tenant.Store for the resolver's read side; those
// lookups filter to servable tenants at the query level so inactive rows
// never reach resolution.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a Repository over the pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const servableTenantColumns = `id, name, slug, domain, status, is_active, default_language, languages, theme, created_at`

func scanTenant(row pgx.Row) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Domain, &t.Status, &t.Active,
		&t.DefaultLanguage, &t.Languages, &t.Theme, &t.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, tenant.ErrTenantNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByDomain implements tenant.Store.
func (r *Repository) FindByDomain(ctx context.Context, domain string) (*tenant.Tenant, error) {
	return scanTenant(r.pool.QueryRow(ctx,
		`SELECT `+servableTenantColumns+` FROM tenants
		 WHERE domain = $1 AND status = 'active' AND is_active`, domain))
}

// FindBySlug implements tenant.Store.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	return scanTenant(r.pool.QueryRow(ctx,
		`SELECT `+servableTenantColumns+` FROM tenants
		 WHERE slug = $1 AND status = 'active' AND is_active`, slug))
}

// FindByAliasDomain implements tenant.Store.
func (r *Repository) FindByAliasDomain(ctx context.Context, domain string) (*tenant.Tenant, error) {
	return scanTenant(r.pool.QueryRow(ctx,
		`SELECT t.id, t.name, t.slug, t.domain, t.status, t.is_active, t.default_language, t.languages, t.theme, t.created_at
		 FROM tenants t
		 JOIN tenant_domains d ON d.tenant_id = t.id
		 WHERE d.domain = $1 AND d.is_active AND t.status = 'active' AND t.is_active`, domain))
}

// FindByID implements tenant.Store.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return scanTenant(r.pool.QueryRow(ctx,
		`SELECT `+servableTenantColumns+` FROM tenants
		 WHERE id = $1 AND status = 'active' AND is_active`, id))
}

// GetAny returns the tenant regardless of status, for administrative reads.
func (r *Repository) GetAny(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return scanTenant(r.pool.QueryRow(ctx,
		`SELECT `+servableTenantColumns+` FROM tenants WHERE id = $1`, id))
}

// List returns all tenants regardless of status, for administrative reads.
func (r *Repository) List(ctx context.Context) ([]*tenant.Tenant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+servableTenantColumns+` FROM tenants ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*tenant.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// defaultSettings and defaultFeatures seed every new tenant so provisioning
// leaves it fully usable.
var (
	defaultSettings = map[string]string{
		"timezone":     "UTC",
		"date_format":  "2006-01-02",
		"site_private": "false",
	}
	defaultFeatures = []string{"pages", "media", "seo"}
)

// Create provisions a tenant transactionally: the tenant row, its admin
// user, default settings and enabled feature flags commit or roll back as
// one unit, so a tenant row never exists without its admin account.
func (r *Repository) Create(ctx context.Context, t *tenant.Tenant, admin *auth.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO tenants (id, name, slug, domain, status, is_active, default_language, languages, theme, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.Name, t.Slug, t.Domain, t.Status, t.Active,
		t.DefaultLanguage, t.Languages, t.Theme, t.CreatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrDomainTaken
		}
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, tenant_id, email, name, role, password_hash, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		admin.ID, t.ID, admin.Email, admin.Name, admin.Role, admin.PasswordHash, admin.Active, admin.CreatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return auth.ErrInvalidCredentials
		}
		return err
	}

	for key, value := range defaultSettings {
		if _, err := tx.Exec(ctx,
			`INSERT INTO tenant_settings (tenant_id, key, value) VALUES ($1, $2, $3)`,
			t.ID, key, value); err != nil {
			return err
		}
	}
	for _, feature := range defaultFeatures {
		if _, err := tx.Exec(ctx,
			`INSERT INTO tenant_features (tenant_id, feature, enabled) VALUES ($1, $2, true)`,
			t.ID, feature); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Update persists mutable tenant attributes.
func (r *Repository) Update(ctx context.Context, t *tenant.Tenant) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tenants SET name = $2, status = $3, default_language = $4, languages = $5, theme = $6
		 WHERE id = $1`,
		t.ID, t.Name, t.Status, t.DefaultLanguage, t.Languages, t.Theme)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}

// Deactivate soft-deletes the tenant. This is the normal "delete" path;
// the row and all owned content stay in place.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE tenants SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}

// HardDelete removes the tenant row entirely; owned content (users, alias
// domains, settings, features, pages, media) goes with it via FK cascade.
func (r *Repository) HardDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}

// AddDomain binds a secondary hostname to the tenant.
func (r *Repository) AddDomain(ctx context.Context, d *Domain) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tenant_domains (id, tenant_id, domain, is_primary, is_active, is_verified, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.TenantID, d.Domain, d.IsPrimary, d.IsActive, d.IsVerified, d.CreatedAt)
	if pg.IsDuplicateKeyError(err) {
		return ErrDomainTaken
	}
	return err
}

// RemoveDomain unbinds a secondary hostname.
func (r *Repository) RemoveDomain(ctx context.Context, tenantID uuid.UUID, domain string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM tenant_domains WHERE tenant_id = $1 AND domain = $2`, tenantID, domain)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDomainNotFound
	}
	return nil
}

// ListDomains returns the tenant's alias domains.
func (r *Repository) ListDomains(ctx context.Context, tenantID uuid.UUID) ([]*Domain, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, domain, is_primary, is_active, is_verified, created_at
		 FROM tenant_domains WHERE tenant_id = $1 ORDER BY created_at`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Domain
	for rows.Next() {
		var d Domain
		if err := rows.Scan(&d.ID, &d.TenantID, &d.Domain, &d.IsPrimary, &d.IsActive, &d.IsVerified, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// MarkDomainVerified records successful ownership verification.
func (r *Repository) MarkDomainVerified(ctx context.Context, tenantID uuid.UUID, domain string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tenant_domains SET is_verified = true WHERE tenant_id = $1 AND domain = $2`,
		tenantID, domain)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDomainNotFound
	}
	return nil
}

// SetPrimaryDomain promotes an alias to the primary flag, demoting the rest
// in the same transaction.
func (r *Repository) SetPrimaryDomain(ctx context.Context, tenantID uuid.UUID, domain string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`UPDATE tenant_domains SET is_primary = false WHERE tenant_id = $1`, tenantID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx,
		`UPDATE tenant_domains SET is_primary = true WHERE tenant_id = $1 AND domain = $2`,
		tenantID, domain)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDomainNotFound
	}
	return tx.Commit(ctx)
}

package pages

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sitegrid/sitegrid/pkg/pg"
)

var (
	// ErrPageNotFound is returned when no page matches within the tenant.
	ErrPageNotFound = errors.New("page not found")

	// ErrSlugTaken is returned when a page slug collides within the tenant.
	ErrSlugTaken = errors.New("page slug already in use")
)

// Page is one unit of tenant content. SEO metadata lives inline; the other
// content types (sliders, banners, layouts) follow the exact same
// tenant-scoped shape.
type Page struct {
	ID             uuid.UUID `json:"id"`
	TenantID       uuid.UUID `json:"tenant_id"`
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Language       string    `json:"language"`
	SEOTitle       string    `json:"seo_title"`
	SEODescription string    `json:"seo_description"`
	Published      bool      `json:"published"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Repository persists pages. Every query takes the tenant id as a mandatory
// predicate; there is deliberately no way to read or write a page without
// one.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a Repository over the pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const pageColumns = `id, tenant_id, slug, title, body, language, seo_title, seo_description, published, created_at, updated_at`

func scanPage(row pgx.Row) (*Page, error) {
	var p Page
	err := row.Scan(&p.ID, &p.TenantID, &p.Slug, &p.Title, &p.Body, &p.Language,
		&p.SEOTitle, &p.SEODescription, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns the tenant's pages.
func (r *Repository) List(ctx context.Context, tenantID uuid.UUID) ([]*Page, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE tenant_id = $1 ORDER BY created_at`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetBySlug returns one page within the tenant.
func (r *Repository) GetBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Page, error) {
	return scanPage(r.pool.QueryRow(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE tenant_id = $1 AND slug = $2`, tenantID, slug))
}

// GetPublishedBySlug returns one published page, for public reads.
func (r *Repository) GetPublishedBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Page, error) {
	return scanPage(r.pool.QueryRow(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE tenant_id = $1 AND slug = $2 AND published`, tenantID, slug))
}

// Create inserts a page.
func (r *Repository) Create(ctx context.Context, p *Page) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO pages (`+pageColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.TenantID, p.Slug, p.Title, p.Body, p.Language,
		p.SEOTitle, p.SEODescription, p.Published, p.CreatedAt, p.UpdatedAt)
	if pg.IsDuplicateKeyError(err) {
		return ErrSlugTaken
	}
	return err
}

// Update persists page changes within the tenant.
func (r *Repository) Update(ctx context.Context, p *Page) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE pages SET title = $3, body = $4, language = $5, seo_title = $6, seo_description = $7, published = $8, updated_at = $9
		 WHERE tenant_id = $1 AND slug = $2`,
		p.TenantID, p.Slug, p.Title, p.Body, p.Language, p.SEOTitle, p.SEODescription, p.Published, p.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPageNotFound
	}
	return nil
}

// Delete removes a page within the tenant.
func (r *Repository) Delete(ctx context.Context, tenantID uuid.UUID, slug string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM pages WHERE tenant_id = $1 AND slug = $2`, tenantID, slug)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPageNotFound
	}
	return nil
}

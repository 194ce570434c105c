package media

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sitegrid/sitegrid/pkg/pg"
)

// ErrObjectNotFound is returned when no media object matches within the
// tenant.
var ErrObjectNotFound = errors.New("media object not found")

// Object is an uploaded asset. Key always carries the owning tenant's id
// prefix; URL is where the asset is publicly served from.
type Object struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// Repository records uploaded objects. As everywhere, the tenant id is a
// mandatory predicate.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a Repository over the pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, o *Object) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO media_objects (id, tenant_id, key, url, content_type, size, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.TenantID, o.Key, o.URL, o.ContentType, o.Size, o.CreatedAt)
	return err
}

func (r *Repository) List(ctx context.Context, tenantID uuid.UUID) ([]*Object, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, key, url, content_type, size, created_at
		 FROM media_objects WHERE tenant_id = $1 ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Object
	for rows.Next() {
		var o Object
		if err := rows.Scan(&o.ID, &o.TenantID, &o.Key, &o.URL, &o.ContentType, &o.Size, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, tenantID, id uuid.UUID) (*Object, error) {
	var o Object
	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, key, url, content_type, size, created_at
		 FROM media_objects WHERE tenant_id = $1 AND id = $2`, tenantID, id).
		Scan(&o.ID, &o.TenantID, &o.Key, &o.URL, &o.ContentType, &o.Size, &o.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *Repository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM media_objects WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrObjectNotFound
	}
	return nil
}

package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sitegrid/sitegrid/pkg/auth"
	"github.com/sitegrid/sitegrid/pkg/pg"
)

// Repository implements auth.UserStore on PostgreSQL. The tenant filter
// lives in the queries themselves: an email that exists under another
// tenant is simply not found here.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a Repository over the pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, tenant_id, email, name, role, password_hash, is_active, created_at`

func scanUser(row pgx.Row) (*auth.User, error) {
	var u auth.User
	err := row.Scan(&u.ID, &u.TenantID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.Active, &u.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) FindByEmailAndTenant(ctx context.Context, email string, tenantID uuid.UUID) (*auth.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE email = $1 AND tenant_id = $2 AND is_active`, email, tenantID))
}

func (r *Repository) FindOperatorByEmail(ctx context.Context, email string) (*auth.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE email = $1 AND tenant_id IS NULL AND role = 'operator' AND is_active`, email))
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 AND is_active`, id))
}

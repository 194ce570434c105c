// Package pg wraps pgx pool construction, goose migrations and the handful
// of PostgreSQL error checks the repositories rely on.
package pg

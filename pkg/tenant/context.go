package tenant

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithResolution attaches a resolution outcome to the context.
func WithResolution(ctx context.Context, res *Resolution) context.Context {
	return context.WithValue(ctx, contextKey{}, res)
}

// FromContext retrieves the resolution from the context.
func FromContext(ctx context.Context) (*Resolution, bool) {
	res, ok := ctx.Value(contextKey{}).(*Resolution)
	return res, ok && res != nil && res.Tenant != nil
}

// TenantFromContext retrieves just the tenant record from the context.
func TenantFromContext(ctx context.Context) (*Tenant, bool) {
	res, ok := FromContext(ctx)
	if !ok {
		return nil, false
	}
	return res.Tenant, true
}

// IDFromContext retrieves just the tenant id from the context.
func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	res, ok := FromContext(ctx)
	if !ok {
		return uuid.UUID{}, false
	}
	return res.Tenant.ID, true
}

// MustFromContext retrieves the resolution or panics. Use only in handlers
// that run behind RequireTenant, where absence indicates a wiring bug.
func MustFromContext(ctx context.Context) *Resolution {
	res, ok := FromContext(ctx)
	if !ok {
		panic("tenant: no resolution in context")
	}
	return res
}

// LoggerExtractor returns a logger context extractor adding tenant id and
// provenance to every log record emitted within a resolved request.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		res, ok := FromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return slog.Group("tenant",
			slog.String("id", res.Tenant.ID.String()),
			slog.String("provenance", string(res.Provenance)),
		), true
	}
}

package tenant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegrid/sitegrid/pkg/tenant"
)

func TestContext(t *testing.T) {
	t.Parallel()

	acme := activeTenant("acme.com", "acme")
	res := &tenant.Resolution{Tenant: acme, Provenance: tenant.ProvenancePrimaryDomain}

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		ctx := tenant.WithResolution(context.Background(), res)

		got, ok := tenant.FromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, acme.ID, got.Tenant.ID)

		tn, ok := tenant.TenantFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, acme.ID, tn.ID)

		id, ok := tenant.IDFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, acme.ID, id)
	})

	t.Run("empty context", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()

		_, ok := tenant.FromContext(ctx)
		assert.False(t, ok)
		_, ok = tenant.TenantFromContext(ctx)
		assert.False(t, ok)
		_, ok = tenant.IDFromContext(ctx)
		assert.False(t, ok)
	})

	t.Run("nil resolution is absent", func(t *testing.T) {
		t.Parallel()

		ctx := tenant.WithResolution(context.Background(), nil)
		_, ok := tenant.FromContext(ctx)
		assert.False(t, ok)
	})

	t.Run("must panics without resolution", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			tenant.MustFromContext(context.Background())
		})
	})

	t.Run("logger extractor", func(t *testing.T) {
		t.Parallel()

		extract := tenant.LoggerExtractor()

		_, ok := extract(context.Background())
		assert.False(t, ok)

		attr, ok := extract(tenant.WithResolution(context.Background(), res))
		require.True(t, ok)
		assert.Equal(t, "tenant", attr.Key)
	})
}

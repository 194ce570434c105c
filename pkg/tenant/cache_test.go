package tenant_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegrid/sitegrid/pkg/tenant"
)

func TestInMemoryCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()

		c := tenant.NewInMemoryCacheWithSize(10)
		t.Cleanup(func() { _ = c.Close() })

		res := &tenant.Resolution{Tenant: activeTenant("acme.com", "acme"), Provenance: tenant.ProvenancePrimaryDomain}
		c.Set(ctx, "acme.com", res, time.Minute)

		got, ok := c.Get(ctx, "acme.com")
		require.True(t, ok)
		assert.Equal(t, res.Tenant.ID, got.Tenant.ID)
	})

	t.Run("miss on unknown key", func(t *testing.T) {
		t.Parallel()

		c := tenant.NewInMemoryCacheWithSize(10)
		t.Cleanup(func() { _ = c.Close() })

		_, ok := c.Get(ctx, "nobody.com")
		assert.False(t, ok)
	})

	t.Run("entries expire", func(t *testing.T) {
		t.Parallel()

		c := tenant.NewInMemoryCacheWithSize(10)
		t.Cleanup(func() { _ = c.Close() })

		res := &tenant.Resolution{Tenant: activeTenant("acme.com", "acme")}
		c.Set(ctx, "acme.com", res, time.Millisecond)
		time.Sleep(10 * time.Millisecond)

		_, ok := c.Get(ctx, "acme.com")
		assert.False(t, ok)
	})

	t.Run("delete removes entry", func(t *testing.T) {
		t.Parallel()

		c := tenant.NewInMemoryCacheWithSize(10)
		t.Cleanup(func() { _ = c.Close() })

		c.Set(ctx, "acme.com", &tenant.Resolution{Tenant: activeTenant("acme.com", "acme")}, time.Minute)
		c.Delete(ctx, "acme.com")

		_, ok := c.Get(ctx, "acme.com")
		assert.False(t, ok)
	})

	t.Run("evicts least recently used at capacity", func(t *testing.T) {
		t.Parallel()

		c := tenant.NewInMemoryCacheWithSize(2)
		t.Cleanup(func() { _ = c.Close() })

		for i := range 3 {
			key := fmt.Sprintf("t%d.com", i)
			c.Set(ctx, key, &tenant.Resolution{Tenant: activeTenant(key, key)}, time.Minute)
		}

		_, ok := c.Get(ctx, "t0.com")
		assert.False(t, ok, "oldest entry should be evicted")
		_, ok = c.Get(ctx, "t2.com")
		assert.True(t, ok)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		c := tenant.NewInMemoryCacheWithSize(10)
		require.NoError(t, c.Close())
		require.NoError(t, c.Close())
	})
}

func TestNoOpCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := tenant.NewNoOpCache()

	c.Set(ctx, "acme.com", &tenant.Resolution{Tenant: activeTenant("acme.com", "acme")}, time.Minute)
	_, ok := c.Get(ctx, "acme.com")
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}

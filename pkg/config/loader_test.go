package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegrid/sitegrid/pkg/config"
)

type testConfig struct {
	BaseDomain string        `env:"TEST_BASE_DOMAIN,required"`
	LogLevel   string        `env:"TEST_LOG_LEVEL" envDefault:"info"`
	CacheTTL   time.Duration `env:"TEST_CACHE_TTL" envDefault:"5m"`
	Reserved   []string      `env:"TEST_RESERVED" envSeparator:","`
}

func TestLoad(t *testing.T) {
	t.Run("populates from environment with defaults", func(t *testing.T) {
		t.Setenv("TEST_BASE_DOMAIN", "sitegrid.app")
		t.Setenv("TEST_RESERVED", "admin.sitegrid.app,www.sitegrid.app")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "sitegrid.app", cfg.BaseDomain)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
		assert.Equal(t, []string{"admin.sitegrid.app", "www.sitegrid.app"}, cfg.Reserved)
	})

	t.Run("missing required variable fails", func(t *testing.T) {
		var cfg testConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil destination fails", func(t *testing.T) {
		var cfg *testConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})

	t.Run("must load panics on failure", func(t *testing.T) {
		var cfg testConfig
		assert.Panics(t, func() { config.MustLoad(&cfg) })
	})
}

package tenants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegrid/sitegrid/pkg/tenant"
)

func TestValidateDomain(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, tenant.NewReservedDomains("admin.sitegrid.app"), nil, nil)

	t.Run("normalizes before storing", func(t *testing.T) {
		t.Parallel()

		domain, err := svc.validateDomain("Acme.COM:443")
		require.NoError(t, err)
		assert.Equal(t, "acme.com", domain)
	})

	t.Run("rejects empty", func(t *testing.T) {
		t.Parallel()

		_, err := svc.validateDomain("  ")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects reserved hostnames in any casing", func(t *testing.T) {
		t.Parallel()

		_, err := svc.validateDomain("Admin.SiteGrid.app")
		assert.ErrorIs(t, err, tenant.ErrReservedDomain)
	})
}

func TestValidateLanguages(t *testing.T) {
	t.Parallel()

	t.Run("defaults to en", func(t *testing.T) {
		t.Parallel()

		def, langs, err := validateLanguages("", nil)
		require.NoError(t, err)
		assert.Equal(t, "en", def)
		assert.Equal(t, []string{"en"}, langs)
	})

	t.Run("default is forced into the set", func(t *testing.T) {
		t.Parallel()

		def, langs, err := validateLanguages("de", []string{"en", "fr"})
		require.NoError(t, err)
		assert.Equal(t, "de", def)
		assert.Contains(t, langs, "de")
	})

	t.Run("rejects malformed tags", func(t *testing.T) {
		t.Parallel()

		_, _, err := validateLanguages("not a tag", nil)
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, _, err = validateLanguages("en", []string{"??"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

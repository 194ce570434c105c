package pages_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegrid/sitegrid/modules/pages"
	"github.com/sitegrid/sitegrid/pkg/tenant"
)

// fakeStore keeps pages in memory, keyed by tenant then slug, mirroring the
// repository's mandatory tenant predicate.
type fakeStore struct {
	byTenant map[uuid.UUID]map[string]*pages.Page
}

func newFakeStore() *fakeStore {
	return &fakeStore{byTenant: make(map[uuid.UUID]map[string]*pages.Page)}
}

func (f *fakeStore) List(_ context.Context, tenantID uuid.UUID) ([]*pages.Page, error) {
	var out []*pages.Page
	for _, p := range f.byTenant[tenantID] {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) GetBySlug(_ context.Context, tenantID uuid.UUID, slug string) (*pages.Page, error) {
	if p, ok := f.byTenant[tenantID][slug]; ok {
		return p, nil
	}
	return nil, pages.ErrPageNotFound
}

func (f *fakeStore) GetPublishedBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*pages.Page, error) {
	p, err := f.GetBySlug(ctx, tenantID, slug)
	if err != nil || !p.Published {
		return nil, pages.ErrPageNotFound
	}
	return p, nil
}

func (f *fakeStore) Create(_ context.Context, p *pages.Page) error {
	if _, ok := f.byTenant[p.TenantID][p.Slug]; ok {
		return pages.ErrSlugTaken
	}
	if f.byTenant[p.TenantID] == nil {
		f.byTenant[p.TenantID] = make(map[string]*pages.Page)
	}
	f.byTenant[p.TenantID][p.Slug] = p
	return nil
}

func (f *fakeStore) Update(_ context.Context, p *pages.Page) error {
	if _, ok := f.byTenant[p.TenantID][p.Slug]; !ok {
		return pages.ErrPageNotFound
	}
	f.byTenant[p.TenantID][p.Slug] = p
	return nil
}

func (f *fakeStore) Delete(_ context.Context, tenantID uuid.UUID, slug string) error {
	if _, ok := f.byTenant[tenantID][slug]; !ok {
		return pages.ErrPageNotFound
	}
	delete(f.byTenant[tenantID], slug)
	return nil
}

func tenantRequest(method, target, body string, t *tenant.Tenant) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	res := &tenant.Resolution{Tenant: t, Provenance: tenant.ProvenancePrimaryDomain}
	return req.WithContext(tenant.WithResolution(req.Context(), res))
}

func testTenant(lang string) *tenant.Tenant {
	return &tenant.Tenant{
		ID:              uuid.New(),
		Slug:            "acme",
		Domain:          "acme.com",
		Status:          tenant.StatusActive,
		Active:          true,
		DefaultLanguage: lang,
		CreatedAt:       time.Now(),
	}
}

func TestPagesRouter(t *testing.T) {
	t.Parallel()

	t.Run("create derives slug and language from the tenant", func(t *testing.T) {
		t.Parallel()

		store := newFakeStore()
		h := pages.Router(store)
		tn := testTenant("de")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, tenantRequest("POST", "/", `{"title":"Über Uns"}`, tn))
		require.Equal(t, http.StatusCreated, rec.Code)

		var created pages.Page
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
		assert.Equal(t, "ber-uns", created.Slug)
		assert.Equal(t, "de", created.Language)
		assert.Equal(t, tn.ID, created.TenantID)
	})

	t.Run("create rejects missing title", func(t *testing.T) {
		t.Parallel()

		h := pages.Router(newFakeStore())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, tenantRequest("POST", "/", `{"body":"text"}`, testTenant("en")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate slug within a tenant conflicts", func(t *testing.T) {
		t.Parallel()

		store := newFakeStore()
		h := pages.Router(store)
		tn := testTenant("en")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, tenantRequest("POST", "/", `{"title":"About"}`, tn))
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, tenantRequest("POST", "/", `{"title":"About"}`, tn))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("same slug under different tenants does not collide", func(t *testing.T) {
		t.Parallel()

		store := newFakeStore()
		h := pages.Router(store)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, tenantRequest("POST", "/", `{"title":"About"}`, testTenant("en")))
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, tenantRequest("POST", "/", `{"title":"About"}`, testTenant("en")))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("get is scoped to the request tenant", func(t *testing.T) {
		t.Parallel()

		store := newFakeStore()
		h := pages.Router(store)
		owner := testTenant("en")
		other := testTenant("en")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, tenantRequest("POST", "/", `{"title":"Secret"}`, owner))
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, tenantRequest("GET", "/secret", "", owner))
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, tenantRequest("GET", "/secret", "", other))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete removes the page", func(t *testing.T) {
		t.Parallel()

		store := newFakeStore()
		h := pages.Router(store)
		tn := testTenant("en")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, tenantRequest("POST", "/", `{"title":"Gone"}`, tn))
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, tenantRequest("DELETE", "/gone", "", tn))
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, tenantRequest("GET", "/gone", "", tn))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPublicRouter(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	admin := pages.Router(store)
	public := pages.PublicRouter(store)
	tn := testTenant("en")

	rec := httptest.NewRecorder()
	admin.ServeHTTP(rec, tenantRequest("POST", "/", `{"title":"Live","published":true}`, tn))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	admin.ServeHTTP(rec, tenantRequest("POST", "/", `{"title":"Draft"}`, tn))
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("published page is readable", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		public.ServeHTTP(rec, tenantRequest("GET", "/live", "", tn))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("draft is invisible", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		public.ServeHTTP(rec, tenantRequest("GET", "/draft", "", tn))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

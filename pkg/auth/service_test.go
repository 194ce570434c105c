package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sitegrid/sitegrid/pkg/auth"
	"github.com/sitegrid/sitegrid/pkg/tenant"
)

// fakeTenantStore implements tenant.Store over a fixed set of servable
// tenants.
type fakeTenantStore struct {
	tenants []*tenant.Tenant
}

func (f *fakeTenantStore) find(match func(*tenant.Tenant) bool) (*tenant.Tenant, error) {
	for _, t := range f.tenants {
		if t.IsServable() && match(t) {
			return t, nil
		}
	}
	return nil, tenant.ErrTenantNotFound
}

func (f *fakeTenantStore) FindByDomain(_ context.Context, domain string) (*tenant.Tenant, error) {
	return f.find(func(t *tenant.Tenant) bool { return t.Domain == domain })
}

func (f *fakeTenantStore) FindBySlug(_ context.Context, slug string) (*tenant.Tenant, error) {
	return f.find(func(t *tenant.Tenant) bool { return t.Slug == slug })
}

func (f *fakeTenantStore) FindByAliasDomain(_ context.Context, _ string) (*tenant.Tenant, error) {
	return nil, tenant.ErrTenantNotFound
}

func (f *fakeTenantStore) FindByID(_ context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return f.find(func(t *tenant.Tenant) bool { return t.ID == id })
}

// fakeUserStore implements auth.UserStore and counts lookups so tests can
// assert credentials are never consulted on rejected paths.
type fakeUserStore struct {
	mu    sync.Mutex
	users []*auth.User
	calls int
}

func (f *fakeUserStore) find(match func(*auth.User) bool) (*auth.User, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	for _, u := range f.users {
		if u.Active && match(u) {
			return u, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (f *fakeUserStore) FindByEmailAndTenant(_ context.Context, email string, tenantID uuid.UUID) (*auth.User, error) {
	return f.find(func(u *auth.User) bool {
		return u.Email == email && u.TenantID != nil && *u.TenantID == tenantID
	})
}

func (f *fakeUserStore) FindOperatorByEmail(_ context.Context, email string) (*auth.User, error) {
	return f.find(func(u *auth.User) bool {
		return u.Email == email && u.TenantID == nil && u.Role == auth.RoleOperator
	})
}

func (f *fakeUserStore) FindByID(_ context.Context, id uuid.UUID) (*auth.User, error) {
	return f.find(func(u *auth.User) bool { return u.ID == id })
}

func (f *fakeUserStore) getCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fixture struct {
	svc      *auth.Service
	users    *fakeUserStore
	acme     *tenant.Tenant
	globex   *tenant.Tenant
	acmeUser *auth.User
	operator *auth.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	acme := &tenant.Tenant{
		ID: uuid.New(), Slug: "acme", Domain: "acme.com",
		Status: tenant.StatusActive, Active: true,
	}
	globex := &tenant.Tenant{
		ID: uuid.New(), Slug: "globex", Domain: "globex.com",
		Status: tenant.StatusActive, Active: true,
	}

	hash, err := auth.HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	acmeUser := &auth.User{
		ID: uuid.New(), TenantID: &acme.ID, Email: "alice@acme.com",
		Role: auth.RoleAdmin, PasswordHash: hash, Active: true,
	}
	globexUser := &auth.User{
		ID: uuid.New(), TenantID: &globex.ID, Email: "alice@acme.com",
		Role: auth.RoleEditor, PasswordHash: hash, Active: true,
	}
	operator := &auth.User{
		ID: uuid.New(), Email: "root@sitegrid.app",
		Role: auth.RoleOperator, PasswordHash: hash, Active: true,
	}

	users := &fakeUserStore{users: []*auth.User{acmeUser, globexUser, operator}}
	resolver := tenant.NewResolver(
		&fakeTenantStore{tenants: []*tenant.Tenant{acme, globex}},
		tenant.NewReservedDomains("admin.sitegrid.app"),
	)

	svc, err := auth.NewService(auth.Config{
		JWTSecret:           "test-secret",
		TokenIssuer:         "sitegrid-test",
		AccessTokenTTL:      time.Minute,
		RefreshTokenTTL:     time.Hour,
		OperatorEmailDomain: "sitegrid.app",
	}, users, resolver)
	require.NoError(t, err)

	return &fixture{svc: svc, users: users, acme: acme, globex: globex, acmeUser: acmeUser, operator: operator}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("tenant user on own domain", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		pair, err := f.svc.Login(ctx, "acme.com", "alice@acme.com", "s3cret")
		require.NoError(t, err)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)

		p, err := f.svc.VerifyAccess(pair.AccessToken)
		require.NoError(t, err)
		got, ok := p.Scope.Tenant()
		require.True(t, ok)
		assert.Equal(t, f.acme.ID, got, "access token must be bound to the login tenant")
	})

	t.Run("host with port and mixed case still binds", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		pair, err := f.svc.Login(ctx, "Acme.COM:443", "alice@acme.com", "s3cret")
		require.NoError(t, err)

		p, err := f.svc.VerifyAccess(pair.AccessToken)
		require.NoError(t, err)
		got, _ := p.Scope.Tenant()
		assert.Equal(t, f.acme.ID, got)
	})

	t.Run("same email under another tenant cannot cross over", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		// alice@acme.com also exists under globex; logging in on globex.com
		// must bind to the globex account, not acme's.
		pair, err := f.svc.Login(ctx, "globex.com", "alice@acme.com", "s3cret")
		require.NoError(t, err)

		p, err := f.svc.VerifyAccess(pair.AccessToken)
		require.NoError(t, err)
		got, _ := p.Scope.Tenant()
		assert.Equal(t, f.globex.ID, got)
		assert.Equal(t, auth.RoleEditor, p.Role)
	})

	t.Run("operator on reserved domain", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		pair, err := f.svc.Login(ctx, "admin.sitegrid.app", "root@sitegrid.app", "s3cret")
		require.NoError(t, err)

		p, err := f.svc.VerifyAccess(pair.AccessToken)
		require.NoError(t, err)
		assert.True(t, p.Scope.IsOperator())
	})

	t.Run("non-operator on reserved domain is rejected before credentials", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.svc.Login(ctx, "admin.sitegrid.app", "alice@acme.com", "s3cret")
		assert.ErrorIs(t, err, tenant.ErrReservedDomain)
		assert.Zero(t, f.users.getCalls(), "credential store must not be consulted")
	})

	t.Run("operator email on unmappable host authenticates tenant-less", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		pair, err := f.svc.Login(ctx, "unknown.example.org", "root@sitegrid.app", "s3cret")
		require.NoError(t, err)

		p, err := f.svc.VerifyAccess(pair.AccessToken)
		require.NoError(t, err)
		assert.True(t, p.Scope.IsOperator())
	})

	t.Run("unmappable host fails for tenant users", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.svc.Login(ctx, "unknown.example.org", "alice@acme.com", "s3cret")
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.svc.Login(ctx, "acme.com", "alice@acme.com", "wrong")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.svc.Login(ctx, "acme.com", "nobody@acme.com", "s3cret")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("deactivated user", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.acmeUser.Active = false

		_, err := f.svc.Login(ctx, "acme.com", "alice@acme.com", "s3cret")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("exchanges refresh token for a new pair", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		pair, err := f.svc.Login(ctx, "acme.com", "alice@acme.com", "s3cret")
		require.NoError(t, err)

		fresh, err := f.svc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)

		p, err := f.svc.VerifyAccess(fresh.AccessToken)
		require.NoError(t, err)
		got, _ := p.Scope.Tenant()
		assert.Equal(t, f.acme.ID, got)
	})

	t.Run("access token is not accepted", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		pair, err := f.svc.Login(ctx, "acme.com", "alice@acme.com", "s3cret")
		require.NoError(t, err)

		_, err = f.svc.Refresh(ctx, pair.AccessToken)
		assert.ErrorIs(t, err, auth.ErrNotRefreshToken)
	})

	t.Run("deactivated tenant cuts off renewal", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		pair, err := f.svc.Login(ctx, "acme.com", "alice@acme.com", "s3cret")
		require.NoError(t, err)

		f.acme.Active = false

		_, err = f.svc.Refresh(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.svc.Refresh(ctx, "not-a-token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestVerifyAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("refresh token is not an access token", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		pair, err := f.svc.Login(ctx, "acme.com", "alice@acme.com", "s3cret")
		require.NoError(t, err)

		_, err = f.svc.VerifyAccess(pair.RefreshToken)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.svc.VerifyAccess("garbage")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestIsOperatorEmail(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	assert.True(t, f.svc.IsOperatorEmail("root@sitegrid.app"))
	assert.True(t, f.svc.IsOperatorEmail("Root@SiteGrid.APP"))
	assert.False(t, f.svc.IsOperatorEmail("alice@acme.com"))
	assert.False(t, f.svc.IsOperatorEmail("root@notsitegrid.app"))
}

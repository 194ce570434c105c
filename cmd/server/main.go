package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	authmodule "github.com/sitegrid/sitegrid/modules/auth"
	"github.com/sitegrid/sitegrid/modules/media"
	"github.com/sitegrid/sitegrid/modules/pages"
	"github.com/sitegrid/sitegrid/modules/tenants"
	"github.com/sitegrid/sitegrid/pkg/auth"
	"github.com/sitegrid/sitegrid/pkg/authz"
	"github.com/sitegrid/sitegrid/pkg/config"
	"github.com/sitegrid/sitegrid/pkg/httpserver"
	"github.com/sitegrid/sitegrid/pkg/logger"
	"github.com/sitegrid/sitegrid/pkg/pg"
	"github.com/sitegrid/sitegrid/pkg/redis"
	"github.com/sitegrid/sitegrid/pkg/requestid"
	"github.com/sitegrid/sitegrid/pkg/storage"
	"github.com/sitegrid/sitegrid/pkg/tenant"
)

type appConfig struct {
	Name            string        `env:"APP_NAME" envDefault:"sitegrid"`
	BaseDomain      string        `env:"APP_BASE_DOMAIN,required"`
	ReservedDomains []string      `env:"APP_RESERVED_DOMAINS,required" envSeparator:","`
	TenantCacheTTL  time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`

	Logger logger.Config
	HTTP   httpserver.Config
	PG     pg.Config
	Redis  redis.Config
	S3     storage.Config
	Auth   auth.Config
}

func main() {
	ctx := context.Background()

	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithConfig(cfg.Logger),
		logger.WithAttr(slog.String("app", cfg.Name)),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			tenant.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	if err := run(ctx, cfg, log); err != nil {
		log.ErrorContext(ctx, "server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.PG, log); err != nil {
		return err
	}

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	store, err := storage.New(ctx, cfg.S3)
	if err != nil {
		return err
	}

	reserved := tenant.NewReservedDomains(cfg.ReservedDomains...)
	tenantRepo := tenants.NewRepository(pool)
	resolver := tenant.NewResolver(tenantRepo, reserved, tenant.WithBaseDomain(cfg.BaseDomain))
	resolutionCache := tenant.NewRedisCache(redisClient, "tenant:resolution:")

	userRepo := authmodule.NewRepository(pool)
	authSvc, err := auth.NewService(cfg.Auth, userRepo, resolver, auth.WithLogger(log))
	if err != nil {
		return err
	}

	tenantSvc := tenants.NewService(tenantRepo, reserved, resolutionCache, log)
	pageRepo := pages.NewRepository(pool)
	mediaRepo := media.NewRepository(pool)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", healthHandler(pg.Healthcheck(pool), redis.Healthcheck(redisClient)))

	// Login must see the original host headers, so it sits outside the
	// tenant middleware chain and resolves the host itself.
	r.Mount("/auth", authmodule.Router(authSvc))

	// Operator surface: trusted X-Tenant-Id header instead of host
	// resolution, operator scope enforced before any handler runs.
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.Middleware(authSvc))
		r.Use(authz.RequireOperator(auth.ScopeFromContext, authz.WithLogger(log)))
		r.Mount("/tenants", tenants.Router(tenantSvc))
	})

	// Tenant management surface: host resolution, authentication, then the
	// scope guard comparing the principal's tenant with the resolved one.
	r.Route("/api", func(r chi.Router) {
		r.Use(tenant.Middleware(resolver,
			tenant.WithRequired(),
			tenant.WithCache(resolutionCache),
			tenant.WithCacheTTL(cfg.TenantCacheTTL),
			tenant.WithTrustedIDHeader(),
			tenant.WithLogger(log),
		))
		r.Use(auth.Middleware(authSvc))
		r.Use(authz.RequireTenantAccess(auth.ScopeFromContext, authz.WithLogger(log)))

		r.Mount("/pages", pages.Router(pageRepo))
		r.Mount("/media", media.Router(mediaRepo, store))
	})

	// Public surface: anonymous reads of published content on the resolved
	// tenant's domain.
	r.Route("/public", func(r chi.Router) {
		r.Use(tenant.Middleware(resolver,
			tenant.WithRequired(),
			tenant.WithCache(resolutionCache),
			tenant.WithCacheTTL(cfg.TenantCacheTTL),
			tenant.WithLogger(log),
		))
		r.Mount("/pages", pages.PublicRouter(pageRepo))
	})

	return httpserver.New(cfg.HTTP, log).Run(ctx, r)
}

func healthHandler(checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/sitegrid/sitegrid/pkg/tenant"
)

// Config holds authentication settings loaded from the environment.
type Config struct {
	JWTSecret           string        `env:"AUTH_JWT_SECRET,required"`                  // JWTSecret signs access and refresh tokens.
	TokenIssuer         string        `env:"AUTH_TOKEN_ISSUER" envDefault:"sitegrid"`   // TokenIssuer is the iss claim on issued tokens.
	AccessTokenTTL      time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" envDefault:"15m"`    // AccessTokenTTL is the lifetime of access tokens.
	RefreshTokenTTL     time.Duration `env:"AUTH_REFRESH_TOKEN_TTL" envDefault:"720h"`  // RefreshTokenTTL is the lifetime of refresh tokens.
	OperatorEmailDomain string        `env:"AUTH_OPERATOR_EMAIL_DOMAIN,required"`       // OperatorEmailDomain marks platform-operator accounts by email suffix.
}

// Service authenticates principals and binds them to the correct tenant
// context before any credential is issued.
type Service struct {
	users          UserStore
	resolver       *tenant.Resolver
	issuer         tokenIssuer
	operatorDomain string
	logger         *slog.Logger
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithLogger sets the logger for authentication events.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates an authentication service.
func NewService(cfg Config, users UserStore, resolver *tenant.Resolver, opts ...ServiceOption) (*Service, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("auth: missing JWT secret")
	}
	if cfg.OperatorEmailDomain == "" {
		return nil, errors.New("auth: missing operator email domain")
	}
	s := &Service{
		users: users,
		resolver: resolver,
		issuer: tokenIssuer{
			secret:     []byte(cfg.JWTSecret),
			issuer:     cfg.TokenIssuer,
			accessTTL:  cfg.AccessTokenTTL,
			refreshTTL: cfg.RefreshTokenTTL,
		},
		operatorDomain: strings.ToLower(strings.TrimPrefix(cfg.OperatorEmailDomain, "@")),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// IsOperatorEmail reports whether the email belongs to the platform operator
// domain by suffix convention.
func (s *Service) IsOperatorEmail(email string) bool {
	return strings.HasSuffix(strings.ToLower(email), "@"+s.operatorDomain)
}

// Login authenticates the principal against the host the request arrived on
// and issues a token pair bound to the resolved tenant.
//
// Binding rules, checked in order:
//
//   - reserved host: only operator-domain emails may proceed; everyone else
//     is rejected before any password verification.
//   - resolvable tenant host: the credential lookup is filtered by the
//     resolved tenant id, so an email existing under another tenant cannot
//     authenticate into this one.
//   - missing or unmappable host: fail fast with the resolution error,
//     except for operator-domain emails, which authenticate tenant-less.
func (s *Service) Login(ctx context.Context, host, email, password string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	host = tenant.NormalizeHost(host)

	if s.resolver.Reserved(host) {
		if !s.IsOperatorEmail(email) {
			s.logger.WarnContext(ctx, "login rejected on reserved domain",
				slog.String("host", host),
			)
			return nil, fmt.Errorf("%w: %s", tenant.ErrReservedDomain, host)
		}
		return s.loginOperator(ctx, email, password)
	}

	res, err := s.resolver.ResolveDomain(ctx, host)
	if err != nil {
		if s.IsOperatorEmail(email) {
			return s.loginOperator(ctx, email, password)
		}
		return nil, err
	}

	user, err := s.users.FindByEmailAndTenant(ctx, email, res.Tenant.ID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return s.verifyAndIssue(ctx, user, password)
}

// Refresh exchanges a valid refresh token for a fresh pair. The embedded
// tenant is re-validated against the store so a deactivated tenant cuts off
// token renewal.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.issuer.parse(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, ErrNotRefreshToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.TenantID != nil {
		if _, err := s.resolver.ResolveID(ctx, *user.TenantID); err != nil {
			return nil, err
		}
	}

	return s.issuer.issuePair(user)
}

// VerifyAccess validates an access token and returns the principal it
// represents.
func (s *Service) VerifyAccess(raw string) (*Principal, error) {
	claims, err := s.issuer.parse(raw)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, ErrInvalidToken
	}
	return principalFromClaims(claims), nil
}

func (s *Service) loginOperator(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.users.FindOperatorByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return s.verifyAndIssue(ctx, user, password)
}

func (s *Service) verifyAndIssue(ctx context.Context, user *User, password string) (*TokenPair, error) {
	if !user.Active || !VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuer.issuePair(user)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "login succeeded",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)),
	)
	return pair, nil
}

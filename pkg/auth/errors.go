package auth

import "errors"

var (
	// ErrInvalidCredentials covers unknown email, wrong password and
	// wrong-tenant email uniformly to prevent account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned by stores when no matching account exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidToken is returned for malformed, tampered or mistyped tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token's lifetime has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrNotRefreshToken is returned when an access token is presented to
	// the refresh endpoint.
	ErrNotRefreshToken = errors.New("not a refresh token")

	// ErrNoPrincipalInContext is returned when a handler requires an
	// authenticated principal that the middleware never attached.
	ErrNoPrincipalInContext = errors.New("no principal in context")
)

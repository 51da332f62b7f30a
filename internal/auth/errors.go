package auth

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so the
	// two causes stay indistinguishable to callers.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrInvalidToken indicates the token failed verification.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrUnauthenticated indicates a request without a usable identity.
	ErrUnauthenticated = errors.New("auth: unauthenticated")

	// ErrForbidden indicates the caller is authenticated but not allowed.
	ErrForbidden = errors.New("auth: forbidden")

	// ErrInvalidRole indicates a role value outside the closed role set.
	ErrInvalidRole = errors.New("auth: invalid role")

	// ErrNotFound indicates a missing user, organization or role record.
	ErrNotFound = errors.New("auth: not found")
)

package auth

import "context"

// Store describes persistence operations required by the auth subsystem.
// Missing records surface as ErrNotFound.
type Store interface {
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, id string) (*User, error)
	CreateUser(ctx context.Context, u *User) error
	CreateOrganization(ctx context.Context, org *Organization) error
	// EnsureRole creates the role row if absent and returns its id. Role rows
	// are immutable once referenced.
	EnsureRole(ctx context.Context, name Role) (string, error)
}

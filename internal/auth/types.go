package auth

import "time"

// Organization is a tenant. Organizations form a forest: a parent must exist
// before a child references it, so cycles cannot be constructed.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  string    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User is a credentialed member of exactly one organization with exactly one
// role, both fixed at creation. Stores return users fully hydrated with the
// role name resolved.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Name           string    `json:"name"`
	OrganizationID string    `json:"organization_id"`
	RoleID         string    `json:"role_id"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserSummary is the denormalized shape returned to clients after login.
type UserSummary struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Role           Role   `json:"role"`
	OrganizationID string `json:"organization_id"`
}

// Summary builds the client-facing view of a user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.Role,
		OrganizationID: u.OrganizationID,
	}
}

package auth

import (
	"fmt"
	"strings"
)

// Role is one of the closed set of role names. Anything else is invalid
// input, never a new role.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// hierarchy maps a role to the set of roles it may act as.
var hierarchy = map[Role][]Role{
	RoleOwner:  {RoleOwner, RoleAdmin, RoleViewer},
	RoleAdmin:  {RoleAdmin, RoleViewer},
	RoleViewer: {RoleViewer},
}

// ParseRole validates a raw role value against the closed set.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.TrimSpace(strings.ToLower(raw)))
	switch role {
	case RoleOwner, RoleAdmin, RoleViewer:
		return role, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
}

// Permitted returns the roles this role may act as.
func (r Role) Permitted() []Role {
	permitted := hierarchy[r]
	out := make([]Role, len(permitted))
	copy(out, permitted)
	return out
}

// Permits reports whether the role satisfies the required role. This is an
// at-least-as-privileged check, not equality: admin permits a viewer
// requirement but not an owner requirement.
func (r Role) Permits(required Role) bool {
	for _, role := range hierarchy[r] {
		if role == required {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

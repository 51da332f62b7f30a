package auth

import (
	"errors"
	"testing"
)

func TestRolePermitsReflexive(t *testing.T) {
	for _, role := range []Role{RoleOwner, RoleAdmin, RoleViewer} {
		if !role.Permits(role) {
			t.Fatalf("expected %s to permit itself", role)
		}
	}
}

func TestRoleHierarchyIsMonotone(t *testing.T) {
	asSet := func(roles []Role) map[Role]struct{} {
		set := make(map[Role]struct{}, len(roles))
		for _, r := range roles {
			set[r] = struct{}{}
		}
		return set
	}
	owner := asSet(RoleOwner.Permitted())
	admin := asSet(RoleAdmin.Permitted())
	viewer := asSet(RoleViewer.Permitted())

	for r := range admin {
		if _, ok := owner[r]; !ok {
			t.Fatalf("owner set missing %s from admin set", r)
		}
	}
	for r := range viewer {
		if _, ok := admin[r]; !ok {
			t.Fatalf("admin set missing %s from viewer set", r)
		}
	}
	if len(owner) != 3 || len(admin) != 2 || len(viewer) != 1 {
		t.Fatalf("unexpected set sizes: owner=%d admin=%d viewer=%d", len(owner), len(admin), len(viewer))
	}
}

func TestRolePermits(t *testing.T) {
	cases := []struct {
		caller   Role
		required Role
		want     bool
	}{
		{RoleOwner, RoleAdmin, true},
		{RoleOwner, RoleViewer, true},
		{RoleAdmin, RoleViewer, true},
		{RoleAdmin, RoleOwner, false},
		{RoleViewer, RoleAdmin, false},
		{RoleViewer, RoleOwner, false},
	}
	for _, tc := range cases {
		if got := tc.caller.Permits(tc.required); got != tc.want {
			t.Fatalf("%s.Permits(%s)=%v, want %v", tc.caller, tc.required, got, tc.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("  Admin ")
	if err != nil {
		t.Fatalf("ParseRole: %v", err)
	}
	if role != RoleAdmin {
		t.Fatalf("unexpected role: %s", role)
	}

	if _, err := ParseRole("manager"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := ParseRole(""); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole for empty input, got %v", err)
	}
}

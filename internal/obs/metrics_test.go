package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                                "/",
		"/metrics":                        "/metrics",
		"/healthz":                        "/healthz",
		"/v1/tasks":                       "/v1/tasks",
		"/v1/tasks?status=pending":        "/v1/tasks",
		"/v1/tasks/01J5YQ6T":              "/v1/tasks/:id",
		"/v1/tasks/audit-log":             "/v1/tasks/audit-log",
		"/v1/tasks/abc/extra":             "/v1/tasks/abc/extra",
		"/v1/auth/login":                  "/v1/auth/login",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}

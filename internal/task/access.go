package task

import "taskdesk.org/internal/auth"

// CheckAccess decides whether the authenticated caller may mutate the loaded
// task. Viewers may touch only tasks they created; admins and owners may
// touch any task within their organization. Cross-organization access is
// never permitted regardless of role. The check is resource-local: it only
// inspects fields already present on the loaded task.
func CheckAccess(t *Task, claims *auth.Claims) error {
	if t == nil || claims == nil {
		return auth.ErrForbidden
	}
	if t.OrganizationID != claims.OrganizationID {
		return auth.ErrForbidden
	}
	if claims.Role == auth.RoleViewer && t.CreatedBy != claims.UserID() {
		return auth.ErrForbidden
	}
	return nil
}

package task

import "context"

// Filter narrows a task query. Zero-valued fields impose no constraint, except
// OrganizationID which every query must set: listings are always pre-scoped to
// one organization before any access decision runs.
type Filter struct {
	OrganizationID string
	CreatedBy      string
	Status         Status
}

// Store persists tasks. Missing ids surface as ErrNotFound.
type Store interface {
	FindTask(ctx context.Context, id string) (*Task, error)
	// ListTasks returns matching tasks ordered by Order ascending.
	ListTasks(ctx context.Context, f Filter) ([]Task, error)
	CreateTask(ctx context.Context, t *Task) error
	UpdateTask(ctx context.Context, t *Task) error
	DeleteTask(ctx context.Context, t *Task) error
}

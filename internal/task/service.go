package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskdesk.org/internal/audit"
	"taskdesk.org/internal/auth"
	"taskdesk.org/internal/ids"
)

const resourceKind = "task"

// Service orchestrates task use cases: every mutation is gated by the access
// check and recorded in the audit trail before the store is touched, so an
// acknowledged mutation always has a durable audit entry.
type Service struct {
	store Store
	audit *audit.Recorder
	now   func() time.Time
}

// ServiceOption configures Service.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService wires the orchestrator with its collaborators.
func NewService(store Store, recorder *audit.Recorder, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("task: store is required")
	}
	if recorder == nil {
		return nil, errors.New("task: audit recorder is required")
	}
	s := &Service{store: store, audit: recorder, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create builds a task owned by the caller's organization. Organization and
// creator ids come from the verified claims, never from client input.
func (s *Service) Create(ctx context.Context, claims *auth.Claims, in CreateInput) (*Task, error) {
	if claims == nil {
		return nil, auth.ErrUnauthenticated
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = DefaultCategory
	}

	now := s.now().UTC()
	t := &Task{
		ID:             ids.New(),
		Title:          in.Title,
		Description:    strings.TrimSpace(in.Description),
		Status:         StatusPending,
		Category:       category,
		OrganizationID: claims.OrganizationID,
		CreatedBy:      claims.UserID(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := s.audit.Record(ctx, claims.UserID(), audit.ActionCreate, resourceKind, t.ID, in); err != nil {
		return nil, err
	}
	if err := s.store.CreateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// List returns the caller's visible tasks ordered by Order ascending. Viewers
// only see tasks they created; the restriction is applied server-side and is
// not client-suppliable.
func (s *Service) List(ctx context.Context, claims *auth.Claims, status string) ([]Task, error) {
	if claims == nil {
		return nil, auth.ErrUnauthenticated
	}
	f := Filter{OrganizationID: claims.OrganizationID}
	if claims.Role == auth.RoleViewer {
		f.CreatedBy = claims.UserID()
	}
	if strings.TrimSpace(status) != "" {
		parsed, err := ParseStatus(status)
		if err != nil {
			return nil, err
		}
		f.Status = parsed
	}
	tasks, err := s.store.ListTasks(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Update applies a partial patch to the task after the access check. The
// requested diff is audit-logged even when some fields are no-ops.
func (s *Service) Update(ctx context.Context, claims *auth.Claims, id string, in UpdateInput) (*Task, error) {
	if claims == nil {
		return nil, auth.ErrUnauthenticated
	}
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CheckAccess(t, claims); err != nil {
		return nil, err
	}
	var status *Status
	if in.Status != nil {
		parsed, err := ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		status = &parsed
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
	}

	if _, err := s.audit.Record(ctx, claims.UserID(), audit.ActionUpdate, resourceKind, t.ID, in); err != nil {
		return nil, err
	}

	apply(t, in, status)
	t.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

// Delete removes the task after the access check.
func (s *Service) Delete(ctx context.Context, claims *auth.Claims, id string) error {
	if claims == nil {
		return auth.ErrUnauthenticated
	}
	t, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := CheckAccess(t, claims); err != nil {
		return err
	}
	if _, err := s.audit.Record(ctx, claims.UserID(), audit.ActionDelete, resourceKind, t.ID, nil); err != nil {
		return err
	}
	if err := s.store.DeleteTask(ctx, t); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// AuditLog returns the caller's recorded actions, newest first. The admin
// role requirement is declared on the route and enforced by the access guard.
func (s *Service) AuditLog(ctx context.Context, claims *auth.Claims) ([]audit.Entry, error) {
	if claims == nil {
		return nil, auth.ErrUnauthenticated
	}
	return s.audit.ListForUser(ctx, claims.UserID(), audit.DefaultListLimit)
}

func (s *Service) load(ctx context.Context, id string) (*Task, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	t, err := s.store.FindTask(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return t, nil
}

func apply(t *Task, in UpdateInput, status *Status) {
	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if status != nil {
		t.Status = *status
	}
	if in.Category != nil && strings.TrimSpace(*in.Category) != "" {
		t.Category = strings.TrimSpace(*in.Category)
	}
	if in.Order != nil {
		t.Order = *in.Order
	}
}

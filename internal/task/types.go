package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound indicates the task id does not exist.
	ErrNotFound = errors.New("task: not found")

	// ErrInvalidInput indicates a caller-supplied field failed validation.
	ErrInvalidInput = errors.New("task: invalid input")
)

// Status is the task lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// DefaultCategory is assigned when a task is created without a category.
const DefaultCategory = "personal"

// ParseStatus validates a raw status value against the closed set.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.TrimSpace(strings.ToLower(raw)))
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted:
		return status, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, raw)
	}
}

// Task belongs to exactly one organization, inherited from its creator at
// creation time and never re-derived.
type Task struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Status         Status    `json:"status"`
	Category       string    `json:"category"`
	Order          int       `json:"order"`
	OrganizationID string    `json:"organization_id"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateInput carries the client-suppliable fields of a new task. Organization
// and creator are always forced from the caller's claims.
type CreateInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// UpdateInput is a partial patch: nil fields are left untouched. Its JSON
// form doubles as the audit diff of the requested change.
type UpdateInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Category    *string `json:"category,omitempty"`
	Order       *int    `json:"order,omitempty"`
}

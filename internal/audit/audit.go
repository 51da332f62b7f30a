// Package audit provides the append-only trail of state changes. Every task
// mutation records an entry before the mutation is applied; a failed audit
// write aborts the mutation (fail closed).
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskdesk.org/internal/ids"
)

// Action identifies the kind of state change an entry records.
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Entry is one immutable audit record. Entries are never mutated or deleted
// after creation.
type Entry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Action     Action    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resource_id"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store persists audit entries.
type Store interface {
	AppendEntry(ctx context.Context, entry *Entry) error
	// ListEntriesForUser returns entries recorded by the actor, newest first.
	ListEntriesForUser(ctx context.Context, userID string, limit int) ([]Entry, error)
}

// DefaultListLimit caps audit reads regardless of the requested page size.
const DefaultListLimit = 100

// Recorder appends and reads audit entries.
type Recorder struct {
	store Store
	now   func() time.Time
}

// RecorderOption configures Recorder.
type RecorderOption func(*Recorder)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) RecorderOption {
	return func(r *Recorder) {
		if fn != nil {
			r.now = fn
		}
	}
}

// NewRecorder constructs a Recorder backed by the given store.
func NewRecorder(store Store, opts ...RecorderOption) (*Recorder, error) {
	if store == nil {
		return nil, errors.New("audit: store is required")
	}
	r := &Recorder{store: store, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Record appends an entry for the action. The details value is serialized to
// a stable textual form so stored audit content stays diffable even if the
// structured type changes later. A store failure is returned to the caller
// and must abort the triggering mutation.
func (r *Recorder) Record(ctx context.Context, actorID string, action Action, resource, resourceID string, details any) (Entry, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return Entry{}, errors.New("audit: actor id is required")
	}
	serialized, err := marshalDetails(details)
	if err != nil {
		return Entry{}, fmt.Errorf("audit: serialize details: %w", err)
	}
	entry := Entry{
		ID:         ids.New(),
		UserID:     actorID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    serialized,
		CreatedAt:  r.now().UTC(),
	}
	if err := r.store.AppendEntry(ctx, &entry); err != nil {
		return Entry{}, fmt.Errorf("audit: append entry: %w", err)
	}
	return entry, nil
}

// ListForUser returns the actor's entries, newest first, capped at
// DefaultListLimit.
func (r *Recorder) ListForUser(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	return r.store.ListEntriesForUser(ctx, userID, limit)
}

// marshalDetails produces deterministic JSON: encoding/json emits map keys in
// sorted order and struct fields in declaration order.
func marshalDetails(details any) (string, error) {
	if details == nil {
		return "{}", nil
	}
	data, err := json.Marshal(details)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

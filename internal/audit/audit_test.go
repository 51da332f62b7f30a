package audit

import (
	"context"
	"errors"
	"testing"
	"time"
)

type captureStore struct {
	entries   []Entry
	appendErr error
	gotLimit  int
}

func (c *captureStore) AppendEntry(_ context.Context, entry *Entry) error {
	if c.appendErr != nil {
		return c.appendErr
	}
	c.entries = append(c.entries, *entry)
	return nil
}

func (c *captureStore) ListEntriesForUser(_ context.Context, userID string, limit int) ([]Entry, error) {
	c.gotLimit = limit
	var out []Entry
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].UserID != userID {
			continue
		}
		out = append(out, c.entries[i])
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func TestRecorderRecord(t *testing.T) {
	store := &captureStore{}
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec, err := NewRecorder(store, WithClock(func() time.Time { return at }))
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	details := map[string]any{"title": "Buy groceries", "order": 1}
	entry, err := rec.Record(context.Background(), "user-3", ActionCreate, "task", "task-9", details)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if entry.ID == "" {
		t.Fatal("expected generated id")
	}
	if entry.Action != ActionCreate || entry.Resource != "task" || entry.ResourceID != "task-9" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if !entry.CreatedAt.Equal(at) {
		t.Fatalf("unexpected timestamp: %v", entry.CreatedAt)
	}
	// Map keys serialize in sorted order, so the stored form is stable.
	if entry.Details != `{"order":1,"title":"Buy groceries"}` {
		t.Fatalf("unexpected details: %s", entry.Details)
	}
	if len(store.entries) != 1 {
		t.Fatalf("expected 1 stored entry, got %d", len(store.entries))
	}
}

func TestRecorderRecordNilDetails(t *testing.T) {
	store := &captureStore{}
	rec, err := NewRecorder(store)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	entry, err := rec.Record(context.Background(), "user-1", ActionDelete, "task", "task-1", nil)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if entry.Details != "{}" {
		t.Fatalf("unexpected details for nil payload: %q", entry.Details)
	}
}

func TestRecorderRecordStoreFailure(t *testing.T) {
	storeErr := errors.New("connection reset")
	rec, err := NewRecorder(&captureStore{appendErr: storeErr})
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	if _, err := rec.Record(context.Background(), "user-1", ActionUpdate, "task", "task-1", nil); !errors.Is(err, storeErr) {
		t.Fatalf("expected store failure to surface, got %v", err)
	}
}

func TestListForUserClampsLimit(t *testing.T) {
	store := &captureStore{}
	rec, err := NewRecorder(store)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	if _, err := rec.ListForUser(context.Background(), "user-1", 0); err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if store.gotLimit != DefaultListLimit {
		t.Fatalf("expected default limit, got %d", store.gotLimit)
	}

	if _, err := rec.ListForUser(context.Background(), "user-1", 5000); err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if store.gotLimit != DefaultListLimit {
		t.Fatalf("expected clamped limit, got %d", store.gotLimit)
	}

	if _, err := rec.ListForUser(context.Background(), "user-1", 10); err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if store.gotLimit != 10 {
		t.Fatalf("expected limit 10, got %d", store.gotLimit)
	}
}

func TestListForUserNewestFirst(t *testing.T) {
	store := &captureStore{}
	now := time.Now().UTC()
	clock := now
	rec, err := NewRecorder(store, WithClock(func() time.Time { return clock }))
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	ctx := context.Background()
	for i, action := range []Action{ActionCreate, ActionUpdate, ActionDelete} {
		clock = now.Add(time.Duration(i) * time.Second)
		if _, err := rec.Record(ctx, "user-1", action, "task", "task-1", nil); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	entries, err := rec.ListForUser(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Action != ActionDelete || entries[2].Action != ActionCreate {
		t.Fatalf("expected newest first ordering, got %+v", entries)
	}
}

// Package memory provides a mutex-guarded in-process store. It backs the
// httptest suites and local runs without a configured database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"taskdesk.org/internal/audit"
	"taskdesk.org/internal/auth"
	"taskdesk.org/internal/ids"
	"taskdesk.org/internal/task"
)

var (
	_ auth.Store  = (*Store)(nil)
	_ task.Store  = (*Store)(nil)
	_ audit.Store = (*Store)(nil)
)

// Store keeps all entities in maps. Every method copies on the way in and
// out, so callers never share memory with the store.
type Store struct {
	mu           sync.RWMutex
	orgs         map[string]auth.Organization
	roleIDs      map[auth.Role]string
	users        map[string]auth.User
	userIDByMail map[string]string
	tasks        map[string]task.Task
	entries      []audit.Entry
}

// New returns an empty store.
func New() *Store {
	return &Store{
		orgs:         make(map[string]auth.Organization),
		roleIDs:      make(map[auth.Role]string),
		users:        make(map[string]auth.User),
		userIDByMail: make(map[string]string),
		tasks:        make(map[string]task.Task),
	}
}

// --- auth.Store -----------------------------------------------------------

func (s *Store) FindUserByEmail(_ context.Context, email string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.userIDByMail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, auth.ErrNotFound
	}
	u := s.users[id]
	return &u, nil
}

func (s *Store) FindUserByID(_ context.Context, id string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return &u, nil
}

func (s *Store) CreateUser(_ context.Context, u *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(u.Email))
	if email == "" {
		return fmt.Errorf("memory: user email is required")
	}
	if _, exists := s.userIDByMail[email]; exists {
		return fmt.Errorf("memory: user email %s already exists", email)
	}
	if u.ID == "" {
		u.ID = ids.New()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	u.Email = email
	s.users[u.ID] = *u
	s.userIDByMail[email] = u.ID
	return nil
}

func (s *Store) CreateOrganization(_ context.Context, org *auth.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if org.ParentID != "" {
		if _, ok := s.orgs[org.ParentID]; !ok {
			return fmt.Errorf("memory: parent organization %s: %w", org.ParentID, auth.ErrNotFound)
		}
	}
	if org.ID == "" {
		org.ID = ids.New()
	}
	now := time.Now().UTC()
	if org.CreatedAt.IsZero() {
		org.CreatedAt = now
	}
	org.UpdatedAt = now
	s.orgs[org.ID] = *org
	return nil
}

func (s *Store) EnsureRole(_ context.Context, name auth.Role) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.roleIDs[name]; ok {
		return id, nil
	}
	id := ids.New()
	s.roleIDs[name] = id
	return id, nil
}

// --- task.Store -----------------------------------------------------------

func (s *Store) FindTask(_ context.Context, id string) (*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, task.ErrNotFound
	}
	return &t, nil
}

func (s *Store) ListTasks(_ context.Context, f task.Filter) ([]task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []task.Task
	for _, t := range s.tasks {
		if t.OrganizationID != f.OrganizationID {
			continue
		}
		if f.CreatedBy != "" && t.CreatedBy != f.CreatedBy {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) CreateTask(_ context.Context, t *task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = ids.New()
	}
	s.tasks[t.ID] = *t
	return nil
}

func (s *Store) UpdateTask(_ context.Context, t *task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.ID]; !ok {
		return task.ErrNotFound
	}
	s.tasks[t.ID] = *t
	return nil
}

func (s *Store) DeleteTask(_ context.Context, t *task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.ID]; !ok {
		return task.ErrNotFound
	}
	delete(s.tasks, t.ID)
	return nil
}

// --- audit.Store ----------------------------------------------------------

func (s *Store) AppendEntry(_ context.Context, entry *audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *Store) ListEntriesForUser(_ context.Context, userID string, limit int) ([]audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []audit.Entry
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].UserID != userID {
			continue
		}
		out = append(out, s.entries[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Package pg implements the store interfaces on PostgreSQL through
// database/sql with the pgx stdlib driver. Row-level isolation is the
// database's responsibility; the store holds no in-process state beyond the
// connection pool.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

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

// Store wraps a pooled database handle.
type Store struct {
	db *sql.DB
}

// New wraps an existing handle (used by tests with sqlmock).
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to PostgreSQL and tunes the pool.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the handle for the readiness probe.
func (s *Store) DB() *sql.DB { return s.db }

// --- auth.Store -----------------------------------------------------------

const userColumns = `u.id, u.email, u.password_hash, u.name, u.organization_id, u.role_id, r.name, u.created_at, u.updated_at`

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users u join roles r on r.id = u.role_id where u.email = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	return scanUser(row)
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*auth.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users u join roles r on r.id = u.role_id where u.id = $1`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*auth.User, error) {
	var (
		u    auth.User
		role string
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.OrganizationID, &u.RoleID, &role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	parsed, err := auth.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("stored role: %w", err)
	}
	u.Role = parsed
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *auth.User) error {
	if u.ID == "" {
		u.ID = ids.New()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	row := s.db.QueryRowContext(ctx,
		`insert into users(id, email, password_hash, name, organization_id, role_id)
		 values($1,$2,$3,$4,$5,$6)
		 returning created_at, updated_at`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.OrganizationID, u.RoleID,
	)
	return row.Scan(&u.CreatedAt, &u.UpdatedAt)
}

func (s *Store) CreateOrganization(ctx context.Context, org *auth.Organization) error {
	if org.ID == "" {
		org.ID = ids.New()
	}
	parent := sql.NullString{String: org.ParentID, Valid: org.ParentID != ""}
	row := s.db.QueryRowContext(ctx,
		`insert into organizations(id, name, parent_id) values($1,$2,$3)
		 returning created_at, updated_at`,
		org.ID, org.Name, parent,
	)
	return row.Scan(&org.CreatedAt, &org.UpdatedAt)
}

func (s *Store) EnsureRole(ctx context.Context, name auth.Role) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`insert into roles(id, name) values($1,$2)
		 on conflict (name) do update set name = excluded.name
		 returning id`,
		ids.New(), string(name),
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// --- task.Store -----------------------------------------------------------

const taskColumns = `id, title, description, status, category, sort_order, organization_id, created_by, created_at, updated_at`

func (s *Store) FindTask(ctx context.Context, id string) (*task.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+taskColumns+` from tasks where id = $1`, id)
	var t task.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Category, &t.Order, &t.OrganizationID, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, task.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) ListTasks(ctx context.Context, f task.Filter) ([]task.Task, error) {
	query := `select ` + taskColumns + ` from tasks where organization_id = $1`
	args := []any{f.OrganizationID}
	if f.CreatedBy != "" {
		args = append(args, f.CreatedBy)
		query += fmt.Sprintf(" and created_by = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += fmt.Sprintf(" and status = $%d", len(args))
	}
	query += ` order by sort_order asc, created_at asc`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []task.Task
	for rows.Next() {
		var t task.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Category, &t.Order, &t.OrganizationID, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) CreateTask(ctx context.Context, t *task.Task) error {
	if t.ID == "" {
		t.ID = ids.New()
	}
	row := s.db.QueryRowContext(ctx,
		`insert into tasks(id, title, description, status, category, sort_order, organization_id, created_by)
		 values($1,$2,$3,$4,$5,$6,$7,$8)
		 returning created_at, updated_at`,
		t.ID, t.Title, t.Description, string(t.Status), t.Category, t.Order, t.OrganizationID, t.CreatedBy,
	)
	return row.Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (s *Store) UpdateTask(ctx context.Context, t *task.Task) error {
	row := s.db.QueryRowContext(ctx,
		`update tasks
		 set title=$2, description=$3, status=$4, category=$5, sort_order=$6, updated_at=now()
		 where id=$1
		 returning updated_at`,
		t.ID, t.Title, t.Description, string(t.Status), t.Category, t.Order,
	)
	err := row.Scan(&t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return task.ErrNotFound
	}
	return err
}

func (s *Store) DeleteTask(ctx context.Context, t *task.Task) error {
	res, err := s.db.ExecContext(ctx, `delete from tasks where id = $1`, t.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return task.ErrNotFound
	}
	return nil
}

// --- audit.Store ----------------------------------------------------------

func (s *Store) AppendEntry(ctx context.Context, entry *audit.Entry) error {
	if entry.ID == "" {
		entry.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into audit_logs(id, user_id, action, resource, resource_id, details, created_at)
		 values($1,$2,$3,$4,$5,$6,$7)`,
		entry.ID, entry.UserID, string(entry.Action), entry.Resource, entry.ResourceID, entry.Details, entry.CreatedAt,
	)
	return err
}

func (s *Store) ListEntriesForUser(ctx context.Context, userID string, limit int) ([]audit.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, user_id, action, resource, resource_id, details, created_at
		 from audit_logs where user_id = $1
		 order by created_at desc, id desc
		 limit $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []audit.Entry
	for rows.Next() {
		var e audit.Entry
		var action string
		if err := rows.Scan(&e.ID, &e.UserID, &action, &e.Resource, &e.ResourceID, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Action = audit.Action(action)
		out = append(out, e)
	}
	return out, rows.Err()
}

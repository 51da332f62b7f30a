// Command seed loads a demo dataset: one organization tree, a user per
// role, and a handful of tasks. Passwords are hashed at run time, so the
// dataset cannot live in a plain SQL seed file.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"taskdesk.org/internal/auth"
	"taskdesk.org/internal/store/pg"
	"taskdesk.org/internal/task"
)

func main() {
	log.SetFlags(0)
	dsn := flag.String("dsn", os.Getenv("TASKDESK_PG_DSN"), "PostgreSQL DSN")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("missing DSN: provide via -dsn or TASKDESK_PG_DSN")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := pg.Open(*dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	if err := run(ctx, store); err != nil {
		log.Fatalf("seed: %v", err)
	}
}

func run(ctx context.Context, store *pg.Store) error {
	if _, err := store.FindUserByEmail(ctx, "owner@acme.com"); err == nil {
		log.Print("already seeded, nothing to do")
		return nil
	} else if !errors.Is(err, auth.ErrNotFound) {
		return err
	}

	roleIDs := make(map[auth.Role]string)
	for _, role := range []auth.Role{auth.RoleOwner, auth.RoleAdmin, auth.RoleViewer} {
		id, err := store.EnsureRole(ctx, role)
		if err != nil {
			return err
		}
		roleIDs[role] = id
	}

	acme := &auth.Organization{Name: "Acme Corp"}
	if err := store.CreateOrganization(ctx, acme); err != nil {
		return err
	}
	labs := &auth.Organization{Name: "Acme Labs", ParentID: acme.ID}
	if err := store.CreateOrganization(ctx, labs); err != nil {
		return err
	}

	newUser := func(email, password, name string, role auth.Role) (*auth.User, error) {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, err
		}
		u := &auth.User{
			Email:          email,
			PasswordHash:   hash,
			Name:           name,
			OrganizationID: acme.ID,
			RoleID:         roleIDs[role],
			Role:           role,
		}
		if err := store.CreateUser(ctx, u); err != nil {
			return nil, err
		}
		log.Printf("created %s (%s)", email, role)
		return u, nil
	}

	if _, err := newUser("owner@acme.com", "owner123", "Olivia Owner", auth.RoleOwner); err != nil {
		return err
	}
	admin, err := newUser("admin@acme.com", "admin123", "Adam Admin", auth.RoleAdmin)
	if err != nil {
		return err
	}
	viewer, err := newUser("viewer@acme.com", "viewer123", "Vera Viewer", auth.RoleViewer)
	if err != nil {
		return err
	}

	seedTasks := []task.Task{
		{
			Title:          "Design new dashboard",
			Description:    "Sketch the v2 dashboard layout",
			Status:         task.StatusInProgress,
			Category:       "work",
			Order:          1,
			OrganizationID: acme.ID,
			CreatedBy:      admin.ID,
		},
		{
			Title:          "Fix authentication bug",
			Description:    "Sessions drop after password change",
			Status:         task.StatusPending,
			Category:       "work",
			Order:          2,
			OrganizationID: acme.ID,
			CreatedBy:      admin.ID,
		},
		{
			Title:          "Buy groceries",
			Description:    "",
			Status:         task.StatusPending,
			Category:       "personal",
			Order:          1,
			OrganizationID: acme.ID,
			CreatedBy:      viewer.ID,
		},
	}
	for i := range seedTasks {
		if err := store.CreateTask(ctx, &seedTasks[i]); err != nil {
			return err
		}
		log.Printf("created task %q", seedTasks[i].Title)
	}

	log.Print("seed complete")
	return nil
}

package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskdesk.org/internal/audit"
	"taskdesk.org/internal/auth"
	"taskdesk.org/internal/httpapi"
	"taskdesk.org/internal/obs"
	"taskdesk.org/internal/store/memory"
	"taskdesk.org/internal/store/pg"
	"taskdesk.org/internal/task"
)

var version = "0.1.0"

type stores struct {
	auth  auth.Store
	task  task.Store
	audit audit.Store
}

func main() {
	obs.Init()
	obs.InitBuildInfo(version)

	addr := os.Getenv("TASKDESK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	secret := os.Getenv("TASKDESK_AUTH_SECRET")
	if secret == "" {
		log.Fatal("TASKDESK_AUTH_SECRET is required")
	}

	tokenOpts := []auth.TokenOption{}
	if ttl := os.Getenv("TASKDESK_TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			log.Fatalf("parse TASKDESK_TOKEN_TTL: %v", err)
		}
		tokenOpts = append(tokenOpts, auth.WithTTL(d))
	}

	// Without a DSN the API runs on the in-memory store; useful for local
	// development, everything is lost on restart.
	var (
		st stores
		db *sql.DB
	)
	if dsn := os.Getenv("TASKDESK_PG_DSN"); dsn != "" {
		pgStore, err := pg.Open(dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer pgStore.Close()
		db = pgStore.DB()
		st = stores{auth: pgStore, task: pgStore, audit: pgStore}
	} else {
		obs.Info("using in-memory store, TASKDESK_PG_DSN not set", nil)
		mem := memory.New()
		st = stores{auth: mem, task: mem, audit: mem}
	}

	tokens, err := auth.NewTokens(secret, tokenOpts...)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}
	authSvc, err := auth.NewService(st.auth, tokens)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}
	recorder, err := audit.NewRecorder(st.audit)
	if err != nil {
		log.Fatalf("audit recorder: %v", err)
	}
	tasks, err := task.NewService(st.task, recorder)
	if err != nil {
		log.Fatalf("task service: %v", err)
	}

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, authSvc, tokens, tasks)

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	obs.Info("starting", map[string]any{"version": version, "addr": srv.Addr})

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	obs.Info("shutting down", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	obs.Info("stopped", nil)
}

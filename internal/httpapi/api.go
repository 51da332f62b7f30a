package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"taskdesk.org/internal/auth"
	"taskdesk.org/internal/obs"
	"taskdesk.org/internal/task"
)

// ReadyProbe reports whether the backing store is reachable.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer. Routes declare their required role explicitly; the
// bearer-token guard and the role guard run as ordinary middleware.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	auth   *auth.Service
	tokens *auth.Tokens
	tasks  *task.Service

	rateBurst  int
	ratePerSec int
}

// New assembles the API with its collaborators.
func New(rp ReadyProbe, version string, authSvc *auth.Service, tokens *auth.Tokens, tasks *task.Service) *API {
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: rp,
		version:    version,
		auth:       authSvc,
		tokens:     tokens,
		tasks:      tasks,
		rateBurst:  50,
		ratePerSec: 25,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/v1/auth/login", a.handleLogin)

	// The audit log is the only operation with a role requirement beyond
	// authentication; the requirement is part of the route declaration.
	a.mux.Handle("/v1/tasks/audit-log", RequireRole(auth.RoleAdmin)(http.HandlerFunc(a.handleAuditLog)))
	a.mux.HandleFunc("/v1/tasks", a.handleTasksCollection)
	a.mux.HandleFunc("/v1/tasks/", a.handleTaskResource)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	h := http.Handler(a.mux)
	h = a.withAuth(h)
	h = MaxBodyBytes(h, 1<<20)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = SecurityHeaders(h)
	h = CORS(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"service":   "taskdesk-api",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		obs.Error("readiness probe failed", map[string]any{"error": err.Error()})
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "taskdesk-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

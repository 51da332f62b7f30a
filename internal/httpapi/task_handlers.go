package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"taskdesk.org/internal/audit"
	"taskdesk.org/internal/auth"
	"taskdesk.org/internal/task"
)

type listTasksResponse struct {
	Items []task.Task `json:"items"`
}

type auditLogResponse struct {
	Items []audit.Entry `json:"items"`
}

func (a *API) handleTasksCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.createTask(w, r)
	case http.MethodGet:
		a.listTasks(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleTaskResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/tasks/")
	id = strings.Trim(id, "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		a.updateTask(w, r, id)
	case http.MethodDelete:
		a.deleteTask(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) createTask(w http.ResponseWriter, r *http.Request) {
	var in task.CreateInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	created, err := a.tasks.Create(r.Context(), callerClaims(r), in)
	if err != nil {
		handleTaskError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/v1/tasks/%s", created.ID))
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := a.tasks.List(r.Context(), callerClaims(r), r.URL.Query().Get("status"))
	if err != nil {
		handleTaskError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	writeJSON(w, http.StatusOK, listTasksResponse{Items: tasks})
}

func (a *API) updateTask(w http.ResponseWriter, r *http.Request, id string) {
	var in task.UpdateInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := a.tasks.Update(r.Context(), callerClaims(r), id, in)
	if err != nil {
		handleTaskError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) deleteTask(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.tasks.Delete(r.Context(), callerClaims(r), id); err != nil {
		handleTaskError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	entries, err := a.tasks.AuditLog(r.Context(), callerClaims(r))
	if err != nil {
		handleTaskError(w, r, err)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	writeJSON(w, http.StatusOK, auditLogResponse{Items: entries})
}

func callerClaims(r *http.Request) *auth.Claims {
	claims, _ := auth.ClaimsFromContext(r.Context())
	return claims
}

// handleTaskError maps domain failures onto status codes. Messages stay fixed
// per failure kind; store details never reach the client.
func handleTaskError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, task.ErrInvalidInput), errors.Is(err, auth.ErrInvalidRole):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, auth.ErrInvalidToken):
		writeError(w, r, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, r, http.StatusForbidden, "forbidden")
	case errors.Is(err, task.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "task not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

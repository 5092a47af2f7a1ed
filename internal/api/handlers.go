// Package api exposes the task store's public surface over HTTP: the
// collection, the five mutation operations, the undo slot, and the load
// state.
package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/nadmax/taskboard/internal/dashboard"
	"github.com/nadmax/taskboard/internal/httputil"
	"github.com/nadmax/taskboard/internal/metrics"
	"github.com/nadmax/taskboard/internal/store"
	"github.com/nadmax/taskboard/internal/task"
)

type API struct {
	store *store.TaskStore
	mux   *http.ServeMux
}

type CreateTaskRequest struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Revenue   float64            `json:"revenue"`
	TimeTaken float64            `json:"time_taken"`
	Priority  *task.TaskPriority `json:"priority"`
	Status    *task.TaskStatus   `json:"status"`
	Notes     string             `json:"notes"`
}

// UpdateTaskRequest is a partial patch; absent fields leave the record alone.
type UpdateTaskRequest struct {
	Title       *string            `json:"title"`
	Revenue     *float64           `json:"revenue"`
	TimeTaken   *float64           `json:"time_taken"`
	Priority    *task.TaskPriority `json:"priority"`
	Status      *task.TaskStatus   `json:"status"`
	Notes       *string            `json:"notes"`
	CompletedAt *time.Time         `json:"completed_at"`
}

type StateResponse struct {
	Phase   string `json:"phase"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

func NewAPI(s *store.TaskStore) *API {
	api := &API{
		store: s,
		mux:   http.NewServeMux(),
	}

	api.setupRoutes()
	return api
}

func (a *API) setupRoutes() {
	a.mux.HandleFunc("/api/tasks", a.handleTasks)
	a.mux.HandleFunc("/api/tasks/", a.handleTaskByID)
	a.mux.HandleFunc("/api/undo", a.handleUndo)
	a.mux.HandleFunc("/api/state", a.handleState)

	dash := dashboard.NewDashboard(a.store)
	a.mux.HandleFunc("/api/dashboard/view", dash.GetView)
	a.mux.HandleFunc("/api/dashboard/summary", dash.GetSummary)
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

func (a *API) handleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.createTask(w, r)
	case http.MethodGet:
		a.listTasks(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (a *API) createTask(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("failed to close request body: %v", err)
		}
	}()

	var req CreateTaskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	in := store.CreateInput{
		ID:        req.ID,
		Title:     req.Title,
		Revenue:   req.Revenue,
		TimeTaken: req.TimeTaken,
		Priority:  task.PriorityMedium,
		Status:    task.StatusTodo,
		Notes:     req.Notes,
	}
	if req.Priority != nil {
		in.Priority = *req.Priority
	}
	if req.Status != nil {
		in.Status = *req.Status
	}

	created := a.store.Create(in)
	metrics.RecordTaskCreated(created.Priority)

	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (a *API) listTasks(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, a.store.Tasks())
}

func (a *API) handleTaskByID(w http.ResponseWriter, r *http.Request) {
	taskID := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	if taskID == "" || strings.Contains(taskID, "/") {
		http.Error(w, "Task ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		a.updateTask(w, r, taskID)
	case http.MethodDelete:
		a.deleteTask(w, taskID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (a *API) updateTask(w http.ResponseWriter, r *http.Request, taskID string) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("failed to close request body: %v", err)
		}
	}()

	var req UpdateTaskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	updated := a.store.Update(taskID, store.Patch{
		Title:       req.Title,
		Revenue:     req.Revenue,
		TimeTaken:   req.TimeTaken,
		Priority:    req.Priority,
		Status:      req.Status,
		Notes:       req.Notes,
		CompletedAt: req.CompletedAt,
	})

	// Unknown ids are a no-op by contract, not an error.
	if updated == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	metrics.RecordTaskUpdated()
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (a *API) deleteTask(w http.ResponseWriter, taskID string) {
	a.store.Delete(taskID)
	metrics.RecordTaskDeleted()

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleUndo(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		last := a.store.LastDeleted()
		if last == nil {
			httputil.WriteJSONError(w, "Undo buffer is empty", http.StatusNotFound)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, last)
	case http.MethodPost:
		restored := a.store.UndoDelete()
		if restored == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		metrics.RecordTaskRestored()
		httputil.WriteJSON(w, http.StatusOK, restored)
	case http.MethodDelete:
		a.store.ClearLastDeleted()
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (a *API) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, StateResponse{
		Phase:   a.store.Phase().String(),
		Loading: a.store.Loading(),
		Error:   a.store.Err(),
	})
}

// Package dashboard implements the web endpoints backing the metrics view of the task board.
package dashboard

import (
	"net/http"
	"time"

	"github.com/nadmax/taskboard/internal/derived"
	"github.com/nadmax/taskboard/internal/httputil"
	"github.com/nadmax/taskboard/internal/store"
	"github.com/nadmax/taskboard/internal/task"
)

type Dashboard struct {
	store *store.TaskStore
}

type Stats struct {
	TotalTasks      int             `json:"total_tasks"`
	TodoTasks       int             `json:"todo_tasks"`
	InProgressTasks int             `json:"in_progress_tasks"`
	DoneTasks       int             `json:"done_tasks"`
	TasksByPriority map[string]int  `json:"tasks_by_priority"`
	Summary         derived.Summary `json:"summary"`
	LastUpdated     time.Time       `json:"last_updated"`
}

func NewDashboard(s *store.TaskStore) *Dashboard {
	return &Dashboard{store: s}
}

// GetView serves the derived sorted view of the current collection.
func (d *Dashboard) GetView(w http.ResponseWriter, r *http.Request) {
	view := derived.View(d.store.Tasks())

	httputil.WriteJSON(w, http.StatusOK, view)
}

// GetSummary serves status/priority counts plus the aggregate metrics
// summary over the current collection.
func (d *Dashboard) GetSummary(w http.ResponseWriter, r *http.Request) {
	tasks := d.store.Tasks()

	stats := Stats{
		TotalTasks:      len(tasks),
		TasksByPriority: make(map[string]int),
		Summary:         derived.Summarize(tasks),
		LastUpdated:     time.Now(),
	}

	for _, t := range tasks {
		switch t.Status {
		case task.StatusTodo:
			stats.TodoTasks++
		case task.StatusInProgress:
			stats.InProgressTasks++
		case task.StatusDone:
			stats.DoneTasks++
		}

		stats.TasksByPriority[string(t.Priority)]++
	}

	httputil.WriteJSON(w, http.StatusOK, stats)
}

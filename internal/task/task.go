// Package task defines the core task record model shared by the store, loader,
// and dashboard layers. It contains status and priority vocabularies, creation
// defaults, and serialization helpers.
package task

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type (
	TaskStatus   string
	TaskPriority string
	Task         struct {
		ID          string       `json:"id"`
		Title       string       `json:"title"`
		Revenue     float64      `json:"revenue"`
		TimeTaken   float64      `json:"time_taken"`
		Priority    TaskPriority `json:"priority"`
		Status      TaskStatus   `json:"status"`
		Notes       string       `json:"notes,omitempty"`
		CreatedAt   time.Time    `json:"created_at"`
		CompletedAt *time.Time   `json:"completed_at,omitempty"`
	}
)

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func NewTask(title string, revenue, timeTaken float64, priority TaskPriority, status TaskStatus, notes string) *Task {
	now := time.Now()
	t := &Task{
		ID:        uuid.New().String(),
		Title:     title,
		Revenue:   revenue,
		TimeTaken: ClampTimeTaken(timeTaken),
		Priority:  priority,
		Status:    status,
		Notes:     notes,
		CreatedAt: now,
	}

	if status == StatusDone {
		completedAt := now
		t.CompletedAt = &completedAt
	}

	return t
}

// ClampTimeTaken enforces the timeTaken > 0 invariant; zero and negative
// inputs become 1.
func ClampTimeTaken(v float64) float64 {
	if v <= 0 {
		return 1
	}

	return v
}

func (t *Task) Clone() *Task {
	clone := *t
	if t.CompletedAt != nil {
		completedAt := *t.CompletedAt
		clone.CompletedAt = &completedAt
	}

	return &clone
}

func (t *Task) ToJSON() (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", err
	}

	return string(data), err
}

func TaskFromJSON(data string) (*Task, error) {
	var t Task
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return nil, err
	}

	return &t, nil
}

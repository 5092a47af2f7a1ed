// Package store owns the canonical task collection, the one-slot undo buffer,
// and the load lifecycle. Every mutation recomputes its result from the
// collection state at apply time, under the store lock, so overlapping callers
// can never act on a stale snapshot.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nadmax/taskboard/internal/task"
)

type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CreateInput carries every task field except timestamps; ID is optional.
type CreateInput struct {
	ID        string
	Title     string
	Revenue   float64
	TimeTaken float64
	Priority  task.TaskPriority
	Status    task.TaskStatus
	Notes     string
}

// Patch is a partial update; nil fields leave the record untouched.
type Patch struct {
	Title       *string
	Revenue     *float64
	TimeTaken   *float64
	Priority    *task.TaskPriority
	Status      *task.TaskStatus
	Notes       *string
	CompletedAt *time.Time
}

type TaskStore struct {
	mu          sync.Mutex
	tasks       []*task.Task
	lastDeleted *task.Task
	phase       Phase
	loadErr     string
}

func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make([]*task.Task, 0),
		phase: PhaseNotStarted,
	}
}

// Create appends a new task built from in. A missing or already-taken id is
// replaced with a fresh one rather than rejected; duplicate ids never enter
// the collection.
func (s *TaskStore) Create(in CreateInput) *task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := in.ID
	for id == "" || s.indexOf(id) >= 0 {
		id = uuid.New().String()
	}

	now := time.Now()
	t := &task.Task{
		ID:        id,
		Title:     in.Title,
		Revenue:   in.Revenue,
		TimeTaken: task.ClampTimeTaken(in.TimeTaken),
		Priority:  in.Priority,
		Status:    in.Status,
		Notes:     in.Notes,
		CreatedAt: now,
	}
	if t.Status == task.StatusDone {
		completedAt := now
		t.CompletedAt = &completedAt
	}

	s.tasks = append(s.tasks, t)

	return t.Clone()
}

// Update merges p onto the task matching id and returns the updated record,
// or nil when id is unknown (a no-op, not an error). A transition into Done
// stamps CompletedAt unless the patch supplied one or the record already had
// one; CompletedAt is never cleared by a later status change.
func (s *TaskStore) Update(id string, p Patch) *task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}

	t := s.tasks[i]
	prevStatus := t.Status

	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Revenue != nil {
		t.Revenue = *p.Revenue
	}
	if p.TimeTaken != nil {
		t.TimeTaken = *p.TimeTaken
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.CompletedAt != nil {
		completedAt := *p.CompletedAt
		t.CompletedAt = &completedAt
	}

	if t.Status == task.StatusDone && prevStatus != task.StatusDone && t.CompletedAt == nil {
		now := time.Now()
		t.CompletedAt = &now
	}

	t.TimeTaken = task.ClampTimeTaken(t.TimeTaken)

	return t.Clone()
}

// Delete removes the task matching id and moves it into the undo slot,
// overwriting whatever the slot held. Unknown ids are a no-op.
func (s *TaskStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}

	s.lastDeleted = s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
}

// UndoDelete re-appends the undo slot content verbatim and empties the slot.
// Creation defaults are not re-run; the record returns with its original id
// and timestamps. Returns nil when the slot is empty.
func (s *TaskStore) UndoDelete() *task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastDeleted == nil {
		return nil
	}

	restored := s.lastDeleted
	s.lastDeleted = nil
	s.tasks = append(s.tasks, restored)

	return restored.Clone()
}

// ClearLastDeleted empties the undo slot without restoring.
func (s *TaskStore) ClearLastDeleted() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastDeleted = nil
}

// DedupKeepFirst drops every task whose id duplicates an earlier one,
// keeping the first occurrence. Applying it any number of times converges to
// the same collection. Returns the number of records removed.
func (s *TaskStore) DedupKeepFirst() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(s.tasks))
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		kept = append(kept, t)
	}

	removed := len(s.tasks) - len(kept)
	s.tasks = kept

	return removed
}

// BeginLoad transitions NotStarted -> Loading and reports whether the caller
// won the transition. Re-entrant initialization attempts get false.
func (s *TaskStore) BeginLoad() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseNotStarted {
		return false
	}
	s.phase = PhaseLoading

	return true
}

// Install replaces the entire collection with tasks and ends the loading
// phase successfully.
func (s *TaskStore) Install(tasks []*task.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make([]*task.Task, len(tasks))
	copy(s.tasks, tasks)
	s.phase = PhaseLoaded
	s.loadErr = ""
}

// Fail ends the loading phase with a user-visible error; the collection is
// left unpopulated.
func (s *TaskStore) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.phase = PhaseFailed
	s.loadErr = err.Error()
}

// Tasks returns a copied snapshot of the collection in insertion order.
func (s *TaskStore) Tasks() []*task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]*task.Task, len(s.tasks))
	for i, t := range s.tasks {
		snapshot[i] = t.Clone()
	}

	return snapshot
}

func (s *TaskStore) LastDeleted() *task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastDeleted == nil {
		return nil
	}

	return s.lastDeleted.Clone()
}

func (s *TaskStore) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.phase
}

// Loading reports whether the primary load has not yet completed. It flips to
// false exactly once, when Install or Fail runs.
func (s *TaskStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.phase == PhaseNotStarted || s.phase == PhaseLoading
}

// Err returns the load error message, or "" when the load did not fail.
func (s *TaskStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadErr
}

func (s *TaskStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.tasks)
}

// indexOf must be called with the lock held.
func (s *TaskStore) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}

	return -1
}

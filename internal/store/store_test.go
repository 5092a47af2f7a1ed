package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nadmax/taskboard/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestCreate_GeneratesID(t *testing.T) {
	s := NewTaskStore()

	created := s.Create(CreateInput{Title: "No id supplied", TimeTaken: 2})

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1, s.Len())
}

func TestCreate_DuplicateIDGetsFreshOne(t *testing.T) {
	s := NewTaskStore()

	first := s.Create(CreateInput{ID: "x", Title: "First", TimeTaken: 1})
	second := s.Create(CreateInput{ID: "x", Title: "Second", TimeTaken: 1})

	assert.Equal(t, "x", first.ID)
	assert.NotEqual(t, "x", second.ID)
	assert.Equal(t, 2, s.Len())

	ids := make(map[string]int)
	for _, tsk := range s.Tasks() {
		ids[tsk.ID]++
	}
	for id, count := range ids {
		assert.Equal(t, 1, count, "id %s appears %d times", id, count)
	}
}

func TestCreate_ClampsTimeTaken(t *testing.T) {
	s := NewTaskStore()

	created := s.Create(CreateInput{Title: "Zero time", TimeTaken: 0})

	assert.Equal(t, 1.0, created.TimeTaken)
}

func TestCreate_DoneSetsCompletedAt(t *testing.T) {
	s := NewTaskStore()

	created := s.Create(CreateInput{Title: "Already done", TimeTaken: 1, Status: task.StatusDone})

	require.NotNil(t, created.CompletedAt)
	assert.Equal(t, created.CreatedAt, *created.CompletedAt)
}

func TestCreate_NotDoneLeavesCompletedAtUnset(t *testing.T) {
	s := NewTaskStore()

	created := s.Create(CreateInput{Title: "In flight", TimeTaken: 1, Status: task.StatusInProgress})

	assert.Nil(t, created.CompletedAt)
}

// Mixed create sequence: A(id omitted, timeTaken=0), B(id="x"), C(id="x").
func TestCreate_Scenario(t *testing.T) {
	s := NewTaskStore()

	a := s.Create(CreateInput{Title: "A", TimeTaken: 0})
	b := s.Create(CreateInput{ID: "x", Title: "B", TimeTaken: 1})
	c := s.Create(CreateInput{ID: "x", Title: "C", TimeTaken: 1})

	assert.Equal(t, 1.0, a.TimeTaken)
	assert.Equal(t, "x", b.ID)
	assert.NotEqual(t, "x", c.ID)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, 3, s.Len())
}

func TestUpdate_UnknownIDIsNoOp(t *testing.T) {
	s := NewTaskStore()
	s.Create(CreateInput{ID: "x", Title: "Only task", TimeTaken: 1})

	updated := s.Update("missing", Patch{Title: ptr("Changed")})

	assert.Nil(t, updated)
	assert.Equal(t, "Only task", s.Tasks()[0].Title)
}

func TestUpdate_MergesOnlyPatchedFields(t *testing.T) {
	s := NewTaskStore()
	s.Create(CreateInput{
		ID:        "x",
		Title:     "Original",
		Revenue:   100,
		TimeTaken: 2,
		Priority:  task.PriorityLow,
		Status:    task.StatusTodo,
		Notes:     "keep me",
	})

	updated := s.Update("x", Patch{
		Title:   ptr("Patched"),
		Revenue: ptr(250.0),
	})

	require.NotNil(t, updated)
	assert.Equal(t, "Patched", updated.Title)
	assert.Equal(t, 250.0, updated.Revenue)
	assert.Equal(t, 2.0, updated.TimeTaken)
	assert.Equal(t, task.PriorityLow, updated.Priority)
	assert.Equal(t, task.StatusTodo, updated.Status)
	assert.Equal(t, "keep me", updated.Notes)
}

// InProgress -> Done stamps a CompletedAt newer than CreatedAt.
func TestUpdate_TransitionToDoneSetsCompletedAt(t *testing.T) {
	s := NewTaskStore()
	created := s.Create(CreateInput{ID: "x", Title: "WIP", TimeTaken: 1, Status: task.StatusInProgress})

	time.Sleep(5 * time.Millisecond)
	updated := s.Update("x", Patch{Status: ptr(task.StatusDone)})

	require.NotNil(t, updated)
	assert.Equal(t, task.StatusDone, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	assert.True(t, updated.CompletedAt.After(created.CreatedAt))
}

func TestUpdate_DoneAgainKeepsCompletedAt(t *testing.T) {
	s := NewTaskStore()
	s.Create(CreateInput{ID: "x", Title: "WIP", TimeTaken: 1, Status: task.StatusInProgress})

	first := s.Update("x", Patch{Status: ptr(task.StatusDone)})
	require.NotNil(t, first.CompletedAt)

	second := s.Update("x", Patch{Status: ptr(task.StatusDone)})

	require.NotNil(t, second.CompletedAt)
	assert.True(t, first.CompletedAt.Equal(*second.CompletedAt))
}

func TestUpdate_PatchSuppliedCompletedAtWins(t *testing.T) {
	s := NewTaskStore()
	s.Create(CreateInput{ID: "x", Title: "WIP", TimeTaken: 1, Status: task.StatusInProgress})

	supplied := time.Now().Add(-time.Hour)
	updated := s.Update("x", Patch{
		Status:      ptr(task.StatusDone),
		CompletedAt: &supplied,
	})

	require.NotNil(t, updated.CompletedAt)
	assert.True(t, supplied.Equal(*updated.CompletedAt))
}

func TestUpdate_LeavingDoneKeepsCompletedAt(t *testing.T) {
	s := NewTaskStore()
	s.Create(CreateInput{ID: "x", Title: "Done", TimeTaken: 1, Status: task.StatusDone})

	updated := s.Update("x", Patch{Status: ptr(task.StatusInProgress)})

	assert.Equal(t, task.StatusInProgress, updated.Status)
	assert.NotNil(t, updated.CompletedAt)
}

func TestUpdate_ClampsTimeTaken(t *testing.T) {
	tests := []struct {
		name     string
		patch    Patch
		expected float64
	}{
		{
			name:     "negative patched value becomes one",
			patch:    Patch{TimeTaken: ptr(-5.0)},
			expected: 1,
		},
		{
			name:     "zero patched value becomes one",
			patch:    Patch{TimeTaken: ptr(0.0)},
			expected: 1,
		},
		{
			name:     "positive patched value kept",
			patch:    Patch{TimeTaken: ptr(4.0)},
			expected: 4,
		},
		{
			name:     "omitted value keeps prior",
			patch:    Patch{Title: ptr("renamed")},
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewTaskStore()
			s.Create(CreateInput{ID: "x", Title: "Task", TimeTaken: 2})

			updated := s.Update("x", tt.patch)

			require.NotNil(t, updated)
			assert.Equal(t, tt.expected, updated.TimeTaken)
		})
	}
}

func TestDelete_MovesIntoUndoSlot(t *testing.T) {
	s := NewTaskStore()
	s.Create(CreateInput{ID: "x", Title: "Doomed", TimeTaken: 1})

	s.Delete("x")

	assert.Equal(t, 0, s.Len())
	last := s.LastDeleted()
	require.NotNil(t, last)
	assert.Equal(t, "x", last.ID)
}

func TestDelete_UnknownIDIsNoOp(t *testing.T) {
	s := NewTaskStore()
	s.Create(CreateInput{ID: "x", Title: "Task", TimeTaken: 1})

	s.Delete("missing")

	assert.Equal(t, 1, s.Len())
	assert.Nil(t, s.LastDeleted())
}

func TestDelete_SecondDeleteOverwritesSlot(t *testing.T) {
	s := NewTaskStore()
	s.Create(CreateInput{ID: "a", Title: "First", TimeTaken: 1})
	s.Create(CreateInput{ID: "b", Title: "Second", TimeTaken: 1})

	s.Delete("a")
	s.Delete("b")

	last := s.LastDeleted()
	require.NotNil(t, last)
	assert.Equal(t, "b", last.ID)

	// "a" is permanently unrecoverable: the only undo brings back "b".
	restored := s.UndoDelete()
	assert.Equal(t, "b", restored.ID)
	assert.Nil(t, s.UndoDelete())
	for _, tsk := range s.Tasks() {
		assert.NotEqual(t, "a", tsk.ID)
	}
}

func TestUndoDelete_RestoresVerbatim(t *testing.T) {
	s := NewTaskStore()
	created := s.Create(CreateInput{ID: "x", Title: "Round trip", TimeTaken: 3, Status: task.StatusDone})

	s.Delete("x")
	restored := s.UndoDelete()

	require.NotNil(t, restored)
	assert.Equal(t, created.ID, restored.ID)
	assert.Equal(t, created.Title, restored.Title)
	assert.Equal(t, created.TimeTaken, restored.TimeTaken)
	assert.True(t, created.CreatedAt.Equal(restored.CreatedAt))
	require.NotNil(t, restored.CompletedAt)
	assert.True(t, created.CompletedAt.Equal(*restored.CompletedAt))
	assert.Nil(t, s.LastDeleted())
}

func TestUndoDelete_AppendsToEnd(t *testing.T) {
	s := NewTaskStore()
	s.Create(CreateInput{ID: "a", Title: "A", TimeTaken: 1})
	s.Create(CreateInput{ID: "b", Title: "B", TimeTaken: 1})
	s.Create(CreateInput{ID: "c", Title: "C", TimeTaken: 1})

	s.Delete("a")
	s.UndoDelete()

	tasks := s.Tasks()
	require.Len(t, tasks, 3)
	assert.Equal(t, "a", tasks[2].ID)
}

// Delete then undo twice; the record must be present exactly once.
func TestUndoDelete_TwiceIsNoOp(t *testing.T) {
	s := NewTaskStore()
	s.Create(CreateInput{ID: "a", Title: "A", TimeTaken: 1})

	s.Delete("a")
	first := s.UndoDelete()
	second := s.UndoDelete()

	require.NotNil(t, first)
	assert.Nil(t, second)

	count := 0
	for _, tsk := range s.Tasks() {
		if tsk.ID == "a" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestUndoDelete_EmptyBufferIsNoOp(t *testing.T) {
	s := NewTaskStore()
	s.Create(CreateInput{ID: "a", Title: "A", TimeTaken: 1})

	assert.Nil(t, s.UndoDelete())
	assert.Equal(t, 1, s.Len())
}

func TestClearLastDeleted(t *testing.T) {
	s := NewTaskStore()
	s.Create(CreateInput{ID: "a", Title: "A", TimeTaken: 1})

	s.Delete("a")
	s.ClearLastDeleted()

	assert.Nil(t, s.LastDeleted())
	assert.Nil(t, s.UndoDelete())
	assert.Equal(t, 0, s.Len())
}

func TestDedupKeepFirst(t *testing.T) {
	s := NewTaskStore()
	s.Install([]*task.Task{
		{ID: "a", Title: "A first"},
		{ID: "b", Title: "B"},
		{ID: "a", Title: "A duplicate"},
		{ID: "c", Title: "C"},
		{ID: "b", Title: "B duplicate"},
	})

	removed := s.DedupKeepFirst()

	assert.Equal(t, 2, removed)
	tasks := s.Tasks()
	require.Len(t, tasks, 3)
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, "A first", tasks[0].Title)
	assert.Equal(t, "b", tasks[1].ID)
	assert.Equal(t, "c", tasks[2].ID)
}

func TestDedupKeepFirst_Idempotent(t *testing.T) {
	s := NewTaskStore()
	s.Install([]*task.Task{
		{ID: "a"},
		{ID: "a"},
		{ID: "b"},
	})

	first := s.DedupKeepFirst()
	assert.Equal(t, 1, first)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 0, s.DedupKeepFirst())
	}
	assert.Equal(t, 2, s.Len())
}

func TestDedupKeepFirst_NeverRemovesUniqueIDs(t *testing.T) {
	s := NewTaskStore()
	s.Install([]*task.Task{
		{ID: "a"},
		{ID: "b"},
		{ID: "c"},
	})

	assert.Equal(t, 0, s.DedupKeepFirst())
	assert.Equal(t, 3, s.Len())
}

func TestBeginLoad_WinsOnce(t *testing.T) {
	s := NewTaskStore()

	assert.Equal(t, PhaseNotStarted, s.Phase())
	assert.True(t, s.BeginLoad())
	assert.Equal(t, PhaseLoading, s.Phase())
	assert.False(t, s.BeginLoad())
}

func TestInstall_ReplacesCollectionAndEndsLoading(t *testing.T) {
	s := NewTaskStore()
	s.Create(CreateInput{ID: "stale", Title: "Pre-load leftover", TimeTaken: 1})
	require.True(t, s.BeginLoad())
	assert.True(t, s.Loading())

	s.Install([]*task.Task{{ID: "a"}, {ID: "b"}})

	assert.False(t, s.Loading())
	assert.Equal(t, PhaseLoaded, s.Phase())
	assert.Empty(t, s.Err())

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID)
}

func TestFail_SurfacesErrorAndEndsLoading(t *testing.T) {
	s := NewTaskStore()
	require.True(t, s.BeginLoad())

	s.Fail(errors.New("record source returned status 503"))

	assert.False(t, s.Loading())
	assert.Equal(t, PhaseFailed, s.Phase())
	assert.Equal(t, "record source returned status 503", s.Err())
	assert.Equal(t, 0, s.Len())
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		name     string
		phase    Phase
		expected string
	}{
		{
			name:     "not started",
			phase:    PhaseNotStarted,
			expected: "not_started",
		},
		{
			name:     "loading",
			phase:    PhaseLoading,
			expected: "loading",
		},
		{
			name:     "loaded",
			phase:    PhaseLoaded,
			expected: "loaded",
		},
		{
			name:     "failed",
			phase:    PhaseFailed,
			expected: "failed",
		},
		{
			name:     "unknown value",
			phase:    Phase(42),
			expected: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.phase.String())
		})
	}
}

func TestTasks_ReturnsIndependentSnapshot(t *testing.T) {
	s := NewTaskStore()
	s.Create(CreateInput{ID: "x", Title: "Original", TimeTaken: 1})

	snapshot := s.Tasks()
	snapshot[0].Title = "Mutated copy"

	assert.Equal(t, "Original", s.Tasks()[0].Title)
}

func TestConcurrentMutations_NoLostUpdates(t *testing.T) {
	s := NewTaskStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Create(CreateInput{ID: fmt.Sprintf("task-%d", n), TimeTaken: 1})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
	assert.Equal(t, 0, s.DedupKeepFirst())
}

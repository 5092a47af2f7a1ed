package loader

import (
	"time"

	"github.com/google/uuid"
	"github.com/nadmax/taskboard/internal/task"
)

// PlaceholderCount is the size of the synthetic set installed when the
// record source yields nothing usable.
const PlaceholderCount = 8

var placeholderSeeds = []struct {
	title     string
	revenue   float64
	timeTaken float64
	priority  task.TaskPriority
	status    task.TaskStatus
}{
	{"Client onboarding call", 450, 1.5, task.PriorityHigh, task.StatusDone},
	{"Quarterly invoice run", 1200, 3, task.PriorityMedium, task.StatusDone},
	{"Landing page copy refresh", 300, 2, task.PriorityLow, task.StatusInProgress},
	{"Migrate analytics dashboard", 2500, 8, task.PriorityHigh, task.StatusInProgress},
	{"Monthly bookkeeping", 600, 4, task.PriorityMedium, task.StatusTodo},
	{"Partner outreach emails", 150, 1, task.PriorityLow, task.StatusTodo},
	{"Renew SSL certificates", 80, 0.5, task.PriorityMedium, task.StatusDone},
	{"Prepare board deck", 900, 6, task.PriorityHigh, task.StatusTodo},
}

// Generate produces count synthetic placeholder tasks. Timestamps are
// staggered backward one day per record so the set sorts the same way a
// normalized seed would.
func Generate(count int) []*task.Task {
	now := time.Now()
	tasks := make([]*task.Task, 0, count)

	for i := 0; i < count; i++ {
		seed := placeholderSeeds[i%len(placeholderSeeds)]
		t := &task.Task{
			ID:        uuid.New().String(),
			Title:     seed.title,
			Revenue:   seed.revenue,
			TimeTaken: seed.timeTaken,
			Priority:  seed.priority,
			Status:    seed.status,
			Notes:     "Generated placeholder",
			CreatedAt: now.AddDate(0, 0, -(i + 1)),
		}
		if t.Status == task.StatusDone {
			completedAt := t.CreatedAt.AddDate(0, 0, 1)
			t.CompletedAt = &completedAt
		}
		tasks = append(tasks, t)
	}

	return tasks
}

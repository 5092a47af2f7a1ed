package loader

import (
	"strconv"
	"time"

	"github.com/nadmax/taskboard/internal/task"
)

// Normalize converts raw seed entries into well-formed tasks. Entries that
// are not record-shaped are skipped. Records without a createdAt get a
// synthetic timestamp offset backward from now by (index+1) days, so records
// lacking timestamps keep a stable relative order.
func Normalize(raw []any) []*task.Task {
	now := time.Now()
	tasks := make([]*task.Task, 0, len(raw))

	for i, entry := range raw {
		rec, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		t := &task.Task{
			ID:        stringField(rec, "id"),
			Title:     stringField(rec, "title"),
			Revenue:   numberField(rec, "revenue"),
			TimeTaken: task.ClampTimeTaken(numberField(rec, "time_taken", "timeTaken")),
			Priority:  task.TaskPriority(stringField(rec, "priority")),
			Status:    task.TaskStatus(stringField(rec, "status")),
			Notes:     stringField(rec, "notes"),
		}

		createdAt, ok := timeField(rec, "created_at", "createdAt")
		if !ok {
			createdAt = now.AddDate(0, 0, -(i + 1))
		}
		t.CreatedAt = createdAt

		if completedAt, ok := timeField(rec, "completed_at", "completedAt"); ok {
			t.CompletedAt = &completedAt
		} else if t.Status == task.StatusDone {
			completedAt := createdAt.AddDate(0, 0, 1)
			t.CompletedAt = &completedAt
		}

		tasks = append(tasks, t)
	}

	return tasks
}

// Seed documents come from both the old dashboard (camelCase) and this
// service's own serialization (snake_case), so lookups accept either key.
func stringField(rec map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := rec[key].(string); ok {
			return v
		}
	}

	return ""
}

func numberField(rec map[string]any, keys ...string) float64 {
	for _, key := range keys {
		switch v := rec[key].(type) {
		case float64:
			return v
		case string:
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				return parsed
			}
		}
	}

	return 0
}

func timeField(rec map[string]any, keys ...string) (time.Time, bool) {
	for _, key := range keys {
		v, ok := rec[key].(string)
		if !ok {
			continue
		}
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}

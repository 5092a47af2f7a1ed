package main

import (
	"context"
	"time"

	"github.com/nadmax/taskboard/internal/metrics"
	"github.com/nadmax/taskboard/internal/store"
	"github.com/nadmax/taskboard/internal/task"
)

func startMetricsCollector(ctx context.Context, s *store.TaskStore) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateStoreMetrics(s)
		}
	}
}

func updateStoreMetrics(s *store.TaskStore) {
	tasks := s.Tasks()

	counts := make(map[task.TaskStatus]int)
	for _, t := range tasks {
		counts[t.Status]++
	}

	metrics.UpdateStatusGauges(counts)
	metrics.UpdateCollectionSize(len(tasks))
	metrics.UpdateUndoSlot(s.LastDeleted() != nil)
}

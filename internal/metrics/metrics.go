// Package metrics provides Prometheus metrics for monitoring the task board.
package metrics

import (
	"time"

	"github.com/nadmax/taskboard/internal/task"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TasksCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_tasks_created_total",
			Help: "Total number of tasks created",
		},
		[]string{"priority"},
	)
	TasksUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "taskboard_tasks_updated_total",
			Help: "Total number of task patches applied",
		},
	)
	TasksDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "taskboard_tasks_deleted_total",
			Help: "Total number of tasks deleted",
		},
	)
	TasksRestored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "taskboard_tasks_restored_total",
			Help: "Total number of tasks restored via undo",
		},
	)
	DedupRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "taskboard_dedup_removed_total",
			Help: "Total number of duplicate tasks removed by the refresh pass",
		},
	)
	Loads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_loads_total",
			Help: "Total number of load attempts by path and outcome",
		},
		[]string{"path", "outcome"},
	)
	LoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskboard_load_duration_seconds",
			Help:    "Load attempt duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"path"},
	)
	CollectionSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "taskboard_collection_size",
			Help: "Current number of tasks in the collection",
		},
	)
	TasksByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "taskboard_tasks_by_status",
			Help: "Current number of tasks by status",
		},
		[]string{"status"},
	)
	UndoSlotOccupied = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "taskboard_undo_slot_occupied",
			Help: "Whether the undo slot currently holds a deleted task",
		},
	)
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskboard_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

func RecordTaskCreated(priority task.TaskPriority) {
	TasksCreated.WithLabelValues(string(priority)).Inc()
}

func RecordTaskUpdated() {
	TasksUpdated.Inc()
}

func RecordTaskDeleted() {
	TasksDeleted.Inc()
}

func RecordTaskRestored() {
	TasksRestored.Inc()
}

func RecordDedupRemoved(count int) {
	DedupRemoved.Add(float64(count))
}

func RecordLoad(path, outcome string, duration time.Duration) {
	Loads.WithLabelValues(path, outcome).Inc()
	LoadDuration.WithLabelValues(path).Observe(duration.Seconds())
}

func UpdateCollectionSize(size int) {
	CollectionSize.Set(float64(size))
}

func UpdateStatusGauges(counts map[task.TaskStatus]int) {
	TasksByStatus.Reset()
	for status, count := range counts {
		TasksByStatus.WithLabelValues(string(status)).Set(float64(count))
	}
}

func UpdateUndoSlot(occupied bool) {
	if occupied {
		UndoSlotOccupied.Set(1)
	} else {
		UndoSlotOccupied.Set(0)
	}
}

func RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

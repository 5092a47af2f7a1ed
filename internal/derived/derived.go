// Package derived computes display metrics over task snapshots. Every
// function here is pure: inputs are never mutated and sorting works on a
// copy, so the store's collection is never reordered as a side effect.
package derived

import (
	"sort"

	"github.com/nadmax/taskboard/internal/task"
)

// Record is a task augmented with computed metrics for display and sorting.
type Record struct {
	task.Task
	ROI float64 `json:"roi"`
}

type Summary struct {
	TotalRevenue   float64 `json:"total_revenue"`
	TotalTime      float64 `json:"total_time"`
	TimeEfficiency float64 `json:"time_efficiency"`
	RevenuePerHour float64 `json:"revenue_per_hour"`
	AverageROI     float64 `json:"average_roi"`
	Grade          string  `json:"grade"`
}

func Enrich(t *task.Task) Record {
	return Record{
		Task: *t,
		ROI:  roi(t),
	}
}

// View enriches and sorts a snapshot for display: descending ROI, ties broken
// by id so the order is total.
func View(tasks []*task.Task) []Record {
	records := make([]Record, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, Enrich(t))
	}

	return SortByROI(records)
}

func SortByROI(records []Record) []Record {
	sorted := make([]Record, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ROI != sorted[j].ROI {
			return sorted[i].ROI > sorted[j].ROI
		}
		return sorted[i].ID < sorted[j].ID
	})

	return sorted
}

// Summarize aggregates the whole snapshot. TimeEfficiency is the percentage
// of tracked time spent on done tasks.
func Summarize(tasks []*task.Task) Summary {
	var summary Summary
	var doneTime float64

	for _, t := range tasks {
		summary.TotalRevenue += t.Revenue
		summary.TotalTime += t.TimeTaken
		summary.AverageROI += roi(t)
		if t.Status == task.StatusDone {
			doneTime += t.TimeTaken
		}
	}

	if summary.TotalTime > 0 {
		summary.TimeEfficiency = doneTime / summary.TotalTime * 100
		summary.RevenuePerHour = summary.TotalRevenue / summary.TotalTime
	}
	if len(tasks) > 0 {
		summary.AverageROI /= float64(len(tasks))
	}
	summary.Grade = gradeFor(summary.AverageROI)

	return summary
}

func roi(t *task.Task) float64 {
	if t.TimeTaken <= 0 {
		return 0
	}

	return t.Revenue / t.TimeTaken
}

func gradeFor(averageROI float64) string {
	switch {
	case averageROI >= 300:
		return "S"
	case averageROI >= 150:
		return "A"
	case averageROI >= 50:
		return "B"
	default:
		return "C"
	}
}

// Package loader populates the task store from the record source at startup.
// Two independent attempts run: the initial load installs the collection
// exactly once, and a refresh load fires shortly after as a defensive pass
// that only deduplicates what is already there.
package loader

import (
	"context"
	"log"
	"time"

	"github.com/nadmax/taskboard/internal/metrics"
	"github.com/nadmax/taskboard/internal/source"
	"github.com/nadmax/taskboard/internal/store"
)

type Loader struct {
	source source.Source
	store  *store.TaskStore
}

func New(src source.Source, st *store.TaskStore) *Loader {
	return &Loader{
		source: src,
		store:  st,
	}
}

// Start kicks off the initial load immediately and the refresh load after
// refreshAfter. Both stop mutating state once ctx is canceled.
func (l *Loader) Start(ctx context.Context, refreshAfter time.Duration) {
	go l.InitialLoad(ctx)
	go func() {
		select {
		case <-time.After(refreshAfter):
			l.RefreshLoad(ctx)
		case <-ctx.Done():
		}
	}()
}

// InitialLoad fetches, normalizes, and installs the collection. The store's
// phase machine makes it run at most once; losing callers return without
// touching anything. A fetch that yields zero usable records installs the
// generated placeholder set instead. A canceled ctx discards the fetch
// result without mutating state.
func (l *Loader) InitialLoad(ctx context.Context) {
	if !l.store.BeginLoad() {
		log.Printf("Initial load already started, skipping duplicate attempt")
		return
	}

	start := time.Now()
	raw, err := l.source.Fetch(ctx)

	if ctx.Err() != nil {
		log.Printf("Initial load canceled, discarding result")
		return
	}

	if err != nil {
		log.Printf("Initial load failed: %v", err)
		l.store.Fail(err)
		metrics.RecordLoad("initial", "failed", time.Since(start))
		return
	}

	tasks := Normalize(raw)
	if len(tasks) == 0 {
		log.Printf("Record source yielded no usable records, generating %d placeholders", PlaceholderCount)
		tasks = Generate(PlaceholderCount)
	}

	l.store.Install(tasks)
	metrics.RecordLoad("initial", "ok", time.Since(start))
	log.Printf("Installed %d tasks in %s", len(tasks), time.Since(start).Round(time.Millisecond))
}

// RefreshLoad is the secondary attempt. It fetches the source again but
// deliberately discards the data: the refresh exists to guard against
// duplicate ids left by overlapping initialization paths, not to merge fresh
// records. Fetch failures are silently ignored; a canceled ctx suppresses
// the dedup write.
func (l *Loader) RefreshLoad(ctx context.Context) {
	start := time.Now()
	if _, err := l.source.Fetch(ctx); err != nil {
		log.Printf("Refresh load failed, ignoring: %v", err)
		metrics.RecordLoad("refresh", "failed", time.Since(start))
		return
	}

	if ctx.Err() != nil {
		log.Printf("Refresh load canceled, discarding result")
		return
	}

	removed := l.store.DedupKeepFirst()
	if removed > 0 {
		log.Printf("Refresh pass removed %d duplicate tasks", removed)
		metrics.RecordDedupRemoved(removed)
	}
	metrics.RecordLoad("refresh", "ok", time.Since(start))
}

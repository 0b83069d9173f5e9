// Package aggregate drives one end-to-end aggregation run: fan out to
// every source, merge the results into the persisted category sets,
// and rewrite all artifacts.
package aggregate

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"listkeeper/pkg/category"
	"listkeeper/pkg/source"
	"listkeeper/pkg/store"
)

const defaultConcurrency = 4

// Runner wires source output into the store.
type Runner struct {
	sources     []source.Source
	store       *store.Store
	concurrency int
	log         *slog.Logger
}

// Summary reports the outcome of a run.
type Summary struct {
	Contributing []string
	Skipped      []string
	Counts       map[category.Category]int
	WriteErrors  map[category.Category]error
}

// Failed reports whether the run produced no artifact at all. Skipped
// sources never fail a run; only losing every category write does.
func (s Summary) Failed() bool {
	return len(s.WriteErrors) == len(category.All())
}

// New creates a Runner over the given sources and store.
func New(sources []source.Source, st *store.Store, concurrency int, log *slog.Logger) *Runner {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{sources: sources, store: st, concurrency: concurrency, log: log}
}

// Run executes a single aggregation pass. Source failures are isolated
// and recorded as skipped; categories are merged single-threaded after
// all fetches have returned, then every category is rewritten, even
// ones no source touched, so existing artifacts get a fresh header
// while keeping their content.
func (r *Runner) Run(ctx context.Context) Summary {
	sets := make(map[category.Category]store.Set, len(category.All()))
	for _, cat := range category.All() {
		sets[cat] = r.store.Load(cat)
	}

	results := make([]source.Result, len(r.sources))
	errs := make([]error, len(r.sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, src := range r.sources {
		i, src := i, src
		g.Go(func() error {
			r.log.Debug("fetching source", "source", src.Name())
			results[i], errs[i] = src.Fetch(gctx)
			return nil
		})
	}
	_ = g.Wait()

	summary := Summary{
		Counts:      make(map[category.Category]int),
		WriteErrors: make(map[category.Category]error),
	}

	for i, src := range r.sources {
		if errs[i] != nil {
			r.log.Warn("source contributed nothing", "source", src.Name(), "error", errs[i])
			summary.Skipped = append(summary.Skipped, src.Name())
			continue
		}

		contributed := false
		for cat, raw := range results[i] {
			if !cat.Known() {
				r.log.Debug("dropping unknown category", "source", src.Name(), "category", string(cat))
				continue
			}
			if len(raw) == 0 {
				continue
			}
			store.Merge(sets[cat], raw)
			contributed = true
			r.log.Info("merged source output", "source", src.Name(), "category", string(cat), "entries", len(raw))
		}

		if contributed {
			summary.Contributing = append(summary.Contributing, src.Name())
		} else {
			summary.Skipped = append(summary.Skipped, src.Name())
		}
	}

	for _, cat := range category.All() {
		if err := r.store.Write(cat, sets[cat], summary.Contributing); err != nil {
			r.log.Error("failed to write artifact", "category", string(cat), "error", err)
			summary.WriteErrors[cat] = err
			continue
		}
		summary.Counts[cat] = len(sets[cat])
		r.log.Info("wrote artifact", "category", string(cat), "file", cat.Filename(), "entries", len(sets[cat]))
	}

	return summary
}

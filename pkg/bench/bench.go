// Package bench times repeated enumerations of a tree.
//
// A benchmark prepares the layout once and then runs it Reps times, each
// run from fresh walk state and with a sink that discards every ideal.
// The [Report] carries the best and average duration per run, the same
// two figures per ideal in nanoseconds, and the worker results of the
// last run for the parallel engine.
package bench

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/treeideals/pkg/enumerate"
	apperrors "github.com/matzehuels/treeideals/pkg/errors"
	"github.com/matzehuels/treeideals/pkg/forest"
	"github.com/matzehuels/treeideals/pkg/ideal"
	"github.com/matzehuels/treeideals/pkg/partition"
)

// Options configure a benchmark.
type Options struct {
	Reps    int
	Workers int
	// Sample names the tree in the report. Empty for trees from files.
	Sample string
	// OnRep is called after every run with its 1-based number. Optional.
	OnRep func(rep int, d time.Duration)
}

// Report is the outcome of one benchmark.
type Report struct {
	RunID        string             `json:"run_id"`
	Engine       enumerate.Engine   `json:"engine"`
	Sample       string             `json:"sample,omitempty"`
	Nodes        int                `json:"nodes"`
	Ideals       uint64             `json:"ideals"`
	Reps         int                `json:"reps"`
	Workers      int                `json:"workers,omitempty"`
	Started      time.Time          `json:"started"`
	Total        time.Duration      `json:"total"`
	Best         time.Duration      `json:"best"`
	Avg          time.Duration      `json:"avg"`
	BestPerIdeal float64            `json:"best_ns_per_ideal"`
	AvgPerIdeal  float64            `json:"avg_ns_per_ideal"`
	WorkerStats  []partition.Result `json:"worker_stats,omitempty"`
}

// Run benchmarks engine on t. Every run must visit exactly
// t.CountSubtrees() ideals; a mismatch is reported as an internal error.
func Run(ctx context.Context, engine enumerate.Engine, t forest.Tree, opts Options) (*Report, error) {
	if opts.Reps < 1 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "reps must be at least 1, got %d", opts.Reps)
	}
	p, err := enumerate.Prepare(engine, t, enumerate.Options{Workers: opts.Workers})
	if err != nil {
		return nil, err
	}
	want := t.CountSubtrees()

	r := &Report{
		RunID:   uuid.NewString(),
		Engine:  engine,
		Sample:  opts.Sample,
		Nodes:   t.Len(),
		Ideals:  want,
		Reps:    opts.Reps,
		Workers: len(p.Plan()),
		Started: time.Now(),
	}
	for rep := 1; rep <= opts.Reps; rep++ {
		stats, err := p.Run(ctx, enumerate.Shared(ideal.Discard))
		if err != nil {
			return nil, err
		}
		if stats.Ideals != want {
			return nil, apperrors.New(apperrors.ErrCodeInternal,
				"%s visited %d ideals, want %d", engine, stats.Ideals, want)
		}
		r.Total += stats.Duration
		if rep == 1 || stats.Duration < r.Best {
			r.Best = stats.Duration
		}
		r.WorkerStats = stats.Workers
		if opts.OnRep != nil {
			opts.OnRep(rep, stats.Duration)
		}
	}
	r.Avg = r.Total / time.Duration(r.Reps)
	if want > 0 {
		r.BestPerIdeal = float64(r.Best.Nanoseconds()) / float64(want)
		r.AvgPerIdeal = float64(r.Avg.Nanoseconds()) / float64(want)
	}
	return r, nil
}

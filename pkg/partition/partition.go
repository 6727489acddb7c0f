// Package partition splits a Pop-Jump-Push enumeration into independent
// pieces and runs them in parallel.
//
// # Prefixes
//
// The first n pre-order positions form a small tree of their own. Its
// ideals, the prefixes, decide which of those n nodes are in or out. Every
// ideal of the whole tree extends exactly one prefix, so one worker per
// prefix covers the tree without overlap. [Prefixes] grows n until the next
// step would produce more prefixes than allowed workers.
//
// # Worker Bounds
//
// A worker starts its stack at the prefix followed by every position from
// StopValue to the end. The nodes of [n, StopValue) lie inside subtrees of
// prefix nodes that are switched off, so they can never be active. The walk
// then runs like the single-threaded one until the entry at StopIndex drops
// below StopValue, at which point only the prefix itself is left; it is
// visited once more and the worker ends.
//
// # Concurrency
//
// [Run] forks one goroutine per worker and joins them with an errgroup.
// Workers share the layout read-only and own their stack. Each worker gets
// its own sink from a factory, so sinks need no locking unless they
// deliberately share a writer.
package partition

import (
	"context"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/treeideals/pkg/ideal"
	"github.com/matzehuels/treeideals/pkg/popjumppush"
)

// MaxWorkers is the upper bound on the number of workers a plan uses.
const MaxWorkers = 16

// Cap returns the number of prefixes a tree of n nodes may be split into
// when workers are requested: min(MaxWorkers, n/2, workers), at least 1.
func Cap(n, workers int) int {
	return max(1, min(MaxWorkers, n/2, workers))
}

// Prefixes returns the prefix ideals used to split the tree described by
// jump among at most Cap(len(jump), workers) workers.
func Prefixes(jump []int, workers int) [][]int {
	limit := Cap(len(jump), workers)
	var prefixes [][]int
	for n := 1; n <= limit && n <= len(jump); n++ {
		next := popjumppush.Ideals(n, jump)
		if len(next) > limit {
			break
		}
		prefixes = next
	}
	return prefixes
}

// Worker is the static description of one piece of a partitioned
// enumeration.
type Worker struct {
	ID        int   `json:"id"`
	Prefix    []int `json:"prefix"`
	StopIndex int   `json:"stop_index"`
	StopValue int   `json:"stop_value"`
	Start     []int `json:"start"`
}

// Plan splits the tree described by jump among at most
// Cap(len(jump), workers) workers.
func Plan(jump []int, workers int) []Worker {
	prefixes := Prefixes(jump, workers)
	if len(prefixes) == 0 {
		return nil
	}
	n := len(jump)
	hard := prefixes[0][len(prefixes[0])-1] + 1

	plan := make([]Worker, len(prefixes))
	for id, prefix := range prefixes {
		stop := hard
		for d := range hard {
			if !slices.Contains(prefix, d) {
				stop = max(stop, jump[d])
			}
		}
		start := slices.Clone(prefix)
		for j := stop; j < n; j++ {
			start = append(start, j)
		}
		plan[id] = Worker{
			ID:        id,
			Prefix:    slices.Clone(prefix),
			StopIndex: len(prefix),
			StopValue: stop,
			Start:     start,
		}
	}
	return plan
}

// Enumerate runs w's share of the walk over layout, passing every ideal
// to sink, and returns the number of ideals visited. It stops early when
// sink returns false.
func (w Worker) Enumerate(layout *popjumppush.Layout, sink ideal.Sink) uint64 {
	jump := slices.Clone(layout.Jump())
	labels := slices.Clone(layout.Labels())
	n := len(jump)
	stack := slices.Clone(w.Start)

	var visited uint64
	for len(stack) > w.StopIndex && stack[w.StopIndex] >= w.StopValue {
		visited++
		if !sink.Visit(ideal.SequenceView(stack, labels, w.ID)) {
			return visited
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for j := jump[top]; j < n; j++ {
			stack = append(stack, j)
		}
	}
	visited++
	sink.Visit(ideal.SequenceView(stack, labels, w.ID))
	return visited
}

// Result is what a worker reports after it joins.
type Result struct {
	Worker   int           `json:"worker"`
	Ideals   uint64        `json:"ideals"`
	Duration time.Duration `json:"duration"`
}

// Run executes plan over layout with one goroutine per worker. sinkFor is
// called once per worker, before its goroutine starts, and must return a
// sink that worker may use without synchronisation. Results are sorted by
// worker id.
//
// ctx is only checked before a worker starts; a worker that is running
// completes its share.
func Run(ctx context.Context, layout *popjumppush.Layout, plan []Worker, sinkFor func(worker int) ideal.Sink) ([]Result, error) {
	results := make([]Result, len(plan))
	g, ctx := errgroup.WithContext(ctx)
	for i, w := range plan {
		sink := sinkFor(w.ID)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			n := w.Enumerate(layout, sink)
			results[i] = Result{Worker: w.ID, Ideals: n, Duration: time.Since(start)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.SortFunc(results, func(a, b Result) int { return a.Worker - b.Worker })
	return results, nil
}

// Total sums the ideals visited by all workers.
func Total(results []Result) uint64 {
	var n uint64
	for _, r := range results {
		n += r.Ideals
	}
	return n
}

// Package enumerate selects and runs an enumeration engine.
//
// It is the one place that knows all engines. Callers prepare a tree once
// with [Prepare] and run it as often as they like; every run starts from
// fresh walk state.
//
//	p, err := enumerate.Prepare(enumerate.KodaRuskey, tree, enumerate.Options{})
//	if err != nil {
//	    return err
//	}
//	stats, err := p.Run(ctx, func(int) ideal.Sink { return ideal.NewWriter(os.Stdout, ideal.ModeLabels) })
package enumerate

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/matzehuels/treeideals/pkg/errors"
	"github.com/matzehuels/treeideals/pkg/forest"
	"github.com/matzehuels/treeideals/pkg/ideal"
	"github.com/matzehuels/treeideals/pkg/kodaruskey"
	"github.com/matzehuels/treeideals/pkg/observability"
	"github.com/matzehuels/treeideals/pkg/partition"
	"github.com/matzehuels/treeideals/pkg/popjumppush"
)

// Engine names an enumeration engine.
type Engine string

const (
	// KodaRuskey walks the ideals as a Gray code over a post-order layout.
	KodaRuskey Engine = "koda-ruskey"
	// PopJumpPush walks the ideals with a stack over a pre-order layout.
	PopJumpPush Engine = "pop-jump-push"
	// Parallel splits the Pop-Jump-Push walk across workers.
	Parallel Engine = "pop-jump-push-par"
)

// Engines returns every engine in a fixed order.
func Engines() []Engine {
	return []Engine{KodaRuskey, PopJumpPush, Parallel}
}

// ParseEngine returns the Engine named s. "kr" and "pjp" are accepted as
// short forms.
func ParseEngine(s string) (Engine, error) {
	switch strings.ToLower(s) {
	case "koda-ruskey", "kr":
		return KodaRuskey, nil
	case "pop-jump-push", "pjp":
		return PopJumpPush, nil
	case "pop-jump-push-par", "pjp-par", "parallel":
		return Parallel, nil
	}
	names := make([]string, 0, 3)
	for _, e := range Engines() {
		names = append(names, string(e))
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidEngine,
		"unknown engine %q (want one of %s)", s, strings.Join(names, ", "))
}

// Options tune a prepared run.
type Options struct {
	// Workers is the requested worker count for the parallel engine. The
	// plan may use fewer; see partition.Cap. Ignored by the other engines.
	Workers int
}

// Prepared is a tree laid out for one engine.
type Prepared struct {
	engine Engine
	nodes  int
	kr     *kodaruskey.Layout
	pjp    *popjumppush.Layout
	plan   []partition.Worker
}

// Prepare lays out t for engine.
func Prepare(engine Engine, t forest.Tree, opts Options) (*Prepared, error) {
	p := &Prepared{engine: engine, nodes: t.Len()}
	var err error
	switch engine {
	case KodaRuskey:
		p.kr, err = kodaruskey.Prepare(t)
	case PopJumpPush:
		p.pjp, err = popjumppush.Prepare(t)
	case Parallel:
		p.pjp, err = popjumppush.Prepare(t)
		if err == nil {
			p.plan = partition.Plan(p.pjp.Jump(), max(1, opts.Workers))
		}
	default:
		_, err = ParseEngine(string(engine))
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Engine returns the engine p was prepared for.
func (p *Prepared) Engine() Engine { return p.engine }

// Nodes returns the number of nodes in the tree.
func (p *Prepared) Nodes() int { return p.nodes }

// Plan returns the worker plan of a parallel run, nil otherwise.
func (p *Prepared) Plan() []partition.Worker { return p.plan }

// KodaRuskey returns the Koda–Ruskey layout, or nil.
func (p *Prepared) KodaRuskey() *kodaruskey.Layout { return p.kr }

// PopJumpPush returns the Pop-Jump-Push layout, or nil.
func (p *Prepared) PopJumpPush() *popjumppush.Layout { return p.pjp }

// Labels returns the node labels in the engine's position order.
func (p *Prepared) Labels() []int {
	if p.kr != nil {
		return p.kr.Labels()
	}
	return p.pjp.Labels()
}

// Stats summarises one run.
type Stats struct {
	Engine   Engine             `json:"engine"`
	Nodes    int                `json:"nodes"`
	Ideals   uint64             `json:"ideals"`
	Duration time.Duration      `json:"duration"`
	Workers  []partition.Result `json:"workers,omitempty"`
}

// Run enumerates every ideal once. sinkFor is called with worker id 0 for
// the single-threaded engines and once per worker for the parallel one.
func (p *Prepared) Run(ctx context.Context, sinkFor func(worker int) ideal.Sink) (*Stats, error) {
	hooks := observability.Enumeration()
	hooks.OnEnumerationStart(ctx, string(p.engine), p.nodes)
	if err := ctx.Err(); err != nil {
		hooks.OnEnumerationComplete(ctx, string(p.engine), 0, 0, err)
		return nil, err
	}

	stats := &Stats{Engine: p.engine, Nodes: p.nodes}
	start := time.Now()
	switch p.engine {
	case KodaRuskey:
		stats.Ideals = p.kr.NewWalk().Enumerate(sinkFor(0))
	case PopJumpPush:
		stats.Ideals = p.pjp.NewWalk().Enumerate(sinkFor(0))
	case Parallel:
		results, err := partition.Run(ctx, p.pjp, p.plan, sinkFor)
		if err != nil {
			hooks.OnEnumerationComplete(ctx, string(p.engine), 0, time.Since(start), err)
			return nil, err
		}
		for _, r := range results {
			hooks.OnWorkerComplete(ctx, string(p.engine), r.Worker, r.Ideals, r.Duration)
		}
		stats.Workers = results
		stats.Ideals = partition.Total(results)
	}
	stats.Duration = time.Since(start)
	hooks.OnEnumerationComplete(ctx, string(p.engine), stats.Ideals, stats.Duration, nil)
	return stats, nil
}

// Run prepares t for engine and enumerates it once.
func Run(ctx context.Context, engine Engine, t forest.Tree, opts Options, sinkFor func(worker int) ideal.Sink) (*Stats, error) {
	p, err := Prepare(engine, t, opts)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, sinkFor)
}

// Shared returns a sink factory that hands the same sink to every worker.
// The sink must be safe for concurrent use when the engine is parallel.
func Shared(s ideal.Sink) func(int) ideal.Sink {
	return func(int) ideal.Sink { return s }
}

package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/treeideals/pkg/cache"
	"github.com/matzehuels/treeideals/pkg/enumerate"
	"github.com/matzehuels/treeideals/pkg/forest"
	"github.com/matzehuels/treeideals/pkg/observability"
)

// Store keeps reports in a cache, keyed by tree content and the options
// that shape the run.
type Store struct {
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// NewStore returns a Store over c. A nil keyer selects the default one.
func NewStore(c cache.Cache, keyer cache.Keyer) *Store {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Store{cache: c, keyer: keyer, ttl: cache.TTLReport}
}

// SetTTL changes how long saved reports live. Non-positive values keep
// the current TTL.
func (s *Store) SetTTL(d time.Duration) {
	if d > 0 {
		s.ttl = d
	}
}

func (s *Store) key(t forest.Tree, engine enumerate.Engine, workers, reps int) (string, error) {
	h, err := cache.HashJSON(t)
	if err != nil {
		return "", fmt.Errorf("hash tree: %w", err)
	}
	return s.keyer.ReportKey(h, cache.ReportKeyOpts{Engine: string(engine), Workers: workers, Reps: reps}), nil
}

// Load returns the cached report for the given run shape, or nil on a
// miss.
func (s *Store) Load(ctx context.Context, t forest.Tree, engine enumerate.Engine, workers, reps int) (*Report, error) {
	key, err := s.key(t, engine, workers, reps)
	if err != nil {
		return nil, err
	}
	var data []byte
	var hit bool
	err = cache.RetryWithBackoff(ctx, func() error {
		var err error
		data, hit, err = s.cache.Get(ctx, key)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "report")
		return nil, nil
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		observability.Cache().OnCacheMiss(ctx, "report")
		return nil, nil
	}
	observability.Cache().OnCacheHit(ctx, "report")
	return &r, nil
}

// Save caches r for t. workers is the requested worker count, which may
// differ from r.Workers.
func (s *Store) Save(ctx context.Context, t forest.Tree, workers int, r *Report) error {
	key, err := s.key(t, r.Engine, workers, r.Reps)
	if err != nil {
		return err
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		return s.cache.Set(ctx, key, data, s.ttl)
	})
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	observability.Cache().OnCacheSet(ctx, "report", len(data))
	return nil
}

// RunCached returns a cached report when one exists and runs and caches a
// new one otherwise. The second result reports whether the cache served
// the report.
func (s *Store) RunCached(ctx context.Context, engine enumerate.Engine, t forest.Tree, opts Options) (*Report, bool, error) {
	if r, err := s.Load(ctx, t, engine, opts.Workers, opts.Reps); err != nil {
		return nil, false, err
	} else if r != nil {
		return r, true, nil
	}
	r, err := Run(ctx, engine, t, opts)
	if err != nil {
		return nil, false, err
	}
	if err := s.Save(ctx, t, opts.Workers, r); err != nil {
		return nil, false, err
	}
	return r, false, nil
}

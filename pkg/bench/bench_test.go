package bench

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/treeideals/pkg/cache"
	"github.com/matzehuels/treeideals/pkg/enumerate"
	apperrors "github.com/matzehuels/treeideals/pkg/errors"
	"github.com/matzehuels/treeideals/pkg/samples"
)

func TestRun(t *testing.T) {
	tree := samples.MustGet("set_15B")
	for _, engine := range enumerate.Engines() {
		t.Run(string(engine), func(t *testing.T) {
			reps := 0
			r, err := Run(context.Background(), engine, tree, Options{
				Reps:    3,
				Workers: 4,
				Sample:  "set_15B",
				OnRep:   func(int, time.Duration) { reps++ },
			})
			if err != nil {
				t.Fatal(err)
			}
			if _, err := uuid.Parse(r.RunID); err != nil {
				t.Errorf("RunID %q: %v", r.RunID, err)
			}
			if r.Ideals != tree.CountSubtrees() || r.Nodes != 15 || r.Reps != 3 || reps != 3 {
				t.Errorf("report = %+v, OnRep calls = %d", r, reps)
			}
			if r.Best > r.Avg || r.Avg > r.Total {
				t.Errorf("best %v, avg %v, total %v out of order", r.Best, r.Avg, r.Total)
			}
			if r.BestPerIdeal > r.AvgPerIdeal {
				t.Errorf("per ideal: best %f > avg %f", r.BestPerIdeal, r.AvgPerIdeal)
			}
			if engine == enumerate.Parallel {
				if r.Workers == 0 || len(r.WorkerStats) != r.Workers {
					t.Errorf("workers = %d, stats = %d", r.Workers, len(r.WorkerStats))
				}
			} else if r.Workers != 0 || r.WorkerStats != nil {
				t.Errorf("single-threaded run reports workers: %+v", r.WorkerStats)
			}
		})
	}
}

func TestRunRejectsZeroReps(t *testing.T) {
	_, err := Run(context.Background(), enumerate.KodaRuskey, samples.MustGet("set_3W"), Options{})
	if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("Run() error = %v, want INVALID_INPUT", err)
	}
}

func TestRunDistinctIDs(t *testing.T) {
	tree := samples.MustGet("set_3W")
	a, _ := Run(context.Background(), enumerate.PopJumpPush, tree, Options{Reps: 1})
	b, _ := Run(context.Background(), enumerate.PopJumpPush, tree, Options{Reps: 1})
	if a.RunID == b.RunID {
		t.Error("two runs share a run id")
	}
}

func TestStoreRunCached(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := NewStore(fc, nil)
	tree := samples.MustGet("set_7Readme")
	opts := Options{Reps: 2, Workers: 2}

	first, hit, err := s.RunCached(ctx, enumerate.Parallel, tree, opts)
	if err != nil || hit {
		t.Fatalf("first RunCached() = %v, hit %t", err, hit)
	}
	second, hit, err := s.RunCached(ctx, enumerate.Parallel, tree, opts)
	if err != nil || !hit {
		t.Fatalf("second RunCached() = %v, hit %t", err, hit)
	}
	if second.RunID != first.RunID || second.Ideals != 30 {
		t.Errorf("cached report %+v differs from %+v", second, first)
	}

	other, hit, _ := s.RunCached(ctx, enumerate.KodaRuskey, tree, opts)
	if hit || other.RunID == first.RunID {
		t.Error("a different engine hit the same entry")
	}
}

func TestStoreNullCache(t *testing.T) {
	s := NewStore(cache.NewNullCache(), nil)
	r, err := s.Load(context.Background(), samples.MustGet("set_3W"), enumerate.KodaRuskey, 0, 1)
	if err != nil || r != nil {
		t.Errorf("Load() = %v, %v; want nil, nil", r, err)
	}
}

// ttlCache records the TTL of every Set.
type ttlCache struct {
	cache.NullCache
	ttls []time.Duration
}

func (c *ttlCache) Set(_ context.Context, _ string, _ []byte, ttl time.Duration) error {
	c.ttls = append(c.ttls, ttl)
	return nil
}

func TestStoreTTL(t *testing.T) {
	ctx := context.Background()
	tree := samples.MustGet("set_3W")
	tc := &ttlCache{}
	s := NewStore(tc, nil)

	if _, _, err := s.RunCached(ctx, enumerate.KodaRuskey, tree, Options{Reps: 1}); err != nil {
		t.Fatal(err)
	}
	s.SetTTL(0)
	s.SetTTL(time.Hour)
	if _, _, err := s.RunCached(ctx, enumerate.PopJumpPush, tree, Options{Reps: 1}); err != nil {
		t.Fatal(err)
	}
	if len(tc.ttls) != 2 || tc.ttls[0] != cache.TTLReport || tc.ttls[1] != time.Hour {
		t.Errorf("TTLs = %v, want [%v 1h0m0s]", tc.ttls, cache.TTLReport)
	}
}

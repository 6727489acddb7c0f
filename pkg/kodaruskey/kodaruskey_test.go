package kodaruskey

import (
	"fmt"
	"os"
	"slices"
	"testing"

	"github.com/matzehuels/treeideals/internal/idealtest"
	apperrors "github.com/matzehuels/treeideals/pkg/errors"
	"github.com/matzehuels/treeideals/pkg/forest"
	"github.com/matzehuels/treeideals/pkg/ideal"
	"github.com/matzehuels/treeideals/pkg/samples"
)

// maxVisits bounds the samples exhaustive tests walk through.
const maxVisits = 500_000

func mustPrepare(t *testing.T, tree forest.Tree) *Layout {
	t.Helper()
	l, err := Prepare(tree)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	return l
}

func TestPrepareLayout(t *testing.T) {
	l := mustPrepare(t, samples.MustGet("set_7Readme"))
	if l.N() != 7 {
		t.Fatalf("N() = %d", l.N())
	}
	if want := []int{5, 6, 2, 7, 3, 4, 1}; !slices.Equal(l.Labels(), want) {
		t.Errorf("Labels() = %v, want %v", l.Labels(), want)
	}
	if want := []forest.Index{7, 0, 0, 1, 0, 4, 0, 3}; !slices.Equal(l.LeftChild(), want) {
		t.Errorf("LeftChild() = %v, want %v", l.LeftChild(), want)
	}
	left, right := l.Fringe()
	if left[0] != 7 || right[0] != 7 || left[7] != 0 || right[7] != 0 {
		t.Errorf("fringe head = %d/%d, root = %d/%d", left[0], right[0], left[7], right[7])
	}
	// Siblings 2, 3 and 4 sit at indices 3, 5 and 6.
	if right[3] != 5 || right[5] != 6 || left[6] != 5 || left[5] != 3 {
		t.Errorf("sibling links left=%v right=%v", left, right)
	}
}

func TestPrepareErrors(t *testing.T) {
	if _, err := Prepare(forest.Tree{}); !apperrors.Is(err, apperrors.ErrCodeInvalidTree) {
		t.Errorf("Prepare(empty) error = %v, want INVALID_TREE", err)
	}
	broken := forest.Tree{Root: 1, Parents: []int{0, 1, 8}, Children: []int{1, 2, 3}}
	if _, err := Prepare(broken); !apperrors.Is(err, apperrors.ErrCodeLookupMiss) {
		t.Errorf("Prepare(broken) error = %v, want LOOKUP_MISS", err)
	}
	dropped := forest.Tree{Root: 1, Parents: []int{0, 1, 8, 3}, Children: []int{1, 2, 3, 4}}
	if _, err := Prepare(dropped); !apperrors.Is(err, apperrors.ErrCodeLookupMiss) {
		t.Errorf("Prepare(dropped subtree) error = %v, want LOOKUP_MISS", err)
	}
	cyclic := forest.Tree{Root: 1, Parents: []int{2, 1}, Children: []int{1, 2}}
	if _, err := Prepare(cyclic); !apperrors.Is(err, apperrors.ErrCodeInvalidTree) {
		t.Errorf("Prepare(cyclic) error = %v, want INVALID_TREE", err)
	}
}

func TestEnumerateMatchesBruteForce(t *testing.T) {
	for _, name := range samples.Names() {
		tree := samples.MustGet(name)
		if tree.Len() > 15 {
			continue
		}
		t.Run(name, func(t *testing.T) {
			rec := idealtest.NewRecorder()
			n := mustPrepare(t, tree).NewWalk().Enumerate(rec)

			want := idealtest.BruteForce(tree)
			if n != uint64(len(want)) {
				t.Errorf("visited %d ideals, want %d", n, len(want))
			}
			if len(rec.Duplicates) > 0 {
				t.Errorf("duplicates: %v", rec.Duplicates)
			}
			for k := range want {
				if !rec.Keys[k] {
					t.Errorf("missing ideal {%s}", k)
				}
			}
			for k := range rec.Keys {
				if !want[k] {
					t.Errorf("visited non-ideal {%s}", k)
				}
			}
		})
	}
}

func TestEnumerateCounts(t *testing.T) {
	for _, name := range samples.Names() {
		tree := samples.MustGet(name)
		want := tree.CountSubtrees()
		if want > maxVisits {
			continue
		}
		t.Run(name, func(t *testing.T) {
			if got := mustPrepare(t, tree).NewWalk().Enumerate(ideal.Discard); got != want {
				t.Errorf("Enumerate() = %d, want %d", got, want)
			}
		})
	}
}

func TestGrayCode(t *testing.T) {
	for _, name := range samples.Names() {
		tree := samples.MustGet(name)
		if tree.CountSubtrees() > maxVisits {
			continue
		}
		t.Run(name, func(t *testing.T) {
			var prev []uint8
			steps := 0
			mustPrepare(t, tree).NewWalk().Enumerate(ideal.SinkFunc(func(v ideal.View) bool {
				cur := v.Vector()
				if prev != nil {
					diff := 0
					for i := range cur {
						if cur[i] != prev[i] {
							diff++
						}
					}
					if diff != 1 {
						t.Fatalf("step %d changed %d nodes", steps, diff)
					}
				}
				prev = slices.Clone(cur)
				steps++
				return true
			}))
		})
	}
}

func TestStepReturnsToggledNode(t *testing.T) {
	w := mustPrepare(t, samples.MustGet("set_Ruskey")).NewWalk()
	prev := w.Vector()
	for {
		p, ok := w.Step()
		if !ok {
			break
		}
		cur := w.Vector()
		for i := range cur {
			changed := cur[i] != prev[i]
			if changed != (forest.Index(i+1) == p) {
				t.Fatalf("Step() = %d but position %d changed = %t", p, i, changed)
			}
		}
		prev = cur
	}
}

func TestCheckFringeEveryStep(t *testing.T) {
	for _, name := range samples.Names() {
		tree := samples.MustGet(name)
		if tree.Len() > 15 {
			continue
		}
		t.Run(name, func(t *testing.T) {
			w := mustPrepare(t, tree).NewWalk()
			if err := w.CheckFringe(); err != nil {
				t.Fatalf("initial: %v", err)
			}
			for step := 1; ; step++ {
				if _, ok := w.Step(); !ok {
					break
				}
				if err := w.CheckFringe(); err != nil {
					t.Fatalf("step %d: %v", step, err)
				}
			}
		})
	}
}

func TestStepAfterDone(t *testing.T) {
	w := mustPrepare(t, samples.MustGet("set_3D")).NewWalk()
	w.Enumerate(ideal.Discard)
	for range 3 {
		if p, ok := w.Step(); ok || p.Valid() {
			t.Fatalf("Step() = %d, %t after the walk finished", p, ok)
		}
	}
}

func TestEarlyStop(t *testing.T) {
	c := &ideal.Collector{Mode: ideal.ModeLabels, Limit: 5}
	n := mustPrepare(t, samples.MustGet("set_7Readme")).NewWalk().Enumerate(c)
	if n != 5 || len(c.Ideals) != 5 {
		t.Errorf("visited %d, collected %d, want 5", n, len(c.Ideals))
	}
}

func TestFreshWalksRepeat(t *testing.T) {
	l := mustPrepare(t, samples.MustGet("set_13M"))
	first, second := idealtest.NewRecorder(), idealtest.NewRecorder()
	l.NewWalk().Enumerate(first)
	l.NewWalk().Enumerate(second)
	if !slices.Equal(first.Order, second.Order) {
		t.Error("two walks over the same layout differ")
	}
}

func ExampleWalk_Enumerate() {
	tree, _ := forest.New(1, []int{0, 1, 2}, []int{1, 2, 3})
	layout, _ := Prepare(tree)
	n := layout.NewWalk().Enumerate(ideal.NewWriter(os.Stdout, ideal.ModeLabels))
	fmt.Println(n, "ideals")
	// Output:
	// [1]
	// [1 2]
	// [1 2 3]
	// 3 ideals
}

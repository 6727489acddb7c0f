package popjumppush

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

const maxVisits = 500_000

func TestJumpIndices(t *testing.T) {
	pre := samples.MustGet("set_7Readme").PreOrder()
	got, err := JumpIndices(pre.Parents, pre.Children)
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{7, 4, 3, 4, 6, 6, 7}; !slices.Equal(got, want) {
		t.Errorf("JumpIndices() = %v, want %v", got, want)
	}

	_, err = JumpIndices([]int{0, 5}, []int{1, 2})
	if !apperrors.Is(err, apperrors.ErrCodeLookupMiss) {
		t.Errorf("JumpIndices() error = %v, want LOOKUP_MISS", err)
	}
}

func TestPrepareErrors(t *testing.T) {
	tests := []struct {
		name string
		tree forest.Tree
		code apperrors.Code
	}{
		{"empty", forest.Tree{}, apperrors.ErrCodeInvalidTree},
		{"unknown parent", forest.Tree{Root: 1, Parents: []int{0, 1, 8, 3}, Children: []int{1, 2, 3, 4}}, apperrors.ErrCodeLookupMiss},
		{"unreachable node", forest.Tree{Root: 1, Parents: []int{0, 0}, Children: []int{1, 2}}, apperrors.ErrCodeLookupMiss},
		{"root under a child", forest.Tree{Root: 1, Parents: []int{2, 1}, Children: []int{1, 2}}, apperrors.ErrCodeInvalidTree},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Prepare(tt.tree); !apperrors.Is(err, tt.code) {
				t.Errorf("Prepare() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestJumpIndicesChain(t *testing.T) {
	pre := samples.MustGet("set_15D").PreOrder()
	got, _ := JumpIndices(pre.Parents, pre.Children)
	for i, j := range got {
		if j != 15 {
			t.Fatalf("jump[%d] = %d, want 15", i, j)
		}
	}
}

func TestPrepare(t *testing.T) {
	if _, err := Prepare(forest.Tree{}); !apperrors.Is(err, apperrors.ErrCodeInvalidTree) {
		t.Errorf("Prepare(empty) error = %v", err)
	}
	l, err := Prepare(samples.MustGet("set_7Readme"))
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{1, 2, 5, 6, 3, 7, 4}; !slices.Equal(l.Labels(), want) {
		t.Errorf("Labels() = %v, want %v", l.Labels(), want)
	}
}

func TestEnumerateMatchesBruteForce(t *testing.T) {
	for _, name := range samples.Names() {
		tree := samples.MustGet(name)
		if tree.Len() > 15 {
			continue
		}
		t.Run(name, func(t *testing.T) {
			l, err := Prepare(tree)
			if err != nil {
				t.Fatal(err)
			}
			rec := idealtest.NewRecorder()
			n := l.NewWalk().Enumerate(rec)

			want := idealtest.BruteForce(tree)
			if n != uint64(len(want)) || len(rec.Keys) != len(want) {
				t.Errorf("visited %d (%d distinct), want %d", n, len(rec.Keys), len(want))
			}
			if len(rec.Duplicates) > 0 {
				t.Errorf("duplicates: %v", rec.Duplicates)
			}
			for k := range want {
				if !rec.Keys[k] {
					t.Errorf("missing ideal {%s}", k)
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
			l, _ := Prepare(tree)
			if got := l.NewWalk().Enumerate(ideal.Discard); got != want {
				t.Errorf("Enumerate() = %d, want %d", got, want)
			}
		})
	}
}

func TestStackStaysAscending(t *testing.T) {
	l, _ := Prepare(samples.MustGet("set_13M"))
	l.NewWalk().Enumerate(ideal.SinkFunc(func(v ideal.View) bool {
		if !slices.IsSorted(v.Indices()) || v.Indices()[0] != 0 {
			t.Fatalf("stack %v is not an ascending list starting at the root", v.Indices())
		}
		return true
	}))
}

func TestArrangementKeepsSet(t *testing.T) {
	tree := samples.MustGet("set_Ruskey")
	want := idealtest.BruteForce(tree)
	for _, order := range []forest.SubtreeOrder{forest.LargestFirst, forest.SmallestFirst} {
		l, _ := Prepare(tree.ArrangeLargestSubtrees(order))
		rec := idealtest.NewRecorder()
		l.NewWalk().Enumerate(rec)
		if len(rec.Keys) != len(want) || len(rec.Duplicates) > 0 {
			t.Errorf("%s: %d distinct ideals, %d duplicates, want %d", order, len(rec.Keys), len(rec.Duplicates), len(want))
		}
	}
}

func TestIdeals(t *testing.T) {
	jump := []int{7, 4, 3, 4, 6, 6, 7}
	tests := []struct {
		n    int
		want [][]int
	}{
		{0, nil},
		{1, [][]int{{0}}},
		{2, [][]int{{0, 1}, {0}}},
		{3, [][]int{{0, 1, 2}, {0, 1}, {0}}},
		{4, [][]int{{0, 1, 2, 3}, {0, 1, 2}, {0, 1, 3}, {0, 1}, {0}}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.n), func(t *testing.T) {
			got := Ideals(tt.n, jump)
			if len(got) != len(tt.want) {
				t.Fatalf("Ideals() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if !slices.Equal(got[i], tt.want[i]) {
					t.Errorf("Ideals()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func ExampleWalk_Enumerate() {
	tree, _ := forest.New(1, []int{0, 1, 1}, []int{1, 2, 3})
	layout, _ := Prepare(tree)
	layout.NewWalk().Enumerate(ideal.NewWriter(os.Stdout, ideal.ModeIndices))
	// Output:
	// [0 1 2]
	// [0 1]
	// [0 2]
	// [0]
}

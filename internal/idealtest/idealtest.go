// Package idealtest provides reference results for testing the enumeration
// engines.
package idealtest

import (
	"github.com/matzehuels/treeideals/pkg/forest"
	"github.com/matzehuels/treeideals/pkg/ideal"
)

// MaxBruteForce is the largest tree BruteForce accepts.
const MaxBruteForce = 20

// BruteForce returns the canonical keys of every ideal of t that contains
// the root, found by testing all 2^N subsets. It panics on trees larger
// than MaxBruteForce.
func BruteForce(t forest.Tree) map[string]bool {
	n := t.Len()
	if n > MaxBruteForce {
		panic("idealtest: tree too large for brute force")
	}
	parents, err := t.ParentPositions()
	if err != nil {
		panic(err)
	}
	root := t.Positions()[t.Root]

	out := make(map[string]bool)
	for mask := 0; mask < 1<<n; mask++ {
		if mask&(1<<root) == 0 {
			continue
		}
		closed := true
		var labels []int
		for i := range n {
			if mask&(1<<i) == 0 {
				continue
			}
			if p := parents[i]; p >= 0 && mask&(1<<p) == 0 {
				closed = false
				break
			}
			labels = append(labels, t.Children[i])
		}
		if closed {
			out[ideal.Key(labels)] = true
		}
	}
	return out
}

// Recorder collects the label keys of every visited ideal and remembers
// duplicates.
type Recorder struct {
	Keys       map[string]bool
	Order      []string
	Duplicates []string
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{Keys: make(map[string]bool)}
}

// Visit records v.
func (r *Recorder) Visit(v ideal.View) bool {
	k := ideal.Key(v.Labels())
	if r.Keys[k] {
		r.Duplicates = append(r.Duplicates, k)
	}
	r.Keys[k] = true
	r.Order = append(r.Order, k)
	return true
}

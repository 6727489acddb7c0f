// Package samples holds the fixed table of named trees used for
// demonstrations, tests and benchmarks.
//
// Every sample is rooted at label 1 and labels its nodes 1..N, so each
// entry is fully described by its parent list. The suffixes describe the
// shape: B is a balanced binary tree, W a wide star, D a deep path.
package samples

import (
	"slices"

	apperrors "github.com/matzehuels/treeideals/pkg/errors"
	"github.com/matzehuels/treeideals/pkg/forest"
)

var parents = map[string][]int{
	"set_7Readme": {0, 1, 1, 1, 2, 2, 3},
	"set_Ruskey":  {0, 1, 2, 1, 4, 4, 6, 6},
	"set_13M":     {0, 1, 2, 3, 4, 5, 5, 1, 8, 9, 8, 11, 11},
	"set_3B":      {0, 1, 2},
	"set_3W":      {0, 1, 1},
	"set_3D":      {0, 1, 2},
	"set_7B":      {0, 1, 2, 2, 1, 5, 5},
	"set_7W":      {0, 1, 1, 1, 1, 1, 1},
	"set_7D":      {0, 1, 2, 3, 4, 5, 6},
	"set_15B":     {0, 1, 2, 3, 3, 2, 6, 6, 1, 9, 10, 10, 9, 13, 13},
	"set_15W":     wide(15),
	"set_15D":     deep(15),
	"set_31B": {
		0, 1, 2, 3, 4, 4, 3, 7, 7, 2, 10, 11, 11, 10, 14, 14,
		1, 17, 18, 19, 19, 18, 22, 22, 17, 25, 26, 26, 25, 29, 29,
	},
	"set_31W": wide(31),
	"set_53X": {
		0, 1, 2, 3, 4, 5, 5, 4, 8, 8, 3, 11, 12, 12, 11, 15, 15,
		2, 18, 19, 20, 20, 19, 23, 23, 18, 26, 27, 27, 26, 30, 30,
		1, 33, 34, 35, 36, 36, 35, 39, 39, 34, 42, 43, 43, 42, 46, 46,
		33, 49, 50, 51, 51,
	},
	"set_63B": heap(63),
}

func wide(n int) []int {
	p := make([]int, n)
	for i := 1; i < n; i++ {
		p[i] = 1
	}
	return p
}

func deep(n int) []int {
	p := make([]int, n)
	for i := 1; i < n; i++ {
		p[i] = i
	}
	return p
}

// heap lays out a complete binary tree: node k has parent k/2.
func heap(n int) []int {
	p := make([]int, n)
	for k := 2; k <= n; k++ {
		p[k-1] = k / 2
	}
	return p
}

// Names returns the sample names in sorted order.
func Names() []string {
	names := make([]string, 0, len(parents))
	for name := range parents {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Get returns the named sample. Unknown names yield a SAMPLE_NOT_FOUND
// error.
func Get(name string) (forest.Tree, error) {
	p, ok := parents[name]
	if !ok {
		return forest.Tree{}, apperrors.New(apperrors.ErrCodeSampleNotFound, "unknown sample %q", name)
	}
	children := make([]int, len(p))
	for i := range children {
		children[i] = i + 1
	}
	return forest.New(1, p, children)
}

// MustGet is like Get but panics on unknown names. It is meant for tests
// and package-level variables.
func MustGet(name string) forest.Tree {
	t, err := Get(name)
	if err != nil {
		panic(err)
	}
	return t
}

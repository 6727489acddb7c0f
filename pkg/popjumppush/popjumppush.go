// Package popjumppush enumerates the ideals of a rooted tree with a stack
// of active pre-order positions and a jump table.
//
// In pre-order every subtree occupies a contiguous range of positions.
// jump[i] is the first position after the subtree of i. The walk starts
// with every node active, then repeatedly visits the stack, pops the
// deepest active node t and pushes every position from jump[t] to the end.
// Each ideal that contains the root is produced exactly once.
//
// Unlike [kodaruskey], consecutive ideals may differ in many nodes. The
// walk is simpler and its state is a plain slice, which makes it easy to
// split across workers; see package partition.
//
// [kodaruskey]: github.com/matzehuels/treeideals/pkg/kodaruskey
package popjumppush

import (
	"slices"

	apperrors "github.com/matzehuels/treeideals/pkg/errors"
	"github.com/matzehuels/treeideals/pkg/forest"
	"github.com/matzehuels/treeideals/pkg/ideal"
)

// JumpIndices returns the jump table for a tree whose parents and children
// are already in pre-order: jump[i] is one past the last position of the
// subtree rooted at i.
func JumpIndices(parents, children []int) ([]int, error) {
	pre := forest.Tree{Parents: parents, Children: children}
	pp, err := pre.ParentPositions()
	if err != nil {
		return nil, err
	}
	return jumpTable(pp), nil
}

func jumpTable(parents []int) []int {
	end := make([]int, len(parents))
	for i := len(parents) - 1; i >= 0; i-- {
		end[i] = max(end[i], i+1)
		if p := parents[i]; p >= 0 {
			end[p] = max(end[p], end[i])
		}
	}
	return end
}

// Layout is the static part of the walk: the pre-order labels and the jump
// table. Walks share it read-only.
type Layout struct {
	labels []int
	jump   []int
}

// Prepare derives the pre-order layout of t. Trees that fail
// [forest.Tree.Validate] are rejected with its error.
func Prepare(t forest.Tree) (*Layout, error) {
	if t.Len() == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidTree, "tree has no nodes")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	pre := t.PreOrder()
	jump, err := JumpIndices(pre.Parents, pre.Children)
	if err != nil {
		return nil, err
	}
	return &Layout{labels: slices.Clone(pre.Children), jump: jump}, nil
}

// N returns the number of nodes.
func (l *Layout) N() int { return len(l.labels) }

// Labels returns the labels in pre-order. The slice must not be modified.
func (l *Layout) Labels() []int { return l.labels }

// Jump returns the jump table. The slice must not be modified.
func (l *Layout) Jump() []int { return l.jump }

// Walk is the mutable state of one enumeration. It runs once; call
// [Layout.NewWalk] for every run.
type Walk struct {
	layout *Layout
	stack  []int
}

// NewWalk returns a walk whose stack holds every position.
func (l *Layout) NewWalk() *Walk {
	stack := make([]int, len(l.labels))
	for i := range stack {
		stack[i] = i
	}
	return &Walk{layout: l, stack: stack}
}

// Enumerate runs the walk to the end, passing every ideal to sink, and
// returns the number of ideals visited. It stops early when sink returns
// false.
func (w *Walk) Enumerate(sink ideal.Sink) uint64 {
	var visited uint64
	n, jump, labels := len(w.layout.labels), w.layout.jump, w.layout.labels
	for len(w.stack) > 0 {
		visited++
		if !sink.Visit(ideal.SequenceView(w.stack, labels, 0)) {
			return visited
		}
		top := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]
		for j := jump[top]; j < n; j++ {
			w.stack = append(w.stack, j)
		}
	}
	return visited
}

// Ideals returns every ideal of the first n positions, in walk order, as
// ascending position lists. Subtrees are cut at n, so jump may be the
// table of a larger tree.
func Ideals(n int, jump []int) [][]int {
	if n <= 0 {
		return nil
	}
	var out [][]int
	stack := make([]int, n)
	for i := range stack {
		stack[i] = i
	}
	for len(stack) > 0 {
		out = append(out, slices.Clone(stack))
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for j := jump[top]; j < n; j++ {
			stack = append(stack, j)
		}
	}
	return out
}

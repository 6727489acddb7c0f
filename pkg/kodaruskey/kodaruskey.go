// Package kodaruskey enumerates the ideals of a rooted tree as a loopless
// Gray code, following the Koda–Ruskey construction in the formulation of
// Knuth's Algorithm K.
//
// Nodes are numbered 1..N in post-order, so the root is N and a node's
// rightmost child is always the node directly before it. The walk keeps a
// doubly linked "fringe" of nodes that may currently be toggled: the root
// and every child of an active node. Focus pointers pick the next node to
// toggle in O(1). Every step flips exactly one node, so consecutive ideals
// differ in a single element.
//
// The initial all-inactive state is not visited. The walk therefore
// produces exactly the [forest.Tree.CountSubtrees] ideals that contain the
// root.
//
//	layout, err := kodaruskey.Prepare(tree)
//	if err != nil {
//	    return err
//	}
//	n := layout.NewWalk().Enumerate(ideal.Discard)
package kodaruskey

import (
	"fmt"
	"slices"

	apperrors "github.com/matzehuels/treeideals/pkg/errors"
	"github.com/matzehuels/treeideals/pkg/forest"
	"github.com/matzehuels/treeideals/pkg/ideal"
)

// link is one fringe entry. Entry 0 is the list head.
type link struct {
	left, right forest.Index
}

// Layout is the static part of the walk, derived once per tree. Walks
// share it read-only.
type Layout struct {
	n         int
	labels    []int          // labels[i-1] is the label of index i
	parent    []forest.Index // parent[i], None for the root
	leftChild []forest.Index // leftChild[i], None for leaves; leftChild[0] is the root
	fringe    []link         // initial fringe and sibling links
}

// Prepare derives the post-order layout of t. Trees that fail
// [forest.Tree.Validate] are rejected with its error.
func Prepare(t forest.Tree) (*Layout, error) {
	if t.Len() == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidTree, "tree has no nodes")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	post := t.PostOrder()
	n := post.Len()
	parents, err := post.ParentPositions()
	if err != nil {
		return nil, err
	}

	l := &Layout{
		n:         n,
		labels:    slices.Clone(post.Children),
		parent:    make([]forest.Index, n+1),
		leftChild: make([]forest.Index, n+1),
		fringe:    make([]link, n+1),
	}

	// Children appear left to right in ascending post-order, so siblings
	// are linked in the order they are met.
	last := make([]forest.Index, n+1)
	for pos, pp := range parents {
		i := forest.Index(pos + 1)
		p := forest.None
		if pp >= 0 {
			p = forest.Index(pp + 1)
		}
		l.parent[i] = p
		if !l.leftChild[p].Valid() {
			l.leftChild[p] = i
		} else {
			prev := last[p]
			l.fringe[prev].right = i
			l.fringe[i].left = prev
		}
		last[p] = i
	}

	// The fringe starts as the list of roots hanging off the head.
	first, end := l.leftChild[0], last[0]
	l.fringe[0] = link{left: end, right: first}
	l.fringe[first].left = forest.None
	l.fringe[end].right = forest.None
	return l, nil
}

// N returns the number of nodes.
func (l *Layout) N() int { return l.n }

// Labels returns the labels in post-order. The slice must not be modified.
func (l *Layout) Labels() []int { return l.labels }

// LeftChild returns the leftmost-child table, indexed 0..N. Entry 0 is the
// root. The slice must not be modified.
func (l *Layout) LeftChild() []forest.Index { return l.leftChild }

// Fringe returns the initial left and right links, indexed 0..N.
func (l *Layout) Fringe() (left, right []forest.Index) {
	left = make([]forest.Index, len(l.fringe))
	right = make([]forest.Index, len(l.fringe))
	for i, f := range l.fringe {
		left[i], right[i] = f.left, f.right
	}
	return left, right
}

// Walk is the mutable state of one enumeration. A Walk is used by a single
// goroutine and runs once; call [Layout.NewWalk] for every run.
type Walk struct {
	layout *Layout
	active []uint8        // active[i] for i in 1..N; active[0] is unused
	focus  []forest.Index // focus pointers, initially focus[i] = i
	fringe []link
	done   bool
}

// NewWalk returns a walk positioned before the first ideal.
func (l *Layout) NewWalk() *Walk {
	w := &Walk{
		layout: l,
		active: make([]uint8, l.n+1),
		focus:  make([]forest.Index, l.n+1),
		fringe: slices.Clone(l.fringe),
	}
	for i := range w.focus {
		w.focus[i] = forest.Index(i)
	}
	return w
}

// Step toggles the next node and returns it. It returns false once every
// ideal has been produced; further calls keep returning false.
func (w *Walk) Step() (forest.Index, bool) {
	if w.done {
		return forest.None, false
	}
	a, f, fr, c := w.active, w.focus, w.fringe, w.layout.leftChild

	q := fr[0].left
	p := f[q]
	f[q] = q
	if !p.Valid() {
		w.done = true
		return forest.None, false
	}

	if a[p] == 0 {
		a[p] = 1
		if c[p].Valid() {
			// Splice p's children into the fringe after p.
			q = fr[p].right
			fr[q].left = p - 1
			fr[p-1].right = q
			fr[p].right = c[p]
			fr[c[p]].left = p
		}
	} else {
		a[p] = 0
		if c[p].Valid() {
			// Cut p's children back out.
			q = fr[p-1].right
			fr[p].right = q
			fr[q].left = p
		}
	}

	lp := fr[p].left
	f[p] = f[lp]
	f[lp] = lp
	return p, true
}

// Enumerate runs the walk to the end, passing every ideal to sink, and
// returns the number of ideals visited. It stops early when sink returns
// false.
func (w *Walk) Enumerate(sink ideal.Sink) uint64 {
	var visited uint64
	labels := w.layout.labels
	for {
		if _, ok := w.Step(); !ok {
			return visited
		}
		visited++
		if !sink.Visit(ideal.VectorView(w.active[1:], labels, 0)) {
			return visited
		}
	}
}

// Vector returns a copy of the current activation vector in post-order.
func (w *Walk) Vector() []uint8 {
	return slices.Clone(w.active[1:])
}

// CheckFringe verifies the linked fringe against the activation state: the
// list is consistent in both directions and holds exactly the roots and
// the children of active nodes, each once.
func (w *Walk) CheckFringe() error {
	fr := w.fringe
	seen := make([]bool, w.layout.n+1)
	steps, last := 0, forest.None
	for x := fr[0].right; x.Valid(); x = fr[x].right {
		if steps++; steps > w.layout.n {
			return fmt.Errorf("fringe does not return to the head")
		}
		if seen[x] {
			return fmt.Errorf("node %d appears twice in the fringe", x)
		}
		seen[x] = true
		last = x
		if fr[fr[x].left].right != x {
			return fmt.Errorf("broken link at node %d: left %d points right to %d", x, fr[x].left, fr[fr[x].left].right)
		}
	}
	if fr[0].left != last {
		return fmt.Errorf("head's left link is %d, want %d", fr[0].left, last)
	}

	for i := 1; i <= w.layout.n; i++ {
		p := w.layout.parent[i]
		want := !p.Valid() || w.active[p] == 1
		if seen[i] != want {
			return fmt.Errorf("node %d in fringe = %t, want %t", i, seen[i], want)
		}
		if w.active[i] == 1 && p.Valid() && w.active[p] == 0 {
			return fmt.Errorf("node %d active below inactive parent %d", i, p)
		}
	}
	return nil
}

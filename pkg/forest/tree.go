package forest

import (
	"errors"
	"slices"

	apperrors "github.com/matzehuels/treeideals/pkg/errors"
)

var (
	// ErrLengthMismatch is returned by [New] when parents and children
	// have different lengths.
	ErrLengthMismatch = errors.New("parents and children differ in length")

	// ErrZeroLabel is returned by [New] when a child label is 0. Label 0 is
	// reserved for "no parent".
	ErrZeroLabel = errors.New("label 0 is reserved")

	// ErrMissingRoot is returned by [New] when the root label does not
	// appear among the children.
	ErrMissingRoot = errors.New("root not among children")

	// ErrDuplicateLabel is returned by [New] when a label has more than one
	// entry.
	ErrDuplicateLabel = errors.New("label listed twice")

	// ErrRootHasParent is returned by [New] when the root's own entry names
	// a parent.
	ErrRootHasParent = errors.New("root has a parent")

	// ErrUnreachable is returned by [Tree.Validate] when some node cannot
	// be reached from the root.
	ErrUnreachable = errors.New("node not reachable from root")

	// ErrUnknownParent is returned when a parent label has no entry of its
	// own. It indicates a lookup miss during preprocessing.
	ErrUnknownParent = errors.New("parent not among children")

	// ErrNotIdeal is returned by [Tree.CheckIdeal] for a label set that is
	// not closed under taking parents.
	ErrNotIdeal = errors.New("not an ideal")
)

// Index is a dense 1-based node position inside a prepared layout.
type Index int

// None is the zero Index. It is never a real node and stands for a missing
// parent or child and for the head of the engines' linked lists.
const None Index = 0

// Valid reports whether i names a real node.
func (i Index) Valid() bool { return i != None }

// Tree is a rooted tree in parent/child form. Parents[i] is the label of
// Children[i]'s parent, 0 for the root.
//
// The zero value is an empty tree. Methods never modify the receiver's
// slices; rearrangements return new trees.
type Tree struct {
	Root     int
	Parents  []int
	Children []int
}

// New builds a Tree after checking its shape. The slices are copied.
func New(root int, parents, children []int) (Tree, error) {
	if err := checkShape(root, parents, children); err != nil {
		return Tree{}, err
	}
	return Tree{
		Root:     root,
		Parents:  slices.Clone(parents),
		Children: slices.Clone(children),
	}, nil
}

func checkShape(root int, parents, children []int) error {
	if len(parents) != len(children) {
		return apperrors.Wrap(apperrors.ErrCodeInvalidTree, ErrLengthMismatch,
			"%d parents, %d children", len(parents), len(children))
	}
	if len(children) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(children))
	rootAt := -1
	for i, label := range children {
		switch {
		case label == 0:
			return apperrors.Wrap(apperrors.ErrCodeInvalidTree, ErrZeroLabel, "child label 0")
		case seen[label]:
			return apperrors.Wrap(apperrors.ErrCodeInvalidTree, ErrDuplicateLabel, "label %d", label)
		}
		seen[label] = true
		if label == root {
			rootAt = i
		}
	}
	if rootAt < 0 {
		return apperrors.Wrap(apperrors.ErrCodeInvalidTree, ErrMissingRoot, "root %d", root)
	}
	if p := parents[rootAt]; p != 0 {
		return apperrors.Wrap(apperrors.ErrCodeInvalidTree, ErrRootHasParent, "root %d under %d", root, p)
	}
	return nil
}

// Validate checks that the engines can prepare t: the shape checks of
// [New], an entry for every parent label and every node reachable from
// the root. The last two fail as LOOKUP_MISS errors.
func (t Tree) Validate() error {
	if err := checkShape(t.Root, t.Parents, t.Children); err != nil {
		return err
	}
	if _, err := t.ParentPositions(); err != nil {
		return err
	}
	if n := len(t.postOrderLabels(t.Root, GroupIndicesByValue(t.Parents))); n < t.Len() {
		return apperrors.Wrap(apperrors.ErrCodeLookupMiss, ErrUnreachable,
			"%d of %d nodes below root %d", n, t.Len(), t.Root)
	}
	return nil
}

// Len returns the number of nodes.
func (t Tree) Len() int { return len(t.Children) }

// Clone returns a deep copy of t.
func (t Tree) Clone() Tree {
	return Tree{Root: t.Root, Parents: slices.Clone(t.Parents), Children: slices.Clone(t.Children)}
}

// Positions maps each label to its position in Children.
func (t Tree) Positions() map[int]int {
	pos := make(map[int]int, len(t.Children))
	for i, label := range t.Children {
		pos[label] = i
	}
	return pos
}

// ParentPositions returns, for every position, the position of its parent
// or -1 for the root. A parent label without an entry of its own yields
// ErrUnknownParent wrapped as a LOOKUP_MISS error.
func (t Tree) ParentPositions() ([]int, error) {
	pos := t.Positions()
	out := make([]int, len(t.Parents))
	for i, p := range t.Parents {
		if p == 0 {
			out[i] = -1
			continue
		}
		pp, ok := pos[p]
		if !ok {
			return nil, apperrors.Wrap(apperrors.ErrCodeLookupMiss, ErrUnknownParent,
				"parent %d of node %d", p, t.Children[i])
		}
		out[i] = pp
	}
	return out, nil
}

// CheckIdeal reports whether labels form a non-empty ideal of t: every
// label is a node and every node's parent is in the set. Unknown labels
// are INVALID_INPUT errors, a missing parent wraps ErrNotIdeal.
func (t Tree) CheckIdeal(labels []int) error {
	pos := t.Positions()
	set := make(map[int]bool, len(labels))
	for _, l := range labels {
		if _, ok := pos[l]; !ok {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "unknown node %d", l)
		}
		set[l] = true
	}
	if len(set) == 0 {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, ErrNotIdeal, "empty set")
	}
	for l := range set {
		if p := t.Parents[pos[l]]; p != 0 && !set[p] {
			return apperrors.Wrap(apperrors.ErrCodeInvalidInput, ErrNotIdeal,
				"node %d without its parent %d", l, p)
		}
	}
	return nil
}

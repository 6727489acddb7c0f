package forest

import (
	"cmp"
	"slices"
)

// SubtreeOrder selects how [Tree.ArrangeLargestSubtrees] sorts children.
type SubtreeOrder int

const (
	// LargestFirst puts the child with the most ideals leftmost.
	LargestFirst SubtreeOrder = iota
	// SmallestFirst puts the child with the fewest ideals leftmost.
	SmallestFirst
)

// String returns the flag spelling of o.
func (o SubtreeOrder) String() string {
	if o == SmallestFirst {
		return "smallest"
	}
	return "largest"
}

// ArrangeLargestSubtrees returns t in pre-order with every node's children
// sorted by [Tree.CountSubtreesAt]. Equal counts keep input order.
//
// The arrangement changes the order in which ideals are produced, never
// the set. Putting heavy subtrees at the front shifts work toward the tail
// of a pre-order, which changes how prefixes split it between workers.
func (t Tree) ArrangeLargestSubtrees(order SubtreeOrder) Tree {
	out := Tree{Root: t.Root, Parents: make([]int, 0, t.Len()), Children: make([]int, 0, t.Len())}
	if t.Len() == 0 {
		return out
	}
	groups := GroupIndicesByValue(t.Parents)
	counts := t.subtreeCounts(t.Root)

	stack := []frame{{label: t.Root}}
	for len(stack) > 0 && out.Len() < t.Len() {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out.Children = append(out.Children, top.label)
		out.Parents = append(out.Parents, top.parent)

		kids := slices.Clone(groups[top.label])
		slices.SortStableFunc(kids, func(a, b int) int {
			ca, cb := counts[t.Children[a]], counts[t.Children[b]]
			if order == SmallestFirst {
				return cmp.Compare(ca, cb)
			}
			return cmp.Compare(cb, ca)
		})
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{label: t.Children[kids[i]], parent: top.label})
		}
	}
	return out
}

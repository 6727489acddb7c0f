package forest

import "slices"

// GroupIndicesByValue maps every value to the positions where it occurs,
// in ascending position order. Looking up an absent value yields nil, which
// callers treat as an empty list.
func GroupIndicesByValue(values []int) map[int][]int {
	groups := make(map[int][]int)
	for i, v := range values {
		groups[v] = append(groups[v], i)
	}
	return groups
}

type frame struct {
	label  int
	parent int
}

// PreOrder returns t rearranged so that positions follow a pre-order
// traversal from the root. Children are visited in input order.
//
// Nodes the root does not reach are dropped. The traversal stops after
// t.Len() nodes, so trees that fail [Tree.Validate] still terminate.
func (t Tree) PreOrder() Tree {
	groups := GroupIndicesByValue(t.Parents)
	out := Tree{Root: t.Root, Parents: make([]int, 0, t.Len()), Children: make([]int, 0, t.Len())}
	if t.Len() == 0 {
		return out
	}

	stack := []frame{{label: t.Root}}
	for len(stack) > 0 && out.Len() < t.Len() {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out.Children = append(out.Children, top.label)
		out.Parents = append(out.Parents, top.parent)

		kids := groups[top.label]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{label: t.Children[kids[i]], parent: top.label})
		}
	}
	return out
}

// PostOrder returns t rearranged so that positions follow a post-order
// traversal: every node comes after all of its descendants, siblings keep
// input order, and the root is last. Like [Tree.PreOrder] it emits at most
// t.Len() nodes.
func (t Tree) PostOrder() Tree {
	groups := GroupIndicesByValue(t.Parents)
	out := Tree{Root: t.Root, Parents: make([]int, 0, t.Len()), Children: make([]int, 0, t.Len())}
	if t.Len() == 0 {
		return out
	}

	// Reverse pre-order with children pushed left to right is post-order
	// read backwards.
	stack := []frame{{label: t.Root}}
	for len(stack) > 0 && out.Len() < t.Len() {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out.Children = append(out.Children, top.label)
		out.Parents = append(out.Parents, top.parent)

		for _, k := range groups[top.label] {
			stack = append(stack, frame{label: t.Children[k], parent: top.label})
		}
	}
	slices.Reverse(out.Children)
	slices.Reverse(out.Parents)
	return out
}

// postOrderLabels lists the labels below and including root so that every
// node follows its descendants. At most max(t.Len(), 1) labels are listed.
func (t Tree) postOrderLabels(root int, groups map[int][]int) []int {
	var out []int
	limit := max(t.Len(), 1)
	stack := []int{root}
	for len(stack) > 0 && len(out) < limit {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, top)
		for _, k := range groups[top] {
			stack = append(stack, t.Children[k])
		}
	}
	slices.Reverse(out)
	return out
}

// PostToPreOrder maps every post-order position of t to the pre-order
// position of the same node. It lets ideals produced by the two engines be
// compared position by position.
func (t Tree) PostToPreOrder() []int {
	post := t.PostOrder()
	pre := t.PreOrder().Positions()
	out := make([]int, post.Len())
	for i, label := range post.Children {
		out[i] = pre[label]
	}
	return out
}

package forest

// SiblingArrays returns, per position, the label of the sibling directly to
// the left and to the right under the same parent. 0 marks a missing
// sibling. Roots are siblings of each other.
func (t Tree) SiblingArrays() (left, right []int) {
	left = make([]int, t.Len())
	right = make([]int, t.Len())
	groups := GroupIndicesByValue(t.Parents)
	for _, kids := range groups {
		for i := 1; i < len(kids); i++ {
			left[kids[i]] = t.Children[kids[i-1]]
			right[kids[i-1]] = t.Children[kids[i]]
		}
	}
	return left, right
}

// LeftmostChildren returns, per position, the label of the node's first
// child in input order, or 0 for a leaf.
func (t Tree) LeftmostChildren() []int {
	out := make([]int, t.Len())
	groups := GroupIndicesByValue(t.Parents)
	for i, label := range t.Children {
		if kids := groups[label]; len(kids) > 0 {
			out[i] = t.Children[kids[0]]
		}
	}
	return out
}

package forest

import (
	"math"
	"math/bits"
)

// CountSubtreesAt returns the number of ideals of the subtree rooted at
// label, counting the empty one: 1 + the product over its children. A
// label with no children, including one absent from t, counts 2.
func (t Tree) CountSubtreesAt(label int) uint64 {
	return t.subtreeCounts(label)[label]
}

// CountSubtrees returns the number of ideals of t that contain the root.
// This is exactly the number of ideals each engine visits.
func (t Tree) CountSubtrees() uint64 {
	if t.Len() == 0 {
		return 0
	}
	n := t.CountSubtreesAt(t.Root)
	if n == math.MaxUint64 {
		return n
	}
	return n - 1
}

// subtreeCounts folds the counts bottom-up over every node below root.
func (t Tree) subtreeCounts(root int) map[int]uint64 {
	groups := GroupIndicesByValue(t.Parents)
	order := t.postOrderLabels(root, groups)
	counts := make(map[int]uint64, len(order))
	for _, label := range order {
		product := uint64(1)
		for _, k := range groups[label] {
			product = mulSat(product, counts[t.Children[k]])
		}
		counts[label] = addSat(product, 1)
	}
	return counts
}

func mulSat(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

func addSat(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

// Package forest prepares rooted trees for ideal enumeration.
//
// # Overview
//
// An ideal of a rooted tree is a set of nodes that is closed under taking
// parents: a node may only be active if its parent is active too. The
// enumeration engines in [kodaruskey] and [popjumppush] never look at the
// sparse input directly. They work on dense array layouts derived here:
// traversal orders, sibling links, leftmost children and subtree counts.
//
// # Input Format
//
// A [Tree] is three parallel values: the root label, and two slices where
// Parents[i] is the label of Children[i]'s parent. A parent of 0 marks the
// root. Labels are arbitrary non-zero integers:
//
//	t, err := forest.New(1, []int{0, 1, 1, 1, 2, 2, 3}, []int{1, 2, 3, 4, 5, 6, 7})
//
// [New] checks the shape of the input only (equal lengths, no zero labels,
// root present). It does not detect cycles or several roots; enumerating
// such input is a precondition violation with unspecified results.
//
// # Traversal Orders
//
// [Tree.PreOrder] and [Tree.PostOrder] rearrange the entries so that
// position order matches the traversal. Both use an explicit stack, so a
// path of a million nodes is as safe as a star. Children keep their input
// order from left to right, and rearranging an already ordered tree is a
// no-op.
//
// # Counting
//
// [Tree.CountSubtreesAt] returns 1 + the product of the children's counts,
// the number of ideals of the subtree including the empty one.
// [Tree.CountSubtrees] subtracts the empty ideal at the root, which leaves
// the number of ideals that contain the root. Both engines visit exactly
// that many ideals. The fold runs over an explicit post-order list and
// saturates at math.MaxUint64 instead of wrapping.
//
// # Indices
//
// Engines address nodes by dense [Index] values starting at 1. [None] is the
// zero Index and never names a real node; it stands for "no parent", "no
// child" and the head of linked lists.
//
// [kodaruskey]: github.com/matzehuels/treeideals/pkg/kodaruskey
// [popjumppush]: github.com/matzehuels/treeideals/pkg/popjumppush
package forest

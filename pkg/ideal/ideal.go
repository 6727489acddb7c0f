// Package ideal describes the ideals produced by the enumeration engines and
// the sinks that consume them.
//
// Engines never format or store anything themselves. Each produced ideal is
// handed to a [Sink] as a [View], a read-only window onto the engine's live
// state. A View is only valid during the Visit call; sinks that keep ideals
// must copy them, which [View.Form] does.
package ideal

import (
	"slices"
	"strconv"
	"strings"

	apperrors "github.com/matzehuels/treeideals/pkg/errors"
)

// Mode selects the representation of an ideal when it is rendered.
type Mode int

const (
	// ModeVector renders the activation vector, one 0/1 entry per position.
	ModeVector Mode = iota
	// ModeIndices renders the active positions in ascending order.
	ModeIndices
	// ModeLabels renders the labels of the active nodes, sorted ascending.
	ModeLabels
)

var modeNames = []string{"vector", "indices", "labels"}

// Modes returns the names of all modes in declaration order.
func Modes() []string { return slices.Clone(modeNames) }

// String returns the name of m.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
	return modeNames[m]
}

// ParseMode returns the Mode named s.
func ParseMode(s string) (Mode, error) {
	if i := slices.Index(modeNames, strings.ToLower(s)); i >= 0 {
		return Mode(i), nil
	}
	return 0, apperrors.New(apperrors.ErrCodeInvalidMode,
		"unknown output mode %q (want one of %s)", s, strings.Join(modeNames, ", "))
}

// View is the ideal just produced by an engine. It is backed either by an
// activation vector or by an ascending sequence of active positions.
type View struct {
	vector []uint8
	seq    []int
	labels []int
	worker int
}

// VectorView wraps an activation vector. labels[i] is the label of
// position i. The slices are not copied.
func VectorView(vector []uint8, labels []int, worker int) View {
	return View{vector: vector, labels: labels, worker: worker}
}

// SequenceView wraps an ascending sequence of active positions. The slices
// are not copied.
func SequenceView(seq []int, labels []int, worker int) View {
	return View{seq: seq, labels: labels, worker: worker}
}

// Worker returns the id of the worker that produced the ideal, 0 for
// single-threaded engines.
func (v View) Worker() int { return v.worker }

// Len returns the number of active nodes.
func (v View) Len() int {
	if v.vector == nil {
		return len(v.seq)
	}
	n := 0
	for _, a := range v.vector {
		n += int(a)
	}
	return n
}

// Vector returns the activation vector. For vector-backed views this is
// the engine's own slice and must not be modified.
func (v View) Vector() []uint8 {
	if v.vector != nil {
		return v.vector
	}
	out := make([]uint8, len(v.labels))
	for _, i := range v.seq {
		out[i] = 1
	}
	return out
}

// Indices returns the active positions in ascending order. For
// sequence-backed views this is the engine's own slice and must not be
// modified.
func (v View) Indices() []int {
	if v.vector == nil {
		return v.seq
	}
	out := make([]int, 0, len(v.vector))
	for i, a := range v.vector {
		if a != 0 {
			out = append(out, i)
		}
	}
	return out
}

// Labels returns a fresh slice with the labels of the active nodes, sorted
// ascending.
func (v View) Labels() []int {
	idx := v.Indices()
	out := make([]int, len(idx))
	for i, p := range idx {
		out[i] = v.labels[p]
	}
	slices.Sort(out)
	return out
}

// Form returns a fresh copy of the ideal in the given mode.
func (v View) Form(m Mode) []int {
	switch m {
	case ModeVector:
		vec := v.Vector()
		out := make([]int, len(vec))
		for i, a := range vec {
			out[i] = int(a)
		}
		return out
	case ModeIndices:
		return slices.Clone(v.Indices())
	default:
		return v.Labels()
	}
}

// Key returns a canonical string for a set of labels, independent of order.
func Key(labels []int) string {
	sorted := slices.Clone(labels)
	slices.Sort(sorted)
	var b strings.Builder
	for i, l := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(l))
	}
	return b.String()
}

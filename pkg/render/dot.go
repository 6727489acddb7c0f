package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/treeideals/pkg/forest"
)

// Options configures DOT output.
type Options struct {
	// Active lists the labels of the highlighted ideal.
	Active []int
	// Title is drawn above the tree when set.
	Title string
	// Positions adds each node's pre-order and post-order position to its
	// label, the indices the engines report.
	Positions bool
}

const (
	activeFill   = "#3b82f6"
	inactiveLine = "#9ca3af"
)

// ToDOT converts t to Graphviz DOT.
func ToDOT(t forest.Tree, opts Options) string {
	active := make(map[int]bool, len(opts.Active))
	for _, l := range opts.Active {
		active[l] = true
	}
	pre := t.PreOrder()
	var post map[int]int
	if opts.Positions {
		post = t.PostOrder().Positions()
	}

	var buf bytes.Buffer
	buf.WriteString("digraph T {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  ordering=out;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=16];\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("\n")

	for i, label := range pre.Children {
		text := strconv.Itoa(label)
		if opts.Positions {
			text = fmt.Sprintf("%d\npre %d\npost %d", label, i, post[label])
		}
		if active[label] {
			fmt.Fprintf(&buf, "  n%d [label=%q, fillcolor=%q, fontcolor=white];\n", label, text, activeFill)
		} else {
			fmt.Fprintf(&buf, "  n%d [label=%q, style=\"filled,dashed\", color=%q];\n", label, text, inactiveLine)
		}
	}

	buf.WriteString("\n")
	for i, label := range pre.Children {
		if p := pre.Parents[i]; p != 0 {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", p, label)
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG lays out dot and renders it to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	head := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(head))
}

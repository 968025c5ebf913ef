package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
)

// DOTOptions configures node graph export.
type DOTOptions struct {
	// Anchors adds dashed edges from each node to the nodes it aligns to,
	// parents excluded.
	Anchors bool
	// Detailed adds the absolute box and layer to labels.
	Detailed bool
}

// ToDOT converts a snapshot to Graphviz DOT. Solid edges run from parent to
// child; hidden nodes are grey and nodes with layout errors are red.
func ToDOT(s Snapshot, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, n := range s.Nodes {
		if n.Parent != 0 {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", n.Parent, n.ID)
		}
	}
	if opts.Anchors {
		for _, n := range s.Nodes {
			for _, a := range n.Anchors {
				if a.Target == n.Parent {
					continue
				}
				fmt.Fprintf(&buf, "  n%d -> n%d [style=dashed, color=steelblue, label=%q];\n",
					n.ID, a.Target, a.Edge+" -> "+a.TargetEdge)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n NodeInfo, detailed bool) string {
	label := fmt.Sprintf("%d %s", n.ID, n.Kind)
	switch {
	case n.Text != "":
		label += "\n" + strconv.Quote(n.Text)
	case n.Item != "":
		label += "\n" + n.Item
	}
	if !detailed {
		return label
	}
	if n.Err != "" {
		return label + "\n" + n.Err
	}
	return label + fmt.Sprintf("\n%v @ %v\nlayer %d", n.Box.Size, n.Box.Center, n.Layer)
}

func fmtAttrs(n NodeInfo, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	switch {
	case n.Err != "":
		attrs = append(attrs, "fillcolor=mistyrose", "color=red")
	case !n.Visible:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	case n.Highlighted:
		attrs = append(attrs, "fillcolor=lightyellow")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
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

// normalizeViewBox rewrites the root element so the SVG scales from a zero
// origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

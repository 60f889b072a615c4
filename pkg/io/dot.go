package io

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/forcelayout/pkg/graph"
)

// DOTOptions configures DOT export of a layout.
type DOTOptions struct {
	// Scale converts layout units to Graphviz points. Zero means 1.
	Scale float64
	// Labels draws vertex labels. When false vertices are drawn as points.
	Labels bool
}

// ToDOT converts the current layout of g to Graphviz DOT. Every vertex is
// pinned at its x/y position; z is dropped. Directed edges get an arrowhead,
// other edges are drawn without one.
func ToDOT(g *graph.Graph, opts DOTOptions) string {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=false;\n")
	if opts.Labels {
		buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10, width=0.3, fixedsize=false];\n")
	} else {
		buf.WriteString("  node [shape=point, width=0.08];\n")
	}
	buf.WriteString("  edge [color=\"#555555\", arrowsize=0.5];\n")
	buf.WriteString("\n")

	for _, v := range g.Vertices() {
		attrs := []string{fmt.Sprintf("pos=%q", fmtPos(v.Position.X*scale, v.Position.Y*scale))}
		if opts.Labels {
			label := v.Label
			if label == "" {
				label = strconv.FormatUint(uint64(v.ID), 10)
			}
			attrs = append(attrs, fmt.Sprintf("label=%q", label))
		}
		fmt.Fprintf(&buf, "  v%d [%s];\n", v.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		var attrs []string
		if !e.Directed {
			attrs = append(attrs, "dir=none")
		}
		if e.Multiplicity() > 1 {
			attrs = append(attrs, fmt.Sprintf("penwidth=%d", e.Multiplicity()))
		}
		if len(attrs) > 0 {
			fmt.Fprintf(&buf, "  v%d -> v%d [%s];\n", e.Source.ID, e.Target.ID, strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&buf, "  v%d -> v%d;\n", e.Source.ID, e.Target.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtPos(x, y float64) string {
	return strconv.FormatFloat(x, 'f', 3, 64) + "," + strconv.FormatFloat(y, 'f', 3, 64) + "!"
}

// RenderSVG renders a DOT graph produced by [ToDOT] to SVG using the neato
// engine, which honours pinned positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

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
	viewBoxRe = regexp.MustCompile(`viewBox="([-0-9.]+)\s+([-0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized svg tag with one sized in
// pixels so the output scales in browsers.
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

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %.2f %.2f" width="%.0f" height="%.0f">`,
		match[1], match[2], w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

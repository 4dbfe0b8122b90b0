package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/algoviz/pkg/render"
	"github.com/matzehuels/algoviz/pkg/structure"
	"github.com/matzehuels/algoviz/pkg/viz"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds node state and target position to labels and marks
	// edges with their side.
	Detailed bool
	// IncludeHidden keeps Invisible nodes in the diagram.
	IncludeHidden bool
}

// ToDOT converts structure entries to Graphviz DOT. The header entry and
// its root edge are omitted.
func ToDOT(entries []structure.Entry, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=18, fixedsize=true, width=0.6];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	shown := map[viz.Key]bool{}
	for _, e := range entries {
		if e.Key == structure.Header || (e.State == viz.Invisible && !opts.IncludeHidden) {
			continue
		}
		shown[e.Key] = true
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(e.Key), strings.Join(fmtAttrs(e, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range entries {
		if !shown[e.Key] {
			continue
		}
		for side, child := range [2]viz.Key{e.Left, e.Right} {
			if child.IsNone() || !shown[child] {
				continue
			}
			attr := ""
			if opts.Detailed {
				attr = fmt.Sprintf(" [label=%q]", viz.Side(side).String()[:1])
			}
			fmt.Fprintf(&buf, "  %q -> %q%s;\n", nodeID(e.Key), nodeID(child), attr)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(k viz.Key) string { return "n" + k.String() }

func fmtLabel(e structure.Entry, detailed bool) string {
	label := e.Key.Label()
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\n%s (%d,%d)", label, e.State, e.ToX, e.ToY)
}

func fmtAttrs(e structure.Entry, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(e, detailed))}
	if e.Background != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", string(e.Background)))
	}
	if e.Foreground != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", string(e.Foreground)), fmt.Sprintf("fontcolor=%q", string(e.Foreground)))
	}
	if e.Marked {
		attrs = append(attrs, "penwidth=3")
	}
	if e.State == viz.Invisible {
		attrs = append(attrs, "style=\"filled,dashed\"")
	}
	if detailed {
		attrs = append(attrs, "fixedsize=false")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.Convert].
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

// normalizeViewBox rewrites the root element so the diagram scales to its
// container.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// Render renders entries in format: "dot" returns the DOT source, "svg",
// "pdf" and "png" go through Graphviz and, for the raster formats, librsvg.
func Render(ctx context.Context, entries []structure.Entry, format string, opts Options) ([]byte, error) {
	dot := ToDOT(entries, opts)
	if format == "dot" {
		return []byte(dot), nil
	}
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.Convert(ctx, svg, format, 1)
}

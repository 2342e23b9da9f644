package dag

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// DOTOptions configures [ToDOT].
type DOTOptions struct {
	// Title is rendered as the graph label. Empty means no label.
	Title string
	// Highlight marks pages to fill with an accent color (e.g. the middle page).
	Highlight []uint32
}

// ToDOT converts the graph to Graphviz DOT format. Pages are emitted in
// insertion order so the output is stable across runs.
func ToDOT(d *DAG, opts DOTOptions) string {
	marked := make(map[uint32]bool, len(opts.Highlight))
	for _, id := range opts.Highlight {
		marked[id] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18];\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", opts.Title)
	}
	buf.WriteString("\n")

	for _, n := range d.nodes {
		attrs := []string{fmt.Sprintf("label=\"%d\"", n)}
		if marked[n] {
			attrs = append(attrs, "fillcolor=\"#7fd1c7\"", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  \"%d\" [%s];\n", n, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range d.edges {
		fmt.Fprintf(&buf, "  \"%d\" -> \"%d\";\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using the embedded Graphviz library.
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
	return buf.Bytes(), nil
}

package dag

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

// exampleEdges is the rule set from the puzzle statement.
var exampleEdges = []Edge{
	{47, 53}, {97, 13}, {97, 61}, {97, 47}, {75, 29}, {61, 13}, {75, 53},
	{29, 13}, {97, 29}, {53, 29}, {61, 53}, {97, 53}, {61, 29}, {47, 13},
	{75, 47}, {97, 75}, {47, 61}, {75, 61}, {47, 29}, {75, 13}, {53, 13},
}

func TestNewDeduplicates(t *testing.T) {
	g := New([]uint32{3, 1, 3, 2, 1})
	if got, want := g.Nodes(), []uint32{3, 1, 2}; !slices.Equal(got, want) {
		t.Errorf("Nodes() = %v, want %v", got, want)
	}
	if g.AddNode(2) {
		t.Error("AddNode(existing) should report false")
	}
	if !g.AddNode(9) {
		t.Error("AddNode(new) should report true")
	}
}

func TestAddEdgeUnknownEndpoints(t *testing.T) {
	g := New([]uint32{1, 2})
	if err := g.AddEdge(Edge{From: 5, To: 1}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("err = %v, want ErrUnknownSourceNode", err)
	}
	if err := g.AddEdge(Edge{From: 1, To: 5}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("err = %v, want ErrUnknownTargetNode", err)
	}
	if err := g.AddEdge(Edge{From: 1, To: 2}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if g.InDegree(2) != 1 || g.InDegree(1) != 0 {
		t.Errorf("in-degrees = (%d, %d), want (0, 1)", g.InDegree(1), g.InDegree(2))
	}
}

func TestRestrictDropsOutsideEdges(t *testing.T) {
	g := Restrict([]uint32{61, 13, 29}, exampleEdges)
	if g.EdgeCount() != 3 {
		t.Errorf("EdgeCount() = %d, want 3 (61|13, 29|13, 61|29)", g.EdgeCount())
	}
	for _, e := range g.Edges() {
		if !g.Has(e.From) || !g.Has(e.To) {
			t.Errorf("edge %v leaves the page set", e)
		}
	}
	if got := g.Sources(); !slices.Equal(got, []uint32{61}) {
		t.Errorf("Sources() = %v, want [61]", got)
	}
}

func TestDuplicateEdges(t *testing.T) {
	g := Restrict([]uint32{1, 2, 3}, []Edge{{1, 2}, {1, 2}, {2, 3}})
	if g.InDegree(2) != 2 {
		t.Errorf("InDegree(2) = %d, want 2", g.InDegree(2))
	}
	order, err := g.Order(Stack)
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	if !slices.Equal(order, []uint32{1, 2, 3}) {
		t.Errorf("Order() = %v, want [1 2 3]", order)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []uint32
		edges   []Edge
		wantErr bool
	}{
		{"empty", nil, nil, false},
		{"chain", []uint32{1, 2, 3}, []Edge{{1, 2}, {2, 3}}, false},
		{"diamond", []uint32{1, 2, 3, 4}, []Edge{{1, 2}, {1, 3}, {2, 4}, {3, 4}}, false},
		{"self loop", []uint32{1}, []Edge{{1, 1}}, true},
		{"triangle", []uint32{1, 2, 3}, []Edge{{1, 2}, {2, 3}, {3, 1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Restrict(tt.nodes, tt.edges).Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrGraphHasCycle) {
				t.Errorf("err = %v, want ErrGraphHasCycle", err)
			}
		})
	}
}

func TestOrderCycle(t *testing.T) {
	g := Restrict([]uint32{1, 2, 3, 4}, []Edge{{1, 2}, {2, 3}, {3, 2}})
	order, err := g.Order(Queue)
	if !errors.Is(err, ErrGraphHasCycle) {
		t.Fatalf("err = %v, want ErrGraphHasCycle", err)
	}
	// 1 and 4 are free; 2 and 3 wait on each other forever.
	if len(order) != 2 {
		t.Errorf("partial order = %v, want 2 pages", order)
	}
}

func TestPosMap(t *testing.T) {
	m := PosMap([]uint32{75, 47, 61})
	if m[75] != 0 || m[47] != 1 || m[61] != 2 || len(m) != 3 {
		t.Errorf("PosMap() = %v", m)
	}
}

func TestToDOT(t *testing.T) {
	g := Restrict([]uint32{61, 13, 29}, exampleEdges)
	dot := ToDOT(g, DOTOptions{Title: "update 4", Highlight: []uint32{29}})

	if !strings.HasPrefix(dot, "digraph G {") {
		t.Error("ToDOT() should start with 'digraph G {'")
	}
	if !strings.HasSuffix(strings.TrimSpace(dot), "}") {
		t.Error("ToDOT() should end with '}'")
	}
	for _, want := range []string{
		`label="update 4"`,
		`"61" -> "13";`,
		`"61" -> "29";`,
		`"29" -> "13";`,
		`"29" [label="29", fillcolor="#7fd1c7", penwidth=2];`,
		`"61" [label="61"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	g := Restrict([]uint32{75, 47, 61}, []Edge{{75, 47}, {75, 61}, {47, 61}})
	svg, err := RenderSVG(context.Background(), ToDOT(g, DOTOptions{Highlight: []uint32{47}}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("RenderSVG() output is not SVG: %.80s", svg)
	}
}

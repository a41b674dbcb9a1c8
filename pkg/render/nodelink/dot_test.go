package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/doctriage/pkg/docs"
	"github.com/matzehuels/doctriage/pkg/errors"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/layout"
)

func sample() ([]layout.Node, []layout.Edge) {
	nodes := []layout.Node{
		{ID: "a", Label: "lease.pdf", Category: docs.CategoryPDF, IsKey: true},
		{ID: "b", Label: "notice.eml", Category: docs.CategoryEmail},
		{ID: "c", Label: "notes.txt", Category: docs.CategoryGeneric, IsPrivileged: true},
	}
	edges := []layout.Edge{
		{Source: "a", Target: "b", Type: docs.RelReferenced, Strength: 0.5},
		{Source: "b", Target: "c", Type: docs.RelSimilar, Strength: 1},
		{Source: "a", Target: "ghost", Type: docs.RelSequential, Strength: 1},
	}
	return nodes, edges
}

func TestToDOT_Basic(t *testing.T) {
	nodes, edges := sample()
	dot := ToDOT(nodes, edges, Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	for _, want := range []string{`"a" [label="lease.pdf"`, `"b" [label="notice.eml"`, `"a" -> "b"`, `"b" -> "c"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s", want)
		}
	}
	if strings.Contains(dot, "ghost") {
		t.Error("ToDOT() kept a dangling edge")
	}
}

func TestToDOT_Styles(t *testing.T) {
	nodes, edges := sample()
	dot := ToDOT(nodes, edges, Options{Focus: "b"})

	tests := []struct {
		name, want string
	}{
		{"key fill", `fillcolor="#f59e0b"`},
		{"focus fill", `fillcolor="#4f46e5"`},
		{"privileged fill", `fillcolor="#ef4444"`},
		{"referenced dashed", `color="#4b556399", penwidth=2.00, weight=1.50, style=dashed`},
		{"similar undirected", `dir=none`},
		{"glyph", `xlabel="PDF"`},
	}
	for _, tt := range tests {
		if !strings.Contains(dot, tt.want) {
			t.Errorf("%s: missing %s in\n%s", tt.name, tt.want, dot)
		}
	}
	if strings.Contains(dot, `xlabel=""`) {
		t.Error("generic node got an empty glyph label")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	nodes, _ := sample()
	dot := ToDOT(nodes, nil, Options{Detailed: true})
	if !strings.Contains(dot, `label="lease.pdf\npdf, key"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
}

func TestParseEngine(t *testing.T) {
	tests := []struct {
		in   string
		want Engine
		ok   bool
	}{
		{"", EngineNeato, true},
		{"DOT", EngineDot, true},
		{"fdp", EngineFDP, true},
		{"circo", EngineCirco, true},
		{"sfdp", "", false},
	}
	for _, tt := range tests {
		got, err := ParseEngine(tt.in)
		if tt.ok != (err == nil) || got != tt.want {
			t.Errorf("ParseEngine(%q) = %q, %v", tt.in, got, err)
		}
		if !tt.ok && !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ParseEngine(%q) err code = %s", tt.in, errors.GetCode(err))
		}
	}
}

func TestRenderSVG(t *testing.T) {
	nodes, edges := sample()
	svg, err := RenderSVG(context.Background(), ToDOT(nodes, edges, Options{}), EngineNeato)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	s := string(svg)
	if !strings.Contains(s, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("root element not normalized: %.200s", s)
	}
	if !strings.Contains(s, "lease.pdf") {
		t.Error("SVG missing node label")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {", EngineDot); err == nil {
		t.Error("expected parse error")
	}
}

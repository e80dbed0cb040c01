package graphmodel

import (
	"strings"
	"testing"
)

func TestMermaid(t *testing.T) {
	out := Mermaid(Build(sampleTopology(t)))

	if !strings.HasPrefix(out, "graph LR\n") {
		t.Errorf("expected graph LR header, got:\n%s", out)
	}
	if !strings.Contains(out, "-.->") {
		t.Error("expected a dashed link edge")
	}
	if !strings.Contains(out, `n0(("direct:orders"))`) {
		t.Errorf("expected first incoming node as circle, got:\n%s", out)
	}
	if !strings.Contains(out, "classDef external") {
		t.Error("expected external class definition")
	}
	if !strings.Contains(out, `{{"/api"}}`) {
		t.Errorf("expected rest node as hexagon, got:\n%s", out)
	}
}

func TestMermaid_SkipsDanglingEdges(t *testing.T) {
	m := Model{
		Nodes: []Node{{ID: "a", Label: "a"}},
		Edges: []Edge{{ID: "e", Source: "a", Target: "missing"}},
	}
	out := Mermaid(m)
	if strings.Contains(out, "-->") {
		t.Errorf("dangling edge should be skipped, got:\n%s", out)
	}
}

func TestEscapeMermaid(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{`say "hi"`, "say #quot;hi#quot;"},
		{"f(x)", "f#lpar;x#rpar;"},
		{"${header.x}", "$#lbrace;header.x#rbrace;"},
	}
	for _, tt := range tests {
		if got := escapeMermaid(tt.in); got != tt.want {
			t.Errorf("escapeMermaid(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

package graphmodel

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/routemap/internal/topology"
)

// Mermaid renders the model as a mermaid "graph LR" diagram. Node ids are
// positional (n0, n1, ...) because model ids contain characters mermaid
// does not accept.
func Mermaid(m Model) string {
	var b strings.Builder
	b.WriteString("graph LR\n")

	ids := make(map[string]string, len(m.Nodes))
	for i, n := range m.Nodes {
		id := fmt.Sprintf("n%d", i)
		ids[n.ID] = id
		b.WriteString("    " + id + shapeOf(n) + "\n")
	}

	for _, e := range m.Edges {
		from, okFrom := ids[e.Source]
		to, okTo := ids[e.Target]
		if !okFrom || !okTo {
			continue
		}
		arrow := "-->"
		if e.EdgeStyle == "dashed" {
			arrow = "-.->"
		}
		b.WriteString(fmt.Sprintf("    %s %s %s\n", from, arrow, to))
	}

	for i, n := range m.Nodes {
		if n.Data.Kind == topology.KindExternal {
			b.WriteString(fmt.Sprintf("    class n%d external\n", i))
		}
	}
	b.WriteString("    classDef external stroke-dasharray: 4 4\n")
	return b.String()
}

func shapeOf(n Node) string {
	label := "\"" + escapeMermaid(n.Label) + "\""
	switch n.Data.NodeType {
	case topology.TypeIncoming:
		return "((" + label + "))"
	case topology.TypeOutgoing:
		return ">" + label + "]"
	case topology.TypeRest:
		return "{{" + label + "}}"
	default:
		return "[" + label + "]"
	}
}

// escapeMermaid escapes characters that have special meaning in mermaid labels.
func escapeMermaid(s string) string {
	s = strings.ReplaceAll(s, "\"", "#quot;")
	s = strings.ReplaceAll(s, "(", "#lpar;")
	s = strings.ReplaceAll(s, ")", "#rpar;")
	s = strings.ReplaceAll(s, "[", "#lsqb;")
	s = strings.ReplaceAll(s, "]", "#rsqb;")
	s = strings.ReplaceAll(s, "{", "#lbrace;")
	s = strings.ReplaceAll(s, "}", "#rbrace;")
	s = strings.ReplaceAll(s, "<", "#lt;")
	s = strings.ReplaceAll(s, ">", "#gt;")
	return s
}

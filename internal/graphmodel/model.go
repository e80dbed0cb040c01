package graphmodel

import (
	"net/url"

	"github.com/ziadkadry99/routemap/internal/flowdoc"
	"github.com/ziadkadry99/routemap/internal/topology"
)

// Default node dimensions; the layout engine fills in positions.
const (
	NodeWidth  = 60
	NodeHeight = 60
	RouteWidth = 120
)

// Graph describes the top-level graph element.
type Graph struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Layout string `json:"layout"`
}

// Node is a renderable node. Data carries the back-reference the property
// panel reads when the node is selected.
type Node struct {
	ID     string   `json:"id"`
	Type   string   `json:"type"`
	Label  string   `json:"label"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Shape  string   `json:"shape"`
	Status string   `json:"status"`
	Data   NodeData `json:"data"`
}

// NodeData is the payload attached to every rendered node.
type NodeData struct {
	NodeType topology.NodeType `json:"nodeType"`
	Kind     topology.Kind     `json:"kind,omitempty"`
	FileName string            `json:"fileName"`
	RouteID  string            `json:"routeId,omitempty"`
	Endpoint string            `json:"endpoint,omitempty"`
	URIs     []string          `json:"uris,omitempty"`
	Step     *flowdoc.Step     `json:"step,omitempty"`
	Route    *flowdoc.Route    `json:"route,omitempty"`
	Rest     *flowdoc.Rest     `json:"rest,omitempty"`
}

// Edge is a renderable directed edge.
type Edge struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Source    string `json:"source"`
	Target    string `json:"target"`
	Relation  string `json:"relation"`
	EdgeStyle string `json:"edgeStyle"`
}

// Model is the complete input for the rendering surface.
type Model struct {
	Graph    Graph              `json:"graph"`
	Nodes    []Node             `json:"nodes"`
	Edges    []Edge             `json:"edges"`
	Warnings []topology.Warning `json:"warnings"`
}

// RelationRest marks edges added between REST declarations and route triggers.
const RelationRest = "rest"

// Build converts a derived topology into the rendering model.
func Build(t *topology.Topology) Model {
	m := Model{
		Graph:    Graph{ID: "g1", Type: "graph", Layout: "Dagre"},
		Nodes:    []Node{},
		Edges:    []Edge{},
		Warnings: t.Warnings(),
	}
	if m.Warnings == nil {
		m.Warnings = []topology.Warning{}
	}

	for n := range t.Incoming() {
		m.Nodes = append(m.Nodes, Node{
			ID: n.ID, Type: "node", Label: n.Title,
			Width: NodeWidth, Height: NodeHeight, Shape: "ellipse", Status: statusOf(n.Kind),
			Data: NodeData{
				NodeType: topology.TypeIncoming, Kind: n.Kind, FileName: n.SourceFile,
				RouteID: n.RouteID, Endpoint: n.Endpoint.String(),
			},
		})
	}
	for n := range t.Routes() {
		r := n.Route
		m.Nodes = append(m.Nodes, Node{
			ID: n.ID, Type: "node", Label: n.Title,
			Width: RouteWidth, Height: NodeHeight, Shape: "rect", Status: "default",
			Data: NodeData{NodeType: topology.TypeRoute, FileName: n.SourceFile, RouteID: n.RouteID, Route: &r},
		})
	}
	for n := range t.Outgoing() {
		s := n.Step
		m.Nodes = append(m.Nodes, Node{
			ID: n.ID, Type: "node", Label: n.Title,
			Width: NodeWidth, Height: NodeHeight, Shape: "ellipse", Status: statusOf(n.Kind),
			Data: NodeData{
				NodeType: topology.TypeOutgoing, Kind: n.Kind, FileName: n.SourceFile,
				RouteID: n.RouteID, Endpoint: n.Destination.String(), Step: &s,
			},
		})
	}
	for n := range t.Rests() {
		rest := n.Rest
		m.Nodes = append(m.Nodes, Node{
			ID: n.ID, Type: "node", Label: n.Title,
			Width: NodeWidth, Height: NodeHeight, Shape: "hexagon", Status: "default",
			Data: NodeData{NodeType: topology.TypeRest, FileName: n.SourceFile, URIs: n.URIs, Rest: &rest},
		})
	}

	for e := range t.Edges() {
		style := "default"
		if e.Type == topology.EdgeLink {
			style = "dashed"
		}
		m.Edges = append(m.Edges, Edge{
			ID: e.ID, Type: "edge", Source: e.Source, Target: e.Target,
			Relation: string(e.Type), EdgeStyle: style,
		})
	}
	m.Edges = append(m.Edges, restEdges(t)...)
	return m
}

// restEdges links each REST declaration to the triggers its operations
// send to. Matching uses the same normalized identifiers as routes do.
func restEdges(t *topology.Topology) []Edge {
	byKey := make(map[string]string)
	for n := range t.Incoming() {
		if n.Endpoint.Ambiguous {
			continue
		}
		if _, ok := byKey[n.Endpoint.Key()]; !ok {
			byKey[n.Endpoint.Key()] = n.ID
		}
	}

	var edges []Edge
	for n := range t.Rests() {
		linked := make(map[string]bool)
		for _, op := range n.Rest.Operations {
			if op.To == "" {
				continue
			}
			e := topology.ParseEndpoint(op.To, nil)
			if e.Ambiguous {
				continue
			}
			target, ok := byKey[e.Key()]
			if !ok || linked[target] {
				continue
			}
			linked[target] = true
			edges = append(edges, Edge{
				ID: "edge/" + url.PathEscape(n.ID) + "/" + url.PathEscape(target), Type: "edge", Source: n.ID, Target: target,
				Relation: RelationRest, EdgeStyle: "default",
			})
		}
	}
	return edges
}

func statusOf(k topology.Kind) string {
	if k == topology.KindInternal {
		return "info"
	}
	return "default"
}

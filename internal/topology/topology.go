// Package topology derives the wiring between independently authored
// routes: which route is triggered by what, which route calls which other
// route or external system, and which REST services are declared.
package topology

import (
	"iter"
	"slices"
)

// EdgeType names the relation an Edge represents.
type EdgeType string

const (
	EdgeTrigger EdgeType = "trigger" // incoming -> route
	EdgeCall    EdgeType = "call"    // route -> outgoing
	EdgeLink    EdgeType = "link"    // internal outgoing -> incoming of the resolved route
)

// Edge is a directed connection between two nodes of one Topology.
type Edge struct {
	ID     string   `json:"id"`
	Type   EdgeType `json:"type"`
	Source string   `json:"source"`
	Target string   `json:"target"`
}

func newEdge(t EdgeType, source, target string) Edge {
	return Edge{ID: composeID("edge", source, target), Type: t, Source: source, Target: target}
}

// Warning codes.
const (
	WarnDuplicateTrigger = "duplicate-trigger"
)

// Warning is a non-fatal condition found during derivation.
type Warning struct {
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Document   string   `json:"document"`
	RouteID    string   `json:"routeId"`
	Identifier string   `json:"identifier"`
	NodeIDs    []string `json:"nodeIds,omitempty"`
}

// Counts summarizes a Topology.
type Counts struct {
	Incoming int `json:"incoming"`
	Outgoing int `json:"outgoing"`
	Routes   int `json:"routes"`
	Rests    int `json:"rests"`
	Edges    int `json:"edges"`
}

// Topology is the result of one derivation pass. It is immutable; every
// sequence can be ranged over any number of times.
type Topology struct {
	incoming []IncomingNode
	outgoing []OutgoingNode
	routes   []RouteNode
	rests    []RestNode
	edges    []Edge
	warnings []Warning
	index    map[string]Node
}

func (t *Topology) Incoming() iter.Seq[IncomingNode] { return slices.Values(t.incoming) }
func (t *Topology) Outgoing() iter.Seq[OutgoingNode] { return slices.Values(t.outgoing) }
func (t *Topology) Routes() iter.Seq[RouteNode]      { return slices.Values(t.routes) }
func (t *Topology) Rests() iter.Seq[RestNode]        { return slices.Values(t.rests) }
func (t *Topology) Edges() iter.Seq[Edge]            { return slices.Values(t.edges) }

// Warnings returns a copy of the warnings raised by the pass.
func (t *Topology) Warnings() []Warning { return slices.Clone(t.warnings) }

// Nodes yields every node: routes with their incoming and outgoing nodes, then rest nodes.
func (t *Topology) Nodes() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, n := range t.incoming {
			if !yield(n) {
				return
			}
		}
		for _, n := range t.routes {
			if !yield(n) {
				return
			}
		}
		for _, n := range t.outgoing {
			if !yield(n) {
				return
			}
		}
		for _, n := range t.rests {
			if !yield(n) {
				return
			}
		}
	}
}

// Node looks up a node by id.
func (t *Topology) Node(id string) (Node, bool) {
	n, ok := t.index[id]
	return n, ok
}

// Counts returns the size of each sequence.
func (t *Topology) Counts() Counts {
	return Counts{
		Incoming: len(t.incoming),
		Outgoing: len(t.outgoing),
		Routes:   len(t.routes),
		Rests:    len(t.rests),
		Edges:    len(t.edges),
	}
}

// Options control a derivation pass.
type Options struct {
	InternalSchemes []string
}

// Option configures Options.
type Option func(*Options)

// WithInternalSchemes replaces the set of schemes that can resolve to a route.
func WithInternalSchemes(schemes ...string) Option {
	return func(o *Options) {
		o.InternalSchemes = schemes
	}
}

func buildOptions(opts []Option) Options {
	o := Options{InternalSchemes: DefaultInternalSchemes}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

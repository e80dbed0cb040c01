package topology

import (
	"fmt"

	"github.com/ziadkadry99/routemap/internal/flowdoc"
)

// Kind classifies an endpoint as resolvable to a known route or not.
type Kind string

const (
	KindInternal Kind = "internal"
	KindExternal Kind = "external"
)

// Valid reports whether k is one of the two defined kinds.
func (k Kind) Valid() bool {
	return k == KindInternal || k == KindExternal
}

// NodeType names the variant of a Node.
type NodeType string

const (
	TypeIncoming NodeType = "incoming"
	TypeOutgoing NodeType = "outgoing"
	TypeRoute    NodeType = "route"
	TypeRest     NodeType = "rest"
)

// Node is implemented by the four node variants only.
type Node interface {
	NodeID() string
	NodeType() NodeType
	Label() string
	File() string
	isNode()
}

// IncomingNode represents how a route is invoked.
type IncomingNode struct {
	ID         string       `json:"id"`
	Kind       Kind         `json:"kind"`
	RouteID    string       `json:"routeId"`
	Title      string       `json:"title"`
	SourceFile string       `json:"sourceFile"`
	Trigger    flowdoc.From `json:"trigger"`
	Endpoint   Endpoint     `json:"endpoint"`
	RouteNode  string       `json:"routeNode"`
}

// NewIncomingNode validates id and kind and returns the node.
func NewIncomingNode(id string, kind Kind, routeID, title, sourceFile string, trigger flowdoc.From) (IncomingNode, error) {
	if err := checkIdentity(id, kind); err != nil {
		return IncomingNode{}, err
	}
	return IncomingNode{
		ID:         id,
		Kind:       kind,
		RouteID:    routeID,
		Title:      title,
		SourceFile: sourceFile,
		Trigger:    trigger,
	}, nil
}

func (n IncomingNode) NodeID() string     { return n.ID }
func (n IncomingNode) NodeType() NodeType { return TypeIncoming }
func (n IncomingNode) Label() string      { return n.Title }
func (n IncomingNode) File() string       { return n.SourceFile }
func (IncomingNode) isNode()              {}

// OutgoingNode represents one call made by a route to a destination.
type OutgoingNode struct {
	ID          string       `json:"id"`
	Kind        Kind         `json:"kind"`
	RouteID     string       `json:"routeId"`
	Title       string       `json:"title"`
	SourceFile  string       `json:"sourceFile"`
	Step        flowdoc.Step `json:"step"`
	StepPath    string       `json:"stepPath"`
	Destination Endpoint     `json:"destination"`
	RouteNode   string       `json:"routeNode"`
	Target      string       `json:"target,omitempty"` // Incoming node id of the resolved route.
}

// NewOutgoingNode validates id and kind and returns the node.
func NewOutgoingNode(id string, kind Kind, routeID, title, sourceFile string, step flowdoc.Step) (OutgoingNode, error) {
	if err := checkIdentity(id, kind); err != nil {
		return OutgoingNode{}, err
	}
	return OutgoingNode{
		ID:         id,
		Kind:       kind,
		RouteID:    routeID,
		Title:      title,
		SourceFile: sourceFile,
		Step:       step,
	}, nil
}

func (n OutgoingNode) NodeID() string     { return n.ID }
func (n OutgoingNode) NodeType() NodeType { return TypeOutgoing }
func (n OutgoingNode) Label() string      { return n.Title }
func (n OutgoingNode) File() string       { return n.SourceFile }
func (OutgoingNode) isNode()              {}

// RouteNode represents a route itself.
type RouteNode struct {
	ID         string        `json:"id"`
	RouteID    string        `json:"routeId"`
	Title      string        `json:"title"`
	SourceFile string        `json:"sourceFile"`
	Trigger    flowdoc.From  `json:"trigger"`
	Route      flowdoc.Route `json:"route"`
}

// NewRouteNode validates id and returns the node.
func NewRouteNode(id, routeID, title, sourceFile string, route flowdoc.Route) (RouteNode, error) {
	if id == "" {
		return RouteNode{}, ErrEmptyID
	}
	return RouteNode{
		ID:         id,
		RouteID:    routeID,
		Title:      title,
		SourceFile: sourceFile,
		Trigger:    route.From,
		Route:      route,
	}, nil
}

func (n RouteNode) NodeID() string     { return n.ID }
func (n RouteNode) NodeType() NodeType { return TypeRoute }
func (n RouteNode) Label() string      { return n.Title }
func (n RouteNode) File() string       { return n.SourceFile }
func (RouteNode) isNode()              {}

// RestNode represents a REST service declaration and the operation paths it exposes.
type RestNode struct {
	Path       string       `json:"path"`
	ID         string       `json:"id"`
	URIs       []string     `json:"uris"`
	Title      string       `json:"title"`
	SourceFile string       `json:"sourceFile"`
	Rest       flowdoc.Rest `json:"rest"`
}

// NewRestNode validates id and returns the node.
func NewRestNode(path, id string, uris []string, title, sourceFile string, rest flowdoc.Rest) (RestNode, error) {
	if id == "" {
		return RestNode{}, ErrEmptyID
	}
	return RestNode{
		Path:       path,
		ID:         id,
		URIs:       uris,
		Title:      title,
		SourceFile: sourceFile,
		Rest:       rest,
	}, nil
}

func (n RestNode) NodeID() string     { return n.ID }
func (n RestNode) NodeType() NodeType { return TypeRest }
func (n RestNode) Label() string      { return n.Title }
func (n RestNode) File() string       { return n.SourceFile }
func (RestNode) isNode()              {}

func checkIdentity(id string, kind Kind) error {
	if id == "" {
		return ErrEmptyID
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return nil
}

package topology

import (
	"errors"
	"testing"

	"github.com/ziadkadry99/routemap/internal/flowdoc"
)

func TestNewIncomingNode_Validation(t *testing.T) {
	if _, err := NewIncomingNode("", KindInternal, "r", "t", "f", flowdoc.From{}); !errors.Is(err, ErrEmptyID) {
		t.Errorf("empty id: got %v, want ErrEmptyID", err)
	}
	if _, err := NewIncomingNode("id", Kind("maybe"), "r", "t", "f", flowdoc.From{}); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("bad kind: got %v, want ErrInvalidKind", err)
	}
	n, err := NewIncomingNode("id", KindExternal, "r", "t", "f", flowdoc.From{URI: "timer:x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.NodeType() != TypeIncoming || n.Label() != "t" || n.File() != "f" {
		t.Errorf("node = %+v", n)
	}
}

func TestNewOutgoingNode_Validation(t *testing.T) {
	if _, err := NewOutgoingNode("", KindExternal, "r", "t", "f", flowdoc.Step{}); !errors.Is(err, ErrEmptyID) {
		t.Errorf("empty id: got %v, want ErrEmptyID", err)
	}
	if _, err := NewOutgoingNode("id", "", "r", "t", "f", flowdoc.Step{}); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("empty kind: got %v, want ErrInvalidKind", err)
	}
}

func TestNewRouteAndRestNode_Validation(t *testing.T) {
	if _, err := NewRouteNode("", "r", "t", "f", flowdoc.Route{}); !errors.Is(err, ErrEmptyID) {
		t.Errorf("route: got %v, want ErrEmptyID", err)
	}
	if _, err := NewRestNode("/api", "", nil, "t", "f", flowdoc.Rest{}); !errors.Is(err, ErrEmptyID) {
		t.Errorf("rest: got %v, want ErrEmptyID", err)
	}

	r := flowdoc.Route{ID: "r", From: flowdoc.From{URI: "direct:a"}}
	n, err := NewRouteNode("route/x", "r", "r", "x", r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Trigger.URI != "direct:a" {
		t.Errorf("trigger = %+v", n.Trigger)
	}
}

func TestNodeVariants(t *testing.T) {
	nodes := []Node{IncomingNode{ID: "i"}, OutgoingNode{ID: "o"}, RouteNode{ID: "r"}, RestNode{ID: "x"}}
	want := []NodeType{TypeIncoming, TypeOutgoing, TypeRoute, TypeRest}
	for i, n := range nodes {
		if n.NodeType() != want[i] {
			t.Errorf("node %d type = %s, want %s", i, n.NodeType(), want[i])
		}
	}
}

package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/routemap/internal/flowdoc"
	"github.com/ziadkadry99/routemap/internal/graphmodel"
	"github.com/ziadkadry99/routemap/internal/logging"
	"github.com/ziadkadry99/routemap/internal/project"
)

func testDocs() []flowdoc.Document {
	return []flowdoc.Document{
		{
			Name: "orders.camel.yaml",
			Routes: []flowdoc.Route{{
				ID:   "orders",
				From: flowdoc.From{URI: "direct:orders"},
				Steps: []flowdoc.Step{
					{Kind: "to", URI: "direct:billing"},
					{Kind: "to", URI: "kafka:audit"},
				},
			}},
		},
		{
			Name:   "billing.camel.yaml",
			Routes: []flowdoc.Route{{ID: "billing", From: flowdoc.From{URI: "direct:billing"}}},
		},
	}
}

func newTestServer(t *testing.T, docs []flowdoc.Document) *Server {
	t.Helper()
	return NewServer(docs, project.DeriveOptions{}, logging.Discard())
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", result.Content[0])
	}
	return text.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"get_topology", getTopologyTool, "get_topology"},
		{"list_routes", listRoutesTool, "list_routes"},
		{"route_calls", routeCallsTool, "route_calls"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := newTestServer(t, testDocs())
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if len(srv.docs) != 2 {
		t.Errorf("docs = %d, want 2", len(srv.docs))
	}
}

func TestHandleGetTopology(t *testing.T) {
	srv := newTestServer(t, testDocs())
	ctx := context.Background()

	t.Run("json", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleGetTopology(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		var m graphmodel.Model
		if err := json.Unmarshal([]byte(resultText(t, result)), &m); err != nil {
			t.Fatalf("result is not a graph model: %v", err)
		}
		if len(m.Nodes) != 6 {
			t.Errorf("nodes = %d, want 6", len(m.Nodes))
		}
	})

	t.Run("mermaid", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"format": "mermaid"}

		result, err := srv.handleGetTopology(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(resultText(t, result), "graph LR") {
			t.Errorf("expected mermaid output, got %q", resultText(t, result))
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"format": "svg"}

		result, err := srv.handleGetTopology(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error for unknown format")
		}
	})

	t.Run("malformed documents", func(t *testing.T) {
		bad := newTestServer(t, []flowdoc.Document{{Name: ""}})
		result, err := bad.handleGetTopology(ctx, mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error for malformed document")
		}
	})
}

func TestHandleListRoutes(t *testing.T) {
	srv := newTestServer(t, testDocs())

	result, err := srv.handleListRoutes(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resultText(t, result)
	for _, want := range []string{"Found 2 route(s)", "orders (orders.camel.yaml)", "trigger: direct:billing", "invoked by: another route"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestHandleRouteCalls(t *testing.T) {
	srv := newTestServer(t, testDocs())
	ctx := context.Background()

	t.Run("calls", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"route_id": "orders"}

		result, err := srv.handleRouteCalls(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "to direct:billing [internal] -> route billing (billing.camel.yaml)") {
			t.Errorf("missing resolved call:\n%s", text)
		}
		if !strings.Contains(text, "to kafka:audit [external]") {
			t.Errorf("missing external call:\n%s", text)
		}
	})

	t.Run("no calls", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"route_id": "billing"}

		result, err := srv.handleRouteCalls(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(resultText(t, result), "no outgoing calls") {
			t.Errorf("unexpected output: %s", resultText(t, result))
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"route_id": "nope"}

		result, err := srv.handleRouteCalls(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error for unknown route")
		}
	})

	t.Run("missing route_id", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleRouteCalls(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error for missing route_id")
		}
	})
}

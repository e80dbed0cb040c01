package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/routemap/internal/graphmodel"
	"github.com/ziadkadry99/routemap/internal/project"
	"github.com/ziadkadry99/routemap/internal/topology"
)

func (s *Server) derive() (*topology.Topology, error) {
	return project.Derive(s.log, s.docs, s.opts)
}

// handleGetTopology returns the graph model as JSON or a Mermaid diagram.
func (s *Server) handleGetTopology(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topo, err := s.derive()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("deriving topology: %v", err)), nil
	}
	m := graphmodel.Build(topo)

	switch format := request.GetString("format", "json"); format {
	case "mermaid":
		return mcp.NewToolResultText(graphmodel.Mermaid(m)), nil
	case "json":
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encoding topology: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q: use json or mermaid", format)), nil
	}
}

// handleListRoutes lists every route with its trigger and classification.
func (s *Server) handleListRoutes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topo, err := s.derive()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("deriving topology: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d route(s):\n", topo.Counts().Routes))
	for in := range topo.Incoming() {
		id := in.RouteID
		if id == "" {
			id = "(no id)"
		}
		sb.WriteString(fmt.Sprintf("\n- %s (%s)\n", id, in.SourceFile))
		sb.WriteString(fmt.Sprintf("  trigger: %s\n", in.Title))
		if in.Kind == topology.KindInternal {
			sb.WriteString("  invoked by: another route\n")
		} else {
			sb.WriteString("  invoked by: external system\n")
		}
	}
	for _, w := range topo.Warnings() {
		sb.WriteString(fmt.Sprintf("\nwarning (%s): %s\n", w.Code, w.Message))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleRouteCalls lists the outgoing calls of the routes with the given id.
func (s *Server) handleRouteCalls(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	routeID, err := request.RequireString("route_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: route_id"), nil
	}

	topo, err := s.derive()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("deriving topology: %v", err)), nil
	}

	found := false
	for r := range topo.Routes() {
		if r.RouteID == routeID {
			found = true
			break
		}
	}
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("no route with id %q", routeID)), nil
	}

	var sb strings.Builder
	count := 0
	for out := range topo.Outgoing() {
		if out.RouteID != routeID {
			continue
		}
		count++
		sb.WriteString(fmt.Sprintf("- %s %s [%s]", out.Step.Kind, out.Title, out.Kind))
		if out.Target != "" {
			if n, ok := topo.Node(out.Target); ok {
				if in, ok := n.(topology.IncomingNode); ok {
					sb.WriteString(fmt.Sprintf(" -> route %s (%s)", in.RouteID, in.SourceFile))
				}
			}
		}
		sb.WriteString("\n")
	}
	if count == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Route %q makes no outgoing calls.", routeID)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Route %q makes %d call(s):\n%s", routeID, count, sb.String())), nil
}

package mcp

import "github.com/mark3labs/mcp-go/mcp"

// getTopologyTool defines the get_topology MCP tool.
var getTopologyTool = mcp.NewTool("get_topology",
	mcp.WithDescription("Get the derived integration topology: routes, their triggers, outgoing calls, and how calls resolve to other routes."),
	mcp.WithString("format",
		mcp.Description("Output format (default json)"),
		mcp.Enum("json", "mermaid"),
	),
)

// listRoutesTool defines the list_routes MCP tool.
var listRoutesTool = mcp.NewTool("list_routes",
	mcp.WithDescription("List every route with its source file, trigger, and whether another route invokes it."),
)

// routeCallsTool defines the route_calls MCP tool.
var routeCallsTool = mcp.NewTool("route_calls",
	mcp.WithDescription("List the outgoing calls of a route and the route each internal call resolves to."),
	mcp.WithString("route_id",
		mcp.Required(),
		mcp.Description("Route identifier as declared in the flow file"),
	),
)

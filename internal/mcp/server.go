package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/routemap/internal/flowdoc"
	"github.com/ziadkadry99/routemap/internal/project"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes topology tools over a fixed set
// of flow documents.
type Server struct {
	docs []flowdoc.Document
	opts project.DeriveOptions
	log  *slog.Logger
	mcp  *server.MCPServer
}

// NewServer creates a new MCP server over docs.
func NewServer(docs []flowdoc.Document, opts project.DeriveOptions, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		docs: docs,
		opts: opts,
		log:  log,
	}

	s.mcp = server.NewMCPServer(
		"routemap",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(getTopologyTool, s.handleGetTopology)
	s.mcp.AddTool(listRoutesTool, s.handleListRoutes)
	s.mcp.AddTool(routeCallsTool, s.handleRouteCalls)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

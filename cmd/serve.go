package cmd

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/routemap/internal/mcp"
	"github.com/ziadkadry99/routemap/internal/progress"
)

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing topology
tools for AI agents. The flow files under dir (default: current directory)
are loaded once at startup.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		// No progress output while serving over stdio.
		docs, err := loadDir(cfg, log, dir, progress.Nop{})
		if err != nil {
			return err
		}

		mcpserver.Version = Version

		log.Info("routemap MCP server started on stdio", "dir", dir, "documents", len(docs))

		srv := mcpserver.NewServer(docs, deriveOptions(cfg), log)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/routemap/internal/config"
	"github.com/ziadkadry99/routemap/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "routemap",
	Short: "Derive the topology of Camel YAML integration routes",
	Long: `routemap reads integration flow files written in the Camel YAML DSL and
derives how they connect: which route is triggered by what, which route
calls which other route, and which calls leave the system. The result can
be printed as a graph model, a Mermaid diagram or an HTML report, served
over HTTP, or exposed to AI agents via MCP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// newLogger builds the stderr logger for cfg. --verbose forces debug level.
func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	log := logging.New(level, cfg.Log.Format, os.Stderr)
	slog.SetDefault(log)
	return log
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

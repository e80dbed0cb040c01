package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/routemap/internal/config"
	"github.com/ziadkadry99/routemap/internal/graphmodel"
	"github.com/ziadkadry99/routemap/internal/progress"
	"github.com/ziadkadry99/routemap/internal/project"
	"github.com/ziadkadry99/routemap/internal/topology"
)

var (
	topologyFormat string
	topologyOutput string
	noProgress     bool
)

var topologyCmd = &cobra.Command{
	Use:   "topology [dir]",
	Short: "Derive and print the topology of the flow files in a directory",
	Long: `Walks dir (default: current directory) for flow files, derives the route
topology and prints it as a JSON graph model, a Mermaid diagram or an HTML
report. Malformed documents fail the command unless skip_malformed is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if topologyFormat != "" {
			cfg.Output.Format = config.OutputFormat(topologyFormat)
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		log := newLogger(cfg)

		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		var reporter progress.Reporter = progress.Nop{}
		if !noProgress {
			reporter = progress.NewReporter()
		}
		docs, err := loadDir(cfg, log, dir, reporter)
		if err != nil {
			return err
		}

		topo, err := project.Derive(log, docs, deriveOptions(cfg))
		if err != nil {
			return err
		}
		c := topo.Counts()
		log.Info("derived topology", "documents", len(docs), "routes", c.Routes, "outgoing", c.Outgoing, "rests", c.Rests)

		out := cmd.OutOrStdout()
		if topologyOutput != "" {
			f, err := os.Create(topologyOutput)
			if err != nil {
				return fmt.Errorf("creating %s: %w", topologyOutput, err)
			}
			defer f.Close()
			out = f
		}
		return writeTopology(out, topo, cfg.Output.Format)
	},
}

// writeTopology renders topo to w in the given format.
func writeTopology(w io.Writer, topo *topology.Topology, format config.OutputFormat) error {
	switch format {
	case config.FormatMermaid:
		_, err := io.WriteString(w, graphmodel.Mermaid(graphmodel.Build(topo)))
		return err
	case config.FormatHTML:
		page, err := graphmodel.Report(topo)
		if err != nil {
			return err
		}
		_, err = w.Write(page)
		return err
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(graphmodel.Build(topo))
	}
}

func init() {
	topologyCmd.Flags().StringVarP(&topologyFormat, "format", "f", "", "output format: json, mermaid or html (overrides output.format)")
	topologyCmd.Flags().StringVarP(&topologyOutput, "output", "o", "", "write to file instead of stdout")
	topologyCmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	rootCmd.AddCommand(topologyCmd)
}

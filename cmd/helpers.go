package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ziadkadry99/routemap/internal/config"
	"github.com/ziadkadry99/routemap/internal/flowdoc"
	"github.com/ziadkadry99/routemap/internal/progress"
	"github.com/ziadkadry99/routemap/internal/project"
	"github.com/ziadkadry99/routemap/internal/walker"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `routemap init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// deriveOptions maps config onto derivation options.
func deriveOptions(cfg *config.Config) project.DeriveOptions {
	return project.DeriveOptions{
		InternalSchemes: cfg.InternalSchemes,
		SkipMalformed:   cfg.SkipMalformed,
	}
}

// loadDir walks dir for flow files and parses them. Parse failures are
// fatal unless skip_malformed is set.
func loadDir(cfg *config.Config, log *slog.Logger, dir string, r progress.Reporter) ([]flowdoc.Document, error) {
	files, err := walker.Walk(walker.WalkerConfig{
		RootDir: dir,
		Include: cfg.Include,
		Exclude: cfg.Exclude,
	})
	if err != nil {
		return nil, err
	}
	log.Debug("discovered flow files", "dir", dir, "count", len(files))

	docs, err := walker.Load(files, r)
	if err := project.HandleLoadErrors(log, err, cfg.SkipMalformed); err != nil {
		return nil, err
	}
	log.Debug("parsed flow files", "documents", len(docs), "routes", flowdoc.RouteCount(docs))
	return docs, nil
}

package config

import "github.com/ziadkadry99/routemap/internal/topology"

// DefaultIncludes match Camel YAML DSL files.
var DefaultIncludes = []string{
	"**/*.camel.yaml",
	"**/*.camel.yml",
}

// DefaultExcludes are glob patterns skipped while looking for flow files.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"target/**",
	"build/**",
	"dist/**",
	".routemap/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Include:         append([]string(nil), DefaultIncludes...),
		Exclude:         append([]string(nil), DefaultExcludes...),
		InternalSchemes: append([]string(nil), topology.DefaultInternalSchemes...),
		Output:          OutputConfig{Format: FormatJSON},
		Log:             LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			Port:    8080,
			DataDir: ".routemap",
		},
		Cache: CacheConfig{Size: 256},
	}
}

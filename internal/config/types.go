package config

// OutputFormat selects how the topology command prints its result.
type OutputFormat string

const (
	FormatJSON    OutputFormat = "json"
	FormatMermaid OutputFormat = "mermaid"
	FormatHTML    OutputFormat = "html"
)

// Config is the top-level routemap configuration, corresponding to .routemap.yml.
type Config struct {
	Include         []string     `yaml:"include" koanf:"include"`
	Exclude         []string     `yaml:"exclude" koanf:"exclude"`
	InternalSchemes []string     `yaml:"internal_schemes" koanf:"internal_schemes"`
	SkipMalformed   bool         `yaml:"skip_malformed" koanf:"skip_malformed"`
	Output          OutputConfig `yaml:"output" koanf:"output"`
	Log             LogConfig    `yaml:"log" koanf:"log"`
	Server          ServerConfig `yaml:"server" koanf:"server"`
	Cache           CacheConfig  `yaml:"cache" koanf:"cache"`
}

// OutputConfig holds settings for the topology command.
type OutputConfig struct {
	Format OutputFormat `yaml:"format" koanf:"format"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int    `yaml:"port" koanf:"port"`
	DataDir         string `yaml:"data_dir" koanf:"data_dir"`
	AllowAllOrigins bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// CacheConfig sizes the parsed document cache.
type CacheConfig struct {
	Size int `yaml:"size" koanf:"size"`
}

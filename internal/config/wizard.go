package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// DefaultPath is the configuration file written by the wizard.
const DefaultPath = ".routemap.yml"

// projectMarkers maps build files to a project description and the extra
// excludes that usually hold generated copies of flow files.
var projectMarkers = map[string]struct {
	Name    string
	Exclude string
}{
	"pom.xml":      {Name: "Maven", Exclude: "target/**"},
	"build.gradle": {Name: "Gradle", Exclude: "build/**"},
	"package.json": {Name: "Node.js", Exclude: "node_modules/**"},
}

// detectProject checks the current directory for well-known build files.
func detectProject() (name string, exclude string) {
	for marker, info := range projectMarkers {
		matches, _ := filepath.Glob(marker)
		if len(matches) > 0 {
			return info.Name, info.Exclude
		}
	}
	return "", ""
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .routemap.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to routemap! Let's configure your project.")
	fmt.Println()

	cfg := DefaultConfig()

	projType, extraExclude := detectProject()
	if projType != "" {
		fmt.Printf("Detected %s project\n\n", projType)
	}

	includePrompt := promptui.Prompt{
		Label:   "Flow file patterns (comma-separated globs)",
		Default: strings.Join(DefaultIncludes, ", "),
	}
	includeStr, err := includePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}
	if include := splitAndTrim(includeStr); len(include) > 0 {
		cfg.Include = include
	}

	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
		Default: extraExclude,
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	for _, p := range splitAndTrim(excludeStr) {
		if !contains(cfg.Exclude, p) {
			cfg.Exclude = append(cfg.Exclude, p)
		}
	}

	schemesPrompt := promptui.Prompt{
		Label:   "Internal schemes (comma-separated)",
		Default: strings.Join(cfg.InternalSchemes, ", "),
	}
	schemesStr, err := schemesPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("internal schemes: %w", err)
	}
	if schemes := splitAndTrim(schemesStr); len(schemes) > 0 {
		cfg.InternalSchemes = schemes
	}

	formatPrompt := promptui.Select{
		Label: "Default output format",
		Items: []string{
			"json    - graph model for renderers",
			"mermaid - diagram source",
			"html    - standalone report",
		},
	}
	formatIdx, _, err := formatPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("format selection: %w", err)
	}
	cfg.Output.Format = []OutputFormat{FormatJSON, FormatMermaid, FormatHTML}[formatIdx]

	portPrompt := promptui.Prompt{
		Label:   "HTTP server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			_, err := parsePort(s)
			return err
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}
	if cfg.Server.Port, err = parsePort(portStr); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(DefaultPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and drops empty entries.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// parsePort reads a TCP port number.
func parsePort(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > 65535 {
		return 0, fmt.Errorf("port must be a number between 0 and 65535, got %q", s)
	}
	return n, nil
}

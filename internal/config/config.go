// Package config loads the stdlinks configuration: a small YAML file plus a
// couple of environment overrides inherited from the original tooling
// contract (RUSTDOC for the resolver binary, SPEC_RELATIVE=0 for absolute
// URLs).
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	serrors "git.home.luguber.info/inful/stdlinks/internal/errors"
)

// RelativeEnvVar disables relative-link output when set to "0". Useful for
// working locally without the link checker.
const RelativeEnvVar = "SPEC_RELATIVE"

// Config represents the application configuration.
type Config struct {
	Book     BookConfig     `yaml:"book"`
	Resolver ResolverConfig `yaml:"resolver"`
	Links    LinksConfig    `yaml:"links"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// BookConfig locates the book sources and the rewrite output.
type BookConfig struct {
	Src    string `yaml:"src"`
	Output string `yaml:"output"`
}

// ResolverConfig configures the external resolver invocation.
type ResolverConfig struct {
	Binary  string `yaml:"binary,omitempty"`  // default: rustdoc (RUSTDOC env overrides)
	Edition string `yaml:"edition,omitempty"` // default: 2021
}

// LinksConfig controls URL output.
type LinksConfig struct {
	// Relative rewrites canonical documentation URLs as relative paths using
	// each chapter's nesting depth. SPEC_RELATIVE=0 forces absolute URLs.
	Relative *bool `yaml:"relative,omitempty"`
}

// MetricsConfig configures the optional Prometheus endpoint in watch mode.
type MetricsConfig struct {
	Listen string `yaml:"listen,omitempty"` // e.g. ":9090"; empty disables
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Book:     BookConfig{Src: "./src", Output: "./out"},
		Resolver: ResolverConfig{Edition: "2021"},
	}
}

// Load loads configuration from the specified file, falling back to defaults
// when the file does not exist. A .env file is consulted first so RUSTDOC and
// SPEC_RELATIVE can live next to the book.
func Load(configPath string) (*Config, error) {
	// Ignore a missing .env; it is a local convenience only.
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryConfig, serrors.SeverityFatal, "failed to read configuration").WithContext("path", configPath)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryConfig, serrors.SeverityFatal, "failed to parse configuration").WithContext("path", configPath)
	}
	return cfg, nil
}

// RelativeLinks reports the effective URL output mode: the config value
// (default true) unless SPEC_RELATIVE=0 overrides it.
func (c *Config) RelativeLinks() bool {
	if os.Getenv(RelativeEnvVar) == "0" {
		return false
	}
	if c.Links.Relative != nil {
		return *c.Links.Relative
	}
	return true
}

const defaultConfigTemplate = `# stdlinks configuration
book:
  src: ./src
  output: ./out

resolver:
  # binary: rustdoc      # RUSTDOC env var takes precedence
  edition: "2021"

links:
  relative: true         # SPEC_RELATIVE=0 forces absolute URLs

metrics:
  # listen: ":9090"      # Prometheus endpoint for watch mode
`

// Init writes a default configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return serrors.New(serrors.CategoryConfig, serrors.SeverityFatal,
			fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath))
	}
	if err := os.WriteFile(configPath, []byte(defaultConfigTemplate), 0o644); err != nil {
		return serrors.Wrap(err, serrors.CategoryFileSystem, serrors.SeverityFatal, "failed to write configuration").WithContext("path", configPath)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultRoot          = "."
	defaultEdgelessDir   = "edgeless"
	defaultLatencyConfig = "node_to_orc_latency_measurement/config.json"
	defaultLogFormat     = "console"
)

// Config aggregates the settings of a propagation run.
// Precedence: CLI flags > YAML config > Defaults
type Config struct {
	Root          string `yaml:"root"`
	EdgelessDir   string `yaml:"edgeless_dir"`
	LatencyConfig string `yaml:"latency_config"`
	Variant       string `yaml:"variant"`
	NodeIP        string `yaml:"node_ip"`
	ControllerIP  string `yaml:"controller_ip"`
	LogFormat     string `yaml:"log_format"`
	DryRun        bool   `yaml:"dry_run"`
	Strict        bool   `yaml:"strict"`
	Verbose       bool   `yaml:"verbose"`
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Root          string      `yaml:"root"`
	EdgelessDir   string      `yaml:"edgeless_dir"`
	LatencyConfig string      `yaml:"latency_config"`
	Variant       string      `yaml:"variant"`
	Addresses     yamlAddress `yaml:"addresses"`
	Log           yamlLog     `yaml:"log"`
	DryRun        bool        `yaml:"dry_run"`
	Strict        bool        `yaml:"strict"`
}

// yamlAddress represents the addresses section in YAML.
type yamlAddress struct {
	Node       string `yaml:"node"`
	Controller string `yaml:"controller"`
}

// yamlLog represents the log section in YAML.
type yamlLog struct {
	Format  string `yaml:"format"`
	Verbose bool   `yaml:"verbose"`
}

// CLIOverrides holds command-line flag overrides. Nil fields were not set.
type CLIOverrides struct {
	ConfigFile    string
	Root          *string
	EdgelessDir   *string
	LatencyConfig *string
	Variant       *string
	NodeIP        *string
	ControllerIP  *string
	LogFormat     *string
	DryRun        *bool
	Strict        *bool
	Verbose       *bool
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Root:          defaultRoot,
		EdgelessDir:   defaultEdgelessDir,
		LatencyConfig: filepath.FromSlash(defaultLatencyConfig),
		LogFormat:     defaultLogFormat,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	setString(&cfg.Root, yamlCfg.Root)
	setString(&cfg.EdgelessDir, yamlCfg.EdgelessDir)
	setString(&cfg.LatencyConfig, yamlCfg.LatencyConfig)
	setString(&cfg.Variant, yamlCfg.Variant)
	setString(&cfg.NodeIP, yamlCfg.Addresses.Node)
	setString(&cfg.ControllerIP, yamlCfg.Addresses.Controller)
	setString(&cfg.LogFormat, yamlCfg.Log.Format)

	cfg.DryRun = yamlCfg.DryRun
	cfg.Strict = yamlCfg.Strict
	cfg.Verbose = yamlCfg.Log.Verbose
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	setStringPtr(&cfg.Root, overrides.Root)
	setStringPtr(&cfg.EdgelessDir, overrides.EdgelessDir)
	setStringPtr(&cfg.LatencyConfig, overrides.LatencyConfig)
	setStringPtr(&cfg.Variant, overrides.Variant)
	setStringPtr(&cfg.NodeIP, overrides.NodeIP)
	setStringPtr(&cfg.ControllerIP, overrides.ControllerIP)
	setStringPtr(&cfg.LogFormat, overrides.LogFormat)

	if overrides.DryRun != nil {
		cfg.DryRun = *overrides.DryRun
	}
	if overrides.Strict != nil {
		cfg.Strict = *overrides.Strict
	}
	if overrides.Verbose != nil {
		cfg.Verbose = *overrides.Verbose
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	switch cfg.Variant {
	case "", "debug", "release":
	default:
		return fmt.Errorf("variant must be debug or release, got %q", cfg.Variant)
	}
	switch cfg.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log format must be console or json, got %q", cfg.LogFormat)
	}
	if strings.TrimSpace(cfg.EdgelessDir) == "" {
		return fmt.Errorf("edgeless directory cannot be empty")
	}
	if strings.TrimSpace(cfg.LatencyConfig) == "" {
		return fmt.Errorf("latency config path cannot be empty")
	}
	return nil
}

func setString(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}

func setStringPtr(dst *string, value *string) {
	if value != nil {
		setString(dst, *value)
	}
}

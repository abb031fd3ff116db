// Package config loads the calcpad server configuration from a YAML file
// with environment-variable fallbacks.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the server configuration.
type Config struct {
	// Listen is the HTTP listen address, e.g. "0.0.0.0:8787".
	Listen string `yaml:"listen"`
	// FormulasFile is the JSON snapshot path for the formula store. Empty
	// means in-memory only.
	FormulasFile string `yaml:"formulas_file"`
	// SeedFile is an optional YAML file of name -> expression pairs loaded
	// at startup.
	SeedFile string `yaml:"seed_file"`
	// MaxExpressionLength overrides the engine's expression length ceiling.
	MaxExpressionLength int `yaml:"max_expression_length"`
}

// Default returns the configuration used when no file or env is present.
func Default() Config {
	return Config{Listen: "0.0.0.0:8787"}
}

// Load reads a YAML config file, then applies environment overrides
// (LISTEN, FORMULAS_FILE, SEED_FILE, MAX_EXPRESSION_LENGTH). An empty path
// skips the file and uses defaults plus environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("decoding config %s: %w", path, err)
		}
		if cfg.Listen == "" {
			cfg.Listen = Default().Listen
		}
	}

	if v := os.Getenv("LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("FORMULAS_FILE"); v != "" {
		cfg.FormulasFile = v
	}
	if v := os.Getenv("SEED_FILE"); v != "" {
		cfg.SeedFile = v
	}
	if v := os.Getenv("MAX_EXPRESSION_LENGTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid MAX_EXPRESSION_LENGTH %q", v)
		}
		cfg.MaxExpressionLength = n
	}

	return cfg, nil
}

// Package config loads the daemon's configuration, merging built-in
// defaults with an optional YAML file. Command-line flag overrides are not
// applied here; cmd/connectengined applies them to the loaded Config.
package config

import (
	"os"

	"github.com/imdario/mergo"
	"gopkg.in/yaml.v3"

	"github.com/tapvolt/connect-engine/pkg/errors"
	"github.com/tapvolt/connect-engine/pkg/logging"
)

// Config is the daemon-level configuration: where state lives, what the
// default endpoint and client name are, and how verbose logging should be.
type Config struct {
	StateDir     string `yaml:"stateDir"`
	ClientName   string `yaml:"clientName"`
	DefaultURL   string `yaml:"defaultUrl"`
	LogLevel     string `yaml:"logLevel"`
	TraceFrames  bool   `yaml:"traceFrames"`
}

// Default returns the built-in configuration used when no file or flags
// override it.
func Default() Config {
	return Config{
		StateDir:   "/var/lib/connect-engine",
		ClientName: "tapvolt-mobile",
		LogLevel:   "info",
	}
}

// LoadFile reads a YAML config file and merges it over Default(), with file
// values taking precedence over defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Debug().Str("path", path).Msg("config: no file found, using defaults")
			return cfg, nil
		}
		return cfg, errors.WrapAndMonitor(err, "read config file")
	}

	var fromFile Config
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return cfg, errors.WrapAndMonitor(err, "parse config file")
	}
	if err := mergo.Merge(&cfg, fromFile, mergo.WithOverride); err != nil {
		return cfg, errors.WrapAndMonitor(err, "merge config file over defaults")
	}
	return cfg, nil
}

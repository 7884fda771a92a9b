// Package config loads the settings of the worldclock command.
//
// Settings come from, in order of precedence:
//  1. command line flags (applied by the command)
//  2. environment variables
//  3. a YAML file
//  4. defaults
//
// Supported environment variables:
//   - WORLDCLOCK_ZONEINFO: zoneinfo directory to read zones from
//   - WORLDCLOCK_DST_STRATEGY: "scan" or "table"
//   - WORLDCLOCK_LOG_LEVEL: log level name or prefix
//
// Example file:
//
//	timezones:
//	  UTC: UTC
//	  PST: America/Los_Angeles
//	  CET: Europe/Berlin
//	extra: [Asia/Kathmandu]
//	dst_info: true
//	also_in: true
//	dst_strategy: table
//	log_level: warn
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ngrash/worldclock/abbrev"
	"github.com/ngrash/worldclock/internal/logging"
)

const (
	StrategyScan  = "scan"
	StrategyTable = "table"

	DefaultDSTStrategy = StrategyScan
	DefaultLogLevel    = "warning"
)

// Config holds the settings of one invocation.
type Config struct {
	// Timezones replaces the built-in table if set.
	Timezones *abbrev.Table `yaml:"timezones"`
	// Extra labels are added to the table, each mapped to itself.
	Extra []string `yaml:"extra"`
	// Only replaces the table with these labels, each mapped to itself.
	Only []string `yaml:"only"`

	DSTInfo     bool   `yaml:"dst_info"`
	AlsoIn      bool   `yaml:"also_in"`
	Long        bool   `yaml:"long"`
	StrictFold  bool   `yaml:"strict_fold"`
	SkipUnknown bool   `yaml:"skip_unknown"`
	Zoneinfo    string `yaml:"zoneinfo"`
	DSTStrategy string `yaml:"dst_strategy"`
	LogLevel    string `yaml:"log_level"`
}

// Load reads the YAML file at path and applies environment overrides and
// defaults. An empty path skips the file. The result is not validated;
// callers merge their own overrides first and then call Validate.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("WORLDCLOCK_ZONEINFO"); val != "" {
		cfg.Zoneinfo = val
	}
	if val := os.Getenv("WORLDCLOCK_DST_STRATEGY"); val != "" {
		cfg.DSTStrategy = val
	}
	if val := os.Getenv("WORLDCLOCK_LOG_LEVEL"); val != "" {
		cfg.LogLevel = val
	}
}

func applyDefaults(cfg *Config) {
	if cfg.DSTStrategy == "" {
		cfg.DSTStrategy = DefaultDSTStrategy
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}

// Validate checks settings that may have been changed after Load.
func (c *Config) Validate() error {
	var errs []error
	switch c.DSTStrategy {
	case StrategyScan, StrategyTable:
	default:
		errs = append(errs, fmt.Errorf("dst_strategy must be %q or %q, got %q", StrategyScan, StrategyTable, c.DSTStrategy))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level %q: %w", c.LogLevel, err))
	}
	if c.Table().Len() == 0 {
		errs = append(errs, errors.New("no timezones to show"))
	}
	return errors.Join(errs...)
}

// BaseTable returns the configured table or the built-in one. Its labels
// are the zone names understood in reference times.
func (c *Config) BaseTable() abbrev.Table {
	if c.Timezones != nil {
		return *c.Timezones
	}
	return abbrev.Default()
}

// Table returns the labels to report: the base table extended by Extra,
// or replaced by Only.
func (c *Config) Table() abbrev.Table {
	if len(c.Only) > 0 {
		return abbrev.Only(c.Only...)
	}
	return c.BaseTable().WithExtra(c.Extra...)
}

// Package config loads kmadmin settings from defaults, the YAML config
// file, KMADMIN_ environment variables and command-line flags.
package config

import (
	"fmt"
	"slices"
	"time"

	"kmadmin/internal/grid"
	"kmadmin/internal/logger"
)

// Output formats accepted by the list command.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// Defaults.
const (
	DefaultDirName     = ".kmadmin"
	DefaultConfigName  = "config.yaml"
	DefaultDBName      = "kmadmin.db"
	DefaultLogName     = "kmadmin.log"
	DefaultBasePath    = "/kafka"
	DefaultLogLevel    = "info"
	DefaultOutput      = OutputTable
	DefaultDatePattern = grid.DefaultDatePattern
)

// Config holds the resolved settings.
type Config struct {
	DBPath      string `koanf:"db_path"`
	DatePattern string `koanf:"date_pattern"`
	BasePath    string `koanf:"base_path"`
	Timezone    string `koanf:"timezone"`
	PrettyJSON  bool   `koanf:"pretty_json"`
	Operator    string `koanf:"operator"`
	LogLevel    string `koanf:"log_level"`
	LogFile     string `koanf:"log_file"`
	Output      string `koanf:"output"`

	// ConfigFile is the file the settings were read from, if any.
	ConfigFile string `koanf:"-"`
	// Dir is the directory holding the database, prefs and log by default.
	Dir string `koanf:"-"`
}

// Validate checks enumerated values and the timezone.
func (c *Config) Validate() error {
	if !slices.Contains([]string{OutputTable, OutputJSON, OutputYAML}, c.Output) {
		return fmt.Errorf("invalid output %q (want table, json or yaml)", c.Output)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	return nil
}

// Location resolves Timezone. Empty means local time.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// GridOptions maps the display settings onto the column model.
func (c *Config) GridOptions() (grid.Options, error) {
	loc, err := c.Location()
	if err != nil {
		return grid.Options{}, err
	}
	return grid.Options{
		DatePattern: c.DatePattern,
		BasePath:    c.BasePath,
		Location:    loc,
		PrettyJSON:  c.PrettyJSON,
	}, nil
}

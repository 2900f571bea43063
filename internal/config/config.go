// Package config loads the HCL configuration for the headsup server.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config represents the complete server configuration
type Config struct {
	Server      ServerSettings
	Storage     StorageSettings
	Tables      []TableConfig
	HandHistory HandHistorySettings
}

// file is the HCL shape. Singleton blocks are pointers so they may be omitted.
type file struct {
	Server      *ServerSettings      `hcl:"server,block"`
	Storage     *StorageSettings     `hcl:"storage,block"`
	Tables      []TableConfig        `hcl:"table,block"`
	HandHistory *HandHistorySettings `hcl:"hand_history,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address   string `hcl:"address,optional"`
	Port      int    `hcl:"port,optional"`
	LogLevel  string `hcl:"log_level,optional"`
	LogFormat string `hcl:"log_format,optional"`
}

// StorageSettings selects where games and hands are persisted.
type StorageSettings struct {
	Driver string `hcl:"driver,optional"`
	DSN    string `hcl:"dsn,optional"`
}

// TableConfig is a named set of stakes games can be created with.
type TableConfig struct {
	Name          string `hcl:"name,label"`
	SmallBlind    int    `hcl:"small_blind"`
	BigBlind      int    `hcl:"big_blind"`
	StartingChips int    `hcl:"starting_chips,optional"`
}

// HandHistorySettings controls PHH export of completed hands.
type HandHistorySettings struct {
	Enabled          bool   `hcl:"enabled,optional"`
	Dir              string `hcl:"dir,optional"`
	IncludeHoleCards bool   `hcl:"include_hole_cards,optional"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{
		Tables: []TableConfig{{Name: "main", SmallBlind: 10, BigBlind: 20}},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw file
	diags = gohcl.DecodeBody(hclFile.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := Config{Tables: raw.Tables}
	if raw.Server != nil {
		cfg.Server = *raw.Server
	}
	if raw.Storage != nil {
		cfg.Storage = *raw.Storage
	}
	if raw.HandHistory != nil {
		cfg.HandHistory = *raw.HandHistory
	}
	if len(cfg.Tables) == 0 {
		cfg.Tables = Default().Tables
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Server.LogFormat == "" {
		c.Server.LogFormat = "console"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverMemory
	}
	if c.Storage.Driver == DriverSQLite && c.Storage.DSN == "" {
		c.Storage.DSN = "headsup.db"
	}
	if c.HandHistory.Dir == "" {
		c.HandHistory.Dir = "hands"
	}
	for i := range c.Tables {
		if c.Tables[i].StartingChips == 0 {
			c.Tables[i].StartingChips = c.Tables[i].BigBlind * 100 // 100 big blinds
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Server.LogLevel)
	}
	switch c.Server.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format: %s", c.Server.LogFormat)
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage driver %s requires a dsn", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver: %s", c.Storage.Driver)
	}

	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}
	seen := make(map[string]bool, len(c.Tables))
	for _, table := range c.Tables {
		if seen[table.Name] {
			return fmt.Errorf("table %s: defined more than once", table.Name)
		}
		seen[table.Name] = true
		if table.SmallBlind <= 0 {
			return fmt.Errorf("table %s: small blind must be positive", table.Name)
		}
		if table.BigBlind <= table.SmallBlind {
			return fmt.Errorf("table %s: big blind must be greater than small blind", table.Name)
		}
		if table.StartingChips < table.BigBlind {
			return fmt.Errorf("table %s: starting chips must cover the big blind", table.Name)
		}
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// Table returns a table configuration by name
func (c *Config) Table(name string) (TableConfig, bool) {
	for _, table := range c.Tables {
		if table.Name == name {
			return table, true
		}
	}
	return TableConfig{}, false
}

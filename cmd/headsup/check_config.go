package main

import (
	"fmt"
	"os"

	"github.com/lox/headsup/internal/config"
)

// CheckConfigCmd validates a configuration file and prints what it resolves to.
type CheckConfigCmd struct {
	Path string `arg:"" default:"headsup.hcl" help:"Path to the HCL configuration file"`
}

func (c *CheckConfigCmd) Run() error {
	if _, err := os.Stat(c.Path); err != nil {
		return fmt.Errorf("config %s: %w", c.Path, err)
	}
	cfg, err := config.Load(c.Path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", c.Path, err)
	}

	fmt.Printf("%s is valid\n", c.Path)
	fmt.Printf("  listen:   %s\n", cfg.Addr())
	fmt.Printf("  logging:  %s (%s)\n", cfg.Server.LogLevel, cfg.Server.LogFormat)
	fmt.Printf("  storage:  %s\n", cfg.Storage.Driver)
	for _, t := range cfg.Tables {
		fmt.Printf("  table %-10s %d/%d, %d chips\n", t.Name, t.SmallBlind, t.BigBlind, t.StartingChips)
	}
	if cfg.HandHistory.Enabled {
		fmt.Printf("  history:  %s\n", cfg.HandHistory.Dir)
	}
	return nil
}

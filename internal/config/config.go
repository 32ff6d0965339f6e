// Package config loads the HCL server configuration.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete server configuration
type Config struct {
	Server Server `hcl:"server,block"`
	Tables Tables `hcl:"tables,block"`
}

// Server holds process-level settings
type Server struct {
	Address  string `hcl:"address,optional"`
	LogLevel string `hcl:"log_level,optional"`
	DataDir  string `hcl:"data_dir,optional"`
}

// Tables holds the defaults applied to newly created tables
type Tables struct {
	SmallBlind    int    `hcl:"small_blind,optional"`
	StartingStack int    `hcl:"starting_stack,optional"`
	MaxSeats      int    `hcl:"max_seats,optional"`
	Variant       string `hcl:"variant,optional"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Server: Server{
			Address:  ":8080",
			LogLevel: "info",
			DataDir:  "data",
		},
		Tables: Tables{
			SmallBlind:    10,
			StartingStack: 1000,
			MaxSeats:      8,
			Variant:       "texas_holdem",
		},
	}
}

// Load reads an HCL config file, falling back to defaults for a missing
// file and for any unset field.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", filename, diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %s", filename, diags.Error())
	}

	def := Default()
	if cfg.Server.Address == "" {
		cfg.Server.Address = def.Server.Address
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = def.Server.LogLevel
	}
	if cfg.Server.DataDir == "" {
		cfg.Server.DataDir = def.Server.DataDir
	}
	if cfg.Tables.SmallBlind == 0 {
		cfg.Tables.SmallBlind = def.Tables.SmallBlind
	}
	if cfg.Tables.StartingStack == 0 {
		cfg.Tables.StartingStack = def.Tables.StartingStack
	}
	if cfg.Tables.MaxSeats == 0 {
		cfg.Tables.MaxSeats = def.Tables.MaxSeats
	}
	if cfg.Tables.Variant == "" {
		cfg.Tables.Variant = def.Tables.Variant
	}

	return &cfg, nil
}

// Validate checks the configuration for nonsense values
func (c *Config) Validate() error {
	if c.Tables.SmallBlind <= 0 {
		return fmt.Errorf("small_blind must be positive, got %d", c.Tables.SmallBlind)
	}
	if c.Tables.StartingStack <= c.Tables.SmallBlind {
		return fmt.Errorf("starting_stack %d must exceed small_blind %d",
			c.Tables.StartingStack, c.Tables.SmallBlind)
	}
	if c.Tables.MaxSeats < 2 || c.Tables.MaxSeats > 10 {
		return fmt.Errorf("max_seats must be between 2 and 10, got %d", c.Tables.MaxSeats)
	}
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/lox/blackjack/internal/config"
)

// Globals are flags shared by every command.
type Globals struct {
	Config   string `short:"c" help:"HCL config file (default $BLACKJACK_CONFIG or blackjack.hcl)" type:"path"`
	EnvFile  string `name:"env-file" help:"Load BLACKJACK_* variables from this file" default:".env" type:"path"`
	LogLevel string `help:"Log level (debug, info, warn, error)"`
	LogFile  string `help:"Append logs to this file" type:"path"`
}

// LoadConfig layers the config file, the environment and the flags, in
// that order, and validates the result.
func (g *Globals) LoadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(g.EnvFile); err != nil {
		return nil, err
	}

	cfg, err := config.Load(config.Path(g.Config, os.Getenv))
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.LogFile != "" {
		cfg.Log.File = g.LogFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

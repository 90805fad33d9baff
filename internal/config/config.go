// Package config loads the appliance configuration from HCL, with
// BLACKJACK_* environment overrides (optionally from a .env file).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"

	"github.com/lox/blackjack/internal/appliance"
)

// DefaultPath is used when neither a flag nor BLACKJACK_CONFIG names a file.
const DefaultPath = "blackjack.hcl"

// Environment variables read by ApplyEnv.
const (
	EnvConfig    = "BLACKJACK_CONFIG"
	EnvSeed      = "BLACKJACK_SEED"
	EnvAssets    = "BLACKJACK_ASSETS"
	EnvI2CDevice = "BLACKJACK_I2C_DEVICE"
	EnvLogLevel  = "BLACKJACK_LOG_LEVEL"
)

// Config is the complete appliance configuration
type Config struct {
	Bus    BusSettings
	Assets AssetSettings
	Pacing PacingSettings
	Game   GameSettings
	Log    LogSettings
}

// BusSettings describes the I²C wiring
type BusSettings struct {
	Device        string `hcl:"device,optional"`
	StatusDevice  string `hcl:"status_device,optional"`
	MuxAddress    int    `hcl:"mux_address,optional"`
	PanelAddress  int    `hcl:"panel_address,optional"`
	StatusAddress int    `hcl:"status_address,optional"`
}

// AssetSettings locates the card bitmaps
type AssetSettings struct {
	Dir string `hcl:"dir,optional"`
}

// PacingSettings holds screen timings in milliseconds
type PacingSettings struct {
	ShortMS  int `hcl:"short_ms,optional"`
	PauseMS  int `hcl:"pause_ms,optional"`
	ResultMS int `hcl:"result_ms,optional"`
}

// GameSettings controls shuffling
type GameSettings struct {
	Seed int64 `hcl:"seed,optional"`
}

// LogSettings controls log output
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// file mirrors Config with every block optional.
type file struct {
	Bus    *BusSettings    `hcl:"bus,block"`
	Assets *AssetSettings  `hcl:"assets,block"`
	Pacing *PacingSettings `hcl:"pacing,block"`
	Game   *GameSettings   `hcl:"game,block"`
	Log    *LogSettings    `hcl:"log,block"`
}

// Default returns the configuration for the reference cabinet: cards on
// /dev/i2c-1 behind a mux at 0x70, the status panel on the same bus at 0x3D.
func Default() *Config {
	return &Config{
		Bus: BusSettings{
			Device:        "/dev/i2c-1",
			MuxAddress:    0x70,
			PanelAddress:  0x3C,
			StatusAddress: 0x3D,
		},
		Assets: AssetSettings{
			Dir: "assets",
		},
		Pacing: PacingSettings{
			ShortMS:  2000,
			PauseMS:  3000,
			ResultMS: 5000,
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}

// Load reads an HCL file. A missing file yields the defaults; fields left
// out of the file keep their defaults.
func Load(filename string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return cfg, nil
	}

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw file
	diags = gohcl.DecodeBody(f.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.merge(&raw)
	return cfg, nil
}

func (c *Config) merge(f *file) {
	if b := f.Bus; b != nil {
		setString(&c.Bus.Device, b.Device)
		setString(&c.Bus.StatusDevice, b.StatusDevice)
		setInt(&c.Bus.MuxAddress, b.MuxAddress)
		setInt(&c.Bus.PanelAddress, b.PanelAddress)
		setInt(&c.Bus.StatusAddress, b.StatusAddress)
	}
	if a := f.Assets; a != nil {
		setString(&c.Assets.Dir, a.Dir)
	}
	if p := f.Pacing; p != nil {
		setInt(&c.Pacing.ShortMS, p.ShortMS)
		setInt(&c.Pacing.PauseMS, p.PauseMS)
		setInt(&c.Pacing.ResultMS, p.ResultMS)
	}
	if g := f.Game; g != nil && g.Seed != 0 {
		c.Game.Seed = g.Seed
	}
	if l := f.Log; l != nil {
		setString(&c.Log.Level, l.Level)
		setString(&c.Log.File, l.File)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

// LoadDotEnv exports the variables in a .env file into the process
// environment without replacing ones already set. A missing file is fine.
func LoadDotEnv(filename string) error {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(filename); err != nil {
		return fmt.Errorf("failed to load %s: %w", filename, err)
	}
	return nil
}

// Path resolves the config file: an explicit path wins, then
// BLACKJACK_CONFIG, then DefaultPath.
func Path(explicit string, getenv func(string) string) string {
	if explicit != "" {
		return explicit
	}
	if p := getenv(EnvConfig); p != "" {
		return p
	}
	return DefaultPath
}

// ApplyEnv overrides fields from BLACKJACK_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		c.Game.Seed = seed
	}
	setString(&c.Assets.Dir, getenv(EnvAssets))
	setString(&c.Bus.Device, getenv(EnvI2CDevice))
	setString(&c.Log.Level, getenv(EnvLogLevel))
	return nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.Bus.Device == "" {
		return fmt.Errorf("bus device is required")
	}
	for _, a := range []struct {
		name string
		addr int
	}{
		{"mux_address", c.Bus.MuxAddress},
		{"panel_address", c.Bus.PanelAddress},
		{"status_address", c.Bus.StatusAddress},
	} {
		// 7-bit addresses outside the reserved ranges
		if a.addr < 0x08 || a.addr > 0x77 {
			return fmt.Errorf("invalid %s: 0x%02x", a.name, a.addr)
		}
	}
	if c.Bus.MuxAddress == c.Bus.PanelAddress {
		return fmt.Errorf("mux and panel share address 0x%02x", c.Bus.MuxAddress)
	}
	if c.Bus.StatusDevice == "" || c.Bus.StatusDevice == c.Bus.Device {
		// upstream of the mux the status panel must not alias either device
		if c.Bus.StatusAddress == c.Bus.MuxAddress || c.Bus.StatusAddress == c.Bus.PanelAddress {
			return fmt.Errorf("status panel address 0x%02x collides on %s", c.Bus.StatusAddress, c.Bus.Device)
		}
	}

	if c.Pacing.ShortMS < 0 || c.Pacing.PauseMS < 0 || c.Pacing.ResultMS < 0 {
		return fmt.Errorf("pacing cannot be negative")
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	return nil
}

// StatusBus returns the device carrying the status panel.
func (c *Config) StatusBus() string {
	if c.Bus.StatusDevice == "" {
		return c.Bus.Device
	}
	return c.Bus.StatusDevice
}

// LogLevel returns the parsed log level, defaulting to info.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// AppliancePacing converts the millisecond timings.
func (c *Config) AppliancePacing() appliance.Pacing {
	return appliance.Pacing{
		Short:  time.Duration(c.Pacing.ShortMS) * time.Millisecond,
		Pause:  time.Duration(c.Pacing.PauseMS) * time.Millisecond,
		Result: time.Duration(c.Pacing.ResultMS) * time.Millisecond,
	}
}

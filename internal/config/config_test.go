package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadMergesOntoDefaults(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "blackjack.hcl", `
bus {
  device        = "/dev/i2c-0"
  status_device = "/dev/i2c-1"
  status_address = 60
}

pacing {
  result_ms = 8000
}

game {
  seed = 42
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/i2c-0", cfg.Bus.Device)
	assert.Equal(t, "/dev/i2c-1", cfg.StatusBus())
	assert.Equal(t, 0x3C, cfg.Bus.StatusAddress)
	assert.Equal(t, 0x70, cfg.Bus.MuxAddress, "untouched fields keep defaults")
	assert.Equal(t, 0x3C, cfg.Bus.PanelAddress)
	assert.Equal(t, "assets", cfg.Assets.Dir, "absent blocks keep defaults")
	assert.Equal(t, int64(42), cfg.Game.Seed)

	p := cfg.AppliancePacing()
	assert.Equal(t, 2*time.Second, p.Short)
	assert.Equal(t, 3*time.Second, p.Pause)
	assert.Equal(t, 8*time.Second, p.Result)

	// separate buses let the status panel reuse the card address
	require.NoError(t, cfg.Validate())
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", `bus {`, "failed to parse HCL file"},
		{"unknown attribute", `bus { speed = 400 }`, "failed to decode HCL"},
		{"wrong type", `game { seed = "lots" }`, "failed to decode HCL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeFile(t, "bad.hcl", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"no device", func(c *Config) { c.Bus.Device = "" }, "device is required"},
		{"reserved address", func(c *Config) { c.Bus.MuxAddress = 0x02 }, "invalid mux_address"},
		{"ten bit address", func(c *Config) { c.Bus.PanelAddress = 0x100 }, "invalid panel_address"},
		{"first bad address wins", func(c *Config) {
			c.Bus.MuxAddress = 0x01
			c.Bus.PanelAddress = 0x01
			c.Bus.StatusAddress = 0x01
		}, "invalid mux_address"},
		{"panel before status", func(c *Config) {
			c.Bus.PanelAddress = 0x7F
			c.Bus.StatusAddress = 0x7F
		}, "invalid panel_address"},
		{"mux collides", func(c *Config) { c.Bus.PanelAddress = 0x70 }, "share address"},
		{"status collides", func(c *Config) { c.Bus.StatusAddress = 0x3C }, "collides"},
		{"negative pacing", func(c *Config) { c.Pacing.PauseMS = -1 }, "negative"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		EnvSeed:      "7",
		EnvAssets:    "/srv/cards",
		EnvI2CDevice: "/dev/i2c-3",
		EnvLogLevel:  "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Game.Seed)
	assert.Equal(t, "/srv/cards", cfg.Assets.Dir)
	assert.Equal(t, "/dev/i2c-3", cfg.Bus.Device)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel())

	err = cfg.ApplyEnv(envMap(map[string]string{EnvSeed: "soon"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvSeed)
	assert.Equal(t, int64(7), cfg.Game.Seed)
}

func TestPath(t *testing.T) {
	t.Parallel()

	env := envMap(map[string]string{EnvConfig: "/etc/blackjack.hcl"})
	assert.Equal(t, "mine.hcl", Path("mine.hcl", env))
	assert.Equal(t, "/etc/blackjack.hcl", Path("", env))
	assert.Equal(t, DefaultPath, Path("", envMap(nil)))
}

// Not parallel: mutates the process environment.
func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))

	const key = "BLACKJACK_DOTENV_TEST"
	t.Setenv(EnvLogLevel, "warn")
	require.NoError(t, os.Unsetenv(key))
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := writeFile(t, ".env", key+"=from-file\n"+EnvLogLevel+"=debug\n")
	require.NoError(t, LoadDotEnv(path))

	assert.Equal(t, "from-file", os.Getenv(key))
	assert.Equal(t, "warn", os.Getenv(EnvLogLevel), "existing variables win")
}

func TestLogLevelFallback(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Log.Level = "nonsense"
	assert.Equal(t, log.InfoLevel, cfg.LogLevel())
}

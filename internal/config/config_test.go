package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/sensord/internal/config"
	"codeberg.org/mutker/sensord/internal/errors"
	"codeberg.org/mutker/sensord/internal/sensor"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sensord.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()

	fs := pflag.NewFlagSet("sensord", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))

	return fs
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
log_level = "debug"
schedule = "@every 1m"
report_every = 3
strict = true

[bus]
name = "/dev/i2c-1"

[battery]
trigger_threshold = 320
reset_threshold = 345

[analog]
address = 0x49
channel = 2
coefficient = 0.002

[climate]
variant = "sht21"
address = 0x41
settle_delay = "150ms"
poll_interval = "20ms"
poll_limit = 10

[barometer]
enabled = false

[light]
measurement_delay = "200ms"
`)

	// Set environment variable to point to the test config file
	t.Setenv("SENSORD_CONFIG", configPath)

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "@every 1m", cfg.Schedule)
	assert.Equal(t, uint8(3), cfg.ReportEvery)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "/dev/i2c-1", cfg.Bus.Name)
	assert.Equal(t, 320, cfg.Battery.TriggerThreshold)
	assert.Equal(t, 345, cfg.Battery.ResetThreshold)
	assert.Equal(t, 0x49, cfg.Analog.Address)
	assert.Equal(t, 2, cfg.Analog.Channel)
	assert.InDelta(t, 0.002, cfg.Analog.Coefficient, 1e-12)
	assert.False(t, cfg.Barometer.Enabled)
	assert.Equal(t, 200*time.Millisecond, cfg.Light.MeasurementDelay)

	climate := cfg.ClimateConfig()
	assert.Equal(t, sensor.VariantSHT21, climate.Variant)
	assert.Equal(t, byte(0x41), climate.SHT21.Address)
	assert.Equal(t, 150*time.Millisecond, climate.SHT21.SettleDelay)
	assert.Equal(t, 20*time.Millisecond, climate.SHT21.PollInterval)
	assert.Equal(t, 10, climate.SHT21.PollLimit)
}

func TestLoadDefaults(t *testing.T) {
	// Ensure no config file is used
	t.Setenv("SENSORD_CONFIG", "")

	cfg, err := config.Load(nil, config.WithConfigFile(filepath.Join(t.TempDir(), "missing.toml")))
	require.Error(t, err, "explicit config file must exist")
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))

	cfg, err = config.Load(nil)
	if errors.HasCode(err, errors.ErrReadConfig) {
		t.Skip(config.DefaultConfigPath + " present on this host")
	}
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, config.DefaultSchedule, cfg.Schedule)
	assert.Equal(t, uint8(config.DefaultReportEvery), cfg.ReportEvery)
	assert.Equal(t, 330, cfg.BatteryConfig().TriggerThreshold)
	assert.Equal(t, 340, cfg.BatteryConfig().ResetThreshold)
	assert.True(t, cfg.Barometer.Enabled)

	climate := cfg.ClimateConfig()
	assert.Equal(t, sensor.VariantSHT3x, climate.Variant)
	assert.Equal(t, sensor.DefaultSHT3xConfig(), climate.SHT3x)
	assert.Equal(t, sensor.DefaultSHT21Config(), climate.SHT21)

	assert.Equal(t, sensor.DefaultBH1750Config(), cfg.LightConfig())
	assert.Equal(t, byte(sensor.DefaultADS1115Address), cfg.AnalogConfig().Address)
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	configPath := writeConfig(t, `
This is not a valid TOML file
`)
	t.Setenv("SENSORD_CONFIG", configPath)

	_, err := config.Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestInvalidLogLevel(t *testing.T) {
	t.Setenv("SENSORD_CONFIG", writeConfig(t, `log_level = "invalid"`))

	_, err := config.Load(nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))
}

func TestValidateReportsEveryProblem(t *testing.T) {
	t.Setenv("SENSORD_CONFIG", writeConfig(t, `
schedule = "every now and then"

[battery]
trigger_threshold = 340
reset_threshold = 340

[climate]
variant = "dht22"

[light]
address = 0x80
`))

	_, err := config.Load(nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidSchedule))
	assert.True(t, errors.HasCode(err, errors.ErrInvalidThresholds))
	assert.True(t, errors.HasCode(err, errors.ErrInvalidVariant))
	assert.True(t, errors.HasCode(err, errors.ErrInvalidAddress))
	assert.False(t, errors.HasCode(err, errors.ErrInvalidLogLevel))
}

func TestLogLevelFlag(t *testing.T) {
	t.Setenv("SENSORD_CONFIG", writeConfig(t, `log_level = "error"`))

	cfg, err := config.Load(newFlags(t, "--log-level", "debug", "--climate-variant", "sht21"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel to be set by flag")
	assert.Equal(t, sensor.VariantSHT21, cfg.ClimateConfig().Variant)
}

func TestUnsetFlagsDoNotOverrideFile(t *testing.T) {
	t.Setenv("SENSORD_CONFIG", writeConfig(t, `
log_level = "error"

[barometer]
enabled = false
`))

	cfg, err := config.Load(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.False(t, cfg.Barometer.Enabled)
}

func TestConfigFlag(t *testing.T) {
	t.Setenv("SENSORD_CONFIG", "")
	path := writeConfig(t, `report_every = 1`)

	cfg, err := config.Load(newFlags(t, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, uint8(1), cfg.ReportEvery)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("SENSORD_CONFIG", writeConfig(t, `
[bus]
name = "/dev/i2c-0"
`))
	t.Setenv("SENSORD_BUS_NAME", "/dev/i2c-3")

	cfg, err := config.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "/dev/i2c-3", cfg.Bus.Name)
}

func TestWithEnvPrefix(t *testing.T) {
	t.Setenv("NODE_CONFIG", writeConfig(t, `report_every = 4`))
	t.Setenv("NODE_LOG_LEVEL", "warning")
	t.Setenv("SENSORD_LOG_LEVEL", "debug")

	cfg, err := config.Load(nil, config.WithEnvPrefix("NODE"))
	require.NoError(t, err)
	assert.Equal(t, uint8(4), cfg.ReportEvery)
	assert.Equal(t, "warning", cfg.LogLevel)
}

func TestLogLevel(t *testing.T) {
	assert.True(t, config.LogLevelWarning.IsValid())
	assert.False(t, config.LogLevel("trace").IsValid())
	assert.Equal(t, "debug", config.LogLevelDebug.String())
}

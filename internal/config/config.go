// Package config loads the daemon settings from flags, environment and a
// TOML file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/sensord/internal/battery"
	"codeberg.org/mutker/sensord/internal/errors"
	"codeberg.org/mutker/sensord/internal/measurement"
	"codeberg.org/mutker/sensord/internal/sensor"
	"github.com/robfig/cron/v3"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

const (
	DefaultConfigPath  = "/etc/sensord.toml"
	DefaultEnvPrefix   = "SENSORD"
	DefaultLogLevel    = string(LogLevelInfo)
	DefaultSchedule    = "@every 5m"
	DefaultReportEvery = 12
	DefaultBus         = ""

	maxI2CAddress = 0x7F
)

type Config struct {
	LogLevel    string          `mapstructure:"log_level"`
	Schedule    string          `mapstructure:"schedule"`
	ReportEvery uint8           `mapstructure:"report_every"`
	Strict      bool            `mapstructure:"strict"`
	Bus         BusConfig       `mapstructure:"bus"`
	Battery     BatteryConfig   `mapstructure:"battery"`
	Analog      AnalogConfig    `mapstructure:"analog"`
	Climate     ClimateConfig   `mapstructure:"climate"`
	Barometer   BarometerConfig `mapstructure:"barometer"`
	Light       LightConfig     `mapstructure:"light"`
}

type BusConfig struct {
	// Name is passed to i2creg.Open; empty selects the first bus
	Name string `mapstructure:"name"`
}

type BatteryConfig struct {
	TriggerThreshold int `mapstructure:"trigger_threshold"`
	ResetThreshold   int `mapstructure:"reset_threshold"`
}

type AnalogConfig struct {
	Address     int     `mapstructure:"address"`
	Channel     int     `mapstructure:"channel"`
	MaxVoltage  float64 `mapstructure:"max_voltage"`
	Coefficient float64 `mapstructure:"coefficient"`
}

// ClimateConfig covers both variants. Zero address and settle delay select
// the variant's own default.
type ClimateConfig struct {
	Variant      string        `mapstructure:"variant"`
	Address      int           `mapstructure:"address"`
	Attempts     int           `mapstructure:"attempts"`
	Backoff      time.Duration `mapstructure:"backoff"`
	SettleDelay  time.Duration `mapstructure:"settle_delay"`
	ReadDelay    time.Duration `mapstructure:"read_delay"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	PollLimit    int           `mapstructure:"poll_limit"`
}

type BarometerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Address int  `mapstructure:"address"`
}

type LightConfig struct {
	Address          int           `mapstructure:"address"`
	MeasurementDelay time.Duration `mapstructure:"measurement_delay"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"log-level":       "log_level",
	"schedule":        "schedule",
	"report-every":    "report_every",
	"strict":          "strict",
	"bus":             "bus.name",
	"climate-variant": "climate.variant",
	"barometer":       "barometer.enabled",
}

// RegisterFlags adds the configuration flags to fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "Path to config file (default "+DefaultConfigPath+")")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.String("schedule", DefaultSchedule, "Measurement schedule in cron syntax")
	fs.Uint8("report-every", DefaultReportEvery, "Cycles between info level reports")
	fs.Bool("strict", false, "Exit when a sensor fails to initialize")
	fs.String("bus", DefaultBus, "I2C bus name")
	fs.String("climate-variant", string(sensor.VariantSHT3x), "Temperature/humidity sensor (sht3x, sht21)")
	fs.Bool("barometer", true, "Read the BMP280 barometer")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("schedule", DefaultSchedule)
	v.SetDefault("report_every", DefaultReportEvery)
	v.SetDefault("strict", false)

	v.SetDefault("bus.name", DefaultBus)

	v.SetDefault("battery.trigger_threshold", battery.DefaultTriggerThreshold)
	v.SetDefault("battery.reset_threshold", battery.DefaultResetThreshold)

	v.SetDefault("analog.address", sensor.DefaultADS1115Address)
	v.SetDefault("analog.channel", 0)
	v.SetDefault("analog.max_voltage", 4.096)
	v.SetDefault("analog.coefficient", measurement.DefaultCoefficient)

	sht3x := sensor.DefaultSHT3xConfig()
	sht21 := sensor.DefaultSHT21Config()
	v.SetDefault("climate.variant", string(sensor.VariantSHT3x))
	v.SetDefault("climate.address", 0)
	v.SetDefault("climate.attempts", sht3x.Attempts)
	v.SetDefault("climate.backoff", sht3x.Backoff)
	v.SetDefault("climate.settle_delay", time.Duration(0))
	v.SetDefault("climate.read_delay", sht3x.ReadDelay)
	v.SetDefault("climate.poll_interval", sht21.PollInterval)
	v.SetDefault("climate.poll_limit", sht21.PollLimit)

	v.SetDefault("barometer.enabled", true)
	v.SetDefault("barometer.address", sensor.DefaultBMP280Address)

	v.SetDefault("light.address", sensor.DefaultBH1750Address)
	v.SetDefault("light.measurement_delay", sensor.DefaultBH1750Config().MeasurementDelay)
}

// Load reads the configuration. Precedence, highest first: flags that were
// set, environment, config file, defaults. fs may be nil.
func Load(fs *pflag.FlagSet, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(o)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
				}
			}
		}
	}

	path, explicit := configPath(fs, o)
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		// Only an explicitly requested file has to exist
		if explicit || !os.IsNotExist(err) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func configPath(fs *pflag.FlagSet, o *options) (string, bool) {
	if o.configPath != "" {
		return o.configPath, true
	}

	if fs != nil {
		if path, err := fs.GetString("config"); err == nil && path != "" {
			return path, true
		}
	}

	if path := os.Getenv(o.envPrefix + "_CONFIG"); path != "" {
		return path, true
	}

	return DefaultConfigPath, false
}

// Validate checks every setting and reports all problems at once
func (c *Config) Validate() error {
	errFactory := errors.New()
	var errs error

	if !LogLevel(c.LogLevel).IsValid() && c.LogLevel != "warn" {
		errs = multierr.Append(errs, errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel))
	}

	if _, err := cron.ParseStandard(c.Schedule); err != nil {
		errs = multierr.Append(errs, errFactory.Wrap(errors.ErrInvalidSchedule, err))
	}

	errs = multierr.Append(errs, c.BatteryConfig().Validate())

	if !sensor.Variant(c.Climate.Variant).IsValid() {
		errs = multierr.Append(errs, errFactory.WithData(errors.ErrInvalidVariant, c.Climate.Variant))
	}

	if c.Analog.Channel < 0 || c.Analog.Channel > 3 {
		errs = multierr.Append(errs, errFactory.WithData(sensor.ErrInvalidChannel, c.Analog.Channel))
	}

	addresses := map[string]int{
		"analog.address":    c.Analog.Address,
		"barometer.address": c.Barometer.Address,
		"light.address":     c.Light.Address,
	}
	if c.Climate.Address != 0 {
		addresses["climate.address"] = c.Climate.Address
	}
	for key, addr := range addresses {
		if addr <= 0 || addr > maxI2CAddress {
			errs = multierr.Append(errs, errFactory.WithData(errors.ErrInvalidAddress, fmt.Sprintf("%s=0x%02x", key, addr)))
		}
	}

	return errs
}

// BatteryConfig returns the hysteresis band for battery.New
func (c *Config) BatteryConfig() battery.Config {
	return battery.Config{
		TriggerThreshold: c.Battery.TriggerThreshold,
		ResetThreshold:   c.Battery.ResetThreshold,
	}
}

// MeasurementConfig returns the provider settings
func (c *Config) MeasurementConfig() measurement.Config {
	return measurement.Config{Coefficient: c.Analog.Coefficient}
}

// AnalogConfig returns the ADS1115 settings
func (c *Config) AnalogConfig() sensor.ADS1115Config {
	return sensor.ADS1115Config{
		Address:    byte(c.Analog.Address),
		Channel:    c.Analog.Channel,
		MaxVoltage: c.Analog.MaxVoltage,
	}
}

// ClimateConfig returns the back-end settings for the selected variant
func (c *Config) ClimateConfig() sensor.ClimateConfig {
	sht3x := sensor.DefaultSHT3xConfig()
	sht3x.Attempts = c.Climate.Attempts
	sht3x.Backoff = c.Climate.Backoff
	sht3x.ReadDelay = c.Climate.ReadDelay

	sht21 := sensor.DefaultSHT21Config()
	sht21.PollInterval = c.Climate.PollInterval
	sht21.PollLimit = c.Climate.PollLimit

	if c.Climate.Address != 0 {
		sht3x.Address = byte(c.Climate.Address)
		sht21.Address = byte(c.Climate.Address)
	}
	if c.Climate.SettleDelay > 0 {
		sht3x.SettleDelay = c.Climate.SettleDelay
		sht21.SettleDelay = c.Climate.SettleDelay
	}

	return sensor.ClimateConfig{
		Variant: sensor.Variant(c.Climate.Variant),
		SHT3x:   sht3x,
		SHT21:   sht21,
	}
}

// LightConfig returns the BH1750 settings
func (c *Config) LightConfig() sensor.BH1750Config {
	return sensor.BH1750Config{
		Address:          byte(c.Light.Address),
		MeasurementDelay: c.Light.MeasurementDelay,
	}
}

// Package config loads the TOML configuration of the edidtool command.
//
// Keys absent from the file keep the values of Default.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"

	"github.com/flavioheleno/ddcedid"
	"github.com/flavioheleno/ddcedid/descriptor"
	"github.com/flavioheleno/ddcedid/i2cdev"
)

// Config is the resolved configuration.
type Config struct {
	Transport Transport
	I2C       I2C
	Vendors   Vendors
	Output    Output
	Snapshot  Snapshot
	Log       Log
}

// Transport holds the retry policy and the write mode.
type Transport struct {
	Attempts    int
	RetryDelay  time.Duration
	SettleDelay time.Duration
	Mode        ddcedid.Mode
}

// I2C selects and tunes the Linux i2c-dev buses.
type I2C struct {
	Buses    []string
	SpeedKHz int
}

// Vendors enables the display backends.
type Vendors struct {
	AMD    bool
	Nvidia bool
	I2CDev bool
}

// Output controls how descriptors are saved and printed.
type Output struct {
	Format  descriptor.Format
	Columns int // 0 follows the terminal width
}

// Snapshot configures the pre-write snapshot store.
type Snapshot struct {
	Enabled bool
	Path    string
}

// Log configures the logger.
type Log struct {
	Level   zerolog.Level
	NoColor bool
}

// Default returns the built-in configuration.
func Default() Config {
	opts := ddcedid.DefaultOpts()
	return Config{
		Transport: Transport{
			Attempts:    opts.Attempts,
			RetryDelay:  opts.RetryDelay,
			SettleDelay: opts.SettleDelay,
			Mode:        ddcedid.ModeFast,
		},
		Vendors: Vendors{AMD: true, Nvidia: true, I2CDev: true},
		Output:  Output{Format: descriptor.FormatBin},
		Snapshot: Snapshot{
			Enabled: true,
			Path:    "edidtool.db",
		},
		Log: Log{Level: zerolog.InfoLevel},
	}
}

type fileConfig struct {
	Transport struct {
		Attempts    int    `toml:"attempts"`
		RetryDelay  string `toml:"retry_delay"`
		SettleDelay string `toml:"settle_delay"`
		Mode        string `toml:"mode"`
	} `toml:"transport"`
	I2C struct {
		Buses    []string `toml:"buses"`
		SpeedKHz int      `toml:"speed_khz"`
	} `toml:"i2c"`
	Vendors struct {
		AMD    bool `toml:"amd"`
		Nvidia bool `toml:"nvidia"`
		I2CDev bool `toml:"i2cdev"`
	} `toml:"vendors"`
	Output struct {
		Format  string `toml:"format"`
		Columns int    `toml:"columns"`
	} `toml:"output"`
	Snapshot struct {
		Enabled bool   `toml:"enabled"`
		Path    string `toml:"path"`
	} `toml:"snapshot"`
	Log struct {
		Level   string `toml:"level"`
		NoColor bool   `toml:"no_color"`
	} `toml:"log"`
}

// Load reads the file at path over Default and validates the result.
func Load(path string) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config: unknown key %q", undecoded[0].String())
	}

	cfg := Default()

	if meta.IsDefined("transport", "attempts") {
		cfg.Transport.Attempts = raw.Transport.Attempts
	}
	if meta.IsDefined("transport", "retry_delay") {
		if cfg.Transport.RetryDelay, err = parseDuration("retry_delay", raw.Transport.RetryDelay); err != nil {
			return Config{}, err
		}
	}
	if meta.IsDefined("transport", "settle_delay") {
		if cfg.Transport.SettleDelay, err = parseDuration("settle_delay", raw.Transport.SettleDelay); err != nil {
			return Config{}, err
		}
	}
	if meta.IsDefined("transport", "mode") {
		if cfg.Transport.Mode, err = ddcedid.ParseMode(strings.TrimSpace(raw.Transport.Mode)); err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}

	if meta.IsDefined("i2c", "buses") {
		cfg.I2C.Buses = normalize(raw.I2C.Buses)
	}
	if meta.IsDefined("i2c", "speed_khz") {
		cfg.I2C.SpeedKHz = raw.I2C.SpeedKHz
	}

	if meta.IsDefined("vendors", "amd") {
		cfg.Vendors.AMD = raw.Vendors.AMD
	}
	if meta.IsDefined("vendors", "nvidia") {
		cfg.Vendors.Nvidia = raw.Vendors.Nvidia
	}
	if meta.IsDefined("vendors", "i2cdev") {
		cfg.Vendors.I2CDev = raw.Vendors.I2CDev
	}

	if meta.IsDefined("output", "format") {
		if cfg.Output.Format, err = descriptor.ParseFormat(strings.TrimSpace(raw.Output.Format)); err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}
	if meta.IsDefined("output", "columns") {
		cfg.Output.Columns = raw.Output.Columns
	}

	if meta.IsDefined("snapshot", "enabled") {
		cfg.Snapshot.Enabled = raw.Snapshot.Enabled
	}
	if meta.IsDefined("snapshot", "path") {
		cfg.Snapshot.Path = strings.TrimSpace(raw.Snapshot.Path)
	}

	if meta.IsDefined("log", "level") {
		if cfg.Log.Level, err = zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(raw.Log.Level))); err != nil {
			return Config{}, fmt.Errorf("config: log level: %w", err)
		}
	}
	if meta.IsDefined("log", "no_color") {
		cfg.Log.NoColor = raw.Log.NoColor
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values Load cannot reject while decoding.
func (c Config) Validate() error {
	switch {
	case c.Transport.Attempts < 1:
		return fmt.Errorf("config: attempts must be at least 1, got %d", c.Transport.Attempts)
	case c.Transport.RetryDelay < 0:
		return fmt.Errorf("config: negative retry_delay %s", c.Transport.RetryDelay)
	case c.Transport.SettleDelay < 0:
		return fmt.Errorf("config: negative settle_delay %s", c.Transport.SettleDelay)
	case c.I2C.SpeedKHz < 0:
		return fmt.Errorf("config: negative speed_khz %d", c.I2C.SpeedKHz)
	case c.Output.Columns < 0:
		return fmt.Errorf("config: negative columns %d", c.Output.Columns)
	case c.Snapshot.Enabled && c.Snapshot.Path == "":
		return fmt.Errorf("config: snapshot enabled without a path")
	case !c.Vendors.AMD && !c.Vendors.Nvidia && !c.Vendors.I2CDev:
		return fmt.Errorf("config: every vendor is disabled")
	}
	return nil
}

// Opts returns the channel options. The logger and recorder are left to
// the caller.
func (c Config) Opts() ddcedid.Opts {
	opts := ddcedid.DefaultOpts()
	opts.Attempts = c.Transport.Attempts
	opts.RetryDelay = c.Transport.RetryDelay
	opts.SettleDelay = c.Transport.SettleDelay
	return opts
}

// I2CDevOpts returns the i2c-dev source options.
func (c Config) I2CDevOpts(logger *zerolog.Logger) *i2cdev.Opts {
	return &i2cdev.Opts{
		Buses:  c.I2C.Buses,
		Speed:  physic.Frequency(c.I2C.SpeedKHz) * physic.KiloHertz,
		Logger: logger,
	}
}

func parseDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("config: parse %s: %w", key, err)
	}
	return d, nil
}

func normalize(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

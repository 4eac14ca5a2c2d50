package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"clickcount/internal/logger"
)

const (
	// EnvConfigPath names the optional TOML file overlaid on the defaults.
	EnvConfigPath = "CLICKCOUNT_CONFIG"

	PolicyDouble = "double"
	PolicyStep   = "step"

	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config holds application settings. Zero values are never used directly;
// Default fills every field before any overlay is applied.
type Config struct {
	InitialValue  uint64          `toml:"initial_value"`
	GuardInFlight bool            `toml:"guard_in_flight"`
	InvokeTimeout string          `toml:"invoke_timeout"`
	Increment     IncrementConfig `toml:"increment"`
	Window        WindowConfig    `toml:"window"`
	Log           LogConfig       `toml:"log"`
}

type IncrementConfig struct {
	Policy string `toml:"policy"`
	Step   uint64 `toml:"step"`
}

type WindowConfig struct {
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func Default() Config {
	return Config{
		InitialValue: 1,
		Increment: IncrementConfig{
			Policy: PolicyDouble,
			Step:   1,
		},
		Window: WindowConfig{
			Width:  480,
			Height: 320,
		},
		Log: LogConfig{
			Level:  "info",
			Format: FormatConsole,
		},
	}
}

// Load builds the configuration from defaults, the optional TOML file named by
// CLICKCOUNT_CONFIG, and finally the environment.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvConfigPath); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse overlays TOML text on the defaults and validates the result.
func Parse(data string) (Config, error) {
	cfg := Default()
	meta, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.Errorf("unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return errors.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	switch {
	case getenv("LOG_LEVEL") != "":
		c.Log.Level = getenv("LOG_LEVEL")
	case getenv("DEBUG") == "1":
		c.Log.Level = "debug"
	}

	if format := getenv("LOG_FORMAT"); format != "" {
		c.Log.Format = strings.ToLower(format)
	}
}

func (c Config) Validate() error {
	switch c.Increment.Policy {
	case PolicyDouble:
	case PolicyStep:
		if c.Increment.Step == 0 {
			return errors.New("increment.step must be positive for the step policy")
		}
	default:
		return errors.Errorf("unknown increment policy %q", c.Increment.Policy)
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("invalid window size %.0fx%.0f", c.Window.Width, c.Window.Height)
	}

	if _, err := c.Timeout(); err != nil {
		return err
	}

	if _, ok := logger.ParseLevel(c.Log.Level); !ok {
		return errors.Errorf("unknown log level %q", c.Log.Level)
	}

	switch c.Log.Format {
	case FormatConsole, FormatJSON:
	default:
		return errors.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// Timeout returns the per-call invoke timeout. Zero means calls never time out.
func (c Config) Timeout() (time.Duration, error) {
	if strings.TrimSpace(c.InvokeTimeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.InvokeTimeout)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid invoke_timeout %q", c.InvokeTimeout)
	}
	if d < 0 {
		return 0, errors.Errorf("invoke_timeout must not be negative, got %s", d)
	}
	return d, nil
}

func (c Config) LogLevel() logger.LogLevel {
	level, _ := logger.ParseLevel(c.Log.Level)
	return level
}

// NewLogger builds the zerolog-backed logger selected by the log section.
func (c Config) NewLogger() logger.Logger {
	if c.Log.Format == FormatJSON {
		return logger.NewJSONLogger(c.LogLevel())
	}
	return logger.NewConsoleLogger(c.LogLevel())
}

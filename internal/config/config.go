package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/notdatboi/Spark/transfer"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"
)

// EnvPrefix is prepended to every environment variable the CLI reads
const EnvPrefix = "SPARKMEM"

type Config struct {
	LogLevel    string        `mapstructure:"log_level"`
	WaitTimeout time.Duration `mapstructure:"wait_timeout"`
	// Scenario is replayed when no scenario file is passed on the command line
	Scenario string `mapstructure:"scenario"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:    "info",
		WaitTimeout: transfer.DefaultWaitTimeout,
	}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("wait_timeout", cfg.WaitTimeout)
	v.SetDefault("scenario", cfg.Scenario)
}

// Load reads cfgFile if it is set, then applies SPARKMEM_* environment variables on top of the
// defaults. v may carry flag bindings made by the caller.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("sparkmem")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config")
		}
	}

	err = v.Unmarshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	err = cfg.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "validating config")
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	_, err := c.Level()
	if err != nil {
		return err
	}
	if c.WaitTimeout <= 0 {
		return errors.Newf("wait_timeout must be positive, but was %s", c.WaitTimeout)
	}
	return nil
}

// Level parses LogLevel as one of debug, info, warn or error
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	if err != nil {
		return level, errors.Wrapf(err, "log_level %q", c.LogLevel)
	}
	return level, nil
}

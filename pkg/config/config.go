// Package config resolves settings for the train and dashboard commands from
// defaults, an optional config file, NEXGEN_* environment variables and flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. NEXGEN_DATA_DIR.
const EnvPrefix = "NEXGEN"

// Config holds every setting either command reads.
type Config struct {
	DataDir      string        `mapstructure:"data_dir"`
	ModelPath    string        `mapstructure:"model_path"`
	Seed         int64         `mapstructure:"seed"`
	TestRatio    float64       `mapstructure:"test_ratio"`
	ListenAddr   string        `mapstructure:"listen_addr"`
	LogLevel     string        `mapstructure:"log_level"`
	TrainTimeout time.Duration `mapstructure:"train_timeout"`
}

// Defaults are what the commands use with no config file, env or flags.
var Defaults = Config{
	DataDir:    "dataset",
	ModelPath:  "models/delay_predictor.bin",
	Seed:       42,
	TestRatio:  0.2,
	ListenAddr: ":8501",
	LogLevel:   "info",
}

// flag name -> config key
var flagKeys = map[string]string{
	"data-dir":      "data_dir",
	"model-path":    "model_path",
	"seed":          "seed",
	"test-ratio":    "test_ratio",
	"listen-addr":   "listen_addr",
	"log-level":     "log_level",
	"train-timeout": "train_timeout",
}

// RegisterFlags adds the shared flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default: ./config.yaml if present)")
	fs.String("data-dir", Defaults.DataDir, "directory holding the input CSV files")
	fs.String("model-path", Defaults.ModelPath, "model artifact path")
	fs.Int64("seed", Defaults.Seed, "random seed for split and boosting")
	fs.Float64("test-ratio", Defaults.TestRatio, "fraction of rows held out for testing")
	fs.String("listen-addr", Defaults.ListenAddr, "dashboard listen address")
	fs.String("log-level", Defaults.LogLevel, "debug, info, warn or error")
	fs.Duration("train-timeout", Defaults.TrainTimeout, "wall-clock budget for training (0 = none)")
}

// Load resolves the configuration. fs must have been set up with RegisterFlags
// and parsed; it may be nil to use defaults, file and environment only.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("data_dir", Defaults.DataDir)
	v.SetDefault("model_path", Defaults.ModelPath)
	v.SetDefault("seed", Defaults.Seed)
	v.SetDefault("test_ratio", Defaults.TestRatio)
	v.SetDefault("listen_addr", Defaults.ListenAddr)
	v.SetDefault("log_level", Defaults.LogLevel)
	v.SetDefault("train_timeout", Defaults.TrainTimeout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	explicit := ""
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			explicit = f.Value.String()
		}
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "bind flag %s", name)
				}
			}
		}
	}

	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", explicit)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "read config.yaml")
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	if c.TestRatio <= 0 || c.TestRatio >= 1 {
		return fmt.Errorf("config: test_ratio %v must be in (0,1)", c.TestRatio)
	}
	if c.DataDir == "" {
		return fmt.Errorf("config: data_dir is empty")
	}
	if c.ModelPath == "" {
		return fmt.Errorf("config: model_path is empty")
	}
	if c.TrainTimeout < 0 {
		return fmt.Errorf("config: train_timeout must not be negative")
	}
	return nil
}

// Package settings loads iterator tunables from a YAML file, a .env file and
// environment variables.
//
// Precedence, highest first: process environment, .env file, YAML file, defaults.
// Durations use time.ParseDuration syntax ("250ms", "2s"). A zero timeout waits
// forever; a zero join_timeout reuses get_timeout.
package settings

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultEnvPrefix prefixes environment variables, e.g. ITERTHREADS_GET_TIMEOUT.
const DefaultEnvPrefix = "ITERTHREADS"

// MaxCapacity caps the configured buffer capacity.
const MaxCapacity = 1 << 20

// Settings mirrors the iterator options.
type Settings struct {
	Name        string        `mapstructure:"name" validate:"omitempty,max=128"`
	Capacity    uint          `mapstructure:"capacity" validate:"lte=1048576"`
	GetTimeout  time.Duration `mapstructure:"get_timeout" validate:"gte=0"`
	PutTimeout  time.Duration `mapstructure:"put_timeout" validate:"gte=0"`
	JoinTimeout time.Duration `mapstructure:"join_timeout" validate:"gte=0"`
}

var validate = validator.New()

// Validate checks field bounds.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}

type loadConfig struct {
	file      string
	envFile   string
	envPrefix string
}

// LoadOption configures Load.
type LoadOption func(*loadConfig)

// WithFile reads a YAML (or any viper-supported) settings file.
func WithFile(path string) LoadOption {
	return func(lc *loadConfig) { lc.file = path }
}

// WithEnvFile loads a .env file into the process environment before reading it.
// Variables already set in the environment win.
func WithEnvFile(path string) LoadOption {
	return func(lc *loadConfig) { lc.envFile = path }
}

// WithEnvPrefix overrides DefaultEnvPrefix.
func WithEnvPrefix(prefix string) LoadOption {
	return func(lc *loadConfig) { lc.envPrefix = strings.TrimSuffix(prefix, "_") }
}

// Load reads and validates Settings.
func Load(opts ...LoadOption) (Settings, error) {
	lc := loadConfig{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		if opt != nil {
			opt(&lc)
		}
	}

	if lc.envFile != "" {
		if err := godotenv.Load(lc.envFile); err != nil {
			return Settings{}, fmt.Errorf("settings: load env file %s: %w", lc.envFile, err)
		}
	}

	v := viper.New()
	// keys must be known to viper for AutomaticEnv to reach Unmarshal
	v.SetDefault("name", "")
	v.SetDefault("capacity", 0)
	v.SetDefault("get_timeout", "0s")
	v.SetDefault("put_timeout", "0s")
	v.SetDefault("join_timeout", "0s")

	if lc.file != "" {
		v.SetConfigFile(lc.file)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("settings: read %s: %w", lc.file, err)
		}
	}

	v.SetEnvPrefix(lc.envPrefix)
	v.AutomaticEnv()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("settings: decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "NOTOLI"

type Config interface {
	EnvConfig
	APIConfig
	SessionConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type mainConfig struct {
	EnvVars
	API
	Session
}

type Option func(*loader)

type loader struct {
	path  string
	flags *pflag.FlagSet
}

// WithConfigFile reads the YAML file at path on top of the defaults.
// A missing file is not an error.
func WithConfigFile(path string) Option {
	return func(l *loader) {
		l.path = path
	}
}

// WithFlags binds command line flags whose names match config keys
// (with "-" in place of "_"), letting them override env and file values.
func WithFlags(flags *pflag.FlagSet) Option {
	return func(l *loader) {
		l.flags = flags
	}
}

// New returns the configuration resolved from defaults and NOTOLI_* env vars.
func New() Config {
	cfg, err := Load()
	if err != nil {
		return newMainConfig(newViper())
	}
	return cfg
}

// Load resolves configuration from defaults, an optional YAML file,
// NOTOLI_* env vars and bound flags, in increasing precedence.
func Load(opts ...Option) (Config, error) {
	l := &loader{}
	for _, opt := range opts {
		opt(l)
	}

	v := newViper()
	path := l.path
	if path == "" {
		path = v.GetString(configFileKey)
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	if l.flags != nil {
		for _, key := range allKeys {
			flag := l.flags.Lookup(strings.ReplaceAll(key, "_", "-"))
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, err
			}
		}
	}

	return newMainConfig(v), nil
}

func newMainConfig(v *viper.Viper) mainConfig {
	return mainConfig{
		EnvVars: EnvVars{v: v},
		API:     API{v: v},
		Session: Session{v: v},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}
	return v
}

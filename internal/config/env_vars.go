package config

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	configFileKey   = "config"
	appNameKey      = "app_name"
	envKey          = "env"
	logLevelKey     = "log_level"
	apiBaseURLKey   = "api_base_url"
	appBasePathKey  = "app_base_path"
	devAddrKey      = "dev_backend_addr"
	devSecretKey    = "dev_backend_secret"
	sessionStoreKey = "session_store"
	sessionDirKey   = "session_dir"
	sessionKeyKey   = "session_key"
)

var allKeys = []string{
	appNameKey,
	envKey,
	logLevelKey,
	apiBaseURLKey,
	appBasePathKey,
	devAddrKey,
	devSecretKey,
	sessionStoreKey,
	sessionDirKey,
	sessionKeyKey,
}

func defaults() map[string]any {
	return map[string]any{
		configFileKey:   "",
		appNameKey:      "notoli",
		envKey:          "DEV",
		logLevelKey:     "info",
		apiBaseURLKey:   "http://localhost:8000",
		appBasePathKey:  "",
		devAddrKey:      ":8000",
		devSecretKey:    "notoli-dev-secret",
		sessionStoreKey: SessionStoreFile,
		sessionDirKey:   defaultSessionDir(),
		sessionKeyKey:   "",
	}
}

type EnvVars struct {
	v *viper.Viper
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return e.v.GetString(appNameKey)
}

func (e EnvVars) GetEnv() string {
	env := strings.ToUpper(strings.TrimSpace(e.v.GetString(envKey)))
	if env == "" {
		return "DEV"
	}
	return env
}

func (e EnvVars) GetLogLevel() string {
	return strings.ToLower(strings.TrimSpace(e.v.GetString(logLevelKey)))
}

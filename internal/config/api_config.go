package config

import (
	"strings"

	"github.com/spf13/viper"
)

type APIConfig interface {
	GetAPIBaseURL() string
	GetAppBasePath() string
	GetDevBackendAddr() string
	GetDevBackendSecret() string
}

type API struct {
	v *viper.Viper
}

var _ APIConfig = API{}

// GetAPIBaseURL returns the backend root that request paths are appended to
// (e.g. "http://localhost:8000"), without a trailing slash.
func (a API) GetAPIBaseURL() string {
	return strings.TrimRight(strings.TrimSpace(a.v.GetString(apiBaseURLKey)), "/")
}

// GetAppBasePath returns the prefix the app's own screens are served under.
// "" and "/" both mean the root.
func (a API) GetAppBasePath() string {
	base := strings.TrimSpace(a.v.GetString(appBasePathKey))
	if base == "" || base == "/" {
		return ""
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return strings.TrimRight(base, "/")
}

func (a API) GetDevBackendAddr() string {
	addr := strings.TrimSpace(a.v.GetString(devAddrKey))
	if addr != "" && !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	return addr
}

func (a API) GetDevBackendSecret() string {
	return a.v.GetString(devSecretKey)
}

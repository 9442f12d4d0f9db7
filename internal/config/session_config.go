package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreFile   = "file"
)

type SessionConfig interface {
	GetSessionStore() string
	GetSessionDir() string
	GetSessionKey() string
}

type Session struct {
	v *viper.Viper
}

var _ SessionConfig = Session{}

func (s Session) GetSessionStore() string {
	switch strings.ToLower(strings.TrimSpace(s.v.GetString(sessionStoreKey))) {
	case SessionStoreMemory:
		return SessionStoreMemory
	default:
		return SessionStoreFile
	}
}

func (s Session) GetSessionDir() string {
	return s.v.GetString(sessionDirKey)
}

// GetSessionKey returns the secret that scopes the stored session to one
// shell session. Without it there is nothing to unlock a session file with.
func (s Session) GetSessionKey() string {
	return strings.TrimSpace(s.v.GetString(sessionKeyKey))
}

func defaultSessionDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "notoli")
	}
	return filepath.Join(os.TempDir(), "notoli")
}

package filestore

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jrsteele09/notoli/internal/errors"
	"github.com/jrsteele09/notoli/sessions"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

var _ sessions.Storage = (*Storage)(nil)

// Storage keeps items in a secretbox-sealed JSON file. The file name and the
// sealing key are both derived from a per-shell session key, so once the key
// is gone (the shell exited) the session is unreachable, like a closed tab.
type Storage struct {
	mu   sync.Mutex
	path string
	key  [32]byte
}

// New opens (lazily) the session file for sessionKey under dir.
func New(dir, sessionKey string) (*Storage, error) {
	sessionKey = strings.TrimSpace(sessionKey)
	if sessionKey == "" {
		return nil, errors.ErrSessionKeyRequired
	}
	if strings.TrimSpace(dir) == "" {
		return nil, errors.Wrapf(errors.ErrStorageUnavailable, "session directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "filestore.New os.MkdirAll")
	}

	name := blake2b.Sum256([]byte("notoli-session-file:" + sessionKey))
	return &Storage{
		path: filepath.Join(dir, hex.EncodeToString(name[:12])+".session"),
		key:  blake2b.Sum256([]byte("notoli-session-key:" + sessionKey)),
	}, nil
}

// NewSessionKey returns a random key suitable for NOTOLI_SESSION_KEY.
func NewSessionKey() (string, error) {
	b := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Path returns the session file location.
func (s *Storage) Path() string {
	return s.path
}

func (s *Storage) GetItem(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return "", false, err
	}
	value, ok := items[key]
	return value, ok, nil
}

func (s *Storage) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	items[key] = value
	return s.save(items)
}

func (s *Storage) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	return s.save(items)
}

func (s *Storage) load() (map[string]string, error) {
	items := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return items, nil
		}
		return nil, errors.Wrapf(err, "filestore load")
	}
	if len(data) < nonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("filestore load: %w: file too short", errors.ErrStorageUnavailable)
	}

	var nonce [nonceSize]byte
	copy(nonce[:], data[:nonceSize])
	plain, ok := secretbox.Open(nil, data[nonceSize:], &nonce, &s.key)
	if !ok {
		return nil, fmt.Errorf("filestore load: %w: cannot open session file", errors.ErrStorageUnavailable)
	}
	if err := json.Unmarshal(plain, &items); err != nil {
		return nil, errors.Wrapf(err, "filestore load json.Unmarshal")
	}
	return items, nil
}

func (s *Storage) save(items map[string]string) error {
	if len(items) == 0 {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "filestore save")
		}
		return nil
	}

	plain, err := json.Marshal(items)
	if err != nil {
		return errors.Wrapf(err, "filestore save json.Marshal")
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return errors.Wrapf(err, "filestore save nonce")
	}
	sealed := secretbox.Seal(nonce[:], plain, &nonce, &s.key)

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "session-*.tmp")
	if err != nil {
		return errors.Wrapf(err, "filestore save os.CreateTemp")
	}
	if _, err := tmp.Write(sealed); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return errors.Wrapf(err, "filestore save write")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrapf(err, "filestore save close")
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrapf(err, "filestore save chmod")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrapf(err, "filestore save rename")
	}
	return nil
}

package fakestorage

import (
	"sync"

	"github.com/jrsteele09/notoli/sessions"
	"github.com/pkg/errors"
)

var _ sessions.Storage = (*FakeStorage)(nil)

// ErrStorageBlocked is returned by every call on a failing FakeStorage.
var ErrStorageBlocked = errors.New("storage blocked")

// FakeStorage is an in-memory Storage that records writes and can be switched
// into a failing mode to emulate blocked storage.
type FakeStorage struct {
	items   map[string]string
	removed []string
	failing bool
	lock    sync.RWMutex
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{items: make(map[string]string)}
}

// NewFailingStorage returns a storage whose every call fails.
func NewFailingStorage() *FakeStorage {
	fs := NewFakeStorage()
	fs.failing = true
	return fs
}

func (fs *FakeStorage) SetFailing(failing bool) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.failing = failing
}

func (fs *FakeStorage) GetItem(key string) (string, bool, error) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	if fs.failing {
		return "", false, errors.Wrap(ErrStorageBlocked, "GetItem")
	}
	value, ok := fs.items[key]
	return value, ok, nil
}

func (fs *FakeStorage) SetItem(key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.failing {
		return errors.Wrap(ErrStorageBlocked, "SetItem")
	}
	fs.items[key] = value
	return nil
}

func (fs *FakeStorage) RemoveItem(key string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.failing {
		return errors.Wrap(ErrStorageBlocked, "RemoveItem")
	}
	fs.removed = append(fs.removed, key)
	delete(fs.items, key)
	return nil
}

// Has reports whether key is currently stored.
func (fs *FakeStorage) Has(key string) bool {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	_, ok := fs.items[key]
	return ok
}

// Items returns a copy of the stored items.
func (fs *FakeStorage) Items() map[string]string {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	out := make(map[string]string, len(fs.items))
	for k, v := range fs.items {
		out[k] = v
	}
	return out
}

// Removed returns every key passed to RemoveItem, in call order.
func (fs *FakeStorage) Removed() []string {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	return append([]string(nil), fs.removed...)
}

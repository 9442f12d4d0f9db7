package navigation

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// History is an in-process location stack with browser-like push/replace
// semantics. It is the routing layer of the command line client.
type History struct {
	mu      sync.RWMutex
	entries []string
	index   int
}

var (
	_ Navigator = (*History)(nil)
	_ Locator   = (*History)(nil)
)

// NewHistory starts a history at start ("/" when empty).
func NewHistory(start string) *History {
	if start == "" {
		start = "/"
	}
	return &History{entries: []string{start}}
}

// Restore rebuilds a history from a snapshot. Invalid snapshots yield a fresh history at "/".
func Restore(snapshot Snapshot) *History {
	if len(snapshot.Entries) == 0 || snapshot.Index < 0 || snapshot.Index >= len(snapshot.Entries) {
		return NewHistory("/")
	}
	return &History{
		entries: append([]string(nil), snapshot.Entries...),
		index:   snapshot.Index,
	}
}

// Snapshot is the serialisable form of a History.
type Snapshot struct {
	Entries []string `json:"entries"`
	Index   int      `json:"index"`
}

func (h *History) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Snapshot{Entries: append([]string(nil), h.entries...), Index: h.index}
}

// Navigate pushes to, discarding any forward entries, or replaces the current
// entry when opts.Replace is set.
func (h *History) Navigate(to string, opts Options) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if opts.Replace {
		h.entries[h.index] = to
	} else {
		h.entries = append(h.entries[:h.index+1], to)
		h.index++
	}
	log.Debug().Str("to", to).Bool("replace", opts.Replace).Int("depth", len(h.entries)).Msg("navigate")
	return true
}

// Location returns the current entry.
func (h *History) Location() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.entries[h.index]
}

// Back moves one entry back. It returns false at the first entry.
func (h *History) Back() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.index == 0 {
		return false
	}
	h.index--
	return true
}

// Forward moves one entry forward. It returns false at the last entry.
func (h *History) Forward() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.index >= len(h.entries)-1 {
		return false
	}
	h.index++
	return true
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Package navigation lets non-UI code move the user between screens without
// holding a reference to the routing layer.
package navigation

import "sync"

// Options controls how a navigation lands in history.
type Options struct {
	// Replace overwrites the current history entry instead of pushing a new one.
	Replace bool
}

// Func is a routing layer's navigate function.
type Func func(to string, opts Options)

// Navigator dispatches a navigation and reports whether anything handled it.
type Navigator interface {
	Navigate(to string, opts Options) bool
}

// Locator reports the path currently on screen.
type Locator interface {
	Location() string
}

// Bridge holds the live navigate function registered by the routing layer.
// The zero value has nothing registered.
type Bridge struct {
	mu sync.RWMutex
	fn Func
}

var _ Navigator = (*Bridge)(nil)

func NewBridge() *Bridge {
	return &Bridge{}
}

// Set registers fn. A nil fn is the same as Clear.
func (b *Bridge) Set(fn Func) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fn = fn
}

// Clear deregisters the current function.
func (b *Bridge) Clear() {
	b.Set(nil)
}

// Mount registers fn and returns the matching unmount.
func (b *Bridge) Mount(fn Func) func() {
	b.Set(fn)
	return b.Clear
}

// Navigate calls the registered function. It returns false, doing nothing,
// when none is registered.
func (b *Bridge) Navigate(to string, opts Options) bool {
	b.mu.RLock()
	fn := b.fn
	b.mu.RUnlock()

	if fn == nil {
		return false
	}
	fn(to, opts)
	return true
}

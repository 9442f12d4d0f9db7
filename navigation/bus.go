package navigation

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Event is a navigation request published on a Bus.
type Event struct {
	To      string
	Options Options
}

// Bus is the message-passing alternative to Bridge: Navigate publishes an
// Event and any number of routing layers subscribe to it.
type Bus struct {
	mu    sync.Mutex
	subs  map[chan Event]struct{}
	depth int
}

var _ Navigator = (*Bus)(nil)

func NewBus() *Bus {
	return &Bus{
		subs:  make(map[chan Event]struct{}),
		depth: 16,
	}
}

// Subscribe returns a channel of navigation events and its cancel function.
// Cancel closes the channel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, b.depth)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Navigate publishes without blocking. It returns true when at least one
// subscriber received the event.
func (b *Bus) Navigate(to string, opts Options) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	delivered := 0
	for sub := range b.subs {
		select {
		case sub <- Event{To: to, Options: opts}:
			delivered++
		default:
			log.Warn().Str("to", to).Msg("navigation event dropped, subscriber full")
		}
	}
	return delivered > 0
}

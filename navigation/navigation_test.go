package navigation_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/notoli/navigation"
	"github.com/stretchr/testify/require"
)

type navigateCall struct {
	to   string
	opts navigation.Options
}

func TestBridge(t *testing.T) {
	t.Run("nothing registered", func(t *testing.T) {
		b := navigation.NewBridge()
		require.False(t, b.Navigate("/login", navigation.Options{Replace: true}))
	})

	t.Run("nil function is the same as clear", func(t *testing.T) {
		b := navigation.NewBridge()
		b.Set(nil)
		require.False(t, b.Navigate("/login", navigation.Options{}))
	})

	t.Run("registered function is called", func(t *testing.T) {
		var calls []navigateCall
		b := navigation.NewBridge()
		b.Set(func(to string, opts navigation.Options) {
			calls = append(calls, navigateCall{to, opts})
		})

		require.True(t, b.Navigate("/workspace/1", navigation.Options{Replace: true}))
		require.Equal(t, []navigateCall{{"/workspace/1", navigation.Options{Replace: true}}}, calls)
	})

	t.Run("unmount deregisters", func(t *testing.T) {
		b := navigation.NewBridge()
		unmount := b.Mount(func(string, navigation.Options) {})
		require.True(t, b.Navigate("/", navigation.Options{}))
		unmount()
		require.False(t, b.Navigate("/", navigation.Options{}))
	})
}

func TestHistory(t *testing.T) {
	h := navigation.NewHistory("")
	require.Equal(t, "/", h.Location())

	h.Navigate("/workspace/1", navigation.Options{})
	h.Navigate("/workspace/1/todolist/2", navigation.Options{})
	require.Equal(t, 3, h.Len())

	t.Run("replace does not grow history", func(t *testing.T) {
		h.Navigate("/workspace/1", navigation.Options{Replace: true})
		require.Equal(t, 3, h.Len())
		require.Equal(t, "/workspace/1", h.Location())
	})

	t.Run("back and forward", func(t *testing.T) {
		require.True(t, h.Back())
		require.Equal(t, "/workspace/1", h.Location())
		require.True(t, h.Back())
		require.Equal(t, "/", h.Location())
		require.False(t, h.Back())
		require.True(t, h.Forward())
		require.Equal(t, "/workspace/1", h.Location())
	})

	t.Run("push drops forward entries", func(t *testing.T) {
		h.Navigate("/workspace/9", navigation.Options{})
		require.Equal(t, 3, h.Len())
		require.False(t, h.Forward())
	})

	t.Run("snapshot restore", func(t *testing.T) {
		restored := navigation.Restore(h.Snapshot())
		require.Equal(t, h.Location(), restored.Location())
		require.Equal(t, h.Len(), restored.Len())

		bad := navigation.Restore(navigation.Snapshot{Entries: []string{"/x"}, Index: 4})
		require.Equal(t, "/", bad.Location())
	})
}

func TestBus(t *testing.T) {
	bus := navigation.NewBus()
	require.False(t, bus.Navigate("/login", navigation.Options{Replace: true}))

	ch, cancel := bus.Subscribe()
	defer cancel()

	require.True(t, bus.Navigate("/login", navigation.Options{Replace: true}))
	select {
	case ev := <-ch:
		require.Equal(t, navigation.Event{To: "/login", Options: navigation.Options{Replace: true}}, ev)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for navigation event")
	}

	t.Run("cancel closes channel", func(t *testing.T) {
		ch, cancel := bus.Subscribe()
		cancel()
		cancel()
		_, ok := <-ch
		require.False(t, ok)
	})
}

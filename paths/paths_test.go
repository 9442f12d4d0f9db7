package paths_test

import (
	"testing"

	"github.com/jrsteele09/notoli/internal/errors"
	"github.com/jrsteele09/notoli/navigation"
	"github.com/jrsteele09/notoli/paths"
	"github.com/stretchr/testify/require"
)

func TestParentOf(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		hasOne bool
	}{
		{in: "/workspace/7/todolist/2", want: "/workspace/7", hasOne: true},
		{in: "/workspace/7/todolist/2/", want: "/workspace/7", hasOne: true},
		{in: "/workspace/7/todolist/2/note/5", want: "/workspace/7", hasOne: true},
		{in: "/workspace/7", want: "/", hasOne: true},
		{in: "/workspace/7/", want: "/", hasOne: true},
		{in: "/workspace/abc-1", want: "/", hasOne: true},
		{in: "/", hasOne: false},
		{in: "", hasOne: false},
		{in: "/login", hasOne: false},
		{in: "/register", hasOne: false},
		{in: "/workspace", hasOne: false},
		{in: "/workspace//todolist/2", hasOne: false},
		{in: "/workspace/7/settings", hasOne: false},
		{in: "/workspace/7/todolist", hasOne: false},
		{in: "workspace/7", hasOne: false},
	}
	for _, tt := range tests {
		got, ok := paths.ParentOf(tt.in).Path()
		require.Equal(t, tt.hasOne, ok, "ParentOf(%q)", tt.in)
		require.Equal(t, tt.want, got, "ParentOf(%q)", tt.in)
	}

	require.True(t, paths.ParentOf("/login").IsNone())
	require.Equal(t, paths.NoParent, paths.ParentOf("/login"))
	require.Equal(t, "/workspace/7", paths.ParentOf("/workspace/7/todolist/2").String())
}

func TestWorkspaceIDOf(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "/workspace/7/todolist/2", want: "7", ok: true},
		{in: "/workspace/7", want: "7", ok: true},
		{in: "/workspace/7/", want: "7", ok: true},
		{in: "/login", ok: false},
		{in: "/", ok: false},
		{in: "/workspace/7/other", ok: false},
	}
	for _, tt := range tests {
		got, ok := paths.WorkspaceIDOf(tt.in)
		require.Equal(t, tt.ok, ok, "WorkspaceIDOf(%q)", tt.in)
		require.Equal(t, tt.want, got, "WorkspaceIDOf(%q)", tt.in)
	}
}

func TestTodoListIDOf(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "/workspace/7/todolist/2", want: "2", ok: true},
		{in: "/workspace/7/todolist/2/note/9", want: "2", ok: true},
		{in: "/workspace/7", ok: false},
		{in: "/workspace/7/todolist/", ok: false},
		{in: "/", ok: false},
	}
	for _, tt := range tests {
		got, ok := paths.TodoListIDOf(tt.in)
		require.Equal(t, tt.ok, ok, "TodoListIDOf(%q)", tt.in)
		require.Equal(t, tt.want, got, "TodoListIDOf(%q)", tt.in)
	}
}

func TestParent_Err(t *testing.T) {
	require.ErrorIs(t, paths.ParentOf("/login").Err(), errors.ErrNoParent)
	require.ErrorIs(t, paths.NoParent.Err(), errors.ErrNoParent)
	require.NoError(t, paths.ParentOf("/workspace/3").Err())
}

func TestGoToParent(t *testing.T) {
	type call struct {
		to   string
		opts navigation.Options
	}

	t.Run("replaces with the parent exactly once", func(t *testing.T) {
		var calls []call
		bridge := navigation.NewBridge()
		bridge.Set(func(to string, opts navigation.Options) {
			calls = append(calls, call{to, opts})
		})

		require.True(t, paths.GoToParent("/workspace/4/todolist/11", bridge))
		require.Equal(t, []call{{"/workspace/4", navigation.Options{Replace: true}}}, calls)
	})

	t.Run("no parent skips navigation", func(t *testing.T) {
		var calls []call
		bridge := navigation.NewBridge()
		bridge.Set(func(to string, opts navigation.Options) {
			calls = append(calls, call{to, opts})
		})

		require.False(t, paths.GoToParent("/login", bridge))
		require.Empty(t, calls)
	})

	t.Run("history depth stays constant", func(t *testing.T) {
		h := navigation.NewHistory("/")
		h.Navigate(paths.Workspace("4"), navigation.Options{})
		h.Navigate(paths.TodoList("4", "11"), navigation.Options{})
		before := h.Len()

		require.True(t, paths.GoToParent(h.Location(), h))
		require.Equal(t, "/workspace/4", h.Location())
		require.True(t, paths.GoToParent(h.Location(), h))
		require.Equal(t, "/", h.Location())
		require.Equal(t, before, h.Len())
	})

	t.Run("nil navigator", func(t *testing.T) {
		require.False(t, paths.GoToParent("/workspace/1", nil))
	})
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "/", paths.Normalize("/"))
	require.Equal(t, "/", paths.Normalize("///"))
	require.Equal(t, "/login", paths.Normalize("/login/"))
	require.Equal(t, "", paths.Normalize(""))
}

package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jrsteele09/notoli/backend/fakebackend"
	"github.com/jrsteele09/notoli/sessions"
	"github.com/jrsteele09/notoli/sessions/filestore"
	"github.com/stretchr/testify/require"
)

type cliFixture struct {
	backend *fakebackend.Server
	server  *httptest.Server
}

// setupCLIFixture points the CLI at an in-memory backend with a file session
// store in a temp dir, so consecutive invocations share one session.
func setupCLIFixture(t *testing.T) *cliFixture {
	t.Helper()

	f := &cliFixture{
		backend: fakebackend.New(fakebackend.Options{
			Secret:           []byte("cli-test"),
			DefaultWorkspace: fakebackend.DefaultWorkspaceName,
		}),
	}
	f.server = httptest.NewServer(f.backend)
	t.Cleanup(f.server.Close)

	key, err := filestore.NewSessionKey()
	require.NoError(t, err)
	t.Setenv("NOTOLI_API_BASE_URL", f.server.URL)
	t.Setenv("NOTOLI_SESSION_STORE", "file")
	t.Setenv("NOTOLI_SESSION_DIR", t.TempDir())
	t.Setenv("NOTOLI_SESSION_KEY", key)
	t.Setenv("NOTOLI_APP_BASE_PATH", "")
	t.Setenv("NOTOLI_LOG_LEVEL", "error")
	return f
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := execute(context.Background(), root)
	return out.String(), err
}

func mustExecute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, stdin, args...)
	require.NoError(t, err, out)
	return out
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"login", "register", "logout", "whoami", "session-key", "workspaces", "todolists", "notes", "open", "back", "prev", "next", "where", "shell", "dev-backend"} {
		require.True(t, names[want], "missing command %q", want)
	}
}

func TestScreenFromArgs(t *testing.T) {
	tests := []struct {
		args    []string
		want    string
		wantErr bool
	}{
		{args: []string{"3"}, want: "/workspace/3"},
		{args: []string{"3", "12"}, want: "/workspace/3/todolist/12"},
		{args: []string{"/workspace/3/"}, want: "/workspace/3"},
		{args: []string{"/workspace/3", "4"}, wantErr: true},
		{args: []string{"abc"}, wantErr: true},
		{args: []string{"3", "-1"}, wantErr: true},
	}
	for _, tt := range tests {
		got, err := screenFromArgs(tt.args)
		if tt.wantErr {
			require.Error(t, err, "screenFromArgs(%v)", tt.args)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func TestSessionKeyCommand(t *testing.T) {
	out := mustExecute(t, "", "session-key")
	require.True(t, strings.HasPrefix(out, "export NOTOLI_SESSION_KEY="))
	require.Len(t, strings.TrimSpace(strings.TrimPrefix(out, "export NOTOLI_SESSION_KEY=")), 64)
}

func TestProtectedCommandsNeedASession(t *testing.T) {
	setupCLIFixture(t)

	_, err := runCLI(t, "", "workspaces", "list")
	require.ErrorContains(t, err, "not authenticated")

	out := mustExecute(t, "", "where")
	require.Contains(t, out, "/login")
}

func TestSessionLifecycle(t *testing.T) {
	f := setupCLIFixture(t)

	out := mustExecute(t, "pw\n", "register", "--email", "ada@example.com", "--password-stdin")
	require.Contains(t, out, "-> /register")
	require.Contains(t, out, "Account created, signed in as ada")
	require.Contains(t, out, "-> /workspace/1")

	out = mustExecute(t, "", "todolists", "create", "--name", "Today")
	require.Contains(t, out, "Created todo list 1 in workspace 1")

	out = mustExecute(t, "", "open", "1", "1")
	require.Contains(t, out, "Today")
	require.Contains(t, out, "(none)")

	out = mustExecute(t, "", "notes", "add", "buy", "milk")
	require.Contains(t, out, "Added note 1")

	out = mustExecute(t, "", "notes", "list")
	require.Contains(t, out, "buy milk")

	out = mustExecute(t, "", "back")
	require.Contains(t, out, "=> /workspace/1")
	require.Contains(t, out, "Today")

	out = mustExecute(t, "", "where")
	require.Contains(t, out, "/workspace/1")
	require.Contains(t, out, "parent:    /")

	t.Run("expired session ends at the login screen with a notice", func(t *testing.T) {
		f.backend.InvalidateSessions()

		out, err := runCLI(t, "", "workspaces", "list")
		require.ErrorContains(t, err, "Given token not valid for any token type")
		require.Contains(t, out, "=> /login")

		require.Contains(t, mustExecute(t, "", "whoami"), "Not signed in.")

		out = mustExecute(t, "pw\n", "login", "--email", "ada@example.com", "--password-stdin")
		require.Contains(t, out, "[error] "+sessions.SessionExpiredMessage)
		require.Contains(t, out, "Signed in as ada")
		require.Contains(t, out, "-> /workspace/1")
	})

	t.Run("logout queues a notice for the next login", func(t *testing.T) {
		out := mustExecute(t, "", "logout")
		require.Contains(t, out, "=> /login")

		out = mustExecute(t, "pw\n", "login", "--email", "ada@example.com", "--password-stdin")
		require.Contains(t, out, "[success] "+sessions.LoggedOutMessage)
		require.NotContains(t, out, sessions.SessionExpiredMessage)
	})

	t.Run("whoami reads the token", func(t *testing.T) {
		out := mustExecute(t, "", "whoami")
		require.Contains(t, out, "username: ada")
		require.Contains(t, out, "user id:  1")
		require.Contains(t, out, "valid until")
	})
}

func TestShell(t *testing.T) {
	f := setupCLIFixture(t)
	t.Setenv("NOTOLI_SESSION_STORE", "memory")
	_, err := f.backend.CreateUser("ada@example.com", "ada", "pw")
	require.NoError(t, err)

	// The password line follows the login command on the shell's stdin.
	script := strings.Join([]string{
		`login --email ada@example.com --password-stdin`,
		`pw`,
		`workspaces create --name "Side project"`,
		`workspaces list`,
		`where --log-level debug`,
		`shell`,
		`exit`,
	}, "\n") + "\n"

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs([]string{"shell"})
	root.SetIn(strings.NewReader(script))
	root.SetOut(&out)
	root.SetErr(&errOut)
	require.NoError(t, execute(context.Background(), root))

	require.Contains(t, out.String(), "Signed in as ada")
	require.Contains(t, out.String(), "Side project")
	require.Contains(t, errOut.String(), "--log-level cannot change inside a shell")
	require.Contains(t, errOut.String(), "already in a shell")
}

func TestPrevNext(t *testing.T) {
	setupCLIFixture(t)

	mustExecute(t, "pw\n", "register", "--email", "ada@example.com", "--password-stdin")
	require.Contains(t, mustExecute(t, "", "next"), "No later screen.")
	require.Contains(t, mustExecute(t, "", "prev"), "<- /register")
	require.Contains(t, mustExecute(t, "", "next"), "-> /workspace/1")
	require.Contains(t, mustExecute(t, "", "where"), "/workspace/1")
	require.Contains(t, mustExecute(t, "", "next"), "No later screen.")
}

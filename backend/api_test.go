package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/notoli/backend"
	"github.com/jrsteele09/notoli/backend/fakebackend"
	"github.com/jrsteele09/notoli/client"
	"github.com/jrsteele09/notoli/internal/utils"
	"github.com/jrsteele09/notoli/navigation"
	"github.com/jrsteele09/notoli/paths"
	"github.com/jrsteele09/notoli/sessions"
	fakestorage "github.com/jrsteele09/notoli/sessions/repofakes"
	"github.com/stretchr/testify/require"
)

// testFixture wires the API to an in-memory backend. The history starts on
// the login screen, the way a fresh visit does.
type testFixture struct {
	backend *fakebackend.Server
	server  *httptest.Server
	storage *fakestorage.FakeStorage
	history *navigation.History
	api     *backend.API
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		backend: fakebackend.New(fakebackend.Options{
			Secret:           []byte("test-secret"),
			DefaultWorkspace: fakebackend.DefaultWorkspaceName,
		}),
		storage: fakestorage.NewFakeStorage(),
		history: navigation.NewHistory(paths.Login),
	}
	f.server = httptest.NewServer(f.backend)
	t.Cleanup(f.server.Close)

	c := client.New(f.server.URL, sessions.NewStore(f.storage),
		client.WithNavigator(f.history),
		client.WithLocator(f.history),
	)
	f.api = backend.New(c)
	return f
}

// signedIn registers ada and leaves the history on her first workspace.
func (f *testFixture) signedIn(t *testing.T) string {
	t.Helper()
	target, err := f.api.SignUp(context.Background(), backend.RegisterRequest{Email: "ada@example.com", Password: "pw"}, f.history)
	require.NoError(t, err)
	return target
}

func TestAPI_Login(t *testing.T) {
	f := setupTestFixture(t)
	_, err := f.backend.CreateUser("ada@example.com", "ada", "secret")
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("returns tokens without touching the session", func(t *testing.T) {
		out, err := f.api.Login(ctx, backend.LoginRequest{Email: "ada@example.com", Password: "secret"})
		require.NoError(t, err)
		require.NotEmpty(t, out.Access)
		require.NotEmpty(t, out.Refresh)
		require.Empty(t, f.storage.Items())
	})

	t.Run("username works when email is blank", func(t *testing.T) {
		_, err := f.api.Login(ctx, backend.LoginRequest{Username: "ada", Password: "secret"})
		require.NoError(t, err)
	})

	t.Run("bad credentials surface the backend message and keep the screen", func(t *testing.T) {
		_, err := f.api.Login(ctx, backend.LoginRequest{Email: "ada@example.com", Password: "wrong"})
		var httpErr *client.HTTPError
		require.ErrorAs(t, err, &httpErr)
		require.Equal(t, http.StatusUnauthorized, httpErr.Status)
		require.Equal(t, "No active account found with the given credentials", httpErr.Message)

		require.Equal(t, paths.Login, f.history.Location())
		require.False(t, f.storage.Has(sessions.KeyPendingNotification))
	})
}

func TestAPI_Register(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	out, err := f.api.Register(ctx, backend.RegisterRequest{Email: " grace@example.com ", Username: "  ", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, "User created successfully.", out.Message)
	require.NotZero(t, out.WorkspaceID)

	_, err = f.api.Register(ctx, backend.RegisterRequest{Email: "grace@example.com", Password: "pw"})
	var httpErr *client.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusBadRequest, httpErr.Status)
	require.Equal(t, "Email already exists.", httpErr.Message)
}

func TestAPI_CRUD(t *testing.T) {
	f := setupTestFixture(t)
	f.signedIn(t)
	ctx := context.Background()

	ws, err := f.api.CreateWorkspace(ctx, backend.WorkspaceInput{Name: "Work"})
	require.NoError(t, err)
	require.Equal(t, "Work", ws.Name)

	ws, err = f.api.UpdateWorkspace(ctx, ws.ID, backend.WorkspaceUpdate{Description: utils.Ptr("desk")})
	require.NoError(t, err)
	require.Equal(t, "Work", ws.Name)
	require.Equal(t, "desk", ws.Description)

	list, err := f.api.CreateTodoList(ctx, backend.TodoListInput{Workspace: ws.ID, Name: "Today"})
	require.NoError(t, err)
	require.Equal(t, ws.ID, list.Workspace)

	list, err = f.api.UpdateTodoList(ctx, list.ID, backend.TodoListUpdate{Name: utils.Ptr("Tomorrow")})
	require.NoError(t, err)
	require.Equal(t, "Tomorrow", list.Name)

	lists, err := f.api.TodoLists(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, lists, 1)

	note, err := f.api.CreateNote(ctx, backend.NoteInput{TodoList: list.ID, Note: "milk"})
	require.NoError(t, err)
	note, err = f.api.UpdateNote(ctx, note.ID, backend.NoteUpdate{Description: utils.Ptr("2L")})
	require.NoError(t, err)
	require.Equal(t, "milk", note.Note)
	require.Equal(t, "2L", note.Description)

	notes, err := f.api.Notes(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)

	require.NoError(t, f.api.DeleteNote(ctx, note.ID))
	require.NoError(t, f.api.DeleteTodoList(ctx, list.ID))
	require.NoError(t, f.api.DeleteWorkspace(ctx, ws.ID))

	_, err = f.api.Workspace(ctx, ws.ID)
	var httpErr *client.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusNotFound, httpErr.Status)

	err = f.api.DeleteWorkspace(ctx, ws.ID)
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, "No Workspace matches the given query.", httpErr.Message)
}

func TestAPI_ExpiredSession(t *testing.T) {
	f := setupTestFixture(t)
	landed := f.signedIn(t)
	ctx := context.Background()
	depth := f.history.Len()

	f.backend.InvalidateSessions()

	_, err := f.api.Workspaces(ctx)
	var httpErr *client.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusUnauthorized, httpErr.Status)

	require.Empty(t, f.api.Client().Sessions().AccessToken())
	require.Equal(t, paths.Login, f.history.Location())
	require.Equal(t, depth, f.history.Len(), "redirect replaces the current entry")

	n, ok := f.api.Client().Sessions().TakeNotification()
	require.True(t, ok)
	require.Equal(t, sessions.SessionExpired(), n)

	// Back does not return to the protected screen that expired.
	require.True(t, f.history.Back())
	require.NotEqual(t, landed, f.history.Location())
}

func TestAPI_ExpiredSessionOnLoginScreen(t *testing.T) {
	f := setupTestFixture(t)
	f.signedIn(t)
	f.history.Navigate(paths.Login, navigation.Options{})
	f.backend.InvalidateSessions()

	_, err := f.api.Workspaces(context.Background())
	require.Error(t, err)

	require.Empty(t, f.api.Client().Sessions().AccessToken())
	require.False(t, f.storage.Has(sessions.KeyPendingNotification))
	require.Equal(t, paths.Login, f.history.Location())
}

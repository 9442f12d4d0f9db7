package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jrsteele09/notoli/client"
	"github.com/pkg/errors"
)

// API is the typed notoli REST surface. Every call goes through the
// request interceptor and carries the stored access token when there is one.
type API struct {
	client *client.Client
}

func New(c *client.Client) *API {
	return &API{client: c}
}

func (a *API) Client() *client.Client {
	return a.client
}

// Login posts credentials. It does not touch the stored session; see
// SignIn for the full flow.
func (a *API) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	payload := map[string]string{"password": req.Password}
	if req.Email != "" {
		payload["email"] = req.Email
	} else if req.Username != "" {
		payload["username"] = req.Username
	}

	var out AuthResponse
	resp, err := a.send(ctx, http.MethodPost, client.LoginEndpoint, payload, false)
	if err != nil {
		return out, err
	}
	if err := client.ReadOKJSON(resp, "Login failed :(", &out); err != nil {
		return out, err
	}
	return out, nil
}

// Register creates an account. Email and username are trimmed and a blank
// username is omitted.
func (a *API) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	payload := map[string]string{
		"email":    strings.TrimSpace(req.Email),
		"password": req.Password,
	}
	if username := strings.TrimSpace(req.Username); username != "" {
		payload["username"] = username
	}

	var out AuthResponse
	resp, err := a.send(ctx, http.MethodPost, client.RegisterEndpoint, payload, false)
	if err != nil {
		return out, err
	}
	if err := client.ReadOKJSON(resp, "Registration failed :(", &out); err != nil {
		return out, err
	}
	return out, nil
}

func (a *API) Workspaces(ctx context.Context) ([]Workspace, error) {
	var out []Workspace
	return out, a.do(ctx, http.MethodGet, "/api/workspaces/", nil, "Workspace list was empty.", &out)
}

func (a *API) Workspace(ctx context.Context, id int64) (Workspace, error) {
	var out Workspace
	return out, a.do(ctx, http.MethodGet, workspacePath(id), nil, "Workspace response was empty.", &out)
}

func (a *API) CreateWorkspace(ctx context.Context, in WorkspaceInput) (Workspace, error) {
	var out Workspace
	return out, a.do(ctx, http.MethodPost, "/api/workspaces/", in, "Workspace response was empty.", &out)
}

func (a *API) UpdateWorkspace(ctx context.Context, id int64, in WorkspaceUpdate) (Workspace, error) {
	var out Workspace
	return out, a.do(ctx, http.MethodPatch, workspacePath(id), in, "Workspace response was empty.", &out)
}

func (a *API) DeleteWorkspace(ctx context.Context, id int64) error {
	return a.delete(ctx, workspacePath(id))
}

func (a *API) TodoLists(ctx context.Context, workspaceID int64) ([]TodoList, error) {
	var out []TodoList
	return out, a.do(ctx, http.MethodGet, todoListsPath(workspaceID), nil, "Todo list response was empty.", &out)
}

func (a *API) TodoList(ctx context.Context, id int64) (TodoList, error) {
	var out TodoList
	return out, a.do(ctx, http.MethodGet, todoListPath(id), nil, "Todo list response was empty.", &out)
}

// CreateTodoList creates a list in in.Workspace.
func (a *API) CreateTodoList(ctx context.Context, in TodoListInput) (TodoList, error) {
	var out TodoList
	return out, a.do(ctx, http.MethodPost, todoListsPath(in.Workspace), in, "Todo list response was empty.", &out)
}

func (a *API) UpdateTodoList(ctx context.Context, id int64, in TodoListUpdate) (TodoList, error) {
	var out TodoList
	return out, a.do(ctx, http.MethodPatch, todoListPath(id), in, "Todo list response was empty.", &out)
}

func (a *API) DeleteTodoList(ctx context.Context, id int64) error {
	return a.delete(ctx, todoListPath(id))
}

func (a *API) Notes(ctx context.Context, todoListID int64) ([]Note, error) {
	var out []Note
	return out, a.do(ctx, http.MethodGet, notesPath(todoListID), nil, "Note response was empty.", &out)
}

// CreateNote creates a note in in.TodoList.
func (a *API) CreateNote(ctx context.Context, in NoteInput) (Note, error) {
	var out Note
	return out, a.do(ctx, http.MethodPost, notesPath(in.TodoList), in, "Note response was empty.", &out)
}

func (a *API) UpdateNote(ctx context.Context, id int64, in NoteUpdate) (Note, error) {
	var out Note
	return out, a.do(ctx, http.MethodPatch, notePath(id), in, "Note response was empty.", &out)
}

func (a *API) DeleteNote(ctx context.Context, id int64) error {
	return a.delete(ctx, notePath(id))
}

func (a *API) do(ctx context.Context, method, path string, body any, fallback string, out any) error {
	resp, err := a.send(ctx, method, path, body, true)
	if err != nil {
		return err
	}
	return client.ReadOKJSON(resp, fallback, out)
}

func (a *API) delete(ctx context.Context, path string) error {
	resp, err := a.send(ctx, http.MethodDelete, path, nil, true)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return &client.HTTPError{
			Status:  resp.Status(),
			Message: client.ErrorMessage(resp, fmt.Sprintf("HTTP %d", resp.Status())),
		}
	}
	return resp.Close()
}

func (a *API) send(ctx context.Context, method, path string, body any, withToken bool) (*client.Response, error) {
	opts := client.Options{Method: method, Header: http.Header{}}
	if withToken {
		opts.Token = a.client.Sessions().AccessToken()
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encode request body")
		}
		opts.Body = bytes.NewReader(data)
		opts.Header.Set("Content-Type", "application/json")
	}
	return a.client.Fetch(ctx, path, opts)
}

func workspacePath(id int64) string {
	return "/api/workspaces/" + strconv.FormatInt(id, 10) + "/"
}

func todoListsPath(workspaceID int64) string {
	return "/api/todolists/?workspace=" + url.QueryEscape(strconv.FormatInt(workspaceID, 10))
}

func todoListPath(id int64) string {
	return "/api/todolists/" + strconv.FormatInt(id, 10) + "/"
}

func notesPath(todoListID int64) string {
	return "/api/notes/?todo_list=" + url.QueryEscape(strconv.FormatInt(todoListID, 10))
}

func notePath(id int64) string {
	return "/api/notes/" + strconv.FormatInt(id, 10) + "/"
}

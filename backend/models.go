package backend

import (
	"time"

	"github.com/jrsteele09/notoli/sessions"
)

// Workspace is a top-level container of todo lists.
type Workspace struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Owner         int64     `json:"owner,omitempty"`
	Collaborators []int64   `json:"collaborators,omitempty"`
	CreatedBy     int64     `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TodoList is a named collection of notes inside one workspace.
type TodoList struct {
	ID            int64     `json:"id"`
	Workspace     int64     `json:"workspace"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Owner         int64     `json:"owner,omitempty"`
	Collaborators []int64   `json:"collaborators,omitempty"`
	CreatedBy     int64     `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Note is a leaf text item in a todo list.
type Note struct {
	ID            int64     `json:"id"`
	Note          string    `json:"note"`
	Description   string    `json:"description"`
	Owner         int64     `json:"owner,omitempty"`
	Collaborators []int64   `json:"collaborators,omitempty"`
	CreatedBy     int64     `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LoginRequest identifies the user by email or username; email wins when both are set.
type LoginRequest struct {
	Email    string
	Username string
	Password string
}

type RegisterRequest struct {
	Email    string
	Username string // Optional; the backend derives one from the email
	Password string
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	sessions.Credentials
	Message     string `json:"message,omitempty"`
	WorkspaceID int64  `json:"workspace_id,omitempty"`
}

type WorkspaceInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// WorkspaceUpdate is a partial update; nil fields are left unchanged.
type WorkspaceUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type TodoListInput struct {
	Workspace   int64  `json:"workspace"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TodoListUpdate is a partial update; nil fields are left unchanged.
type TodoListUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type NoteInput struct {
	TodoList    int64  `json:"todo_list"`
	Note        string `json:"note"`
	Description string `json:"description"`
}

// NoteUpdate is a partial update; nil fields are left unchanged.
type NoteUpdate struct {
	Note        *string `json:"note,omitempty"`
	Description *string `json:"description,omitempty"`
}

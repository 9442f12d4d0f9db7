package fakebackend

import (
	"sort"
	"strings"
	"time"
)

type user struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash []byte
}

type ownership struct {
	Owner         int64   `json:"owner"`
	Collaborators []int64 `json:"collaborators"`
	CreatedBy     int64   `json:"created_by"`
}

func (o ownership) accessibleTo(userID int64) bool {
	if o.Owner == userID || o.CreatedBy == userID {
		return true
	}
	for _, id := range o.Collaborators {
		if id == userID {
			return true
		}
	}
	return false
}

// canWrite is narrower than accessibleTo: creators who are no longer
// owners or collaborators may read but not add children.
func (o ownership) canWrite(userID int64) bool {
	if o.Owner == userID {
		return true
	}
	for _, id := range o.Collaborators {
		if id == userID {
			return true
		}
	}
	return false
}

type workspaceRecord struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ownership
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type todoListRecord struct {
	ID          int64  `json:"id"`
	Workspace   int64  `json:"workspace"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ownership
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type noteRecord struct {
	ID          int64  `json:"id"`
	Note        string `json:"note"`
	Description string `json:"description"`
	ownership
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	todoList int64
}

// The helpers below expect s.mu to be held.

const (
	usersTable      = "users"
	workspacesTable = "workspaces"
	todoListsTable  = "todolists"
	notesTable      = "notes"
)

// newID hands out per-table ids starting at 1.
func (s *Server) newID(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

func (s *Server) userByEmail(email string) *user {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

func (s *Server) userByUsername(username string) *user {
	for _, u := range s.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

// uniqueUsername appends the smallest counter that makes base unused.
func (s *Server) uniqueUsername(base string) string {
	const maxLen = 150
	if len(base) > maxLen {
		base = base[:maxLen]
	}
	candidate := base
	for counter := 1; s.userByUsername(candidate) != nil; counter++ {
		suffix := itoa(int64(counter))
		trimmed := base
		if len(trimmed) > maxLen-len(suffix) {
			trimmed = trimmed[:maxLen-len(suffix)]
		}
		candidate = trimmed + suffix
	}
	return candidate
}

func (s *Server) createWorkspace(ownerID int64, name, description string) *workspaceRecord {
	now := s.nowFunc().UTC()
	ws := &workspaceRecord{
		ID:          s.newID(workspacesTable),
		Name:        name,
		Description: description,
		ownership:   ownership{Owner: ownerID, CreatedBy: ownerID, Collaborators: []int64{}},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.workspaces[ws.ID] = ws
	return ws
}

func (s *Server) deleteWorkspace(id int64) {
	for listID, list := range s.todoLists {
		if list.Workspace == id {
			s.deleteTodoList(listID)
		}
	}
	delete(s.workspaces, id)
}

func (s *Server) deleteTodoList(id int64) {
	for noteID, note := range s.notes {
		if note.todoList == id {
			delete(s.notes, noteID)
		}
	}
	delete(s.todoLists, id)
}

func sortedByID[T any](items map[int64]T, keep func(T) bool) []T {
	ids := make([]int64, 0, len(items))
	for id, item := range items {
		if keep(item) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, items[id])
	}
	return out
}

// Package paths derives navigation relationships in the
// workspace → todolist → note hierarchy from a URL path.
package paths

import (
	"strings"

	"github.com/jrsteele09/notoli/internal/errors"
	"github.com/jrsteele09/notoli/navigation"
	"github.com/rs/zerolog/log"
)

const (
	Root     = "/"
	Login    = "/login"
	Register = "/register"

	workspaceSegment = "workspace"
	todoListSegment  = "todolist"
)

// Parent is the result of ParentOf: either a path or no parent at all.
// The zero value is NoParent.
type Parent struct {
	path string
	ok   bool
}

// NoParent is returned for paths outside the known hierarchy.
var NoParent = Parent{}

// Path returns the parent path and true, or "" and false for NoParent.
func (p Parent) Path() (string, bool) {
	return p.path, p.ok
}

func (p Parent) IsNone() bool {
	return !p.ok
}

// Err is ErrNoParent for NoParent and nil otherwise.
func (p Parent) Err() error {
	if !p.ok {
		return errors.ErrNoParent
	}
	return nil
}

func (p Parent) String() string {
	if !p.ok {
		return "<no parent>"
	}
	return p.path
}

func parentPath(path string) Parent {
	return Parent{path: path, ok: true}
}

// Workspace builds /workspace/{id}.
func Workspace(workspaceID string) string {
	return "/" + workspaceSegment + "/" + workspaceID
}

// TodoList builds /workspace/{wid}/todolist/{tlid}.
func TodoList(workspaceID, todoListID string) string {
	return Workspace(workspaceID) + "/" + todoListSegment + "/" + todoListID
}

// ParentOf returns the path one level up:
//
//	/workspace/{wid}/todolist/{tlid}[/...] -> /workspace/{wid}
//	/workspace/{wid}                       -> /
//
// Anything else, root included, has no parent.
func ParentOf(path string) Parent {
	wid, _, level := match(path)
	switch level {
	case todoListDepth:
		return parentPath(Workspace(wid))
	case workspaceDepth:
		return parentPath(Root)
	default:
		return NoParent
	}
}

// WorkspaceIDOf returns the workspace id of a workspace or todo list path.
func WorkspaceIDOf(path string) (string, bool) {
	wid, _, level := match(path)
	if level == noMatch {
		return "", false
	}
	return wid, true
}

// TodoListIDOf returns the todo list id of a todo list path or anything below it.
func TodoListIDOf(path string) (string, bool) {
	_, tlid, level := match(path)
	if level != todoListDepth {
		return "", false
	}
	return tlid, true
}

// GoToParent navigates to ParentOf(path), replacing the current history entry
// so drilling down and back up does not grow history. With no parent it does
// nothing and returns false.
func GoToParent(path string, nav navigation.Navigator) bool {
	parent := ParentOf(path)
	to, ok := parent.Path()
	if !ok {
		log.Debug().Err(parent.Err()).Str("path", path).Msg("Navigation skipped")
		return false
	}
	if nav == nil {
		return false
	}
	return nav.Navigate(to, navigation.Options{Replace: true})
}

type matchDepth int

const (
	noMatch matchDepth = iota
	workspaceDepth
	todoListDepth
)

// Normalize strips trailing slashes; the root stays "/".
func Normalize(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" && strings.HasPrefix(path, "/") {
		return Root
	}
	return trimmed
}

func match(path string) (wid, tlid string, level matchDepth) {
	path = Normalize(path)
	if !strings.HasPrefix(path, "/") || path == Root {
		return "", "", noMatch
	}

	segments := strings.Split(path[1:], "/")
	if len(segments) < 2 || segments[0] != workspaceSegment || segments[1] == "" {
		return "", "", noMatch
	}
	if len(segments) == 2 {
		return segments[1], "", workspaceDepth
	}
	if len(segments) >= 4 && segments[2] == todoListSegment && segments[3] != "" {
		return segments[1], segments[3], todoListDepth
	}
	return "", "", noMatch
}

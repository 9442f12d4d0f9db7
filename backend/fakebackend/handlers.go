package fakebackend

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/jrsteele09/notoli/internal/utils"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const maxCharField = 255

type workspacePayload struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type todoListPayload struct {
	Workspace   json.Number `json:"workspace"`
	Name        *string     `json:"name"`
	Description *string     `json:"description"`
}

type notePayload struct {
	TodoList    json.Number `json:"todo_list"`
	Note        *string     `json:"note"`
	Description *string     `json:"description"`
}

func (s *Server) ListWorkspacesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFrom(r.Context())
		s.mu.RLock()
		out := sortedByID(s.workspaces, func(ws *workspaceRecord) bool { return ws.accessibleTo(userID) })
		s.mu.RUnlock()
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) CreateWorkspaceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in workspacePayload
		if !decodeOrReject(w, r, &in) {
			return
		}
		if fieldErrs := requireText("name", in.Name); fieldErrs != nil {
			writeJSON(w, http.StatusBadRequest, fieldErrs)
			return
		}

		s.mu.Lock()
		ws := s.createWorkspace(userIDFrom(r.Context()), strings.TrimSpace(*in.Name), utils.Value(in.Description))
		out := *ws
		s.mu.Unlock()
		writeJSON(w, http.StatusCreated, out)
	}
}

func (s *Server) GetWorkspaceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		ws, ok := s.visibleWorkspace(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, ws)
	}
}

func (s *Server) UpdateWorkspaceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in workspacePayload
		if !decodeOrReject(w, r, &in) {
			return
		}
		if in.Name != nil {
			if fieldErrs := requireText("name", in.Name); fieldErrs != nil {
				writeJSON(w, http.StatusBadRequest, fieldErrs)
				return
			}
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		ws, ok := s.visibleWorkspace(w, r)
		if !ok {
			return
		}
		if in.Name != nil {
			ws.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			ws.Description = *in.Description
		}
		ws.UpdatedAt = s.nowFunc().UTC()
		writeJSON(w, http.StatusOK, ws)
	}
}

func (s *Server) DeleteWorkspaceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		ws, ok := s.visibleWorkspace(w, r)
		if !ok {
			return
		}
		s.deleteWorkspace(ws.ID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ListTodoListsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFrom(r.Context())
		s.mu.RLock()
		defer s.mu.RUnlock()

		var workspaceID int64
		if raw := r.URL.Query().Get("workspace"); raw != "" {
			id, ok := s.requireWorkspaceAccess(w, userID, raw)
			if !ok {
				return
			}
			workspaceID = id
		}
		out := sortedByID(s.todoLists, func(list *todoListRecord) bool {
			return list.accessibleTo(userID) && (workspaceID == 0 || list.Workspace == workspaceID)
		})
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) CreateTodoListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in todoListPayload
		if !decodeOrReject(w, r, &in) {
			return
		}
		if in.Workspace == "" {
			in.Workspace = json.Number(r.URL.Query().Get("workspace"))
		}
		if fieldErrs := requireText("name", in.Name); fieldErrs != nil {
			writeJSON(w, http.StatusBadRequest, fieldErrs)
			return
		}

		userID := userIDFrom(r.Context())
		s.mu.Lock()
		defer s.mu.Unlock()

		workspaceID, err := in.Workspace.Int64()
		ws, exists := s.workspaces[workspaceID]
		if err != nil || !exists {
			writeDetail(w, http.StatusNotFound, "No Workspace matches the given query.")
			return
		}
		if !ws.canWrite(userID) {
			writeDetail(w, http.StatusForbidden, "You cannot add todo-lists to this workspace.")
			return
		}

		now := s.nowFunc().UTC()
		list := &todoListRecord{
			ID:          s.newID(todoListsTable),
			Workspace:   ws.ID,
			Name:        strings.TrimSpace(*in.Name),
			Description: utils.Value(in.Description),
			ownership:   ownership{Owner: userID, CreatedBy: userID, Collaborators: []int64{}},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		s.todoLists[list.ID] = list
		writeJSON(w, http.StatusCreated, list)
	}
}

func (s *Server) GetTodoListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		list, ok := s.visibleTodoList(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) UpdateTodoListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in todoListPayload
		if !decodeOrReject(w, r, &in) {
			return
		}
		if in.Name != nil {
			if fieldErrs := requireText("name", in.Name); fieldErrs != nil {
				writeJSON(w, http.StatusBadRequest, fieldErrs)
				return
			}
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		list, ok := s.visibleTodoList(w, r)
		if !ok {
			return
		}
		if in.Name != nil {
			list.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			list.Description = *in.Description
		}
		list.UpdatedAt = s.nowFunc().UTC()
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) DeleteTodoListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		list, ok := s.visibleTodoList(w, r)
		if !ok {
			return
		}
		s.deleteTodoList(list.ID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ListNotesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFrom(r.Context())
		var todoListID int64
		if raw := r.URL.Query().Get("todo_list"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeJSON(w, http.StatusOK, []noteRecord{})
				return
			}
			todoListID = id
		}

		s.mu.RLock()
		out := sortedByID(s.notes, func(note *noteRecord) bool {
			return note.accessibleTo(userID) && (todoListID == 0 || note.todoList == todoListID)
		})
		s.mu.RUnlock()
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) CreateNoteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in notePayload
		if !decodeOrReject(w, r, &in) {
			return
		}
		if in.TodoList == "" {
			in.TodoList = json.Number(r.URL.Query().Get("todo_list"))
		}
		if in.TodoList == "" {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"todo_list": {"This field is required."}})
			return
		}
		if fieldErrs := requireText("note", in.Note); fieldErrs != nil {
			writeJSON(w, http.StatusBadRequest, fieldErrs)
			return
		}

		userID := userIDFrom(r.Context())
		s.mu.Lock()
		defer s.mu.Unlock()

		listID, err := in.TodoList.Int64()
		list, exists := s.todoLists[listID]
		if err != nil || !exists {
			writeJSON(w, http.StatusBadRequest, map[string][]string{
				"todo_list": {"Invalid pk \"" + in.TodoList.String() + "\" - object does not exist."},
			})
			return
		}
		if !list.canWrite(userID) {
			writeDetail(w, http.StatusForbidden, "You cannot add notes to this todo-list.")
			return
		}

		now := s.nowFunc().UTC()
		note := &noteRecord{
			ID:          s.newID(notesTable),
			Note:        strings.TrimSpace(*in.Note),
			Description: utils.Value(in.Description),
			ownership:   ownership{Owner: userID, CreatedBy: userID, Collaborators: []int64{}},
			CreatedAt:   now,
			UpdatedAt:   now,
			todoList:    list.ID,
		}
		s.notes[note.ID] = note
		writeJSON(w, http.StatusCreated, note)
	}
}

func (s *Server) UpdateNoteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in notePayload
		if !decodeOrReject(w, r, &in) {
			return
		}
		if in.Note != nil {
			if fieldErrs := requireText("note", in.Note); fieldErrs != nil {
				writeJSON(w, http.StatusBadRequest, fieldErrs)
				return
			}
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		note, ok := s.visibleNote(w, r)
		if !ok {
			return
		}
		if in.Note != nil {
			note.Note = strings.TrimSpace(*in.Note)
		}
		if in.Description != nil {
			note.Description = *in.Description
		}
		note.UpdatedAt = s.nowFunc().UTC()
		writeJSON(w, http.StatusOK, note)
	}
}

func (s *Server) DeleteNoteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		note, ok := s.visibleNote(w, r)
		if !ok {
			return
		}
		delete(s.notes, note.ID)
		w.WriteHeader(http.StatusNoContent)
	}
}

// requireWorkspaceAccess answers 404 for unknown workspaces and 403 for
// workspaces the user cannot see.
func (s *Server) requireWorkspaceAccess(w http.ResponseWriter, userID int64, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Workspace not found.")
		return 0, false
	}
	ws, exists := s.workspaces[id]
	if !exists {
		writeDetail(w, http.StatusNotFound, "Workspace not found.")
		return 0, false
	}
	if !ws.accessibleTo(userID) {
		writeDetail(w, http.StatusForbidden, "You do not have access to this workspace.")
		return 0, false
	}
	return id, true
}

func (s *Server) visibleWorkspace(w http.ResponseWriter, r *http.Request) (*workspaceRecord, bool) {
	ws, ok := s.workspaces[routeID(r)]
	if !ok || !ws.accessibleTo(userIDFrom(r.Context())) {
		writeDetail(w, http.StatusNotFound, "No Workspace matches the given query.")
		return nil, false
	}
	return ws, true
}

func (s *Server) visibleTodoList(w http.ResponseWriter, r *http.Request) (*todoListRecord, bool) {
	list, ok := s.todoLists[routeID(r)]
	if !ok || !list.accessibleTo(userIDFrom(r.Context())) {
		writeDetail(w, http.StatusNotFound, "No TodoList matches the given query.")
		return nil, false
	}
	return list, true
}

func (s *Server) visibleNote(w http.ResponseWriter, r *http.Request) (*noteRecord, bool) {
	note, ok := s.notes[routeID(r)]
	if !ok || !note.accessibleTo(userIDFrom(r.Context())) {
		writeDetail(w, http.StatusNotFound, "No Note matches the given query.")
		return nil, false
	}
	return note, true
}

func routeID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func requireText(field string, v *string) map[string][]string {
	switch {
	case v == nil:
		return map[string][]string{field: {"This field is required."}}
	case strings.TrimSpace(*v) == "":
		return map[string][]string{field: {"This field may not be blank."}}
	case len(*v) > maxCharField:
		return map[string][]string{field: {"Ensure this field has no more than 255 characters."}}
	}
	return nil
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil && !pkgerrors.Is(err, io.EOF) {
		return pkgerrors.Wrap(err, "decode request body")
	}
	return nil
}

func decodeOrReject(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := decodeBody(r, v); err != nil {
		writeDetail(w, http.StatusBadRequest, "JSON parse error.")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("fakebackend: writing response")
	}
}

// writeDetail writes the framework-style {"detail": ...} error body.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeError writes the {"error": ...} body the auth views use.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

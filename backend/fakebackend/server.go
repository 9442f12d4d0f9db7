// Package fakebackend is an in-memory implementation of the notoli REST API
// for local development and tests. It follows the real backend's routes,
// status codes and error bodies closely enough for the client to not care.
package fakebackend

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// DefaultWorkspaceName is what new users' first workspace is called.
const DefaultWorkspaceName = "My Workspace"

type Options struct {
	Secret           []byte         // HMAC secret for issued tokens
	AccessTokenTTL   time.Duration  // Defaults to 5 minutes
	RefreshTokenTTL  time.Duration  // Defaults to 24 hours
	AllowedOrigins   AllowedOrigins // Browser origins allowed by CORS; defaults to "*"
	LogRequests      bool
	DefaultWorkspace string // Created for each new user; "" disables it
}

type Server struct {
	router      *mux.Router
	routes      []string
	preflight   http.HandlerFunc
	preflighted map[string]bool
	opts        Options
	nowFunc     func() time.Time

	mu              sync.RWMutex
	users           map[int64]*user
	workspaces      map[int64]*workspaceRecord
	todoLists       map[int64]*todoListRecord
	notes           map[int64]*noteRecord
	nextID          map[string]int64
	tokenGeneration int64
}

func New(opts Options) *Server {
	if len(opts.Secret) == 0 {
		opts.Secret = []byte("notoli-dev-secret")
	}
	if opts.AccessTokenTTL <= 0 {
		opts.AccessTokenTTL = 5 * time.Minute
	}
	if opts.RefreshTokenTTL <= 0 {
		opts.RefreshTokenTTL = 24 * time.Hour
	}
	if opts.AllowedOrigins == nil {
		opts.AllowedOrigins = AllowedOrigins{"*": {}}
	}

	s := &Server{
		router:      mux.NewRouter(),
		preflighted: make(map[string]bool),
		opts:        opts,
		nowFunc:     time.Now,
		users:       make(map[int64]*user),
		workspaces:  make(map[int64]*workspaceRecord),
		todoLists:   make(map[int64]*todoListRecord),
		notes:       make(map[int64]*noteRecord),
		nextID:      make(map[string]int64),
	}
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Routes lists the registered method/path patterns.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

// InvalidateSessions makes every token issued so far fail authentication,
// as if they had all expired.
func (s *Server) InvalidateSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenGeneration++
}

func (s *Server) initRoutes() {
	mw := s.middleware()
	s.preflight = ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, mw...)

	s.registerRoute(http.MethodPost, "/auth/login/", ChainMiddleware(s.LoginHandler(), mw...))
	s.registerRoute(http.MethodPost, "/auth/register/", ChainMiddleware(s.RegisterHandler(), mw...))

	authed := append(append([]func(http.HandlerFunc) http.HandlerFunc(nil), mw...), s.AuthMiddleware)
	s.registerRoute(http.MethodGet, "/api/workspaces/", ChainMiddleware(s.ListWorkspacesHandler(), authed...))
	s.registerRoute(http.MethodPost, "/api/workspaces/", ChainMiddleware(s.CreateWorkspaceHandler(), authed...))
	s.registerRoute(http.MethodGet, "/api/workspaces/{id:[0-9]+}/", ChainMiddleware(s.GetWorkspaceHandler(), authed...))
	s.registerRoute(http.MethodPatch, "/api/workspaces/{id:[0-9]+}/", ChainMiddleware(s.UpdateWorkspaceHandler(), authed...))
	s.registerRoute(http.MethodDelete, "/api/workspaces/{id:[0-9]+}/", ChainMiddleware(s.DeleteWorkspaceHandler(), authed...))

	s.registerRoute(http.MethodGet, "/api/todolists/", ChainMiddleware(s.ListTodoListsHandler(), authed...))
	s.registerRoute(http.MethodPost, "/api/todolists/", ChainMiddleware(s.CreateTodoListHandler(), authed...))
	s.registerRoute(http.MethodGet, "/api/todolists/{id:[0-9]+}/", ChainMiddleware(s.GetTodoListHandler(), authed...))
	s.registerRoute(http.MethodPatch, "/api/todolists/{id:[0-9]+}/", ChainMiddleware(s.UpdateTodoListHandler(), authed...))
	s.registerRoute(http.MethodDelete, "/api/todolists/{id:[0-9]+}/", ChainMiddleware(s.DeleteTodoListHandler(), authed...))

	s.registerRoute(http.MethodGet, "/api/notes/", ChainMiddleware(s.ListNotesHandler(), authed...))
	s.registerRoute(http.MethodPost, "/api/notes/", ChainMiddleware(s.CreateNoteHandler(), authed...))
	s.registerRoute(http.MethodPatch, "/api/notes/{id:[0-9]+}/", ChainMiddleware(s.UpdateNoteHandler(), authed...))
	s.registerRoute(http.MethodDelete, "/api/notes/{id:[0-9]+}/", ChainMiddleware(s.DeleteNoteHandler(), authed...))

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not found.")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method \""+r.Method+"\" not allowed.")
	})
}

func (s *Server) registerRoute(method, pattern string, handler http.HandlerFunc) {
	s.routes = append(s.routes, method+" "+pattern)
	s.router.HandleFunc(pattern, handler).Methods(method)
	// One OPTIONS route per pattern so unknown paths still 404.
	if !s.preflighted[pattern] {
		s.preflighted[pattern] = true
		s.router.HandleFunc(pattern, s.preflight).Methods(http.MethodOptions)
	}
}

// LogRoutes writes the route table at debug level.
func (s *Server) LogRoutes() {
	for _, route := range s.routes {
		log.Debug().Str("route", route).Msg("fakebackend route")
	}
}

package client

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jrsteele09/notoli/internal/errors"
	"github.com/jrsteele09/notoli/navigation"
	"github.com/jrsteele09/notoli/paths"
	"github.com/jrsteele09/notoli/sessions"
	"github.com/jrsteele09/notoli/token"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "http://localhost:8000"

	// Auth bootstrap endpoints legitimately answer 401 for bad credentials;
	// those responses belong to the login and register screens.
	LoginEndpoint    = "/auth/login/"
	RegisterEndpoint = "/auth/register/"

	RequestIDHeader = "X-Request-ID"
)

// Options are the standard request options passed to Fetch.
type Options struct {
	Method string      // Defaults to GET
	Header http.Header // Copied onto the request
	Body   io.Reader   // Optional request body
	Token  string      // Bearer token; no Authorization header when empty
}

// Client issues every backend call and applies a single authentication
// failure policy: a 401 from a protected endpoint ends the session.
type Client struct {
	baseURL  string
	basePath string
	http     *http.Client
	sessions *sessions.Store
	nav      navigation.Navigator
	location navigation.Locator
	log      zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient sets the transport used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithNavigator sets how the client redirects to the login screen.
func WithNavigator(nav navigation.Navigator) Option {
	return func(c *Client) {
		c.nav = nav
	}
}

// WithLocator sets where the client reads the displayed path from.
func WithLocator(loc navigation.Locator) Option {
	return func(c *Client) {
		c.location = loc
	}
}

// WithAppBasePath sets the prefix the login and register screens are served under.
func WithAppBasePath(basePath string) Option {
	return func(c *Client) {
		basePath = strings.TrimRight(strings.TrimSpace(basePath), "/")
		if basePath != "" && !strings.HasPrefix(basePath, "/") {
			basePath = "/" + basePath
		}
		c.basePath = basePath
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.log = logger
	}
}

// New creates a client for baseURL ("" means DefaultBaseURL).
func New(baseURL string, store *sessions.Store, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:  baseURL,
		http:     http.DefaultClient,
		sessions: store,
		log:      log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Sessions() *sessions.Store {
	return c.sessions
}

// Fetch sends the request to baseURL+path and returns the response whatever
// its status; callers inspect OK/Status themselves. A 401 from any endpoint
// other than login or register first ends the session (see HandleUnauthorized).
// Transport failures are returned as errors and leave the session alone.
func (c *Client) Fetch(ctx context.Context, path string, opts Options) (*Response, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, opts.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "Fetch http.NewRequest %s %s", method, path)
	}
	for key, values := range opts.Header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if opts.Token != "" {
		token.ToOAuth2(opts.Token, "").SetAuthHeader(req)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	logger := c.log.With().Str("request_id", requestID).Str("method", method).Str("path", path).Logger()

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug().Err(err).Msg("Request failed")
		return nil, errors.Wrapf(err, "Fetch %s %s", method, path)
	}
	logger.Debug().Int("status", resp.StatusCode).Msg("Request completed")

	if resp.StatusCode == http.StatusUnauthorized && shouldRedirectToLogin(path) {
		logger.Info().Msg("Unauthorized response, ending session")
		c.HandleUnauthorized()
	}

	return newResponse(resp), nil
}

// HandleUnauthorized ends an expired session: the stored session is cleared
// and, unless the login or register screen is already displayed, an expiry
// notification is queued and the user is sent to login without a new
// history entry. Running it more than once has the same end state.
func (c *Client) HandleUnauthorized() {
	c.sessions.Clear()

	if c.onAuthScreen() {
		return
	}

	c.sessions.QueueNotification(sessions.SessionExpired())
	c.redirectToLogin()
}

// Logout ends the session at the user's request from any screen.
func (c *Client) Logout() {
	c.sessions.Clear()
	c.sessions.QueueNotification(sessions.LoggedOut())
	c.redirectToLogin()
}

// RequireSession sends the user to login when there is no access token.
// It returns whether the protected screen may be shown.
func (c *Client) RequireSession() bool {
	if c.sessions.AccessToken() != "" {
		return true
	}
	c.redirectToLogin()
	return false
}

func (c *Client) redirectToLogin() {
	if c.nav == nil || !c.nav.Navigate(paths.Login, navigation.Options{Replace: true}) {
		c.log.Warn().Err(errors.ErrNavigatorMissing).Str("to", paths.Login).Msg("Redirect skipped")
	}
}

func (c *Client) onAuthScreen() bool {
	if c.location == nil {
		return false
	}
	current := strings.TrimRight(c.location.Location(), "/")
	return current == c.basePath+paths.Login || current == c.basePath+paths.Register
}

func shouldRedirectToLogin(path string) bool {
	return !strings.HasPrefix(path, "/auth/login") && !strings.HasPrefix(path, "/auth/register")
}

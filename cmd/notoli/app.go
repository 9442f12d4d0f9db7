package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jrsteele09/notoli/backend"
	"github.com/jrsteele09/notoli/client"
	"github.com/jrsteele09/notoli/internal/config"
	"github.com/jrsteele09/notoli/internal/errors"
	"github.com/jrsteele09/notoli/navigation"
	"github.com/jrsteele09/notoli/paths"
	"github.com/jrsteele09/notoli/sessions"
	"github.com/jrsteele09/notoli/sessions/filestore"
	"github.com/jrsteele09/notoli/sessions/memstore"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// historyKey holds the location history in session storage so consecutive
// invocations share one "tab".
const historyKey = "navHistory"

type stateKey struct{}

// state is shared by every command of one invocation (or one shell).
type state struct {
	cfg config.Config
	app *app
}

func stateFrom(ctx context.Context) (*state, bool) {
	if ctx == nil {
		return nil, false
	}
	st, ok := ctx.Value(stateKey{}).(*state)
	return st, ok
}

func prepareApp(cmd *cobra.Command, _ []string) error {
	st, ok := stateFrom(cmd.Context())
	if !ok {
		st = &state{}
		cmd.SetContext(context.WithValue(cmd.Context(), stateKey{}, st))
	}
	if st.cfg != nil {
		return rejectGlobalFlags(cmd)
	}
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.WithConfigFile(path), config.WithFlags(cmd.Flags()))
	if err != nil {
		return errors.Wrapf(err, "load config")
	}
	setupLogger(cfg, cmd.ErrOrStderr())
	st.cfg = cfg
	return nil
}

// rejectGlobalFlags fails commands run inside a shell that try to change
// settings the shell already loaded.
func rejectGlobalFlags(cmd *cobra.Command) error {
	var changed []string
	cmd.Root().PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if cmd.Flags().Changed(f.Name) {
			changed = append(changed, "--"+f.Name)
		}
	})
	if len(changed) > 0 {
		return fmt.Errorf("%s cannot change inside a shell; pass it to notoli shell instead", strings.Join(changed, ", "))
	}
	return nil
}

func setupLogger(cfg config.Config, w io.Writer) {
	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil || cfg.GetLogLevel() == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
}

func configFor(cmd *cobra.Command) (config.Config, error) {
	st, ok := stateFrom(cmd.Context())
	if !ok || st.cfg == nil {
		return nil, fmt.Errorf("%s: configuration not loaded", cmd.CommandPath())
	}
	return st.cfg, nil
}

// appFor returns the invocation's app, opening session storage on first use.
func appFor(cmd *cobra.Command) (*app, error) {
	st, ok := stateFrom(cmd.Context())
	if !ok || st.cfg == nil {
		return nil, fmt.Errorf("%s: configuration not loaded", cmd.CommandPath())
	}
	if st.app == nil {
		a, err := newApp(st.cfg)
		if err != nil {
			return nil, err
		}
		st.app = a
	}
	return st.app, nil
}

// app plays the single-page client: a session store, a location history
// standing in for the address bar, and the request interceptor.
type app struct {
	basePath string
	storage  sessions.Storage
	store    *sessions.Store
	history  *navigation.History
	bridge   *navigation.Bridge
	events   <-chan navigation.Event
	client   *client.Client
	api      *backend.API
}

func newApp(cfg config.Config) (*app, error) {
	storage, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		basePath: cfg.GetAppBasePath(),
		storage:  storage,
		store:    sessions.NewStore(storage),
		bridge:   navigation.NewBridge(),
	}
	a.history = loadHistory(storage, a.basePath+paths.Root)

	bus := navigation.NewBus()
	a.events, _ = bus.Subscribe()
	a.bridge.Set(func(to string, opts navigation.Options) {
		a.history.Navigate(a.basePath+to, opts)
		bus.Navigate(to, opts)
	})

	a.client = client.New(cfg.GetAPIBaseURL(), a.store,
		client.WithNavigator(a.bridge),
		client.WithLocator(a.history),
		client.WithAppBasePath(a.basePath),
	)
	a.api = backend.New(a.client)
	return a, nil
}

func openStorage(cfg config.Config) (sessions.Storage, error) {
	switch cfg.GetSessionStore() {
	case config.SessionStoreMemory:
		return memstore.New(), nil
	default:
		store, err := filestore.New(cfg.GetSessionDir(), cfg.GetSessionKey())
		if errors.Is(err, errors.ErrSessionKeyRequired) {
			return nil, fmt.Errorf("%w: run `eval $(notoli session-key)` first or use --session-store=memory", err)
		}
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}

func loadHistory(storage sessions.Storage, start string) *navigation.History {
	raw, ok, err := storage.GetItem(historyKey)
	if err != nil || !ok {
		return navigation.NewHistory(start)
	}
	var snapshot navigation.Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		log.Debug().Err(err).Msg("Discarding unreadable location history")
		return navigation.NewHistory(start)
	}
	return navigation.Restore(snapshot)
}

// screen is the displayed app path without the base path.
func (a *app) screen() string {
	current := a.history.Location()
	if a.basePath != "" && strings.HasPrefix(current, a.basePath) {
		current = strings.TrimPrefix(current, a.basePath)
		if current == "" {
			current = paths.Root
		}
	}
	return paths.Normalize(current)
}

// visit shows an app screen, adding a history entry unless it is already displayed.
func (a *app) visit(screen string) {
	if a.screen() != paths.Normalize(screen) {
		a.bridge.Navigate(screen, navigation.Options{})
	}
}

// flush reports the navigations made while the command ran and saves the history.
func (a *app) flush(w io.Writer) error {
	for drained := false; !drained; {
		select {
		case ev := <-a.events:
			verb := "->"
			if ev.Options.Replace {
				verb = "=>"
			}
			fmt.Fprintf(w, "%s %s\n", verb, ev.To)
		default:
			drained = true
		}
	}

	data, err := json.Marshal(a.history.Snapshot())
	if err != nil {
		return errors.Wrapf(err, "encode history")
	}
	if err := a.storage.SetItem(historyKey, string(data)); err != nil {
		log.Debug().Err(err).Msg("Location history not saved")
	}
	return nil
}

// requireSession is the protected-screen guard.
func (a *app) requireSession() error {
	if !a.client.RequireSession() {
		return fmt.Errorf("%w: run `notoli login`", errors.ErrNotAuthenticated)
	}
	return nil
}

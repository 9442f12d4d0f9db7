package backend

import (
	"context"
	"strconv"

	"github.com/jrsteele09/notoli/internal/errors"
	"github.com/jrsteele09/notoli/navigation"
	"github.com/jrsteele09/notoli/paths"
	"github.com/rs/zerolog/log"
)

// SignIn logs in, stores the session and lands on the user's first workspace
// (the lowest id), or the root when there is none. It returns where it navigated.
func (a *API) SignIn(ctx context.Context, req LoginRequest, nav navigation.Navigator) (string, error) {
	auth, err := a.Login(ctx, req)
	if err != nil {
		return "", err
	}
	if err := a.client.Sessions().Persist(auth.Credentials); err != nil {
		return "", err
	}

	target := paths.Root
	workspaces, err := a.Workspaces(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("SignIn: workspace lookup failed, landing on root")
	} else if first, ok := lowestWorkspaceID(workspaces); ok {
		target = paths.Workspace(strconv.FormatInt(first, 10))
	}

	land(nav, target)
	return target, nil
}

// SignUp registers, stores the session when the backend returned tokens, and
// lands on the workspace created for the user, or the root.
func (a *API) SignUp(ctx context.Context, req RegisterRequest, nav navigation.Navigator) (string, error) {
	auth, err := a.Register(ctx, req)
	if err != nil {
		return "", err
	}
	if auth.Access != "" && auth.Refresh != "" {
		if err := a.client.Sessions().Persist(auth.Credentials); err != nil {
			return "", err
		}
	}

	target := paths.Root
	if auth.WorkspaceID != 0 {
		target = paths.Workspace(strconv.FormatInt(auth.WorkspaceID, 10))
	}
	land(nav, target)
	return target, nil
}

func land(nav navigation.Navigator, target string) {
	if nav == nil || !nav.Navigate(target, navigation.Options{}) {
		log.Warn().Err(errors.ErrNavigatorMissing).Str("to", target).Msg("Navigation skipped")
	}
}

func lowestWorkspaceID(workspaces []Workspace) (int64, bool) {
	if len(workspaces) == 0 {
		return 0, false
	}
	lowest := workspaces[0].ID
	for _, ws := range workspaces[1:] {
		if ws.ID < lowest {
			lowest = ws.ID
		}
	}
	return lowest, true
}

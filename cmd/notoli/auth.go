package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/notoli/backend"
	"github.com/jrsteele09/notoli/paths"
	"github.com/jrsteele09/notoli/sessions"
	"github.com/jrsteele09/notoli/sessions/filestore"
	"github.com/jrsteele09/notoli/token"
	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var email, username string
	var passwordStdin bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and open your first workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFor(cmd)
			if err != nil {
				return err
			}
			a.visit(paths.Login)
			showNotification(cmd.OutOrStdout(), a.store)

			if email == "" && username == "" {
				if passwordStdin {
					return errors.New("--password-stdin needs --email or --username")
				}
				if email, err = promptLine(cmd, "Email: "); err != nil {
					return err
				}
			}
			password, err := readPassword(cmd, "Password: ", passwordStdin)
			if err != nil {
				return err
			}

			req := backend.LoginRequest{Email: email, Username: username, Password: password}
			if _, err := a.api.SignIn(cmd.Context(), req, a.bridge); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", displayName(a.store.Session()))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&username, "username", "", "account username (used when --email is empty)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var email, username string
	var passwordStdin bool
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFor(cmd)
			if err != nil {
				return err
			}
			a.visit(paths.Register)

			if email == "" {
				if passwordStdin {
					return errors.New("--password-stdin needs --email")
				}
				if email, err = promptLine(cmd, "Email: "); err != nil {
					return err
				}
			}
			password, err := readPassword(cmd, "Password: ", passwordStdin)
			if err != nil {
				return err
			}
			if !passwordStdin {
				confirm, err := readPassword(cmd, "Confirm: ", false)
				if err != nil {
					return err
				}
				if confirm != password {
					return errors.New("passwords do not match")
				}
			}

			req := backend.RegisterRequest{Email: email, Username: username, Password: password}
			if _, err := a.api.SignUp(cmd.Context(), req, a.bridge); err != nil {
				return err
			}
			if a.store.AccessToken() == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Account created. Run `notoli login` to sign in.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created, signed in as %s\n", displayName(a.store.Session()))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&username, "username", "", "username (derived from the email when empty)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFor(cmd)
			if err != nil {
				return err
			}
			a.client.Logout()
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	var banner bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFor(cmd)
			if err != nil {
				return err
			}
			session := a.store.Session()
			if !session.Authenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
				return nil
			}

			out := cmd.OutOrStdout()
			if banner {
				fmt.Fprintln(out, figure.NewFigure(displayName(session), "cybermedium", true).String())
			}
			printWhoami(out, session)
			return nil
		},
	}
	cmd.Flags().BoolVar(&banner, "banner", false, "print the username as a banner")
	return cmd
}

func printWhoami(w io.Writer, session sessions.Session) {
	fmt.Fprintf(w, "username: %s\n", displayName(session))
	if session.Email != "" {
		fmt.Fprintf(w, "email:    %s\n", session.Email)
	}

	claims, err := token.Inspect(session.AccessToken)
	if err != nil {
		fmt.Fprintln(w, "token:    unreadable")
		return
	}
	if claims.UserID != "" {
		fmt.Fprintf(w, "user id:  %s\n", claims.UserID)
	}
	switch {
	case claims.ExpiresAt.IsZero():
		fmt.Fprintln(w, "token:    no expiry")
	case claims.Expired():
		fmt.Fprintf(w, "token:    expired %s\n", claims.ExpiresAt.Local().Format(time.RFC3339))
	default:
		fmt.Fprintf(w, "token:    valid until %s\n", claims.ExpiresAt.Local().Format(time.RFC3339))
	}
}

func newSessionKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session-key",
		Short: "Print a shell export for a new session key",
		Long: "Prints an export line for NOTOLI_SESSION_KEY. The file session store is\n" +
			"readable only with this key, so a session lasts as long as the shell that\n" +
			"evaluated it:  eval $(notoli session-key)",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := filestore.NewSessionKey()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "export NOTOLI_SESSION_KEY=%s\n", key)
			return nil
		},
	}
}

// showNotification prints the pending notification once, as the login screen does.
func showNotification(w io.Writer, store *sessions.Store) {
	if n, ok := store.TakeNotification(); ok {
		fmt.Fprintf(w, "[%s] %s\n", n.Severity, n.Message)
	}
}

func displayName(session sessions.Session) string {
	if session.Username != "" {
		return session.Username
	}
	if session.Email != "" {
		return session.Email
	}
	if claims, err := token.Inspect(session.AccessToken); err == nil && claims.Username != "" {
		return claims.Username
	}
	return "unknown user"
}

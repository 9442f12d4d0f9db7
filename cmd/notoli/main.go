package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := execute(ctx, root); err != nil {
		log.Err(err).Msg("notoli command failed")
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "notoli",
		Short:             "Notoli workspaces, todo lists and notes from the terminal",
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: prepareApp,
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "path to config file")
	flags.String("api-base-url", "", "backend base URL")
	flags.String("app-base-path", "", "prefix the app screens are served under")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("session-store", "", "session storage (file or memory)")
	flags.String("session-dir", "", "directory for file session storage")

	root.AddCommand(newLoginCmd())
	root.AddCommand(newRegisterCmd())
	root.AddCommand(newLogoutCmd())
	root.AddCommand(newWhoamiCmd())
	root.AddCommand(newSessionKeyCmd())
	root.AddCommand(newWorkspacesCmd())
	root.AddCommand(newTodoListsCmd())
	root.AddCommand(newNotesCmd())
	root.AddCommand(newOpenCmd())
	root.AddCommand(newBackCmd())
	root.AddCommand(newPrevCmd())
	root.AddCommand(newNextCmd())
	root.AddCommand(newWhereCmd())
	root.AddCommand(newShellCmd())
	root.AddCommand(newDevBackendCmd())

	return root
}

// execute runs root and then reports and saves the navigation its command
// caused, also when the command failed.
func execute(ctx context.Context, root *cobra.Command) error {
	st, ok := stateFrom(ctx)
	if !ok {
		st = &state{}
		ctx = context.WithValue(ctx, stateKey{}, st)
	}
	err := root.ExecuteContext(ctx)
	if st.app != nil {
		if flushErr := st.app.flush(root.OutOrStdout()); err == nil {
			err = flushErr
		}
	}
	return err
}

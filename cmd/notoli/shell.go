package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
)

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands against one session until exit",
		Long: "Reads notoli commands line by line and runs them against a single\n" +
			"session, like one open browser tab. With --session-store=memory the\n" +
			"session ends with the shell. Global flags are read once, when the\n" +
			"shell starts.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := appFor(cmd); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(cmd.InOrStdin())
			lines := &lineReader{scanner: scanner}
			for {
				fmt.Fprint(out, "notoli> ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					return nil
				}

				words, err := shlex.Split(line)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
					continue
				}
				if len(words) > 0 && words[0] == "shell" {
					fmt.Fprintln(cmd.ErrOrStderr(), "error: already in a shell")
					continue
				}

				sub := newRootCmd()
				sub.SetArgs(words)
				sub.SetIn(lines)
				sub.SetOut(out)
				sub.SetErr(cmd.ErrOrStderr())
				if err := execute(cmd.Context(), sub); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
				}
				if cmd.Context().Err() != nil {
					return nil
				}
			}
		},
	}
}

// lineReader hands the shell's next input lines to the command being run,
// one line per Read, so prompts consume only what they need.
type lineReader struct {
	scanner *bufio.Scanner
	pending []byte
}

func (r *lineReader) Read(p []byte) (int, error) {
	if len(r.pending) == 0 {
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		r.pending = append(append([]byte(nil), r.scanner.Bytes()...), '\n')
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

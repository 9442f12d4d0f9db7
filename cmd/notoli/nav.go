package main

import (
	"fmt"
	"strings"

	"github.com/jrsteele09/notoli/navigation"
	"github.com/jrsteele09/notoli/paths"
	"github.com/spf13/cobra"
)

func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <path | workspace-id [todolist-id]>",
		Short: "Open a screen and show what is on it",
		Example: "  notoli open 3\n" +
			"  notoli open 3 12\n" +
			"  notoli open /workspace/3/todolist/12",
		Args: cobra.RangeArgs(1, 2),
		RunE: protected(func(cmd *cobra.Command, a *app, args []string) error {
			target, err := screenFromArgs(args)
			if err != nil {
				return err
			}
			a.visit(target)
			return renderScreen(cmd, a)
		}),
	}
}

func newBackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "back",
		Short: "Go up one level (todo list to workspace, workspace to home)",
		Args:  cobra.NoArgs,
		RunE: protected(func(cmd *cobra.Command, a *app, args []string) error {
			if !paths.GoToParent(a.screen(), a.bridge) {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing above this screen.")
				return nil
			}
			return renderScreen(cmd, a)
		}),
	}
}

func newPrevCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prev",
		Short: "Return to the previously displayed screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return step(cmd, "<-", "No earlier screen.", (*navigation.History).Back)
		},
	}
}

func newNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Undo prev",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return step(cmd, "->", "No later screen.", (*navigation.History).Forward)
		},
	}
}

// step moves through the history like the browser's back and forward buttons.
func step(cmd *cobra.Command, arrow, none string, move func(*navigation.History) bool) error {
	a, err := appFor(cmd)
	if err != nil {
		return err
	}
	if !move(a.history) {
		fmt.Fprintln(cmd.OutOrStdout(), none)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", arrow, a.history.Location())
	return nil
}

func newWhereCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "where",
		Short: "Show the displayed screen and its place in the hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFor(cmd)
			if err != nil {
				return err
			}
			screen := a.screen()
			workspaceID, _ := paths.WorkspaceIDOf(screen)
			todoListID, _ := paths.TodoListIDOf(screen)
			printFields(cmd.OutOrStdout(),
				"screen", a.history.Location(),
				"parent", paths.ParentOf(screen).String(),
				"workspace", orDash(workspaceID),
				"todolist", orDash(todoListID),
			)
			return nil
		},
	}
}

func screenFromArgs(args []string) (string, error) {
	if strings.HasPrefix(args[0], "/") {
		if len(args) > 1 {
			return "", fmt.Errorf("unexpected argument %q after a path", args[1])
		}
		return paths.Normalize(args[0]), nil
	}
	workspaceID, err := parseID(args[0])
	if err != nil {
		return "", err
	}
	if len(args) == 1 {
		return paths.Workspace(formatID(workspaceID)), nil
	}
	todoListID, err := parseID(args[1])
	if err != nil {
		return "", err
	}
	return paths.TodoList(formatID(workspaceID), formatID(todoListID)), nil
}

// renderScreen loads what the displayed screen shows. A 401 while loading
// ends the session and moves the history to the login screen.
func renderScreen(cmd *cobra.Command, a *app) error {
	screen := a.screen()
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	if todoListID, ok := paths.TodoListIDOf(screen); ok {
		id, err := parseID(todoListID)
		if err != nil {
			return err
		}
		tl, err := a.api.TodoList(ctx, id)
		if err != nil {
			return err
		}
		notes, err := a.api.Notes(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n", tl.Name)
		return printTable(out, []string{"ID", "NOTE", "DESCRIPTION"}, len(notes), func(i int) []string {
			return []string{formatID(notes[i].ID), notes[i].Note, notes[i].Description}
		})
	}

	if workspaceID, ok := paths.WorkspaceIDOf(screen); ok {
		id, err := parseID(workspaceID)
		if err != nil {
			return err
		}
		ws, err := a.api.Workspace(ctx, id)
		if err != nil {
			return err
		}
		lists, err := a.api.TodoLists(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n", ws.Name)
		return printTable(out, []string{"ID", "TODO LIST", "DESCRIPTION"}, len(lists), func(i int) []string {
			return []string{formatID(lists[i].ID), lists[i].Name, lists[i].Description}
		})
	}

	if screen == paths.Root {
		workspaces, err := a.api.Workspaces(ctx)
		if err != nil {
			return err
		}
		return printTable(out, []string{"ID", "WORKSPACE", "DESCRIPTION"}, len(workspaces), func(i int) []string {
			return []string{formatID(workspaces[i].ID), workspaces[i].Name, workspaces[i].Description}
		})
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

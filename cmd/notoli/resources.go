package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jrsteele09/notoli/backend"
	"github.com/jrsteele09/notoli/internal/utils"
	"github.com/jrsteele09/notoli/paths"
	"github.com/spf13/cobra"
)

// protected wraps a RunE with the session guard.
func protected(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := appFor(cmd)
		if err != nil {
			return err
		}
		if err := a.requireSession(); err != nil {
			return err
		}
		return run(cmd, a, args)
	}
}

func newWorkspacesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspaces",
		Aliases: []string{"ws"},
		Short:   "Manage workspaces",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List workspaces",
		Args:  cobra.NoArgs,
		RunE: protected(func(cmd *cobra.Command, a *app, args []string) error {
			workspaces, err := a.api.Workspaces(cmd.Context())
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "DESCRIPTION"}, len(workspaces), func(i int) []string {
				ws := workspaces[i]
				return []string{formatID(ws.ID), ws.Name, ws.Description}
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one workspace",
		Args:  cobra.ExactArgs(1),
		RunE: protected(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ws, err := a.api.Workspace(cmd.Context(), id)
			if err != nil {
				return err
			}
			printFields(cmd.OutOrStdout(), "id", formatID(ws.ID), "name", ws.Name, "description", ws.Description,
				"created", ws.CreatedAt.Local().Format("2006-01-02 15:04"))
			return nil
		}),
	})

	var name, description string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a workspace",
		Args:  cobra.NoArgs,
		RunE: protected(func(cmd *cobra.Command, a *app, args []string) error {
			ws, err := a.api.CreateWorkspace(cmd.Context(), backend.WorkspaceInput{Name: name, Description: description})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created workspace %d\n", ws.ID)
			return nil
		}),
	}
	create.Flags().StringVar(&name, "name", "", "workspace name")
	create.Flags().StringVar(&description, "description", "", "workspace description")
	_ = create.MarkFlagRequired("name")
	cmd.AddCommand(create)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename or describe a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: protected(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			in := backend.WorkspaceUpdate{
				Name:        changedString(cmd, "name"),
				Description: changedString(cmd, "description"),
			}
			ws, err := a.api.UpdateWorkspace(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated workspace %d\n", ws.ID)
			return nil
		}),
	}
	update.Flags().String("name", "", "new name")
	update.Flags().String("description", "", "new description")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a workspace with its lists and notes",
		Args:  cobra.ExactArgs(1),
		RunE: protected(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.api.DeleteWorkspace(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted workspace %d\n", id)
			return nil
		}),
	})

	return cmd
}

func newTodoListsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "todolists",
		Aliases: []string{"tl"},
		Short:   "Manage todo lists",
	}

	var listWorkspace string
	list := &cobra.Command{
		Use:   "list",
		Short: "List the todo lists of a workspace (default: the open one)",
		Args:  cobra.NoArgs,
		RunE: protected(func(cmd *cobra.Command, a *app, args []string) error {
			workspaceID, err := resolveID(listWorkspace, a.screen(), paths.WorkspaceIDOf, "workspace")
			if err != nil {
				return err
			}
			lists, err := a.api.TodoLists(cmd.Context(), workspaceID)
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "DESCRIPTION"}, len(lists), func(i int) []string {
				return []string{formatID(lists[i].ID), lists[i].Name, lists[i].Description}
			})
		}),
	}
	list.Flags().StringVar(&listWorkspace, "workspace", "", "workspace id")
	cmd.AddCommand(list)

	var createWorkspace, name, description string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a todo list in a workspace (default: the open one)",
		Args:  cobra.NoArgs,
		RunE: protected(func(cmd *cobra.Command, a *app, args []string) error {
			workspaceID, err := resolveID(createWorkspace, a.screen(), paths.WorkspaceIDOf, "workspace")
			if err != nil {
				return err
			}
			tl, err := a.api.CreateTodoList(cmd.Context(), backend.TodoListInput{
				Workspace:   workspaceID,
				Name:        name,
				Description: description,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created todo list %d in workspace %d\n", tl.ID, tl.Workspace)
			return nil
		}),
	}
	create.Flags().StringVar(&createWorkspace, "workspace", "", "workspace id")
	create.Flags().StringVar(&name, "name", "", "todo list name")
	create.Flags().StringVar(&description, "description", "", "todo list description")
	_ = create.MarkFlagRequired("name")
	cmd.AddCommand(create)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename or describe a todo list",
		Args:  cobra.ExactArgs(1),
		RunE: protected(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			tl, err := a.api.UpdateTodoList(cmd.Context(), id, backend.TodoListUpdate{
				Name:        changedString(cmd, "name"),
				Description: changedString(cmd, "description"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated todo list %d\n", tl.ID)
			return nil
		}),
	}
	update.Flags().String("name", "", "new name")
	update.Flags().String("description", "", "new description")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a todo list with its notes",
		Args:  cobra.ExactArgs(1),
		RunE: protected(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.api.DeleteTodoList(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted todo list %d\n", id)
			return nil
		}),
	})

	return cmd
}

func newNotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage notes",
	}

	var listTodoList string
	list := &cobra.Command{
		Use:   "list",
		Short: "List the notes of a todo list (default: the open one)",
		Args:  cobra.NoArgs,
		RunE: protected(func(cmd *cobra.Command, a *app, args []string) error {
			todoListID, err := resolveID(listTodoList, a.screen(), paths.TodoListIDOf, "todo list")
			if err != nil {
				return err
			}
			notes, err := a.api.Notes(cmd.Context(), todoListID)
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(), []string{"ID", "NOTE", "DESCRIPTION"}, len(notes), func(i int) []string {
				return []string{formatID(notes[i].ID), notes[i].Note, notes[i].Description}
			})
		}),
	}
	list.Flags().StringVar(&listTodoList, "todolist", "", "todo list id")
	cmd.AddCommand(list)

	var createTodoList, description string
	add := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a note to a todo list (default: the open one)",
		Args:  cobra.MinimumNArgs(1),
		RunE: protected(func(cmd *cobra.Command, a *app, args []string) error {
			todoListID, err := resolveID(createTodoList, a.screen(), paths.TodoListIDOf, "todo list")
			if err != nil {
				return err
			}
			note, err := a.api.CreateNote(cmd.Context(), backend.NoteInput{
				TodoList:    todoListID,
				Note:        strings.Join(args, " "),
				Description: description,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added note %d\n", note.ID)
			return nil
		}),
	}
	add.Flags().StringVar(&createTodoList, "todolist", "", "todo list id")
	add.Flags().StringVar(&description, "description", "", "note description")
	cmd.AddCommand(add)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a note",
		Args:  cobra.ExactArgs(1),
		RunE: protected(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			note, err := a.api.UpdateNote(cmd.Context(), id, backend.NoteUpdate{
				Note:        changedString(cmd, "text"),
				Description: changedString(cmd, "description"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated note %d\n", note.ID)
			return nil
		}),
	}
	update.Flags().String("text", "", "new note text")
	update.Flags().String("description", "", "new description")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: protected(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.api.DeleteNote(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %d\n", id)
			return nil
		}),
	})

	return cmd
}

// resolveID parses explicit, or else takes the id from the displayed path.
func resolveID(explicit, screen string, fromPath func(string) (string, bool), what string) (int64, error) {
	if explicit == "" {
		id, ok := fromPath(screen)
		if !ok {
			return 0, fmt.Errorf("no %s is open; pass its id or `notoli open` one", what)
		}
		explicit = id
	}
	return parseID(explicit)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// changedString is nil unless the flag was given, so updates stay partial.
func changedString(cmd *cobra.Command, name string) *string {
	v, _ := cmd.Flags().GetString(name)
	return utils.PtrIf(v, cmd.Flags().Changed(name))
}

func printTable(w io.Writer, header []string, rows int, row func(int) []string) error {
	if rows == 0 {
		_, err := fmt.Fprintln(w, "(none)")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for i := 0; i < rows; i++ {
		fmt.Fprintln(tw, strings.Join(row(i), "\t"))
	}
	return tw.Flush()
}

func printFields(w io.Writer, pairs ...string) {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(tw, "%s:\t%s\n", pairs[i], pairs[i+1])
	}
	_ = tw.Flush()
}

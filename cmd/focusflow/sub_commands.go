package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Saheb006/focusflow-organize-main/todo"
)

var subCmd = &cobra.Command{
	Use:   "sub",
	Short: "Manage the sub-todos of a todo",
}

// sub add
var subAddCmd = &cobra.Command{
	Use:   "add <todo-id> <title>",
	Short: "Add a sub-todo",
	Args:  cobra.ExactArgs(2),
	RunE:  runSubAdd,
}

var (
	subAddDue     string
	subAddDueTime string
)

// sub update
var subUpdateCmd = &cobra.Command{
	Use:   "update <todo-id> <sub-id>",
	Short: "Update a sub-todo",
	Long: `Update a sub-todo.

Pass an empty value to --due or --due-time to clear it.`,
	Args: cobra.ExactArgs(2),
	RunE: runSubUpdate,
}

var (
	subUpdateTitle   string
	subUpdateDue     string
	subUpdateDueTime string
)

// sub toggle
var subToggleCmd = &cobra.Command{
	Use:   "toggle <todo-id> <sub-id>",
	Short: "Mark a sub-todo done, or reopen it",
	Long: `Mark a sub-todo done, or reopen it.

The parent todo is completed once all of its sub-todos are, and reopened
when one of them is reopened.`,
	Args: cobra.ExactArgs(2),
	RunE: runSubToggle,
}

// sub delete
var subDeleteCmd = &cobra.Command{
	Use:     "delete <todo-id> <sub-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a sub-todo",
	Args:    cobra.ExactArgs(2),
	RunE:    runSubDelete,
}

func init() {
	rootCmd.AddCommand(subCmd)
	subCmd.AddCommand(subAddCmd, subUpdateCmd, subToggleCmd, subDeleteCmd)

	subAddCmd.Flags().StringVar(&subAddDue, "due", "", "Due date (YYYY-MM-DD, today, tomorrow)")
	subAddCmd.Flags().StringVar(&subAddDueTime, "due-time", "", "Due time (HH:MM)")

	subUpdateCmd.Flags().StringVar(&subUpdateTitle, "title", "", "New title")
	subUpdateCmd.Flags().StringVar(&subUpdateDue, "due", "", "New due date (YYYY-MM-DD, today, tomorrow)")
	subUpdateCmd.Flags().StringVar(&subUpdateDueTime, "due-time", "", "New due time (HH:MM)")
}

func runSubAdd(cmd *cobra.Command, args []string) error {
	due, err := parseDueFlag(subAddDue, todo.Today())
	if err != nil {
		return err
	}

	return withApp(cmd.Context(), func(a *app) error {
		parent, err := a.resolveTodo(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		created, err := a.todos.CreateSubTodo(cmd.Context(), parent.ID, todo.SubDraft{
			Title:   args[1],
			DueDate: due,
			DueTime: subAddDueTime,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created sub-todo %s: %s\n", a.highlighter(cmd.Context())(created.ID), created.Title)
		return nil
	})
}

func runSubUpdate(cmd *cobra.Command, args []string) error {
	if !hasChangedFlags(cmd, "title", "due", "due-time") {
		return fmt.Errorf("at least one update flag is required")
	}

	var patch todo.SubTodoPatch
	if cmd.Flags().Changed("title") {
		patch.Title = todo.Set(subUpdateTitle)
	}
	if cmd.Flags().Changed("due") {
		due, err := parseDueFlag(subUpdateDue, todo.Today())
		if err != nil {
			return err
		}
		patch.DueDate = todo.SetOrClear(due)
	}
	if cmd.Flags().Changed("due-time") {
		patch.DueTime = todo.Set(subUpdateDueTime)
	}

	return withApp(cmd.Context(), func(a *app) error {
		parent, sub, err := a.resolveSubTodo(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if err := a.todos.UpdateSubTodo(cmd.Context(), parent.ID, sub.ID, patch); err != nil {
			return err
		}
		sub = patch.Apply(sub)
		fmt.Printf("Updated sub-todo %s: %s\n", a.highlighter(cmd.Context())(sub.ID), sub.Title)
		return nil
	})
}

func runSubToggle(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(a *app) error {
		parent, sub, err := a.resolveSubTodo(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		completed, err := a.todos.ToggleSubTodo(cmd.Context(), parent.ID, sub.ID)
		if err != nil {
			return err
		}
		highlight := a.highlighter(cmd.Context())
		fmt.Printf("%s sub-todo %s: %s\n", completionVerb(completed), highlight(sub.ID), sub.Title)
		return reportParentChange(cmd.Context(), a, parent, highlight)
	})
}

func runSubDelete(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(a *app) error {
		parent, sub, err := a.resolveSubTodo(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		highlight := a.highlighter(cmd.Context())
		highlighted := highlight(sub.ID)
		if err := a.todos.DeleteSubTodo(cmd.Context(), parent.ID, sub.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted sub-todo %s: %s\n", highlighted, sub.Title)
		return reportParentChange(cmd.Context(), a, parent, highlight)
	})
}

// reportParentChange prints a line when a sub-todo change completed or
// reopened the parent.
func reportParentChange(ctx context.Context, a *app, before todo.Todo, highlight func(string) string) error {
	todos, err := a.todos.Todos(ctx)
	if err != nil {
		return err
	}
	after, ok := todo.Find(todos, before.ID)
	if !ok || after.Completed == before.Completed {
		return nil
	}
	fmt.Printf("%s %s: %s\n", completionVerb(after.Completed), highlight(after.ID), after.Title)
	return nil
}

func completionVerb(completed bool) string {
	if completed {
		return "Completed"
	}
	return "Reopened"
}

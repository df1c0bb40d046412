package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Saheb006/focusflow-organize-main/internal/editor"
	"github.com/Saheb006/focusflow-organize-main/internal/listflags"
	"github.com/Saheb006/focusflow-organize-main/todo"
)

// list
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List todos",
	Long: `List todos, newest first.

Without filters only incomplete todos are shown. Use --completed to list
completed todos instead.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listPriority  string
	listTag       string
	listCompleted bool
	listSearch    string
	listJSON      bool
)

// add
var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create a new todo",
	Long: `Create a new todo.

By default, opens $EDITOR to edit a TOML representation of the todo
when running interactively. Use --no-edit to skip the editor, or
--edit to force opening the editor even when not interactive.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

var (
	addDescription string
	addPriority    string
	addColor       string
	addDue         string
	addDueTime     string
	addTags        []string
	addSubTodos    []string
	addEdit        bool
	addNoEdit      bool
	addJSON        bool
)

// update
var updateCmd = &cobra.Command{
	Use:   "update <id>...",
	Short: "Update one or more todos",
	Long: `Update one or more todos.

By default, opens $EDITOR to edit a TOML representation of the todo
when running interactively and no update flags are provided (one editor session per ID).
Use --no-edit to skip the editor, or --edit to force opening the editor even when not interactive.

Pass an empty value to --description, --color, --due or --due-time to clear it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpdate,
}

var (
	updateTitle       string
	updateDescription string
	updatePriority    string
	updateColor       string
	updateDue         string
	updateDueTime     string
	updateTags        []string
	updateEdit        bool
	updateNoEdit      bool
)

var updateFieldFlags = []string{"title", "description", "priority", "color", "due", "due-time", "tag"}

// toggle
var toggleCmd = &cobra.Command{
	Use:   "toggle <id>...",
	Short: "Mark todos done, or reopen them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runToggle,
}

// delete
var deleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Aliases: []string{"rm"},
	Short:   "Delete todos and their sub-todos",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runDelete,
}

// show
var showCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show detailed information about todos",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShow,
}

var showJSON bool

func init() {
	rootCmd.AddCommand(listCmd, addCmd, updateCmd, toggleCmd, deleteCmd, showCmd)
	aliasFlags(addCmd, updateCmd)

	listCmd.Flags().StringVarP(&listPriority, "priority", "p", "", "Filter by priority (urgent, high, medium, low)")
	listCmd.Flags().StringVarP(&listTag, "tag", "t", "", "Filter by tag")
	listCmd.Flags().BoolVar(&listCompleted, "completed", false, "List completed todos instead of open ones")
	listCmd.Flags().StringVarP(&listSearch, "search", "q", "", "Filter by title substring (case-insensitive)")
	listflags.AddJSONFlag(listCmd, &listJSON)

	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Description (use '-' to read from stdin)")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", string(todo.DefaultPriority), "Priority (urgent, high, medium, low)")
	addCmd.Flags().StringVar(&addColor, "color", "", "Color, e.g. #22c55e")
	addCmd.Flags().StringVar(&addDue, "due", "", "Due date (YYYY-MM-DD, today, tomorrow)")
	addCmd.Flags().StringVar(&addDueTime, "due-time", "", "Due time (HH:MM)")
	addCmd.Flags().StringArrayVarP(&addTags, "tag", "t", nil, "Tag (repeatable)")
	addCmd.Flags().StringArrayVarP(&addSubTodos, "sub", "s", nil, "Sub-todo title (repeatable)")
	addCmd.Flags().BoolVarP(&addEdit, "edit", "e", false, "Open $EDITOR (default if interactive)")
	addCmd.Flags().BoolVar(&addNoEdit, "no-edit", false, "Do not open $EDITOR")
	addCmd.Flags().BoolVar(&addJSON, "json", false, "Output the created todo as JSON")

	updateCmd.Flags().StringVar(&updateTitle, "title", "", "New title")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "New description (use '-' to read from stdin)")
	updateCmd.Flags().StringVarP(&updatePriority, "priority", "p", "", "New priority (urgent, high, medium, low)")
	updateCmd.Flags().StringVar(&updateColor, "color", "", "New color")
	updateCmd.Flags().StringVar(&updateDue, "due", "", "New due date (YYYY-MM-DD, today, tomorrow)")
	updateCmd.Flags().StringVar(&updateDueTime, "due-time", "", "New due time (HH:MM)")
	updateCmd.Flags().StringArrayVarP(&updateTags, "tag", "t", nil, "Replace tags (repeatable)")
	updateCmd.Flags().BoolVarP(&updateEdit, "edit", "e", false, "Open $EDITOR (default if interactive)")
	updateCmd.Flags().BoolVar(&updateNoEdit, "no-edit", false, "Do not open $EDITOR")

	listflags.AddJSONFlag(showCmd, &showJSON)
}

func runList(cmd *cobra.Command, args []string) error {
	filter := todo.Filter{}
	if listPriority != "" {
		priority, err := todo.ParsePriority(listPriority)
		if err != nil {
			return err
		}
		filter.Priority = &priority
	}
	filter.Tag = listTag
	if listCompleted {
		filter.Completed = todo.BoolPtr(true)
	}

	return withApp(cmd.Context(), func(a *app) error {
		todos, err := a.todos.Todos(cmd.Context())
		if err != nil {
			return err
		}
		filtered := todo.ApplyFilter(todos, filter, listSearch)

		if listJSON {
			return encodeJSONToStdout(filtered)
		}
		printTodoTable(filtered, todo.NewIDIndex(todos).PrefixLengths(), todo.Today())
		return nil
	})
}

func runAdd(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("description") {
		desc, err := resolveDescriptionFromStdin(addDescription, os.Stdin)
		if err != nil {
			return err
		}
		addDescription = desc
	}

	today := todo.Today()
	var draft todo.Draft
	if addEdit || (!addNoEdit && editor.IsInteractive()) {
		data := editor.DefaultCreateData()
		if len(args) > 0 {
			data.Title = args[0]
		}
		data.Description = addDescription
		data.Priority = addPriority
		data.Color = addColor
		data.DueDate = addDue
		data.DueTime = addDueTime
		data.Tags = addTags
		if due, err := parseDueFlag(addDue, today); err == nil && due != nil {
			data.DueDate = due.String()
		}

		parsed, err := editor.EditTodoWithData(data)
		if err != nil {
			return err
		}
		draft = parsed.ToDraft()
	} else {
		if len(args) == 0 {
			return fmt.Errorf("title is required (use --edit to open editor)")
		}
		priority, err := todo.ParsePriority(addPriority)
		if err != nil {
			return err
		}
		due, err := parseDueFlag(addDue, today)
		if err != nil {
			return err
		}
		draft = todo.Draft{
			Title:       args[0],
			Description: addDescription,
			Priority:    priority,
			Color:       addColor,
			DueDate:     due,
			DueTime:     addDueTime,
			Tags:        addTags,
		}
	}
	for _, title := range addSubTodos {
		draft.SubTodos = append(draft.SubTodos, todo.SubDraft{Title: title})
	}

	return withApp(cmd.Context(), func(a *app) error {
		created, err := a.todos.CreateTodo(cmd.Context(), draft)
		if err != nil {
			return err
		}
		if addJSON {
			return encodeJSONToStdout(created)
		}

		highlight := a.highlighter(cmd.Context())
		fmt.Printf("Created todo %s: %s\n", highlight(created.ID), created.Title)
		for _, sub := range created.SubTodos {
			fmt.Printf("  sub-todo %s: %s\n", highlight(sub.ID), sub.Title)
		}
		return nil
	})
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("description") {
		desc, err := resolveDescriptionFromStdin(updateDescription, os.Stdin)
		if err != nil {
			return err
		}
		updateDescription = desc
	}

	hasFlags := hasChangedFlags(cmd, updateFieldFlags...)
	useEditor := shouldUseEditor(hasFlags, updateEdit, updateNoEdit, editor.IsInteractive())
	if !useEditor && !hasFlags {
		return fmt.Errorf("at least one update flag is required (use --edit to open editor)")
	}

	today := todo.Today()
	var flagPatch todo.TodoPatch
	if !useEditor {
		patch, err := updatePatchFromFlags(cmd, today)
		if err != nil {
			return err
		}
		flagPatch = patch
	}

	return withApp(cmd.Context(), func(a *app) error {
		updated := make([]todo.Todo, 0, len(args))
		for _, prefix := range args {
			existing, err := a.resolveTodo(cmd.Context(), prefix)
			if err != nil {
				return err
			}

			patch := flagPatch
			if useEditor {
				parsed, err := editor.EditTodoWithData(editorDataForUpdate(cmd, existing, today))
				if err != nil {
					return err
				}
				patch = parsed.ToPatch()
			}

			if err := a.todos.UpdateTodo(cmd.Context(), existing.ID, patch); err != nil {
				return err
			}
			updated = append(updated, patch.Apply(existing))
		}

		highlight := a.highlighter(cmd.Context())
		for _, item := range updated {
			fmt.Printf("Updated %s: %s\n", highlight(item.ID), item.Title)
		}
		return nil
	})
}

// updatePatchFromFlags builds a patch from the changed update flags. An
// empty value clears optional fields.
func updatePatchFromFlags(cmd *cobra.Command, today todo.Date) (todo.TodoPatch, error) {
	var patch todo.TodoPatch
	if cmd.Flags().Changed("title") {
		patch.Title = todo.Set(updateTitle)
	}
	if cmd.Flags().Changed("description") {
		patch.Description = todo.Set(updateDescription)
	}
	if cmd.Flags().Changed("priority") {
		priority, err := todo.ParsePriority(updatePriority)
		if err != nil {
			return patch, err
		}
		patch.Priority = todo.Set(priority)
	}
	if cmd.Flags().Changed("color") {
		patch.Color = todo.Set(updateColor)
	}
	if cmd.Flags().Changed("due") {
		due, err := parseDueFlag(updateDue, today)
		if err != nil {
			return patch, err
		}
		patch.DueDate = todo.SetOrClear(due)
	}
	if cmd.Flags().Changed("due-time") {
		patch.DueTime = todo.Set(updateDueTime)
	}
	if cmd.Flags().Changed("tag") {
		patch.Tags = todo.Set(updateTags)
	}
	return patch, nil
}

// editorDataForUpdate pre-populates the editor from existing, then overrides
// any field given as a flag.
func editorDataForUpdate(cmd *cobra.Command, existing todo.Todo, today todo.Date) editor.TodoData {
	data := editor.DataFromTodo(existing)
	if cmd.Flags().Changed("title") {
		data.Title = updateTitle
	}
	if cmd.Flags().Changed("description") {
		data.Description = updateDescription
	}
	if cmd.Flags().Changed("priority") {
		data.Priority = updatePriority
	}
	if cmd.Flags().Changed("color") {
		data.Color = updateColor
	}
	if cmd.Flags().Changed("due") {
		data.DueDate = updateDue
		if due, err := parseDueFlag(updateDue, today); err == nil && due != nil {
			data.DueDate = due.String()
		}
	}
	if cmd.Flags().Changed("due-time") {
		data.DueTime = updateDueTime
	}
	if cmd.Flags().Changed("tag") {
		data.Tags = updateTags
	}
	return data
}

func runToggle(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(a *app) error {
		for _, prefix := range args {
			item, err := a.resolveTodo(cmd.Context(), prefix)
			if err != nil {
				return err
			}
			completed, err := a.todos.ToggleTodo(cmd.Context(), item.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%s %s: %s\n", completionVerb(completed), a.highlighter(cmd.Context())(item.ID), item.Title)
		}
		return nil
	})
}

func runDelete(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(a *app) error {
		for _, prefix := range args {
			item, err := a.resolveTodo(cmd.Context(), prefix)
			if err != nil {
				return err
			}
			highlighted := a.highlighter(cmd.Context())(item.ID)
			if err := a.todos.DeleteTodo(cmd.Context(), item.ID); err != nil {
				return err
			}
			fmt.Printf("Deleted %s: %s\n", highlighted, item.Title)
		}
		return nil
	})
}

func runShow(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(a *app) error {
		items := make([]todo.Todo, 0, len(args))
		for _, prefix := range args {
			item, err := a.resolveTodo(cmd.Context(), prefix)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		if showJSON {
			return encodeJSONToStdout(items)
		}

		highlight := a.highlighter(cmd.Context())
		today := todo.Today()
		for i, item := range items {
			if i > 0 {
				fmt.Println("---")
			}
			printTodoDetail(item, highlight, today)
		}
		return nil
	})
}

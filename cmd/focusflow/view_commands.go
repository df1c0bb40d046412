package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Saheb006/focusflow-organize-main/internal/listflags"
	"github.com/Saheb006/focusflow-organize-main/internal/ui"
	"github.com/Saheb006/focusflow-organize-main/todo"
)

// agenda
var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Show todos and sub-todos coming up, earliest first",
	Args:  cobra.NoArgs,
	RunE:  runAgenda,
}

var (
	agendaFrom string
	agendaJSON bool
)

// day
var dayCmd = &cobra.Command{
	Use:   "day [date]",
	Short: "Show what is due on a day (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDay,
}

var dayJSON bool

// calendar
var calendarCmd = &cobra.Command{
	Use:     "calendar [YYYY-MM]",
	Aliases: []string{"cal"},
	Short:   "Show a month with markers on days that have todos due",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runCalendar,
}

var calendarWeekStart string

// counts
var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Count open todos per priority",
	Args:  cobra.NoArgs,
	RunE:  runCounts,
}

var countsJSON bool

// stats
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show total, active and completed todo counts",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var statsJSON bool

func init() {
	rootCmd.AddCommand(agendaCmd, dayCmd, calendarCmd, countsCmd, statsCmd)

	agendaCmd.Flags().StringVar(&agendaFrom, "from", "", "First day to include (default today)")
	listflags.AddJSONFlag(agendaCmd, &agendaJSON)
	listflags.AddJSONFlag(dayCmd, &dayJSON)
	calendarCmd.Flags().StringVar(&calendarWeekStart, "week-start", "sunday", "First day of the week (sunday, monday)")
	listflags.AddJSONFlag(countsCmd, &countsJSON)
	listflags.AddJSONFlag(statsCmd, &statsJSON)
}

func runAgenda(cmd *cobra.Command, args []string) error {
	today := todo.Today()
	from := today
	if agendaFrom != "" {
		day, err := parseDay(agendaFrom, today)
		if err != nil {
			return err
		}
		from = day
	}

	return withApp(cmd.Context(), func(a *app) error {
		todos, err := a.todos.Todos(cmd.Context())
		if err != nil {
			return err
		}
		groups := todo.HierarchicalAgenda(todos, from)
		if agendaJSON {
			return encodeJSONToStdout(groups)
		}
		if len(groups) == 0 {
			fmt.Println("Nothing coming up.")
			return nil
		}
		fmt.Print(formatAgenda(groups, a.highlighter(cmd.Context()), today))
		return nil
	})
}

func formatAgenda(groups []todo.AgendaGroup, highlight func(string) string, today todo.Date) string {
	var b strings.Builder
	for _, group := range groups {
		item := group.Todo
		fmt.Fprintf(&b, "%s %s %s [%s]\n", ui.CompletionMark(item.Completed), highlight(item.ID), item.Title, ui.PriorityLabel(item.Priority))
		if group.ParentDue {
			fmt.Fprintf(&b, "    due %s\n", ui.FormatDue(item.DueDate, item.DueTime, today))
		}
		for _, sub := range group.SubTodos {
			fmt.Fprintf(&b, "    %s %s %s, due %s\n", ui.CompletionMark(sub.Completed), highlight(sub.ID), sub.Title, ui.FormatDue(sub.DueDate, sub.DueTime, today))
		}
	}
	return b.String()
}

// dayView is the JSON shape of `focusflow day --json`.
type dayView struct {
	Date      todo.Date      `json:"date"`
	Items     []todo.DayItem `json:"items"`
	Markers   todo.Markers   `json:"markers"`
	Reminders todo.Reminders `json:"reminders"`
}

func runDay(cmd *cobra.Command, args []string) error {
	today := todo.Today()
	day := today
	if len(args) > 0 {
		parsed, err := parseDay(args[0], today)
		if err != nil {
			return err
		}
		day = parsed
	}

	return withApp(cmd.Context(), func(a *app) error {
		todos, err := a.todos.Todos(cmd.Context())
		if err != nil {
			return err
		}
		view := dayView{
			Date:      day,
			Items:     todo.ItemsForDate(todos, day),
			Markers:   todo.DayMarkers(todos, day),
			Reminders: todo.DayReminders(todos, day),
		}
		if view.Items == nil {
			view.Items = []todo.DayItem{}
		}
		if dayJSON {
			return encodeJSONToStdout(view)
		}
		fmt.Print(formatDay(view, a.highlighter(cmd.Context()), today))
		return nil
	})
}

func formatDay(view dayView, highlight func(string) string, today todo.Date) string {
	var b strings.Builder
	header := fmt.Sprintf("%s %s (%s)", view.Date.Weekday(), view.Date, ui.RelativeDay(view.Date, today))
	if markers := ui.DayMarkers(view.Markers); markers != "" {
		header += " " + markers
	}
	b.WriteString(header + "\n")

	if len(view.Items) == 0 {
		b.WriteString("Nothing due.\n")
		return b.String()
	}

	table := ui.NewTable("ID", "DONE", "PRI", "TIME", "TITLE")
	for _, item := range view.Items {
		title := item.Title
		if item.Kind == todo.ItemSubTodo {
			title += " (in " + item.ParentTitle + ")"
		}
		dueTime := item.DueTime
		if dueTime == "" {
			dueTime = "-"
		}
		table.Row(
			highlight(item.ID()),
			ui.CompletionMark(item.Completed),
			ui.PriorityLabel(item.Priority),
			dueTime,
			ui.TruncateCell(title, ui.TitleWidth),
		)
	}
	b.WriteString(table.String())
	return b.String()
}

func runCalendar(cmd *cobra.Command, args []string) error {
	today := todo.Today()
	var value string
	if len(args) > 0 {
		value = args[0]
	}
	year, month, err := parseMonth(value, today)
	if err != nil {
		return err
	}
	weekStart, err := parseWeekStart(calendarWeekStart)
	if err != nil {
		return err
	}

	return withApp(cmd.Context(), func(a *app) error {
		todos, err := a.todos.Todos(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Print(formatMonth(year, month, weekStart, todo.MonthMarkers(todos, year, month)))
		return nil
	})
}

// formatMonth renders a month grid. Days outside month are left blank and
// days with items carry their markers.
func formatMonth(year int, month time.Month, weekStart time.Weekday, markers map[todo.Date]todo.Markers) string {
	headers := make([]string, 7)
	for i := range headers {
		headers[i] = time.Weekday((int(weekStart) + i) % 7).String()[:2]
	}

	weeks := todo.MonthGrid(year, month, weekStart)
	rows := make([][]string, 0, len(weeks))
	for _, week := range weeks {
		row := make([]string, len(week))
		for i, day := range week {
			if day.Month != month {
				continue
			}
			row[i] = strconv.Itoa(day.Day) + ui.DayMarkers(markers[day])
		}
		rows = append(rows, row)
	}

	return fmt.Sprintf("%s %d\n", month, year) + ui.FormatTable(headers, rows)
}

func runCounts(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(a *app) error {
		todos, err := a.todos.Todos(cmd.Context())
		if err != nil {
			return err
		}
		counts := todo.CountPriorities(todos)
		if countsJSON {
			return encodeJSONToStdout(counts)
		}

		table := ui.NewTable("PRIORITY", "OPEN").AlignRight(1)
		for _, priority := range todo.ValidPriorities() {
			table.Row(ui.PriorityLabel(priority), strconv.Itoa(counts.Incomplete[priority]))
		}
		table.Row("completed", strconv.Itoa(counts.Completed))
		fmt.Print(table.String())
		return nil
	})
}

func runStats(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(a *app) error {
		todos, err := a.todos.Todos(cmd.Context())
		if err != nil {
			return err
		}
		stats := todo.Overview(todos)
		if statsJSON {
			return encodeJSONToStdout(stats)
		}
		fmt.Printf("Total:     %d\n", stats.Total)
		fmt.Printf("Active:    %d\n", stats.Active)
		fmt.Printf("Completed: %d\n", stats.Completed)
		return nil
	})
}

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Saheb006/focusflow-organize-main/internal/ui"
	"github.com/Saheb006/focusflow-organize-main/todo"
)

// printTodoTable prints todos in a table format.
func printTodoTable(todos []todo.Todo, prefixLengths map[string]int, today todo.Date) {
	if len(todos) == 0 {
		fmt.Println("No todos found.")
		return
	}

	fmt.Print(formatTodoTable(todos, prefixLengths, ui.HighlightID, today))
}

func formatTodoTable(todos []todo.Todo, prefixLengths map[string]int, highlight func(string, int) string, today todo.Date) string {
	table := ui.NewTable("ID", "DONE", "PRI", "DUE", "SUBS", "TAGS", "TITLE")

	if prefixLengths == nil {
		prefixLengths = todo.NewIDIndex(todos).PrefixLengths()
	}

	for _, t := range todos {
		table.Row(
			highlight(t.ID, ui.PrefixLength(prefixLengths, t.ID)),
			ui.CompletionMark(t.Completed),
			ui.PriorityLabel(t.Priority),
			formatTableDue(t.DueDate, t.DueTime, today),
			formatSubTodoProgress(t.SubTodos),
			formatTags(t.Tags),
			ui.TruncateCell(t.Title, ui.TitleWidth),
		)
	}

	return table.String()
}

func formatTableDue(due *todo.Date, dueTime string, today todo.Date) string {
	if due == nil {
		return "-"
	}
	value := ui.RelativeDay(*due, today)
	if dueTime != "" {
		value += " " + dueTime
	}
	return value
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return ui.TruncateCell(strings.Join(tags, ","), ui.TagsWidth)
}

// formatSubTodoProgress renders completed/total, or "-" without sub-todos.
func formatSubTodoProgress(subs []todo.SubTodo) string {
	if len(subs) == 0 {
		return "-"
	}
	done := 0
	for _, sub := range subs {
		if sub.Completed {
			done++
		}
	}
	return strconv.Itoa(done) + "/" + strconv.Itoa(len(subs))
}

package editor

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"

	internalstrings "github.com/Saheb006/focusflow-organize-main/internal/strings"
	"github.com/Saheb006/focusflow-organize-main/todo"
)

// TodoData is the data rendered into the editor template.
type TodoData struct {
	// IsUpdate is true when editing an existing todo.
	IsUpdate bool
	// ID is the todo ID (only for updates).
	ID          string
	Title       string
	Priority    string
	Color       string
	DueDate     string
	DueTime     string
	Tags        []string
	Description string
}

// DefaultCreateData returns TodoData with default values for creating a new todo.
func DefaultCreateData() TodoData {
	return TodoData{Priority: string(todo.DefaultPriority)}
}

// DataFromTodo creates TodoData from an existing todo for editing.
func DataFromTodo(t todo.Todo) TodoData {
	data := TodoData{
		IsUpdate:    true,
		ID:          t.ID,
		Title:       t.Title,
		Priority:    string(t.Priority),
		Color:       t.Color,
		DueTime:     t.DueTime,
		Tags:        t.Tags,
		Description: t.Description,
	}
	if t.DueDate != nil {
		data.DueDate = t.DueDate.String()
	}
	return data
}

var todoTemplate = template.Must(template.New("todo").Funcs(template.FuncMap{
	"quote": func(s string) string { return fmt.Sprintf("%q", s) },
	"tags": func(tags []string) string {
		quoted := make([]string, len(tags))
		for i, tag := range tags {
			quoted[i] = fmt.Sprintf("%q", tag)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	},
}).Parse(`{{- if .IsUpdate }}# editing {{ .ID }}
{{ end -}}
title = {{ quote .Title }}
priority = {{ quote .Priority }} # urgent, high, medium, low
color = {{ quote .Color }}
due_date = {{ quote .DueDate }} # YYYY-MM-DD, empty for none
due_time = {{ quote .DueTime }} # HH:MM
tags = {{ tags .Tags }}
---
{{ .Description }}
`))

// RenderTodoTOML renders the todo data as a TOML string for editing.
func RenderTodoTOML(data TodoData) (string, error) {
	var buf bytes.Buffer
	if err := todoTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedTodo is the result of parsing an edited todo file.
type ParsedTodo struct {
	Title       string   `toml:"title"`
	Priority    string   `toml:"priority"`
	Color       string   `toml:"color"`
	DueDate     string   `toml:"due_date"`
	DueTime     string   `toml:"due_time"`
	Tags        []string `toml:"tags"`
	Description string   `toml:"-"`

	priority todo.Priority
	dueDate  *todo.Date
}

// ParseTodoTOML parses the TOML content from the editor.
func ParseTodoTOML(content string) (*ParsedTodo, error) {
	frontmatter, body := splitFrontmatter(internalstrings.NormalizeNewlines(content))

	var parsed ParsedTodo
	if _, err := toml.Decode(frontmatter, &parsed); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	parsed.Title = strings.TrimSpace(parsed.Title)
	parsed.Color = strings.TrimSpace(parsed.Color)
	parsed.DueTime = strings.TrimSpace(parsed.DueTime)
	parsed.Tags = todo.NormalizeTags(parsed.Tags)
	parsed.Description = strings.TrimSpace(body)

	if err := todo.ValidateTitle(parsed.Title); err != nil {
		return nil, err
	}
	parsed.priority = todo.DefaultPriority
	if strings.TrimSpace(parsed.Priority) != "" {
		priority, err := todo.ParsePriority(parsed.Priority)
		if err != nil {
			return nil, err
		}
		parsed.priority = priority
	}
	parsed.Priority = string(parsed.priority)
	if value := strings.TrimSpace(parsed.DueDate); value != "" {
		date, err := todo.ParseDate(value)
		if err != nil {
			return nil, err
		}
		parsed.dueDate = &date
		parsed.DueDate = date.String()
	} else {
		parsed.DueDate = ""
	}

	return &parsed, nil
}

func splitFrontmatter(content string) (string, string) {
	content = strings.TrimLeft(content, "\n")
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			return strings.Join(lines[:i], "\n"), strings.Join(lines[i+1:], "\n")
		}
	}
	return content, ""
}

func createTodoTempFile() (*os.File, error) {
	return os.CreateTemp("", "focusflow-todo-*.md")
}

// EditTodoWithData opens the editor with pre-populated data and returns the parsed result.
func EditTodoWithData(data TodoData) (*ParsedTodo, error) {
	content, err := RenderTodoTOML(data)
	if err != nil {
		return nil, err
	}

	tmpfile, err := createTodoTempFile()
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}

	return ParseTodoTOML(string(edited))
}

// ToDraft converts the parsed file into a draft for a new todo.
func (p *ParsedTodo) ToDraft() todo.Draft {
	return todo.Draft{
		Title:       p.Title,
		Description: p.Description,
		Priority:    p.priority,
		Color:       p.Color,
		DueDate:     p.dueDate,
		DueTime:     p.DueTime,
		Tags:        p.Tags,
	}
}

// ToPatch converts the parsed file into a patch that replaces every editable
// field. Blank optional fields clear the stored value.
func (p *ParsedTodo) ToPatch() todo.TodoPatch {
	return todo.TodoPatch{
		Title:       todo.Set(p.Title),
		Description: clearIfBlank(p.Description),
		Priority:    todo.Set(p.priority),
		Color:       clearIfBlank(p.Color),
		DueDate:     todo.SetOrClear(p.dueDate),
		DueTime:     clearIfBlank(p.DueTime),
		Tags:        todo.Set(p.Tags),
	}
}

func clearIfBlank(value string) todo.Field[string] {
	if value == "" {
		return todo.Cleared[string]()
	}
	return todo.Set(value)
}

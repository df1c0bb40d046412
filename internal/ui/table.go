package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// Cell widths used by the todo listings.
const (
	TitleWidth = 50
	TagsWidth  = 30
)

const cellEllipsis = "..."

var cellReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// Table collects rows and renders them as aligned columns separated by two
// spaces. Widths ignore ANSI styling.
type Table struct {
	headers []string
	rows    [][]string
	right   map[int]bool
}

// NewTable returns an empty table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: flattenRow(headers), right: map[int]bool{}}
}

// Row appends a row.
func (t *Table) Row(cells ...string) *Table {
	t.rows = append(t.rows, flattenRow(cells))
	return t
}

// AlignRight pads the given columns on the left instead of the right.
func (t *Table) AlignRight(columns ...int) *Table {
	for _, column := range columns {
		t.right[column] = true
	}
	return t
}

// Len returns the number of rows added.
func (t *Table) Len() int {
	return len(t.rows)
}

// String renders the table. The last column is not padded unless it is
// right aligned.
func (t *Table) String() string {
	widths := make([]int, len(t.headers))
	all := append([][]string{t.headers}, t.rows...)
	for _, row := range all {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var b strings.Builder
	for _, row := range all {
		for i, cell := range row {
			pad := 0
			if i < len(widths) {
				pad = widths[i] - lipgloss.Width(cell)
			}
			last := i == len(row)-1
			switch {
			case t.right[i]:
				b.WriteString(strings.Repeat(" ", pad) + cell)
			case last:
				b.WriteString(cell)
			default:
				b.WriteString(cell + strings.Repeat(" ", pad))
			}
			if !last {
				b.WriteString("  ")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatTable renders headers and rows with every column left aligned.
func FormatTable(headers []string, rows [][]string) string {
	table := NewTable(headers...)
	for _, row := range rows {
		table.Row(row...)
	}
	return table.String()
}

// TruncateCell flattens line breaks and limits value to width columns,
// preserving ANSI styling.
func TruncateCell(value string, width int) string {
	value = cellReplacer.Replace(value)
	if width <= 0 || lipgloss.Width(value) <= width {
		return value
	}
	return truncate.StringWithTail(value, uint(width), cellEllipsis)
}

func flattenRow(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = cellReplacer.Replace(cell)
	}
	return out
}

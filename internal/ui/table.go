package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders static tabular data for list, compare, and progression
// output. Column widths fit the widest cell; when the terminal is narrower
// than the natural width, flexible columns are clamped and their cells
// truncated.
type Table struct {
	Headers []string
	Rows    [][]string

	// RightAlign marks columns rendered flush right (numeric columns).
	RightAlign map[int]bool
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{
		Headers:    headers,
		Rows:       make([][]string, 0),
		RightAlign: make(map[int]bool),
	}
}

// AddRow appends one row. Missing cells render empty; extra cells are
// dropped.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// AlignRight marks columns for right alignment.
func (t *Table) AlignRight(cols ...int) {
	for _, col := range cols {
		t.RightAlign[col] = true
	}
}

// Render draws the table sized for the current terminal.
func (t *Table) Render() string {
	return t.RenderWidth(Width())
}

// RenderWidth draws the table constrained to maxWidth columns. maxWidth <= 0
// means unconstrained.
func (t *Table) RenderWidth(maxWidth int) string {
	if len(t.Headers) == 0 {
		return ""
	}

	widths := t.columnWidths(maxWidth)

	var sb strings.Builder

	// Header
	for i, h := range t.Headers {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(HeaderStyle.Render(t.pad(h, widths[i], i)))
	}
	sb.WriteString("\n")

	// Divider
	total := 0
	for _, w := range widths {
		total += w
	}
	total += 2 * (len(widths) - 1)
	sb.WriteString(RenderMuted(strings.Repeat("─", total)))
	sb.WriteString("\n")

	// Rows
	for _, row := range t.Rows {
		for i := range t.Headers {
			if i > 0 {
				sb.WriteString("  ")
			}
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			sb.WriteString(t.pad(TruncateSimple(cell, widths[i]), widths[i], i))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// columnWidths fits each column to its widest cell, then shrinks the widest
// columns until the table fits maxWidth.
func (t *Table) columnWidths(maxWidth int) []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	if maxWidth <= 0 {
		return widths
	}

	const minWidth = 4
	total := 2 * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	// Shave the widest column one cell at a time until the table fits or
	// every column is at the floor.
	for total > maxWidth {
		widest := -1
		for i, w := range widths {
			if w > minWidth && (widest < 0 || w > widths[widest]) {
				widest = i
			}
		}
		if widest < 0 {
			break
		}
		widths[widest]--
		total--
	}
	return widths
}

func (t *Table) pad(s string, width, col int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if t.RightAlign[col] {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

// FieldList renders aligned label/value pairs for single-record output:
//
//	Manufacturer   Fujikura
//	Model          Ventus Blue
type FieldList struct {
	pairs [][2]string
}

// Add appends one label/value pair.
func (f *FieldList) Add(label, value string) {
	f.pairs = append(f.pairs, [2]string{label, value})
}

// Render draws the pairs with labels muted and padded to a common width.
func (f *FieldList) Render() string {
	labelWidth := 0
	for _, p := range f.pairs {
		if w := lipgloss.Width(p[0]); w > labelWidth {
			labelWidth = w
		}
	}

	var sb strings.Builder
	for _, p := range f.pairs {
		label := p[0] + strings.Repeat(" ", labelWidth-lipgloss.Width(p[0]))
		sb.WriteString(RenderMuted(label))
		sb.WriteString("  ")
		sb.WriteString(p[1])
		sb.WriteString("\n")
	}
	return sb.String()
}

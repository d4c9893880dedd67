package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/traitforge/internal/tui"
	"github.com/mattn/go-runewidth"
)

// table prints aligned columns. Widths are measured in terminal cells so
// wide trait names keep the columns straight.
type table struct {
	headers []string
	rows    [][]string
}

func newTable(headers ...string) *table {
	return &table{headers: headers}
}

func (t *table) add(cells ...any) {
	row := make([]string, len(cells))
	for i, c := range cells {
		row[i] = fmt.Sprint(c)
	}
	t.rows = append(t.rows, row)
}

func (t *table) widths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}
	return widths
}

func (t *table) render(w io.Writer) {
	widths := t.widths()
	t.line(w, t.headers, widths, tui.LabelStyle)

	total := 0
	for _, width := range widths {
		total += width + 2
	}
	fmt.Fprintln(w, "  "+tui.DividerStyle.Render(strings.Repeat("─", max(total-2, 0))))

	for _, row := range t.rows {
		t.line(w, row, widths, tui.ValueStyle)
	}
}

func (t *table) line(w io.Writer, cells []string, widths []int, style lipgloss.Style) {
	var b strings.Builder
	b.WriteString("  ")
	for i, cell := range cells {
		if i > 0 {
			b.WriteString("  ")
		}
		if i == len(cells)-1 {
			b.WriteString(style.Render(cell))
			continue
		}
		b.WriteString(style.Render(runewidth.FillRight(cell, widths[i])))
	}
	fmt.Fprintln(w, b.String())
}

func percent(share float64) string {
	return fmt.Sprintf("%.2f%%", share*100)
}

package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prayz/internal/ui/theme"
)

// Option is an adjustable setting row. Adjust receives -1 or +1.
type Option struct {
	Label  string
	Value  string
	Adjust func(delta int)
}

// Options is a vertical list of adjustable settings. Up/down move the
// cursor; -/+ (or space, which steps forward) adjust the selected row.
type Options struct {
	Rows     []Option
	Selected int
}

// NewOptions creates an options list with the first row selected.
func NewOptions(rows []Option) Options {
	return Options{Rows: rows}
}

// Update handles keyboard navigation and adjustment. It reports whether a
// row was adjusted.
func (o Options) Update(msg tea.Msg) (Options, bool) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(o.Rows) == 0 {
		return o, false
	}

	delta := 0
	switch kmsg.String() {
	case "up", "k":
		if o.Selected > 0 {
			o.Selected--
		}
	case "down", "j":
		if o.Selected < len(o.Rows)-1 {
			o.Selected++
		}
	case "-", "_":
		delta = -1
	case "+", "=", "space":
		delta = 1
	}
	if delta == 0 {
		return o, false
	}
	if row := o.Rows[o.Selected]; row.Adjust != nil {
		row.Adjust(delta)
		return o, true
	}
	return o, false
}

// SetValues replaces the displayed values, keeping the cursor.
func (o *Options) SetValues(values ...string) {
	for i := range min(len(values), len(o.Rows)) {
		o.Rows[i].Value = values[i]
	}
}

// View renders the options with labels padded to a common width.
func (o Options) View() string {
	labelWidth := 0
	for _, r := range o.Rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.Label))
	}

	var s string
	for i, r := range o.Rows {
		prefix := "  "
		style := theme.Unselected
		if i == o.Selected {
			prefix = "▸ "
			style = theme.Selected
		}
		label := fmt.Sprintf("%s%-*s", prefix, labelWidth, r.Label)
		s += style.Render(label) + "   " +
			lipgloss.NewStyle().Foreground(theme.Accent).Render("‹ "+r.Value+" ›") + "\n"
	}
	return s
}

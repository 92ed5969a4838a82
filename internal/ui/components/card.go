package components

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/prayz/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for cards so stacked
// sections line up.
func ContentWidth(frameWidth int) int {
	// Leave room for the border (2) and inner padding (4)
	return min(max(frameWidth-6, 20), 72)
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return theme.Card.
		Width(cw - 2).
		Align(lipgloss.Center).
		Render(content)
}

// Center places content in the middle of a width x height area.
func Center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// StatLine renders "label   value" pairs stacked and right-aligned to width.
func StatLine(label, value string, width int) string {
	l := theme.Label.Render(label)
	v := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(value)
	gap := max(width-lipgloss.Width(l)-lipgloss.Width(v), 1)
	return l + strings.Repeat(" ", gap) + v
}

// Dots renders a page indicator with the current page highlighted.
// Long sequences collapse to "current / total".
func Dots(current, total, maxDots int) string {
	if total <= 0 {
		return ""
	}
	if total > maxDots {
		return theme.Hint.Render(strings.Repeat("·", 3)) + " " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(
				strconv.Itoa(current+1)+" / "+strconv.Itoa(total))
	}
	var b strings.Builder
	for i := range total {
		if i > 0 {
			b.WriteString(" ")
		}
		if i == current {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Render("●"))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render("○"))
		}
	}
	return b.String()
}

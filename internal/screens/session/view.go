package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/abhisek/prayz/internal/screens/summary"
	sess "github.com/abhisek/prayz/internal/session"
	"github.com/abhisek/prayz/internal/ui/components"
	"github.com/abhisek/prayz/internal/ui/theme"
)

const maxDots = 24

func (s *SessionScreen) View(width, height int) string {
	if s.errMsg != "" && s.ctrl == nil {
		return renderError(width, s.errMsg)
	}
	if s.ctrl == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Gathering requests...")
	}
	if s.width.Load() == 0 {
		s.width.Store(int64(width))
	}

	st := s.ctrl.State()

	var body string
	switch {
	case st.OnIntro():
		body = s.renderIntro(st, width)
	case st.OnSummary():
		body = s.renderSummary(width)
	default:
		body = s.renderSlide(st, width)
	}

	var b strings.Builder
	b.WriteString(s.renderStatusLine(st, width))
	b.WriteString("\n\n")
	b.WriteString(s.shift(body, st))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.Dots(st.Index, st.MaxIndex+1, maxDots)))
	b.WriteString("\n")
	b.WriteString(s.renderFooterLine(width))
	return b.String()
}

// renderStatusLine shows slide progress on the left and time on the right.
func (s *SessionScreen) renderStatusLine(st sess.State, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("  %d / %d", st.CurrentSlide(), len(st.Items)))

	timeStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if st.CountdownStarted && !st.Settings.Unlimited() && st.Remaining <= 60 {
		timeStyle = timeStyle.Foreground(theme.Accent)
	}
	right := timeStyle.Render(s.ctrl.FormatRemaining() + "  ")

	barWidth := max(width-lipgloss.Width(left)-lipgloss.Width(right)-4, 4)
	bar := components.NewProgressBar("", st.ProgressPercent(), false, barWidth).View()

	return left + "  " + bar + "  " + right
}

func (s *SessionScreen) renderIntro(st sess.State, width int) string {
	cw := components.ContentWidth(width)
	s.options.SetValues(optionValues(st)...)

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw - 6).Render("Be still."))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(cw - 6).Render(introSubtitle(st)))
	b.WriteString("\n\n")
	b.WriteString(s.options.View())
	if st.Phase != sess.PhaseNotStarted {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Session in progress; selection changes apply next time."))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card(b.String(), cw))
}

func introSubtitle(st sess.State) string {
	switch n := len(st.Items); {
	case st.PoolSize == 0 && n == 0:
		return "Nothing to pray for here yet."
	case n == 1:
		return "1 item to pray through"
	default:
		return fmt.Sprintf("%d items to pray through", n)
	}
}

func (s *SessionScreen) renderSlide(st sess.State, width int) string {
	it, ok := st.Current()
	if !ok {
		return ""
	}
	cw := components.ContentWidth(width)
	inner := cw - 6

	var b strings.Builder

	kicker := it.ListName
	if it.IsRequest() && it.TopicName != "" {
		if kicker != "" {
			kicker += " · "
		}
		kicker += it.TopicName
	}
	if kicker != "" {
		b.WriteString(theme.Subtitle.Width(inner).Render(kicker))
		b.WriteString("\n\n")
	}

	titleStyle := lipgloss.NewStyle().Width(inner).Align(lipgloss.Center).Bold(true).Foreground(theme.Text)
	if it.IsAnswered {
		titleStyle = titleStyle.Foreground(theme.Success)
	}
	b.WriteString(titleStyle.Render(it.Title()))
	b.WriteString("\n\n")

	switch {
	case !it.IsRequest():
		b.WriteString(theme.Hint.Width(inner).Align(lipgloss.Center).
			Render("Pray for everything in this topic."))
	case it.IsAnswered:
		line := "Answered"
		if it.AnsweredDate != nil {
			line += " " + humanize.Time(*it.AnsweredDate)
		}
		b.WriteString(theme.Answered.Width(inner).Align(lipgloss.Center).Render("✓ " + line))
		if it.AnswerDescription != "" {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Width(inner).Align(lipgloss.Center).Render(it.AnswerDescription))
		}
	default:
		b.WriteString(theme.Subtitle.Width(inner).Render(requestMeta(it)))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card(b.String(), cw))
}

func requestMeta(it sess.Item) string {
	parts := []string{strings.Repeat("✦", it.Priority)}
	switch it.PrayerCount {
	case 0:
		parts = append(parts, "not prayed yet")
	case 1:
		parts = append(parts, "prayed once")
	default:
		parts = append(parts, fmt.Sprintf("prayed %s times", humanize.Comma(int64(it.PrayerCount))))
	}
	if !it.CreatedDate.IsZero() {
		parts = append(parts, "added "+humanize.Time(it.CreatedDate))
	}
	return strings.Join(parts, " · ")
}

func (s *SessionScreen) renderSummary(width int) string {
	sum, ok := s.ctrl.Summary()
	if !ok {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("Nothing was prayed in this session.")
	}
	return summary.Render(summary.FromSession(sum), width)
}

// shift offsets the slide horizontally while a swipe is in progress.
func (s *SessionScreen) shift(body string, st sess.State) string {
	if !st.Dragging || st.DeltaX == 0 {
		return body
	}
	cols := int(st.DeltaX / s.cell)
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		switch {
		case cols > 0:
			lines[i] = strings.Repeat(" ", cols) + l
		case cols < 0:
			lines[i] = trimLeft(l, -cols)
		}
	}
	return strings.Join(lines, "\n")
}

// trimLeft drops up to n leading spaces so the slide moves left without
// cutting into styled text.
func trimLeft(l string, n int) string {
	i := 0
	for i < len(l) && i < n && l[i] == ' ' {
		i++
	}
	return l[i:]
}

func (s *SessionScreen) renderFooterLine(width int) string {
	switch {
	case s.mode != inputNone:
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, s.input.View())
	case s.errMsg != "":
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Warning.Render(s.errMsg))
	case s.flash != "":
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Accent).Render(s.flash))
	}
	return ""
}

func renderError(width int, msg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render("\n\nError: " + msg)
}

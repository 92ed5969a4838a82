package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/prayz/internal/router"
	"github.com/abhisek/prayz/internal/session"
	"github.com/abhisek/prayz/internal/store"
)

func testData() Data {
	return FromSession(session.Summary{
		SessionID:     "s-1",
		TotalItems:    6,
		Duration:      3*time.Minute + 20*time.Second,
		PrayedCount:   4,
		AnsweredCount: 1,
	})
}

func TestFromSession(t *testing.T) {
	d := testData()
	assert.Equal(t, 200, d.DurationSecs)
	assert.Equal(t, 50, d.AverageTimePerPrayer())
	assert.True(t, d.When.IsZero())
}

func TestFromRecord(t *testing.T) {
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	d := FromRecord(store.SessionSummaryRecord{
		SessionID:    "s-2",
		Timestamp:    at,
		ItemCount:    3,
		DurationSecs: 90,
		PrayedCount:  0,
	})
	assert.Equal(t, at, d.When)
	assert.Equal(t, 3, d.TotalItems)
	assert.Equal(t, 0, d.AverageTimePerPrayer())
}

func TestRender(t *testing.T) {
	view := Render(testData(), 80)
	assert.Contains(t, view, "Amen.")
	assert.Contains(t, view, "3m 20s")
	assert.Contains(t, view, "Per prayer")

	d := testData()
	d.Expired = true
	d.PrayedCount = 0
	view = Render(d, 80)
	assert.Contains(t, view, "Time's up")
	assert.False(t, strings.Contains(view, "Per prayer"))
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testData())
	if s.Title() != "Session Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Session Summary")
	}
}

func TestSummaryScreen_EnterPops(t *testing.T) {
	s := New(testData())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(testData())
	if len(s.KeyHints()) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(s.KeyHints()))
	}
}

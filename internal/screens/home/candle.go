package home

import (
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/prayz/internal/ui/theme"
)

// CandleVariant selects which candle art to display.
type CandleVariant int

const (
	CandleUnlit   CandleVariant = iota // No session yet
	CandleLit                          // Prayed today
	CandleEmbered                      // Prayed before, not today
)

const candleUnlit = `   
 ┌─┐
 │ │
 │ │
─┴─┴─`

const candleLit = `  )
 (·)
 ┌┴┐
 │ │
─┴─┴─`

const candleEmbered = `  .
 ┌─┐
 │ │
 │ │
─┴─┴─`

// candleFor picks the variant from the last session date.
func candleFor(last *time.Time, now time.Time) CandleVariant {
	switch {
	case last == nil:
		return CandleUnlit
	case sameDay(*last, now):
		return CandleLit
	}
	return CandleEmbered
}

func sameDay(a, b time.Time) bool {
	a, b = a.Local(), b.Local()
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// RenderCandle returns the candle art for the given variant.
func RenderCandle(v CandleVariant) string {
	art, fg := candleUnlit, theme.TextDim
	switch v {
	case CandleLit:
		art, fg = candleLit, theme.Accent
	case CandleEmbered:
		art, fg = candleEmbered, theme.Primary
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}

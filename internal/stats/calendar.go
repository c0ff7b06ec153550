package stats

import (
	"time"

	"github.com/mindweave/mindweave-server/internal/model"
)

// CalendarDay is one cell of a month view.
type CalendarDay struct {
	Date       string     `json:"date"`
	EntryCount int        `json:"entry_count"`
	Mood       model.Mood `json:"mood,omitempty"`
}

// MonthCalendar returns one cell per day of the given month in loc.
// A day's mood is the mood of its first entry in snapshot order (newest first).
func MonthCalendar(entries []model.Entry, year int, month time.Month, loc *time.Location) []CalendarDay {
	byDay := make(map[time.Time][]model.Entry)
	for _, e := range entries {
		key := DayOf(e.CreatedAt, loc)
		byDay[key] = append(byDay[key], e)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := make([]CalendarDay, 0, 31)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		cell := CalendarDay{Date: d.Format(time.DateOnly)}
		if dayEntries := byDay[d]; len(dayEntries) > 0 {
			cell.EntryCount = len(dayEntries)
			cell.Mood = dayEntries[0].Mood
		}
		days = append(days, cell)
	}
	return days
}

// Package stats derives read-only journal statistics from entry snapshots.
//
// Every function is pure. A "local day" is the civil date of a timestamp in
// the location of the reference time passed by the caller, so callers must use
// the same location for every call that serves one user.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/mindweave/mindweave-server/internal/model"
)

// Summary bundles the dashboard statistics for one snapshot.
type Summary struct {
	TotalEntries    int     `json:"total_entries"`
	EntriesThisWeek int     `json:"entries_this_week"`
	AverageMood     float64 `json:"average_mood"`
	CurrentStreak   int     `json:"current_streak"`
	LongestStreak   int     `json:"longest_streak"`
}

// Summarize computes every dashboard statistic relative to now.
func Summarize(entries []model.Entry, now time.Time) Summary {
	return Summary{
		TotalEntries:    TotalEntries(entries),
		EntriesThisWeek: EntriesThisWeek(entries, now),
		AverageMood:     AverageMood(entries),
		CurrentStreak:   CurrentStreak(entries, now),
		LongestStreak:   LongestStreak(entries, now.Location()),
	}
}

// DayOf returns the civil date of t in loc, encoded as midnight UTC.
// The UTC encoding keeps day arithmetic free of DST shifts.
func DayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EntriesForDate returns the entries created on the local day of date, in input order.
func EntriesForDate(entries []model.Entry, date time.Time) []model.Entry {
	loc := date.Location()
	target := DayOf(date, loc)

	result := make([]model.Entry, 0)
	for _, e := range entries {
		if DayOf(e.CreatedAt, loc).Equal(target) {
			result = append(result, e)
		}
	}
	return result
}

// TotalEntries counts entries.
func TotalEntries(entries []model.Entry) int {
	return len(entries)
}

// WeekStart returns the most recent Sunday at local midnight, at or before now.
func WeekStart(now time.Time) time.Time {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

// EntriesThisWeek counts entries created at or after WeekStart(now).
func EntriesThisWeek(entries []model.Entry, now time.Time) int {
	start := WeekStart(now)
	count := 0
	for _, e := range entries {
		if !e.CreatedAt.Before(start) {
			count++
		}
	}
	return count
}

// AverageMood averages mood scores and rounds to one decimal. It is 0 for no entries.
func AverageMood(entries []model.Entry) float64 {
	if len(entries) == 0 {
		return 0
	}
	var total float64
	for _, e := range entries {
		total += e.Mood.Score()
	}
	return math.Round(total/float64(len(entries))*10) / 10
}

// MoodCounts counts entries per mood. Every known mood is present in the result.
func MoodCounts(entries []model.Entry) map[model.Mood]int {
	counts := make(map[model.Mood]int, len(model.Moods))
	for _, m := range model.Moods {
		counts[m] = 0
	}
	for _, e := range entries {
		if e.Mood.Valid() {
			counts[e.Mood]++
		}
	}
	return counts
}

// DayKeys returns the distinct local days that have at least one entry.
func DayKeys(entries []model.Entry, loc *time.Location) map[time.Time]struct{} {
	days := make(map[time.Time]struct{}, len(entries))
	for _, e := range entries {
		days[DayOf(e.CreatedAt, loc)] = struct{}{}
	}
	return days
}

// CurrentStreak counts consecutive days with entries ending today or yesterday.
// It is 0 when neither today nor yesterday has an entry.
func CurrentStreak(entries []model.Entry, today time.Time) int {
	days := DayKeys(entries, today.Location())
	if len(days) == 0 {
		return 0
	}

	cursor := DayOf(today, today.Location())
	if _, ok := days[cursor]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
		if _, ok := days[cursor]; !ok {
			return 0
		}
	}

	streak := 0
	for {
		if _, ok := days[cursor]; !ok {
			return streak
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
}

// LongestStreak returns the longest run of consecutive entry days in the whole history.
func LongestStreak(entries []model.Entry, loc *time.Location) int {
	days := SortedDays(entries, loc)
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, 1).Equal(days[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// SortedDays returns the distinct local entry days in ascending order.
func SortedDays(entries []model.Entry, loc *time.Location) []time.Time {
	set := DayKeys(entries, loc)
	days := make([]time.Time, 0, len(set))
	for d := range set {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// Package achievement evaluates the fixed milestone catalog against a user's journal.
package achievement

import (
	"time"

	"github.com/mindweave/mindweave-server/internal/model"
	"github.com/mindweave/mindweave-server/internal/stats"
)

// balancePerMood caps how many entries of one mood count toward the balance milestone.
const balancePerMood = 10

// Progress is the evaluated state of one achievement.
type Progress struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Current     int    `json:"current"`
	Target      int    `json:"target"`
	Completed   bool   `json:"completed"`
}

// Definition describes one milestone and how its raw count is derived.
type Definition struct {
	ID          string
	Title       string
	Description string
	Target      int
	count       func(f facts) int
}

// facts are the aggregate counts every rule reads from.
type facts struct {
	entries       int
	happy         int
	reflections   int
	distinctMoods int
	moodBalance   int
	longestStreak int
}

var catalog = []Definition{
	{ID: "first-entry", Title: "First Steps", Description: "Write your first journal entry", Target: 1, count: totalEntries},
	{ID: "dedicated-writer", Title: "Dedicated Writer", Description: "Write 10 journal entries", Target: 10, count: totalEntries},
	{ID: "storyteller", Title: "Storyteller", Description: "Write 50 journal entries", Target: 50, count: totalEntries},
	{ID: "centurion", Title: "Centurion", Description: "Write 100 journal entries", Target: 100, count: totalEntries},
	{ID: "sunshine", Title: "Sunshine", Description: "Record 10 happy entries", Target: 10, count: func(f facts) int { return f.happy }},
	{ID: "seeker", Title: "Seeker", Description: "Receive 5 AI reflections", Target: 5, count: totalReflections},
	{ID: "deep-thinker", Title: "Deep Thinker", Description: "Receive 25 AI reflections", Target: 25, count: totalReflections},
	{ID: "full-spectrum", Title: "Full Spectrum", Description: "Log every mood at least once", Target: 3, count: func(f facts) int { return f.distinctMoods }},
	{ID: "emotional-range", Title: "Emotional Range", Description: "Log at least 10 entries of each mood", Target: 30, count: func(f facts) int { return f.moodBalance }},
	{ID: "on-a-roll", Title: "On a Roll", Description: "Journal 3 days in a row", Target: 3, count: longestStreak},
	{ID: "week-warrior", Title: "Week Warrior", Description: "Journal 7 days in a row", Target: 7, count: longestStreak},
	{ID: "habit-master", Title: "Habit Master", Description: "Journal 30 days in a row", Target: 30, count: longestStreak},
}

func totalEntries(f facts) int     { return f.entries }
func totalReflections(f facts) int { return f.reflections }
func longestStreak(f facts) int    { return f.longestStreak }

// Catalog returns the ordered milestone definitions.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Evaluate computes progress for every catalog entry, in catalog order.
// Streak milestones use the longest historical streak with days taken in loc.
func Evaluate(entries []model.Entry, reflections []model.Reflection, loc *time.Location) []Progress {
	f := collect(entries, reflections, loc)

	result := make([]Progress, 0, len(catalog))
	for _, def := range catalog {
		raw := def.count(f)
		result = append(result, Progress{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			Current:     min(raw, def.Target),
			Target:      def.Target,
			Completed:   raw >= def.Target,
		})
	}
	return result
}

func collect(entries []model.Entry, reflections []model.Reflection, loc *time.Location) facts {
	moods := stats.MoodCounts(entries)

	f := facts{
		entries:       len(entries),
		happy:         moods[model.MoodHappy],
		reflections:   len(reflections),
		longestStreak: stats.LongestStreak(entries, loc),
	}
	for _, m := range model.Moods {
		if moods[m] > 0 {
			f.distinctMoods++
		}
		f.moodBalance += min(moods[m], balancePerMood)
	}
	return f
}

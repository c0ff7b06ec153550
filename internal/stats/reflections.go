package stats

import (
	"sort"
	"time"

	"github.com/mindweave/mindweave-server/internal/model"
)

// reflectionMonths is how many trailing months ReflectionsByMonth reports.
const reflectionMonths = 6

// MonthCount is the number of reflections generated in one calendar month.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// ReflectionSummary groups the reflection breakdowns shown on the insights page.
type ReflectionSummary struct {
	Total            int                `json:"total"`
	ByMonth          []MonthCount       `json:"by_month"`
	MoodDistribution map[model.Mood]int `json:"mood_distribution"`
	Types            map[string]int     `json:"types"`
}

// SummarizeReflections computes every reflection breakdown with months bucketed in loc.
func SummarizeReflections(reflections []model.Reflection, loc *time.Location) ReflectionSummary {
	return ReflectionSummary{
		Total:            len(reflections),
		ByMonth:          ReflectionsByMonth(reflections, loc),
		MoodDistribution: ReflectionMoodDistribution(reflections),
		Types:            ReflectionTypeCounts(reflections),
	}
}

// ReflectionsByMonth counts reflections per calendar month in loc and returns
// the six most recent months that have any, oldest first.
func ReflectionsByMonth(reflections []model.Reflection, loc *time.Location) []MonthCount {
	counts := make(map[string]int)
	for _, r := range reflections {
		counts[r.GeneratedAt.In(loc).Format("2006-01")]++
	}

	result := make([]MonthCount, 0, len(counts))
	for month, count := range counts {
		result = append(result, MonthCount{Month: month, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })

	if len(result) > reflectionMonths {
		result = result[len(result)-reflectionMonths:]
	}
	return result
}

// ReflectionMoodDistribution counts reflections by the mood of their source entry.
// Reflections whose entry was deleted are not counted.
func ReflectionMoodDistribution(reflections []model.Reflection) map[model.Mood]int {
	dist := make(map[model.Mood]int, len(model.Moods))
	for _, m := range model.Moods {
		dist[m] = 0
	}
	for _, r := range reflections {
		if r.Entry != nil && r.Entry.Mood.Valid() {
			dist[r.Entry.Mood]++
		}
	}
	return dist
}

// ReflectionTypeCounts counts reflections per type label.
func ReflectionTypeCounts(reflections []model.Reflection) map[string]int {
	types := make(map[string]int)
	for _, r := range reflections {
		types[r.Type]++
	}
	return types
}

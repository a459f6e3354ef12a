package history

import "github.com/Naimy441/nutriuni/internal/models"

// Summary aggregates a span of days.
type Summary struct {
	Days    int // days with at least one item
	Total   models.NutritionValues
	Average models.NutritionValues
}

// Summarize totals the non-empty days and averages over them.
func Summarize(days []Day) Summary {
	var s Summary
	for _, d := range days {
		if d.Log.IsEmpty() {
			continue
		}
		s.Days++
		s.Total = s.Total.Add(d.Log.Totals)
	}
	if s.Days > 0 {
		s.Average = s.Total.Scale(1 / float64(s.Days))
	}
	return s
}

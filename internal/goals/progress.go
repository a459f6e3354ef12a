package goals

import "github.com/Naimy441/nutriuni/internal/models"

// Progress is one nutrient's standing against its target.
type Progress struct {
	Name      string
	Unit      string
	Consumed  float64
	Target    float64
	Remaining float64 // negative when over target
	Percent   float64 // 0 when there is no target
}

// Over reports whether consumption exceeded a positive target.
func (p Progress) Over() bool {
	return p.Target > 0 && p.Consumed > p.Target
}

func progress(name, unit string, consumed, target float64) Progress {
	p := Progress{
		Name:      name,
		Unit:      unit,
		Consumed:  consumed,
		Target:    target,
		Remaining: target - consumed,
	}
	if target > 0 {
		p.Percent = consumed / target * 100
	}
	return p
}

// ComputeProgress lines totals up against goals in display order.
func ComputeProgress(totals models.DailyNutritionTotals, g models.NutritionGoals) []Progress {
	return []Progress{
		progress("Calories", "kcal", totals.Calories, g.Calories),
		progress("Protein", "g", totals.Protein, g.Protein),
		progress("Carbs", "g", totals.Carbs, g.Carbs),
		progress("Fat", "g", totals.Fat, g.Fat),
		progress("Fiber", "g", totals.Fiber, g.Fiber),
		progress("Sugar", "g", totals.Sugar, g.Sugar),
		progress("Sodium", "mg", totals.Sodium, g.Sodium),
	}
}

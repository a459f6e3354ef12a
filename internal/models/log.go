package models

import "github.com/Naimy441/nutriuni/internal/constants"

// DailyNutritionTotals is always derived from a log's items, never edited directly.
type DailyNutritionTotals = NutritionValues

// TrackedItem is a single logged consumption event. It is immutable once created.
type TrackedItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Restaurant string `json:"restaurant"`
	NutritionValues
	ServingSize string `json:"servingSize"`
	Timestamp   int64  `json:"timestamp"` // epoch milliseconds
}

// IsCustom reports whether the item was authored by the user rather than picked from the catalog.
func (t TrackedItem) IsCustom() bool {
	return IsCustomRestaurant(t.Restaurant)
}

// IsCustomRestaurant reports whether restaurant is the custom-meal sentinel.
func IsCustomRestaurant(restaurant string) bool {
	return restaurant == constants.CustomMealRestaurant
}

// CustomMeal is user-authored input for a log entry with no catalog backing.
type CustomMeal struct {
	Name string `json:"name"`
	NutritionValues
	ServingSize string `json:"servingSize"`
}

// DailyLog is everything consumed on one calendar date.
type DailyLog struct {
	Date   string               `json:"date"` // YYYY-MM-DD, local calendar day
	Items  []TrackedItem        `json:"items"`
	Totals DailyNutritionTotals `json:"totals"`
}

// NewDailyLog returns an empty log with zeroed totals.
func NewDailyLog(date string) DailyLog {
	return DailyLog{
		Date:  date,
		Items: []TrackedItem{},
	}
}

// SumItems adds up items in order.
func SumItems(items []TrackedItem) DailyNutritionTotals {
	var totals DailyNutritionTotals
	for _, item := range items {
		totals = totals.Add(item.NutritionValues)
	}
	return totals
}

// Recalculate recomputes Totals from Items.
func (l *DailyLog) Recalculate() {
	if l.Items == nil {
		l.Items = []TrackedItem{}
	}
	l.Totals = SumItems(l.Items)
}

// Clone returns a copy that does not share the item slice with l.
func (l DailyLog) Clone() DailyLog {
	items := make([]TrackedItem, len(l.Items))
	copy(items, l.Items)
	l.Items = items
	return l
}

// IsEmpty reports whether nothing was logged.
func (l DailyLog) IsEmpty() bool {
	return len(l.Items) == 0
}

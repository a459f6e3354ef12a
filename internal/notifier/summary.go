package notifier

import (
	"fmt"
	"strings"

	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/utils"
)

// DaySummary renders a finished day's totals, e.g.
// "2024-03-10: 3 items, 2,050 kcal (of 2,400), 120 g protein".
// goals may be nil.
func DaySummary(log models.DailyLog, goals *models.NutritionGoals) string {
	if log.IsEmpty() {
		return fmt.Sprintf("%s: nothing logged", log.Date)
	}

	noun := "items"
	if len(log.Items) == 1 {
		noun = "item"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d %s, %s", log.Date, len(log.Items), noun, utils.FormatCalories(log.Totals.Calories))
	if goals != nil && goals.Calories > 0 {
		fmt.Fprintf(&b, " (of %s)", utils.FormatNumber(goals.Calories, 0))
	}
	fmt.Fprintf(&b, ", %s protein", utils.FormatGrams(log.Totals.Protein))
	return b.String()
}

package cli

import (
	"fmt"
	"time"

	"github.com/Naimy441/nutriuni/internal/goals"
	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/utils"
)

// PrintItems lists a log's items in the order they were added.
func (c *Context) PrintItems(items []models.TrackedItem, loc *time.Location, showIDs bool) {
	if len(items) == 0 {
		c.Println("  Nothing logged.")
		return
	}
	for _, item := range items {
		idStr := ""
		if showIDs {
			idStr = fmt.Sprintf(" (ID: %s)", item.ID)
		}
		c.Printf("  %s  %s%s - %s, %s protein\n",
			utils.FormatClock(item.Timestamp, loc), item.Name, idStr,
			utils.FormatCalories(item.Calories), utils.FormatGrams(item.Protein))
		if item.IsCustom() {
			c.Printf("         custom meal")
		} else {
			c.Printf("         %s", item.Restaurant)
		}
		if item.ServingSize != "" {
			c.Printf(", %s", item.ServingSize)
		}
		c.Println()
	}
}

// PrintTotals shows totals against targets when goals is set.
func (c *Context) PrintTotals(totals models.DailyNutritionTotals, g *models.NutritionGoals) {
	if g == nil {
		g = &models.NutritionGoals{}
	}
	for _, row := range goals.ComputeProgress(totals, *g) {
		if row.Target <= 0 {
			c.Printf("  %-9s %s\n", row.Name, utils.FormatAmount(row.Consumed, row.Unit))
			continue
		}
		flag := ""
		if row.Over() {
			flag = "  over"
		}
		c.Printf("  %-9s %s of %s (%s%%)%s\n", row.Name,
			utils.FormatAmount(row.Consumed, row.Unit), utils.FormatAmount(row.Target, row.Unit),
			utils.FormatNumber(row.Percent, 0), flag)
	}
}

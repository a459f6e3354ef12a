package days

import (
	"context"
	"fmt"

	"github.com/Naimy441/nutriuni/internal/cli"
	"github.com/Naimy441/nutriuni/internal/constants"
	"github.com/Naimy441/nutriuni/internal/history"
	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/utils"
)

type HistoryCmd struct {
	Days    int  `help:"Number of logged days to show." default:"7"`
	Within  int  `help:"Show archived days within the last N calendar days, including empty ones."`
	All     bool `help:"Show every archived day, including empty ones."`
	Expand  bool `help:"List the items of each day." short:"e"`
	ShowIDs bool `help:"Show item IDs (with --expand)." name:"show-ids"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App(context.Background())
	if err != nil {
		return err
	}
	bg := context.Background()

	var days []history.Day
	switch {
	case c.All:
		days = a.History.AllHistory(bg)
	case c.Within > 0:
		days = a.History.PastDays(bg, c.Within)
	default:
		n := c.Days
		if n <= 0 {
			n = constants.DefaultHistoryDays
		}
		days = a.History.MostRecentDays(bg, n)
	}

	if len(days) == 0 {
		ctx.Println("No history yet.")
		return nil
	}

	for _, d := range days {
		if c.Expand {
			d.Toggle()
		}
		ctx.Printf("%-22s %s  %3d item(s)  %s  %s protein\n",
			d.Label, d.Log.Date, len(d.Log.Items),
			utils.FormatCalories(d.Log.Totals.Calories), utils.FormatGrams(d.Log.Totals.Protein))
		if d.IsExpanded {
			ctx.PrintItems(d.Log.Items, a.Location, c.ShowIDs)
			ctx.Println()
		}
	}

	sum := history.Summarize(days)
	if sum.Days > 0 {
		ctx.Printf("\nAverage over %d logged day(s): %s, %s protein, %s carbs, %s fat\n",
			sum.Days,
			utils.FormatCalories(sum.Average.Calories), utils.FormatGrams(sum.Average.Protein),
			utils.FormatGrams(sum.Average.Carbs), utils.FormatGrams(sum.Average.Fat))
	}
	return nil
}

type DayCmd struct {
	Date    string `arg:"" help:"Date (YYYY-MM-DD)."`
	ShowIDs bool   `help:"Show item IDs." name:"show-ids"`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	if !utils.ValidateDate(c.Date) {
		return fmt.Errorf("invalid date %q, use YYYY-MM-DD", c.Date)
	}
	a, err := ctx.App(context.Background())
	if err != nil {
		return err
	}
	bg := context.Background()

	log, found := a.Logs.GetLog(bg, c.Date)
	if !found {
		ctx.Printf("Nothing logged on %s.\n", c.Date)
		return nil
	}

	ctx.Printf("%s (%s)\n\n", history.Label(log.Date, a.Clock.Now().In(a.Location)), log.Date)
	ctx.PrintItems(log.Items, a.Location, c.ShowIDs)
	ctx.Println()

	var target *models.NutritionGoals
	if g, ok := a.Goals.Goals(bg); ok {
		target = &g
	}
	ctx.Println("Totals:")
	ctx.PrintTotals(log.Totals, target)
	return nil
}

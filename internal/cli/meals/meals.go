package meals

import (
	"context"
	"fmt"

	"github.com/Naimy441/nutriuni/internal/cli"
	"github.com/Naimy441/nutriuni/internal/history"
	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/tui/forms"
	"github.com/Naimy441/nutriuni/internal/utils"
)

type TodayCmd struct {
	ShowIDs bool `help:"Show item IDs." name:"show-ids"`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App(context.Background())
	if err != nil {
		return err
	}
	bg := context.Background()

	log := a.Logs.GetTodaysLog(bg)
	ctx.Printf("%s (%s)\n\n", history.Label(log.Date, a.Clock.Now().In(a.Location)), log.Date)
	ctx.PrintItems(log.Items, a.Location, c.ShowIDs)
	ctx.Println()

	var target *models.NutritionGoals
	if g, ok := a.Goals.Goals(bg); ok {
		target = &g
	}
	ctx.Println("Totals:")
	ctx.PrintTotals(log.Totals, target)
	if target == nil {
		ctx.Println("\nNo daily goals set. Run 'nutriuni goals set' to add them.")
	}
	return nil
}

type AddCmd struct {
	Restaurant string `arg:"" help:"Restaurant name."`
	Item       string `arg:"" help:"Menu item name."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App(context.Background())
	if err != nil {
		return err
	}

	item, err := a.Catalog.Lookup(c.Restaurant, c.Item)
	if err != nil {
		return err
	}
	restaurant, err := a.Catalog.Name(c.Restaurant)
	if err != nil {
		return err
	}

	tracked, err := a.Logs.AddItem(context.Background(), item, restaurant)
	if err != nil {
		return fmt.Errorf("failed to log item: %w", err)
	}
	ctx.Printf("✓ Logged %s from %s (%s)\n", tracked.Name, tracked.Restaurant, utils.FormatCalories(tracked.Calories))
	ctx.Printf("  Today: %s\n", utils.FormatCalories(a.Logs.TodaysTotals(context.Background()).Calories))
	return nil
}

type CustomCmd struct {
	Name        string  `arg:"" optional:"" help:"Meal name."`
	Calories    float64 `help:"Calories (kcal)."`
	Protein     float64 `help:"Protein (g)."`
	Carbs       float64 `help:"Carbohydrates (g)."`
	Fat         float64 `help:"Fat (g)."`
	Fiber       float64 `help:"Fiber (g)."`
	Sugar       float64 `help:"Sugar (g)."`
	Sodium      float64 `help:"Sodium (mg)."`
	Serving     string  `help:"Serving size, e.g. '1 bowl'."`
	Interactive bool    `help:"Fill in the meal with a form." short:"i"`
}

// meal builds the custom meal from flags, or from the form when interactive.
func (c *CustomCmd) meal() (models.CustomMeal, error) {
	if c.Interactive {
		fm := forms.MealFormModel{Name: c.Name}
		if err := forms.NewMealForm(&fm).Run(); err != nil {
			return models.CustomMeal{}, err
		}
		return fm.Meal()
	}
	if c.Name == "" {
		return models.CustomMeal{}, fmt.Errorf("meal name is required (or use --interactive)")
	}
	meal := models.CustomMeal{
		Name: c.Name,
		NutritionValues: models.NutritionValues{
			Calories: c.Calories,
			Protein:  c.Protein,
			Carbs:    c.Carbs,
			Fat:      c.Fat,
			Fiber:    c.Fiber,
			Sugar:    c.Sugar,
			Sodium:   c.Sodium,
		},
		ServingSize: c.Serving,
	}
	if meal.NutritionValues != meal.NutritionValues.Sanitized() {
		return models.CustomMeal{}, fmt.Errorf("nutrient amounts must not be negative")
	}
	return meal, nil
}

func (c *CustomCmd) Run(ctx *cli.Context) error {
	meal, err := c.meal()
	if err != nil {
		return err
	}
	a, err := ctx.App(context.Background())
	if err != nil {
		return err
	}

	tracked, err := a.Logs.AddCustomMeal(context.Background(), meal)
	if err != nil {
		return fmt.Errorf("failed to log meal: %w", err)
	}
	ctx.Printf("✓ Logged custom meal %s (%s)\n", tracked.Name, utils.FormatCalories(tracked.Calories))
	return nil
}

type RemoveCmd struct {
	ID string `arg:"" help:"ID (or unique prefix) of the item, see 'today --show-ids'."`
}

func (c *RemoveCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App(context.Background())
	if err != nil {
		return err
	}
	bg := context.Background()

	items := a.Logs.TodaysItems(bg)
	ids := make([]string, len(items))
	byID := make(map[string]models.TrackedItem, len(items))
	for i, item := range items {
		ids[i] = item.ID
		byID[item.ID] = item
	}
	id, err := cli.MatchID(ids, c.ID)
	if err != nil {
		return err
	}

	if err := a.Logs.RemoveItem(bg, id); err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}
	ctx.Printf("✓ Removed %s\n", byID[id].Name)
	return nil
}

type ClearCmd struct {
	Yes bool `help:"Do not ask for confirmation." short:"y"`
}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App(context.Background())
	if err != nil {
		return err
	}
	bg := context.Background()

	items := a.Logs.TodaysItems(bg)
	if len(items) == 0 {
		ctx.Println("Nothing logged today.")
		return nil
	}
	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Remove all %d items logged today?", len(items)))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Clear cancelled.")
			return nil
		}
	}

	if err := a.Logs.ClearToday(bg); err != nil {
		return err
	}
	ctx.Println("✓ Today's log cleared.")
	return nil
}

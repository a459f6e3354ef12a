package targets

import (
	"context"
	"fmt"

	"github.com/Naimy441/nutriuni/internal/cli"
	"github.com/Naimy441/nutriuni/internal/goals"
	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/tui/forms"
	"github.com/Naimy441/nutriuni/internal/utils"
)

func printGoals(ctx *cli.Context, g models.NutritionGoals) {
	for _, row := range goals.ComputeProgress(models.NutritionValues{}, g) {
		ctx.Printf("  %-9s %s\n", row.Name, utils.FormatAmount(row.Target, row.Unit))
	}
}

type ShowCmd struct{}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	svc := goals.NewService(ctx.Store)
	bg := context.Background()

	if p, ok := svc.Profile(bg); ok {
		ctx.Println("Profile:")
		ctx.Printf("  Age:       %d\n", p.Age)
		ctx.Printf("  Sex:       %s\n", p.Sex)
		ctx.Printf("  Height:    %s cm\n", utils.FormatNumber(p.HeightCm, 1))
		ctx.Printf("  Weight:    %s kg\n", utils.FormatNumber(p.WeightKg, 1))
		ctx.Printf("  Activity:  %s\n", p.ActivityLevel)
		ctx.Printf("  Goal:      %s\n", p.Goal)
		ctx.Println()
	}

	g, ok := svc.Goals(bg)
	if !ok {
		ctx.Println("No daily goals set. Run 'nutriuni goals set --interactive' to create them.")
		return nil
	}
	ctx.Println("Daily goals:")
	printGoals(ctx, g)
	return nil
}

type SetCmd struct {
	Interactive bool `help:"Answer the profile questions with a form." short:"i"`

	Age      int     `help:"Age in years."`
	Sex      string  `help:"Sex used by the BMR formula (male, female)."`
	Height   float64 `help:"Height in cm."`
	Weight   float64 `help:"Weight in kg."`
	Activity string  `help:"Activity level (sedentary, light, moderate, active, very_active)."`
	Goal     string  `help:"Weight goal (lose, maintain, gain)."`

	Calories *float64 `help:"Override the calorie target (kcal)."`
	Protein  *float64 `help:"Override the protein target (g)."`
	Carbs    *float64 `help:"Override the carbohydrate target (g)."`
	Fat      *float64 `help:"Override the fat target (g)."`
	Fiber    *float64 `help:"Override the fiber target (g)."`
	Sugar    *float64 `help:"Override the sugar target (g)."`
	Sodium   *float64 `help:"Override the sodium target (mg)."`
}

func (c *SetCmd) hasProfileFlags() bool {
	return c.Age != 0 || c.Sex != "" || c.Height != 0 || c.Weight != 0 || c.Activity != "" || c.Goal != ""
}

// profile merges the profile flags over the stored profile.
func (c *SetCmd) profile(stored models.UserProfile) models.UserProfile {
	p := stored
	if c.Age != 0 {
		p.Age = c.Age
	}
	if c.Sex != "" {
		p.Sex = models.Sex(c.Sex)
	}
	if c.Height != 0 {
		p.HeightCm = c.Height
	}
	if c.Weight != 0 {
		p.WeightKg = c.Weight
	}
	if c.Activity != "" {
		p.ActivityLevel = models.ActivityLevel(c.Activity)
	}
	if c.Goal != "" {
		p.Goal = models.WeightGoal(c.Goal)
	}
	return p
}

// overrides applies the per-nutrient flags to g and reports whether any were given.
func (c *SetCmd) overrides(g *models.NutritionGoals) bool {
	fields := []struct {
		flag *float64
		dst  *float64
	}{
		{c.Calories, &g.Calories},
		{c.Protein, &g.Protein},
		{c.Carbs, &g.Carbs},
		{c.Fat, &g.Fat},
		{c.Fiber, &g.Fiber},
		{c.Sugar, &g.Sugar},
		{c.Sodium, &g.Sodium},
	}
	changed := false
	for _, f := range fields {
		if f.flag != nil {
			*f.dst = *f.flag
			changed = true
		}
	}
	return changed
}

func (c *SetCmd) Run(ctx *cli.Context) error {
	svc := goals.NewService(ctx.Store)
	bg := context.Background()

	var g models.NutritionGoals
	saved := false

	switch {
	case c.Interactive:
		fm := forms.ProfileFormModel{}
		if err := forms.NewProfileForm(&fm).Run(); err != nil {
			return err
		}
		p, err := fm.Profile()
		if err != nil {
			return err
		}
		if g, err = svc.SaveProfile(bg, p); err != nil {
			return err
		}
		saved = true
	case c.hasProfileFlags():
		stored, _ := svc.Profile(bg)
		p := c.profile(stored)
		var err error
		if g, err = svc.SaveProfile(bg, p); err != nil {
			return fmt.Errorf("%w (pass --age, --sex, --height, --weight, --activity and --goal)", err)
		}
		saved = true
	default:
		g, _ = svc.Goals(bg)
	}

	if c.overrides(&g) {
		if g.NutritionValues != g.Sanitized() {
			return fmt.Errorf("targets must not be negative")
		}
		if err := svc.SetGoals(bg, g); err != nil {
			return err
		}
		saved = true
	}

	if !saved {
		ctx.Println("No changes specified. Use --interactive, profile flags or target flags.")
		return nil
	}
	ctx.Println("✓ Daily goals updated:")
	printGoals(ctx, g)
	return nil
}

type ResetCmd struct {
	Yes bool `help:"Do not ask for confirmation." short:"y"`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		ok, err := ctx.Confirm("Forget your profile and daily goals?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Reset cancelled.")
			return nil
		}
	}
	if err := goals.NewService(ctx.Store).Reset(context.Background()); err != nil {
		return err
	}
	ctx.Println("✓ Profile and goals removed.")
	return nil
}

package menus

import (
	"fmt"
	"strings"

	"github.com/Naimy441/nutriuni/internal/app"
	"github.com/Naimy441/nutriuni/internal/catalog"
	"github.com/Naimy441/nutriuni/internal/cli"
	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/utils"
)

// openCatalog reads the menus without starting the log store.
func openCatalog(ctx *cli.Context) (*catalog.Catalog, error) {
	settings, err := ctx.Settings()
	if err != nil {
		return nil, err
	}
	return app.OpenCatalog(settings.MenuDir), nil
}

func describe(item models.MenuItem) string {
	v := item.Values()
	parts := []string{
		utils.FormatCalories(v.Calories),
		utils.FormatGrams(v.Protein) + " protein",
		utils.FormatGrams(v.Carbs) + " carbs",
		utils.FormatGrams(v.Fat) + " fat",
	}
	if item.Nutrition.ServingSize != "" {
		parts = append(parts, item.Nutrition.ServingSize)
	}
	if item.IsHalal {
		parts = append(parts, "halal")
	}
	return strings.Join(parts, ", ")
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	cat, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	names, err := cat.Restaurants()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		ctx.Println("No menus found.")
		return nil
	}
	ctx.Println("Restaurants:")
	for _, name := range names {
		ctx.Printf("  %s\n", name)
	}
	return nil
}

type ShowCmd struct {
	Restaurant string `arg:"" help:"Restaurant name."`
	HalalOnly  bool   `help:"Only list halal items." name:"halal"`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	cat, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	name, err := cat.Name(c.Restaurant)
	if err != nil {
		return err
	}
	items, err := cat.Menu(c.Restaurant)
	if err != nil {
		return err
	}

	ctx.Printf("%s:\n", name)
	shown := 0
	for _, item := range items {
		if c.HalalOnly && !item.IsHalal {
			continue
		}
		ctx.Printf("  %s - %s\n", item.Name, describe(item))
		shown++
	}
	if shown == 0 {
		ctx.Println("  No items.")
	}
	return nil
}

type SearchCmd struct {
	Query string `arg:"" help:"Part of an item name."`
	Limit int    `help:"Maximum number of results (0 for all)." default:"20"`
}

func (c *SearchCmd) Run(ctx *cli.Context) error {
	if strings.TrimSpace(c.Query) == "" {
		return fmt.Errorf("search query cannot be empty")
	}
	cat, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	matches, err := cat.Search(c.Query, c.Limit)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		ctx.Printf("No items match %q.\n", c.Query)
		return nil
	}
	for _, m := range matches {
		ctx.Printf("  %s / %s - %s\n", m.Restaurant, m.Item.Name, describe(m.Item))
	}
	return nil
}

package quick

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Naimy441/nutriuni/internal/cli"
	"github.com/Naimy441/nutriuni/internal/constants"
	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/utils"
)

// resolve finds an entry by its 1-based list position or by id (prefix).
func resolve(entries []models.QuickAccessEntry, ref string) (models.QuickAccessEntry, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(entries) {
			return models.QuickAccessEntry{}, fmt.Errorf("no quick-access entry #%d (have %d)", n, len(entries))
		}
		return entries[n-1], nil
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	id, err := cli.MatchID(ids, ref)
	if err != nil {
		return models.QuickAccessEntry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return models.QuickAccessEntry{}, fmt.Errorf("no quick-access entry with id %q", ref)
}

type ListCmd struct {
	Type    string `help:"Only show one kind of entry." enum:"all,custom,restaurant" default:"all"`
	ShowIDs bool   `help:"Show entry IDs." name:"show-ids"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App(context.Background())
	if err != nil {
		return err
	}
	bg := context.Background()

	var entries []models.QuickAccessEntry
	switch constants.QuickAccessType(c.Type) {
	case constants.QuickAccessCustom:
		entries = a.Quick.CustomMeals(bg)
	case constants.QuickAccessRestaurant:
		entries = a.Quick.RecentRestaurantItems(bg)
	default:
		entries = a.Quick.Entries(bg)
	}

	if len(entries) == 0 {
		ctx.Println("No quick-access items yet. Items you log show up here.")
		return nil
	}

	// positions always refer to the full list so 'quick add N' stays unambiguous
	all := a.Quick.Entries(bg)
	pos := make(map[string]int, len(all))
	for i, e := range all {
		pos[e.ID] = i + 1
	}

	ctx.Printf("Quick access (%d of %d):\n", len(entries), a.Quick.Capacity())
	for _, e := range entries {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", e.ID)
		}
		source := e.Restaurant
		if e.Type == constants.QuickAccessCustom {
			source = "custom meal"
		}
		last := time.UnixMilli(e.LastUsedAt).In(a.Location).Format("Jan 2 " + constants.TimeFormat)
		ctx.Printf("  %2d. %s%s - %s [%s] used %dx, last %s\n",
			pos[e.ID], e.Name, idStr, utils.FormatCalories(e.Calories), source, e.UseCount, last)
	}
	return nil
}

type AddCmd struct {
	Ref string `arg:"" help:"List position or ID of the entry to log again."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App(context.Background())
	if err != nil {
		return err
	}
	bg := context.Background()

	entry, err := resolve(a.Quick.Entries(bg), c.Ref)
	if err != nil {
		return err
	}
	tracked, err := a.Logs.AddTrackedCopy(bg, entry)
	if err != nil {
		return fmt.Errorf("failed to log item: %w", err)
	}
	ctx.Printf("✓ Logged %s again (%s)\n", tracked.Name, utils.FormatCalories(tracked.Calories))
	return nil
}

type RemoveCmd struct {
	Ref string `arg:"" help:"List position or ID of the entry to forget."`
}

func (c *RemoveCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App(context.Background())
	if err != nil {
		return err
	}
	bg := context.Background()

	entry, err := resolve(a.Quick.Entries(bg), c.Ref)
	if err != nil {
		return err
	}
	if err := a.Quick.Remove(bg, entry.ID); err != nil {
		return err
	}
	ctx.Printf("✓ Removed %s from quick access\n", entry.Name)
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
	if !c.Yes {
		ok, err := ctx.Confirm("Forget every quick-access item?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Clear cancelled.")
			return nil
		}
	}
	if err := a.Quick.ClearAll(context.Background()); err != nil {
		return err
	}
	ctx.Println("✓ Quick access cleared.")
	return nil
}

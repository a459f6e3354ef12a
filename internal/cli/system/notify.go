package system

import (
	"context"
	"errors"
	"fmt"

	"github.com/Naimy441/nutriuni/internal/app"
	"github.com/Naimy441/nutriuni/internal/cli"
	"github.com/Naimy441/nutriuni/internal/dailylog"
	"github.com/Naimy441/nutriuni/internal/goals"
	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/notifier"
	"github.com/Naimy441/nutriuni/internal/storage"
	"github.com/Naimy441/nutriuni/internal/utils"
)

// NotifyCmd resends a day's summary to the tray app. Rollover sends it on its
// own; this is for schedulers and for testing the tray connection.
type NotifyCmd struct {
	Date    string `arg:"" optional:"" help:"Day to summarize (YYYY-MM-DD). Defaults to yesterday."`
	Message string `help:"Send this text instead of a day summary."`
	DryRun  bool   `help:"Print the notification instead of sending it."`
}

func (c *NotifyCmd) text(ctx *cli.Context) (string, error) {
	if c.Message != "" {
		return c.Message, nil
	}

	settings, err := ctx.Settings()
	if err != nil {
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return "", fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}

	date := c.Date
	if date == "" {
		date = utils.DateString(ctx.Now().AddDate(0, 0, -1), loc)
	}
	if !utils.ValidateDate(date) {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", date)
	}

	bg := context.Background()
	log := models.NewDailyLog(date)
	if err := storage.GetJSON(bg, ctx.Store, dailylog.Key(date), &log); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return "", fmt.Errorf("failed to read log for %s: %w", date, err)
	}
	log.Recalculate()

	var target *models.NutritionGoals
	if g, ok := goals.NewService(ctx.Store).Goals(bg); ok {
		target = &g
	}
	return notifier.DaySummary(log, target), nil
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	text, err := c.text(ctx)
	if err != nil {
		return err
	}

	if c.DryRun {
		ctx.Printf("[DRY RUN] Would send: %s\n", text)
		return nil
	}

	var n app.Notifier = ctx.Notifier
	if n == nil {
		n = notifier.New()
	}
	if err := n.Notify(context.Background(), text); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	ctx.Printf("✓ Sent: %s\n", text)
	return nil
}

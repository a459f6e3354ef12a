package system

import (
	"context"

	"github.com/Naimy441/nutriuni/internal/cli"
	"github.com/Naimy441/nutriuni/internal/logger"
	"github.com/Naimy441/nutriuni/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App(context.Background())
	if err != nil {
		return err
	}

	logger.Info("Starting TUI", "date", a.Logs.CurrentDate())
	return tui.Run(a)
}

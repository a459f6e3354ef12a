package system

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Naimy441/nutriuni/internal/cli"
	"github.com/Naimy441/nutriuni/internal/dailylog"
	"github.com/Naimy441/nutriuni/internal/storage"
	"github.com/Naimy441/nutriuni/internal/utils"
)

type DebugCmd struct {
	DBPath  *DebugDBPathCmd  `cmd:"" help:"Show database path."`
	Keys    *DebugKeysCmd    `cmd:"" help:"List stored keys."`
	Dump    *DebugDumpCmd    `cmd:"" help:"Dump the value stored under a key."`
	DumpLog *DebugDumpLogCmd `cmd:"" help:"Dump a day's log as JSON."`
}

// printJSON writes v as indented JSON.
func printJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{
		"path":     ctx.Store.GetConfigPath(),
		"settings": ctx.SettingsFile(),
	})
}

type DebugKeysCmd struct {
	Prefix string `arg:"" optional:"" help:"Only list keys starting with this prefix."`
}

func (cmd *DebugKeysCmd) Run(ctx *cli.Context) error {
	keys, err := storage.KeysWithPrefix(context.Background(), ctx.Store, cmd.Prefix)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	for _, k := range keys {
		ctx.Println(k)
	}
	return nil
}

// dump prints a stored value, indenting it when it holds JSON.
func dump(ctx *cli.Context, key string) error {
	raw, err := ctx.Store.Get(context.Background(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no value stored under %q", key)
		}
		return fmt.Errorf("failed to read %s: %w", key, err)
	}

	var buf bytes.Buffer
	if json.Indent(&buf, []byte(raw), "", "  ") == nil {
		ctx.Println(buf.String())
		return nil
	}
	ctx.Println(raw)
	return nil
}

type DebugDumpCmd struct {
	Key string `arg:"" help:"Storage key to dump."`
}

func (cmd *DebugDumpCmd) Run(ctx *cli.Context) error {
	return dump(ctx, cmd.Key)
}

type DebugDumpLogCmd struct {
	Date string `arg:"" help:"Date of the log to dump (YYYY-MM-DD or 'today')."`
}

func (cmd *DebugDumpLogCmd) Run(ctx *cli.Context) error {
	date := cmd.Date
	if date == "today" {
		settings, err := ctx.Settings()
		if err != nil {
			return err
		}
		loc, err := utils.LoadLocation(settings.Timezone)
		if err != nil {
			return err
		}
		date = utils.DateString(ctx.Now(), loc)
	}
	if !utils.ValidateDate(date) {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD or 'today')", date)
	}
	return dump(ctx, dailylog.Key(date))
}

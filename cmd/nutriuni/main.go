package main

import (
	"github.com/alecthomas/kong"

	"github.com/Naimy441/nutriuni/internal/cli"
	"github.com/Naimy441/nutriuni/internal/cli/backups"
	"github.com/Naimy441/nutriuni/internal/cli/days"
	"github.com/Naimy441/nutriuni/internal/cli/meals"
	"github.com/Naimy441/nutriuni/internal/cli/menus"
	"github.com/Naimy441/nutriuni/internal/cli/quick"
	"github.com/Naimy441/nutriuni/internal/cli/settings"
	"github.com/Naimy441/nutriuni/internal/cli/system"
	"github.com/Naimy441/nutriuni/internal/cli/targets"
	"github.com/Naimy441/nutriuni/internal/constants"
	"github.com/Naimy441/nutriuni/internal/errors"
	"github.com/Naimy441/nutriuni/internal/keyring"
	"github.com/Naimy441/nutriuni/internal/logger"
)

var CLI struct {
	Version      kong.VersionFlag
	Config       string `help:"Database path, 'json:<path>', 'memory:' or a PostgreSQL connection string. PostgreSQL passwords belong in the OS keyring, ${env}, or .pgpass." type:"string"`
	SettingsFile string `help:"Settings file (defaults to settings.yaml next to the database)." type:"path" name:"settings"`
	LogDebug     bool   `help:"Log debug output to stderr and the log file." name:"debug"`

	Init    system.InitCmd    `cmd:"" help:"Initialize nutriuni storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`

	Today  meals.TodayCmd  `cmd:"" help:"Show today's log and totals."`
	Add    meals.AddCmd    `cmd:"" help:"Log a restaurant menu item."`
	Custom meals.CustomCmd `cmd:"" help:"Log a custom meal."`
	Remove meals.RemoveCmd `cmd:"" help:"Remove an item from today's log."`
	Clear  meals.ClearCmd  `cmd:"" help:"Clear today's log."`

	History days.HistoryCmd `cmd:"" help:"Show past days."`
	Day     days.DayCmd     `cmd:"" help:"Show one day's log."`

	Quick struct {
		List   quick.ListCmd   `cmd:"" help:"List recently logged items." default:"1"`
		Add    quick.AddCmd    `cmd:"" help:"Log a quick-access item again."`
		Remove quick.RemoveCmd `cmd:"" help:"Remove a quick-access item."`
		Clear  quick.ClearCmd  `cmd:"" help:"Forget every quick-access item."`
	} `cmd:"" help:"Quick access to recently logged items."`

	Menu struct {
		List   menus.ListCmd   `cmd:"" help:"List restaurants." default:"1"`
		Show   menus.ShowCmd   `cmd:"" help:"Show a restaurant's menu."`
		Search menus.SearchCmd `cmd:"" help:"Search menus by item name."`
	} `cmd:"" help:"Browse restaurant menus."`

	Goals struct {
		Show  targets.ShowCmd  `cmd:"" help:"Show daily goals." default:"1"`
		Set   targets.SetCmd   `cmd:"" help:"Set daily goals from a profile."`
		Reset targets.ResetCmd `cmd:"" help:"Delete the profile and goals."`
	} `cmd:"" help:"Manage daily nutrition goals."`

	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`

	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`

	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Report keyring availability." default:"1"`
	} `cmd:"" help:"Manage the database connection stored in the OS keyring."`

	Debug  system.DebugCmd  `cmd:"" help:"Debug commands for troubleshooting."`
	Notify system.NotifyCmd `cmd:"" hidden:"" help:"Send a day's summary to the tray app (used internally)."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Campus dining nutrition tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"env":     constants.DBConnectionEnv,
		},
	)

	location, src := keyring.ResolveConnectionString(CLI.Config)
	if location == "" {
		location = constants.DefaultConfigPath
	}

	store, err := cli.OpenStore(location, src)
	errors.Fatal(err)

	appCtx := &cli.Context{
		Store:        store,
		SettingsPath: CLI.SettingsFile,
	}

	command := kctx.Command()
	if err := logger.Init(logger.Config{
		Debug:     CLI.LogDebug,
		ConfigDir: appCtx.ConfigDir(),
		Quiet:     command == "tui",
	}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}
	logger.Debug("Resolved storage", "source", string(src), "command", command)

	// init creates or replaces the store itself
	if kctx.Selected() != nil && kctx.Selected().Name != "init" {
		if err := store.Load(); err != nil {
			errors.Fatal(errors.WithHint(err, "run 'nutriuni init' to create the database"))
		}
	}

	err = kctx.Run(appCtx)
	appCtx.Close()
	if cerr := store.Close(); cerr != nil {
		logger.Warn("Failed to close storage", "error", cerr)
	}
	errors.Fatal(err)
}

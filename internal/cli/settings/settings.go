package settings

import (
	"fmt"
	"strconv"

	"github.com/Naimy441/nutriuni/internal/cli"
	"github.com/Naimy441/nutriuni/internal/config"
	"github.com/Naimy441/nutriuni/internal/constants"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone            *string `help:"IANA timezone used to decide when a day ends (or 'Local')."`
	QuickAccessCapacity *int    `help:"How many quick-access items to keep."`
	AutoBackup          *bool   `help:"Back up the database when the day rolls over."`
	TrayNotifications   *bool   `help:"Send the finished day's totals to the tray app."`
	MenuDir             *string `help:"Directory of restaurant menus (empty for the bundled ones)."`
}

// changes maps every flag that was given to its settings file key.
func (c *SettingsCmd) changes() map[string]string {
	out := make(map[string]string)
	if c.Timezone != nil {
		out[constants.SettingTimezone] = *c.Timezone
	}
	if c.QuickAccessCapacity != nil {
		out[constants.SettingQuickAccessCapacity] = strconv.Itoa(*c.QuickAccessCapacity)
	}
	if c.AutoBackup != nil {
		out[constants.SettingAutoBackup] = strconv.FormatBool(*c.AutoBackup)
	}
	if c.TrayNotifications != nil {
		out[constants.SettingTrayNotifications] = strconv.FormatBool(*c.TrayNotifications)
	}
	if c.MenuDir != nil {
		out[constants.SettingMenuDir] = cli.ExpandPath(*c.MenuDir)
	}
	return out
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		menuDir := settings.MenuDir
		if menuDir == "" {
			menuDir = "(bundled menus)"
		}
		ctx.Println("Current Settings:")
		ctx.Printf("  Timezone:              %s\n", settings.Timezone)
		ctx.Printf("  Quick Access Capacity: %d\n", settings.QuickAccessCapacity)
		ctx.Printf("  Menu Directory:        %s\n", menuDir)
		ctx.Println("\nRollover Settings:")
		ctx.Printf("  Auto Backup:           %v\n", settings.AutoBackup)
		ctx.Printf("  Tray Notifications:    %v\n", settings.TrayNotifications)
		ctx.Printf("\nSettings file: %s\n", ctx.SettingsFile())
		return nil
	}

	changes := c.changes()
	if len(changes) == 0 {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	for key, value := range changes {
		if settings, err = config.Set(settings, key, value); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}
	if err := config.Save(ctx.SettingsFile(), settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Settings updated successfully.")
	return nil
}

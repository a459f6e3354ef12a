package system

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Naimy441/nutriuni/internal/cli"
	"github.com/Naimy441/nutriuni/internal/constants"
	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/storage"
	"github.com/Naimy441/nutriuni/internal/utils"
)

type DoctorCmd struct{}

type healthCheck struct {
	name string
	fn   func(*cli.Context) error
	// needsDB checks are skipped when the database is unreachable
	needsDB bool
	// warnOnly failures print a warning without failing the run
	warnOnly bool
}

var healthChecks = []healthCheck{
	{name: "Schema version", fn: checkSchemaVersion, needsDB: true},
	{name: "Migrations complete", fn: checkMigrationsComplete, needsDB: true},
	{name: "Backups present", fn: checkBackupsPresent, warnOnly: true},
	{name: "Clock/timezone", fn: checkClockTimezone},
	{name: "Daily log integrity", fn: checkDailyLogs, needsDB: true},
	{name: "Quick access integrity", fn: checkQuickAccess, needsDB: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true

	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
	}

	for _, check := range healthChecks {
		if check.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", check.name)
			continue
		}
		err := check.fn(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", check.name)
		case check.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", check.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", check.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if _, err := ctx.Store.ListKeys(context.Background()); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func schemaVersion(ctx *cli.Context) (current, latest int, ok bool, err error) {
	m, isMigrator := ctx.Store.(storage.Migrator)
	if !isMigrator {
		return 0, 0, false, nil
	}
	current, latest, err = m.SchemaVersion()
	if err != nil {
		return 0, 0, true, fmt.Errorf("failed to get schema version: %w", err)
	}
	return current, latest, true, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersion(ctx)
	if err != nil || !ok {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersion(ctx)
	if err != nil || !ok {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'nutriuni migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr, ok := ctx.BackupManager()
	if !ok {
		return fmt.Errorf("backups are only supported for SQLite storage")
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'nutriuni backup create'")
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	if _, err := utils.LoadLocation(settings.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}

	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format("2006-01-02T15:04:05Z07:00"))
	}
	return nil
}

// totalsMatch tolerates float drift from summing in a different order.
func totalsMatch(a, b models.NutritionValues) bool {
	const eps = 0.01
	pairs := [][2]float64{
		{a.Calories, b.Calories}, {a.Protein, b.Protein}, {a.Carbs, b.Carbs}, {a.Fat, b.Fat},
		{a.Fiber, b.Fiber}, {a.Sugar, b.Sugar}, {a.Sodium, b.Sodium},
	}
	for _, p := range pairs {
		if math.Abs(p[0]-p[1]) > eps {
			return false
		}
	}
	return true
}

// inspectLog returns every problem found in one stored daily log.
func inspectLog(key, raw string) []string {
	date := strings.TrimPrefix(key, constants.DailyLogKeyPrefix)
	if !utils.ValidateDate(date) {
		return []string{fmt.Sprintf("%s: key does not end in a YYYY-MM-DD date", key)}
	}

	var log models.DailyLog
	if err := json.Unmarshal([]byte(raw), &log); err != nil {
		return []string{fmt.Sprintf("%s: unreadable record: %v", key, err)}
	}

	var problems []string
	if log.Date != date {
		problems = append(problems, fmt.Sprintf("%s: record is dated %q", key, log.Date))
	}
	if !totalsMatch(log.Totals, models.SumItems(log.Items)) {
		problems = append(problems, fmt.Sprintf("%s: totals do not match items", key))
	}
	seen := make(map[string]bool, len(log.Items))
	for _, item := range log.Items {
		if seen[item.ID] {
			problems = append(problems, fmt.Sprintf("%s: duplicate item ID %s", key, item.ID))
		}
		seen[item.ID] = true
	}
	return problems
}

func checkDailyLogs(ctx *cli.Context) error {
	bg := context.Background()
	keys, err := storage.KeysWithPrefix(bg, ctx.Store, constants.DailyLogKeyPrefix)
	if err != nil {
		return fmt.Errorf("failed to list daily logs: %w", err)
	}

	var problems []string
	for _, key := range keys {
		raw, err := ctx.Store.Get(bg, key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		problems = append(problems, inspectLog(key, raw)...)
	}
	if len(problems) > 0 {
		return fmt.Errorf("found %d problem(s):\n   - %s", len(problems), strings.Join(problems, "\n   - "))
	}
	return nil
}

func checkQuickAccess(ctx *cli.Context) error {
	var entries []models.QuickAccessEntry
	err := storage.GetJSON(context.Background(), ctx.Store, constants.QuickAccessKey, &entries)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("unreadable quick access list: %w", err)
	}

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		k := e.Restaurant + "\x00" + e.Name
		if seen[k] {
			return fmt.Errorf("duplicate quick access entry: %s (%s)", e.Name, e.Restaurant)
		}
		seen[k] = true
	}
	return nil
}

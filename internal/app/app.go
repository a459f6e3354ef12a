// Package app wires the nutrition components together for one process.
package app

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Naimy441/nutriuni/internal/backup"
	"github.com/Naimy441/nutriuni/internal/catalog"
	"github.com/Naimy441/nutriuni/internal/clock"
	"github.com/Naimy441/nutriuni/internal/dailylog"
	"github.com/Naimy441/nutriuni/internal/goals"
	"github.com/Naimy441/nutriuni/internal/history"
	"github.com/Naimy441/nutriuni/internal/logger"
	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/notifier"
	"github.com/Naimy441/nutriuni/internal/quickaccess"
	"github.com/Naimy441/nutriuni/internal/storage"
	"github.com/Naimy441/nutriuni/internal/utils"
)

const notifyTimeout = 3 * time.Second

// Notifier delivers a finished day's summary somewhere the user will see it.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

type Options struct {
	// KV must already be initialized or loaded.
	KV       storage.Provider
	Settings models.Settings
	Clock    clock.Clock

	// Catalog defaults to Settings.MenuDir or the bundled menus.
	Catalog *catalog.Catalog
	// Backup is nil for backends that cannot be snapshotted.
	Backup   *backup.Manager
	Notifier Notifier
}

// App owns every stateful component. Create one per process and Close it on exit.
type App struct {
	KV        storage.Provider
	Settings  models.Settings
	Location  *time.Location
	Clock     clock.Clock
	Lifecycle *clock.Lifecycle

	Logs    *dailylog.Store
	Quick   *quickaccess.Index
	History *history.Reader
	Catalog *catalog.Catalog
	Goals   *goals.Service

	backup   *backup.Manager
	notifier Notifier

	closeOnce sync.Once
	unsubs    []func()
}

// OpenCatalog returns the menus in dir, or the bundled ones when dir is empty.
func OpenCatalog(dir string) *catalog.Catalog {
	if dir == "" {
		return catalog.Bundled()
	}
	return catalog.New(os.DirFS(dir))
}

func New(opts Options) (*App, error) {
	if opts.KV == nil {
		return nil, fmt.Errorf("app: storage is required")
	}
	models.ApplyDefaultSettings(&opts.Settings)
	loc, err := utils.LoadLocation(opts.Settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", opts.Settings.Timezone, err)
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Catalog == nil {
		opts.Catalog = OpenCatalog(opts.Settings.MenuDir)
	}

	a := &App{
		KV:        opts.KV,
		Settings:  opts.Settings,
		Location:  loc,
		Clock:     opts.Clock,
		Lifecycle: clock.NewLifecycle(),
		Catalog:   opts.Catalog,
		Goals:     goals.NewService(opts.KV),
		backup:    opts.Backup,
		notifier:  opts.Notifier,
	}
	a.Quick = quickaccess.New(opts.KV,
		quickaccess.WithClock(opts.Clock),
		quickaccess.WithCapacity(opts.Settings.QuickAccessCapacity),
	)
	a.Logs = dailylog.New(opts.KV,
		dailylog.WithClock(opts.Clock),
		dailylog.WithLocation(loc),
		dailylog.WithLifecycle(a.Lifecycle),
		dailylog.WithRecorder(a.Quick),
	)
	a.History = history.New(a.Logs, history.WithClock(opts.Clock), history.WithLocation(loc))

	a.unsubs = append(a.unsubs, a.Logs.OnDateChange(a.onDateChange))
	return a, nil
}

// Start runs the startup rollover check and arms the midnight timer.
func (a *App) Start(ctx context.Context) error {
	return a.Logs.Start(ctx)
}

// Close records the background timestamp so the next run can detect a
// rollover that happened in between, then stops every timer.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.Lifecycle.Emit(clock.Background)
		for _, unsub := range a.unsubs {
			unsub()
		}
		a.Logs.Dispose()
	})
}

// onDateChange runs the side effects of a finished day.
func (a *App) onDateChange(c dailylog.DateChange) {
	if a.backup != nil && a.Settings.AutoBackup {
		a.backup.AutoBackup("rollover " + c.Previous)
	}
	if a.notifier != nil && a.Settings.TrayNotifications {
		a.notifyDay(c.Previous)
	}
}

func (a *App) notifyDay(date string) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	log, found := a.Logs.GetLog(ctx, date)
	if !found {
		return
	}
	var target *models.NutritionGoals
	if g, ok := a.Goals.Goals(ctx); ok {
		target = &g
	}
	if err := a.notifier.Notify(ctx, notifier.DaySummary(log, target)); err != nil {
		logger.Debug("Day summary not delivered", "date", date, "error", err)
	}
}

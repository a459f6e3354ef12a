package system

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naimy441/nutriuni/internal/cli"
	"github.com/Naimy441/nutriuni/internal/clock"
	"github.com/Naimy441/nutriuni/internal/config"
	"github.com/Naimy441/nutriuni/internal/dailylog"
	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/storage"
	"github.com/Naimy441/nutriuni/internal/storage/memory"
)

type recordingNotifier struct {
	sent []string
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, text string) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, text)
	return nil
}

func notifyContext(t *testing.T) (*cli.Context, *recordingNotifier, *bytes.Buffer) {
	t.Helper()
	t.Setenv(config.TimezoneEnv, "UTC")
	rec := &recordingNotifier{}
	out := &bytes.Buffer{}
	return &cli.Context{
		Store:        memory.NewStore(),
		SettingsPath: filepath.Join(t.TempDir(), "settings.yaml"),
		Clock:        clock.NewFake(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)),
		Out:          out,
		Notifier:     rec,
	}, rec, out
}

func seedLog(t *testing.T, store storage.Provider, date string, items ...models.TrackedItem) {
	t.Helper()
	log := models.NewDailyLog(date)
	log.Items = append(log.Items, items...)
	log.Recalculate()
	require.NoError(t, storage.SetJSON(context.Background(), store, dailylog.Key(date), log))
}

func TestNotifyCmd_SummarizesYesterday(t *testing.T) {
	ctx, rec, out := notifyContext(t)
	seedLog(t, ctx.Store, "2024-03-09",
		models.TrackedItem{ID: "a", Name: "Bowl", Restaurant: "Grill", NutritionValues: models.NutritionValues{Calories: 700, Protein: 40}},
		models.TrackedItem{ID: "b", Name: "Shake", Restaurant: "Grill", NutritionValues: models.NutritionValues{Calories: 300, Protein: 20}},
	)

	require.NoError(t, (&NotifyCmd{}).Run(ctx))
	require.Len(t, rec.sent, 1)
	assert.Equal(t, "2024-03-09: 2 items, 1,000 kcal, 60 g protein", rec.sent[0])
	assert.Contains(t, out.String(), "✓ Sent:")
}

func TestNotifyCmd_ExplicitDateWithNothingLogged(t *testing.T) {
	ctx, rec, _ := notifyContext(t)

	require.NoError(t, (&NotifyCmd{Date: "2024-01-01"}).Run(ctx))
	require.Len(t, rec.sent, 1)
	assert.Equal(t, "2024-01-01: nothing logged", rec.sent[0])
}

func TestNotifyCmd_DryRun(t *testing.T) {
	ctx, rec, out := notifyContext(t)

	require.NoError(t, (&NotifyCmd{Message: "hello", DryRun: true}).Run(ctx))
	assert.Empty(t, rec.sent)
	assert.Contains(t, out.String(), "[DRY RUN] Would send: hello")
}

func TestNotifyCmd_Errors(t *testing.T) {
	ctx, rec, _ := notifyContext(t)

	assert.Error(t, (&NotifyCmd{Date: "03/09/2024"}).Run(ctx))

	rec.err = errors.New("tray app not running")
	err := (&NotifyCmd{Message: "hello"}).Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tray app not running")
}

package backup

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naimy441/nutriuni/internal/clock"
	"github.com/Naimy441/nutriuni/internal/dailylog"
	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/storage/sqlite"
)

// TestBackupRestoreWorkflow logs food, backs up, clears the day and restores it.
func TestBackupRestoreWorkflow(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nutriuni.db")
	fc := clock.NewFake(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))

	kv := sqlite.NewStore(dbPath)
	require.NoError(t, kv.Init())
	logs := dailylog.New(kv, dailylog.WithClock(fc), dailylog.WithLocation(time.UTC))

	_, err := logs.AddCustomMeal(ctx, models.CustomMeal{
		Name:            "Oatmeal",
		NutritionValues: models.NutritionValues{Calories: 300, Protein: 10},
	})
	require.NoError(t, err)

	mgr := NewManager(dbPath, WithClock(fc))
	snapshot, err := mgr.Create()
	require.NoError(t, err)

	require.NoError(t, logs.ClearToday(ctx))
	assert.True(t, logs.GetTodaysLog(ctx).IsEmpty())
	require.NoError(t, kv.Close())

	fc.Advance(time.Minute)
	safety, err := mgr.Restore(snapshot)
	require.NoError(t, err)
	assert.FileExists(t, safety)

	days, err := LoggedDays(safety)
	require.NoError(t, err)
	assert.Zero(t, days, "the pre-restore snapshot holds the cleared day")

	reopened := sqlite.NewStore(dbPath)
	require.NoError(t, reopened.Load())
	defer reopened.Close()

	restored := dailylog.New(reopened, dailylog.WithClock(fc), dailylog.WithLocation(time.UTC))
	log := restored.GetTodaysLog(ctx)
	require.Len(t, log.Items, 1)
	assert.Equal(t, "Oatmeal", log.Items[0].Name)
	assert.Equal(t, 300.0, log.Totals.Calories)

	backups, err := mgr.List()
	require.NoError(t, err)
	assert.Len(t, backups, 2)
}

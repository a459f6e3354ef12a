package system

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naimy441/nutriuni/internal/cli"
	"github.com/Naimy441/nutriuni/internal/config"
	"github.com/Naimy441/nutriuni/internal/constants"
	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/storage/memory"
	"github.com/Naimy441/nutriuni/internal/storage/sqlite"
)

func setupTestDoctorDB(t *testing.T) (*cli.Context, *sqlite.Store, *bytes.Buffer) {
	t.Helper()
	t.Setenv(config.TimezoneEnv, "UTC")
	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "nutriuni.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{
		Store:        store,
		SettingsPath: filepath.Join(dir, "settings.yaml"),
		Out:          out,
	}, store, out
}

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, _, out := setupTestDoctorDB(t)
	seedLog(t, ctx.Store, "2024-03-09", models.TrackedItem{ID: "a", Name: "Bowl", NutritionValues: models.NutritionValues{Calories: 500}})

	require.NoError(t, (&DoctorCmd{}).Run(ctx))
	got := out.String()
	assert.Contains(t, got, "✓ Database reachable: OK")
	assert.Contains(t, got, "✓ Migrations complete: OK")
	assert.Contains(t, got, "✓ Daily log integrity: OK")
	// missing backups only warn
	assert.Contains(t, got, "⚠ Backups present: WARNING")
	assert.Contains(t, got, "All diagnostics passed!")
}

func TestDoctorCmd_WithBackups(t *testing.T) {
	ctx, _, out := setupTestDoctorDB(t)
	mgr, ok := ctx.BackupManager()
	require.True(t, ok)
	_, err := mgr.Create()
	require.NoError(t, err)

	require.NoError(t, (&DoctorCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "✓ Backups present: OK")
}

func TestDoctorCmd_IncompleteMigrations(t *testing.T) {
	ctx, store, out := setupTestDoctorDB(t)
	_, err := store.GetDB().Exec("UPDATE schema_version SET version = 1")
	require.NoError(t, err)

	require.Error(t, (&DoctorCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "❌ Migrations complete: FAIL")

	out.Reset()
	require.NoError(t, (&MigrateCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Successfully applied 1 migration(s).")

	out.Reset()
	require.NoError(t, (&MigrateCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Database is up to date.")
}

func TestMigrateCmd_RequiresSQLStorage(t *testing.T) {
	ctx := &cli.Context{Store: memory.NewStore(), Out: &bytes.Buffer{}}
	assert.Error(t, (&MigrateCmd{}).Run(ctx))
}

func TestDoctorCmd_UnreachableDB(t *testing.T) {
	t.Setenv(config.TimezoneEnv, "UTC")
	store := memory.NewStore()
	store.Fail(memory.OpList, errors.New("connection refused"))
	out := &bytes.Buffer{}
	ctx := &cli.Context{Store: store, SettingsPath: filepath.Join(t.TempDir(), "settings.yaml"), Out: out}

	err := (&DoctorCmd{}).Run(ctx)
	require.Error(t, err)
	got := out.String()
	assert.Contains(t, got, "❌ Database reachable: FAIL")
	assert.Contains(t, got, "⊘ Daily log integrity: SKIPPED")
	assert.Contains(t, got, "✓ Clock/timezone: OK")
}

func TestDoctorCmd_CorruptLog(t *testing.T) {
	ctx, _, out := setupTestDoctorDB(t)
	bad := `{"date":"2024-03-09","items":[{"id":"a","calories":100},{"id":"a","calories":100}],"totals":{"calories":50}}`
	require.NoError(t, ctx.Store.Set(context.Background(), constants.DailyLogKeyPrefix+"2024-03-09", bad))

	require.Error(t, (&DoctorCmd{}).Run(ctx))
	got := out.String()
	assert.Contains(t, got, "❌ Daily log integrity: FAIL")
	assert.Contains(t, got, "totals do not match items")
	assert.Contains(t, got, "duplicate item ID a")
}

func TestDoctorCmd_BadTimezone(t *testing.T) {
	ctx, _, out := setupTestDoctorDB(t)
	t.Setenv(config.TimezoneEnv, "Mars/Base")

	require.Error(t, (&DoctorCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "❌ Clock/timezone: FAIL")
}

func TestInspectLog(t *testing.T) {
	tests := []struct {
		name string
		key  string
		raw  string
		want []string
	}{
		{
			name: "consistent",
			key:  "nutrition_log_2024-03-09",
			raw:  `{"date":"2024-03-09","items":[{"id":"a","calories":100}],"totals":{"calories":100}}`,
		},
		{
			name: "bad key",
			key:  "nutrition_log_yesterday",
			raw:  `{}`,
			want: []string{"nutrition_log_yesterday: key does not end in a YYYY-MM-DD date"},
		},
		{
			name: "wrong date",
			key:  "nutrition_log_2024-03-09",
			raw:  `{"date":"2024-03-08","items":[]}`,
			want: []string{`nutrition_log_2024-03-09: record is dated "2024-03-08"`},
		},
		{
			name: "unreadable",
			key:  "nutrition_log_2024-03-09",
			raw:  `not json`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inspectLog(tt.key, tt.raw)
			if tt.name == "unreadable" {
				require.Len(t, got, 1)
				assert.Contains(t, got[0], "unreadable record")
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckQuickAccess(t *testing.T) {
	ctx, _, _ := setupTestDoctorDB(t)
	assert.NoError(t, checkQuickAccess(ctx), "nothing stored")

	dup := `[{"id":"1","name":"Bowl","restaurant":"Grill"},{"id":"2","name":"Bowl","restaurant":"Grill"}]`
	require.NoError(t, ctx.Store.Set(context.Background(), constants.QuickAccessKey, dup))
	assert.Error(t, checkQuickAccess(ctx))
}

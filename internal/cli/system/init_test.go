package system

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naimy441/nutriuni/internal/cli"
	"github.com/Naimy441/nutriuni/internal/constants"
	"github.com/Naimy441/nutriuni/internal/storage"
	"github.com/Naimy441/nutriuni/internal/storage/memory"
	"github.com/Naimy441/nutriuni/internal/storage/sqlite"
)

func setupTestInitDB(t *testing.T) (*cli.Context, string, *bytes.Buffer) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nutriuni.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Out: out}, dbPath, out
}

func TestInitCmd_Success(t *testing.T) {
	ctx, dbPath, out := setupTestInitDB(t)

	require.NoError(t, (&InitCmd{}).Run(ctx))
	assert.FileExists(t, dbPath)
	assert.Contains(t, out.String(), "Initialized nutriuni storage at: "+dbPath)
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _, _ := setupTestInitDB(t)

	require.NoError(t, (&InitCmd{}).Run(ctx))
	assert.NoError(t, (&InitCmd{}).Run(ctx), "second init should be a no-op")
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	ctx, dbPath, out := setupTestInitDB(t)
	bg := context.Background()

	require.NoError(t, (&InitCmd{}).Run(ctx))
	require.NoError(t, ctx.Store.Set(bg, constants.OnboardingCompleteKey, "true"))

	require.NoError(t, (&InitCmd{Force: true}).Run(ctx))
	assert.Contains(t, out.String(), "Deleted existing database at:")
	assert.FileExists(t, dbPath)

	keys, err := ctx.Store.ListKeys(bg)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestInitCmd_ForceWithNonExistentDatabase(t *testing.T) {
	ctx, dbPath, _ := setupTestInitDB(t)

	require.NoError(t, (&InitCmd{Force: true}).Run(ctx))
	assert.FileExists(t, dbPath)
}

func TestInitCmd_ForceRefusesSameSource(t *testing.T) {
	ctx, dbPath, _ := setupTestInitDB(t)
	require.NoError(t, (&InitCmd{}).Run(ctx))

	err := (&InitCmd{Force: true, Source: dbPath}).Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source and destination are the same")
	_, statErr := os.Stat(dbPath)
	assert.NoError(t, statErr, "database must survive a refused reset")
}

func TestInitCmd_MigratesFromJSONSource(t *testing.T) {
	ctx, _, out := setupTestInitDB(t)
	bg := context.Background()

	srcPath := filepath.Join(t.TempDir(), "export.json")
	src := storage.NewJSONStore(srcPath)
	require.NoError(t, src.Init())
	require.NoError(t, src.Set(bg, constants.DailyLogKeyPrefix+"2024-03-09", `{"date":"2024-03-09","items":[]}`))
	require.NoError(t, src.Set(bg, constants.OnboardingCompleteKey, "true"))
	require.NoError(t, src.Close())

	require.NoError(t, (&InitCmd{Source: "json:" + srcPath}).Run(ctx))
	assert.Contains(t, out.String(), "Migrated 2 records")

	v, err := ctx.Store.Get(bg, constants.OnboardingCompleteKey)
	require.NoError(t, err)
	assert.Equal(t, "true", v)
}

func TestInitCmd_MemoryForceClears(t *testing.T) {
	store := memory.NewStore()
	bg := context.Background()
	require.NoError(t, store.Set(bg, constants.OnboardingCompleteKey, "true"))
	out := &bytes.Buffer{}

	require.NoError(t, (&InitCmd{Force: true}).Run(&cli.Context{Store: store, Out: out}))
	assert.Contains(t, out.String(), "Cleared existing data.")
	keys, err := store.ListKeys(bg)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

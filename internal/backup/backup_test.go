package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naimy441/nutriuni/internal/clock"
	"github.com/Naimy441/nutriuni/internal/constants"
	"github.com/Naimy441/nutriuni/internal/storage/sqlite"
)

// setupTestDB creates an initialized nutriuni database holding the given keys.
func setupTestDB(t *testing.T, keys ...string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nutriuni.db")
	store := sqlite.NewStore(dbPath)
	require.NoError(t, store.Init())
	for _, k := range keys {
		require.NoError(t, store.Set(context.Background(), k, `{"items":[]}`))
	}
	require.NoError(t, store.Close())
	return dbPath
}

func newFakeManager(t *testing.T, dbPath string, opts ...Option) (*Manager, *clock.Fake) {
	t.Helper()
	fc := clock.NewFake(time.Date(2024, 3, 10, 23, 59, 30, 0, time.Local))
	return NewManager(dbPath, append([]Option{WithClock(fc)}, opts...)...), fc
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t, constants.DailyLogKeyPrefix+"2024-03-09", constants.DailyLogKeyPrefix+"2024-03-10", constants.QuickAccessKey)
	mgr, _ := newFakeManager(t, dbPath)

	path, err := mgr.Create()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(mgr.Dir(), "nutriuni-20240310-2359.db"), path)
	assert.FileExists(t, path)

	days, err := LoggedDays(path)
	require.NoError(t, err)
	assert.Equal(t, 2, days)
}

func TestCreateWithoutDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	_, err := mgr.Create()
	assert.Error(t, err)
}

func TestUniqueFilenames(t *testing.T) {
	mgr, _ := newFakeManager(t, setupTestDB(t))

	var names []string
	for i := 0; i < 3; i++ {
		p, err := mgr.Create()
		require.NoError(t, err)
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{
		"nutriuni-20240310-2359.db",
		"nutriuni-20240310-235930.db",
		"nutriuni-20240310-235930-1.db",
	}, names)
}

func TestRotation(t *testing.T) {
	mgr, fc := newFakeManager(t, setupTestDB(t), WithRetention(3))

	var created []string
	for i := 0; i < 5; i++ {
		p, err := mgr.Create()
		require.NoError(t, err)
		created = append(created, p)
		fc.Advance(24 * time.Hour)
	}

	backups, err := mgr.List()
	require.NoError(t, err)
	require.Len(t, backups, 3)
	assert.Equal(t, created[4], backups[0].Path)
	assert.Equal(t, created[2], backups[2].Path)
	assert.NoFileExists(t, created[0])
}

func TestDefaultRetention(t *testing.T) {
	mgr := NewManager("/tmp/x.db")
	assert.Equal(t, constants.MaxBackups, mgr.keep)
	WithRetention(0)(mgr)
	assert.Equal(t, constants.MaxBackups, mgr.keep)
}

func TestListSkipsForeignFiles(t *testing.T) {
	mgr, _ := newFakeManager(t, setupTestDB(t))
	_, err := mgr.Create()
	require.NoError(t, err)

	for _, name := range []string{"notes.txt", "nutriuni-garbage.db", "nutriuni-20240310-2359-x.db"} {
		require.NoError(t, os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(mgr.Dir(), "nutriuni-20240101-0000.db"), 0700))

	backups, err := mgr.List()
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestListWithoutDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "nutriuni.db"))
	backups, err := mgr.List()
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestParseStamp(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
		want time.Time
	}{
		{"nutriuni-20240310-2359.db", true, time.Date(2024, 3, 10, 23, 59, 0, 0, time.Local)},
		{"nutriuni-20240310-235930.db", true, time.Date(2024, 3, 10, 23, 59, 30, 0, time.Local)},
		{"nutriuni-20240310-235930-7.db", true, time.Date(2024, 3, 10, 23, 59, 30, 0, time.Local)},
		{"nutriuni-20240310.db", false, time.Time{}},
		{"other-20240310-2359.db", false, time.Time{}},
		{"nutriuni-20241310-2359.db", false, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseStamp(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v", got)
			}
		})
	}
}

func TestRestoreRejectsInvalidBackup(t *testing.T) {
	mgr, _ := newFakeManager(t, setupTestDB(t))

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	require.NoError(t, os.WriteFile(bogus, []byte("not a database"), 0600))
	_, err := mgr.Restore(bogus)
	assert.Error(t, err)

	_, err = mgr.Restore(filepath.Join(t.TempDir(), "absent.db"))
	assert.Error(t, err)
}

func TestAutoBackupLogsFailure(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	mgr.AutoBackup("test")

	backups, err := mgr.List()
	require.NoError(t, err)
	assert.Empty(t, backups)
}

package menus

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naimy441/nutriuni/internal/cli"
	"github.com/Naimy441/nutriuni/internal/config"
	"github.com/Naimy441/nutriuni/internal/storage/memory"
)

const cafeJSON = `{
  "restaurant": "Campus Cafe",
  "items": [
    {"name": "Bagel", "isHalal": true, "nutrition": {"servingSize": "1 bagel", "calories": 270,
      "nutritionFacts": {"Protein": {"amount": 10, "unit": "g"}, "Total Carbohydrate": {"amount": 53, "unit": "g"}, "Total Fat": {"amount": 1.5, "unit": "g"}}}},
    {"name": "Bacon Sandwich", "isHalal": false, "nutrition": {"calories": "480",
      "nutritionFacts": {"Protein": {"amount": 21, "unit": "g"}}}}
  ]
}`

func setupTestContext(t *testing.T, menuDir string) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	t.Setenv(config.TimezoneEnv, "UTC")

	settingsPath := filepath.Join(t.TempDir(), "settings.yaml")
	if menuDir != "" {
		require.NoError(t, os.WriteFile(settingsPath, []byte("menu_dir: "+menuDir+"\n"), 0600))
	}

	out := &bytes.Buffer{}
	return &cli.Context{
		Store:        memory.NewStore(),
		SettingsPath: settingsPath,
		Out:          out,
	}, out
}

func menuDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "campus-cafe.json"), []byte(cafeJSON), 0600))
	return dir
}

func TestListCmdBundled(t *testing.T) {
	ctx, out := setupTestContext(t, "")
	require.NoError(t, (&ListCmd{}).Run(ctx))
	assert.Equal(t, "Restaurants:\n  Halal Shack\n  Marketplace\n", out.String())
}

func TestListCmdMenuDir(t *testing.T) {
	ctx, out := setupTestContext(t, menuDir(t))
	require.NoError(t, (&ListCmd{}).Run(ctx))
	assert.Equal(t, "Restaurants:\n  Campus Cafe\n", out.String())
}

func TestShowCmd(t *testing.T) {
	ctx, out := setupTestContext(t, menuDir(t))

	require.NoError(t, (&ShowCmd{Restaurant: "campus cafe"}).Run(ctx))
	got := out.String()
	assert.Contains(t, got, "Campus Cafe:")
	assert.Contains(t, got, "Bagel - 270 kcal, 10 g protein, 53 g carbs, 1.5 g fat, 1 bagel, halal")
	assert.Contains(t, got, "Bacon Sandwich - 480 kcal, 21 g protein, 0 g carbs, 0 g fat")

	out.Reset()
	require.NoError(t, (&ShowCmd{Restaurant: "Campus Cafe", HalalOnly: true}).Run(ctx))
	assert.NotContains(t, out.String(), "Bacon")

	assert.Error(t, (&ShowCmd{Restaurant: "Nowhere"}).Run(ctx))
}

func TestSearchCmd(t *testing.T) {
	ctx, out := setupTestContext(t, "")

	require.NoError(t, (&SearchCmd{Query: "chicken", Limit: 20}).Run(ctx))
	got := out.String()
	assert.Contains(t, got, "Halal Shack / Chicken Bowl - 720 kcal")
	assert.Contains(t, got, "Marketplace / Grilled Chicken Breast")

	out.Reset()
	require.NoError(t, (&SearchCmd{Query: "pizza"}).Run(ctx))
	assert.Equal(t, "No items match \"pizza\".\n", out.String())

	assert.Error(t, (&SearchCmd{Query: "  "}).Run(ctx))
}

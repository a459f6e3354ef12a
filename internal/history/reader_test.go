package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naimy441/nutriuni/internal/clock"
	"github.com/Naimy441/nutriuni/internal/dailylog"
	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/storage"
	"github.com/Naimy441/nutriuni/internal/storage/memory"
)

func TestLabel(t *testing.T) {
	now := time.Date(2024, 3, 12, 9, 30, 0, 0, time.UTC)
	tests := []struct {
		date string
		want string
	}{
		{"2024-03-12", "Today"},
		{"2024-03-11", "Yesterday"},
		{"2024-03-10", "Sunday, March 10"},
		{"2023-12-25", "Monday, December 25"},
		{"not-a-date", "not-a-date"},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.date, now))
		})
	}
}

func TestLabelAcrossMonthBoundary(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 5, 0, 0, time.UTC)
	assert.Equal(t, "Yesterday", Label("2024-02-29", now))
}

func TestDayToggle(t *testing.T) {
	d := Day{Log: models.NewDailyLog("2024-03-10")}
	d.Toggle()
	assert.True(t, d.IsExpanded)
	d.Toggle()
	assert.False(t, d.IsExpanded)
}

func seedLog(t *testing.T, kv storage.Provider, date string, calories ...float64) {
	t.Helper()
	log := models.NewDailyLog(date)
	for i, c := range calories {
		log.Items = append(log.Items, models.TrackedItem{
			ID:              date + string(rune('a'+i)),
			Name:            "meal",
			NutritionValues: models.NutritionValues{Calories: c, Protein: c / 10},
		})
	}
	log.Recalculate()
	require.NoError(t, storage.SetJSON(context.Background(), kv, dailylog.Key(date), log))
}

func TestReaderOverDailyLogStore(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()
	fc := clock.NewFake(time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC))

	seedLog(t, kv, "2024-03-12", 400) // today, never listed
	seedLog(t, kv, "2024-03-11", 500, 700)
	seedLog(t, kv, "2024-03-10")
	seedLog(t, kv, "2024-03-08", 1800)

	store := dailylog.New(kv, dailylog.WithClock(fc), dailylog.WithLocation(time.UTC))
	r := New(store, WithClock(fc), WithLocation(time.UTC))

	recent := r.MostRecentDays(ctx, 5)
	require.Len(t, recent, 2)
	assert.Equal(t, "Yesterday", recent[0].Label)
	assert.Equal(t, 1200.0, recent[0].Log.Totals.Calories)
	assert.Equal(t, "Friday, March 8", recent[1].Label)
	assert.False(t, recent[0].IsExpanded)

	all := r.AllHistory(ctx)
	require.Len(t, all, 3)
	assert.Equal(t, "Sunday, March 10", all[1].Label)
	assert.True(t, all[1].Log.IsEmpty())

	week := r.PastDays(ctx, 3)
	require.Len(t, week, 2, "2024-03-08 is outside a three day window")
	assert.Equal(t, "2024-03-11", week[0].Log.Date)
	assert.Equal(t, "2024-03-10", week[1].Log.Date)

	// the reader keeps nothing between calls
	seedLog(t, kv, "2024-03-09", 900)
	assert.Len(t, r.AllHistory(ctx), 4)

	s := Summarize(all)
	assert.Equal(t, 2, s.Days)
	assert.Equal(t, 3000.0, s.Total.Calories)
	assert.Equal(t, 1500.0, s.Average.Calories)
	assert.Equal(t, 150.0, s.Average.Protein)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Days)
	assert.Equal(t, models.NutritionValues{}, s.Average)
}

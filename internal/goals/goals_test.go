package goals

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naimy441/nutriuni/internal/constants"
	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/storage"
	"github.com/Naimy441/nutriuni/internal/storage/memory"
)

func maleProfile() models.UserProfile {
	return models.UserProfile{
		Age:           30,
		Sex:           models.SexMale,
		HeightCm:      180,
		WeightKg:      80,
		ActivityLevel: models.ActivityModerate,
		Goal:          models.GoalMaintain,
	}
}

func TestBMR(t *testing.T) {
	assert.InDelta(t, 1780.0, BMR(maleProfile()), 1e-9)

	female := models.UserProfile{Age: 25, Sex: models.SexFemale, HeightCm: 165, WeightKg: 60}
	assert.InDelta(t, 1345.25, BMR(female), 1e-9)
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name    string
		profile models.UserProfile
		want    models.NutritionValues
	}{
		{
			name:    "moderate maintain",
			profile: maleProfile(),
			want: models.NutritionValues{
				Calories: 2759, Protein: 207, Carbs: 276, Fat: 92, Fiber: 39, Sugar: 69, Sodium: 2300,
			},
		},
		{
			name: "gain adds surplus",
			profile: func() models.UserProfile {
				p := maleProfile()
				p.Goal = models.GoalGain
				return p
			}(),
			want: models.NutritionValues{
				Calories: 3059, Protein: 229, Carbs: 306, Fat: 102, Fiber: 43, Sugar: 76, Sodium: 2300,
			},
		},
		{
			name: "deficit floors at minimum",
			profile: models.UserProfile{
				Age: 25, Sex: models.SexFemale, HeightCm: 165, WeightKg: 60,
				ActivityLevel: models.ActivitySedentary, Goal: models.GoalLose,
			},
			want: models.NutritionValues{
				Calories: 1200, Protein: 90, Carbs: 120, Fat: 40, Fiber: 17, Sugar: 30, Sodium: 2300,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.profile)
			assert.Equal(t, tt.want, got.NutritionValues)
		})
	}
}

func TestCalculateUnknownActivityIsSedentary(t *testing.T) {
	p := maleProfile()
	p.ActivityLevel = "couch"
	sedentary := maleProfile()
	sedentary.ActivityLevel = models.ActivitySedentary

	assert.Equal(t, Calculate(sedentary), Calculate(p))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.UserProfile)
	}{
		{"zero age", func(p *models.UserProfile) { p.Age = 0 }},
		{"negative height", func(p *models.UserProfile) { p.HeightCm = -1 }},
		{"zero weight", func(p *models.UserProfile) { p.WeightKg = 0 }},
		{"bad sex", func(p *models.UserProfile) { p.Sex = "x" }},
		{"bad activity", func(p *models.UserProfile) { p.ActivityLevel = "extreme" }},
		{"bad goal", func(p *models.UserProfile) { p.Goal = "bulk" }},
	}

	require.NoError(t, Validate(maleProfile()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := maleProfile()
			tt.mutate(&p)
			err := Validate(p)
			assert.True(t, errors.Is(err, ErrInvalidProfile), "got %v", err)
		})
	}
}

func TestComputeProgress(t *testing.T) {
	totals := models.NutritionValues{Calories: 1000, Protein: 150, Sodium: 0}
	g := models.NutritionGoals{NutritionValues: models.NutritionValues{Calories: 2000, Protein: 100}}

	rows := ComputeProgress(totals, g)
	require.Len(t, rows, 7)

	assert.Equal(t, "Calories", rows[0].Name)
	assert.Equal(t, 1000.0, rows[0].Remaining)
	assert.Equal(t, 50.0, rows[0].Percent)
	assert.False(t, rows[0].Over())

	assert.Equal(t, -50.0, rows[1].Remaining)
	assert.Equal(t, 150.0, rows[1].Percent)
	assert.True(t, rows[1].Over())

	sodium := rows[6]
	assert.Equal(t, "mg", sodium.Unit)
	assert.Zero(t, sodium.Percent)
	assert.False(t, sodium.Over())
}

func TestServiceSaveProfile(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()
	svc := NewService(kv)

	assert.False(t, svc.OnboardingComplete(ctx))
	_, ok := svc.Goals(ctx)
	assert.False(t, ok)

	g, err := svc.SaveProfile(ctx, maleProfile())
	require.NoError(t, err)
	assert.Equal(t, 2759.0, g.Calories)

	assert.True(t, svc.OnboardingComplete(ctx))
	stored, ok := svc.Goals(ctx)
	require.True(t, ok)
	assert.Equal(t, g, stored)

	p, ok := svc.Profile(ctx)
	require.True(t, ok)
	assert.Equal(t, maleProfile(), p)

	raw, err := kv.Get(ctx, constants.NutritionGoalsKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"calories":2759`)
}

func TestServiceRejectsInvalidProfile(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()
	svc := NewService(kv)

	p := maleProfile()
	p.Age = -3
	_, err := svc.SaveProfile(ctx, p)
	require.Error(t, err)

	keys, err := kv.ListKeys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestServiceSetGoalsSanitizes(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore())

	require.NoError(t, svc.SetGoals(ctx, models.NutritionGoals{
		NutritionValues: models.NutritionValues{Calories: 1800, Protein: -5},
	}))
	g, ok := svc.Goals(ctx)
	require.True(t, ok)
	assert.Equal(t, 1800.0, g.Calories)
	assert.Zero(t, g.Protein)
	assert.False(t, svc.OnboardingComplete(ctx), "manual goals do not complete onboarding")
}

func TestServiceWriteFailure(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()
	kv.Fail(memory.OpSet, errors.New("disk full"))
	svc := NewService(kv)

	_, err := svc.SaveProfile(ctx, maleProfile())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.False(t, svc.OnboardingComplete(ctx))
}

func TestServiceMalformedGoals(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()
	require.NoError(t, kv.Set(ctx, constants.NutritionGoalsKey, "{not json"))

	_, ok := NewService(kv).Goals(ctx)
	assert.False(t, ok)
}

func TestServiceReset(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()
	svc := NewService(kv)
	_, err := svc.SaveProfile(ctx, maleProfile())
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx))
	assert.False(t, svc.OnboardingComplete(ctx))

	keys, err := storage.KeysWithPrefix(ctx, kv, "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

// Package goals derives daily nutrition targets from a user profile and
// persists the onboarding answers.
package goals

import (
	"errors"
	"fmt"
	"math"

	"github.com/Naimy441/nutriuni/internal/models"
)

const (
	MinCalories     = 1200
	SodiumLimitMg   = 2300
	fiberPer1000    = 14
	proteinShare    = 0.30
	carbShare       = 0.40
	fatShare        = 0.30
	sugarShare      = 0.10
	kcalPerGramProt = 4
	kcalPerGramCarb = 4
	kcalPerGramFat  = 9
)

var ErrInvalidProfile = errors.New("invalid profile")

var activityMultipliers = map[models.ActivityLevel]float64{
	models.ActivitySedentary:  1.2,
	models.ActivityLight:      1.375,
	models.ActivityModerate:   1.55,
	models.ActivityActive:     1.725,
	models.ActivityVeryActive: 1.9,
}

var goalAdjustments = map[models.WeightGoal]float64{
	models.GoalLose:     -500,
	models.GoalMaintain: 0,
	models.GoalGain:     300,
}

// Validate checks that p can produce meaningful targets.
func Validate(p models.UserProfile) error {
	switch {
	case p.Age <= 0 || p.Age > 120:
		return fmt.Errorf("%w: age must be between 1 and 120", ErrInvalidProfile)
	case p.HeightCm <= 0:
		return fmt.Errorf("%w: height must be positive", ErrInvalidProfile)
	case p.WeightKg <= 0:
		return fmt.Errorf("%w: weight must be positive", ErrInvalidProfile)
	case p.Sex != models.SexMale && p.Sex != models.SexFemale:
		return fmt.Errorf("%w: sex must be %q or %q", ErrInvalidProfile, models.SexMale, models.SexFemale)
	}
	if _, ok := activityMultipliers[p.ActivityLevel]; !ok {
		return fmt.Errorf("%w: unknown activity level %q", ErrInvalidProfile, p.ActivityLevel)
	}
	if _, ok := goalAdjustments[p.Goal]; !ok {
		return fmt.Errorf("%w: unknown goal %q", ErrInvalidProfile, p.Goal)
	}
	return nil
}

// BMR is the Mifflin-St Jeor basal metabolic rate in kcal/day.
func BMR(p models.UserProfile) float64 {
	bmr := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	if p.Sex == models.SexFemale {
		return bmr - 161
	}
	return bmr + 5
}

// Calculate returns whole-number daily targets for p. Unknown activity levels
// count as sedentary and unknown goals as maintenance.
func Calculate(p models.UserProfile) models.NutritionGoals {
	mult, ok := activityMultipliers[p.ActivityLevel]
	if !ok {
		mult = activityMultipliers[models.ActivitySedentary]
	}

	kcal := math.Round(BMR(p)*mult + goalAdjustments[p.Goal])
	if kcal < MinCalories {
		kcal = MinCalories
	}

	return models.NutritionGoals{
		NutritionValues: models.NutritionValues{
			Calories: kcal,
			Protein:  math.Round(kcal * proteinShare / kcalPerGramProt),
			Carbs:    math.Round(kcal * carbShare / kcalPerGramCarb),
			Fat:      math.Round(kcal * fatShare / kcalPerGramFat),
			Fiber:    math.Round(kcal / 1000 * fiberPer1000),
			Sugar:    math.Round(kcal * sugarShare / kcalPerGramCarb),
			Sodium:   SodiumLimitMg,
		},
	}
}

// Package forms holds the huh forms shared by the TUI and the interactive CLI commands.
package forms

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/Naimy441/nutriuni/internal/goals"
	"github.com/Naimy441/nutriuni/internal/models"
)

// MealFormModel is the string-backed state of the custom-meal form.
type MealFormModel struct {
	Name        string
	ServingSize string
	Calories    string
	Protein     string
	Carbs       string
	Fat         string
	Fiber       string
	Sugar       string
	Sodium      string
}

// ProfileFormModel is the string-backed state of the onboarding form.
type ProfileFormModel struct {
	Age           string
	Sex           models.Sex
	HeightCm      string
	WeightKg      string
	ActivityLevel models.ActivityLevel
	Goal          models.WeightGoal
}

func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return v, nil
}

func validateAmount(s string) error {
	_, err := parseAmount(s)
	return err
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

// Meal converts the form into a custom meal. Empty amounts count as zero.
func (fm *MealFormModel) Meal() (models.CustomMeal, error) {
	name := strings.TrimSpace(fm.Name)
	if name == "" {
		return models.CustomMeal{}, fmt.Errorf("meal name cannot be empty")
	}

	meal := models.CustomMeal{Name: name, ServingSize: strings.TrimSpace(fm.ServingSize)}
	fields := []struct {
		label string
		raw   string
		dst   *float64
	}{
		{"calories", fm.Calories, &meal.Calories},
		{"protein", fm.Protein, &meal.Protein},
		{"carbs", fm.Carbs, &meal.Carbs},
		{"fat", fm.Fat, &meal.Fat},
		{"fiber", fm.Fiber, &meal.Fiber},
		{"sugar", fm.Sugar, &meal.Sugar},
		{"sodium", fm.Sodium, &meal.Sodium},
	}
	for _, f := range fields {
		v, err := parseAmount(f.raw)
		if err != nil {
			return models.CustomMeal{}, fmt.Errorf("%s: %w", f.label, err)
		}
		*f.dst = v
	}
	return meal, nil
}

// ProfileFormFrom prefills the onboarding form from a stored profile.
func ProfileFormFrom(p models.UserProfile) *ProfileFormModel {
	return &ProfileFormModel{
		Age:           strconv.Itoa(p.Age),
		Sex:           p.Sex,
		HeightCm:      strconv.FormatFloat(p.HeightCm, 'f', -1, 64),
		WeightKg:      strconv.FormatFloat(p.WeightKg, 'f', -1, 64),
		ActivityLevel: p.ActivityLevel,
		Goal:          p.Goal,
	}
}

// Profile converts the form into a validated profile.
func (fm *ProfileFormModel) Profile() (models.UserProfile, error) {
	age, err := strconv.Atoi(strings.TrimSpace(fm.Age))
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("age: %q is not a whole number", fm.Age)
	}
	height, err := parseAmount(fm.HeightCm)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("height: %w", err)
	}
	weight, err := parseAmount(fm.WeightKg)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("weight: %w", err)
	}
	p := models.UserProfile{
		Age:           age,
		Sex:           fm.Sex,
		HeightCm:      height,
		WeightKg:      weight,
		ActivityLevel: fm.ActivityLevel,
		Goal:          fm.Goal,
	}
	if err := goals.Validate(p); err != nil {
		return models.UserProfile{}, err
	}
	return p, nil
}

// NewMealForm creates a form for logging a custom meal
func NewMealForm(fm *MealFormModel) *huh.Form {
	amount := func(title string, v *string) *huh.Input {
		return huh.NewInput().
			Title(title).
			Value(v).
			Validate(validateAmount)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Meal Name").
				Value(&fm.Name).
				Validate(validateRequired("meal name")),
			huh.NewInput().
				Title("Serving Size").
				Description("Optional, e.g. 1 bowl").
				Value(&fm.ServingSize),
			amount("Calories (kcal)", &fm.Calories),
		),
		huh.NewGroup(
			amount("Protein (g)", &fm.Protein),
			amount("Carbs (g)", &fm.Carbs),
			amount("Fat (g)", &fm.Fat),
			amount("Fiber (g)", &fm.Fiber),
			amount("Sugar (g)", &fm.Sugar),
			amount("Sodium (mg)", &fm.Sodium),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewProfileForm creates the onboarding form that derives daily goals
func NewProfileForm(fm *ProfileFormModel) *huh.Form {
	if fm.Sex == "" {
		fm.Sex = models.SexMale
	}
	if fm.ActivityLevel == "" {
		fm.ActivityLevel = models.ActivityModerate
	}
	if fm.Goal == "" {
		fm.Goal = models.GoalMaintain
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Age").
				Value(&fm.Age).
				Validate(func(s string) error {
					i, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return err
					}
					if i <= 0 {
						return fmt.Errorf("age must be positive")
					}
					return nil
				}),
			huh.NewSelect[models.Sex]().
				Title("Sex").
				Options(
					huh.NewOption("Male", models.SexMale),
					huh.NewOption("Female", models.SexFemale),
				).
				Value(&fm.Sex),
			huh.NewInput().
				Title("Height (cm)").
				Value(&fm.HeightCm).
				Validate(validateRequired("height")),
			huh.NewInput().
				Title("Weight (kg)").
				Value(&fm.WeightKg).
				Validate(validateRequired("weight")),
		),
		huh.NewGroup(
			huh.NewSelect[models.ActivityLevel]().
				Title("Activity Level").
				Options(
					huh.NewOption("Sedentary", models.ActivitySedentary),
					huh.NewOption("Lightly active", models.ActivityLight),
					huh.NewOption("Moderately active", models.ActivityModerate),
					huh.NewOption("Active", models.ActivityActive),
					huh.NewOption("Very active", models.ActivityVeryActive),
				).
				Value(&fm.ActivityLevel),
			huh.NewSelect[models.WeightGoal]().
				Title("Goal").
				Options(
					huh.NewOption("Lose weight", models.GoalLose),
					huh.NewOption("Maintain", models.GoalMaintain),
					huh.NewOption("Gain weight", models.GoalGain),
				).
				Value(&fm.Goal),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewConfirmForm asks a yes/no question.
func NewConfirmForm(title string, confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}

package models

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

type WeightGoal string

const (
	GoalLose     WeightGoal = "lose"
	GoalMaintain WeightGoal = "maintain"
	GoalGain     WeightGoal = "gain"
)

// UserProfile is collected during onboarding.
type UserProfile struct {
	Age           int           `json:"age"`
	Sex           Sex           `json:"sex"`
	HeightCm      float64       `json:"heightCm"`
	WeightKg      float64       `json:"weightKg"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
	Goal          WeightGoal    `json:"goal"`
}

// NutritionGoals are the daily targets derived from a profile.
type NutritionGoals struct {
	NutritionValues
}

package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexFloat_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "number", input: `230`, want: 230},
		{name: "fractional number", input: `12.5`, want: 12.5},
		{name: "numeric string", input: `"230"`, want: 230},
		{name: "string with unit", input: `"230 kcal"`, want: 230},
		{name: "thousands separator", input: `"1,020"`, want: 1020},
		{name: "null", input: `null`, want: 0},
		{name: "garbage string", input: `"n/a"`, want: 0},
		{name: "wrong type", input: `{"a":1}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexFloat
			require.NoError(t, json.Unmarshal([]byte(tt.input), &f))
			assert.InDelta(t, tt.want, float64(f), 1e-9)
		})
	}
}

func TestMenuItem_DecodeAndValues(t *testing.T) {
	raw := `{
		"name": "Spicy Chicken Sandwich",
		"isHalal": false,
		"nutrition": {
			"servingsPerContainer": "1",
			"servingSize": "1 sandwich",
			"calories": "450",
			"nutritionFacts": {
				"Protein": {"amount": 28, "unit": "g", "dailyValuePercent": null},
				"Total Fat": {"amount": 19, "unit": "g", "dailyValuePercent": 24},
				"Sugars": {"amount": 6, "unit": "g", "dailyValuePercent": null},
				"Sodium": {"amount": 1620, "unit": "mg", "dailyValuePercent": 70}
			}
		}
	}`

	var item MenuItem
	require.NoError(t, json.Unmarshal([]byte(raw), &item))

	values := item.Values()
	assert.Equal(t, 450.0, values.Calories)
	assert.Equal(t, 28.0, values.Protein)
	assert.Equal(t, 19.0, values.Fat)
	assert.Equal(t, 6.0, values.Sugar, "alias key should be honoured")
	assert.Equal(t, 1620.0, values.Sodium)
	assert.Zero(t, values.Carbs, "missing nutrient defaults to zero")
	assert.Zero(t, values.Fiber)
	assert.Equal(t, 1.0, float64(item.Nutrition.ServingsPerContainer))

	require.NotNil(t, item.Nutrition.NutritionFacts[FactFat].DailyValuePercent)
	assert.Nil(t, item.Nutrition.NutritionFacts[FactProtein].DailyValuePercent)
}

func TestMenuItem_NutrientWithoutFacts(t *testing.T) {
	var item MenuItem
	assert.Zero(t, item.Nutrient(FactProtein))
	assert.Equal(t, NutritionValues{}, item.Values())
}

func TestNutritionValues_Sanitized(t *testing.T) {
	in := NutritionValues{
		Calories: math.NaN(),
		Protein:  -3,
		Carbs:    math.Inf(1),
		Fat:      4,
	}
	got := in.Sanitized()
	assert.Equal(t, NutritionValues{Fat: 4}, got)
}

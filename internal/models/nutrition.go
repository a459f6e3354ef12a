package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Canonical nutrition-facts keys used by the bundled menu data.
const (
	FactProtein  = "Protein"
	FactCarbs    = "Total Carbohydrate"
	FactFat      = "Total Fat"
	FactFiber    = "Dietary Fiber"
	FactSugar    = "Total Sugars"
	FactSodium   = "Sodium"
	factCarbsAlt = "Carbohydrates"
	factSugarAlt = "Sugars"
)

// NutrientAmount is one line of a nutrition label.
type NutrientAmount struct {
	Amount            float64  `json:"amount"`
	Unit              string   `json:"unit"`
	DailyValuePercent *float64 `json:"dailyValuePercent"`
}

// FlexFloat decodes from either a JSON number or a numeric string such as "230" or "230 kcal".
// Anything unparsable decodes as 0.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexFloat(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(parseLeadingNumber(s))
	return nil
}

// parseLeadingNumber extracts the numeric prefix of s, ignoring thousands separators.
func parseLeadingNumber(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || c == '.' || c == ',' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s[:end], ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// MenuNutrition is the nutrition block of a catalog item.
type MenuNutrition struct {
	ServingsPerContainer FlexFloat                 `json:"servingsPerContainer"`
	ServingSize          string                    `json:"servingSize"`
	Calories             FlexFloat                 `json:"calories"`
	NutritionFacts       map[string]NutrientAmount `json:"nutritionFacts"`
}

// MenuItem is a read-only catalog entry.
type MenuItem struct {
	Name      string        `json:"name"`
	IsHalal   bool          `json:"isHalal"`
	Nutrition MenuNutrition `json:"nutrition"`
}

// Nutrient returns the amount of the first fact key present on the item, or 0 when none is.
func (m MenuItem) Nutrient(keys ...string) float64 {
	for _, key := range keys {
		if fact, ok := m.Nutrition.NutritionFacts[key]; ok {
			return fact.Amount
		}
	}
	return 0
}

// Values extracts the seven tracked quantities from the item's label.
func (m MenuItem) Values() NutritionValues {
	return NutritionValues{
		Calories: float64(m.Nutrition.Calories),
		Protein:  m.Nutrient(FactProtein),
		Carbs:    m.Nutrient(FactCarbs, factCarbsAlt),
		Fat:      m.Nutrient(FactFat),
		Fiber:    m.Nutrient(FactFiber),
		Sugar:    m.Nutrient(FactSugar, factSugarAlt),
		Sodium:   m.Nutrient(FactSodium),
	}.Sanitized()
}

// NutritionValues holds the seven tracked nutrient quantities.
type NutritionValues struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
}

// Add returns the element-wise sum of n and o.
func (n NutritionValues) Add(o NutritionValues) NutritionValues {
	return NutritionValues{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Carbs:    n.Carbs + o.Carbs,
		Fat:      n.Fat + o.Fat,
		Fiber:    n.Fiber + o.Fiber,
		Sugar:    n.Sugar + o.Sugar,
		Sodium:   n.Sodium + o.Sodium,
	}
}

// Scale multiplies every quantity by f.
func (n NutritionValues) Scale(f float64) NutritionValues {
	return NutritionValues{
		Calories: n.Calories * f,
		Protein:  n.Protein * f,
		Carbs:    n.Carbs * f,
		Fat:      n.Fat * f,
		Fiber:    n.Fiber * f,
		Sugar:    n.Sugar * f,
		Sodium:   n.Sodium * f,
	}
}

// Sanitized replaces NaN, infinite and negative quantities with 0.
func (n NutritionValues) Sanitized() NutritionValues {
	return NutritionValues{
		Calories: nonNegative(n.Calories),
		Protein:  nonNegative(n.Protein),
		Carbs:    nonNegative(n.Carbs),
		Fat:      nonNegative(n.Fat),
		Fiber:    nonNegative(n.Fiber),
		Sugar:    nonNegative(n.Sugar),
		Sodium:   nonNegative(n.Sodium),
	}
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

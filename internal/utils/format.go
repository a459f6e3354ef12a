package utils

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// FormatNumber renders v with thousands separators and at most maxFrac
// fraction digits: 1234.5 -> "1,234.5".
func FormatNumber(v float64, maxFrac int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(maxFrac)))
}

// FormatCalories renders a calorie count rounded to whole kcal.
func FormatCalories(v float64) string {
	return FormatNumber(math.Round(v), 0) + " kcal"
}

// FormatGrams renders a macro amount with one decimal place.
func FormatGrams(v float64) string {
	return FormatNumber(v, 1) + " g"
}

// FormatMilligrams renders a sodium-style amount rounded to whole mg.
func FormatMilligrams(v float64) string {
	return FormatNumber(math.Round(v), 0) + " mg"
}

// FormatAmount renders a quantity in its display unit ("kcal", "g" or "mg").
func FormatAmount(v float64, unit string) string {
	switch unit {
	case "kcal":
		return FormatCalories(v)
	case "mg":
		return FormatMilligrams(v)
	default:
		return FormatGrams(v)
	}
}

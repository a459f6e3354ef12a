package models

import "github.com/Naimy441/nutriuni/internal/constants"

// QuickAccessEntry is a ranked shortcut for re-logging something eaten before.
// Entries are identified by (Name, Restaurant), not by ID.
type QuickAccessEntry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Restaurant string `json:"restaurant"`
	NutritionValues
	ServingSize string                    `json:"servingSize"`
	Type        constants.QuickAccessType `json:"type"`
	LastUsedAt  int64                     `json:"lastUsedAt"`
	UseCount    int                       `json:"useCount"`
}

// Matches reports whether the entry describes the same food as item.
func (e QuickAccessEntry) Matches(item TrackedItem) bool {
	return e.Name == item.Name && e.Restaurant == item.Restaurant
}

// QuickAccessTypeFor classifies a restaurant label.
func QuickAccessTypeFor(restaurant string) constants.QuickAccessType {
	if IsCustomRestaurant(restaurant) {
		return constants.QuickAccessCustom
	}
	return constants.QuickAccessRestaurant
}

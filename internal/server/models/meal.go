// Package models defines the meal records exchanged between the conversation
// engine, its collaborators and the database.
package models

import "time"

// MealItem is one food entry as estimated by the extractor. Numeric fields
// are best-effort estimates; nil means the model gave no value and counts as
// zero in totals.
type MealItem struct {
	Food     string   `json:"food"`
	Quantity string   `json:"quantity"`
	Calories *float64 `json:"calories"`
	ProteinG *float64 `json:"protein_g"`
	CarbsG   *float64 `json:"carbs_g"`
	FatG     *float64 `json:"fat_g"`
}

// PendingMeal is an extracted meal awaiting the sender's yes/no. It lives only
// in the engine's session table.
type PendingMeal struct {
	Owner     string
	Items     []MealItem
	CreatedAt time.Time
}

// LoggedMeal is one persisted row of a confirmed meal.
type LoggedMeal struct {
	ID         int64
	UserNumber string
	MealItem
	CreatedAt time.Time
}

// Totals are the four running sums of a daily summary.
type Totals struct {
	Calories float64
	ProteinG float64
	CarbsG   float64
	FatG     float64
}

// Add accumulates one item, treating nil values as zero.
func (t *Totals) Add(item MealItem) {
	t.Calories += Value(item.Calories)
	t.ProteinG += Value(item.ProteinG)
	t.CarbsG += Value(item.CarbsG)
	t.FatG += Value(item.FatG)
}

// Value dereferences an optional estimate, nil meaning zero.
func Value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Float is a convenience constructor for optional estimates.
func Float(v float64) *float64 {
	return &v
}

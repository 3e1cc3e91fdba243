package conversation

import (
	"testing"

	"github.com/dmitrijs2005/mealbot/internal/server/models"
	"github.com/stretchr/testify/assert"
)

func TestFormatPreview(t *testing.T) {
	items := []models.MealItem{
		{Food: "eggs", Quantity: "2", Calories: models.Float(156)},
		{Food: "toast", Quantity: "1 slice", Calories: models.Float(72.5)},
		{Food: "tea", Quantity: "1 cup"},
	}

	want := "Here's what I found:\n" +
		"\n- 2 eggs (~156 kcal)" +
		"\n- 1 slice toast (~72.5 kcal)" +
		"\n- 1 cup tea (~0 kcal)" +
		"\n\n*Total: ~228.5 kcal*\n\nShould I save this? (Reply Yes/No)"

	assert.Equal(t, want, FormatPreview(items))
}

func TestFormatSummary_Empty(t *testing.T) {
	text, totals, ok := FormatSummary(nil)
	assert.False(t, ok)
	assert.Equal(t, ReplyNothingLogged, text)
	assert.Equal(t, models.Totals{}, totals)
}

func TestFormatSummary_Rows(t *testing.T) {
	rows := []models.LoggedMeal{
		{ID: 1, MealItem: models.MealItem{Food: "rice", Quantity: "1 cup", Calories: models.Float(200),
			ProteinG: models.Float(4.2), CarbsG: models.Float(45), FatG: models.Float(0.4)}},
		{ID: 2, MealItem: models.MealItem{Food: "dal", Quantity: "1 bowl", Calories: models.Float(180.6),
			ProteinG: models.Float(9), CarbsG: nil, FatG: models.Float(5)}},
	}

	text, totals, ok := FormatSummary(rows)
	assert.True(t, ok)

	want := "📊 *Your Summary for Today:*\n" +
		"\n- 1 cup rice (~200 kcal)" +
		"\n- 1 bowl dal (~180.6 kcal)" +
		"\n\n*Totals:*\n🔥 Calories: *381 kcal*\n💪 Protein: *13.2 g*\n🍞 Carbs: *45.0 g*\n🥑 Fat: *5.4 g*"
	assert.Equal(t, want, text)
	assert.InDelta(t, 380.6, totals.Calories, 1e-9)
	assert.InDelta(t, 13.2, totals.ProteinG, 1e-9)
	assert.InDelta(t, 45, totals.CarbsG, 1e-9)
	assert.InDelta(t, 5.4, totals.FatG, 1e-9)
}

func TestFormatSummary_Idempotent(t *testing.T) {
	rows := []models.LoggedMeal{{MealItem: models.MealItem{Food: "apple", Quantity: "1", Calories: models.Float(95)}}}

	t1, tot1, _ := FormatSummary(rows)
	t2, tot2, _ := FormatSummary(rows)
	assert.Equal(t, t1, t2)
	assert.Equal(t, tot1, tot2)
}

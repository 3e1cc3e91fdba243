package conversation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/mealbot/internal/server/models"
)

const (
	ReplySaved            = "✅ Great! I've logged that for you."
	ReplySaveFailed       = "❌ Sorry, there was an error saving your meal."
	ReplyDiscarded        = "Okay, I've discarded that meal."
	ReplyExtractionFailed = "Sorry, I couldn't figure out the nutritional info for that. Please try again."
	ReplyNoInput          = "Please send a voice note or text message describing your meal."
	ReplySummaryFailed    = "Sorry, I couldn't retrieve your summary due to an error."
	ReplyNothingLogged    = "You haven't logged any food yet today."
	ReplyRetry            = "Sorry, I was busy with your previous message. Please send that again."
)

// number prints an estimate without trailing zeros; absent values print as 0.
func number(v *float64) string {
	return strconv.FormatFloat(models.Value(v), 'f', -1, 64)
}

func itemLine(item models.MealItem) string {
	return fmt.Sprintf("\n- %s %s (~%s kcal)", item.Quantity, item.Food, number(item.Calories))
}

// FormatPreview renders freshly extracted items with their calorie total and
// the confirmation prompt.
func FormatPreview(items []models.MealItem) string {
	var b strings.Builder
	b.WriteString("Here's what I found:\n")

	var total float64
	for _, item := range items {
		b.WriteString(itemLine(item))
		total += models.Value(item.Calories)
	}

	fmt.Fprintf(&b, "\n\n*Total: ~%s kcal*\n\nShould I save this? (Reply Yes/No)",
		strconv.FormatFloat(total, 'f', -1, 64))
	return b.String()
}

// FormatSummary renders today's rows in insertion order followed by the four
// totals. ok is false when there are no rows, in which case no chart should
// be attached.
func FormatSummary(rows []models.LoggedMeal) (text string, totals models.Totals, ok bool) {
	if len(rows) == 0 {
		return ReplyNothingLogged, totals, false
	}

	var b strings.Builder
	b.WriteString("📊 *Your Summary for Today:*\n")
	for _, r := range rows {
		b.WriteString(itemLine(r.MealItem))
		totals.Add(r.MealItem)
	}

	fmt.Fprintf(&b, "\n\n*Totals:*\n🔥 Calories: *%.0f kcal*\n💪 Protein: *%.1f g*\n🍞 Carbs: *%.1f g*\n🥑 Fat: *%.1f g*",
		totals.Calories, totals.ProteinG, totals.CarbsG, totals.FatG)

	return b.String(), totals, true
}

package meals

import (
	"context"
	"time"

	"github.com/dmitrijs2005/mealbot/internal/server/models"
)

// Repository persists confirmed meal items, one row per item.
type Repository interface {
	Insert(ctx context.Context, userNumber string, item models.MealItem) (int64, error)
	SelectBetween(ctx context.Context, userNumber string, from, to time.Time) ([]*models.LoggedMeal, error)
}

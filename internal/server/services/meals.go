package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mealbot/internal/common"
	"github.com/dmitrijs2005/mealbot/internal/dbx"
	"github.com/dmitrijs2005/mealbot/internal/server/models"
	"github.com/dmitrijs2005/mealbot/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mealbot/internal/timex"
)

// MealService is the meal store used by the conversation engine. Every meal
// is written in one transaction; reads go to the database on every call.
type MealService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	location    *time.Location
	now         func() time.Time
}

func NewMealService(db *sql.DB, repomanager repomanager.RepositoryManager, location *time.Location) *MealService {
	if location == nil {
		location = time.UTC
	}
	return &MealService{
		db:          db,
		repomanager: repomanager,
		location:    location,
		now:         time.Now,
	}
}

// InsertItems stores all items of one confirmed meal atomically.
func (s *MealService) InsertItems(ctx context.Context, sender string, items []models.MealItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: no items", common.ErrPersistenceFailure)
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Meals(tx)
		for _, item := range items {
			if _, err := repo.Insert(ctx, sender, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrPersistenceFailure, err)
	}
	return nil
}

// QueryToday returns the sender's rows for the current calendar day in the
// service's location, in insertion order.
func (s *MealService) QueryToday(ctx context.Context, sender string) ([]models.LoggedMeal, error) {
	from, to := timex.DayBounds(s.now(), s.location)

	rows, err := s.repomanager.Meals(s.db).SelectBetween(ctx, sender, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrSummaryUnavailable, err)
	}

	result := make([]models.LoggedMeal, 0, len(rows))
	for _, r := range rows {
		result = append(result, *r)
	}
	return result, nil
}

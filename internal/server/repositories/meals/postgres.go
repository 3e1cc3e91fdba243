// Package meals stores logged meal items in the food_logs table.
package meals

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mealbot/internal/dbx"
	"github.com/dmitrijs2005/mealbot/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert writes a single item and returns its id. Nil estimates are stored as NULL.
func (r *PostgresRepository) Insert(ctx context.Context, userNumber string, item models.MealItem) (int64, error) {
	query := `
		INSERT INTO food_logs (user_number, food_item, quantity, calories, protein_g, carbs_g, fat_g)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		userNumber, item.Food, item.Quantity, item.Calories, item.ProteinG, item.CarbsG, item.FatG).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

// SelectBetween returns the user's rows with from <= created_at < to in
// insertion order.
func (r *PostgresRepository) SelectBetween(ctx context.Context, userNumber string, from, to time.Time) ([]*models.LoggedMeal, error) {
	query := ` SELECT id, user_number, food_item, quantity, calories, protein_g, carbs_g, fat_g, created_at from food_logs
		WHERE user_number=$1 and created_at>=$2 and created_at<$3
		ORDER BY id
		`
	rows, err := r.db.QueryContext(ctx, query, userNumber, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to select food logs: %w", err)
	}
	defer rows.Close()

	var result []*models.LoggedMeal
	for rows.Next() {
		var m models.LoggedMeal
		if err := rows.Scan(&m.ID, &m.UserNumber, &m.Food, &m.Quantity,
			&m.Calories, &m.ProteinG, &m.CarbsG, &m.FatG, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/mealbot/internal/dbx"
	"github.com/dmitrijs2005/mealbot/internal/server/repositories/meals"
)

// RepositoryManager vends repositories bound to a DB handle or transaction
// and owns schema migrations.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Meals(db dbx.DBTX) meals.Repository
}

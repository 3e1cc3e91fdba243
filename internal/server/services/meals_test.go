package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/mealbot/internal/common"
	"github.com/dmitrijs2005/mealbot/internal/dbx"
	"github.com/dmitrijs2005/mealbot/internal/server/models"
	"github.com/dmitrijs2005/mealbot/internal/server/repositories/meals"
	"github.com/dmitrijs2005/mealbot/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------- test fakes --------

type fakeMealsRepo struct {
	meals.Repository

	inserted  []models.MealItem
	failAfter int // Insert fails once this many items were written; <0 never
	insertErr error

	selFrom, selTo time.Time
	selUser        string
	selRows        []*models.LoggedMeal
	selErr         error
}

func (f *fakeMealsRepo) Insert(ctx context.Context, userNumber string, item models.MealItem) (int64, error) {
	if f.failAfter >= 0 && len(f.inserted) >= f.failAfter {
		return 0, f.insertErr
	}
	f.inserted = append(f.inserted, item)
	return int64(len(f.inserted)), nil
}

func (f *fakeMealsRepo) SelectBetween(ctx context.Context, userNumber string, from, to time.Time) ([]*models.LoggedMeal, error) {
	f.selUser, f.selFrom, f.selTo = userNumber, from, to
	return f.selRows, f.selErr
}

type fakeRepoManager struct {
	repomanager.RepositoryManager
	m *fakeMealsRepo
}

func (m *fakeRepoManager) Meals(db dbx.DBTX) meals.Repository { return m.m }

// -------- helpers --------

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func twoItems() []models.MealItem {
	return []models.MealItem{
		{Food: "egg", Quantity: "2", Calories: models.Float(156)},
		{Food: "toast", Quantity: "1 slice", Calories: models.Float(80)},
	}
}

// -------- tests --------

func TestInsertItems_CommitsAllItems(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := &fakeMealsRepo{failAfter: -1}
	s := NewMealService(db, &fakeRepoManager{m: repo}, nil)

	require.NoError(t, s.InsertItems(context.Background(), "u1", twoItems()))
	assert.Equal(t, twoItems(), repo.inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertItems_RollsBackOnFailure(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	repo := &fakeMealsRepo{failAfter: 1, insertErr: errors.New("constraint")}
	s := NewMealService(db, &fakeRepoManager{m: repo}, nil)

	err := s.InsertItems(context.Background(), "u1", twoItems())
	require.ErrorIs(t, err, common.ErrPersistenceFailure)
	assert.Contains(t, err.Error(), "constraint")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertItems_BeginFails(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin().WillReturnError(errors.New("db down"))

	s := NewMealService(db, &fakeRepoManager{m: &fakeMealsRepo{failAfter: -1}}, nil)

	err := s.InsertItems(context.Background(), "u1", twoItems())
	require.ErrorIs(t, err, common.ErrPersistenceFailure)
}

func TestInsertItems_Empty(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := NewMealService(db, &fakeRepoManager{m: &fakeMealsRepo{failAfter: -1}}, nil)
	require.ErrorIs(t, s.InsertItems(context.Background(), "u1", nil), common.ErrPersistenceFailure)
}

func TestQueryToday_UsesLocationDayBounds(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	loc := time.FixedZone("IST", 5*3600+1800)
	at := time.Date(2026, 10, 19, 1, 0, 0, 0, loc)
	repo := &fakeMealsRepo{selRows: []*models.LoggedMeal{
		{ID: 1, UserNumber: "u1", MealItem: models.MealItem{Food: "egg"}, CreatedAt: at},
		{ID: 2, UserNumber: "u1", MealItem: models.MealItem{Food: "toast"}, CreatedAt: at},
	}}
	s := NewMealService(db, &fakeRepoManager{m: repo}, loc)
	s.now = func() time.Time { return time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC) } // 01:30 on the 19th in IST

	got, err := s.QueryToday(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "egg", got[0].Food)
	assert.Equal(t, "toast", got[1].Food)

	assert.Equal(t, "u1", repo.selUser)
	assert.True(t, repo.selFrom.Equal(time.Date(2026, 10, 19, 0, 0, 0, 0, loc)))
	assert.True(t, repo.selTo.Equal(time.Date(2026, 10, 20, 0, 0, 0, 0, loc)))
}

func TestQueryToday_Error(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := NewMealService(db, &fakeRepoManager{m: &fakeMealsRepo{selErr: errors.New("boom")}}, nil)
	_, err := s.QueryToday(context.Background(), "u1")
	require.ErrorIs(t, err, common.ErrSummaryUnavailable)
}

func TestQueryToday_EmptyIsNotNil(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := NewMealService(db, &fakeRepoManager{m: &fakeMealsRepo{}}, nil)
	got, err := s.QueryToday(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

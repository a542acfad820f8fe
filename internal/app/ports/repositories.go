package ports

import (
	"context"

	"mealmax/internal/domain/meal"

	"github.com/shopspring/decimal"
)

type MealStatsRecorder interface {
	UpdateMealStats(ctx context.Context, id int64, outcome meal.Outcome) error
}

type MealReader interface {
	GetMealByID(ctx context.Context, id int64) (meal.Meal, error)
	GetMealByName(ctx context.Context, name string) (meal.Meal, error)
}

// MealRepository reports missing rows as ErrNotFound. Lookups also report
// soft-deleted rows as ErrNotFound; DeleteMeal and UpdateMealStats report them
// as ErrDeleted. CreateMeal reports a live duplicate name as ErrConflict.
type MealRepository interface {
	MealReader
	MealStatsRecorder
	CreateMeal(ctx context.Context, name, cuisine string, price decimal.Decimal, difficulty meal.Difficulty) (meal.Meal, error)
	DeleteMeal(ctx context.Context, id int64) error
	GetLeaderboard(ctx context.Context, sortBy meal.SortKey) ([]meal.LeaderboardEntry, error)
	ClearMeals(ctx context.Context) error
}

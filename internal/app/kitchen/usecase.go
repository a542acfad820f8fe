package kitchen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mealmax/internal/app/ports"
	"mealmax/internal/domain/meal"
)

var ErrInvalidRequest = errors.New("invalid kitchen request")

// UseCase validates meal input before it reaches the repository.
type UseCase struct {
	Meals ports.MealRepository
}

func (u UseCase) CreateMeal(ctx context.Context, req CreateMealRequest) (meal.Meal, error) {
	candidate, err := meal.New(0, req.Name, req.Cuisine, req.Price, req.Difficulty)
	if err != nil {
		return meal.Meal{}, err
	}
	return u.Meals.CreateMeal(ctx, candidate.Name, candidate.Cuisine, candidate.Price, candidate.Difficulty)
}

func (u UseCase) DeleteMeal(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: meal id must be positive", ErrInvalidRequest)
	}
	return u.Meals.DeleteMeal(ctx, id)
}

func (u UseCase) GetMealByID(ctx context.Context, id int64) (meal.Meal, error) {
	if id <= 0 {
		return meal.Meal{}, fmt.Errorf("%w: meal id must be positive", ErrInvalidRequest)
	}
	return u.Meals.GetMealByID(ctx, id)
}

func (u UseCase) GetMealByName(ctx context.Context, name string) (meal.Meal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return meal.Meal{}, fmt.Errorf("%w: meal name is required", ErrInvalidRequest)
	}
	return u.Meals.GetMealByName(ctx, name)
}

func (u UseCase) Leaderboard(ctx context.Context, req LeaderboardRequest) ([]meal.LeaderboardEntry, error) {
	key, err := meal.ParseSortKey(req.SortBy)
	if err != nil {
		return nil, err
	}
	return u.Meals.GetLeaderboard(ctx, key)
}

func (u UseCase) UpdateMealStats(ctx context.Context, id int64, outcome string) error {
	o, err := meal.ParseOutcome(outcome)
	if err != nil {
		return err
	}
	if id <= 0 {
		return fmt.Errorf("%w: meal id must be positive", ErrInvalidRequest)
	}
	return u.Meals.UpdateMealStats(ctx, id, o)
}

func (u UseCase) ClearMeals(ctx context.Context) error {
	return u.Meals.ClearMeals(ctx)
}

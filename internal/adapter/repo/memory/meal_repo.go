package memory

import (
	"context"
	"fmt"
	"sort"

	"mealmax/internal/app/ports"
	"mealmax/internal/domain/meal"

	"github.com/shopspring/decimal"
)

type MealRepo struct {
	store *Store
}

func NewMealRepo(store *Store) MealRepo {
	return MealRepo{store: store}
}

func (r MealRepo) CreateMeal(ctx context.Context, name, cuisine string, price decimal.Decimal, difficulty meal.Difficulty) (meal.Meal, error) {
	m, err := meal.New(0, name, cuisine, price, string(difficulty))
	if err != nil {
		return meal.Meal{}, err
	}
	defer r.store.lock(ctx)()

	for _, row := range r.store.meals {
		if !row.deleted && row.meal.Name == m.Name {
			return meal.Meal{}, fmt.Errorf("%w: meal with name '%s' already exists", ports.ErrConflict, m.Name)
		}
	}
	m.ID = r.store.nextID
	r.store.nextID++
	r.store.meals[m.ID] = mealRow{meal: m}
	return m, nil
}

func (r MealRepo) DeleteMeal(ctx context.Context, id int64) error {
	defer r.store.lock(ctx)()

	row, err := r.liveRow(id)
	if err != nil {
		return err
	}
	row.deleted = true
	r.store.meals[id] = row
	return nil
}

func (r MealRepo) GetMealByID(ctx context.Context, id int64) (meal.Meal, error) {
	defer r.store.lock(ctx)()

	row, ok := r.store.meals[id]
	if !ok || row.deleted {
		return meal.Meal{}, fmt.Errorf("%w: meal with ID %d not found", ports.ErrNotFound, id)
	}
	return row.meal, nil
}

func (r MealRepo) GetMealByName(ctx context.Context, name string) (meal.Meal, error) {
	defer r.store.lock(ctx)()

	for _, row := range r.store.meals {
		if !row.deleted && row.meal.Name == name {
			return row.meal, nil
		}
	}
	return meal.Meal{}, fmt.Errorf("%w: meal with name %s not found", ports.ErrNotFound, name)
}

func (r MealRepo) GetLeaderboard(ctx context.Context, sortBy meal.SortKey) ([]meal.LeaderboardEntry, error) {
	key, err := meal.ParseSortKey(string(sortBy))
	if err != nil {
		return nil, err
	}
	defer r.store.lock(ctx)()

	out := make([]meal.LeaderboardEntry, 0, len(r.store.meals))
	for _, row := range r.store.meals {
		if row.deleted || row.battles <= 0 {
			continue
		}
		out = append(out, meal.LeaderboardEntry{
			ID:         row.meal.ID,
			Meal:       row.meal.Name,
			Cuisine:    row.meal.Cuisine,
			Price:      row.meal.Price,
			Difficulty: row.meal.Difficulty,
			Battles:    row.battles,
			Wins:       row.wins,
			WinPct:     meal.WinPct(row.wins, row.battles),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if key == meal.SortByWinPct {
			// cross-multiplied to compare exact ratios rather than rounded percentages
			lhs, rhs := a.Wins*b.Battles, b.Wins*a.Battles
			if lhs != rhs {
				return lhs > rhs
			}
		} else if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (r MealRepo) UpdateMealStats(ctx context.Context, id int64, outcome meal.Outcome) error {
	o, err := meal.ParseOutcome(string(outcome))
	if err != nil {
		return err
	}
	defer r.store.lock(ctx)()

	row, err := r.liveRow(id)
	if err != nil {
		return err
	}
	row.battles++
	if o == meal.OutcomeWin {
		row.wins++
	}
	r.store.meals[id] = row
	return nil
}

func (r MealRepo) ClearMeals(ctx context.Context) error {
	defer r.store.lock(ctx)()

	r.store.meals = make(map[int64]mealRow)
	return nil
}

func (r MealRepo) liveRow(id int64) (mealRow, error) {
	row, ok := r.store.meals[id]
	if !ok {
		return mealRow{}, fmt.Errorf("%w: meal with ID %d not found", ports.ErrNotFound, id)
	}
	if row.deleted {
		return mealRow{}, fmt.Errorf("%w: meal with ID %d has been deleted", ports.ErrDeleted, id)
	}
	return row, nil
}

var _ ports.MealRepository = MealRepo{}

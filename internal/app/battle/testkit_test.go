package battle

import (
	"context"
	"errors"

	"mealmax/internal/app/ports"
	"mealmax/internal/domain/meal"

	"github.com/shopspring/decimal"
)

type fixedRandom float64

func (f fixedRandom) Float64() float64 { return float64(f) }

type statsCall struct {
	ID      int64
	Outcome meal.Outcome
}

type stubStatsRecorder struct {
	calls  []statsCall
	failOn int64
	err    error
}

func (r *stubStatsRecorder) UpdateMealStats(_ context.Context, id int64, outcome meal.Outcome) error {
	if r.err != nil && (r.failOn == 0 || r.failOn == id) {
		return r.err
	}
	r.calls = append(r.calls, statsCall{ID: id, Outcome: outcome})
	return nil
}

type stubTxManager struct {
	runs int
}

func (t *stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.runs++
	return fn(ctx)
}

type stubMetrics struct {
	battles  int
	failures int
	lastWin  int64
	lastLoss int64
}

func (m *stubMetrics) RecordBattle(winnerID, loserID int64) {
	m.battles++
	m.lastWin = winnerID
	m.lastLoss = loserID
}

func (m *stubMetrics) RecordFailure() {
	m.failures++
}

type stubMealReader struct {
	byID map[int64]meal.Meal
}

func (r stubMealReader) GetMealByID(_ context.Context, id int64) (meal.Meal, error) {
	m, ok := r.byID[id]
	if !ok {
		return meal.Meal{}, ports.ErrNotFound
	}
	return m, nil
}

func (r stubMealReader) GetMealByName(_ context.Context, name string) (meal.Meal, error) {
	for _, m := range r.byID {
		if m.Name == name {
			return m, nil
		}
	}
	return meal.Meal{}, ports.ErrNotFound
}

var errStatsDown = errors.New("stats store down")

func spaghetti() meal.Meal {
	return meal.Meal{ID: 1, Name: "Spaghetti", Cuisine: "Italian", Price: decimal.RequireFromString("12.99"), Difficulty: meal.DifficultyMed}
}

func sushi() meal.Meal {
	return meal.Meal{ID: 2, Name: "Sushi", Cuisine: "Japanese", Price: decimal.RequireFromString("15.99"), Difficulty: meal.DifficultyHigh}
}

func pizza() meal.Meal {
	return meal.Meal{ID: 3, Name: "Pizza", Cuisine: "Italian", Price: decimal.RequireFromString("10.99"), Difficulty: meal.DifficultyLow}
}

var (
	_ ports.MealStatsRecorder = (*stubStatsRecorder)(nil)
	_ ports.TxManager         = (*stubTxManager)(nil)
	_ ports.BattleMetrics     = (*stubMetrics)(nil)
	_ ports.MealReader        = stubMealReader{}
)

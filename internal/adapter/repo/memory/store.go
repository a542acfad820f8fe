package memory

import (
	"context"
	"sync"

	"mealmax/internal/domain/meal"
)

type mealRow struct {
	meal    meal.Meal
	battles int64
	wins    int64
	deleted bool
}

type Store struct {
	mu     sync.Mutex
	meals  map[int64]mealRow
	nextID int64
}

func NewStore() *Store {
	return &Store{
		meals:  make(map[int64]mealRow),
		nextID: 1,
	}
}

// SeedMeal stores m with the given stats, keeping m.ID when set.
func (s *Store) SeedMeal(m meal.Meal, battles, wins int64, deleted bool) meal.Meal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == 0 {
		m.ID = s.nextID
	}
	if m.ID >= s.nextID {
		s.nextID = m.ID + 1
	}
	s.meals[m.ID] = mealRow{meal: m, battles: battles, wins: wins, deleted: deleted}
	return m
}

func (s *Store) snapshot() map[int64]mealRow {
	out := make(map[int64]mealRow, len(s.meals))
	for k, v := range s.meals {
		out[k] = v
	}
	return out
}

type txKeyType struct{}

var txKey = txKeyType{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey).(bool)
	return v
}

// lock takes the store mutex unless ctx already runs inside RunInTx.
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

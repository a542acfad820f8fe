package memory

import (
	"context"
	"testing"

	"mealmax/internal/adapter/repo/repotest"
	"mealmax/internal/app/ports"
	"mealmax/internal/domain/meal"

	"github.com/shopspring/decimal"
)

func TestMealRepo_Contract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repotest.Harness {
		store := NewStore()
		return repotest.Harness{Repo: NewMealRepo(store), Tx: NewTxManager(store)}
	})
}

func TestStore_SeedMealKeepsIDsAhead(t *testing.T) {
	store := NewStore()
	store.SeedMeal(meal.Meal{ID: 5, Name: "Ramen", Cuisine: "Japanese", Price: decimal.RequireFromString("12.99"), Difficulty: meal.DifficultyMed}, 2, 1, false)
	repo := NewMealRepo(store)

	created, err := repo.CreateMeal(context.Background(), "Udon", "Japanese", decimal.RequireFromString("11.99"), meal.DifficultyHigh)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 6 {
		t.Fatalf("expected id 6, got %d", created.ID)
	}
	if _, err := repo.GetMealByID(context.Background(), 5); err != nil {
		t.Fatalf("seeded meal lookup: %v", err)
	}
}

func TestTxManager_NestedCallsReuseLock(t *testing.T) {
	store := NewStore()
	tx := NewTxManager(store)
	repo := NewMealRepo(store)
	ctx := context.Background()

	err := tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := repo.CreateMeal(txCtx, "Ramen", "Japanese", decimal.RequireFromString("12.99"), meal.DifficultyMed); err != nil {
			return err
		}
		return tx.RunInTx(txCtx, func(inner context.Context) error {
			_, err := repo.GetMealByName(inner, "Ramen")
			return err
		})
	})
	if err != nil {
		t.Fatalf("nested tx: %v", err)
	}
}

var _ ports.TxManager = TxManager{}

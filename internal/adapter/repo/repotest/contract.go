// Package repotest holds the behavior every ports.MealRepository adapter must share.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"mealmax/internal/app/ports"
	"mealmax/internal/domain/meal"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type Harness struct {
	Repo ports.MealRepository
	Tx   ports.TxManager
}

// Run executes the contract against a fresh, empty harness per subtest.
func Run(t *testing.T, newHarness func(t *testing.T) Harness) {
	t.Helper()
	t.Run("create and lookup", func(t *testing.T) { testCreateAndLookup(t, newHarness(t)) })
	t.Run("price precision", func(t *testing.T) { testPricePrecision(t, newHarness(t)) })
	t.Run("duplicate name", func(t *testing.T) { testDuplicateName(t, newHarness(t)) })
	t.Run("soft delete", func(t *testing.T) { testSoftDelete(t, newHarness(t)) })
	t.Run("update stats", func(t *testing.T) { testUpdateStats(t, newHarness(t)) })
	t.Run("leaderboard", func(t *testing.T) { testLeaderboard(t, newHarness(t)) })
	t.Run("tx rollback", func(t *testing.T) { testTxRollback(t, newHarness(t)) })
	t.Run("clear meals", func(t *testing.T) { testClearMeals(t, newHarness(t)) })
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustCreate(t *testing.T, repo ports.MealRepository, name, cuisine, p string, d meal.Difficulty) meal.Meal {
	t.Helper()
	m, err := repo.CreateMeal(context.Background(), name, cuisine, price(p), d)
	require.NoError(t, err)
	require.Positive(t, m.ID)
	return m
}

func playRecord(t *testing.T, repo ports.MealRepository, id int64, battles, wins int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < battles; i++ {
		outcome := meal.OutcomeLoss
		if i < wins {
			outcome = meal.OutcomeWin
		}
		require.NoError(t, repo.UpdateMealStats(ctx, id, outcome))
	}
}

func requireSameMeal(t *testing.T, want, got meal.Meal) {
	t.Helper()
	require.Equal(t, want.ID, got.ID)
	require.Equal(t, want.Name, got.Name)
	require.Equal(t, want.Cuisine, got.Cuisine)
	require.True(t, want.Price.Equal(got.Price), "price want=%s got=%s", want.Price, got.Price)
	require.Equal(t, want.Difficulty, got.Difficulty)
}

func testCreateAndLookup(t *testing.T, h Harness) {
	ctx := context.Background()
	created := mustCreate(t, h.Repo, "Ramen", "Japanese", "12.99", meal.DifficultyMed)
	require.Equal(t, "Ramen", created.Name)
	require.True(t, created.Price.Equal(price("12.99")))

	byID, err := h.Repo.GetMealByID(ctx, created.ID)
	require.NoError(t, err)
	requireSameMeal(t, created, byID)

	byName, err := h.Repo.GetMealByName(ctx, "Ramen")
	require.NoError(t, err)
	requireSameMeal(t, created, byName)

	_, err = h.Repo.GetMealByID(ctx, created.ID+999)
	require.ErrorIs(t, err, ports.ErrNotFound)
	_, err = h.Repo.GetMealByName(ctx, "Nonexistent Meal")
	require.ErrorIs(t, err, ports.ErrNotFound)

	_, err = h.Repo.CreateMeal(ctx, "Bad", "Japanese", price("-1"), meal.DifficultyMed)
	require.ErrorIs(t, err, meal.ErrInvalidPrice)
	_, err = h.Repo.CreateMeal(ctx, "Bad", "Japanese", price("1"), meal.Difficulty("EASY"))
	require.ErrorIs(t, err, meal.ErrInvalidDifficulty)
	_, err = h.Repo.GetMealByName(ctx, "Bad")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func testPricePrecision(t *testing.T, h Harness) {
	ctx := context.Background()
	for _, p := range []string{"12.999", "0.001", "100000000.00"} {
		_, err := h.Repo.CreateMeal(ctx, "Bad "+p, "Japanese", price(p), meal.DifficultyMed)
		require.ErrorIs(t, err, meal.ErrInvalidPrice, p)
		_, err = h.Repo.GetMealByName(ctx, "Bad "+p)
		require.ErrorIs(t, err, ports.ErrNotFound, p)
	}

	for i, p := range []string{"0.01", "12.5", "99999999.99"} {
		created := mustCreate(t, h.Repo, fmt.Sprintf("Edge %d", i), "Japanese", p, meal.DifficultyLow)
		loaded, err := h.Repo.GetMealByID(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, created.Price.Equal(loaded.Price), "created=%s loaded=%s", created.Price, loaded.Price)
		require.Equal(t, meal.BattleScore(created), meal.BattleScore(loaded))
	}
}

func testDuplicateName(t *testing.T, h Harness) {
	mustCreate(t, h.Repo, "Ramen", "Japanese", "12.99", meal.DifficultyMed)
	_, err := h.Repo.CreateMeal(context.Background(), "Ramen", "Chinese", price("9.99"), meal.DifficultyLow)
	require.ErrorIs(t, err, ports.ErrConflict)
	require.Contains(t, err.Error(), "Ramen")
}

func testSoftDelete(t *testing.T, h Harness) {
	ctx := context.Background()
	m := mustCreate(t, h.Repo, "Ramen", "Japanese", "12.99", meal.DifficultyMed)

	require.NoError(t, h.Repo.DeleteMeal(ctx, m.ID))
	require.ErrorIs(t, h.Repo.DeleteMeal(ctx, m.ID), ports.ErrDeleted)
	require.ErrorIs(t, h.Repo.DeleteMeal(ctx, m.ID+999), ports.ErrNotFound)

	_, err := h.Repo.GetMealByID(ctx, m.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
	_, err = h.Repo.GetMealByName(ctx, "Ramen")
	require.ErrorIs(t, err, ports.ErrNotFound)

	// A deleted name can be reused.
	again := mustCreate(t, h.Repo, "Ramen", "Japanese", "13.49", meal.DifficultyHigh)
	require.NotEqual(t, m.ID, again.ID)
	got, err := h.Repo.GetMealByName(ctx, "Ramen")
	require.NoError(t, err)
	require.Equal(t, again.ID, got.ID)
}

func testUpdateStats(t *testing.T, h Harness) {
	ctx := context.Background()
	m := mustCreate(t, h.Repo, "Ramen", "Japanese", "12.99", meal.DifficultyMed)

	err := h.Repo.UpdateMealStats(ctx, m.ID, meal.Outcome("draw"))
	require.ErrorIs(t, err, meal.ErrInvalidResult)

	require.NoError(t, h.Repo.UpdateMealStats(ctx, m.ID, meal.OutcomeWin))
	require.NoError(t, h.Repo.UpdateMealStats(ctx, m.ID, meal.OutcomeLoss))

	board, err := h.Repo.GetLeaderboard(ctx, meal.SortByWins)
	require.NoError(t, err)
	require.Len(t, board, 1)
	require.Equal(t, int64(2), board[0].Battles)
	require.Equal(t, int64(1), board[0].Wins)
	require.Equal(t, 50.0, board[0].WinPct)

	require.ErrorIs(t, h.Repo.UpdateMealStats(ctx, m.ID+999, meal.OutcomeWin), ports.ErrNotFound)
	require.NoError(t, h.Repo.DeleteMeal(ctx, m.ID))
	require.ErrorIs(t, h.Repo.UpdateMealStats(ctx, m.ID, meal.OutcomeWin), ports.ErrDeleted)
}

func testLeaderboard(t *testing.T, h Harness) {
	ctx := context.Background()
	ramen := mustCreate(t, h.Repo, "Ramen", "Japanese", "12.99", meal.DifficultyMed)
	udon := mustCreate(t, h.Repo, "Udon", "Japanese", "11.99", meal.DifficultyHigh)
	soup := mustCreate(t, h.Repo, "Pho", "Vietnamese", "9.50", meal.DifficultyLow)
	mustCreate(t, h.Repo, "Unplayed", "French", "20.00", meal.DifficultyLow)
	gone := mustCreate(t, h.Repo, "Gone", "French", "20.00", meal.DifficultyLow)

	playRecord(t, h.Repo, ramen.ID, 10, 7)
	playRecord(t, h.Repo, udon.ID, 8, 5)
	playRecord(t, h.Repo, soup.ID, 3, 3)
	playRecord(t, h.Repo, gone.ID, 4, 4)
	require.NoError(t, h.Repo.DeleteMeal(ctx, gone.ID))

	byWins, err := h.Repo.GetLeaderboard(ctx, meal.SortByWins)
	require.NoError(t, err)
	require.Len(t, byWins, 3)
	require.Equal(t, []string{"Ramen", "Udon", "Pho"}, names(byWins))
	require.Equal(t, []float64{70.0, 62.5, 100.0}, pcts(byWins))
	require.Equal(t, "Japanese", byWins[0].Cuisine)
	require.Equal(t, meal.DifficultyMed, byWins[0].Difficulty)
	require.True(t, byWins[0].Price.Equal(price("12.99")))
	require.Equal(t, int64(10), byWins[0].Battles)
	require.Equal(t, int64(7), byWins[0].Wins)

	byPct, err := h.Repo.GetLeaderboard(ctx, meal.SortByWinPct)
	require.NoError(t, err)
	require.Equal(t, []string{"Pho", "Ramen", "Udon"}, names(byPct))

	_, err = h.Repo.GetLeaderboard(ctx, meal.SortKey("price"))
	require.ErrorIs(t, err, meal.ErrInvalidSortKey)
}

func testTxRollback(t *testing.T, h Harness) {
	if h.Tx == nil {
		t.Skip("adapter has no tx manager")
	}
	ctx := context.Background()
	winner := mustCreate(t, h.Repo, "Sushi", "Japanese", "15.99", meal.DifficultyHigh)

	boom := errors.New("boom")
	err := h.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := h.Repo.UpdateMealStats(txCtx, winner.ID, meal.OutcomeWin); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	board, err := h.Repo.GetLeaderboard(ctx, meal.SortByWins)
	require.NoError(t, err)
	require.Empty(t, board)

	require.NoError(t, h.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		return h.Repo.UpdateMealStats(txCtx, winner.ID, meal.OutcomeWin)
	}))
	board, err = h.Repo.GetLeaderboard(ctx, meal.SortByWins)
	require.NoError(t, err)
	require.Len(t, board, 1)
}

func testClearMeals(t *testing.T, h Harness) {
	ctx := context.Background()
	m := mustCreate(t, h.Repo, "Ramen", "Japanese", "12.99", meal.DifficultyMed)
	playRecord(t, h.Repo, m.ID, 1, 1)

	require.NoError(t, h.Repo.ClearMeals(ctx))
	_, err := h.Repo.GetMealByID(ctx, m.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
	board, err := h.Repo.GetLeaderboard(ctx, meal.SortByWins)
	require.NoError(t, err)
	require.Empty(t, board)

	mustCreate(t, h.Repo, "Ramen", "Japanese", "12.99", meal.DifficultyMed)
}

func names(entries []meal.LeaderboardEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Meal)
	}
	return out
}

func pcts(entries []meal.LeaderboardEntry) []float64 {
	out := make([]float64, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.WinPct)
	}
	return out
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"mealmax/internal/app/ports"
	"mealmax/internal/domain/meal"

	"github.com/shopspring/decimal"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
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
	res, err := r.store.conn(ctx).ExecContext(ctx,
		`INSERT INTO meals (meal, cuisine, price, difficulty) VALUES (?, ?, ?, ?)`,
		m.Name, m.Cuisine, m.Price.String(), string(m.Difficulty),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return meal.Meal{}, fmt.Errorf("%w: meal with name '%s' already exists", ports.ErrConflict, m.Name)
		}
		return meal.Meal{}, fmt.Errorf("create meal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return meal.Meal{}, fmt.Errorf("create meal: %w", err)
	}
	m.ID = id
	return m, nil
}

func (r MealRepo) DeleteMeal(ctx context.Context, id int64) error {
	return NewTxManager(r.store).RunInTx(ctx, func(ctx context.Context) error {
		if err := r.requireLive(ctx, id); err != nil {
			return err
		}
		if _, err := r.store.conn(ctx).ExecContext(ctx, `UPDATE meals SET deleted = TRUE WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete meal: %w", err)
		}
		return nil
	})
}

func (r MealRepo) GetMealByID(ctx context.Context, id int64) (meal.Meal, error) {
	row := r.store.conn(ctx).QueryRowContext(ctx,
		`SELECT id, meal, cuisine, price, difficulty FROM meals WHERE id = ? AND deleted = FALSE`, id)
	m, err := scanMeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return meal.Meal{}, fmt.Errorf("%w: meal with ID %d not found", ports.ErrNotFound, id)
	}
	return m, err
}

func (r MealRepo) GetMealByName(ctx context.Context, name string) (meal.Meal, error) {
	row := r.store.conn(ctx).QueryRowContext(ctx,
		`SELECT id, meal, cuisine, price, difficulty FROM meals WHERE meal = ? AND deleted = FALSE`, name)
	m, err := scanMeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return meal.Meal{}, fmt.Errorf("%w: meal with name %s not found", ports.ErrNotFound, name)
	}
	return m, err
}

func (r MealRepo) GetLeaderboard(ctx context.Context, sortBy meal.SortKey) ([]meal.LeaderboardEntry, error) {
	key, err := meal.ParseSortKey(string(sortBy))
	if err != nil {
		return nil, err
	}
	orderBy := "wins DESC"
	if key == meal.SortByWinPct {
		orderBy = "wins * 1.0 / battles DESC"
	}
	rows, err := r.store.conn(ctx).QueryContext(ctx,
		`SELECT id, meal, cuisine, price, difficulty, battles, wins
		   FROM meals
		  WHERE deleted = FALSE AND battles > 0
		  ORDER BY `+orderBy+`, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	out := []meal.LeaderboardEntry{}
	for rows.Next() {
		var e meal.LeaderboardEntry
		var difficulty string
		if err := rows.Scan(&e.ID, &e.Meal, &e.Cuisine, &e.Price, &difficulty, &e.Battles, &e.Wins); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		e.Difficulty = meal.Difficulty(difficulty)
		e.WinPct = meal.WinPct(e.Wins, e.Battles)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return out, nil
}

func (r MealRepo) UpdateMealStats(ctx context.Context, id int64, outcome meal.Outcome) error {
	o, err := meal.ParseOutcome(string(outcome))
	if err != nil {
		return err
	}
	stmt := `UPDATE meals SET battles = battles + 1 WHERE id = ?`
	if o == meal.OutcomeWin {
		stmt = `UPDATE meals SET battles = battles + 1, wins = wins + 1 WHERE id = ?`
	}
	return NewTxManager(r.store).RunInTx(ctx, func(ctx context.Context) error {
		if err := r.requireLive(ctx, id); err != nil {
			return err
		}
		if _, err := r.store.conn(ctx).ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("update meal stats: %w", err)
		}
		return nil
	})
}

func (r MealRepo) ClearMeals(ctx context.Context) error {
	if _, err := r.store.conn(ctx).ExecContext(ctx, `DELETE FROM meals`); err != nil {
		return fmt.Errorf("clear meals: %w", err)
	}
	return nil
}

func (r MealRepo) requireLive(ctx context.Context, id int64) error {
	var deleted bool
	err := r.store.conn(ctx).QueryRowContext(ctx, `SELECT deleted FROM meals WHERE id = ?`, id).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: meal with ID %d not found", ports.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("load meal %d: %w", id, err)
	}
	if deleted {
		return fmt.Errorf("%w: meal with ID %d has been deleted", ports.ErrDeleted, id)
	}
	return nil
}

func scanMeal(row *sql.Row) (meal.Meal, error) {
	var (
		id         int64
		name       string
		cuisine    string
		price      decimal.Decimal
		difficulty string
	)
	if err := row.Scan(&id, &name, &cuisine, &price, &difficulty); err != nil {
		return meal.Meal{}, err
	}
	m, err := meal.New(id, name, cuisine, price, difficulty)
	if err != nil {
		return meal.Meal{}, fmt.Errorf("load meal %d: %w", id, err)
	}
	return m, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ ports.MealRepository = MealRepo{}

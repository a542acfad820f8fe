package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"mealmax/internal/adapter/repo/gorm/model"
	"mealmax/internal/app/ports"
	"mealmax/internal/domain/meal"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pgUniqueViolation = "23505"

type MealRepo struct {
	db *gorm.DB
}

func NewMealRepo(db *gorm.DB) MealRepo {
	return MealRepo{db: db}
}

func (r MealRepo) CreateMeal(ctx context.Context, name, cuisine string, price decimal.Decimal, difficulty meal.Difficulty) (meal.Meal, error) {
	m, err := meal.New(0, name, cuisine, price, string(difficulty))
	if err != nil {
		return meal.Meal{}, err
	}
	row := model.Meal{
		Meal:       m.Name,
		Cuisine:    m.Cuisine,
		Price:      m.Price,
		Difficulty: string(m.Difficulty),
	}
	if err := getDBFromCtx(ctx, r.db).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return meal.Meal{}, fmt.Errorf("%w: meal with name '%s' already exists", ports.ErrConflict, m.Name)
		}
		return meal.Meal{}, err
	}
	m.ID = row.ID
	return m, nil
}

func (r MealRepo) DeleteMeal(ctx context.Context, id int64) error {
	return getDBFromCtx(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if _, err := liveRowForUpdate(tx, id); err != nil {
			return err
		}
		return tx.Model(&model.Meal{}).Where("id = ?", id).Update("deleted", true).Error
	})
}

func (r MealRepo) GetMealByID(ctx context.Context, id int64) (meal.Meal, error) {
	var row model.Meal
	err := getDBFromCtx(ctx, r.db).Where("id = ? AND deleted = ?", id, false).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return meal.Meal{}, fmt.Errorf("%w: meal with ID %d not found", ports.ErrNotFound, id)
		}
		return meal.Meal{}, err
	}
	return toDomain(row)
}

func (r MealRepo) GetMealByName(ctx context.Context, name string) (meal.Meal, error) {
	var row model.Meal
	err := getDBFromCtx(ctx, r.db).Where("meal = ? AND deleted = ?", name, false).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return meal.Meal{}, fmt.Errorf("%w: meal with name %s not found", ports.ErrNotFound, name)
		}
		return meal.Meal{}, err
	}
	return toDomain(row)
}

func (r MealRepo) GetLeaderboard(ctx context.Context, sortBy meal.SortKey) ([]meal.LeaderboardEntry, error) {
	key, err := meal.ParseSortKey(string(sortBy))
	if err != nil {
		return nil, err
	}
	order := clause.OrderByColumn{Column: clause.Column{Name: "wins"}, Desc: true}
	if key == meal.SortByWinPct {
		order = clause.OrderByColumn{Column: clause.Column{Name: "wins * 1.0 / battles", Raw: true}, Desc: true}
	}

	rows := []model.Meal{}
	err = getDBFromCtx(ctx, r.db).
		Where("deleted = ? AND battles > 0", false).
		Clauses(clause.OrderBy{Columns: []clause.OrderByColumn{
			order,
			{Column: clause.Column{Name: "id"}},
		}}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]meal.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, meal.LeaderboardEntry{
			ID:         row.ID,
			Meal:       row.Meal,
			Cuisine:    row.Cuisine,
			Price:      row.Price,
			Difficulty: meal.Difficulty(row.Difficulty),
			Battles:    row.Battles,
			Wins:       row.Wins,
			WinPct:     meal.WinPct(row.Wins, row.Battles),
		})
	}
	return out, nil
}

func (r MealRepo) UpdateMealStats(ctx context.Context, id int64, outcome meal.Outcome) error {
	o, err := meal.ParseOutcome(string(outcome))
	if err != nil {
		return err
	}
	updates := map[string]any{"battles": gorm.Expr("battles + 1")}
	if o == meal.OutcomeWin {
		updates["wins"] = gorm.Expr("wins + 1")
	}
	return getDBFromCtx(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if _, err := liveRowForUpdate(tx, id); err != nil {
			return err
		}
		return tx.Model(&model.Meal{}).Where("id = ?", id).Updates(updates).Error
	})
}

func (r MealRepo) ClearMeals(ctx context.Context) error {
	return getDBFromCtx(ctx, r.db).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Meal{}).Error
}

func liveRowForUpdate(tx *gorm.DB, id int64) (model.Meal, error) {
	var row model.Meal
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Meal{}, fmt.Errorf("%w: meal with ID %d not found", ports.ErrNotFound, id)
		}
		return model.Meal{}, err
	}
	if row.Deleted {
		return model.Meal{}, fmt.Errorf("%w: meal with ID %d has been deleted", ports.ErrDeleted, id)
	}
	return row, nil
}

// toDomain re-validates the row so a bad record fails at the storage boundary.
func toDomain(row model.Meal) (meal.Meal, error) {
	m, err := meal.New(row.ID, row.Meal, row.Cuisine, row.Price, row.Difficulty)
	if err != nil {
		return meal.Meal{}, fmt.Errorf("load meal %d: %w", row.ID, err)
	}
	return m, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

var _ ports.MealRepository = MealRepo{}

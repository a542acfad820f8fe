// Package repo selects the meal store configured for a process.
package repo

import (
	"context"
	"fmt"

	gormrepo "mealmax/internal/adapter/repo/gorm"
	"mealmax/internal/adapter/repo/memory"
	"mealmax/internal/adapter/repo/sqlite"
	"mealmax/internal/app/ports"
	"mealmax/internal/config"
)

type Repos struct {
	Meals ports.MealRepository
	Tx    ports.TxManager
	Close func() error
}

func Open(ctx context.Context, cfg config.Config) (Repos, error) {
	switch cfg.Store {
	case config.StorePostgres:
		db, err := gormrepo.OpenAndMigrate(ctx, cfg.DSN)
		if err != nil {
			return Repos{}, err
		}
		return Repos{
			Meals: gormrepo.NewMealRepo(db),
			Tx:    gormrepo.NewTxManager(db),
			Close: func() error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		}, nil
	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return Repos{}, err
		}
		return Repos{
			Meals: sqlite.NewMealRepo(store),
			Tx:    sqlite.NewTxManager(store),
			Close: store.Close,
		}, nil
	case config.StoreMemory, "":
		store := memory.NewStore()
		return Repos{
			Meals: memory.NewMealRepo(store),
			Tx:    memory.NewTxManager(store),
			Close: func() error { return nil },
		}, nil
	default:
		return Repos{}, fmt.Errorf("unsupported store %q", cfg.Store)
	}
}

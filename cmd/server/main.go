package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	httpadapter "mealmax/internal/adapter/http"
	metricsinmem "mealmax/internal/adapter/metrics/inmemory"
	"mealmax/internal/adapter/repo"
	"mealmax/internal/app/battle"
	"mealmax/internal/app/kitchen"
	"mealmax/internal/config"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	repos, err := repo.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("open %s store: %v", cfg.Store, err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	h := buildHandler(cfg, repos, logger)

	s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	h.RegisterRoutes(s)

	log.Printf("mealmax server listening on %s (store: %s)", cfg.HTTPAddr, cfg.Store)
	s.Spin()
}

func buildHandler(cfg config.Config, repos repo.Repos, logger *slog.Logger) httpadapter.Handler {
	kpiRecorder := metricsinmem.NewRecorder()
	model := &battle.Model{
		Stats:   repos.Meals,
		Tx:      repos.Tx,
		Random:  battle.NewRandomSource(cfg.RandomSeed),
		Metrics: kpiRecorder,
		Logger:  logger.With("component", "battle"),
	}
	return httpadapter.Handler{
		KitchenUC: kitchen.UseCase{Meals: repos.Meals},
		Battle:    battle.NewSession(repos.Meals, model),
		KPI:       kpiRecorder,
		Logger:    logger.With("component", "http"),
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

package httpadapter

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"mealmax/internal/app/battle"
	"mealmax/internal/app/kitchen"
	"mealmax/internal/app/ports"
	"mealmax/internal/domain/meal"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

type Handler struct {
	KitchenUC kitchen.UseCase
	Battle    *battle.Session
	KPI       kpiSnapshotProvider
	Logger    *slog.Logger
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api")
	api.GET("/health", h.health)
	api.DELETE("/clear-meals", h.clearMeals)
	api.POST("/create-meal", h.createMeal)
	api.DELETE("/delete-meal/:id", h.deleteMeal)
	api.GET("/get-meal-by-id/:id", h.getMealByID)
	api.GET("/get-meal-by-name/:name", h.getMealByName)
	api.GET("/leaderboard", h.leaderboard)

	api.POST("/prep-combatant", h.prepCombatant)
	api.GET("/get-combatants", h.getCombatants)
	api.POST("/clear-combatants", h.clearCombatants)
	api.GET("/battle", h.battle)

	s.GET("/ops/kpi", h.kpi)
}

type createMealRequest struct {
	Meal       string          `json:"meal"`
	Cuisine    string          `json:"cuisine"`
	Price      decimal.Decimal `json:"price"`
	Difficulty string          `json:"difficulty"`
}

type prepCombatantRequest struct {
	Meal string `json:"meal"`
	ID   int64  `json:"id,omitempty"`
}

func (h Handler) health(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]any{"status": "healthy"})
}

func (h Handler) clearMeals(c context.Context, ctx *app.RequestContext) {
	if err := h.KitchenUC.ClearMeals(c); err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"status": "success"})
}

func (h Handler) createMeal(c context.Context, ctx *app.RequestContext) {
	var body createMealRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	created, err := h.KitchenUC.CreateMeal(c, kitchen.CreateMealRequest{
		Name:       body.Meal,
		Cuisine:    body.Cuisine,
		Price:      body.Price,
		Difficulty: body.Difficulty,
	})
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, map[string]any{"status": "success", "meal": created})
}

func (h Handler) deleteMeal(c context.Context, ctx *app.RequestContext) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := h.KitchenUC.DeleteMeal(c, id); err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"status": "success"})
}

func (h Handler) getMealByID(c context.Context, ctx *app.RequestContext) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	m, err := h.KitchenUC.GetMealByID(c, id)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"status": "success", "meal": m})
}

func (h Handler) getMealByName(c context.Context, ctx *app.RequestContext) {
	m, err := h.KitchenUC.GetMealByName(c, ctx.Param("name"))
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"status": "success", "meal": m})
}

func (h Handler) leaderboard(c context.Context, ctx *app.RequestContext) {
	entries, err := h.KitchenUC.Leaderboard(c, kitchen.LeaderboardRequest{SortBy: ctx.Query("sort")})
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"status": "success", "leaderboard": entries})
}

func (h Handler) prepCombatant(c context.Context, ctx *app.RequestContext) {
	var body prepCombatantRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	var err error
	if body.ID > 0 {
		_, err = h.Battle.PrepByID(c, body.ID)
	} else {
		_, err = h.Battle.PrepByName(c, body.Meal)
	}
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"status": "success", "combatants": h.Battle.Combatants()})
}

func (h Handler) getCombatants(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]any{"status": "success", "combatants": h.Battle.Combatants()})
}

func (h Handler) clearCombatants(_ context.Context, ctx *app.RequestContext) {
	h.Battle.Clear()
	ctx.JSON(consts.StatusOK, map[string]any{"status": "success"})
}

func (h Handler) battle(c context.Context, ctx *app.RequestContext) {
	result, err := h.Battle.Battle(c)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{
		"status": "success",
		"winner": result.Winner.Name,
		"result": result,
	})
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func pathID(ctx *app.RequestContext) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(ctx.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_id", "meal id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h Handler) writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, meal.ErrInvalidPrice):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_price", err.Error())
	case errors.Is(err, meal.ErrInvalidDifficulty):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_difficulty", err.Error())
	case errors.Is(err, meal.ErrInvalidResult):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_result", err.Error())
	case errors.Is(err, meal.ErrInvalidSortKey):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_sort_key", err.Error())
	case errors.Is(err, meal.ErrInvalidName),
		errors.Is(err, kitchen.ErrInvalidRequest),
		errors.Is(err, battle.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, battle.ErrCombatantsFull):
		writeErrorBody(ctx, consts.StatusConflict, "combatants_full", err.Error())
	case errors.Is(err, battle.ErrNotEnoughCombatants):
		writeErrorBody(ctx, consts.StatusConflict, "not_enough_combatants", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrDeleted):
		writeErrorBody(ctx, consts.StatusConflict, "meal_deleted", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		h.logger().Error("request failed", "path", string(ctx.Path()), "error", err)
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func (h Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	metricsinmem "mealmax/internal/adapter/metrics/inmemory"
	"mealmax/internal/adapter/repo/memory"
	"mealmax/internal/app/battle"
	"mealmax/internal/app/kitchen"
	"mealmax/internal/app/ports"
	"mealmax/internal/domain/meal"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/stretchr/testify/require"
)

type fixedRandom float64

func (f fixedRandom) Float64() float64 { return float64(f) }

func newTestServer(t *testing.T, roll float64) (*server.Hertz, *metricsinmem.Recorder) {
	t.Helper()
	store := memory.NewStore()
	meals := memory.NewMealRepo(store)
	recorder := metricsinmem.NewRecorder()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	model := &battle.Model{
		Stats:   meals,
		Tx:      memory.NewTxManager(store),
		Random:  fixedRandom(roll),
		Metrics: recorder,
		Logger:  logger,
	}
	h := Handler{
		KitchenUC: kitchen.UseCase{Meals: meals},
		Battle:    battle.NewSession(meals, model),
		KPI:       recorder,
		Logger:    logger,
	}
	s := server.New(server.WithHostPorts("127.0.0.1:0"))
	h.RegisterRoutes(s)
	return s, recorder
}

func doJSON(t *testing.T, s *server.Hertz, method, url string, body any) (int, map[string]any) {
	t.Helper()
	var reqBody *ut.Body
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = &ut.Body{Body: bytes.NewReader(b), Len: len(b)}
	}
	w := ut.PerformRequest(s.Engine, method, url, reqBody, ut.Header{Key: "Content-Type", Value: "application/json"})
	resp := w.Result()
	out := map[string]any{}
	if len(resp.Body()) > 0 {
		require.NoError(t, json.Unmarshal(resp.Body(), &out), string(resp.Body()))
	}
	return resp.StatusCode(), out
}

func errorCode(t *testing.T, body map[string]any) string {
	t.Helper()
	e, ok := body["error"].(map[string]any)
	require.True(t, ok, "missing error body: %v", body)
	code, _ := e["code"].(string)
	return code
}

func createMeal(t *testing.T, s *server.Hertz, name, cuisine string, price float64, difficulty string) {
	t.Helper()
	status, body := doJSON(t, s, consts.MethodPost, "/api/create-meal", map[string]any{
		"meal": name, "cuisine": cuisine, "price": price, "difficulty": difficulty,
	})
	require.Equal(t, consts.StatusCreated, status, "body=%v", body)
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, 0.4)
	status, body := doJSON(t, s, consts.MethodGet, "/api/health", nil)
	require.Equal(t, consts.StatusOK, status)
	require.Equal(t, "healthy", body["status"])
}

func TestBattleFlow(t *testing.T) {
	s, recorder := newTestServer(t, 0.4)
	createMeal(t, s, "Spaghetti", "Italian", 12.99, "MED")
	createMeal(t, s, "Sushi", "Japanese", 15.99, "HIGH")

	status, body := doJSON(t, s, consts.MethodGet, "/api/battle", nil)
	require.Equal(t, consts.StatusConflict, status)
	require.Equal(t, "not_enough_combatants", errorCode(t, body))

	for _, name := range []string{"Spaghetti", "Sushi"} {
		status, body = doJSON(t, s, consts.MethodPost, "/api/prep-combatant", map[string]any{"meal": name})
		require.Equal(t, consts.StatusOK, status, "body=%v", body)
	}

	status, body = doJSON(t, s, consts.MethodPost, "/api/prep-combatant", map[string]any{"meal": "Sushi"})
	require.Equal(t, consts.StatusConflict, status)
	require.Equal(t, "combatants_full", errorCode(t, body))

	status, body = doJSON(t, s, consts.MethodGet, "/api/battle", nil)
	require.Equal(t, consts.StatusOK, status, "body=%v", body)
	require.Equal(t, "Sushi", body["winner"])

	status, body = doJSON(t, s, consts.MethodGet, "/api/get-combatants", nil)
	require.Equal(t, consts.StatusOK, status)
	combatants, ok := body["combatants"].([]any)
	require.True(t, ok)
	require.Len(t, combatants, 1)

	status, body = doJSON(t, s, consts.MethodGet, "/api/leaderboard?sort=wins", nil)
	require.Equal(t, consts.StatusOK, status)
	board, ok := body["leaderboard"].([]any)
	require.True(t, ok)
	require.Len(t, board, 2)
	top := board[0].(map[string]any)
	require.Equal(t, "Sushi", top["meal"])
	require.Equal(t, 100.0, top["win_pct"])

	require.Equal(t, uint64(1), recorder.Snapshot().BattleSuccess)

	status, _ = doJSON(t, s, consts.MethodPost, "/api/clear-combatants", nil)
	require.Equal(t, consts.StatusOK, status)
	_, body = doJSON(t, s, consts.MethodGet, "/api/get-combatants", nil)
	require.Empty(t, body["combatants"])
}

func TestMealLifecycle(t *testing.T) {
	s, _ := newTestServer(t, 0.4)
	createMeal(t, s, "Ramen", "Japanese", 12.99, "MED")

	status, body := doJSON(t, s, consts.MethodPost, "/api/create-meal", map[string]any{
		"meal": "Ramen", "cuisine": "Japanese", "price": 12.99, "difficulty": "MED",
	})
	require.Equal(t, consts.StatusConflict, status)
	require.Equal(t, "conflict", errorCode(t, body))

	status, body = doJSON(t, s, consts.MethodGet, "/api/get-meal-by-name/Ramen", nil)
	require.Equal(t, consts.StatusOK, status)
	m := body["meal"].(map[string]any)
	require.Equal(t, "Ramen", m["meal"])
	require.Equal(t, "MED", m["difficulty"])
	require.Equal(t, 12.99, m["price"])

	status, _ = doJSON(t, s, consts.MethodGet, "/api/get-meal-by-id/1", nil)
	require.Equal(t, consts.StatusOK, status)

	status, _ = doJSON(t, s, consts.MethodDelete, "/api/delete-meal/1", nil)
	require.Equal(t, consts.StatusOK, status)

	status, body = doJSON(t, s, consts.MethodDelete, "/api/delete-meal/1", nil)
	require.Equal(t, consts.StatusConflict, status)
	require.Equal(t, "meal_deleted", errorCode(t, body))

	status, body = doJSON(t, s, consts.MethodGet, "/api/get-meal-by-id/1", nil)
	require.Equal(t, consts.StatusNotFound, status)
	require.Equal(t, "not_found", errorCode(t, body))

	status, body = doJSON(t, s, consts.MethodGet, "/api/get-meal-by-id/abc", nil)
	require.Equal(t, consts.StatusBadRequest, status)
	require.Equal(t, "invalid_id", errorCode(t, body))

	status, _ = doJSON(t, s, consts.MethodDelete, "/api/clear-meals", nil)
	require.Equal(t, consts.StatusOK, status)
}

func TestCreateMeal_ValidationErrors(t *testing.T) {
	s, _ := newTestServer(t, 0.4)

	status, body := doJSON(t, s, consts.MethodPost, "/api/create-meal", map[string]any{
		"meal": "Ramen", "cuisine": "Japanese", "price": -12.99, "difficulty": "MED",
	})
	require.Equal(t, consts.StatusBadRequest, status)
	require.Equal(t, "invalid_price", errorCode(t, body))

	for _, p := range []string{"0.001", "12.999", "100000000"} {
		status, body = doJSON(t, s, consts.MethodPost, "/api/create-meal", map[string]any{
			"meal": "Ramen", "cuisine": "Japanese", "price": json.Number(p), "difficulty": "MED",
		})
		require.Equal(t, consts.StatusBadRequest, status, p)
		require.Equal(t, "invalid_price", errorCode(t, body), p)
	}

	status, body = doJSON(t, s, consts.MethodPost, "/api/create-meal", map[string]any{
		"meal": "Ramen", "cuisine": "Japanese", "price": 12.99, "difficulty": "EASY",
	})
	require.Equal(t, consts.StatusBadRequest, status)
	require.Equal(t, "invalid_difficulty", errorCode(t, body))

	status, body = doJSON(t, s, consts.MethodGet, "/api/leaderboard?sort=price", nil)
	require.Equal(t, consts.StatusBadRequest, status)
	require.Equal(t, "invalid_sort_key", errorCode(t, body))
}

func TestKPI_NotConfigured(t *testing.T) {
	ctx := &app.RequestContext{}
	Handler{}.kpi(context.Background(), ctx)
	require.Equal(t, consts.StatusNotFound, ctx.Response.StatusCode())
}

func TestWriteError_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{err: meal.ErrInvalidResult, status: consts.StatusBadRequest, code: "invalid_result"},
		{err: kitchen.ErrInvalidRequest, status: consts.StatusBadRequest, code: "bad_request"},
		{err: battle.ErrCombatantsFull, status: consts.StatusConflict, code: "combatants_full"},
		{err: ports.ErrNotFound, status: consts.StatusNotFound, code: "not_found"},
		{err: errors.New("db down"), status: consts.StatusInternalServerError, code: "internal_error"},
	}
	h := Handler{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, tc := range cases {
		ctx := &app.RequestContext{}
		h.writeError(ctx, tc.err)

		if got := ctx.Response.StatusCode(); got != tc.status {
			t.Fatalf("%v: status mismatch: got=%d want=%d", tc.err, got, tc.status)
		}
		var body map[string]map[string]any
		if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if got := body["error"]["code"]; got != tc.code {
			t.Fatalf("%v: error code mismatch: got=%q want=%q", tc.err, got, tc.code)
		}
	}
}

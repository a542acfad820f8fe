package battle

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"slices"

	"mealmax/internal/app/ports"
	"mealmax/internal/domain/meal"

	"github.com/google/uuid"
)

const maxCombatants = 2

var (
	ErrCombatantsFull      = errors.New("combatant list is full, cannot add more combatants")
	ErrNotEnoughCombatants = errors.New("two combatants must be prepped for a battle")
	ErrNoRandomSource      = errors.New("battle random source not configured")
	ErrNoStatsRecorder     = errors.New("battle stats recorder not configured")
)

type Result struct {
	BattleID uuid.UUID `json:"battle_id"`
	Winner   meal.Meal `json:"winner"`
	Loser    meal.Meal `json:"loser"`
	Score1   float64   `json:"score_1"`
	Score2   float64   `json:"score_2"`
	Delta    float64   `json:"delta"`
	Roll     float64   `json:"roll"`
}

// Model holds the combatants of one battle session. It is not safe for
// concurrent use; see Session.
type Model struct {
	Stats   ports.MealStatsRecorder
	Tx      ports.TxManager
	Random  RandomSource
	Metrics ports.BattleMetrics
	Logger  *slog.Logger

	combatants []meal.Meal
}

func (m *Model) PrepCombatant(combatant meal.Meal) error {
	if len(m.combatants) >= maxCombatants {
		return ErrCombatantsFull
	}
	m.combatants = append(m.combatants, combatant)
	m.logger().Info("combatant prepped", "meal_id", combatant.ID, "meal", combatant.Name, "combatants", len(m.combatants))
	return nil
}

func (m *Model) ClearCombatants() {
	m.combatants = nil
}

func (m *Model) Combatants() []meal.Meal {
	return slices.Clone(m.combatants)
}

// Battle resolves the two prepped combatants. Combatant 0 wins when the draw
// is strictly below delta, so larger score gaps favor the first slot.
func (m *Model) Battle(ctx context.Context) (Result, error) {
	if len(m.combatants) != maxCombatants {
		return Result{}, ErrNotEnoughCombatants
	}
	if m.Random == nil {
		return Result{}, ErrNoRandomSource
	}
	if m.Stats == nil {
		return Result{}, ErrNoStatsRecorder
	}

	first, second := m.combatants[0], m.combatants[1]
	score1 := meal.BattleScore(first)
	score2 := meal.BattleScore(second)
	delta := math.Mod(math.Abs(score1-score2)/100, 1.0)
	roll := m.Random.Float64()

	winner, loser := second, first
	if roll < delta {
		winner, loser = first, second
	}

	record := func(ctx context.Context) error {
		if err := m.Stats.UpdateMealStats(ctx, winner.ID, meal.OutcomeWin); err != nil {
			return err
		}
		return m.Stats.UpdateMealStats(ctx, loser.ID, meal.OutcomeLoss)
	}
	var err error
	if m.Tx != nil {
		err = m.Tx.RunInTx(ctx, record)
	} else {
		err = record(ctx)
	}
	if err != nil {
		if m.Metrics != nil {
			m.Metrics.RecordFailure()
		}
		m.logger().Error("battle stats update failed", "winner_id", winner.ID, "loser_id", loser.ID, "error", err)
		return Result{}, err
	}

	m.combatants = []meal.Meal{winner}
	if m.Metrics != nil {
		m.Metrics.RecordBattle(winner.ID, loser.ID)
	}

	result := Result{
		BattleID: uuid.New(),
		Winner:   winner,
		Loser:    loser,
		Score1:   score1,
		Score2:   score2,
		Delta:    delta,
		Roll:     roll,
	}
	m.logger().Info("battle resolved",
		"battle_id", result.BattleID.String(),
		"winner", winner.Name,
		"loser", loser.Name,
		slog.Group("scores", "first", score1, "second", score2),
		"delta", delta,
		"roll", roll,
	)
	return result, nil
}

func (m *Model) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

package meal

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

func (d Difficulty) Modifier() int64 {
	switch d {
	case DifficultyLow:
		return 3
	case DifficultyMed:
		return 2
	case DifficultyHigh:
		return 1
	default:
		return 0
	}
}

// BattleScore is price * len(cuisine) - difficulty modifier.
func BattleScore(m Meal) float64 {
	length := decimal.NewFromInt(int64(utf8.RuneCountInString(m.Cuisine)))
	score := m.Price.Mul(length).Sub(decimal.NewFromInt(m.Difficulty.Modifier()))
	return score.InexactFloat64()
}

package meal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPrice      = errors.New("invalid price")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidResult     = errors.New("invalid result")
	ErrInvalidSortKey    = errors.New("invalid sort key")
	ErrInvalidName       = errors.New("invalid meal name")
)

type Difficulty string

const (
	DifficultyLow  Difficulty = "LOW"
	DifficultyMed  Difficulty = "MED"
	DifficultyHigh Difficulty = "HIGH"
)

func ParseDifficulty(raw string) (Difficulty, error) {
	d := Difficulty(strings.TrimSpace(raw))
	switch d {
	case DifficultyLow, DifficultyMed, DifficultyHigh:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %s. must be 'LOW', 'MED', or 'HIGH'", ErrInvalidDifficulty, raw)
	}
}

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

func ParseOutcome(raw string) (Outcome, error) {
	o := Outcome(strings.TrimSpace(raw))
	switch o {
	case OutcomeWin, OutcomeLoss:
		return o, nil
	default:
		return "", fmt.Errorf("%w: %s. expected 'win' or 'loss'", ErrInvalidResult, raw)
	}
}

type SortKey string

const (
	SortByWins   SortKey = "wins"
	SortByWinPct SortKey = "win_pct"
)

// ParseSortKey treats an empty key as SortByWins.
func ParseSortKey(raw string) (SortKey, error) {
	k := SortKey(strings.TrimSpace(raw))
	switch k {
	case "":
		return SortByWins, nil
	case SortByWins, SortByWinPct:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidSortKey, raw)
	}
}

// MaxPrice is the largest price every meal store can hold exactly.
var MaxPrice = decimal.RequireFromString("99999999.99")

// ValidatePrice accepts positive prices of at most two decimal places, up to MaxPrice.
func ValidatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return fmt.Errorf("%w: %s. price must be a positive number", ErrInvalidPrice, price.String())
	}
	if !price.Equal(price.Round(2)) {
		return fmt.Errorf("%w: %s. price must have at most two decimal places", ErrInvalidPrice, price.String())
	}
	if price.GreaterThan(MaxPrice) {
		return fmt.Errorf("%w: %s. price must not exceed %s", ErrInvalidPrice, price.String(), MaxPrice.StringFixed(2))
	}
	return nil
}

// Meal is a stored meal as seen by the battle engine. Battle statistics are
// owned by persistence and never carried on this value.
type Meal struct {
	ID         int64           `json:"id"`
	Name       string          `json:"meal"`
	Cuisine    string          `json:"cuisine"`
	Price      decimal.Decimal `json:"price"`
	Difficulty Difficulty      `json:"difficulty"`
}

// MarshalJSON writes price as a JSON number.
func (m Meal) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         int64       `json:"id"`
		Name       string      `json:"meal"`
		Cuisine    string      `json:"cuisine"`
		Price      json.Number `json:"price"`
		Difficulty Difficulty  `json:"difficulty"`
	}{m.ID, m.Name, m.Cuisine, json.Number(m.Price.String()), m.Difficulty})
}

// New builds a Meal from raw storage or request fields.
func New(id int64, name, cuisine string, price decimal.Decimal, difficulty string) (Meal, error) {
	name = strings.TrimSpace(name)
	cuisine = strings.TrimSpace(cuisine)
	if name == "" || cuisine == "" {
		return Meal{}, fmt.Errorf("%w: meal and cuisine are required", ErrInvalidName)
	}
	if err := ValidatePrice(price); err != nil {
		return Meal{}, err
	}
	d, err := ParseDifficulty(difficulty)
	if err != nil {
		return Meal{}, err
	}
	return Meal{ID: id, Name: name, Cuisine: cuisine, Price: price, Difficulty: d}, nil
}

type LeaderboardEntry struct {
	ID         int64           `json:"id"`
	Meal       string          `json:"meal"`
	Cuisine    string          `json:"cuisine"`
	Price      decimal.Decimal `json:"price"`
	Difficulty Difficulty      `json:"difficulty"`
	Battles    int64           `json:"battles"`
	Wins       int64           `json:"wins"`
	WinPct     float64         `json:"win_pct"`
}

func (e LeaderboardEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         int64       `json:"id"`
		Meal       string      `json:"meal"`
		Cuisine    string      `json:"cuisine"`
		Price      json.Number `json:"price"`
		Difficulty Difficulty  `json:"difficulty"`
		Battles    int64       `json:"battles"`
		Wins       int64       `json:"wins"`
		WinPct     float64     `json:"win_pct"`
	}{e.ID, e.Meal, e.Cuisine, json.Number(e.Price.String()), e.Difficulty, e.Battles, e.Wins, e.WinPct})
}

// WinPct returns wins/battles as a percentage rounded to one decimal place.
func WinPct(wins, battles int64) float64 {
	if battles <= 0 {
		return 0
	}
	pct := decimal.NewFromInt(wins).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(battles))
	return pct.Round(1).InexactFloat64()
}

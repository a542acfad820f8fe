package kitchen

import "github.com/shopspring/decimal"

type CreateMealRequest struct {
	Name       string
	Cuisine    string
	Price      decimal.Decimal
	Difficulty string
}

type LeaderboardRequest struct {
	SortBy string
}
